// Package behaviors is the registry of named script listeners that get
// attached to npcs, items, rooms, and areas when they are hydrated.
package behaviors

import (
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// Listener subscribes one behavior to the entity's events. config is the
// per-entity behavior configuration from the entity definition, or nil.
type Listener func(entity core.Entity, config any) []eventbus.Subscription

// Manager maps a behavior name to its listeners, in registration order.
type Manager struct {
	listeners map[string][]Listener
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{listeners: make(map[string][]Listener)}
}

// Add registers a listener under name.
func (m *Manager) Add(name string, listener Listener) {
	m.listeners[name] = append(m.listeners[name], listener)
}

// Has reports whether any listener is registered under name.
func (m *Manager) Has(name string) bool {
	return len(m.listeners[name]) > 0
}

// Names returns the registered behavior names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.listeners))
	for name := range m.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attach runs every listener registered under name against entity and
// returns the resulting subscriptions. Detaching is releasing the group.
func (m *Manager) Attach(name string, entity core.Entity, config any) (eventbus.Group, error) {
	listeners, ok := m.listeners[name]
	if !ok || len(listeners) == 0 {
		return nil, errors.NotFoundf("no behavior registered as %s", name).
			WithMeta("behavior", name).
			WithMeta("entity", entity.GetID())
	}

	var group eventbus.Group
	for _, listener := range listeners {
		group.Add(listener(entity, config)...)
	}
	return group, nil
}
