// Package factory turns entity definitions into live entities.
//
// Every factory keeps its definitions keyed by entity reference along with
// the script listeners registered for each reference. Cloning is written
// once against the Creator capability rather than per factory.
package factory

import (
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/behaviors"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// Creator is implemented by factories that can build an entity from an
// area and entity reference.
type Creator[T any] interface {
	Create(area, ref string) (T, error)
}

// Named is implemented by every factory.
type Named interface {
	Name() string
}

// Prototype is an entity that knows the definition it came from.
type Prototype interface {
	Origin() (area, ref string)
}

// Listener is an entity script subscriptions can be attached to.
type Listener interface {
	core.Entity
	Listen(subs ...eventbus.Subscription)
}

// Clone creates a new entity from the same definition as entity. f must
// implement Creator[T].
func Clone[T any](f Named, entity Prototype) (T, error) {
	var zero T
	creator, ok := f.(Creator[T])
	if !ok {
		return zero, errors.Unimplementedf("%s must implement create() to support clone()", f.Name()).
			WithMeta("factory", f.Name())
	}
	if entity == nil {
		return zero, errors.InvalidArgument("clone(entity) requires an entity with entityReference")
	}
	area, ref := entity.Origin()
	if ref == "" {
		return zero, errors.InvalidArgument("clone(entity) requires an entity with entityReference").
			WithMeta("factory", f.Name())
	}
	return creator.Create(area, ref)
}

// Base holds the definitions and scripts shared by all factories.
type Base[D any] struct {
	name        string
	definitions map[string]*D
	scripts     *behaviors.Manager
}

// NewBase creates an empty base for the factory called name.
func NewBase[D any](name string) Base[D] {
	return Base[D]{
		name:        name,
		definitions: make(map[string]*D),
		scripts:     behaviors.NewManager(),
	}
}

// Name returns the factory name used in errors.
func (b *Base[D]) Name() string {
	return b.name
}

// SetDefinition stores def under ref, replacing any earlier definition.
func (b *Base[D]) SetDefinition(ref string, def *D) {
	b.definitions[ref] = def
}

// GetDefinition returns the definition stored under ref.
func (b *Base[D]) GetDefinition(ref string) (*D, bool) {
	def, ok := b.definitions[ref]
	return def, ok
}

// Has reports whether a definition is stored under ref.
func (b *Base[D]) Has(ref string) bool {
	_, ok := b.definitions[ref]
	return ok
}

// References returns every stored entity reference, sorted.
func (b *Base[D]) References() []string {
	refs := make([]string, 0, len(b.definitions))
	for ref := range b.definitions {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// SetEntityScript registers a script listener for entities created from ref.
func (b *Base[D]) SetEntityScript(ref string, listener behaviors.Listener) {
	b.scripts.Add(ref, listener)
}

// HasScript reports whether ref has a script.
func (b *Base[D]) HasScript(ref string) bool {
	return b.scripts.Has(ref)
}

func (b *Base[D]) definition(ref string) (*D, error) {
	def, ok := b.definitions[ref]
	if !ok {
		return nil, errors.NotFoundf("%s has no definition for %s", b.name, ref).
			WithMeta("entity", ref)
	}
	return def, nil
}

// attachScript subscribes ref's script, if any, to entity.
func (b *Base[D]) attachScript(ref string, entity Listener) error {
	if !b.scripts.Has(ref) {
		return nil
	}
	group, err := b.scripts.Attach(ref, entity, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to attach script for %s", ref)
	}
	entity.Listen(group...)
	return nil
}
