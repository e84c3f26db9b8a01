package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// World event types published on the relay bus.
const (
	EventAttributeUpdate = "character.attribute.update"
	EventDamaged         = "character.damaged"
	EventCombatStart     = "character.combat.start"
	EventCombatEnd       = "character.combat.end"
	EventEnterRoom       = "character.room.enter"
	EventEffectAdded     = "character.effect.added"
	EventEffectRemoved   = "character.effect.removed"
	EventKilled          = "character.killed"
)

// Event context keys.
const (
	KeyAttribute = "attribute"
	KeyAmount    = "amount"
	KeyCurrent   = "current"
	KeyEffect    = "effect"
)

// Relay republishes character events onto a world event bus so consumers
// outside the entity graph (connections, logging, admin) can subscribe by
// event type.
type Relay struct {
	bus     events.EventBus
	watched map[*entities.Character]*eventbus.Group
}

// NewRelay creates a relay publishing to bus.
func NewRelay(bus events.EventBus) *Relay {
	return &Relay{
		bus:     bus,
		watched: make(map[*entities.Character]*eventbus.Group),
	}
}

// Bus returns the world event bus.
func (r *Relay) Bus() events.EventBus {
	return r.bus
}

// Watch starts relaying c's events. Watching twice is a no-op.
func (r *Relay) Watch(c *entities.Character) {
	if _, ok := r.watched[c]; ok {
		return
	}

	group := &eventbus.Group{}
	group.Add(
		c.Events.AttributeUpdate.Subscribe(func(u entities.AttributeUpdate) {
			r.publish(EventAttributeUpdate, c, nil, map[string]any{
				KeyAttribute: u.Attribute,
				KeyCurrent:   u.Current,
			})
		}),
		c.Events.Damaged.Subscribe(func(e damage.Event) {
			var source core.Entity
			if e.Damage.Attacker != nil {
				source = e.Damage.Attacker
			}
			r.publish(EventDamaged, source, c, map[string]any{
				KeyAttribute: e.Damage.Attribute,
				KeyAmount:    e.Amount,
			})
		}),
		c.Events.CombatStart.Subscribe(func(*entities.Character) {
			r.publish(EventCombatStart, c, nil, nil)
		}),
		c.Events.CombatEnd.Subscribe(func(*entities.Character) {
			r.publish(EventCombatEnd, c, nil, nil)
		}),
		c.Events.EnterRoom.Subscribe(func(room *entities.Room) {
			r.publish(EventEnterRoom, c, room, nil)
		}),
		c.Effects().Events.EffectAdded.Subscribe(func(e *effects.Effect) {
			r.publish(EventEffectAdded, c, nil, map[string]any{KeyEffect: e.ID})
		}),
		c.Effects().Events.EffectRemoved.Subscribe(func(e *effects.Effect) {
			r.publish(EventEffectRemoved, c, nil, map[string]any{KeyEffect: e.ID})
		}),
	)
	r.watched[c] = group
}

// Unwatch stops relaying c's events.
func (r *Relay) Unwatch(c *entities.Character) {
	group, ok := r.watched[c]
	if !ok {
		return
	}
	group.Unsubscribe()
	delete(r.watched, c)
}

// Killed publishes a death.
func (r *Relay) Killed(killer, victim *entities.Character) {
	r.publish(EventKilled, killer, victim, nil)
}

func (r *Relay) publish(eventType string, source, target core.Entity, data map[string]any) {
	event := events.NewGameEvent(eventType, source, target)
	for k, v := range data {
		event.Context().Set(k, v)
	}
	if err := r.bus.Publish(context.Background(), event); err != nil {
		slog.Warn("failed to relay event",
			"type", eventType,
			"error", err.Error())
	}
}
