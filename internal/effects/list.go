package effects

import (
	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// ListEvents are raised on behalf of the list's target.
type ListEvents struct {
	EffectAdded   eventbus.Topic[*Effect]
	EffectRemoved eventbus.Topic[*Effect]
}

// List is the ordered set of effects on one target.
type List struct {
	Events ListEvents

	target  Target
	effects []*Effect
}

// NewList creates an empty list owned by target.
func NewList(target Target) *List {
	return &List{target: target}
}

// Target returns the owner of the list.
func (l *List) Target() Target {
	return l.target
}

// Size returns the number of effects.
func (l *List) Size() int {
	return len(l.effects)
}

// Entries returns the effects in insertion order.
func (l *List) Entries() []*Effect {
	return append([]*Effect(nil), l.effects...)
}

// HasEffectType reports whether an effect of the given type is present.
func (l *List) HasEffectType(effectType string) bool {
	return l.GetByType(effectType) != nil
}

// GetByType returns the first effect of the given type, or nil.
func (l *List) GetByType(effectType string) *Effect {
	for _, e := range l.effects {
		if e.Config.Type == effectType {
			return e
		}
	}
	return nil
}

// Add attaches effect to the target. When an effect of the same type is
// already present the rules run in this order: stack if below the existing
// effect's cap, refresh if it refreshes, reject if it is unique (stacking
// implies unique). Only the existing effect's config decides. The returned
// bool reports whether the list changed.
func (l *List) Add(effect *Effect) (bool, error) {
	if effect.list != nil {
		return false, errors.FailedPreconditionf("effect %s is already attached to a target", effect.ID)
	}

	for _, existing := range l.effects {
		if existing.Config.Type != effect.Config.Type {
			continue
		}

		if existing.Config.stacking() && existing.Stacks() < existing.Config.MaxStacks {
			existing.addStack(effect)
			return true, nil
		}

		if existing.Config.Refreshes {
			existing.refresh(effect)
			return true, nil
		}

		if existing.Config.Unique || existing.Config.stacking() {
			return false, nil
		}
	}

	l.effects = append(l.effects, effect)
	effect.target = l.target
	effect.list = l

	effect.Events.Added.Publish(effect)
	l.Events.EffectAdded.Publish(effect)

	if effect.Config.AutoActivate {
		effect.Activate()
	}

	return true, nil
}

// Remove deactivates effect and detaches it from the list.
func (l *List) Remove(effect *Effect) error {
	index := -1
	for i, e := range l.effects {
		if e == effect {
			index = i
			break
		}
	}
	if index < 0 {
		return errors.NotFoundf("Trying to remove effect %s that was never added", effect.ID).
			WithMeta("effect_id", effect.ID)
	}

	effect.Deactivate()
	l.effects = append(l.effects[:index:index], l.effects[index+1:]...)
	effect.list = nil

	effect.Events.Removed.Publish(effect)
	l.Events.EffectRemoved.Publish(effect)

	return nil
}

// Clear drops every effect without raising removal events.
func (l *List) Clear() {
	for _, e := range l.effects {
		e.list = nil
	}
	l.effects = nil
}

// ValidateEffects removes effects that have run past their duration.
func (l *List) ValidateEffects() {
	for _, e := range l.Entries() {
		if !e.IsCurrent() {
			// The effect was found in the list a moment ago, removal cannot fail.
			_ = l.Remove(e)
		}
	}
}

// Tick expires stale effects and then raises Tick on every active, unpaused
// effect whose tick interval has passed.
func (l *List) Tick() {
	l.ValidateEffects()

	for _, e := range l.Entries() {
		if !e.applying() {
			continue
		}

		if e.Config.TickInterval > 0 {
			now := e.clock.Now().UnixMilli()
			if last, ok := int64State(e.State[StateLastTick]); ok {
				if float64(now-last) < e.Config.TickInterval*1000 {
					continue
				}
			}
			e.State[StateLastTick] = now
		}

		e.Events.Tick.Publish(e)
	}
}

// EvaluateAttribute folds every effect's attribute modifier over base in
// insertion order. Inactive and paused effects leave the value unchanged.
func (l *List) EvaluateAttribute(name string, base float64) float64 {
	value := base
	for _, e := range l.effects {
		value = e.ModifyAttribute(name, value)
	}
	return value
}

// EvaluateIncomingDamage folds the incoming damage modifiers.
func (l *List) EvaluateIncomingDamage(d *damage.Damage, amount float64) float64 {
	for _, e := range l.effects {
		amount = e.ModifyIncomingDamage(d, amount)
	}
	return amount
}

// EvaluateOutgoingDamage folds the outgoing damage modifiers.
func (l *List) EvaluateOutgoingDamage(d *damage.Damage, amount float64) float64 {
	for _, e := range l.effects {
		amount = e.ModifyOutgoingDamage(d, amount)
	}
	return amount
}
