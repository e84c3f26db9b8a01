package scripting

import (
	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
)

// Effect hook names.
const (
	HookModifyAttribute = "modifyAttribute"
	HookIncomingDamage  = "incomingDamage"
	HookOutgoingDamage  = "outgoingDamage"
	HookAdded           = "onAdded"
	HookActivated       = "onActivated"
	HookDeactivated     = "onDeactivated"
	HookRemoved         = "onRemoved"
	HookTick            = "onTick"
	HookRefreshed       = "onRefreshed"
	HookStackAdded      = "onStackAdded"
)

// EffectHooks turns the hooks a script defines into effect modifiers and
// handlers. Hooks the script does not define are left nil.
//
//	modifyAttribute(name, current) -> number
//	incomingDamage(amount, attribute) -> number
//	outgoingDamage(amount, attribute) -> number
//	onAdded() onActivated() onDeactivated() onRemoved() onTick()
//	onRefreshed() onStackAdded()
func EffectHooks(s *Script) (effects.Modifiers, effects.Handlers) {
	var mods effects.Modifiers
	var handlers effects.Handlers

	if s.Has(HookModifyAttribute) {
		mods.AttributeFunc = func(e *effects.Effect, attribute string, current float64) float64 {
			result := current
			s.withEffect(e, func() {
				result = s.callHook(HookModifyAttribute, current, attribute, current)
			})
			return result
		}
	}
	if s.Has(HookIncomingDamage) {
		mods.IncomingDamage = s.damageHook(HookIncomingDamage)
	}
	if s.Has(HookOutgoingDamage) {
		mods.OutgoingDamage = s.damageHook(HookOutgoingDamage)
	}

	handlers.Added = s.effectHook(HookAdded)
	handlers.Activated = s.effectHook(HookActivated)
	handlers.Deactivated = s.effectHook(HookDeactivated)
	handlers.Removed = s.effectHook(HookRemoved)
	handlers.Tick = s.effectHook(HookTick)
	if fn := s.effectHook(HookRefreshed); fn != nil {
		handlers.Refreshed = func(e, _ *effects.Effect) { fn(e) }
	}
	if fn := s.effectHook(HookStackAdded); fn != nil {
		handlers.StackAdded = func(e, _ *effects.Effect) { fn(e) }
	}

	return mods, handlers
}

func (s *Script) damageHook(name string) effects.DamageModifier {
	return func(e *effects.Effect, d *damage.Damage, current float64) float64 {
		result := current
		s.withEffect(e, func() {
			result = s.callHook(name, current, current, d.Attribute)
		})
		return result
	}
}

func (s *Script) effectHook(name string) func(*effects.Effect) {
	if !s.Has(name) {
		return nil
	}
	return func(e *effects.Effect) {
		s.withEffect(e, func() {
			s.callHook(name, 0)
		})
	}
}
