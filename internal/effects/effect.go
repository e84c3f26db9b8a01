// Package effects implements timed status effects, the per-character list
// that folds their modifiers, and the factory that creates them from
// definitions.
package effects

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

const (
	// StateStacks holds the current stack count of a stacking effect.
	StateStacks = "stacks"
	// StateLastTick holds the unix millis of the last Tick of an effect with
	// a tick interval.
	StateLastTick = "lastTick"
)

// Target is the entity an effect is attached to.
type Target interface {
	core.Entity
}

// AttributeModifier changes the effective max of one attribute.
type AttributeModifier func(e *Effect, current float64) float64

// AttributeFunc changes the effective max of any attribute by name.
type AttributeFunc func(e *Effect, attribute string, current float64) float64

// DamageModifier changes a damage amount in flight.
type DamageModifier func(e *Effect, d *damage.Damage, current float64) float64

// Modifiers are the hooks an effect applies while it is active and not paused.
// AttributeFunc takes precedence over Attributes when both are set.
type Modifiers struct {
	Attributes     map[string]AttributeModifier
	AttributeFunc  AttributeFunc
	IncomingDamage DamageModifier
	OutgoingDamage DamageModifier
}

// Events are the notifications raised by a single effect.
type Events struct {
	Added       eventbus.Topic[*Effect]
	Activated   eventbus.Topic[*Effect]
	Deactivated eventbus.Topic[*Effect]
	Removed     eventbus.Topic[*Effect]
	Tick        eventbus.Topic[*Effect]
	// Refreshed and StackAdded carry the incoming effect that was folded
	// into this one.
	Refreshed  eventbus.Topic[*Effect]
	StackAdded eventbus.Topic[*Effect]
}

// Effect is a status modifier on a character.
type Effect struct {
	ID        string
	Flags     []string
	Config    Config
	State     map[string]any
	Modifiers Modifiers
	// Skill is the id of the skill that applied the effect, if any.
	Skill string

	Events Events

	clock     clock.Clock
	startedAt time.Time
	paused    *int64
	active    bool
	target    Target
	list      *List
}

// Name returns the configured name.
func (e *Effect) Name() string {
	return e.Config.Name
}

// Description returns the configured description.
func (e *Effect) Description() string {
	return e.Config.Description
}

// Duration returns the configured duration.
func (e *Effect) Duration() Duration {
	return e.Config.Duration
}

// SetDuration changes the configured duration.
func (e *Effect) SetDuration(d Duration) {
	e.Config.Duration = d
}

// Target returns the character the effect is attached to, or nil.
func (e *Effect) Target() Target {
	return e.target
}

// Active reports whether the effect has been activated.
func (e *Effect) Active() bool {
	return e.active
}

// Paused returns the elapsed milliseconds frozen at pause time.
func (e *Effect) Paused() (int64, bool) {
	if e.paused == nil {
		return 0, false
	}
	return *e.paused, true
}

// StartedAt returns when the effect's duration started counting.
func (e *Effect) StartedAt() time.Time {
	return e.startedAt
}

// Elapsed returns the milliseconds the effect has been running. The second
// value is false until the effect has started.
func (e *Effect) Elapsed() (int64, bool) {
	if e.startedAt.IsZero() {
		return 0, false
	}
	if e.paused != nil {
		return *e.paused, true
	}
	return clock.Since(e.clock, e.startedAt), true
}

// Remaining returns the milliseconds left before the effect expires.
func (e *Effect) Remaining() Duration {
	if e.Config.Duration.IsInfinite() {
		return Infinite
	}
	elapsed, _ := e.Elapsed()
	return e.Config.Duration - Duration(elapsed)
}

// IsCurrent reports whether the effect has not yet run its course.
func (e *Effect) IsCurrent() bool {
	if e.Config.Duration.IsInfinite() {
		return true
	}
	elapsed, ok := e.Elapsed()
	if !ok {
		return true
	}
	return Duration(elapsed) < e.Config.Duration
}

// Stacks returns the stack count of a stacking effect.
func (e *Effect) Stacks() int {
	return intState(e.State[StateStacks])
}

// Activate starts the effect. Elapsed time keeps counting from the first
// activation. Activating an active effect does nothing.
func (e *Effect) Activate() {
	if e.active {
		return
	}
	if e.startedAt.IsZero() {
		e.startedAt = e.clock.Now()
	}
	e.active = true
	e.Events.Activated.Publish(e)
}

// Deactivate stops the effect's modifiers from applying. The effect stays in
// its list.
func (e *Effect) Deactivate() {
	if !e.active {
		return
	}
	e.active = false
	e.Events.Deactivated.Publish(e)
}

// Remove detaches the effect from its list. Removing a detached effect does
// nothing.
func (e *Effect) Remove() error {
	if e.list == nil {
		return nil
	}
	return e.list.Remove(e)
}

// Pause freezes elapsed time and suspends the modifiers.
func (e *Effect) Pause() {
	if e.paused != nil {
		return
	}
	elapsed, _ := e.Elapsed()
	e.paused = &elapsed
}

// Resume shifts the start forward by the paused time and clears the pause.
func (e *Effect) Resume() {
	if e.paused == nil {
		return
	}
	e.startedAt = e.clock.Now().Add(-time.Duration(*e.paused) * time.Millisecond)
	e.paused = nil
}

func (e *Effect) applying() bool {
	return e.active && e.paused == nil
}

// ModifyAttribute applies the attribute modifier for attribute.
func (e *Effect) ModifyAttribute(attribute string, current float64) float64 {
	if !e.applying() {
		return current
	}
	if e.Modifiers.AttributeFunc != nil {
		return e.Modifiers.AttributeFunc(e, attribute, current)
	}
	if modifier, ok := e.Modifiers.Attributes[attribute]; ok && modifier != nil {
		return modifier(e, current)
	}
	return current
}

// ModifyIncomingDamage applies the incoming damage modifier.
func (e *Effect) ModifyIncomingDamage(d *damage.Damage, current float64) float64 {
	if !e.applying() || e.Modifiers.IncomingDamage == nil {
		return current
	}
	return e.Modifiers.IncomingDamage(e, d, current)
}

// ModifyOutgoingDamage applies the outgoing damage modifier.
func (e *Effect) ModifyOutgoingDamage(d *damage.Damage, current float64) float64 {
	if !e.applying() || e.Modifiers.OutgoingDamage == nil {
		return current
	}
	return e.Modifiers.OutgoingDamage(e, d, current)
}

func (e *Effect) refresh(incoming *Effect) {
	e.startedAt = e.clock.Now()
	if e.paused != nil {
		zero := int64(0)
		e.paused = &zero
	}
	e.Events.Refreshed.Publish(incoming)
}

func (e *Effect) addStack(incoming *Effect) {
	e.State[StateStacks] = e.Stacks() + 1
	e.Events.StackAdded.Publish(incoming)
}

// intState reads a number stored in effect state. Values restored from JSON
// arrive as float64.
func intState(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func int64State(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// Topic is the event topic type used for effect lifecycle events.
type Topic = eventbus.Topic[*Effect]
