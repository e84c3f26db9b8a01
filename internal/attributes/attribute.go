// Package attributes models character stats: a base value, a depletable
// delta, optional formulas for derived stats, and the factory that holds the
// definitions loaded from bundles.
package attributes

import (
	"math"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Attribute is a named stat. Delta never goes above zero through Raise and
// Lower, so the current value never exceeds the base.
type Attribute struct {
	Name     string
	Formula  *Formula
	Metadata map[string]any

	base  float64
	delta float64
}

// Data is the persisted state of an attribute.
type Data struct {
	Base  float64 `json:"base" yaml:"base"`
	Delta float64 `json:"delta" yaml:"delta"`
}

// New builds an attribute. Positive deltas are clamped to zero.
func New(name string, base, delta float64, formula *Formula, metadata map[string]any) (*Attribute, error) {
	if !isFinite(base) {
		return nil, errors.InvalidArgument("Base attribute must be a number").
			WithMeta("attribute", name)
	}
	if !isFinite(delta) {
		return nil, errors.InvalidArgument("Attribute delta must be a number").
			WithMeta("attribute", name)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Attribute{
		Name:     name,
		Formula:  formula,
		Metadata: metadata,
		base:     base,
		delta:    math.Min(0, delta),
	}, nil
}

// Base returns the unmodified base value.
func (a *Attribute) Base() float64 {
	return a.base
}

// Delta returns the current depletion, always <= 0 unless set through SetDelta.
func (a *Attribute) Delta() float64 {
	return a.delta
}

// Current returns base + delta without any effect modifiers.
func (a *Attribute) Current() float64 {
	return a.base + a.delta
}

// Lower depletes the attribute. The current value bottoms out at zero.
func (a *Attribute) Lower(amount float64) {
	a.delta = math.Max(a.delta-amount, -a.base)
}

// Raise restores the attribute, never past its base.
func (a *Attribute) Raise(amount float64) {
	a.delta = math.Min(a.delta+amount, 0)
}

// SetBase changes the base value, flooring at zero. Delta is left alone.
func (a *Attribute) SetBase(amount float64) {
	a.base = math.Max(0, amount)
}

// SetDelta sets the delta directly, skipping the clamping of Raise and Lower.
func (a *Attribute) SetDelta(amount float64) {
	a.delta = amount
}

// Serialize returns the persisted state. Formula and metadata belong to the
// definition and are not saved per instance.
func (a *Attribute) Serialize() Data {
	return Data{Base: a.base, Delta: a.delta}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
