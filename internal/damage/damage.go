// Package damage resolves pending attribute changes through the attacker's
// and target's effect modifier chains before applying them.
package damage

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Dealer is the side that caused the damage.
type Dealer interface {
	core.Entity
	EvaluateOutgoingDamage(d *Damage, amount float64) float64
	NotifyHit(Event)
}

// Receiver is the side whose attribute changes.
type Receiver interface {
	core.Entity
	EvaluateIncomingDamage(d *Damage, amount float64) float64
	HasAttribute(name string) bool
	LowerAttribute(name string, amount float64) error
	RaiseAttribute(name string, amount float64) error
	NotifyDamaged(Event)
}

// Event is published on both sides once damage has been committed. Amount
// is the final amount; a negative value means the target was healed.
type Event struct {
	Damage *Damage
	Target Receiver
	Amount float64
}

// Config describes a damage instance.
type Config struct {
	Attribute string
	Amount    float64
	Attacker  Dealer
	Source    any
	Metadata  map[string]any
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("attribute", c.Attribute, vb)
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		vb.Field("amount", "must be a finite number")
	}
	return vb.Build()
}

// Damage is a proposed change to one of the target's attributes.
type Damage struct {
	Attribute string
	Amount    float64
	Attacker  Dealer
	Source    any
	Metadata  map[string]any
}

// New builds a damage value.
func New(cfg *Config) (*Damage, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metadata := cfg.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Damage{
		Attribute: cfg.Attribute,
		Amount:    cfg.Amount,
		Attacker:  cfg.Attacker,
		Source:    cfg.Source,
		Metadata:  metadata,
	}, nil
}

// Evaluate threads the amount through the attacker's outgoing modifiers and
// then the target's incoming modifiers. It does not change anything.
func (d *Damage) Evaluate(target Receiver) float64 {
	amount := d.Amount
	if d.Attacker != nil {
		amount = d.Attacker.EvaluateOutgoingDamage(d, amount)
	}
	return target.EvaluateIncomingDamage(d, amount)
}

// Commit evaluates the damage and applies it to the target. A negative final
// amount raises the attribute instead of lowering it.
func (d *Damage) Commit(target Receiver) (float64, error) {
	if !target.HasAttribute(d.Attribute) {
		return 0, errors.NotFoundf("%s %s does not have attribute %s",
			target.GetType(), target.GetID(), d.Attribute).
			WithMeta("attribute", d.Attribute)
	}

	amount := d.Evaluate(target)

	var err error
	if amount < 0 {
		err = target.RaiseAttribute(d.Attribute, -amount)
	} else {
		err = target.LowerAttribute(d.Attribute, amount)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed to apply damage to %s", d.Attribute)
	}

	event := Event{Damage: d, Target: target, Amount: amount}
	if d.Attacker != nil {
		d.Attacker.NotifyHit(event)
	}
	target.NotifyDamaged(event)

	return amount, nil
}
