// Package combat resolves combat rounds between characters.
package combat

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Weapon metadata keys.
const (
	MetaDamage = "damage"
	MetaSpeed  = "speed"
)

const (
	DefaultAttribute  = "health"
	DefaultWeaponSlot = "wield"
	DefaultUnarmed    = "1d4"
	DefaultSpeed      = 2500 * time.Millisecond
)

// Round is the outcome of one attack.
type Round struct {
	Attacker *entities.Character
	Target   *entities.Character
	Weapon   *entities.Item
	Roll     int
	// Amount is the damage after both sides' effect modifiers.
	Amount float64
	Killed bool
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	Roller dice.Roller
	// Attribute is lowered by attacks. Defaults to health.
	Attribute string
	// WeaponSlot is the equipment slot attacks are made with. Defaults to wield.
	WeaponSlot string
	// Unarmed is the damage notation without a weapon. Defaults to 1d4.
	Unarmed string
	// Speed is the round lag without a weapon speed. Defaults to 2.5s.
	Speed time.Duration
}

// Validate checks the config
func (c *ResolverConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Unarmed != "" {
		if _, err := ParseDice(c.Unarmed); err != nil {
			vb.Field("Unarmed", errors.GetMessage(err))
		}
	}
	if c.Speed < 0 {
		vb.Field("Speed", "must not be negative")
	}
	return vb.Build()
}

// Resolver runs combat rounds.
type Resolver struct {
	roller     dice.Roller
	attribute  string
	weaponSlot string
	unarmed    Dice
	speed      time.Duration
}

// NewResolver creates a resolver.
func NewResolver(cfg *ResolverConfig) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid combat resolver config")
	}

	r := &Resolver{
		roller:     cfg.Roller,
		attribute:  cfg.Attribute,
		weaponSlot: cfg.WeaponSlot,
		speed:      cfg.Speed,
	}
	if r.attribute == "" {
		r.attribute = DefaultAttribute
	}
	if r.weaponSlot == "" {
		r.weaponSlot = DefaultWeaponSlot
	}
	if r.speed == 0 {
		r.speed = DefaultSpeed
	}
	unarmed := cfg.Unarmed
	if unarmed == "" {
		unarmed = DefaultUnarmed
	}
	r.unarmed, _ = ParseDice(unarmed)
	return r, nil
}

// Speed returns the round lag for attacker based on its weapon.
func (r *Resolver) Speed(attacker *entities.Character) time.Duration {
	weapon := attacker.Equipment()[r.weaponSlot]
	if weapon == nil {
		return r.speed
	}
	seconds, ok := number(weapon.Metadata[MetaSpeed])
	if !ok || seconds <= 0 {
		return r.speed
	}
	return time.Duration(seconds * float64(time.Second))
}

// Attack makes attacker swing at its first combatant if its lag has passed.
// Returns nil when there was nothing to do this tick.
func (r *Resolver) Attack(attacker *entities.Character) (*Round, error) {
	if !attacker.IsInCombat() || !attacker.CombatReady() {
		return nil, nil
	}

	target := attacker.Combatants()[0]
	dead, err := r.isDead(target)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check combatant %s", target.GetID()).
			WithMeta("attacker", attacker.GetID())
	}
	if dead {
		attacker.RemoveCombatant(target)
		return nil, nil
	}

	weapon := attacker.Equipment()[r.weaponSlot]
	notation := r.unarmed
	if weapon != nil {
		if raw, ok := weapon.Metadata[MetaDamage].(string); ok {
			parsed, err := ParseDice(raw)
			if err != nil {
				slog.Warn("invalid weapon damage, using unarmed damage",
					"weapon", weapon.EntityReference,
					"damage", raw,
					"error", err.Error())
			} else {
				notation = parsed
			}
		}
	}

	roll, err := notation.Roll(r.roller)
	if err != nil {
		return nil, err
	}

	var source any = attacker
	if weapon != nil {
		source = weapon
	}
	hit, err := damage.New(&damage.Config{
		Attribute: r.attribute,
		Amount:    float64(roll),
		Attacker:  attacker,
		Source:    source,
		Metadata:  map[string]any{"roll": notation.String()},
	})
	if err != nil {
		return nil, err
	}

	amount, err := hit.Commit(target)
	if err != nil {
		return nil, errors.Wrapf(err, "%s failed to hit %s", attacker.GetID(), target.GetID())
	}

	attacker.StartRound(r.Speed(attacker))

	round := &Round{
		Attacker: attacker,
		Target:   target,
		Weapon:   weapon,
		Roll:     roll,
		Amount:   amount,
	}
	if dead, _ := r.isDead(target); dead {
		round.Killed = true
		target.RemoveFromCombat()
	}
	return round, nil
}

func (r *Resolver) isDead(c *entities.Character) (bool, error) {
	current, err := c.GetAttribute(r.attribute)
	if err != nil {
		return false, err
	}
	return current <= 0, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
