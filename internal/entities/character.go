package entities

import (
	"log/slog"
	"sort"
	"time"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

// RetaliationLag is the combat lag given to a character pulled into combat by
// someone else.
const RetaliationLag = 2500 * time.Millisecond

// AttributeSnapshot is the attribute state carried by AttributeUpdate.
type AttributeSnapshot struct {
	Name    string  `json:"name"`
	Base    float64 `json:"base"`
	Max     float64 `json:"max"`
	Current float64 `json:"current"`
	Delta   float64 `json:"delta"`
}

// AttributeUpdate is published whenever an attribute is changed through the
// character.
type AttributeUpdate struct {
	Attribute string
	Current   float64
	Snapshot  AttributeSnapshot
}

// EquipEvent describes an item moving in or out of an equipment slot.
type EquipEvent struct {
	Slot string
	Item *Item
}

// CharacterEvents are the notifications raised by a character.
type CharacterEvents struct {
	AttributeUpdate  eventbus.Topic[AttributeUpdate]
	Hit              eventbus.Topic[damage.Event]
	Damaged          eventbus.Topic[damage.Event]
	CombatStart      eventbus.Topic[*Character]
	CombatEnd        eventbus.Topic[*Character]
	CombatantAdded   eventbus.Topic[*Character]
	CombatantRemoved eventbus.Topic[*Character]
	Equip            eventbus.Topic[EquipEvent]
	Unequip          eventbus.Topic[EquipEvent]
	Followed         eventbus.Topic[*Character]
	Unfollowed       eventbus.Topic[*Character]
	GainedFollower   eventbus.Topic[*Character]
	LostFollower     eventbus.Topic[*Character]
	EnterRoom        eventbus.Topic[*Room]
	Tick             eventbus.Topic[*Character]
}

// CombatData is the per-character combat round bookkeeping.
type CombatData struct {
	Lag          time.Duration
	RoundStarted time.Time
}

// Character is the shared state of players and npcs.
type Character struct {
	Name        string
	Description string
	Level       int
	Metadata    map[string]any
	CombatData  CombatData

	Events CharacterEvents

	id         string
	kind       string
	clock      clock.Clock
	attributes attributes.Attributes
	effects    *effects.List
	inventory  *Inventory
	equipment  map[string]*Item
	combatants orderedSet[*Character]
	followers  orderedSet[*Character]
	following  *Character
	party      *Party
	room       *Room
	player     *Player
	npc        *Npc
	hydrated   bool
}

func newCharacter(id, kind, name string, clk clock.Clock) *Character {
	c := &Character{
		Name:       name,
		Level:      1,
		Metadata:   map[string]any{},
		id:         id,
		kind:       kind,
		clock:      clk,
		attributes: attributes.Attributes{},
		equipment:  make(map[string]*Item),
	}
	c.effects = effects.NewList(c)
	return c
}

// GetID returns the player name or npc uuid.
func (c *Character) GetID() string {
	return c.id
}

// GetType returns KindPlayer or KindNpc.
func (c *Character) GetType() string {
	return c.kind
}

// Player returns the player this character belongs to, or nil for npcs.
func (c *Character) Player() *Player {
	return c.player
}

// Npc returns the npc this character belongs to, or nil for players.
func (c *Character) Npc() *Npc {
	return c.npc
}

// Room returns the room the character is in, or nil.
func (c *Character) Room() *Room {
	return c.room
}

// Hydrated reports whether hydration has completed.
func (c *Character) Hydrated() bool {
	return c.hydrated
}

// hydrateCore builds attributes from saved state and restores effects. It
// returns false when the character was already hydrated.
func (c *Character) hydrateCore(world World, saved map[string]attributes.Data, savedEffects []effects.Data) (bool, error) {
	if c.hydrated {
		slog.Warn("attempted to hydrate already hydrated character",
			"character", c.id,
			"type", c.kind)
		return false, nil
	}

	factory := world.AttributeFactory()
	for _, name := range sortedKeys(saved) {
		data := saved[name]
		if !factory.Has(name) {
			return false, errors.InvalidArgumentf("entity trying to hydrate with invalid attribute %s", name).
				WithMeta("character", c.id).
				WithMeta("attribute", name)
		}
		attr, err := factory.CreateWith(name, data.Base, data.Delta)
		if err != nil {
			return false, errors.Wrapf(err, "failed to create attribute %s for %s", name, c.id)
		}
		c.attributes.Add(attr)
	}

	if err := c.effects.Hydrate(world.EffectFactory(), savedEffects); err != nil {
		return false, errors.Wrapf(err, "failed to hydrate effects for %s", c.id)
	}

	return true, nil
}

// Attributes returns the character's attribute set.
func (c *Character) Attributes() attributes.Attributes {
	return c.attributes
}

// AddAttribute adds or replaces an attribute.
func (c *Character) AddAttribute(attr *attributes.Attribute) {
	c.attributes.Add(attr)
}

// HasAttribute reports whether the character has the named attribute.
func (c *Character) HasAttribute(name string) bool {
	return c.attributes.Has(name)
}

func (c *Character) attribute(name string) (*attributes.Attribute, error) {
	attr, ok := c.attributes.Get(name)
	if !ok {
		return nil, errors.NotFoundf("%s %s does not have attribute %s", c.kind, c.id, name).
			WithMeta("attribute", name)
	}
	return attr, nil
}

// GetMaxAttribute returns the attribute's base after effect modifiers and,
// for derived attributes, its formula.
func (c *Character) GetMaxAttribute(name string) (float64, error) {
	attr, err := c.attribute(name)
	if err != nil {
		return 0, err
	}

	current := c.effects.EvaluateAttribute(name, attr.Base())
	if attr.Formula == nil {
		return current, nil
	}

	requires := attr.Formula.Requires()
	values := make([]float64, len(requires))
	for i, dep := range requires {
		value, err := c.GetMaxAttribute(dep)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to evaluate formula for %s", name)
		}
		values[i] = value
	}
	return attr.Formula.Evaluate(attr, current, values...), nil
}

// GetAttribute returns the current value: effective max plus delta.
func (c *Character) GetAttribute(name string) (float64, error) {
	attr, err := c.attribute(name)
	if err != nil {
		return 0, err
	}
	maxValue, err := c.GetMaxAttribute(name)
	if err != nil {
		return 0, err
	}
	return maxValue + attr.Delta(), nil
}

// GetBaseAttribute returns the unmodified base value.
func (c *Character) GetBaseAttribute(name string) (float64, error) {
	attr, err := c.attribute(name)
	if err != nil {
		return 0, err
	}
	return attr.Base(), nil
}

// SetAttributeToMax clears the attribute's delta.
func (c *Character) SetAttributeToMax(name string) error {
	return c.mutateAttribute(name, func(attr *attributes.Attribute) { attr.SetDelta(0) })
}

// RaiseAttribute restores the attribute by amount.
func (c *Character) RaiseAttribute(name string, amount float64) error {
	return c.mutateAttribute(name, func(attr *attributes.Attribute) { attr.Raise(amount) })
}

// LowerAttribute depletes the attribute by amount.
func (c *Character) LowerAttribute(name string, amount float64) error {
	return c.mutateAttribute(name, func(attr *attributes.Attribute) { attr.Lower(amount) })
}

// SetAttributeBase changes the attribute's base value.
func (c *Character) SetAttributeBase(name string, base float64) error {
	return c.mutateAttribute(name, func(attr *attributes.Attribute) { attr.SetBase(base) })
}

func (c *Character) mutateAttribute(name string, mutate func(*attributes.Attribute)) error {
	attr, err := c.attribute(name)
	if err != nil {
		return err
	}
	mutate(attr)

	snapshot, err := c.snapshot(attr)
	if err != nil {
		return err
	}
	c.Events.AttributeUpdate.Publish(AttributeUpdate{
		Attribute: name,
		Current:   snapshot.Current,
		Snapshot:  snapshot,
	})
	return nil
}

func (c *Character) snapshot(attr *attributes.Attribute) (AttributeSnapshot, error) {
	maxValue, err := c.GetMaxAttribute(attr.Name)
	if err != nil {
		return AttributeSnapshot{}, err
	}
	return AttributeSnapshot{
		Name:    attr.Name,
		Base:    attr.Base(),
		Max:     maxValue,
		Current: maxValue + attr.Delta(),
		Delta:   attr.Delta(),
	}, nil
}

// Effects returns the character's effect list.
func (c *Character) Effects() *effects.List {
	return c.effects
}

// AddEffect adds an effect to the character.
func (c *Character) AddEffect(e *effects.Effect) (bool, error) {
	return c.effects.Add(e)
}

// RemoveEffect removes an effect from the character.
func (c *Character) RemoveEffect(e *effects.Effect) error {
	return c.effects.Remove(e)
}

// EvaluateIncomingDamage runs the character's incoming damage modifiers.
func (c *Character) EvaluateIncomingDamage(d *damage.Damage, amount float64) float64 {
	return c.effects.EvaluateIncomingDamage(d, amount)
}

// EvaluateOutgoingDamage runs the character's outgoing damage modifiers.
func (c *Character) EvaluateOutgoingDamage(d *damage.Damage, amount float64) float64 {
	return c.effects.EvaluateOutgoingDamage(d, amount)
}

// NotifyHit publishes a Hit event for damage this character dealt.
func (c *Character) NotifyHit(e damage.Event) {
	c.Events.Hit.Publish(e)
}

// NotifyDamaged publishes a Damaged event for damage this character took.
func (c *Character) NotifyDamaged(e damage.Event) {
	c.Events.Damaged.Publish(e)
}

// Tick advances the character's effects and raises Tick.
func (c *Character) Tick() {
	c.effects.Tick()
	c.Events.Tick.Publish(c)
}

// GetBroadcastTargets returns the players that should see messages sent to
// this character.
func (c *Character) GetBroadcastTargets() []*Player {
	if c.player == nil {
		return nil
	}
	return []*Player{c.player}
}

// Party returns the character's party, or nil.
func (c *Character) Party() *Party {
	return c.party
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
