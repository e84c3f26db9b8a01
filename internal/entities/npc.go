package entities

import (
	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

// NpcDefinition is the static record an npc is created from.
type NpcDefinition struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	Keywords    []string           `yaml:"keywords" json:"keywords"`
	Level       int                `yaml:"level" json:"level"`
	Metadata    map[string]any     `yaml:"metadata" json:"metadata"`
	Attributes  map[string]float64 `yaml:"attributes" json:"attributes"`
	// Effects are effect definition ids applied on hydrate.
	Effects []string `yaml:"effects" json:"effects"`
	// Items and Equipment are entity references. Equipment is keyed by slot.
	Items     []string          `yaml:"items" json:"items"`
	Equipment map[string]string `yaml:"equipment" json:"equipment"`
	Behaviors map[string]any    `yaml:"behaviors" json:"behaviors"`
	Script    string            `yaml:"script" json:"script"`
}

// Npc is a character controlled by the game.
type Npc struct {
	*Character

	UUID            string
	EntityReference string
	Area            string
	Keywords        []string

	// SourceRoom is the room that spawned the npc, if any.
	SourceRoom *Room

	definition *NpcDefinition
	listeners  eventbus.Group
	pruned     bool
}

// NewNpc creates an unhydrated npc from def. An empty id generates a uuid.
func NewNpc(area string, def *NpcDefinition, id string, clk clock.Clock) *Npc {
	if id == "" {
		id = uuids.Generate()
	}
	c := newCharacter(id, KindNpc, def.Name, clk)
	c.Description = def.Description
	if def.Level > 0 {
		c.Level = def.Level
	}
	if def.Metadata != nil {
		c.Metadata = attributes.DeepCopy(def.Metadata)
	}

	n := &Npc{
		Character:       c,
		UUID:            id,
		EntityReference: Reference(area, def.ID),
		Area:            area,
		Keywords:        append([]string(nil), def.Keywords...),
		definition:      def,
	}
	c.npc = n
	return n
}

// Definition returns the definition the npc was created from.
func (n *Npc) Definition() *NpcDefinition {
	return n.definition
}

// Hydrate builds the npc's attributes and effects, registers it with the
// world, attaches behaviors, and gives it its default items and equipment.
func (n *Npc) Hydrate(world World) error {
	saved := make(map[string]attributes.Data, len(n.definition.Attributes))
	for name, base := range n.definition.Attributes {
		saved[name] = attributes.Data{Base: base}
	}
	ok, err := n.hydrateCore(world, saved, nil)
	if err != nil || !ok {
		return err
	}

	for _, id := range n.definition.Effects {
		effect, err := world.EffectFactory().Create(id)
		if err != nil {
			return errors.Wrapf(err, "failed to create effect %s for %s", id, n.EntityReference)
		}
		if _, err := n.AddEffect(effect); err != nil {
			return err
		}
	}

	world.TrackMob(n)
	attachBehaviors(world, n, n.Area, n.definition.Behaviors, &n.listeners)

	for _, ref := range n.definition.Items {
		item, err := n.createDefaultItem(world, ref)
		if err != nil {
			return err
		}
		if err := n.AddItem(item); err != nil {
			return err
		}
	}

	for _, slot := range sortedKeys(n.definition.Equipment) {
		item, err := n.createDefaultItem(world, n.definition.Equipment[slot])
		if err != nil {
			return err
		}
		if err := n.Equip(item, slot); err != nil {
			return err
		}
	}

	n.hydrated = true
	return nil
}

func (n *Npc) createDefaultItem(world World, ref string) (*Item, error) {
	item, err := world.CreateItem(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create default item %s for %s", ref, n.EntityReference)
	}
	if err := item.Hydrate(world, nil); err != nil {
		return nil, err
	}
	world.TrackItem(item)
	return item, nil
}

// MoveTo moves the npc into room.
func (n *Npc) MoveTo(room *Room) {
	if n.room != nil {
		n.room.RemoveNpc(n, false)
	}
	n.room = room
	room.AddNpc(n)
	n.Events.EnterRoom.Publish(room)
}

// Listen adds script subscriptions that are released by DetachBehaviors.
func (n *Npc) Listen(subs ...eventbus.Subscription) {
	n.listeners.Add(subs...)
}

// DetachBehaviors releases every behavior and script subscription.
func (n *Npc) DetachBehaviors() {
	n.listeners.Unsubscribe()
}

// Prune takes the npc out of the world: effects are cleared without
// events, behaviors are detached, and it leaves its room and area.
func (n *Npc) Prune() {
	n.RemoveFromCombat()
	n.effects.Clear()
	n.DetachBehaviors()
	if n.room != nil {
		if n.room.area != nil {
			n.room.area.RemoveNpc(n)
		}
		n.room.RemoveNpc(n, true)
		n.room = nil
	}
	n.pruned = true
}

// Pruned reports whether the npc has been removed from the world.
func (n *Npc) Pruned() bool {
	return n.pruned
}

// Origin returns the area and entity reference the npc was created from.
func (n *Npc) Origin() (area, ref string) {
	if n == nil {
		return "", ""
	}
	return n.Area, n.EntityReference
}
