package entities

import (
	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/idgen"
)

// ItemType classifies items.
type ItemType string

const (
	ItemTypeObject    ItemType = "OBJECT"
	ItemTypeContainer ItemType = "CONTAINER"
	ItemTypeArmor     ItemType = "ARMOR"
	ItemTypeWeapon    ItemType = "WEAPON"
	ItemTypePotion    ItemType = "POTION"
	ItemTypeResource  ItemType = "RESOURCE"
)

// ItemDefinition is the static record an item is created from.
type ItemDefinition struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	RoomDesc    string         `yaml:"roomDesc" json:"roomDesc"`
	Keywords    []string       `yaml:"keywords" json:"keywords"`
	Type        ItemType       `yaml:"type" json:"type"`
	Level       int            `yaml:"level" json:"level"`
	Slot        string         `yaml:"slot" json:"slot"`
	Metadata    map[string]any `yaml:"metadata" json:"metadata"`
	// Items are the entity references a container starts with.
	Items     []string       `yaml:"items" json:"items"`
	MaxItems  int            `yaml:"maxItems" json:"maxItems"`
	Closeable bool           `yaml:"closeable" json:"closeable"`
	Closed    bool           `yaml:"closed" json:"closed"`
	Locked    bool           `yaml:"locked" json:"locked"`
	LockedBy  string         `yaml:"lockedBy" json:"lockedBy"`
	Behaviors map[string]any `yaml:"behaviors" json:"behaviors"`
	Script    string         `yaml:"script" json:"script"`
}

// ItemData is the persisted state of an item.
type ItemData struct {
	EntityReference string              `json:"entityReference"`
	UUID            string              `json:"uuid"`
	Metadata        map[string]any      `json:"metadata,omitempty"`
	Closed          bool                `json:"closed,omitempty"`
	Locked          bool                `json:"locked,omitempty"`
	Inventory       map[string]ItemData `json:"inventory,omitempty"`
}

// ItemEvents are the notifications raised by an item.
type ItemEvents struct {
	Equip   eventbus.Topic[*Character]
	Unequip eventbus.Topic[*Character]
	Spawn   eventbus.Topic[*Item]
	Tick    eventbus.Topic[*Item]
}

// Item is a live item.
type Item struct {
	UUID            string
	EntityReference string
	Area            string
	Name            string
	Description     string
	RoomDesc        string
	Keywords        []string
	Type            ItemType
	Level           int
	Slot            string
	Metadata        map[string]any
	Closeable       bool
	Closed          bool
	Locked          bool
	LockedBy        string

	// SourceRoom is the room that spawned the item, if any.
	SourceRoom *Room

	Events ItemEvents

	definition *ItemDefinition
	inventory  *Inventory
	carriedBy  *Character
	equippedBy *Character
	container  *Item
	room       *Room
	listeners  eventbus.Group
	hydrated   bool
}

var uuids idgen.Generator = idgen.NewUUID()

// NewItem creates an unhydrated item from def. An empty id generates a uuid.
func NewItem(area string, def *ItemDefinition, id string) *Item {
	if id == "" {
		id = uuids.Generate()
	}
	item := &Item{
		UUID:            id,
		EntityReference: Reference(area, def.ID),
		Area:            area,
		Name:            def.Name,
		Description:     def.Description,
		RoomDesc:        def.RoomDesc,
		Keywords:        append([]string(nil), def.Keywords...),
		Type:            def.Type,
		Level:           def.Level,
		Slot:            def.Slot,
		Metadata:        attributes.DeepCopy(def.Metadata),
		Closeable:       def.Closeable || def.Closed || def.Locked,
		Closed:          def.Closed,
		Locked:          def.Locked,
		LockedBy:        def.LockedBy,
		definition:      def,
	}
	if item.Type == "" {
		item.Type = ItemTypeObject
	}
	if item.Type == ItemTypeContainer {
		item.inventory = NewInventory(def.MaxItems)
		item.inventory.container = item
	}
	return item
}

// GetID returns the item's uuid.
func (i *Item) GetID() string {
	return i.UUID
}

// GetType returns KindItem.
func (i *Item) GetType() string {
	return KindItem
}

// Definition returns the definition the item was created from.
func (i *Item) Definition() *ItemDefinition {
	return i.definition
}

// Hydrated reports whether hydration has completed.
func (i *Item) Hydrated() bool {
	return i.hydrated
}

// Inventory returns a container's contents, or nil for other items.
func (i *Item) Inventory() *Inventory {
	return i.inventory
}

// CarriedBy returns the character holding the item, or nil.
func (i *Item) CarriedBy() *Character {
	return i.carriedBy
}

// EquippedBy returns the character wearing the item, or nil.
func (i *Item) EquippedBy() *Character {
	return i.equippedBy
}

// Container returns the item this item is inside, or nil.
func (i *Item) Container() *Item {
	return i.container
}

// Room returns the room the item lies in, or nil.
func (i *Item) Room() *Room {
	return i.room
}

// AddItem puts item inside a container.
func (i *Item) AddItem(item *Item) error {
	if i.inventory == nil {
		return errors.FailedPreconditionf("item %s is not a container", i.EntityReference).
			WithMeta("item", i.UUID)
	}
	return i.inventory.Add(item)
}

// RemoveItem takes item out of a container.
func (i *Item) RemoveItem(item *Item) {
	if i.inventory != nil {
		i.inventory.Remove(item)
	}
}

// Open opens a closed, unlocked item.
func (i *Item) Open() error {
	if !i.Closed {
		return nil
	}
	if i.Locked {
		return errors.FailedPreconditionf("%s is locked", i.Name).WithMeta("item", i.UUID)
	}
	i.Closed = false
	return nil
}

// Close closes a closeable item.
func (i *Item) Close() error {
	if !i.Closeable {
		return errors.FailedPreconditionf("%s cannot be closed", i.Name).WithMeta("item", i.UUID)
	}
	i.Closed = true
	return nil
}

// Lock closes and locks the item.
func (i *Item) Lock() error {
	if err := i.Close(); err != nil {
		return err
	}
	i.Locked = true
	return nil
}

// Unlock unlocks the item, leaving it closed.
func (i *Item) Unlock() {
	i.Locked = false
}

// Hydrate fills a container with either its saved contents or its default
// items and attaches behaviors. data is nil for freshly spawned items.
func (i *Item) Hydrate(world World, data *ItemData) error {
	if i.hydrated {
		return nil
	}

	if data != nil {
		if data.Metadata != nil {
			i.Metadata = attributes.DeepCopy(data.Metadata)
		}
		i.Closed = data.Closed
		i.Locked = data.Locked
	}

	if i.inventory != nil {
		if data != nil && data.Inventory != nil {
			if err := i.inventory.Hydrate(world, data.Inventory); err != nil {
				return errors.Wrapf(err, "failed to hydrate contents of %s", i.UUID)
			}
		} else {
			for _, ref := range i.definition.Items {
				child, err := world.CreateItem(ref)
				if err != nil {
					return errors.Wrapf(err, "failed to create default item %s for %s", ref, i.EntityReference)
				}
				if err := child.Hydrate(world, nil); err != nil {
					return err
				}
				world.TrackItem(child)
				if err := i.inventory.Add(child); err != nil {
					return err
				}
			}
		}
	}

	attachBehaviors(world, i, i.Area, i.definition.Behaviors, &i.listeners)
	i.hydrated = true
	return nil
}

// Listen adds script subscriptions that are released by DetachBehaviors.
func (i *Item) Listen(subs ...eventbus.Subscription) {
	i.listeners.Add(subs...)
}

// DetachBehaviors releases every behavior and script subscription.
func (i *Item) DetachBehaviors() {
	i.listeners.Unsubscribe()
}

// Serialize returns the item's persisted state.
func (i *Item) Serialize() ItemData {
	data := ItemData{
		EntityReference: i.EntityReference,
		UUID:            i.UUID,
		Metadata:        attributes.DeepCopy(i.Metadata),
		Closed:          i.Closed,
		Locked:          i.Locked,
	}
	if i.inventory != nil {
		data.Inventory = i.inventory.Serialize()
	}
	return data
}

// Origin returns the area and entity reference the item was created from.
func (i *Item) Origin() (area, ref string) {
	if i == nil {
		return "", ""
	}
	return i.Area, i.EntityReference
}
