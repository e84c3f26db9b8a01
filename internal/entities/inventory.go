package entities

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Inventory holds items keyed by uuid, in insertion order. A max of zero
// means unlimited.
type Inventory struct {
	items map[string]*Item
	order []string
	max   int

	character *Character
	container *Item
}

// NewInventory creates an empty inventory holding at most maxSize items.
func NewInventory(maxSize int) *Inventory {
	return &Inventory{items: make(map[string]*Item), max: maxSize}
}

// Max returns the inventory's capacity, zero meaning unlimited.
func (i *Inventory) Max() int {
	return i.max
}

// SetMax changes the inventory's capacity.
func (i *Inventory) SetMax(maxSize int) {
	i.max = maxSize
}

// Size returns the number of items held.
func (i *Inventory) Size() int {
	return len(i.order)
}

// IsFull reports whether the inventory is at capacity.
func (i *Inventory) IsFull() bool {
	return i.max > 0 && len(i.order) >= i.max
}

// Get returns the item with the given uuid.
func (i *Inventory) Get(uuid string) (*Item, bool) {
	item, ok := i.items[uuid]
	return item, ok
}

// Items returns the held items in the order they were added.
func (i *Inventory) Items() []*Item {
	out := make([]*Item, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.items[id])
	}
	return out
}

// Add stores item. Adding an item that is already held is a no-op.
func (i *Inventory) Add(item *Item) error {
	if _, ok := i.items[item.UUID]; ok {
		return nil
	}
	if i.IsFull() {
		return errors.ResourceExhaustedf("inventory is full, cannot add %s", item.UUID).
			WithMeta("item", item.UUID).
			WithMeta("max", i.max)
	}

	i.items[item.UUID] = item
	i.order = append(i.order, item.UUID)
	item.carriedBy = i.character
	item.container = i.container
	return nil
}

// Remove drops item from the inventory.
func (i *Inventory) Remove(item *Item) {
	if _, ok := i.items[item.UUID]; !ok {
		return
	}
	delete(i.items, item.UUID)
	for idx, id := range i.order {
		if id == item.UUID {
			i.order = append(i.order[:idx:idx], i.order[idx+1:]...)
			break
		}
	}
	if item.carriedBy == i.character {
		item.carriedBy = nil
	}
	if item.container == i.container {
		item.container = nil
	}
}

// Serialize returns the held items keyed by uuid.
func (i *Inventory) Serialize() map[string]ItemData {
	out := make(map[string]ItemData, len(i.items))
	for id, item := range i.items {
		out[id] = item.Serialize()
	}
	return out
}

// Hydrate re-creates saved items, keeping their uuids. Items whose
// definition no longer exists are dropped with a warning.
func (i *Inventory) Hydrate(world World, saved map[string]ItemData) error {
	for _, id := range sortedKeys(saved) {
		data := saved[id]
		item, err := world.CreateItem(data.EntityReference)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.Warn("dropping saved item with unknown definition",
					"item", id,
					"entity", data.EntityReference)
				continue
			}
			return errors.Wrapf(err, "failed to create saved item %s", id)
		}
		item.UUID = id
		if err := item.Hydrate(world, &data); err != nil {
			return err
		}
		world.TrackItem(item)
		if err := i.Add(item); err != nil {
			return err
		}
	}
	return nil
}
