package entities

import (
	"sort"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Inventory returns the character's inventory, creating it on first use.
func (c *Character) Inventory() *Inventory {
	if c.inventory == nil {
		c.inventory = NewInventory(0)
		c.inventory.character = c
	}
	return c.inventory
}

// AddItem puts item in the character's inventory.
func (c *Character) AddItem(item *Item) error {
	return c.Inventory().Add(item)
}

// RemoveItem takes item out of the character's inventory.
func (c *Character) RemoveItem(item *Item) {
	if c.inventory == nil {
		return
	}
	c.inventory.Remove(item)
}

// HasItem reports whether the character carries an item created from ref.
func (c *Character) HasItem(ref string) bool {
	if c.inventory == nil {
		return false
	}
	for _, item := range c.inventory.Items() {
		if item.EntityReference == ref {
			return true
		}
	}
	return false
}

// IsInventoryFull reports whether the inventory can take no more items.
func (c *Character) IsInventoryFull() bool {
	return c.inventory != nil && c.inventory.IsFull()
}

// Equipment returns a copy of the equipped items by slot.
func (c *Character) Equipment() map[string]*Item {
	out := make(map[string]*Item, len(c.equipment))
	for slot, item := range c.equipment {
		out[slot] = item
	}
	return out
}

// EquipmentSlots returns the occupied slots, sorted.
func (c *Character) EquipmentSlots() []string {
	slots := make([]string, 0, len(c.equipment))
	for slot := range c.equipment {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// Equip moves item from the inventory into slot.
func (c *Character) Equip(item *Item, slot string) error {
	if _, taken := c.equipment[slot]; taken {
		return errors.AlreadyExistsf("equipment slot %s is taken", slot).
			WithMeta("slot", slot)
	}
	if item.equippedBy != nil {
		return errors.FailedPreconditionf("item %s is already equipped", item.UUID).
			WithMeta("item", item.UUID)
	}

	c.RemoveItem(item)
	c.equipment[slot] = item
	item.equippedBy = c

	item.Events.Equip.Publish(c)
	c.Events.Equip.Publish(EquipEvent{Slot: slot, Item: item})
	return nil
}

// Unequip moves the item in slot back into the inventory.
func (c *Character) Unequip(slot string) error {
	if c.IsInventoryFull() {
		return errors.ResourceExhausted("inventory is full").
			WithMeta("character", c.id)
	}
	item, ok := c.equipment[slot]
	if !ok {
		return errors.NotFoundf("nothing equipped in slot %s", slot).
			WithMeta("slot", slot)
	}

	item.equippedBy = nil
	delete(c.equipment, slot)

	item.Events.Unequip.Publish(c)
	c.Events.Unequip.Publish(EquipEvent{Slot: slot, Item: item})
	return c.AddItem(item)
}
