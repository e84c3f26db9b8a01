package factory

import "github.com/KirkDiggler/rpg-mud/internal/entities"

// ItemFactory creates items.
type ItemFactory struct {
	Base[entities.ItemDefinition]
}

// NewItemFactory creates an empty item factory.
func NewItemFactory() *ItemFactory {
	return &ItemFactory{Base: NewBase[entities.ItemDefinition]("ItemFactory")}
}

// Create builds an unhydrated item from the definition stored under ref.
func (f *ItemFactory) Create(area, ref string) (*entities.Item, error) {
	def, err := f.definition(ref)
	if err != nil {
		return nil, err
	}
	item := entities.NewItem(area, def, "")
	if err := f.attachScript(ref, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Clone creates a new item from the same definition as item.
func (f *ItemFactory) Clone(item *entities.Item) (*entities.Item, error) {
	return Clone[*entities.Item](f, item)
}
