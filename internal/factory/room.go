package factory

import "github.com/KirkDiggler/rpg-mud/internal/entities"

// RoomFactory creates rooms.
type RoomFactory struct {
	Base[entities.RoomDefinition]
}

// NewRoomFactory creates an empty room factory.
func NewRoomFactory() *RoomFactory {
	return &RoomFactory{Base: NewBase[entities.RoomDefinition]("RoomFactory")}
}

// Create builds an unhydrated room from the definition stored under ref.
func (f *RoomFactory) Create(area, ref string) (*entities.Room, error) {
	def, err := f.definition(ref)
	if err != nil {
		return nil, err
	}
	room := entities.NewRoom(area, def)
	if err := f.attachScript(ref, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Clone creates a new room from the same definition as room.
func (f *RoomFactory) Clone(room *entities.Room) (*entities.Room, error) {
	return Clone[*entities.Room](f, room)
}
