package factory

import (
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// AreaFactory creates areas. Areas are keyed by name, not by reference.
type AreaFactory struct {
	Base[entities.AreaManifest]
	rooms       *RoomFactory
	roomsByArea map[string][]string
}

// NewAreaFactory creates an empty area factory that builds rooms with rooms.
func NewAreaFactory(rooms *RoomFactory) *AreaFactory {
	return &AreaFactory{
		Base:        NewBase[entities.AreaManifest]("AreaFactory"),
		rooms:       rooms,
		roomsByArea: make(map[string][]string),
	}
}

// SetRooms records which room references belong to the area, in load order.
func (f *AreaFactory) SetRooms(name string, refs []string) {
	f.roomsByArea[name] = append([]string(nil), refs...)
}

// Create builds the named area with all of its rooms. Rooms are not
// hydrated.
func (f *AreaFactory) Create(name string) (*entities.Area, error) {
	manifest, err := f.definition(name)
	if err != nil {
		return nil, err
	}
	area := entities.NewArea(name, manifest)

	for _, ref := range f.roomsByArea[name] {
		room, err := f.rooms.Create(name, ref)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create room %s", ref).
				WithMeta("area", name)
		}
		if err := area.AddRoom(room); err != nil {
			return nil, errors.Wrapf(err, "failed to add room %s", ref).
				WithMeta("area", name)
		}
	}

	if err := f.attachScript(name, area); err != nil {
		return nil, err
	}
	return area, nil
}

// Clone creates a new area from the same manifest as area.
func (f *AreaFactory) Clone(area *entities.Area) (*entities.Area, error) {
	if area == nil || area.Name == "" {
		return nil, errors.InvalidArgument("clone(area) requires an area with a name")
	}
	return f.Create(area.Name)
}
