package entities

import "github.com/KirkDiggler/rpg-mud/internal/errors"

type point struct {
	x, y int
}

// AreaFloor is one z level of an area's map. Rooms are stored sparsely, so
// coordinates may be negative.
type AreaFloor struct {
	Z     int
	LowX  int
	HighX int
	LowY  int
	HighY int

	rooms map[point]*Room
}

// NewAreaFloor creates an empty floor at level z.
func NewAreaFloor(z int) *AreaFloor {
	return &AreaFloor{Z: z, rooms: make(map[point]*Room)}
}

// AddRoom places room at (x, y) and widens the floor's bounds. The first
// room sets the bounds.
func (f *AreaFloor) AddRoom(x, y int, room *Room) error {
	if room == nil {
		return errors.InvalidArgument("invalid room given to area floor")
	}
	if existing, ok := f.rooms[point{x, y}]; ok {
		return errors.AlreadyExistsf("area floor %d already has room %s at (%d, %d)", f.Z, existing.EntityReference, x, y).
			WithMeta("room", room.EntityReference).
			WithMeta("existing", existing.EntityReference)
	}

	if len(f.rooms) == 0 {
		f.LowX, f.HighX = x, x
		f.LowY, f.HighY = y, y
	} else {
		f.LowX = min(f.LowX, x)
		f.HighX = max(f.HighX, x)
		f.LowY = min(f.LowY, y)
		f.HighY = max(f.HighY, y)
	}

	f.rooms[point{x, y}] = room
	return nil
}

// GetRoom returns the room at (x, y).
func (f *AreaFloor) GetRoom(x, y int) (*Room, bool) {
	room, ok := f.rooms[point{x, y}]
	return room, ok
}

// RemoveRoom clears (x, y). Bounds are left as they are.
func (f *AreaFloor) RemoveRoom(x, y int) bool {
	if _, ok := f.rooms[point{x, y}]; !ok {
		return false
	}
	delete(f.rooms, point{x, y})
	return true
}

// Size returns the number of rooms on the floor.
func (f *AreaFloor) Size() int {
	return len(f.rooms)
}
