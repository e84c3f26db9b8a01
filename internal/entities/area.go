package entities

import (
	"sort"
	"time"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// DefaultRespawnInterval is used when an area manifest sets none.
const DefaultRespawnInterval = 60 * time.Second

// AreaManifest is the static record an area is created from.
type AreaManifest struct {
	Title     string         `yaml:"title"`
	Metadata  map[string]any `yaml:"metadata"`
	Behaviors map[string]any `yaml:"behaviors"`
	Script    string         `yaml:"script"`
	// RespawnInterval is in seconds.
	RespawnInterval int `yaml:"respawnInterval"`
}

// AreaEvents are the notifications raised by an area.
type AreaEvents struct {
	RoomAdded  eventbus.Topic[*Room]
	UpdateTick eventbus.Topic[*Area]
}

// Area is a named collection of rooms laid out on floors.
type Area struct {
	Name     string
	Title    string
	Metadata map[string]any

	Events AreaEvents

	manifest        *AreaManifest
	rooms           map[string]*Room
	roomOrder       []string
	floors          map[int]*AreaFloor
	npcs            orderedSet[*Npc]
	respawnInterval time.Duration
	lastRespawn     time.Time
	listeners       eventbus.Group
	hydrated        bool
}

// NewArea creates an empty area from its manifest.
func NewArea(name string, manifest *AreaManifest) *Area {
	interval := DefaultRespawnInterval
	if manifest.RespawnInterval > 0 {
		interval = time.Duration(manifest.RespawnInterval) * time.Second
	}
	return &Area{
		Name:            name,
		Title:           manifest.Title,
		Metadata:        attributes.DeepCopy(manifest.Metadata),
		manifest:        manifest,
		rooms:           make(map[string]*Room),
		floors:          make(map[int]*AreaFloor),
		respawnInterval: interval,
	}
}

// GetID returns the area name.
func (a *Area) GetID() string {
	return a.Name
}

// GetType returns KindArea.
func (a *Area) GetType() string {
	return KindArea
}

// Manifest returns the manifest the area was created from.
func (a *Area) Manifest() *AreaManifest {
	return a.manifest
}

// AddRoom adds room to the area and, when it has coordinates, to the map.
func (a *Area) AddRoom(room *Room) error {
	if room.Coordinates != nil {
		if err := a.AddRoomToMap(room); err != nil {
			return err
		}
	}
	if _, ok := a.rooms[room.ID]; !ok {
		a.roomOrder = append(a.roomOrder, room.ID)
	}
	a.rooms[room.ID] = room
	room.area = a
	a.Events.RoomAdded.Publish(room)
	return nil
}

// RemoveRoom takes room out of the area and its map.
func (a *Area) RemoveRoom(room *Room) {
	if _, ok := a.rooms[room.ID]; !ok {
		return
	}
	delete(a.rooms, room.ID)
	for i, id := range a.roomOrder {
		if id == room.ID {
			a.roomOrder = append(a.roomOrder[:i:i], a.roomOrder[i+1:]...)
			break
		}
	}
	if c := room.Coordinates; c != nil {
		if floor, ok := a.floors[c.Z]; ok {
			if current, ok := floor.GetRoom(c.X, c.Y); ok && current == room {
				floor.RemoveRoom(c.X, c.Y)
			}
		}
	}
	room.area = nil
}

// GetRoomByID returns the room with the given definition id.
func (a *Area) GetRoomByID(id string) (*Room, bool) {
	room, ok := a.rooms[id]
	return room, ok
}

// Rooms returns the area's rooms in the order they were added.
func (a *Area) Rooms() []*Room {
	out := make([]*Room, 0, len(a.roomOrder))
	for _, id := range a.roomOrder {
		out = append(out, a.rooms[id])
	}
	return out
}

// AddRoomToMap places room on the floor for its z coordinate.
func (a *Area) AddRoomToMap(room *Room) error {
	c := room.Coordinates
	if c == nil {
		return errors.InvalidArgumentf("room %s has no coordinates", room.EntityReference).
			WithMeta("room", room.EntityReference)
	}
	floor, ok := a.floors[c.Z]
	if !ok {
		floor = NewAreaFloor(c.Z)
		a.floors[c.Z] = floor
	}
	if err := floor.AddRoom(c.X, c.Y, room); err != nil {
		return errors.Wrapf(err, "failed to map room %s in area %s", room.EntityReference, a.Name)
	}
	return nil
}

// GetRoomAtCoordinates returns the room at (x, y, z).
func (a *Area) GetRoomAtCoordinates(x, y, z int) (*Room, bool) {
	floor, ok := a.floors[z]
	if !ok {
		return nil, false
	}
	return floor.GetRoom(x, y)
}

// Floor returns the floor at level z.
func (a *Area) Floor(z int) (*AreaFloor, bool) {
	floor, ok := a.floors[z]
	return floor, ok
}

// FloorLevels returns the z levels that have rooms, ascending.
func (a *Area) FloorLevels() []int {
	levels := make([]int, 0, len(a.floors))
	for z := range a.floors {
		levels = append(levels, z)
	}
	sort.Ints(levels)
	return levels
}

// AddNpc records npc as living in the area.
func (a *Area) AddNpc(npc *Npc) {
	a.npcs.add(npc)
}

// RemoveNpc forgets npc.
func (a *Area) RemoveNpc(npc *Npc) {
	a.npcs.remove(npc)
}

// Npcs returns the npcs living in the area.
func (a *Area) Npcs() []*Npc {
	return a.npcs.values()
}

// GetBroadcastTargets returns every player in the area's rooms.
func (a *Area) GetBroadcastTargets() []*Player {
	var players []*Player
	for _, room := range a.Rooms() {
		players = append(players, room.Players()...)
	}
	return players
}

// Hydrate hydrates every room and attaches the area's behaviors.
func (a *Area) Hydrate(world World) error {
	if a.hydrated {
		return nil
	}
	for _, room := range a.Rooms() {
		if err := room.Hydrate(world); err != nil {
			return errors.Wrapf(err, "failed to hydrate room %s", room.EntityReference).
				WithMeta("area", a.Name)
		}
	}
	attachBehaviors(world, a, a.Name, a.manifest.Behaviors, &a.listeners)
	a.lastRespawn = world.Clock().Now()
	a.hydrated = true
	return nil
}

// Update raises the area and room update ticks and respawns rooms once the
// respawn interval has passed.
func (a *Area) Update(world World) error {
	a.Events.UpdateTick.Publish(a)
	for _, room := range a.Rooms() {
		room.Events.UpdateTick.Publish(room)
	}

	now := world.Clock().Now()
	if now.Sub(a.lastRespawn) < a.respawnInterval {
		return nil
	}
	a.lastRespawn = now
	for _, room := range a.Rooms() {
		if err := room.Respawn(world); err != nil {
			return errors.Wrapf(err, "failed to respawn room %s", room.EntityReference)
		}
	}
	return nil
}

// Listen adds script subscriptions that are released by DetachBehaviors.
func (a *Area) Listen(subs ...eventbus.Subscription) {
	a.listeners.Add(subs...)
}

// DetachBehaviors releases every behavior and script subscription.
func (a *Area) DetachBehaviors() {
	a.listeners.Unsubscribe()
}
