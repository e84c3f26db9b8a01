package entities

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// Coordinates place a room on its area's map.
type Coordinates struct {
	X int
	Y int
	Z int
}

// UnmarshalYAML reads coordinates written as [x, y, z].
func (c *Coordinates) UnmarshalYAML(node *yaml.Node) error {
	var values []int
	if err := node.Decode(&values); err != nil {
		return err
	}
	if len(values) != 3 {
		return errors.InvalidArgumentf("coordinates must be [x, y, z], got %d values", len(values))
	}
	c.X, c.Y, c.Z = values[0], values[1], values[2]
	return nil
}

// MarshalYAML writes coordinates as [x, y, z].
func (c Coordinates) MarshalYAML() (any, error) {
	return []int{c.X, c.Y, c.Z}, nil
}

// Door is the state of a door into a room. Missing flags are false.
type Door struct {
	Locked   bool   `yaml:"locked" json:"locked"`
	Closed   bool   `yaml:"closed" json:"closed"`
	LockedBy string `yaml:"lockedBy" json:"lockedBy,omitempty"`
	OneWay   bool   `yaml:"oneWay" json:"oneWay,omitempty"`
}

// Exit leads from a room to another room.
type Exit struct {
	Direction    string `yaml:"direction" json:"direction"`
	RoomID       string `yaml:"roomId" json:"roomId"`
	LeaveMessage string `yaml:"leaveMessage" json:"leaveMessage,omitempty"`
	// Inferred exits come from map adjacency rather than the definition.
	Inferred bool `yaml:"-" json:"inferred,omitempty"`
}

// SpawnRef is a default item or npc of a room. It is written either as a
// bare entity reference or as a map with respawn settings.
type SpawnRef struct {
	ID               string `yaml:"id"`
	RespawnChance    int    `yaml:"respawnChance"`
	MaxLoad          int    `yaml:"maxLoad"`
	ReplaceOnRespawn bool   `yaml:"replaceOnRespawn"`
}

// UnmarshalYAML accepts "area:id" or {id: "area:id", respawnChance: n, ...}.
func (s *SpawnRef) UnmarshalYAML(node *yaml.Node) error {
	*s = SpawnRef{RespawnChance: 100, MaxLoad: 1}
	if node.Kind == yaml.ScalarNode {
		s.ID = node.Value
		return nil
	}
	type plain SpawnRef
	p := plain(*s)
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = SpawnRef(p)
	return nil
}

// RoomDefinition is the static record a room is created from.
type RoomDefinition struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Coordinates *Coordinates    `yaml:"coordinates"`
	Exits       []Exit          `yaml:"exits"`
	Doors       map[string]Door `yaml:"doors"`
	Items       []SpawnRef      `yaml:"items"`
	Npcs        []SpawnRef      `yaml:"npcs"`
	Metadata    map[string]any  `yaml:"metadata"`
	Behaviors   map[string]any  `yaml:"behaviors"`
	Script      string          `yaml:"script"`
}

// RoomEvents are the notifications raised by a room.
type RoomEvents struct {
	PlayerEnter eventbus.Topic[*Player]
	PlayerLeave eventbus.Topic[*Player]
	NpcEnter    eventbus.Topic[*Npc]
	NpcLeave    eventbus.Topic[*Npc]
	Spawn       eventbus.Topic[*Room]
	UpdateTick  eventbus.Topic[*Room]
}

// Room is a live room.
type Room struct {
	ID              string
	EntityReference string
	Area            string
	Title           string
	Description     string
	Coordinates     *Coordinates
	Metadata        map[string]any

	Events RoomEvents

	definition  *RoomDefinition
	area        *Area
	exits       []Exit
	doors       map[string]Door
	players     orderedSet[*Player]
	npcs        orderedSet[*Npc]
	items       orderedSet[*Item]
	spawnedNpcs orderedSet[*Npc]
	listeners   eventbus.Group
	hydrated    bool
}

// NewRoom creates a room from def. Exits and doors are copied so runtime
// changes never reach the definition.
func NewRoom(area string, def *RoomDefinition) *Room {
	r := &Room{
		ID:              def.ID,
		EntityReference: Reference(area, def.ID),
		Area:            area,
		Title:           def.Title,
		Description:     def.Description,
		Metadata:        attributes.DeepCopy(def.Metadata),
		definition:      def,
		exits:           append([]Exit(nil), def.Exits...),
		doors:           make(map[string]Door, len(def.Doors)),
	}
	if def.Coordinates != nil {
		coords := *def.Coordinates
		r.Coordinates = &coords
	}
	for from, door := range def.Doors {
		r.doors[from] = door
	}
	return r
}

// GetID returns the room's entity reference.
func (r *Room) GetID() string {
	return r.EntityReference
}

// GetType returns KindRoom.
func (r *Room) GetType() string {
	return KindRoom
}

// Definition returns the definition the room was created from.
func (r *Room) Definition() *RoomDefinition {
	return r.definition
}

// AreaOf returns the area the room has been added to, or nil.
func (r *Room) AreaOf() *Area {
	return r.area
}

// Hydrated reports whether hydration has completed.
func (r *Room) Hydrated() bool {
	return r.hydrated
}

// GetDoor returns the door leading in from fromRoom.
func (r *Room) GetDoor(fromRoom *Room) (Door, bool) {
	if fromRoom == nil {
		return Door{}, false
	}
	door, ok := r.doors[fromRoom.EntityReference]
	return door, ok
}

// HasDoor reports whether a door leads in from fromRoom.
func (r *Room) HasDoor(fromRoom *Room) bool {
	_, ok := r.GetDoor(fromRoom)
	return ok
}

// IsDoorLocked reports whether the door from fromRoom is locked.
func (r *Room) IsDoorLocked(fromRoom *Room) bool {
	door, _ := r.GetDoor(fromRoom)
	return door.Locked
}

// IsDoorClosed reports whether the door from fromRoom is closed.
func (r *Room) IsDoorClosed(fromRoom *Room) bool {
	door, _ := r.GetDoor(fromRoom)
	return door.Closed
}

// OpenDoor opens the door from fromRoom.
func (r *Room) OpenDoor(fromRoom *Room) {
	r.updateDoor(fromRoom, func(d *Door) { d.Closed = false })
}

// CloseDoor closes the door from fromRoom.
func (r *Room) CloseDoor(fromRoom *Room) {
	r.updateDoor(fromRoom, func(d *Door) { d.Closed = true })
}

// LockDoor closes and locks the door from fromRoom.
func (r *Room) LockDoor(fromRoom *Room) {
	r.updateDoor(fromRoom, func(d *Door) {
		d.Closed = true
		d.Locked = true
	})
}

// UnlockDoor unlocks the door from fromRoom.
func (r *Room) UnlockDoor(fromRoom *Room) {
	r.updateDoor(fromRoom, func(d *Door) { d.Locked = false })
}

func (r *Room) updateDoor(fromRoom *Room, update func(*Door)) {
	door, ok := r.GetDoor(fromRoom)
	if !ok {
		return
	}
	update(&door)
	r.doors[fromRoom.EntityReference] = door
}

// adjacency lists the directions exits are inferred for, with map offsets.
var adjacency = []struct {
	direction string
	dx, dy    int
	dz        int
}{
	{"west", -1, 0, 0},
	{"east", 1, 0, 0},
	{"north", 0, 1, 0},
	{"south", 0, -1, 0},
	{"up", 0, 0, 1},
	{"down", 0, 0, -1},
	{"northeast", 1, 1, 0},
	{"northwest", -1, 1, 0},
	{"southeast", 1, -1, 0},
	{"southwest", -1, -1, 0},
}

// GetExits returns the defined exits followed by exits inferred from
// neighbouring rooms on the area map.
func (r *Room) GetExits() []Exit {
	exits := append([]Exit(nil), r.exits...)
	if r.area == nil || r.Coordinates == nil {
		return exits
	}

	for _, adj := range adjacency {
		if hasDirection(exits, adj.direction) {
			continue
		}
		room, ok := r.area.GetRoomAtCoordinates(r.Coordinates.X+adj.dx, r.Coordinates.Y+adj.dy, r.Coordinates.Z+adj.dz)
		if !ok {
			continue
		}
		exits = append(exits, Exit{
			Direction: adj.direction,
			RoomID:    room.EntityReference,
			Inferred:  true,
		})
	}
	return exits
}

func hasDirection(exits []Exit, direction string) bool {
	for _, exit := range exits {
		if exit.Direction == direction {
			return true
		}
	}
	return false
}

// FindExit returns the first exit whose direction starts with prefix.
func (r *Room) FindExit(prefix string) (Exit, bool) {
	for _, exit := range r.GetExits() {
		if strings.HasPrefix(exit.Direction, prefix) {
			return exit, true
		}
	}
	return Exit{}, false
}

// GetExitToRoom returns the exit leading to next.
func (r *Room) GetExitToRoom(next *Room) (Exit, bool) {
	for _, exit := range r.GetExits() {
		if exit.RoomID == next.EntityReference {
			return exit, true
		}
	}
	return Exit{}, false
}

// AddPlayer puts player in the room.
func (r *Room) AddPlayer(player *Player) {
	if r.players.add(player) {
		r.Events.PlayerEnter.Publish(player)
	}
}

// RemovePlayer takes player out of the room.
func (r *Room) RemovePlayer(player *Player) {
	if r.players.remove(player) {
		r.Events.PlayerLeave.Publish(player)
	}
}

// Players returns the players in the room.
func (r *Room) Players() []*Player {
	return r.players.values()
}

// AddNpc puts npc in the room.
func (r *Room) AddNpc(npc *Npc) {
	if r.npcs.add(npc) {
		r.Events.NpcEnter.Publish(npc)
	}
}

// RemoveNpc takes npc out of the room. removeSpawn also forgets that the
// room spawned it, freeing its slot for respawn.
func (r *Room) RemoveNpc(npc *Npc, removeSpawn bool) {
	if r.npcs.remove(npc) {
		r.Events.NpcLeave.Publish(npc)
	}
	if removeSpawn {
		r.spawnedNpcs.remove(npc)
	}
}

// Npcs returns the npcs in the room.
func (r *Room) Npcs() []*Npc {
	return r.npcs.values()
}

// SpawnedNpcs returns the npcs spawned by this room that are still alive.
func (r *Room) SpawnedNpcs() []*Npc {
	return r.spawnedNpcs.values()
}

// AddItem puts item on the room's floor.
func (r *Room) AddItem(item *Item) {
	r.items.add(item)
	item.room = r
}

// RemoveItem takes item off the room's floor.
func (r *Room) RemoveItem(item *Item) {
	r.items.remove(item)
	if item.room == r {
		item.room = nil
	}
}

// Items returns the items on the room's floor.
func (r *Room) Items() []*Item {
	return r.items.values()
}

// GetBroadcastTargets returns the players in the room.
func (r *Room) GetBroadcastTargets() []*Player {
	return r.players.values()
}

// SpawnItem creates, hydrates and places an item from ref.
func (r *Room) SpawnItem(world World, ref string) (*Item, error) {
	item, err := world.CreateItem(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to spawn item %s in %s", ref, r.EntityReference)
	}
	item.SourceRoom = r
	if err := item.Hydrate(world, nil); err != nil {
		return nil, err
	}
	world.TrackItem(item)
	r.AddItem(item)
	item.Events.Spawn.Publish(item)
	return item, nil
}

// SpawnNpc creates, hydrates and places an npc from ref.
func (r *Room) SpawnNpc(world World, ref string) (*Npc, error) {
	npc, err := world.CreateNpc(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to spawn npc %s in %s", ref, r.EntityReference)
	}
	npc.SourceRoom = r
	if err := npc.Hydrate(world); err != nil {
		return nil, err
	}
	if r.area != nil {
		r.area.AddNpc(npc)
	}
	npc.room = r
	r.AddNpc(npc)
	r.spawnedNpcs.add(npc)
	return npc, nil
}

// Hydrate spawns the room's default items and npcs and attaches behaviors.
func (r *Room) Hydrate(world World) error {
	if r.hydrated {
		return nil
	}

	for _, spawn := range r.definition.Items {
		if _, err := r.SpawnItem(world, spawn.ID); err != nil {
			return err
		}
	}
	for _, spawn := range r.definition.Npcs {
		if _, err := r.SpawnNpc(world, spawn.ID); err != nil {
			return err
		}
	}

	attachBehaviors(world, r, r.Area, r.definition.Behaviors, &r.listeners)
	r.hydrated = true
	r.Events.Spawn.Publish(r)
	return nil
}

// Respawn tops the room up to each default's max load, rolling each
// default's respawn chance on a d100.
func (r *Room) Respawn(world World) error {
	for _, spawn := range r.definition.Npcs {
		if r.countSpawnedNpcs(spawn.ID) >= spawn.MaxLoad {
			continue
		}
		if !r.rollChance(world, spawn.RespawnChance) {
			continue
		}
		if _, err := r.SpawnNpc(world, spawn.ID); err != nil {
			return err
		}
	}

	for _, spawn := range r.definition.Items {
		existing := r.itemsByReference(spawn.ID)
		if spawn.ReplaceOnRespawn {
			for _, item := range existing {
				r.RemoveItem(item)
			}
			existing = nil
		}
		if len(existing) >= spawn.MaxLoad {
			continue
		}
		if !r.rollChance(world, spawn.RespawnChance) {
			continue
		}
		if _, err := r.SpawnItem(world, spawn.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Room) rollChance(world World, chance int) bool {
	if chance >= 100 {
		return true
	}
	if chance <= 0 {
		return false
	}
	roll, err := world.Roller().Roll(100)
	if err != nil {
		return false
	}
	return roll <= chance
}

func (r *Room) countSpawnedNpcs(ref string) int {
	count := 0
	for _, npc := range r.spawnedNpcs.values() {
		if npc.EntityReference == ref {
			count++
		}
	}
	return count
}

func (r *Room) itemsByReference(ref string) []*Item {
	var out []*Item
	for _, item := range r.items.values() {
		if item.EntityReference == ref {
			out = append(out, item)
		}
	}
	return out
}

// Listen adds script subscriptions that are released by DetachBehaviors.
func (r *Room) Listen(subs ...eventbus.Subscription) {
	r.listeners.Add(subs...)
}

// DetachBehaviors releases every behavior and script subscription.
func (r *Room) DetachBehaviors() {
	r.listeners.Unsubscribe()
}

// Origin returns the area and entity reference the room was created from.
func (r *Room) Origin() (area, ref string) {
	if r == nil {
		return "", ""
	}
	return r.Area, r.EntityReference
}
