package game

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/repositories/characters"
)

// AreaManager holds the live areas by name.
type AreaManager struct {
	areas map[string]*entities.Area
}

// NewAreaManager creates an empty manager.
func NewAreaManager() *AreaManager {
	return &AreaManager{areas: make(map[string]*entities.Area)}
}

// AddArea registers area, replacing any area with the same name.
func (m *AreaManager) AddArea(area *entities.Area) {
	m.areas[area.Name] = area
}

// RemoveArea unregisters area and detaches its behaviors.
func (m *AreaManager) RemoveArea(area *entities.Area) {
	area.DetachBehaviors()
	delete(m.areas, area.Name)
}

// GetArea returns the area with the given name.
func (m *AreaManager) GetArea(name string) (*entities.Area, bool) {
	area, ok := m.areas[name]
	return area, ok
}

// Areas returns every area sorted by name.
func (m *AreaManager) Areas() []*entities.Area {
	names := make([]string, 0, len(m.areas))
	for name := range m.areas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*entities.Area, len(names))
	for i, name := range names {
		out[i] = m.areas[name]
	}
	return out
}

// GetRoom resolves a room reference.
func (m *AreaManager) GetRoom(ref string) (*entities.Room, bool) {
	areaName, id, err := entities.ParseReference(ref)
	if err != nil {
		return nil, false
	}
	area, ok := m.areas[areaName]
	if !ok {
		return nil, false
	}
	return area.GetRoomByID(id)
}

// MobManager holds the live npcs by uuid.
type MobManager struct {
	mobs map[string]*entities.Npc
}

// NewMobManager creates an empty manager.
func NewMobManager() *MobManager {
	return &MobManager{mobs: make(map[string]*entities.Npc)}
}

// AddMob tracks npc.
func (m *MobManager) AddMob(npc *entities.Npc) {
	m.mobs[npc.UUID] = npc
}

// RemoveMob takes npc out of the world: effects are cleared, behaviors are
// detached, and it is pruned from its room and area.
func (m *MobManager) RemoveMob(npc *entities.Npc) {
	npc.Prune()
	delete(m.mobs, npc.UUID)
}

// GetMob returns the npc with the given uuid.
func (m *MobManager) GetMob(uuid string) (*entities.Npc, bool) {
	npc, ok := m.mobs[uuid]
	return npc, ok
}

// Mobs returns every npc sorted by uuid.
func (m *MobManager) Mobs() []*entities.Npc {
	ids := make([]string, 0, len(m.mobs))
	for id := range m.mobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*entities.Npc, len(ids))
	for i, id := range ids {
		out[i] = m.mobs[id]
	}
	return out
}

// ItemManager holds the live items by uuid.
type ItemManager struct {
	items map[string]*entities.Item
}

// NewItemManager creates an empty manager.
func NewItemManager() *ItemManager {
	return &ItemManager{items: make(map[string]*entities.Item)}
}

// Add tracks item.
func (m *ItemManager) Add(item *entities.Item) {
	m.items[item.UUID] = item
}

// Remove detaches the item's behaviors, takes it out of wherever it is and
// stops tracking it and its contents.
func (m *ItemManager) Remove(item *entities.Item) {
	switch {
	case item.Room() != nil:
		item.Room().RemoveItem(item)
	case item.Container() != nil:
		item.Container().RemoveItem(item)
	case item.CarriedBy() != nil:
		item.CarriedBy().RemoveItem(item)
	}
	if inv := item.Inventory(); inv != nil {
		for _, child := range inv.Items() {
			m.Remove(child)
		}
	}
	item.DetachBehaviors()
	delete(m.items, item.UUID)
}

// Get returns the item with the given uuid.
func (m *ItemManager) Get(uuid string) (*entities.Item, bool) {
	item, ok := m.items[uuid]
	return item, ok
}

// Len returns the number of tracked items.
func (m *ItemManager) Len() int {
	return len(m.items)
}

// Tick raises Tick on every item.
func (m *ItemManager) Tick() {
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			item.Events.Tick.Publish(item)
		}
	}
}

// PlayerManager holds the connected players and loads and saves them
// through the player repository.
type PlayerManager struct {
	players map[string]*entities.Player
	repo    characters.Repository
}

// NewPlayerManager creates an empty manager. repo may be nil when players
// are never persisted.
func NewPlayerManager(repo characters.Repository) *PlayerManager {
	return &PlayerManager{
		players: make(map[string]*entities.Player),
		repo:    repo,
	}
}

func playerKey(name string) string {
	return strings.ToLower(name)
}

// AddPlayer tracks player.
func (m *PlayerManager) AddPlayer(player *entities.Player) {
	m.players[playerKey(player.Name)] = player
}

// RemovePlayer stops tracking player and takes them out of combat and their
// room.
func (m *PlayerManager) RemovePlayer(player *entities.Player) {
	player.RemoveFromCombat()
	if room := player.Room(); room != nil {
		room.RemovePlayer(player)
	}
	delete(m.players, playerKey(player.Name))
}

// GetPlayer returns a connected player by case-insensitive name.
func (m *PlayerManager) GetPlayer(name string) (*entities.Player, bool) {
	player, ok := m.players[playerKey(name)]
	return player, ok
}

// Players returns the connected players sorted by name.
func (m *PlayerManager) Players() []*entities.Player {
	keys := make([]string, 0, len(m.players))
	for k := range m.players {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*entities.Player, len(keys))
	for i, k := range keys {
		out[i] = m.players[k]
	}
	return out
}

// LoadPlayer fetches a save and hydrates it into world. An already
// connected player is returned as is.
func (m *PlayerManager) LoadPlayer(ctx context.Context, world entities.World, name string) (*entities.Player, error) {
	if player, ok := m.GetPlayer(name); ok {
		return player, nil
	}
	if m.repo == nil {
		return nil, errors.FailedPrecondition("no player repository configured")
	}

	data, err := m.repo.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	player := entities.NewPlayer(data, world.Clock())
	if err := player.Hydrate(world); err != nil {
		return nil, errors.Wrapf(err, "failed to hydrate player %s", name).WithMeta("player", name)
	}
	m.AddPlayer(player)

	slog.InfoContext(ctx, "player loaded",
		"player", player.Name,
		"room", player.Room().EntityReference)
	return player, nil
}

// Save writes player to the repository.
func (m *PlayerManager) Save(ctx context.Context, player *entities.Player) error {
	if m.repo == nil {
		return errors.FailedPrecondition("no player repository configured")
	}
	return m.repo.Update(ctx, player.Name, player.Serialize())
}

// SaveAll writes every connected player, stopping at the first failure.
func (m *PlayerManager) SaveAll(ctx context.Context) error {
	for _, player := range m.Players() {
		if err := m.Save(ctx, player); err != nil {
			return errors.Wrapf(err, "failed to save player %s", player.Name)
		}
	}
	return nil
}
