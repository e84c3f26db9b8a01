// Package game owns the live world: definition factories, entity managers,
// the combat resolver and the loop that ticks them.
package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/behaviors"
	"github.com/KirkDiggler/rpg-mud/internal/bundles"
	"github.com/KirkDiggler/rpg-mud/internal/combat"
	"github.com/KirkDiggler/rpg-mud/internal/config"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/factory"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-mud/internal/repositories/characters"
)

// DefaultPlaceholderRoom is where players with a missing room are moved.
var DefaultPlaceholderRoom = entities.Reference("placeholder", "placeholder")

// StateConfig configures a State.
type StateConfig struct {
	Clock  clock.Clock
	Roller dice.Roller
	// Bus receives relayed character events. Defaults to a new bus.
	Bus events.EventBus
	// Players persists player saves. Optional.
	Players characters.Repository
	// PlaceholderRoom defaults to placeholder:placeholder.
	PlaceholderRoom string
	// Combat overrides the resolver defaults. Its Roller is always Roller.
	Combat combat.ResolverConfig
}

// Validate checks the config
func (c *StateConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.PlaceholderRoom != "" {
		if _, _, err := entities.ParseReference(c.PlaceholderRoom); err != nil {
			vb.Field("PlaceholderRoom", errors.GetMessage(err))
		}
	}
	return vb.Build()
}

// State is the live game. It implements entities.World. State is not safe
// for concurrent use; mutate it from the Loop goroutine.
type State struct {
	ItemFactory *factory.ItemFactory
	MobFactory  *factory.MobFactory
	RoomFactory *factory.RoomFactory
	AreaFactory *factory.AreaFactory

	AreaManager   *AreaManager
	MobManager    *MobManager
	ItemManager   *ItemManager
	PlayerManager *PlayerManager
	PartyManager  *entities.PartyManager

	Combat *combat.Resolver
	Relay  *Relay

	clock          clock.Clock
	roller         dice.Roller
	attributes     *attributes.Factory
	effects        *effects.Factory
	behaviors      map[string]*behaviors.Manager
	placeholderRef string
}

var _ entities.World = (*State)(nil)

// NewState creates an empty world.
func NewState(cfg *StateConfig) (*State, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid game state config")
	}

	effectFactory, err := effects.NewFactory(&effects.FactoryConfig{Clock: cfg.Clock})
	if err != nil {
		return nil, err
	}
	mobs, err := factory.NewMobFactory(&factory.MobFactoryConfig{Clock: cfg.Clock})
	if err != nil {
		return nil, err
	}
	combatCfg, err := combatSettings(cfg.Combat)
	if err != nil {
		if errors.Is(err, config.ErrNotLoaded) {
			return nil, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "game settings must be loaded before the game state")
		}
		return nil, err
	}
	combatCfg.Roller = cfg.Roller
	resolver, err := combat.NewResolver(&combatCfg)
	if err != nil {
		return nil, err
	}

	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	placeholder := cfg.PlaceholderRoom
	if placeholder == "" {
		placeholder = DefaultPlaceholderRoom
	}

	rooms := factory.NewRoomFactory()
	return &State{
		ItemFactory:   factory.NewItemFactory(),
		MobFactory:    mobs,
		RoomFactory:   rooms,
		AreaFactory:   factory.NewAreaFactory(rooms),
		AreaManager:   NewAreaManager(),
		MobManager:    NewMobManager(),
		ItemManager:   NewItemManager(),
		PlayerManager: NewPlayerManager(cfg.Players),
		PartyManager:  entities.NewPartyManager(),
		Combat:        resolver,
		Relay:         NewRelay(bus),
		clock:         cfg.Clock,
		roller:        cfg.Roller,
		attributes:    attributes.NewFactory(),
		effects:       effectFactory,
		behaviors: map[string]*behaviors.Manager{
			entities.KindNpc:  behaviors.NewManager(),
			entities.KindItem: behaviors.NewManager(),
			entities.KindRoom: behaviors.NewManager(),
			entities.KindArea: behaviors.NewManager(),
		},
		placeholderRef: placeholder,
	}, nil
}

// Registry returns the factories bundles are loaded into.
func (s *State) Registry() *bundles.Registry {
	return &bundles.Registry{
		Attributes: s.attributes,
		Effects:    s.effects,
		Items:      s.ItemFactory,
		Mobs:       s.MobFactory,
		Rooms:      s.RoomFactory,
		Areas:      s.AreaFactory,
		Behaviors:  s.behaviors,
	}
}

// Clock returns the game clock.
func (s *State) Clock() clock.Clock { return s.clock }

// Roller returns the game dice roller.
func (s *State) Roller() dice.Roller { return s.roller }

// AttributeFactory returns the attribute definitions.
func (s *State) AttributeFactory() *attributes.Factory { return s.attributes }

// EffectFactory returns the effect definitions.
func (s *State) EffectFactory() *effects.Factory { return s.effects }

// Behaviors returns the behavior registry for an entity kind, or nil.
func (s *State) Behaviors(kind string) *behaviors.Manager { return s.behaviors[kind] }

// CreateItem creates an unhydrated item from a definition reference.
func (s *State) CreateItem(ref string) (*entities.Item, error) {
	area, _, err := entities.ParseReference(ref)
	if err != nil {
		return nil, err
	}
	return s.ItemFactory.Create(area, ref)
}

// CreateNpc creates an unhydrated npc from a definition reference.
func (s *State) CreateNpc(ref string) (*entities.Npc, error) {
	area, _, err := entities.ParseReference(ref)
	if err != nil {
		return nil, err
	}
	return s.MobFactory.Create(area, ref)
}

// GetRoom resolves a room reference.
func (s *State) GetRoom(ref string) (*entities.Room, bool) {
	return s.AreaManager.GetRoom(ref)
}

// PlaceholderRoom returns the room players are repaired to, creating an empty
// one when no bundle defines it.
func (s *State) PlaceholderRoom() (*entities.Room, error) {
	if room, ok := s.GetRoom(s.placeholderRef); ok {
		return room, nil
	}

	areaName, id, err := entities.ParseReference(s.placeholderRef)
	if err != nil {
		return nil, err
	}
	area, ok := s.AreaManager.GetArea(areaName)
	if !ok {
		area = entities.NewArea(areaName, &entities.AreaManifest{Title: "Placeholder"})
		s.AreaManager.AddArea(area)
	}

	room := entities.NewRoom(areaName, &entities.RoomDefinition{
		ID:          id,
		Title:       "Placeholder",
		Description: "You are somewhere that does not exist. Find your way back.",
	})
	if err := area.AddRoom(room); err != nil {
		return nil, errors.Wrap(err, "failed to create placeholder room")
	}
	if err := room.Hydrate(s); err != nil {
		return nil, err
	}

	slog.Warn("created placeholder room", "room", room.EntityReference)
	return room, nil
}

// TrackItem registers an item with the item manager.
func (s *State) TrackItem(item *entities.Item) {
	s.ItemManager.Add(item)
}

// TrackMob registers an npc with the mob manager and relays its events.
func (s *State) TrackMob(npc *entities.Npc) {
	s.MobManager.AddMob(npc)
	s.Relay.Watch(npc.Character)
}

// RemoveMob prunes an npc and stops relaying its events.
func (s *State) RemoveMob(npc *entities.Npc) {
	s.Relay.Unwatch(npc.Character)
	s.MobManager.RemoveMob(npc)
}

// LoadPlayer loads a saved player into the world.
func (s *State) LoadPlayer(ctx context.Context, name string) (*entities.Player, error) {
	player, err := s.PlayerManager.LoadPlayer(ctx, s, name)
	if err != nil {
		return nil, err
	}
	s.Relay.Watch(player.Character)
	return player, nil
}

// RemovePlayer saves and unloads a player.
func (s *State) RemovePlayer(ctx context.Context, player *entities.Player) error {
	err := s.PlayerManager.Save(ctx, player)
	if err != nil && !errors.IsFailedPrecondition(err) {
		return err
	}
	s.Relay.Unwatch(player.Character)
	s.PlayerManager.RemovePlayer(player)
	return nil
}

// BuildWorld creates every defined area and hydrates it. Call after bundles
// have been loaded.
func (s *State) BuildWorld(ctx context.Context) error {
	for _, name := range s.AreaFactory.References() {
		area, err := s.AreaFactory.Create(name)
		if err != nil {
			return errors.Wrapf(err, "failed to create area %s", name).WithMeta("area", name)
		}
		s.AreaManager.AddArea(area)
	}

	// Rooms across areas may spawn into each other, so hydrate after every
	// area is registered.
	for _, area := range s.AreaManager.Areas() {
		if err := area.Hydrate(s); err != nil {
			return errors.Wrapf(err, "failed to hydrate area %s", area.Name).WithMeta("area", area.Name)
		}
	}

	slog.InfoContext(ctx, "world built",
		"areas", len(s.AreaManager.Areas()),
		"npcs", len(s.MobManager.Mobs()),
		"items", s.ItemManager.Len())
	return nil
}

// Tick advances the world one step: effects and entity ticks, combat rounds,
// then area updates.
func (s *State) Tick(ctx context.Context) {
	for _, npc := range s.MobManager.Mobs() {
		npc.Tick()
	}
	for _, player := range s.PlayerManager.Players() {
		player.Tick()
	}
	s.ItemManager.Tick()

	s.resolveCombat(ctx)

	for _, area := range s.AreaManager.Areas() {
		if err := area.Update(s); err != nil {
			slog.ErrorContext(ctx, "area update failed",
				"area", area.Name,
				"error", err.Error())
		}
	}
}

func (s *State) resolveCombat(ctx context.Context) {
	var fighters []*entities.Character
	for _, player := range s.PlayerManager.Players() {
		fighters = append(fighters, player.Character)
	}
	for _, npc := range s.MobManager.Mobs() {
		fighters = append(fighters, npc.Character)
	}

	for _, fighter := range fighters {
		if npc := fighter.Npc(); npc != nil && npc.Pruned() {
			continue
		}
		round, err := s.Combat.Attack(fighter)
		if err != nil {
			slog.ErrorContext(ctx, "combat round failed",
				"attacker", fighter.GetID(),
				"error", err.Error())
			continue
		}
		if round == nil || !round.Killed {
			continue
		}

		s.Relay.Killed(round.Attacker, round.Target)
		if npc := round.Target.Npc(); npc != nil {
			s.RemoveMob(npc)
		}
	}
}
