package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/config"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/game"
	mockclock "github.com/KirkDiggler/rpg-mud/internal/pkg/clock/mock"
	charactersmock "github.com/KirkDiggler/rpg-mud/internal/repositories/characters/mock"
)

type fixedRoller struct {
	value int
}

func (r *fixedRoller) Roll(int) (int, error) { return r.value, nil }

func (r *fixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = r.value
	}
	return out, nil
}

type StateTestSuite struct {
	suite.Suite
	ctx   context.Context
	ctrl  *gomock.Controller
	clock *mockclock.MockClock
	repo  *charactersmock.MockRepository
	bus   events.EventBus
	now   time.Time
	state *game.State
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateTestSuite))
}

func (s *StateTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.repo = charactersmock.NewMockRepository(s.ctrl)
	s.bus = events.NewBus()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	config.Load(map[string]any{})

	state, err := game.NewState(&game.StateConfig{
		Clock:   s.clock,
		Roller:  &fixedRoller{value: 4},
		Bus:     s.bus,
		Players: s.repo,
	})
	s.Require().NoError(err)
	s.state = state

	s.state.AttributeFactory().Add("health", 100, nil, nil)
	s.state.ItemFactory.SetDefinition("limbo:bone", &entities.ItemDefinition{ID: "bone", Name: "a bone"})
	s.state.MobFactory.SetDefinition("limbo:rat", &entities.NpcDefinition{
		ID:         "rat",
		Name:       "a rat",
		Attributes: map[string]float64{"health": 3},
		Items:      []string{"limbo:bone"},
	})
	s.state.RoomFactory.SetDefinition("limbo:white", &entities.RoomDefinition{
		ID:   "white",
		Npcs: []entities.SpawnRef{{ID: "limbo:rat", RespawnChance: 100, MaxLoad: 1}},
	})
	s.state.AreaFactory.SetDefinition("limbo", &entities.AreaManifest{Title: "Limbo"})
	s.state.AreaFactory.SetRooms("limbo", []string{"limbo:white"})
}

func (s *StateTestSuite) TearDownTest() {
	config.Reset()
	s.ctrl.Finish()
}

func (s *StateTestSuite) loadPlayer(room string) *entities.Player {
	s.repo.EXPECT().Fetch(s.ctx, "Rowan").Return(entities.PlayerData{
		Name:       "Rowan",
		Account:    "acct-1",
		Room:       room,
		Attributes: map[string]attributes.Data{"health": {Base: 100}},
	}, nil)

	player, err := s.state.LoadPlayer(s.ctx, "Rowan")
	s.Require().NoError(err)
	return player
}

func (s *StateTestSuite) TestNewStateValidation() {
	_, err := game.NewState(&game.StateConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = game.NewState(&game.StateConfig{
		Clock:           s.clock,
		Roller:          &fixedRoller{},
		PlaceholderRoom: "nowhere",
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *StateTestSuite) TestBuildWorldSpawnsDefaults() {
	s.Require().NoError(s.state.BuildWorld(s.ctx))

	room, ok := s.state.GetRoom("limbo:white")
	s.Require().True(ok)
	s.Require().Len(room.Npcs(), 1)

	rat := room.Npcs()[0]
	s.Assert().Equal("limbo:rat", rat.EntityReference)
	tracked, ok := s.state.MobManager.GetMob(rat.UUID)
	s.Require().True(ok)
	s.Assert().Same(rat, tracked)
	s.Assert().Equal(1, s.state.ItemManager.Len())
	s.Assert().True(rat.HasItem("limbo:bone"))
}

func (s *StateTestSuite) TestCreateRejectsBadReferences() {
	_, err := s.state.CreateItem("bone")
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.state.CreateNpc("limbo:dragon")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *StateTestSuite) TestPlaceholderRoomIsCreatedOnce() {
	first, err := s.state.PlaceholderRoom()
	s.Require().NoError(err)
	s.Assert().Equal(game.DefaultPlaceholderRoom, first.EntityReference)

	second, err := s.state.PlaceholderRoom()
	s.Require().NoError(err)
	s.Assert().Same(first, second)
}

func (s *StateTestSuite) TestLoadPlayerRepairsMissingRoom() {
	s.Require().NoError(s.state.BuildWorld(s.ctx))
	player := s.loadPlayer("nowhere:void")

	room := player.Room()
	s.Assert().Equal(game.DefaultPlaceholderRoom, room.EntityReference)
	again, err := s.state.LoadPlayer(s.ctx, "rowan")
	s.Require().NoError(err)
	s.Assert().Same(player, again)

	s.repo.EXPECT().Update(s.ctx, "Rowan", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data entities.PlayerData) error {
			s.Assert().Equal(game.DefaultPlaceholderRoom, data.Room)
			s.Assert().Equal("acct-1", data.Account)
			return nil
		})
	s.Require().NoError(s.state.RemovePlayer(s.ctx, player))

	_, ok := s.state.PlayerManager.GetPlayer("Rowan")
	s.Assert().False(ok)
	s.Assert().Empty(room.Players())
}

func (s *StateTestSuite) TestLoadPlayerNotFound() {
	s.repo.EXPECT().Fetch(s.ctx, "Ghost").Return(entities.PlayerData{}, errors.NotFound("player Ghost not found"))

	_, err := s.state.LoadPlayer(s.ctx, "Ghost")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *StateTestSuite) TestTickResolvesCombatAndRemovesTheDead() {
	s.Require().NoError(s.state.BuildWorld(s.ctx))
	player := s.loadPlayer("limbo:white")

	room := player.Room()
	s.Require().Len(room.Npcs(), 1)
	rat := room.Npcs()[0]

	var killed []events.Event
	s.bus.SubscribeFunc(game.EventKilled, 0, func(_ context.Context, e events.Event) error {
		killed = append(killed, e)
		return nil
	})
	var damaged int
	s.bus.SubscribeFunc(game.EventDamaged, 0, func(_ context.Context, _ events.Event) error {
		damaged++
		return nil
	})

	player.InitiateCombat(rat.Character, 0)
	s.state.Tick(s.ctx)

	s.Require().Len(killed, 1)
	s.Assert().Equal(rat.GetID(), killed[0].Target().GetID())
	s.Assert().Equal(player.GetID(), killed[0].Source().GetID())
	s.Assert().Equal(1, damaged)
	s.Assert().True(rat.Pruned())
	s.Assert().Empty(room.Npcs())
	_, ok := s.state.MobManager.GetMob(rat.UUID)
	s.Assert().False(ok)
	s.Assert().False(player.IsInCombat())
}

func (s *StateTestSuite) TestAreaUpdateRespawnsAfterInterval() {
	s.Require().NoError(s.state.BuildWorld(s.ctx))
	room, _ := s.state.GetRoom("limbo:white")
	rat := room.Npcs()[0]
	s.state.RemoveMob(rat)
	s.Require().Empty(room.Npcs())

	s.state.Tick(s.ctx)
	s.Assert().Empty(room.Npcs(), "respawn waits for the interval")

	s.now = s.now.Add(entities.DefaultRespawnInterval)
	s.state.Tick(s.ctx)
	s.Assert().Len(room.Npcs(), 1)
}

func (s *StateTestSuite) TestNewStateRequiresGameSettings() {
	config.Reset()

	_, err := game.NewState(&game.StateConfig{Clock: s.clock, Roller: &fixedRoller{}})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
	s.Assert().ErrorIs(err, config.ErrNotLoaded)
}

func (s *StateTestSuite) TestGameSettingsTuneCombat() {
	config.Load(map[string]any{
		game.SettingUnarmedDamage: "2d4",
		game.SettingRoundSpeed:    1,
	})
	state, err := game.NewState(&game.StateConfig{Clock: s.clock, Roller: &fixedRoller{value: 4}})
	s.Require().NoError(err)
	state.AttributeFactory().Add("health", 100, nil, nil)
	state.MobFactory.SetDefinition("limbo:wolf", &entities.NpcDefinition{
		ID:         "wolf",
		Name:       "a wolf",
		Attributes: map[string]float64{"health": 20},
	})

	spawn := func() *entities.Npc {
		npc, err := state.CreateNpc("limbo:wolf")
		s.Require().NoError(err)
		s.Require().NoError(npc.Hydrate(state))
		return npc
	}
	attacker, target := spawn(), spawn()
	attacker.InitiateCombat(target.Character, 0)

	round, err := state.Combat.Attack(attacker.Character)
	s.Require().NoError(err)
	s.Require().NotNil(round)
	s.Assert().Equal(8.0, round.Amount)
	s.Assert().Equal(time.Second, attacker.CombatData.Lag)
}

func (s *StateTestSuite) TestInvalidRoundSpeedSetting() {
	config.Load(map[string]any{game.SettingRoundSpeed: "fast"})

	_, err := game.NewState(&game.StateConfig{Clock: s.clock, Roller: &fixedRoller{}})
	s.Assert().True(errors.IsInvalidArgument(err))
}
