package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	entitiesmock "github.com/KirkDiggler/rpg-mud/internal/entities/mock"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-mud/internal/pkg/clock/mock"
)

type CharacterTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	clock         *mockclock.MockClock
	world         *entitiesmock.MockWorld
	now           time.Time
	attributes    *attributes.Factory
	effectFactory *effects.Factory
	room          *entities.Room
}

func TestCharacterSuite(t *testing.T) {
	suite.Run(t, new(CharacterTestSuite))
}

func (s *CharacterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.world = entitiesmock.NewMockWorld(s.ctrl)
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.attributes = attributes.NewFactory()
	s.attributes.Add("health", 100, nil, nil)
	s.attributes.Add("strength", 10, nil, nil)

	factory, err := effects.NewFactory(&effects.FactoryConfig{Clock: s.clock})
	s.Require().NoError(err)
	s.effectFactory = factory

	cfg := effects.DefaultConfig()
	cfg.Type = "buff.health"
	s.Require().NoError(s.effectFactory.Add(&effects.Definition{
		ID:     "buff.health",
		Config: cfg,
		Modifiers: effects.Modifiers{
			Attributes: map[string]effects.AttributeModifier{
				"health": func(_ *effects.Effect, current float64) float64 { return current + 10 },
			},
		},
	}))

	s.room = entities.NewRoom("limbo", &entities.RoomDefinition{ID: "white", Title: "White Room"})

	s.world.EXPECT().AttributeFactory().Return(s.attributes).AnyTimes()
	s.world.EXPECT().EffectFactory().Return(s.effectFactory).AnyTimes()
	s.world.EXPECT().Clock().Return(s.clock).AnyTimes()
}

func (s *CharacterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CharacterTestSuite) player(name string, attrs map[string]attributes.Data) *entities.Player {
	s.world.EXPECT().GetRoom("limbo:white").Return(s.room, true)

	p := entities.NewPlayer(entities.PlayerData{
		Name:       name,
		Room:       "limbo:white",
		Attributes: attrs,
	}, s.clock)
	s.Require().NoError(p.Hydrate(s.world))
	return p
}

func (s *CharacterTestSuite) health(base, delta float64) *entities.Player {
	return s.player("alice", map[string]attributes.Data{
		"health": {Base: base, Delta: delta},
	})
}

func (s *CharacterTestSuite) captureUpdates(p *entities.Player) *[]entities.AttributeUpdate {
	var updates []entities.AttributeUpdate
	p.Events.AttributeUpdate.Subscribe(func(u entities.AttributeUpdate) {
		updates = append(updates, u)
	})
	return &updates
}

func (s *CharacterTestSuite) TestSetAttributeToMax() {
	p := s.health(100, -30)
	updates := s.captureUpdates(p)

	s.Require().NoError(p.SetAttributeToMax("health"))

	s.Require().Len(*updates, 1)
	s.Assert().Equal(entities.AttributeUpdate{
		Attribute: "health",
		Current:   100,
		Snapshot:  entities.AttributeSnapshot{Name: "health", Base: 100, Max: 100, Current: 100, Delta: 0},
	}, (*updates)[0])
}

func (s *CharacterTestSuite) TestRaiseAttribute() {
	p := s.health(100, -20)
	updates := s.captureUpdates(p)

	s.Require().NoError(p.RaiseAttribute("health", 5))

	s.Require().Len(*updates, 1)
	s.Assert().Equal(entities.AttributeUpdate{
		Attribute: "health",
		Current:   85,
		Snapshot:  entities.AttributeSnapshot{Name: "health", Base: 100, Max: 100, Current: 85, Delta: -15},
	}, (*updates)[0])
}

func (s *CharacterTestSuite) TestLowerAttribute() {
	p := s.health(100, 0)
	updates := s.captureUpdates(p)

	s.Require().NoError(p.LowerAttribute("health", 10))

	s.Require().Len(*updates, 1)
	s.Assert().Equal(entities.AttributeUpdate{
		Attribute: "health",
		Current:   90,
		Snapshot:  entities.AttributeSnapshot{Name: "health", Base: 100, Max: 100, Current: 90, Delta: -10},
	}, (*updates)[0])
}

func (s *CharacterTestSuite) TestSetAttributeBase() {
	p := s.health(100, -10)
	updates := s.captureUpdates(p)

	s.Require().NoError(p.SetAttributeBase("health", 120))

	s.Require().Len(*updates, 1)
	s.Assert().Equal(entities.AttributeUpdate{
		Attribute: "health",
		Current:   110,
		Snapshot:  entities.AttributeSnapshot{Name: "health", Base: 120, Max: 120, Current: 110, Delta: -10},
	}, (*updates)[0])
}

func (s *CharacterTestSuite) TestUnknownAttribute() {
	p := s.health(100, 0)
	updates := s.captureUpdates(p)

	err := p.LowerAttribute("mana", 10)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Empty(*updates)

	_, err = p.GetAttribute("mana")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *CharacterTestSuite) TestMaxAttributeFoldsEffectsThenFormula() {
	formula, err := attributes.NewFormula([]string{"strength"}, func(_ *attributes.Attribute, current float64, args ...float64) float64 {
		return current + args[0]*2
	})
	s.Require().NoError(err)
	s.attributes.Add("health", 100, formula, nil)

	p := s.player("alice", map[string]attributes.Data{
		"health":   {Base: 100, Delta: -5},
		"strength": {Base: 10},
	})

	maxHealth, err := p.GetMaxAttribute("health")
	s.Require().NoError(err)
	s.Assert().Equal(120.0, maxHealth)

	effect, err := s.effectFactory.Create("buff.health")
	s.Require().NoError(err)
	added, err := p.AddEffect(effect)
	s.Require().NoError(err)
	s.Require().True(added)

	maxHealth, err = p.GetMaxAttribute("health")
	s.Require().NoError(err)
	s.Assert().Equal(130.0, maxHealth)

	current, err := p.GetAttribute("health")
	s.Require().NoError(err)
	s.Assert().Equal(125.0, current)

	base, err := p.GetBaseAttribute("health")
	s.Require().NoError(err)
	s.Assert().Equal(100.0, base)
}

func (s *CharacterTestSuite) TestHydrateRejectsUnknownAttribute() {
	s.world.EXPECT().GetRoom(gomock.Any()).Times(0)

	p := entities.NewPlayer(entities.PlayerData{
		Name:       "alice",
		Room:       "limbo:white",
		Attributes: map[string]attributes.Data{"mana": {Base: 10}},
	}, s.clock)

	err := p.Hydrate(s.world)
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "entity trying to hydrate with invalid attribute mana")
	s.Assert().False(p.Hydrated())
}

func (s *CharacterTestSuite) TestHydrateTwiceIsNoop() {
	p := s.health(100, -10)

	s.Require().NoError(p.Hydrate(s.world))

	current, err := p.GetAttribute("health")
	s.Require().NoError(err)
	s.Assert().Equal(90.0, current)
	s.Assert().Len(s.room.Players(), 1)
}

func (s *CharacterTestSuite) TestHydrateRepairsMissingRoom() {
	placeholder := entities.NewRoom("placeholder", &entities.RoomDefinition{ID: "placeholder"})
	s.world.EXPECT().GetRoom("gone:room").Return(nil, false)
	s.world.EXPECT().PlaceholderRoom().Return(placeholder, nil)

	p := entities.NewPlayer(entities.PlayerData{Name: "alice", Room: "gone:room"}, s.clock)
	s.Require().NoError(p.Hydrate(s.world))

	s.Assert().Same(placeholder, p.Room())
	s.Assert().Equal([]*entities.Player{p}, placeholder.Players())
	s.Assert().Equal("placeholder:placeholder", p.Serialize().Room)
}

func (s *CharacterTestSuite) TestHydrateRepairsEmptyRoom() {
	placeholder := entities.NewRoom("placeholder", &entities.RoomDefinition{ID: "placeholder"})
	s.world.EXPECT().PlaceholderRoom().Return(placeholder, nil)

	p := entities.NewPlayer(entities.PlayerData{Name: "alice"}, s.clock)
	s.Require().NoError(p.Hydrate(s.world))

	s.Assert().Same(placeholder, p.Room())
}

func (s *CharacterTestSuite) TestCombatIsSymmetric() {
	alice := s.player("alice", nil)
	bob := s.player("bob", nil)

	var started []string
	alice.Events.CombatStart.Subscribe(func(c *entities.Character) { started = append(started, c.GetID()) })
	bob.Events.CombatStart.Subscribe(func(c *entities.Character) { started = append(started, c.GetID()) })

	alice.InitiateCombat(bob.Character, time.Second)

	s.Assert().Equal([]string{"alice", "bob"}, started)
	s.Assert().True(alice.IsInCombatWith(bob.Character))
	s.Assert().True(bob.IsInCombatWith(alice.Character))
	s.Assert().Equal(time.Second, alice.CombatData.Lag)
	s.Assert().Equal(entities.RetaliationLag, bob.CombatData.Lag)

	var ended []string
	alice.Events.CombatEnd.Subscribe(func(c *entities.Character) { ended = append(ended, c.GetID()) })
	bob.Events.CombatEnd.Subscribe(func(c *entities.Character) { ended = append(ended, c.GetID()) })

	alice.RemoveFromCombat()

	s.Assert().False(alice.IsInCombat())
	s.Assert().False(bob.IsInCombat())
	s.Assert().ElementsMatch([]string{"alice", "bob"}, ended)
}

func (s *CharacterTestSuite) TestCombatReadyHonoursLag() {
	alice := s.player("alice", nil)
	bob := s.player("bob", nil)

	alice.InitiateCombat(bob.Character, time.Second)
	s.Assert().False(alice.CombatReady())

	s.now = s.now.Add(time.Second)
	s.Assert().True(alice.CombatReady())
	s.Assert().False(bob.CombatReady())

	s.now = s.now.Add(entities.RetaliationLag)
	s.Assert().True(bob.CombatReady())
}

func (s *CharacterTestSuite) TestSecondTargetKeepsRoundLag() {
	alice := s.player("alice", nil)
	bob := s.player("bob", nil)
	carol := s.player("carol", nil)

	alice.InitiateCombat(bob.Character, 5*time.Second)
	s.now = s.now.Add(time.Second)
	alice.InitiateCombat(carol.Character, 0)

	s.Assert().True(alice.IsInCombatWith(carol.Character))
	s.Assert().Equal(5*time.Second, alice.CombatData.Lag)
	s.Assert().False(alice.CombatReady())
	s.Assert().Equal(entities.RetaliationLag, carol.CombatData.Lag)

	s.now = s.now.Add(4 * time.Second)
	s.Assert().True(alice.CombatReady())
}

func (s *CharacterTestSuite) TestFollow() {
	alice := s.player("alice", nil)
	bob := s.player("bob", nil)

	bob.Follow(alice.Character)
	s.Assert().True(bob.IsFollowing(alice.Character))
	s.Assert().True(alice.HasFollower(bob.Character))

	bob.Unfollow()
	s.Assert().Nil(bob.Following())
	s.Assert().Empty(alice.Followers())
}

func (s *CharacterTestSuite) TestParty() {
	alice := s.player("alice", nil)
	bob := s.player("bob", nil)
	manager := entities.NewPartyManager()

	party, err := manager.Create(alice.Character)
	s.Require().NoError(err)

	party.Invite(bob.Character)
	s.Assert().True(party.IsInvited(bob.Character))
	s.Require().NoError(party.Add(bob.Character))
	s.Assert().False(party.IsInvited(bob.Character))
	s.Assert().Same(party, bob.Party())
	s.Assert().Equal([]*entities.Player{alice, bob}, party.GetBroadcastTargets())

	_, err = manager.Create(bob.Character)
	s.Assert().True(errors.IsFailedPrecondition(err))

	manager.Disband(party)
	s.Assert().Nil(alice.Party())
	s.Assert().Nil(bob.Party())
	s.Assert().Empty(manager.Parties())
}
