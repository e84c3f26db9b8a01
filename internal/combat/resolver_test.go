package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/combat"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	entitiesmock "github.com/KirkDiggler/rpg-mud/internal/entities/mock"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-mud/internal/pkg/clock/mock"
)

type stubRoller struct {
	rolls []int
}

func (r *stubRoller) Roll(size int) (int, error) {
	if len(r.rolls) == 0 {
		return 1, nil
	}
	roll := r.rolls[0]
	r.rolls = r.rolls[1:]
	return roll, nil
}

func (r *stubRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

type ResolverTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	clock    *mockclock.MockClock
	world    *entitiesmock.MockWorld
	now      time.Time
	roller   *stubRoller
	resolver *combat.Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.world = entitiesmock.NewMockWorld(s.ctrl)
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	attrs := attributes.NewFactory()
	attrs.Add("health", 100, nil, nil)
	effectFactory, err := effects.NewFactory(&effects.FactoryConfig{Clock: s.clock})
	s.Require().NoError(err)

	s.world.EXPECT().AttributeFactory().Return(attrs).AnyTimes()
	s.world.EXPECT().EffectFactory().Return(effectFactory).AnyTimes()
	s.world.EXPECT().Behaviors(gomock.Any()).Return(nil).AnyTimes()
	s.world.EXPECT().TrackMob(gomock.Any()).AnyTimes()

	s.roller = &stubRoller{}
	resolver, err := combat.NewResolver(&combat.ResolverConfig{Roller: s.roller})
	s.Require().NoError(err)
	s.resolver = resolver
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverTestSuite) npc(id string, health float64) *entities.Npc {
	npc := entities.NewNpc("forest", &entities.NpcDefinition{
		ID:         id,
		Name:       id,
		Attributes: map[string]float64{"health": health},
	}, "", s.clock)
	s.Require().NoError(npc.Hydrate(s.world))
	return npc
}

func (s *ResolverTestSuite) health(c *entities.Character) float64 {
	v, err := c.GetAttribute("health")
	s.Require().NoError(err)
	return v
}

func (s *ResolverTestSuite) TestUnarmedRoundAppliesLag() {
	wolf := s.npc("wolf", 100)
	rat := s.npc("rat", 10)
	wolf.InitiateCombat(rat.Character, 0)
	s.roller.rolls = []int{3}

	round, err := s.resolver.Attack(wolf.Character)
	s.Require().NoError(err)
	s.Require().NotNil(round)
	s.Assert().Equal(3, round.Roll)
	s.Assert().Equal(3.0, round.Amount)
	s.Assert().Nil(round.Weapon)
	s.Assert().False(round.Killed)
	s.Assert().Equal(7.0, s.health(rat.Character))

	round, err = s.resolver.Attack(wolf.Character)
	s.Require().NoError(err)
	s.Assert().Nil(round, "attacker is lagged until the next round")

	round, err = s.resolver.Attack(rat.Character)
	s.Require().NoError(err)
	s.Assert().Nil(round, "retaliation waits out its lag")

	s.now = s.now.Add(entities.RetaliationLag)
	round, err = s.resolver.Attack(rat.Character)
	s.Require().NoError(err)
	s.Require().NotNil(round)
	s.Assert().Equal(wolf.Character, round.Target)
}

func (s *ResolverTestSuite) TestWeaponDamageAndKill() {
	wolf := s.npc("wolf", 100)
	rat := s.npc("rat", 10)

	fang := entities.NewItem("forest", &entities.ItemDefinition{
		ID:       "fang",
		Type:     entities.ItemTypeWeapon,
		Metadata: map[string]any{"damage": "2d6+1", "speed": 1.5},
	}, "")
	s.Require().NoError(wolf.Equip(fang, "wield"))
	s.Assert().Equal(1500*time.Millisecond, s.resolver.Speed(wolf.Character))

	wolf.InitiateCombat(rat.Character, 0)
	s.roller.rolls = []int{4, 5}

	round, err := s.resolver.Attack(wolf.Character)
	s.Require().NoError(err)
	s.Require().NotNil(round)
	s.Assert().Equal(10, round.Roll)
	s.Assert().Equal(fang, round.Weapon)
	s.Assert().True(round.Killed)
	s.Assert().Equal(0.0, s.health(rat.Character))
	s.Assert().False(rat.IsInCombat())
	s.Assert().False(wolf.IsInCombat())
	s.Assert().Equal(1500*time.Millisecond, wolf.CombatData.Lag)
}

func (s *ResolverTestSuite) TestInvalidWeaponDamageFallsBackToUnarmed() {
	wolf := s.npc("wolf", 100)
	rat := s.npc("rat", 10)

	stick := entities.NewItem("forest", &entities.ItemDefinition{
		ID:       "stick",
		Metadata: map[string]any{"damage": "lots"},
	}, "")
	s.Require().NoError(wolf.Equip(stick, "wield"))
	wolf.InitiateCombat(rat.Character, 0)
	s.roller.rolls = []int{2}

	round, err := s.resolver.Attack(wolf.Character)
	s.Require().NoError(err)
	s.Require().NotNil(round)
	s.Assert().Equal(2, round.Roll)
}

func (s *ResolverTestSuite) TestNotInCombat() {
	wolf := s.npc("wolf", 100)

	round, err := s.resolver.Attack(wolf.Character)
	s.Require().NoError(err)
	s.Assert().Nil(round)
}

func (s *ResolverTestSuite) TestConfigValidation() {
	_, err := combat.NewResolver(&combat.ResolverConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = combat.NewResolver(&combat.ResolverConfig{Roller: s.roller, Unarmed: "d"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestParseDice(t *testing.T) {
	d, err := combat.ParseDice("2d6")
	require.NoError(t, err)
	assert.Equal(t, combat.Dice{Count: 2, Size: 6}, d)

	d, err = combat.ParseDice("1D8 + 2")
	require.NoError(t, err)
	assert.Equal(t, combat.Dice{Count: 1, Size: 8, Modifier: 2}, d)
	assert.Equal(t, "1d8+2", d.String())

	d, err = combat.ParseDice("1d4-3")
	require.NoError(t, err)
	total, err := d.Roll(&stubRoller{rolls: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, 0, total, "totals never go negative")

	for _, bad := range []string{"", "d6", "0d6", "2d0", "2x6", "2d6+"} {
		_, err := combat.ParseDice(bad)
		assert.True(t, errors.IsInvalidArgument(err), bad)
	}
}

func (s *ResolverTestSuite) TestMissingAttributeKeepsCombatants() {
	resolver, err := combat.NewResolver(&combat.ResolverConfig{Roller: s.roller, Attribute: "mana"})
	s.Require().NoError(err)

	wolf := s.npc("wolf", 100)
	rat := s.npc("rat", 10)
	wolf.InitiateCombat(rat.Character, 0)

	round, err := resolver.Attack(wolf.Character)
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Nil(round)
	s.Assert().True(wolf.IsInCombatWith(rat.Character))
}
