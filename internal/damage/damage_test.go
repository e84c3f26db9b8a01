package damage_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

type stubCombatant struct {
	id       string
	attrs    map[string]float64
	incoming func(float64) float64
	outgoing func(float64) float64
	hits     []damage.Event
	damaged  []damage.Event
}

func newStub(id string) *stubCombatant {
	return &stubCombatant{
		id:       id,
		attrs:    map[string]float64{"health": 100},
		incoming: func(a float64) float64 { return a },
		outgoing: func(a float64) float64 { return a },
	}
}

func (c *stubCombatant) GetID() string   { return c.id }
func (c *stubCombatant) GetType() string { return "npc" }
func (c *stubCombatant) EvaluateIncomingDamage(_ *damage.Damage, amount float64) float64 {
	return c.incoming(amount)
}
func (c *stubCombatant) EvaluateOutgoingDamage(_ *damage.Damage, amount float64) float64 {
	return c.outgoing(amount)
}
func (c *stubCombatant) HasAttribute(name string) bool {
	_, ok := c.attrs[name]
	return ok
}
func (c *stubCombatant) LowerAttribute(name string, amount float64) error {
	c.attrs[name] -= amount
	return nil
}
func (c *stubCombatant) RaiseAttribute(name string, amount float64) error {
	c.attrs[name] += amount
	return nil
}
func (c *stubCombatant) NotifyHit(e damage.Event)     { c.hits = append(c.hits, e) }
func (c *stubCombatant) NotifyDamaged(e damage.Event) { c.damaged = append(c.damaged, e) }

type DamageTestSuite struct {
	suite.Suite
	attacker *stubCombatant
	target   *stubCombatant
}

func TestDamageSuite(t *testing.T) {
	suite.Run(t, new(DamageTestSuite))
}

func (s *DamageTestSuite) SetupTest() {
	s.attacker = newStub("attacker")
	s.target = newStub("target")
}

func (s *DamageTestSuite) newDamage(amount float64, withAttacker bool) *damage.Damage {
	cfg := &damage.Config{Attribute: "health", Amount: amount, Source: "sword"}
	if withAttacker {
		cfg.Attacker = s.attacker
	}
	d, err := damage.New(cfg)
	s.Require().NoError(err)
	return d
}

func (s *DamageTestSuite) TestNewValidates() {
	_, err := damage.New(&damage.Config{Amount: 5})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = damage.New(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *DamageTestSuite) TestEvaluateRunsOutgoingThenIncoming() {
	s.attacker.outgoing = func(a float64) float64 { return a + 5 }
	s.target.incoming = func(a float64) float64 { return a * 2 }

	d := s.newDamage(10, true)
	s.Assert().Equal(30.0, d.Evaluate(s.target))
	s.Assert().Equal(100.0, s.target.attrs["health"])
}

func (s *DamageTestSuite) TestEvaluateWithoutAttacker() {
	s.attacker.outgoing = func(a float64) float64 { return a + 100 }
	d := s.newDamage(10, false)
	s.Assert().Equal(10.0, d.Evaluate(s.target))
}

func (s *DamageTestSuite) TestCommitLowersAndNotifies() {
	d := s.newDamage(25, true)

	amount, err := d.Commit(s.target)
	s.Require().NoError(err)
	s.Assert().Equal(25.0, amount)
	s.Assert().Equal(75.0, s.target.attrs["health"])

	s.Require().Len(s.attacker.hits, 1)
	s.Require().Len(s.target.damaged, 1)
	s.Assert().Same(d, s.target.damaged[0].Damage)
	s.Assert().Equal(25.0, s.attacker.hits[0].Amount)
}

func (s *DamageTestSuite) TestCommitNegativeHeals() {
	s.target.attrs["health"] = 50
	s.target.incoming = func(a float64) float64 { return a - 20 }

	amount, err := s.newDamage(5, false).Commit(s.target)
	s.Require().NoError(err)
	s.Assert().Equal(-15.0, amount)
	s.Assert().Equal(65.0, s.target.attrs["health"])
	s.Assert().Len(s.target.damaged, 1)
}

func (s *DamageTestSuite) TestCommitMissingAttribute() {
	d, err := damage.New(&damage.Config{Attribute: "mana", Amount: 5})
	s.Require().NoError(err)

	_, err = d.Commit(s.target)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Empty(s.target.damaged)
}
