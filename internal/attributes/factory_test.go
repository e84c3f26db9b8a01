package attributes_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

type FactoryTestSuite struct {
	suite.Suite
	factory *attributes.Factory
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactoryTestSuite))
}

func (s *FactoryTestSuite) SetupTest() {
	s.factory = attributes.NewFactory()
}

func (s *FactoryTestSuite) formula(requires ...string) *attributes.Formula {
	f, err := attributes.NewFormula(requires, func(_ *attributes.Attribute, current float64, _ ...float64) float64 {
		return current
	})
	s.Require().NoError(err)
	return f
}

func (s *FactoryTestSuite) TestCreateUsesDefinition() {
	s.factory.Add("health", 100, nil, nil)

	attr, err := s.factory.Create("health")
	s.Require().NoError(err)
	s.Assert().Equal("health", attr.Name)
	s.Assert().Equal(100.0, attr.Base())
	s.Assert().Equal(0.0, attr.Delta())

	attr, err = s.factory.CreateWith("health", 50, -10)
	s.Require().NoError(err)
	s.Assert().Equal(50.0, attr.Base())
	s.Assert().Equal(-10.0, attr.Delta())
}

func (s *FactoryTestSuite) TestCreateUnknown() {
	_, err := s.factory.Create("nope")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *FactoryTestSuite) TestCreateCopiesMetadata() {
	s.factory.Add("health", 100, nil, map[string]any{
		"tags": map[string]any{"category": "vital"},
		"list": []any{"a"},
	})

	a, err := s.factory.Create("health")
	s.Require().NoError(err)
	b, err := s.factory.Create("health")
	s.Require().NoError(err)

	a.Metadata["tags"].(map[string]any)["category"] = "changed"
	a.Metadata["list"].([]any)[0] = "z"

	s.Assert().Equal("vital", b.Metadata["tags"].(map[string]any)["category"])
	s.Assert().Equal("a", b.Metadata["list"].([]any)[0])

	def, ok := s.factory.Get("health")
	s.Require().True(ok)
	s.Assert().Equal("vital", def.Metadata["tags"].(map[string]any)["category"])
}

func (s *FactoryTestSuite) TestValidateAggregatesMissingDependencies() {
	s.factory.Add("maxHealth", 100, s.formula("stamina", "vigor"), nil)
	s.factory.Add("manaRegen", 1, s.formula("spirit"), nil)

	err := s.factory.ValidateAttributes()
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
	s.Assert().Contains(err.Error(), "[maxHealth -> stamina]")
	s.Assert().Contains(err.Error(), "[maxHealth -> vigor]")
	s.Assert().Contains(err.Error(), "[manaRegen -> spirit]")
	s.Assert().Equal(
		"Attribute validation failed: missing formula dependencies: [maxHealth -> stamina], [maxHealth -> vigor], [manaRegen -> spirit]",
		errors.GetMessage(err),
	)
}

func (s *FactoryTestSuite) TestValidateDetectsCycle() {
	s.factory.Add("health", 100, s.formula("vigor"), nil)
	s.factory.Add("vigor", 10, s.formula("health"), nil)

	err := s.factory.ValidateAttributes()
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
	s.Assert().Contains(err.Error(), "circular dependency")
	s.Assert().Contains(err.Error(), "health -> vigor -> health")
}

func (s *FactoryTestSuite) TestValidateAcceptsSharedDependencies() {
	s.factory.Add("strength", 10, nil, nil)
	s.factory.Add("stamina", 10, s.formula("strength"), nil)
	s.factory.Add("health", 100, s.formula("strength", "stamina"), nil)

	s.Assert().NoError(s.factory.ValidateAttributes())
	s.Assert().Equal([]string{"strength", "stamina", "health"}, s.factory.Names())
}
