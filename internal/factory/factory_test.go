package factory_test

import (
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
	"github.com/KirkDiggler/rpg-mud/internal/factory"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

type incompleteFactory struct {
	factory.Base[entities.ItemDefinition]
}

type unreferenced struct{}

func (unreferenced) Origin() (string, string) { return "forest", "" }

type FactoryTestSuite struct {
	suite.Suite
	items *factory.ItemFactory
	mobs  *factory.MobFactory
	rooms *factory.RoomFactory
	areas *factory.AreaFactory
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactoryTestSuite))
}

func (s *FactoryTestSuite) SetupTest() {
	s.items = factory.NewItemFactory()
	s.items.SetDefinition("forest:sword", &entities.ItemDefinition{
		ID:       "sword",
		Name:     "a sword",
		Metadata: map[string]any{"tags": []any{"sharp"}},
	})

	mobs, err := factory.NewMobFactory(&factory.MobFactoryConfig{Clock: clock.New()})
	s.Require().NoError(err)
	s.mobs = mobs
	s.mobs.SetDefinition("forest:goblin", &entities.NpcDefinition{ID: "goblin", Name: "a goblin"})

	s.rooms = factory.NewRoomFactory()
	s.rooms.SetDefinition("forest:clearing", &entities.RoomDefinition{
		ID:          "clearing",
		Coordinates: &entities.Coordinates{},
	})
	s.rooms.SetDefinition("forest:path", &entities.RoomDefinition{
		ID:          "path",
		Coordinates: &entities.Coordinates{X: 1},
	})

	s.areas = factory.NewAreaFactory(s.rooms)
	s.areas.SetDefinition("forest", &entities.AreaManifest{Title: "The Forest"})
	s.areas.SetRooms("forest", []string{"forest:clearing", "forest:path"})
}

func (s *FactoryTestSuite) TestCloneRequiresCreate() {
	f := &incompleteFactory{Base: factory.NewBase[entities.ItemDefinition]("IncompleteFactory")}
	item, err := s.items.Create("forest", "forest:sword")
	s.Require().NoError(err)

	_, err = factory.Clone[*entities.Item](f, item)
	s.Require().Error(err)
	s.Assert().True(errors.IsUnimplemented(err))
	s.Assert().Contains(err.Error(), "IncompleteFactory must implement create() to support clone()")
}

func (s *FactoryTestSuite) TestCloneRequiresEntityReference() {
	_, err := factory.Clone[*entities.Item](s.items, unreferenced{})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "clone(entity) requires an entity with entityReference")
}

func (s *FactoryTestSuite) TestCloneNilEntity() {
	_, err := s.items.Clone((*entities.Item)(nil))
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "clone(entity) requires an entity with entityReference")

	_, err = s.mobs.Clone((*entities.Npc)(nil))
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.rooms.Clone((*entities.Room)(nil))
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.areas.Clone(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *FactoryTestSuite) TestCloneItem() {
	item, err := s.items.Create("forest", "forest:sword")
	s.Require().NoError(err)
	item.Metadata["tags"] = append(item.Metadata["tags"].([]any), "bloody")

	clone, err := s.items.Clone(item)
	s.Require().NoError(err)
	s.Assert().Equal("forest:sword", clone.EntityReference)
	s.Assert().NotEqual(item.UUID, clone.UUID)
	s.Assert().Equal([]any{"sharp"}, clone.Metadata["tags"])
}

func (s *FactoryTestSuite) TestCreateUnknownDefinition() {
	_, err := s.items.Create("forest", "forest:axe")
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.mobs.Create("forest", "forest:troll")
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.areas.Create("swamp")
	s.Assert().True(errors.IsNotFound(err))
}

func (s *FactoryTestSuite) TestMobsGetFreshUUIDs() {
	a, err := s.mobs.Create("forest", "forest:goblin")
	s.Require().NoError(err)
	b, err := s.mobs.Clone(a)
	s.Require().NoError(err)

	s.Assert().NotEqual(a.UUID, b.UUID)
	s.Assert().Equal(a.EntityReference, b.EntityReference)
	s.Assert().Equal(entities.KindNpc, b.GetType())
}

func (s *FactoryTestSuite) TestMobFactoryRequiresClock() {
	_, err := factory.NewMobFactory(&factory.MobFactoryConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *FactoryTestSuite) TestEntityScriptAttachedOnCreate() {
	var seen []string
	s.items.SetEntityScript("forest:sword", func(entity core.Entity, _ any) []eventbus.Subscription {
		seen = append(seen, entity.GetID())
		item := entity.(*entities.Item)
		return []eventbus.Subscription{item.Events.Equip.Subscribe(func(*entities.Character) {})}
	})

	item, err := s.items.Create("forest", "forest:sword")
	s.Require().NoError(err)
	s.Assert().Equal([]string{item.UUID}, seen)
	s.Assert().Equal(1, item.Events.Equip.Len())

	item.DetachBehaviors()
	s.Assert().Equal(0, item.Events.Equip.Len())
}

func (s *FactoryTestSuite) TestAreaCreateAndClone() {
	area, err := s.areas.Create("forest")
	s.Require().NoError(err)
	s.Assert().Equal("The Forest", area.Title)
	s.Require().Len(area.Rooms(), 2)

	clearing, ok := area.GetRoomByID("clearing")
	s.Require().True(ok)
	s.Assert().Same(area, clearing.AreaOf())
	exit, ok := clearing.FindExit("east")
	s.Require().True(ok)
	s.Assert().Equal("forest:path", exit.RoomID)

	clone, err := s.areas.Clone(area)
	s.Require().NoError(err)
	s.Assert().NotSame(area, clone)
	cloned, _ := clone.GetRoomByID("clearing")
	s.Assert().NotSame(clearing, cloned)

	_, err = s.areas.Clone(&entities.Area{})
	s.Assert().True(errors.IsInvalidArgument(err))
}
