package bundles_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/behaviors"
	"github.com/KirkDiggler/rpg-mud/internal/bundles"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/factory"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

type LoaderTestSuite struct {
	suite.Suite
	ctx  context.Context
	root string
	reg  *bundles.Registry
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (s *LoaderTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.root = s.T().TempDir()

	effectFactory, err := effects.NewFactory(&effects.FactoryConfig{Clock: clock.New()})
	s.Require().NoError(err)
	mobs, err := factory.NewMobFactory(&factory.MobFactoryConfig{Clock: clock.New()})
	s.Require().NoError(err)
	rooms := factory.NewRoomFactory()

	s.reg = &bundles.Registry{
		Attributes: attributes.NewFactory(),
		Effects:    effectFactory,
		Items:      factory.NewItemFactory(),
		Mobs:       mobs,
		Rooms:      rooms,
		Areas:      factory.NewAreaFactory(rooms),
		Behaviors: map[string]*behaviors.Manager{
			entities.KindNpc:  behaviors.NewManager(),
			entities.KindItem: behaviors.NewManager(),
			entities.KindRoom: behaviors.NewManager(),
			entities.KindArea: behaviors.NewManager(),
		},
	}
}

func (s *LoaderTestSuite) write(rel, content string) {
	path := filepath.Join(s.root, rel)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
}

func (s *LoaderTestSuite) load(bundleNames ...string) (*bundles.Result, error) {
	loader, err := bundles.NewLoader(&bundles.LoaderConfig{
		Root:     s.root,
		Bundles:  bundleNames,
		Registry: s.reg,
	})
	s.Require().NoError(err)
	return loader.Load(s.ctx)
}

func (s *LoaderTestSuite) writeCoreBundle() {
	s.write("core/attributes.yml", `
- name: strength
  base: 10
- name: health
  base: 100
  formula:
    requires: [strength]
    fn: return current + strength * 2
`)
	s.write("core/effects.yml", `
- id: rage
  config:
    name: Rage
    type: buff
    duration: 5000
- id: aura
  config:
    name: Aura
`)
	s.write("core/effects/rage.lua", `
function modifyAttribute(name, current)
  if name == "strength" then return current + 5 end
  return current
end
`)
	s.write("core/behaviors/npc/aggro.lua", "function onEnterRoom(room) end\n")
	s.write("core/behaviors/npc/notes.txt", "ignored")

	s.write("core/areas/limbo/manifest.yml", "title: Limbo\nrespawnInterval: 30\n")
	s.write("core/areas/limbo/rooms.yml", `
- id: white
  title: The White Room
  coordinates: [0, 0, 0]
  npcs: [rat]
  items:
    - id: chest
      respawnChance: 50
  doors:
    black: {locked: true}
- id: black
  title: The Black Room
  coordinates: [1, 0, 0]
  script: echo
`)
	s.write("core/areas/limbo/npcs.yml", `
- id: rat
  name: a rat
  attributes: {health: 10}
  items: [cheese]
  behaviors:
    aggro: {delay: 2}
- name: nameless
`)
	s.write("core/areas/limbo/items.yml", `
- id: chest
  name: a chest
  type: CONTAINER
  items: [cheese]
- id: cheese
  name: some cheese
`)
	s.write("core/areas/limbo/scripts/room/echo.lua", "function onPlayerEnter(name) end\n")
}

func (s *LoaderTestSuite) TestLoadRegistersDefinitions() {
	s.writeCoreBundle()

	res, err := s.load("core")
	s.Require().NoError(err)

	s.Assert().Equal([]string{"limbo"}, res.Areas)
	s.Assert().Equal(2, res.Attributes)
	s.Assert().Equal(2, res.Effects)
	s.Assert().Equal(1, res.Behaviors)
	s.Assert().Equal(2, res.Rooms)
	s.Assert().Equal(1, res.Npcs)
	s.Assert().Equal(2, res.Items)

	health, ok := s.reg.Attributes.Get("health")
	s.Require().True(ok)
	s.Require().NotNil(health.Formula)
	s.Assert().Equal([]string{"strength"}, health.Formula.Requires())

	rage, ok := s.reg.Effects.Get("rage")
	s.Require().True(ok)
	s.Assert().Equal("buff", rage.Config.Type)
	s.Assert().Equal(effects.Duration(5000), rage.Config.Duration)
	s.Assert().True(rage.Config.Persists, "unset keys keep their defaults")
	s.Assert().NotNil(rage.Modifiers.AttributeFunc)

	aura, ok := s.reg.Effects.Get("aura")
	s.Require().True(ok)
	s.Assert().Nil(aura.Modifiers.AttributeFunc)

	s.Assert().True(s.reg.Behaviors[entities.KindNpc].Has("aggro"))

	room, ok := s.reg.Rooms.GetDefinition("limbo:white")
	s.Require().True(ok)
	s.Assert().Equal("limbo:rat", room.Npcs[0].ID)
	s.Assert().Equal("limbo:chest", room.Items[0].ID)
	s.Assert().Equal(50, room.Items[0].RespawnChance)
	s.Assert().Contains(room.Doors, "limbo:black")
	s.Assert().True(s.reg.Rooms.HasScript("limbo:black"))

	rat, ok := s.reg.Mobs.GetDefinition("limbo:rat")
	s.Require().True(ok)
	s.Assert().Equal([]string{"limbo:cheese"}, rat.Items)
	s.Assert().Equal(map[string]any{"delay": 2}, rat.Behaviors["aggro"])

	chest, ok := s.reg.Items.GetDefinition("limbo:chest")
	s.Require().True(ok)
	s.Assert().Equal([]string{"limbo:cheese"}, chest.Items)

	area, err := s.reg.Areas.Create("limbo")
	s.Require().NoError(err)
	s.Assert().Equal("Limbo", area.Title)
	_, ok = area.GetRoomByID("black")
	s.Assert().True(ok)
}

func (s *LoaderTestSuite) TestMissingEntityScriptIsSoft() {
	s.writeCoreBundle()
	s.Require().NoError(os.Remove(filepath.Join(s.root, "core/areas/limbo/scripts/room/echo.lua")))

	_, err := s.load("core")
	s.Require().NoError(err)
	s.Assert().True(s.reg.Rooms.Has("limbo:black"))
	s.Assert().False(s.reg.Rooms.HasScript("limbo:black"))
}

func (s *LoaderTestSuite) TestMissingManifestIsHard() {
	s.write("core/areas/void/rooms.yml", "- id: nothing\n")

	_, err := s.load("core")
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))

	meta := errors.GetMeta(err)
	s.Assert().Equal("core", meta["bundle"])
	s.Assert().Equal("void", meta["area"])
	s.Assert().Equal(filepath.Join(s.root, "core/areas/void/manifest.yml"), meta["file"])
}

func (s *LoaderTestSuite) TestInvalidYAMLIsHard() {
	s.write("core/areas/limbo/manifest.yml", "title: Limbo\n")
	s.write("core/areas/limbo/npcs.yml", "- id: [broken\n")

	_, err := s.load("core")
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	meta := errors.GetMeta(err)
	s.Assert().Equal("core", meta["bundle"])
	s.Assert().Equal("limbo", meta["area"])
	s.Assert().Equal(filepath.Join(s.root, "core/areas/limbo/npcs.yml"), meta["file"])
}

func (s *LoaderTestSuite) TestMissingBundle() {
	_, err := s.load("nowhere")
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Equal("nowhere", errors.GetMeta(err)["bundle"])
}

func (s *LoaderTestSuite) TestAttributeGraphMustValidate() {
	s.write("core/attributes.yml", `
- name: health
  base: 100
  formula:
    requires: [stamina]
    fn: return current + stamina
`)

	_, err := s.load("core")
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
	s.Assert().Contains(err.Error(), "missing formula dependencies")
}

func (s *LoaderTestSuite) TestLaterBundlesAddAreas() {
	s.writeCoreBundle()
	s.write("extra/areas/forest/manifest.yml", "title: The Forest\n")
	s.write("extra/areas/forest/rooms.yml", "- id: clearing\n  exits:\n    - direction: east\n      roomId: limbo:white\n")

	res, err := s.load("core", "extra")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"limbo", "forest"}, res.Areas)

	clearing, ok := s.reg.Rooms.GetDefinition("forest:clearing")
	s.Require().True(ok)
	s.Assert().Equal("limbo:white", clearing.Exits[0].RoomID)
}
