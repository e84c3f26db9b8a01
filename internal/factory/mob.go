package factory

import (
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

// MobFactoryConfig configures a MobFactory.
type MobFactoryConfig struct {
	Clock clock.Clock
}

// Validate checks the config.
func (c *MobFactoryConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("clock")
	}
	return vb.Build()
}

// MobFactory creates npcs.
type MobFactory struct {
	Base[entities.NpcDefinition]
	clock clock.Clock
}

// NewMobFactory creates an empty mob factory.
func NewMobFactory(cfg *MobFactoryConfig) (*MobFactory, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MobFactory{
		Base:  NewBase[entities.NpcDefinition]("MobFactory"),
		clock: cfg.Clock,
	}, nil
}

// Create builds an unhydrated npc with a fresh uuid from the definition
// stored under ref.
func (f *MobFactory) Create(area, ref string) (*entities.Npc, error) {
	def, err := f.definition(ref)
	if err != nil {
		return nil, err
	}
	npc := entities.NewNpc(area, def, "", f.clock)
	if err := f.attachScript(ref, npc); err != nil {
		return nil, err
	}
	return npc, nil
}

// Clone creates a new npc from the same definition as npc.
func (f *MobFactory) Clone(npc *entities.Npc) (*entities.Npc, error) {
	return Clone[*entities.Npc](f, npc)
}
