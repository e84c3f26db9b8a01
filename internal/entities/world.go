package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/behaviors"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

//go:generate mockgen -destination=mock/mock.go -package=entitiesmock github.com/KirkDiggler/rpg-mud/internal/entities World

// World is the live game state entities hydrate against.
type World interface {
	Clock() clock.Clock
	Roller() dice.Roller
	AttributeFactory() *attributes.Factory
	EffectFactory() *effects.Factory
	// Behaviors returns the behavior registry for an entity kind.
	Behaviors(kind string) *behaviors.Manager

	// CreateItem and CreateNpc return new, unhydrated entities for a
	// definition reference.
	CreateItem(ref string) (*Item, error)
	CreateNpc(ref string) (*Npc, error)

	GetRoom(ref string) (*Room, bool)
	PlaceholderRoom() (*Room, error)

	TrackItem(item *Item)
	TrackMob(npc *Npc)
}
