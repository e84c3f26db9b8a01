package entities

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

// PlayerData is the persisted state of a player.
type PlayerData struct {
	Name        string                     `json:"name"`
	Account     string                     `json:"account"`
	Description string                     `json:"description,omitempty"`
	Level       int                        `json:"level"`
	Experience  int                        `json:"experience"`
	Prompt      string                     `json:"prompt,omitempty"`
	Room        string                     `json:"room,omitempty"`
	Metadata    map[string]any             `json:"metadata,omitempty"`
	Attributes  map[string]attributes.Data `json:"attributes"`
	Effects     []effects.Data             `json:"effects,omitempty"`
	Inventory   map[string]ItemData        `json:"inventory,omitempty"`
	Equipment   map[string]ItemData        `json:"equipment,omitempty"`
}

// Player is a character controlled by a connected account.
type Player struct {
	*Character

	Account    string
	Experience int
	Prompt     string

	saved PlayerData
}

// NewPlayer creates an unhydrated player from save data.
func NewPlayer(data PlayerData, clk clock.Clock) *Player {
	c := newCharacter(data.Name, KindPlayer, data.Name, clk)
	c.Description = data.Description
	if data.Level > 0 {
		c.Level = data.Level
	}
	if data.Metadata != nil {
		c.Metadata = attributes.DeepCopy(data.Metadata)
	}

	p := &Player{
		Character:  c,
		Account:    data.Account,
		Experience: data.Experience,
		Prompt:     data.Prompt,
		saved:      data,
	}
	c.player = p
	return p
}

// Hydrate builds the player's attributes, effects, inventory and equipment
// and places them in their saved room. A missing or unknown room is repaired
// to the placeholder room.
func (p *Player) Hydrate(world World) error {
	ok, err := p.hydrateCore(world, p.saved.Attributes, p.saved.Effects)
	if err != nil || !ok {
		return err
	}

	room, err := p.resolveRoom(world)
	if err != nil {
		return err
	}
	p.room = room
	room.AddPlayer(p)

	if err := p.Inventory().Hydrate(world, p.saved.Inventory); err != nil {
		return errors.Wrapf(err, "failed to hydrate inventory for %s", p.Name)
	}

	for _, slot := range sortedKeys(p.saved.Equipment) {
		data := p.saved.Equipment[slot]
		item, err := world.CreateItem(data.EntityReference)
		if err != nil {
			slog.Warn("dropping saved equipment with unknown definition",
				"player", p.Name,
				"slot", slot,
				"entity", data.EntityReference)
			continue
		}
		item.UUID = data.UUID
		if err := item.Hydrate(world, &data); err != nil {
			return err
		}
		world.TrackItem(item)
		p.equipment[slot] = item
		item.equippedBy = p.Character
	}

	p.hydrated = true
	return nil
}

func (p *Player) resolveRoom(world World) (*Room, error) {
	if p.saved.Room != "" {
		if room, ok := world.GetRoom(p.saved.Room); ok {
			return room, nil
		}
	}

	slog.Error("player room is missing or invalid, moving to placeholder",
		"player", p.Name,
		"room", p.saved.Room)

	room, err := world.PlaceholderRoom()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to repair room for %s", p.Name)
	}
	return room, nil
}

// MoveTo moves the player into room.
func (p *Player) MoveTo(room *Room) {
	if p.room != nil {
		p.room.RemovePlayer(p)
	}
	p.room = room
	room.AddPlayer(p)
	p.Events.EnterRoom.Publish(room)
}

// Serialize returns the player's persisted state.
func (p *Player) Serialize() PlayerData {
	data := PlayerData{
		Name:        p.Name,
		Account:     p.Account,
		Description: p.Description,
		Level:       p.Level,
		Experience:  p.Experience,
		Prompt:      p.Prompt,
		Metadata:    attributes.DeepCopy(p.Metadata),
		Attributes:  p.attributes.Serialize(),
		Effects:     p.effects.Serialize(),
	}
	if p.room != nil {
		data.Room = p.room.EntityReference
	}
	if p.inventory != nil {
		data.Inventory = p.inventory.Serialize()
	}
	if len(p.equipment) > 0 {
		data.Equipment = make(map[string]ItemData, len(p.equipment))
		for slot, item := range p.equipment {
			data.Equipment[slot] = item.Serialize()
		}
	}
	return data
}
