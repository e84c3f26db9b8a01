package admin

import (
	"context"
	"encoding/json"
	"log/slog"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/game"
	"github.com/KirkDiggler/rpg-mud/internal/repositories/characters"
)

// Runner runs a closure against the live game state.
type Runner interface {
	Do(ctx context.Context, fn func(*game.State) error) error
}

// WorldHandlerConfig holds dependencies for the world handler
type WorldHandlerConfig struct {
	Game Runner
	// Players serves offline players. Optional.
	Players characters.Repository
}

// Validate ensures all required dependencies are present
func (c *WorldHandlerConfig) Validate() error {
	if c.Game == nil {
		return errors.InvalidArgument("game runner is required")
	}
	return nil
}

// WorldHandler implements WorldService
type WorldHandler struct {
	game    Runner
	players characters.Repository
}

var _ WorldServiceServer = (*WorldHandler)(nil)

// NewWorldHandler creates a new world handler with the given configuration
func NewWorldHandler(cfg *WorldHandlerConfig) (*WorldHandler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &WorldHandler{
		game:    cfg.Game,
		players: cfg.Players,
	}, nil
}

// GetCharacter returns a snapshot of a connected player, an offline player
// save or a live npc.
func (h *WorldHandler) GetCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	name := fields["name"].GetStringValue()
	uuid := fields["uuid"].GetStringValue()

	switch {
	case name == "" && uuid == "":
		return nil, errors.ToGRPCError(errors.InvalidArgument("name or uuid is required"))
	case name != "" && uuid != "":
		return nil, errors.ToGRPCError(errors.InvalidArgument("only one of name or uuid may be set"))
	}

	var snapshot map[string]any
	err := h.game.Do(ctx, func(state *game.State) error {
		if uuid != "" {
			npc, ok := state.MobManager.GetMob(uuid)
			if !ok {
				return errors.NotFoundf("npc %s not found", uuid).WithMeta("uuid", uuid)
			}
			snapshot = npcSnapshot(npc)
			return nil
		}

		if player, ok := state.PlayerManager.GetPlayer(name); ok {
			snapshot = playerSnapshot(player)
		}
		return nil
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if snapshot == nil {
		snapshot, err = h.offlinePlayer(ctx, name)
		if err != nil {
			return nil, errors.ToGRPCError(err)
		}
	}

	out, err := structpb.NewStruct(snapshot)
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInternal, "failed to encode character"))
	}
	return out, nil
}

// ListAreas returns a summary of every loaded area.
func (h *WorldHandler) ListAreas(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	var areas []any
	err := h.game.Do(ctx, func(state *game.State) error {
		for _, area := range state.AreaManager.Areas() {
			var players int
			rooms := area.Rooms()
			for _, room := range rooms {
				players += len(room.Players())
			}
			areas = append(areas, map[string]any{
				"name":    area.Name,
				"title":   area.Title,
				"rooms":   len(rooms),
				"npcs":    len(area.Npcs()),
				"players": players,
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := structpb.NewStruct(map[string]any{"areas": areas})
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInternal, "failed to encode areas"))
	}
	return out, nil
}

func (h *WorldHandler) offlinePlayer(ctx context.Context, name string) (map[string]any, error) {
	if h.players == nil {
		return nil, errors.NotFoundf("player %s is not online", name).WithMeta("player", name)
	}

	data, err := h.players.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode player save")
	}
	snapshot := map[string]any{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to decode player save")
	}
	snapshot["kind"] = entities.KindPlayer
	snapshot["online"] = false

	slog.DebugContext(ctx, "served offline player", "player", name)
	return snapshot, nil
}

func playerSnapshot(player *entities.Player) map[string]any {
	out := characterSnapshot(player.Character)
	out["account"] = player.Account
	out["experience"] = player.Experience
	out["online"] = true
	return out
}

func npcSnapshot(npc *entities.Npc) map[string]any {
	out := characterSnapshot(npc.Character)
	out["uuid"] = npc.UUID
	out["entityReference"] = npc.EntityReference
	out["area"] = npc.Area
	return out
}

func characterSnapshot(c *entities.Character) map[string]any {
	out := map[string]any{
		"id":       c.GetID(),
		"kind":     c.GetType(),
		"name":     c.Name,
		"level":    c.Level,
		"inCombat": c.IsInCombat(),
	}
	if room := c.Room(); room != nil {
		out["room"] = room.EntityReference
	}

	attrs := map[string]any{}
	for _, name := range c.Attributes().Names() {
		current, err := c.GetAttribute(name)
		if err != nil {
			continue
		}
		maxValue, err := c.GetMaxAttribute(name)
		if err != nil {
			continue
		}
		attrs[name] = map[string]any{"current": current, "max": maxValue}
	}
	out["attributes"] = attrs

	var effectList []any
	for _, effect := range c.Effects().Entries() {
		effectList = append(effectList, map[string]any{
			"id":   effect.ID,
			"name": effect.Name(),
		})
	}
	out["effects"] = effectList

	var items []any
	for _, item := range c.Inventory().Items() {
		items = append(items, itemSnapshot(item))
	}
	out["inventory"] = items

	equipment := map[string]any{}
	for _, slot := range c.EquipmentSlots() {
		equipment[slot] = itemSnapshot(c.Equipment()[slot])
	}
	out["equipment"] = equipment
	return out
}

func itemSnapshot(item *entities.Item) map[string]any {
	return map[string]any{
		"uuid":            item.UUID,
		"entityReference": item.EntityReference,
		"name":            item.Name,
		"type":            string(item.Type),
	}
}
