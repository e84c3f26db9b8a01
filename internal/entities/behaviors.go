package entities

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// attachBehaviors attaches every named behavior in defs to entity and
// collects the subscriptions into group. Unknown behaviors are skipped with a
// warning so one bad reference does not keep the entity out of the world.
func attachBehaviors(world World, entity core.Entity, area string, defs map[string]any, group *eventbus.Group) {
	if len(defs) == 0 {
		return
	}
	manager := world.Behaviors(entity.GetType())
	for _, name := range sortedKeys(defs) {
		if manager == nil || !manager.Has(name) {
			slog.Warn("no script found for behavior",
				"behavior", name,
				"area", areaOrUnknown(area),
				"entity", entity.GetID(),
				"type", entity.GetType())
			continue
		}
		subs, err := manager.Attach(name, entity, defs[name])
		if err != nil {
			slog.Warn("failed to attach behavior",
				"behavior", name,
				"entity", entity.GetID(),
				"error", err)
			continue
		}
		group.Add(subs...)
	}
}

func areaOrUnknown(area string) string {
	if area == "" {
		return "unknown"
	}
	return area
}
