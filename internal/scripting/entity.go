package scripting

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/behaviors"
	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

// EntityListener subscribes the hooks a script defines to an entity's
// events. Hooks are called with the entity bound to id(), damage(), heal()
// and attribute().
//
//	npcs:  onTick() onEnterRoom(room) onCombatStart()
//	       onCombatEnd() onDamaged(amount, attribute) onHit(amount, attribute)
//	items: onSpawn() onTick() onEquip(character) onUnequip(character)
//	rooms: onSpawn() onUpdateTick() onPlayerEnter(player) onPlayerLeave(player)
//	       onNpcEnter(npc)
//	areas: onUpdateTick()
func EntityListener(s *Script) behaviors.Listener {
	return func(entity core.Entity, _ any) []eventbus.Subscription {
		b := &binder{script: s, entity: entity}
		switch e := entity.(type) {
		case *entities.Npc:
			bind(b, &e.Events.Tick, "onTick", func(*entities.Character) []any { return nil })
			bind(b, &e.Events.EnterRoom, "onEnterRoom", func(r *entities.Room) []any { return []any{r.EntityReference} })
			bind(b, &e.Events.CombatStart, "onCombatStart", func(*entities.Character) []any { return nil })
			bind(b, &e.Events.CombatEnd, "onCombatEnd", func(*entities.Character) []any { return nil })
			bind(b, &e.Events.Damaged, "onDamaged", damageArgs)
			bind(b, &e.Events.Hit, "onHit", damageArgs)
		case *entities.Item:
			bind(b, &e.Events.Spawn, "onSpawn", func(*entities.Item) []any { return nil })
			bind(b, &e.Events.Tick, "onTick", func(*entities.Item) []any { return nil })
			bind(b, &e.Events.Equip, "onEquip", characterArgs)
			bind(b, &e.Events.Unequip, "onUnequip", characterArgs)
		case *entities.Room:
			bind(b, &e.Events.Spawn, "onSpawn", func(*entities.Room) []any { return nil })
			bind(b, &e.Events.UpdateTick, "onUpdateTick", func(*entities.Room) []any { return nil })
			bind(b, &e.Events.PlayerEnter, "onPlayerEnter", func(p *entities.Player) []any { return []any{p.Name} })
			bind(b, &e.Events.PlayerLeave, "onPlayerLeave", func(p *entities.Player) []any { return []any{p.Name} })
			bind(b, &e.Events.NpcEnter, "onNpcEnter", func(n *entities.Npc) []any { return []any{n.UUID} })
		case *entities.Area:
			bind(b, &e.Events.UpdateTick, "onUpdateTick", func(*entities.Area) []any { return nil })
		}
		return b.subs
	}
}

type binder struct {
	script *Script
	entity core.Entity
	subs   []eventbus.Subscription
}

// bind subscribes hook to topic when the script defines it.
func bind[T any](b *binder, topic *eventbus.Topic[T], hook string, args func(T) []any) {
	if !b.script.Has(hook) {
		return
	}
	b.subs = append(b.subs, topic.Subscribe(func(payload T) {
		b.script.withEntity(b.entity, func() {
			b.script.callHook(hook, 0, args(payload)...)
		})
	}))
}

func damageArgs(e damage.Event) []any {
	return []any{e.Amount, e.Damage.Attribute}
}

func characterArgs(c *entities.Character) []any {
	return []any{c.GetID()}
}
