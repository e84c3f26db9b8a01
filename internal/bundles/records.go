package bundles

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
)

// attributeRecord is an entry of attributes.yml.
type attributeRecord struct {
	Name     string         `yaml:"name"`
	Base     float64        `yaml:"base"`
	Metadata map[string]any `yaml:"metadata"`
	Formula  *struct {
		Requires []string `yaml:"requires"`
		// Fn is the Lua body of function(current, <requires...>).
		Fn string `yaml:"fn"`
	} `yaml:"formula"`
}

// effectRecord is an entry of effects.yml. Config keys left out keep
// their defaults.
type effectRecord struct {
	ID     string         `yaml:"id"`
	Flags  []string       `yaml:"flags"`
	Config effects.Config `yaml:"config"`
	State  map[string]any `yaml:"state"`
}

func (r *effectRecord) UnmarshalYAML(node *yaml.Node) error {
	type plain effectRecord
	p := plain{Config: effects.DefaultConfig()}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = effectRecord(p)
	return nil
}

// qualify turns a bare definition id into a reference within area.
func qualify(area, ref string) string {
	if ref == "" || strings.Contains(ref, ":") {
		return ref
	}
	return entities.Reference(area, ref)
}

func qualifyAll(area string, refs []string) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = qualify(area, ref)
	}
	return out
}

func qualifyRoom(area string, def *entities.RoomDefinition) {
	for i := range def.Exits {
		def.Exits[i].RoomID = qualify(area, def.Exits[i].RoomID)
	}
	for i := range def.Items {
		def.Items[i].ID = qualify(area, def.Items[i].ID)
	}
	for i := range def.Npcs {
		def.Npcs[i].ID = qualify(area, def.Npcs[i].ID)
	}
	if len(def.Doors) > 0 {
		doors := make(map[string]entities.Door, len(def.Doors))
		for from, door := range def.Doors {
			doors[qualify(area, from)] = door
		}
		def.Doors = doors
	}
}

func qualifyNpc(area string, def *entities.NpcDefinition) {
	def.Items = qualifyAll(area, def.Items)
	for slot, ref := range def.Equipment {
		def.Equipment[slot] = qualify(area, ref)
	}
}

func qualifyItem(area string, def *entities.ItemDefinition) {
	def.Items = qualifyAll(area, def.Items)
}
