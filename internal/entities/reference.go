package entities

import (
	"strings"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Reference builds the entity reference of definition id in area.
func Reference(area, id string) string {
	return area + ":" + id
}

// ParseReference splits an entity reference into its area and id.
func ParseReference(ref string) (area, id string, err error) {
	i := strings.LastIndex(ref, ":")
	if i <= 0 || i == len(ref)-1 {
		return "", "", errors.InvalidArgumentf("invalid entity reference %q", ref).
			WithMeta("reference", ref)
	}
	return ref[:i], ref[i+1:], nil
}
