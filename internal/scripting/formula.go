package scripting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewFormula compiles a formula body into an attribute formula. The body
// sees the attribute's effective max as current and each required
// attribute's max under its own name:
//
//	return current + strength * 2
func NewFormula(attribute string, requires []string, body string) (*attributes.Formula, error) {
	params := []string{"current"}
	for _, name := range requires {
		if !identifier.MatchString(name) || name == "current" {
			return nil, errors.InvalidArgumentf("formula for %s requires %q, which is not a valid name", attribute, name).
				WithMeta("attribute", attribute)
		}
		params = append(params, name)
	}

	source := fmt.Sprintf("function formula(%s)\n%s\nend", strings.Join(params, ", "), body)
	script, err := Compile("formula:"+attribute, source)
	if err != nil {
		return nil, err
	}

	return attributes.NewFormula(requires, func(_ *attributes.Attribute, current float64, args ...float64) float64 {
		callArgs := make([]any, 0, len(args)+1)
		callArgs = append(callArgs, current)
		for _, arg := range args {
			callArgs = append(callArgs, arg)
		}
		return script.callHook("formula", current, callArgs...)
	})
}
