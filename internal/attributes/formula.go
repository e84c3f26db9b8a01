package attributes

import "github.com/KirkDiggler/rpg-mud/internal/errors"

// FormulaFunc computes a derived value. args are the current values of the
// formula's required attributes, in declared order.
type FormulaFunc func(attr *Attribute, current float64, args ...float64) float64

// Formula derives an attribute from other attributes. It is immutable once
// built.
type Formula struct {
	requires []string
	fn       FormulaFunc
}

// NewFormula builds a formula over the named attributes.
func NewFormula(requires []string, fn FormulaFunc) (*Formula, error) {
	if fn == nil {
		return nil, errors.InvalidArgument("formula function is required")
	}
	for _, name := range requires {
		if name == "" {
			return nil, errors.InvalidArgument("formula requires must be attribute names")
		}
	}

	return &Formula{
		requires: append([]string(nil), requires...),
		fn:       fn,
	}, nil
}

// Requires returns the names of the attributes the formula depends on.
func (f *Formula) Requires() []string {
	return append([]string(nil), f.requires...)
}

// Evaluate runs the formula for attr.
func (f *Formula) Evaluate(attr *Attribute, current float64, args ...float64) float64 {
	return f.fn(attr, current, args...)
}
