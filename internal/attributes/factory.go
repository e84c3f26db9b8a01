package attributes

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Definition is a registered attribute template.
type Definition struct {
	Name     string
	Base     float64
	Formula  *Formula
	Metadata map[string]any
}

// Factory holds attribute definitions and creates independent instances.
type Factory struct {
	definitions map[string]*Definition
	order       []string
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{definitions: make(map[string]*Definition)}
}

// Add registers or redefines an attribute.
func (f *Factory) Add(name string, base float64, formula *Formula, metadata map[string]any) {
	if _, exists := f.definitions[name]; !exists {
		f.order = append(f.order, name)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	f.definitions[name] = &Definition{
		Name:     name,
		Base:     base,
		Formula:  formula,
		Metadata: metadata,
	}
}

// Has reports whether an attribute is defined.
func (f *Factory) Has(name string) bool {
	_, ok := f.definitions[name]
	return ok
}

// Get returns the stored definition.
func (f *Factory) Get(name string) (*Definition, bool) {
	def, ok := f.definitions[name]
	return def, ok
}

// Names returns the defined attribute names in registration order.
func (f *Factory) Names() []string {
	return append([]string(nil), f.order...)
}

// Create instantiates name using its definition's base and a zero delta.
func (f *Factory) Create(name string) (*Attribute, error) {
	def, ok := f.definitions[name]
	if !ok {
		return nil, errors.NotFoundf("No attribute definition found for [%s]", name)
	}
	return f.CreateWith(name, def.Base, 0)
}

// CreateWith instantiates name with an explicit base and delta, for example
// when restoring saved state. The metadata is a deep copy of the definition's.
func (f *Factory) CreateWith(name string, base, delta float64) (*Attribute, error) {
	def, ok := f.definitions[name]
	if !ok {
		return nil, errors.NotFoundf("No attribute definition found for [%s]", name)
	}

	metadata, _ := deepCopy(def.Metadata).(map[string]any)
	return New(name, base, delta, def.Formula, metadata)
}

// ValidateAttributes checks that every formula dependency exists and that the
// dependency graph has no cycles. All missing dependencies are reported in a
// single error.
func (f *Factory) ValidateAttributes() error {
	var missing []string
	for _, name := range f.order {
		def := f.definitions[name]
		if def.Formula == nil {
			continue
		}
		for _, dep := range def.Formula.requires {
			if _, ok := f.definitions[dep]; !ok {
				missing = append(missing, fmt.Sprintf("[%s -> %s]", name, dep))
			}
		}
	}
	if len(missing) > 0 {
		return errors.FailedPreconditionf(
			"Attribute validation failed: missing formula dependencies: %s",
			strings.Join(missing, ", "),
		).WithMeta("missing", missing)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(f.definitions))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		path = append(path, name)
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.FailedPreconditionf(
				"Attribute formula for [%s] has circular dependency [%s]",
				path[0], strings.Join(path, " -> "),
			).WithMeta("cycle", path)
		}

		state[name] = visiting
		if formula := f.definitions[name].Formula; formula != nil {
			for _, dep := range formula.requires {
				if err := visit(dep, path); err != nil {
					return err
				}
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range f.order {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// deepCopy clones the map and slice shapes produced by YAML and JSON decoding.
func deepCopy(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, inner := range value {
			out[k] = deepCopy(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(value))
		for k, inner := range value {
			out[k] = inner
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, inner := range value {
			out[i] = deepCopy(inner)
		}
		return out
	case []string:
		return append([]string(nil), value...)
	default:
		return value
	}
}

// DeepCopy returns a copy of v that shares no maps or slices with it.
func DeepCopy(v map[string]any) map[string]any {
	out, _ := deepCopy(v).(map[string]any)
	return out
}
