package effects

import (
	"sort"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
)

// Handlers are script callbacks subscribed to every effect created from a
// definition.
type Handlers struct {
	Added       func(e *Effect)
	Activated   func(e *Effect)
	Deactivated func(e *Effect)
	Removed     func(e *Effect)
	Tick        func(e *Effect)
	Refreshed   func(e, incoming *Effect)
	StackAdded  func(e, incoming *Effect)
}

// Definition is a registered effect template.
type Definition struct {
	ID        string
	Flags     []string
	Config    Config
	State     map[string]any
	Modifiers Modifiers
	Handlers  Handlers
}

// FactoryConfig configures a Factory.
type FactoryConfig struct {
	Clock clock.Clock
}

// Validate checks the config
func (c *FactoryConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// Factory holds effect definitions.
type Factory struct {
	clock       clock.Clock
	definitions map[string]*Definition
}

// NewFactory creates a factory.
func NewFactory(cfg *FactoryConfig) (*Factory, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid effect factory config")
	}

	return &Factory{
		clock:       cfg.Clock,
		definitions: make(map[string]*Definition),
	}, nil
}

// Add registers or redefines an effect.
func (f *Factory) Add(def *Definition) error {
	if def == nil || def.ID == "" {
		return errors.InvalidArgument("effect definition requires an id")
	}
	f.definitions[def.ID] = def
	return nil
}

// Has reports whether id is defined.
func (f *Factory) Has(id string) bool {
	_, ok := f.definitions[id]
	return ok
}

// Get returns the stored definition.
func (f *Factory) Get(id string) (*Definition, bool) {
	def, ok := f.definitions[id]
	return def, ok
}

// IDs returns the defined effect ids, sorted.
func (f *Factory) IDs() []string {
	ids := make([]string, 0, len(f.definitions))
	for id := range f.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type createOptions struct {
	config func(*Config)
	state  map[string]any
}

// CreateOption customizes a single created effect.
type CreateOption func(*createOptions)

// WithConfig edits the new effect's copy of the definition config.
func WithConfig(fn func(*Config)) CreateOption {
	return func(o *createOptions) {
		o.config = fn
	}
}

// WithState merges state over the new effect's copy of the definition state.
func WithState(state map[string]any) CreateOption {
	return func(o *createOptions) {
		o.state = state
	}
}

// Create instantiates an effect. The definition is never modified and the new
// effect shares no mutable state with it or with other effects.
func (f *Factory) Create(id string, opts ...CreateOption) (*Effect, error) {
	def, ok := f.definitions[id]
	if !ok {
		return nil, errors.NotFoundf("No valid entry definition found for effect %s", id).
			WithMeta("effect_id", id)
	}

	options := &createOptions{}
	for _, opt := range opts {
		opt(options)
	}

	cfg := def.Config
	if options.config != nil {
		options.config(&cfg)
	}

	state := attributes.DeepCopy(def.State)
	for k, v := range attributes.DeepCopy(options.state) {
		state[k] = v
	}
	if cfg.stacking() {
		state[StateStacks] = 1
	}

	attrModifiers := make(map[string]AttributeModifier, len(def.Modifiers.Attributes))
	for name, modifier := range def.Modifiers.Attributes {
		attrModifiers[name] = modifier
	}

	e := &Effect{
		ID:     id,
		Flags:  append([]string(nil), def.Flags...),
		Config: cfg,
		State:  state,
		Modifiers: Modifiers{
			Attributes:     attrModifiers,
			AttributeFunc:  def.Modifiers.AttributeFunc,
			IncomingDamage: def.Modifiers.IncomingDamage,
			OutgoingDamage: def.Modifiers.OutgoingDamage,
		},
		clock: f.clock,
	}
	subscribeHandlers(e, def.Handlers)

	return e, nil
}

func subscribeHandlers(e *Effect, h Handlers) {
	lifecycle := []struct {
		fn    func(*Effect)
		topic *Topic
	}{
		{h.Added, &e.Events.Added},
		{h.Activated, &e.Events.Activated},
		{h.Deactivated, &e.Events.Deactivated},
		{h.Removed, &e.Events.Removed},
		{h.Tick, &e.Events.Tick},
	}
	for _, l := range lifecycle {
		if l.fn != nil {
			l.topic.Subscribe(l.fn)
		}
	}

	if h.Refreshed != nil {
		e.Events.Refreshed.Subscribe(func(incoming *Effect) { h.Refreshed(e, incoming) })
	}
	if h.StackAdded != nil {
		e.Events.StackAdded.Subscribe(func(incoming *Effect) { h.StackAdded(e, incoming) })
	}
}
