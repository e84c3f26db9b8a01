package effects

// Config is the behavior of an effect definition. Zero values are not the
// defaults; start from DefaultConfig.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	// Duration in milliseconds, or Infinite.
	Duration Duration `json:"duration" yaml:"duration"`
	// MaxStacks > 0 makes same-type additions stack onto the existing effect
	// up to this count. Implies Unique.
	MaxStacks int `json:"maxStacks" yaml:"maxStacks"`
	// Unique allows only one effect of this Type on a target.
	Unique bool `json:"unique" yaml:"unique"`
	// Refreshes re-arms the existing same-type effect instead of adding.
	Refreshes bool `json:"refreshes" yaml:"refreshes"`
	// Persists controls whether the effect is saved with the character.
	Persists     bool `json:"persists" yaml:"persists"`
	Hidden       bool `json:"hidden" yaml:"hidden"`
	AutoActivate bool `json:"autoActivate" yaml:"autoActivate"`
	// TickInterval is the number of seconds between Tick events. Zero ticks
	// every game tick.
	TickInterval float64 `json:"tickInterval" yaml:"tickInterval"`
}

// DefaultConfig returns the config every definition starts from.
func DefaultConfig() Config {
	return Config{
		Name:         "Unnamed Effect",
		Type:         "undef",
		Duration:     Infinite,
		Unique:       true,
		Persists:     true,
		AutoActivate: true,
	}
}

// stacking reports whether same-type additions stack.
func (c Config) stacking() bool {
	return c.MaxStacks > 0
}
