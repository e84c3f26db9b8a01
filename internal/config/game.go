package config

import (
	stderrors "errors"
	"sync"
)

// ErrNotLoaded is returned by Get before Load has been called.
var ErrNotLoaded = stderrors.New("Config.get() called before Config.load()")

var game struct {
	mu     sync.RWMutex
	values map[string]any
}

// Load replaces the game settings.
func Load(values map[string]any) {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}

	game.mu.Lock()
	defer game.mu.Unlock()
	game.values = copied
}

// Loaded reports whether Load has been called.
func Loaded() bool {
	game.mu.RLock()
	defer game.mu.RUnlock()
	return game.values != nil
}

// Get returns a game setting. The second return is false when the key is
// unset.
func Get(key string) (any, bool, error) {
	game.mu.RLock()
	defer game.mu.RUnlock()
	if game.values == nil {
		return nil, false, ErrNotLoaded
	}
	v, ok := game.values[key]
	return v, ok, nil
}

// GetOr returns a game setting or fallback when it is unset.
func GetOr[T any](key string, fallback T) (T, error) {
	v, ok, err := Get(key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	typed, ok := v.(T)
	if !ok {
		return fallback, nil
	}
	return typed, nil
}

// Reset clears the game settings. Tests use it to start from unloaded.
func Reset() {
	game.mu.Lock()
	defer game.mu.Unlock()
	game.values = nil
}
