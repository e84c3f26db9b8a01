// Package scripting runs designer-supplied Lua: attribute formulas, effect
// modifiers and hooks, and entity scripts.
//
// Each Script owns its own Lua state. Scripts are only called from the game
// loop goroutine, so a state is never entered concurrently.
package scripting

import (
	"log/slog"

	"github.com/Shopify/go-lua"
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-mud/internal/damage"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Script is a compiled Lua chunk. Its global functions are the hooks the
// game calls.
type Script struct {
	name  string
	state *lua.State

	// effect and entity are what bindings act on during a hook call.
	effect *effects.Effect
	entity core.Entity
}

// Compile runs source once so it can define its hooks.
func Compile(name, source string) (*Script, error) {
	s := &Script{name: name, state: lua.NewState()}
	lua.OpenLibraries(s.state)
	s.registerBindings()

	if err := lua.DoString(s.state, source); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to compile script %s", name).
			WithMeta("script", name)
	}
	return s, nil
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// Has reports whether the script defines a global function fn.
func (s *Script) Has(fn string) bool {
	s.state.Global(fn)
	defer s.state.Pop(1)
	return s.state.IsFunction(-1)
}

// Call invokes fn with args and returns its first result as a number. A
// function that returns nothing yields (0, false).
func (s *Script) Call(fn string, args ...any) (float64, bool, error) {
	top := s.state.Top()
	defer s.state.SetTop(top)

	s.state.Global(fn)
	if !s.state.IsFunction(-1) {
		return 0, false, errors.NotFoundf("script %s has no function %s", s.name, fn).
			WithMeta("script", s.name).
			WithMeta("function", fn)
	}
	for _, arg := range args {
		s.push(arg)
	}
	if err := s.state.ProtectedCall(len(args), 1, 0); err != nil {
		return 0, false, errors.WrapWithCodef(err, errors.CodeInternal, "script %s failed in %s", s.name, fn).
			WithMeta("script", s.name).
			WithMeta("function", fn)
	}
	n, ok := s.state.ToNumber(-1)
	return n, ok, nil
}

// callHook runs fn if it exists, logging failures. It returns fallback when
// the hook is missing, fails, or returns no number.
func (s *Script) callHook(fn string, fallback float64, args ...any) float64 {
	if !s.Has(fn) {
		return fallback
	}
	n, ok, err := s.Call(fn, args...)
	if err != nil {
		slog.Error("script hook failed",
			"script", s.name,
			"hook", fn,
			"error", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	return n
}

func (s *Script) push(arg any) {
	switch v := arg.(type) {
	case float64:
		s.state.PushNumber(v)
	case int:
		s.state.PushInteger(v)
	case string:
		s.state.PushString(v)
	case bool:
		s.state.PushBoolean(v)
	default:
		s.state.PushNil()
	}
}

func (s *Script) registerBindings() {
	s.state.Register("id", func(l *lua.State) int {
		if s.entity == nil {
			l.PushNil()
			return 1
		}
		l.PushString(s.entity.GetID())
		return 1
	})

	s.state.Register("damage", func(l *lua.State) int {
		attr := lua.CheckString(l, 1)
		amount := lua.CheckNumber(l, 2)
		l.PushNumber(s.applyDamage(attr, amount))
		return 1
	})

	s.state.Register("heal", func(l *lua.State) int {
		attr := lua.CheckString(l, 1)
		amount := lua.CheckNumber(l, 2)
		l.PushNumber(-s.applyDamage(attr, -amount))
		return 1
	})

	s.state.Register("attribute", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		reader, ok := s.target().(attributeReader)
		if !ok {
			l.PushNil()
			return 1
		}
		value, err := reader.GetAttribute(name)
		if err != nil {
			l.PushNil()
			return 1
		}
		l.PushNumber(value)
		return 1
	})

	s.state.Register("state", func(l *lua.State) int {
		key := lua.CheckString(l, 1)
		if s.effect == nil {
			l.PushNil()
			return 1
		}
		s.push(numberState(s.effect.State[key]))
		return 1
	})

	s.state.Register("setState", func(l *lua.State) int {
		key := lua.CheckString(l, 1)
		value := lua.CheckNumber(l, 2)
		if s.effect != nil {
			s.effect.State[key] = value
		}
		return 0
	})

	s.state.Register("stacks", func(l *lua.State) int {
		if s.effect == nil {
			l.PushInteger(0)
			return 1
		}
		l.PushInteger(s.effect.Stacks())
		return 1
	})
}

type attributeReader interface {
	GetAttribute(name string) (float64, error)
}

// target is the effect's target during effect hooks, otherwise the entity.
func (s *Script) target() core.Entity {
	if s.effect != nil {
		return s.effect.Target()
	}
	return s.entity
}

// applyDamage commits damage against the current target with the effect as
// source and returns the amount applied.
func (s *Script) applyDamage(attr string, amount float64) float64 {
	receiver, ok := s.target().(damage.Receiver)
	if !ok {
		return 0
	}

	cfg := &damage.Config{Attribute: attr, Amount: amount}
	if s.effect != nil {
		cfg.Source = s.effect
	}
	d, err := damage.New(cfg)
	if err != nil {
		slog.Warn("script produced invalid damage",
			"script", s.name,
			"attribute", attr,
			"error", err)
		return 0
	}
	applied, err := d.Commit(receiver)
	if err != nil {
		slog.Warn("script damage failed",
			"script", s.name,
			"attribute", attr,
			"target", receiver.GetID(),
			"error", err)
		return 0
	}
	return applied
}

func numberState(v any) any {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return float64(n)
	case float64:
		return n
	case string, bool:
		return n
	default:
		return nil
	}
}

// withEffect runs fn with e as the binding target.
func (s *Script) withEffect(e *effects.Effect, fn func()) {
	prev := s.effect
	s.effect = e
	defer func() { s.effect = prev }()
	fn()
}

// withEntity runs fn with entity as the binding target.
func (s *Script) withEntity(entity core.Entity, fn func()) {
	prev := s.entity
	s.entity = entity
	defer func() { s.entity = prev }()
	fn()
}
