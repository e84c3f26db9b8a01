package effects

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Data is the persisted form of an effect. Elapsed is nil when the effect
// never started.
type Data struct {
	ID        string         `json:"id"`
	Config    Config         `json:"config"`
	Elapsed   *int64         `json:"elapsed"`
	Remaining Duration       `json:"remaining"`
	State     map[string]any `json:"state"`
	Skill     string         `json:"skill,omitempty"`
}

// Serialize captures the effect for saving. lastTick is stored as the time
// since the last tick so it resumes correctly after a restart.
func (e *Effect) Serialize() Data {
	state := attributes.DeepCopy(e.State)
	now := e.clock.Now().UnixMilli()
	if last, ok := int64State(state[StateLastTick]); ok {
		state[StateLastTick] = now - last
	}

	data := Data{
		ID:        e.ID,
		Config:    e.Config,
		Remaining: e.Remaining(),
		State:     state,
		Skill:     e.Skill,
	}
	if elapsed, ok := e.Elapsed(); ok {
		data.Elapsed = &elapsed
	}
	return data
}

// Hydrate restores saved config, timing, and state onto a freshly created
// effect.
func (e *Effect) Hydrate(data Data) {
	now := e.clock.Now()

	e.Config = data.Config
	if data.Elapsed != nil {
		e.startedAt = now.Add(-time.Duration(*data.Elapsed) * time.Millisecond)
	}

	state := attributes.DeepCopy(data.State)
	if since, ok := int64State(state[StateLastTick]); ok {
		state[StateLastTick] = now.UnixMilli() - since
	}
	e.State = state
	e.Skill = data.Skill
}

// Serialize returns the persisting effects in insertion order.
func (l *List) Serialize() []Data {
	out := make([]Data, 0, len(l.effects))
	for _, e := range l.effects {
		if !e.Config.Persists {
			continue
		}
		out = append(out, e.Serialize())
	}
	return out
}

// Hydrate re-creates saved effects through factory and adds them. Effects
// whose definition no longer exists are skipped with a warning.
func (l *List) Hydrate(factory *Factory, saved []Data) error {
	if factory == nil {
		return errors.InvalidArgument("effect factory is required")
	}

	for _, data := range saved {
		e, err := factory.Create(data.ID)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.Warn("skipping saved effect with no definition",
					"effect", data.ID,
					"target", l.targetID())
				continue
			}
			return errors.Wrapf(err, "failed to hydrate effect %s", data.ID)
		}

		e.Hydrate(data)
		if _, err := l.Add(e); err != nil {
			return errors.Wrapf(err, "failed to add hydrated effect %s", data.ID)
		}
	}
	return nil
}

func (l *List) targetID() string {
	if l.target == nil {
		return ""
	}
	return l.target.GetID()
}
