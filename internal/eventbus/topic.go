// Package eventbus provides typed, synchronous topics for entity events.
//
// Each entity exposes one Topic per event it raises. A Topic is a typed view
// over an rpg-toolkit event bus: the payload rides in the event context and
// handlers run on the publishing goroutine in subscription order, which keeps
// delivery aligned with the single-threaded game loop.
package eventbus

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
)

const (
	topicEventType = "eventbus.topic"
	payloadKey     = "payload"
)

// Topic is the handlers for one event payload type. The zero value is ready
// to use. A Topic is not safe for concurrent use.
type Topic[T any] struct {
	bus    events.EventBus
	seq    int
	active map[string]struct{}
}

// Subscription detaches a handler from its topic.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (t *Topic[T]) init() {
	if t.bus != nil {
		return
	}
	t.bus = events.NewBus()
	t.active = make(map[string]struct{})
}

// Subscribe appends fn to the topic's handlers.
func (t *Topic[T]) Subscribe(fn func(T)) Subscription {
	t.init()

	// The bus runs higher priorities first; decreasing priorities keep
	// subscription order.
	t.seq++
	id := t.bus.SubscribeFunc(topicEventType, -t.seq, func(_ context.Context, e events.Event) error {
		raw, _ := e.Context().Get(payloadKey)
		payload, _ := raw.(T)
		fn(payload)
		return nil
	})
	t.active[id] = struct{}{}

	return Subscription{cancel: func() { t.remove(id) }}
}

func (t *Topic[T]) remove(id string) {
	if _, ok := t.active[id]; !ok {
		return
	}
	delete(t.active, id)
	if err := t.bus.Unsubscribe(id); err != nil {
		slog.Warn("failed to unsubscribe topic handler",
			"subscription", id,
			"error", err.Error())
	}
}

// Publish delivers payload to every handler subscribed at the time of the
// call.
func (t *Topic[T]) Publish(payload T) {
	if len(t.active) == 0 {
		return
	}

	event := events.NewGameEvent(topicEventType, nil, nil)
	event.Context().Set(payloadKey, payload)
	if err := t.bus.Publish(context.Background(), event); err != nil {
		slog.Warn("failed to publish topic event", "error", err.Error())
	}
}

// Clear drops every handler.
func (t *Topic[T]) Clear() {
	if t.bus == nil {
		return
	}
	t.bus.Clear(topicEventType)
	t.active = make(map[string]struct{})
}

// Len returns the number of subscribed handlers.
func (t *Topic[T]) Len() int {
	return len(t.active)
}

// Group collects subscriptions so they can be released together.
type Group []Subscription

// Add appends subscriptions to the group.
func (g *Group) Add(subs ...Subscription) {
	*g = append(*g, subs...)
}

// Unsubscribe releases every subscription in the group and empties it.
func (g *Group) Unsubscribe() {
	for _, s := range *g {
		s.Unsubscribe()
	}
	*g = nil
}
