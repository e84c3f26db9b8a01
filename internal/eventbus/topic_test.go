package eventbus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-mud/internal/eventbus"
)

func TestTopic_PublishInSubscriptionOrder(t *testing.T) {
	var topic eventbus.Topic[string]
	var got []string

	topic.Subscribe(func(p string) { got = append(got, "first:"+p) })
	topic.Subscribe(func(p string) { got = append(got, "second:"+p) })

	topic.Publish("hit")

	assert.Equal(t, []string{"first:hit", "second:hit"}, got)
}

func TestTopic_Unsubscribe(t *testing.T) {
	var topic eventbus.Topic[int]
	calls := 0

	sub := topic.Subscribe(func(int) { calls++ })
	topic.Publish(1)
	sub.Unsubscribe()
	sub.Unsubscribe()
	topic.Publish(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, topic.Len())
}

func TestTopic_UnsubscribeDuringPublish(t *testing.T) {
	var topic eventbus.Topic[int]
	calls := 0

	var sub eventbus.Subscription
	sub = topic.Subscribe(func(int) {
		calls++
		sub.Unsubscribe()
	})
	topic.Subscribe(func(int) { calls++ })

	topic.Publish(1)
	topic.Publish(2)

	assert.Equal(t, 3, calls)
}

func TestGroup_Unsubscribe(t *testing.T) {
	var a eventbus.Topic[int]
	var b eventbus.Topic[string]

	var group eventbus.Group
	group.Add(a.Subscribe(func(int) {}), b.Subscribe(func(string) {}))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())

	group.Unsubscribe()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, group)
}

func TestTopic_Clear(t *testing.T) {
	var topic eventbus.Topic[int]
	topic.Subscribe(func(int) {})
	topic.Subscribe(func(int) {})
	topic.Clear()
	assert.Equal(t, 0, topic.Len())
}

type payload struct {
	name string
}

func TestTopic_DeliversSamePointer(t *testing.T) {
	var topic eventbus.Topic[*payload]
	sent := &payload{name: "rage"}

	var got *payload
	topic.Subscribe(func(p *payload) { got = p })
	topic.Publish(sent)

	assert.Same(t, sent, got)
}

func TestTopic_NilPayload(t *testing.T) {
	var topic eventbus.Topic[*payload]
	called := false

	topic.Subscribe(func(p *payload) {
		called = true
		assert.Nil(t, p)
	})
	topic.Publish(nil)

	assert.True(t, called)
}

func TestTopic_ManySubscribersKeepOrder(t *testing.T) {
	var topic eventbus.Topic[int]
	var got []int

	for i := 0; i < 20; i++ {
		topic.Subscribe(func(int) { got = append(got, i) })
	}
	topic.Publish(0)

	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}
