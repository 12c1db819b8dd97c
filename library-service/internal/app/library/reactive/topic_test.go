package reactive

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntsTopic(initial []int) (*Topic[[]int], *Dispatcher) {
	d := NewDispatcher()
	return NewTopic("test", initial, func(v []int) []int { return slices.Clone(v) }, d), d
}

func TestTopic_CurrentReflectsLastPublish(t *testing.T) {
	topic, _ := newIntsTopic([]int{1})

	assert.Equal(t, []int{1}, topic.Current())

	topic.Publish([]int{1, 2})

	// Current обновляется сразу, не дожидаясь доставки
	assert.Equal(t, []int{1, 2}, topic.Current())
}

func TestTopic_CurrentReturnsCopy(t *testing.T) {
	topic, _ := newIntsTopic([]int{1, 2})

	cur := topic.Current()
	cur[0] = 100

	assert.Equal(t, []int{1, 2}, topic.Current())
}

func TestTopic_DeliversEachSnapshotInOrder(t *testing.T) {
	topic, d := newIntsTopic(nil)

	var got [][]int
	unsubscribe := topic.Subscribe(func(v []int) { got = append(got, v) })
	defer unsubscribe()

	topic.Publish([]int{1})
	topic.Publish([]int{1, 2})
	topic.Publish([]int{1, 2, 3})
	d.Flush()

	assert.Equal(t, [][]int{{1}, {1, 2}, {1, 2, 3}}, got)
}

func TestTopic_NoDeliveryWithoutCommit(t *testing.T) {
	topic, d := newIntsTopic([]int{1})

	calls := 0
	unsubscribe := topic.Subscribe(func([]int) { calls++ })
	defer unsubscribe()
	d.Flush()

	assert.Zero(t, calls)
}

func TestTopic_UnsubscribeDropsQueuedDeliveries(t *testing.T) {
	topic, d := newIntsTopic(nil)

	calls := 0
	unsubscribe := topic.Subscribe(func([]int) { calls++ })

	topic.Publish([]int{1})
	topic.Publish([]int{2})
	unsubscribe()
	d.Flush()

	assert.Zero(t, calls)
	assert.Zero(t, topic.Subscribers())
}

func TestTopic_UnsubscribeIsIdempotent(t *testing.T) {
	topic, _ := newIntsTopic(nil)

	first := topic.Subscribe(func([]int) {})
	second := topic.Subscribe(func([]int) {})
	require.Equal(t, 2, topic.Subscribers())

	first()
	first()

	assert.Equal(t, 1, topic.Subscribers())
	second()
	assert.Zero(t, topic.Subscribers())
}

func TestTopic_LateSubscriberMissesEarlierCommits(t *testing.T) {
	topic, d := newIntsTopic(nil)

	topic.Publish([]int{1})

	var got [][]int
	unsubscribe := topic.Subscribe(func(v []int) { got = append(got, v) })
	defer unsubscribe()

	topic.Publish([]int{1, 2})
	d.Flush()

	assert.Equal(t, [][]int{{1, 2}}, got)
}

func TestTopic_EachSubscriberGetsOwnCopy(t *testing.T) {
	topic, d := newIntsTopic(nil)

	unsubscribeA := topic.Subscribe(func(v []int) { v[0] = -1 })
	defer unsubscribeA()

	var seen []int
	unsubscribeB := topic.Subscribe(func(v []int) { seen = v })
	defer unsubscribeB()

	topic.Publish([]int{7})
	d.Flush()

	assert.Equal(t, []int{7}, seen)
	assert.Equal(t, []int{7}, topic.Current())
}

func TestTopic_WatchReturnsCurrentAndSubscribes(t *testing.T) {
	topic, d := newIntsTopic([]int{1})

	var got [][]int
	current, unsubscribe := topic.Watch(func(v []int) { got = append(got, v) })
	defer unsubscribe()

	assert.Equal(t, []int{1}, current)

	topic.Publish([]int{1, 2})
	d.Flush()

	assert.Equal(t, [][]int{{1, 2}}, got)
}

func TestTopic_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	topic, d := newIntsTopic(nil)

	unsubscribePanic := topic.Subscribe(func([]int) { panic("boom") })
	defer unsubscribePanic()

	calls := 0
	unsubscribe := topic.Subscribe(func([]int) { calls++ })
	defer unsubscribe()

	topic.Publish([]int{1})
	assert.NotPanics(t, d.Flush)
	topic.Publish([]int{2})
	d.Flush()

	assert.Equal(t, 2, calls)
}

func TestTopic_Name(t *testing.T) {
	topic, _ := newIntsTopic(nil)

	assert.Equal(t, "test", topic.Name())
}
