package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
		var zero T
		return zero
	}
}

func TestSubscribeReplaysLatestValue(t *testing.T) {
	b := New[int]()
	b.Publish(1)

	sub := b.Subscribe()
	defer sub.Close()

	assert.Equal(t, 1, recv(t, sub.Chan()))
}

func TestSubscribeBeforeAnyPublishGetsNothingUntilFirstPublish(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	defer sub.Close()

	select {
	case v := <-sub.Chan():
		t.Fatalf("unexpected early value %v", v)
	case <-time.After(50 * time.Millisecond):
	}

	b.Publish(42)
	assert.Equal(t, 42, recv(t, sub.Chan()))
}

func TestLatestReflectsMostRecentPublish(t *testing.T) {
	b := New[string]()
	_, has := b.Latest()
	assert.False(t, has)

	b.Publish("a")
	b.Publish("b")

	v, has := b.Latest()
	assert.True(t, has)
	assert.Equal(t, "b", v)
}

func TestCoalescingDropsIntermediateValuesForLaggingSubscriber(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	defer sub.Close()

	b.Publish(1)
	b.Publish(2)
	b.Publish(3)

	assert.Equal(t, 3, recv(t, sub.Chan()))

	select {
	case v := <-sub.Chan():
		t.Fatalf("unexpected extra value %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseStopsFurtherDelivery(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()
	sub.Close()

	b.Publish(99)

	select {
	case v := <-sub.Chan():
		t.Fatalf("unexpected value %v after close", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDistinctMapSuppressesDuplicateTransformedValues(t *testing.T) {
	b := New[map[string]int]()
	derived := DistinctMap(b, func(m map[string]int) int { return m["x"] })
	sub := derived.Subscribe()
	defer sub.Close()

	b.Publish(map[string]int{"x": 1})
	assert.Equal(t, 1, recv(t, sub.Chan()))

	b.Publish(map[string]int{"x": 1, "y": 99})

	select {
	case v := <-sub.Chan():
		t.Fatalf("unexpected re-emission %v for an unchanged transformed value", v)
	case <-time.After(100 * time.Millisecond):
	}

	b.Publish(map[string]int{"x": 2})
	assert.Equal(t, 2, recv(t, sub.Chan()))
}

func TestDistinctMapFuncUsesSuppliedEquality(t *testing.T) {
	b := New[[]int]()
	derived := DistinctMapFunc(b, func(s []int) []int { return s }, func(a, b []int) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	})
	sub := derived.Subscribe()
	defer sub.Close()

	b.Publish([]int{1, 2})
	require.Equal(t, []int{1, 2}, recv(t, sub.Chan()))

	b.Publish([]int{1, 2})

	select {
	case v := <-sub.Chan():
		t.Fatalf("unexpected re-emission %v", v)
	case <-time.After(100 * time.Millisecond):
	}

	b.Publish([]int{3})
	assert.Equal(t, []int{3}, recv(t, sub.Chan()))
}
