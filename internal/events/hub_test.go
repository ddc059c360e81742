package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe(4)
	defer cancelA()
	b, cancelB := hub.Subscribe(4)
	defer cancelB()

	n := hub.Publish(Event{Type: SurvivorMoved, SurvivorID: "s1"})
	assert.Equal(t, 2, n)

	for _, ch := range []<-chan Event{a, b} {
		e := <-ch
		assert.Equal(t, SurvivorMoved, e.Type)
		assert.Equal(t, "s1", e.SurvivorID)
		assert.False(t, e.At.IsZero())
	}
}

func TestPublishDropsForFullSubscriber(t *testing.T) {
	hub := NewHub()
	slow, cancel := hub.Subscribe(1)
	defer cancel()

	assert.Equal(t, 1, hub.Publish(Event{Type: "first"}))
	assert.Equal(t, 0, hub.Publish(Event{Type: "second"}))

	assert.Equal(t, "first", (<-slow).Type)
}

func TestCancelUnsubscribes(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	assert.Equal(t, 0, hub.Subscribers())
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Publish(Event{Type: "x"}))
}

func TestClose(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	hub.Close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	late, _ := hub.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := hub.Subscribe(2)
			cancel()
		}()
		go func() {
			defer wg.Done()
			hub.Publish(Event{Type: TradeSettled})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, hub.Subscribers())
}
