package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Event{Type: TypeUserLogin, ActorID: "user-1"})

	select {
	case e := <-events:
		assert.Equal(t, TypeUserLogin, e.Type)
		assert.Equal(t, "user-1", e.ActorID)
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestInMemoryBus_PreservesProvidedIdentity(t *testing.T) {
	bus := NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Event{ID: "fixed-id", Timestamp: "2026-01-02T15:04:05Z", Type: TypeTokenRevoked})

	e := <-events
	assert.Equal(t, "fixed-id", e.ID)
	assert.Equal(t, "2026-01-02T15:04:05Z", e.Timestamp)
}

func TestInMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	events, unsubscribe := bus.Subscribe()
	unsubscribe()

	// Channel is closed; publishing afterwards must not panic or deliver.
	bus.Publish(Event{Type: TypeUserLogout})

	_, open := <-events
	require.False(t, open)
}

func TestInMemoryBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	_, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			bus.Publish(Event{Type: TypeUserLogin})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
