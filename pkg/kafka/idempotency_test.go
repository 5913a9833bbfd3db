package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaysilAlshareef/TalabatProject/pkg/logger"
)

func TestMemoryIdempotencyStore_AddAndContains(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	ctx := context.Background()

	seen, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "evt-1"))

	seen, err = store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewMemoryIdempotencyStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "evt-1"))
	time.Sleep(20 * time.Millisecond)

	seen, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	var calls int
	inner := func(ctx context.Context, event *Event) error {
		calls++
		return nil
	}

	h := IdempotentHandler(store, inner, logger.New("test", "error"))

	event, err := NewEvent("order.created", "order-1", "order", "test", map[string]string{"id": "order-1"})
	require.NoError(t, err)

	require.NoError(t, h(context.Background(), event))
	require.NoError(t, h(context.Background(), event))

	assert.Equal(t, 1, calls)
}

func TestIdempotentHandler_FailedHandlerNotRecorded(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	var calls int
	inner := func(ctx context.Context, event *Event) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}

	h := IdempotentHandler(store, inner, logger.New("test", "error"))

	event, err := NewEvent("order.created", "order-1", "order", "test", nil)
	require.NoError(t, err)

	require.Error(t, h(context.Background(), event))
	require.NoError(t, h(context.Background(), event))

	assert.Equal(t, 2, calls)
}

func TestIdempotentHandler_NoEventID_PassesThrough(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	var calls int
	inner := func(ctx context.Context, event *Event) error {
		calls++
		return nil
	}

	h := IdempotentHandler(store, inner, logger.New("test", "error"))
	event := &Event{EventType: "order.created"}

	require.NoError(t, h(context.Background(), event))
	require.NoError(t, h(context.Background(), event))

	assert.Equal(t, 2, calls)
}
