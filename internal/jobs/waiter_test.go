package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeBeforeEnqueueSeesEventPublishedAfter(t *testing.T) {
	bus := NewBus()
	waiter := NewWaiter(bus)

	sub := waiter.Subscribe()
	key := RowKey{Kind: "wal", ID: "w1"}

	go bus.Publish(Event{Key: key, Type: WalPartitioning, Kind: Success})

	ev, err := waiter.WaitForOne(context.Background(), sub, key, WalPartitioning)
	require.NoError(t, err)
	assert.Equal(t, Success, ev.Kind)
}

func TestWaitForOneCancelledByContext(t *testing.T) {
	bus := NewBus()
	waiter := NewWaiter(bus)
	sub := waiter.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := waiter.WaitForOne(ctx, sub, RowKey{Kind: "wal", ID: "missing"}, WalPartitioning)
	require.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestWaitForJobResultsToleratesArrivalOrder(t *testing.T) {
	bus := NewBus()
	waiter := NewWaiter(bus)
	sub := waiter.Subscribe()

	pairs := []Pair{
		{Key: RowKey{Kind: "wal", ID: "a"}, Type: WalPartitioning},
		{Key: RowKey{Kind: "wal", ID: "b"}, Type: WalPartitioning},
	}

	go func() {
		bus.Publish(Event{Key: pairs[1].Key, Type: WalPartitioning, Kind: Success})
		bus.Publish(Event{Key: pairs[0].Key, Type: WalPartitioning, Kind: Success})
	}()

	events, err := waiter.WaitForJobResults(context.Background(), sub, pairs)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestFirstErrorReturnsEarliestArrivingError(t *testing.T) {
	events := []Event{
		{Key: RowKey{Kind: "wal", ID: "a"}, Kind: Success},
		{Key: RowKey{Kind: "wal", ID: "b"}, Kind: Error, Message: "partitioning failed"},
		{Key: RowKey{Kind: "wal", ID: "c"}, Kind: Error, Message: "second failure"},
	}
	msg, found := FirstError(events)
	require.True(t, found)
	assert.Equal(t, "partitioning failed", msg)
}

func TestFirstErrorFalseWhenAllSucceed(t *testing.T) {
	events := []Event{{Kind: Success}, {Kind: Success}}
	_, found := FirstError(events)
	assert.False(t, found)
}

func TestWaitForJobResultsEmptySetReturnsImmediately(t *testing.T) {
	bus := NewBus()
	waiter := NewWaiter(bus)
	sub := waiter.Subscribe()

	events, err := waiter.WaitForJobResults(context.Background(), sub, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
