package jobs

import (
	"context"
	"fmt"
)

// Waiter subscribes to the job bus before the triggering work is enqueued
// and blocks until the watched jobs terminate. Every wait is
// cancel-safe: on cancellation the subscription is dropped without leaking
// handles or side effects.
type Waiter struct {
	bus Bus
}

// NewWaiter wraps a job bus.
func NewWaiter(bus Bus) *Waiter {
	return &Waiter{bus: bus}
}

// Subscribe must be called before enqueuing the work whose completion will
// be awaited, so no event can fire before the subscription exists.
func (w *Waiter) Subscribe() Subscription {
	return w.bus.Subscribe()
}

// WaitForOne blocks until key/jobType reports its terminal event.
func (w *Waiter) WaitForOne(ctx context.Context, sub Subscription, key RowKey, jobType JobType) (Event, error) {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case ev, ok := <-sub.C():
			if !ok {
				return Event{}, fmt.Errorf("job event bus closed while waiting for %v/%v", key, jobType)
			}
			if ev.Key == key && ev.Type == jobType {
				return ev, nil
			}
		}
	}
}

// WaitForJobResults blocks until every pair in the set has reported a
// terminal event, tolerating any arrival order, and returns the events in
// the order they arrived.
func (w *Waiter) WaitForJobResults(ctx context.Context, sub Subscription, pairs []Pair) ([]Event, error) {
	defer sub.Close()

	if len(pairs) == 0 {
		return nil, nil
	}

	pending := make(map[Pair]struct{}, len(pairs))
	for _, p := range pairs {
		pending[p] = struct{}{}
	}

	results := make([]Event, 0, len(pairs))
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		case ev, ok := <-sub.C():
			if !ok {
				return results, fmt.Errorf("job event bus closed while waiting for job results")
			}
			p := Pair{Key: ev.Key, Type: ev.Type}
			if _, watched := pending[p]; !watched {
				continue
			}
			delete(pending, p)
			results = append(results, ev)
		}
	}
	return results, nil
}

// FirstError returns the message of the first Error event in arrival
// order, and whether one was found.
func FirstError(events []Event) (string, bool) {
	for _, ev := range events {
		if ev.Kind == Error {
			return ev.Message, true
		}
	}
	return "", false
}
