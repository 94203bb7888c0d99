package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before an event arrived")
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestMemoryBus_FanOut(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	a, cancelA := bus.Subscribe(ctx)
	defer cancelA()
	b, cancelB := bus.Subscribe(ctx)
	defer cancelB()

	want := Event{Kind: CartChanged, UserID: "u1", Count: 3, At: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	if err := bus.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for _, ch := range []<-chan Event{a, b} {
		if diff := cmp.Diff(want, receive(t, ch)); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMemoryBus_CancelClosesChannel(t *testing.T) {
	bus := NewMemoryBus()
	ch, cancel := bus.Subscribe(context.Background())

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after cancel")
	}
	if n := bus.Subscribers(); n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
	if err := bus.Publish(context.Background(), Event{Kind: WishlistChanged}); err != nil {
		t.Errorf("publish without subscribers: %v", err)
	}
}

func TestMemoryBus_ContextCancelReleasesSubscription(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := bus.Subscribe(ctx)

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription not released after context cancel")
	}
}

func TestMemoryBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewMemoryBus()
	ch, cancel := bus.Subscribe(context.Background())
	defer cancel()

	for i := range subscriberBuffer * 2 {
		if err := bus.Publish(context.Background(), Event{Kind: CartChanged, Count: i}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	if got := len(ch); got != subscriberBuffer {
		t.Errorf("expected %d buffered events, got %d", subscriberBuffer, got)
	}
	if first := receive(t, ch); first.Count != 0 {
		t.Errorf("expected oldest event first, got count %d", first.Count)
	}
}
