package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishFansOutToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventCustomerCreated, func(context.Context, Event) error {
		t.Error("customer handler must not see ticket events")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("handler calls = %d, want 1", len(got))
	}
	if got[0].ID == "" {
		t.Error("event ID was not assigned")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("event timestamp was not assigned")
	}
}

func TestPublishRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	calls := 0
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { calls++; return errA })
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { calls++; return nil })
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { calls++; return errB })

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, ID: "fixed"})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both handler errors", err)
	}
}
