package bus

import (
	"errors"
	"testing"
)

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got Event
	_, err := b.Subscribe("domino.placed", func(e Event) error {
		got = e
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("domino.placed", "tester", 123)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got == nil || got.Data() != 123 || got.Source() != "tester" || got.ID() == "" {
		t.Fatalf("handler not called with event: %#v", got)
	}
}

func TestWildcardSeesEveryType(t *testing.T) {
	b := New()
	var types []string
	_, _ = b.Subscribe(Wildcard, func(e Event) error {
		types = append(types, e.Type())
		return nil
	})
	_ = b.Publish(NewEvent("a", "s", nil))
	_ = b.Publish(NewEvent("b", "s", nil))
	if len(types) != 2 || types[0] != "a" || types[1] != "b" {
		t.Fatalf("wildcard delivery: %v", types)
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "s", nil))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if m := b.GetMetrics(); m.Errors != 1 || m.DeliveredHandlers != 2 || m.Published != 1 {
		t.Fatalf("metrics: %+v", m)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, _ := b.Subscribe("x", func(Event) error { count++; return nil })
	_ = b.Publish(NewEvent("x", "s", nil))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	_ = sub.Cancel()
	_ = b.Publish(NewEvent("x", "s", nil))
	if count != 1 {
		t.Fatalf("handler called %d times", count)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active")
	}
	if m := b.GetMetrics(); m.SubscribersActive != 0 {
		t.Fatalf("subscribers not cleaned: %+v", m)
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
}

func TestNilHandlerRejected(t *testing.T) {
	if _, err := New().Subscribe("x", nil); err == nil {
		t.Fatal("expected error")
	}
}
