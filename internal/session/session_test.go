package session

import (
	"testing"
)

func TestOutboxDeliversInOrder(t *testing.T) {
	o := NewOutbox[int]("a", 4)
	for i := 1; i <= 3; i++ {
		o.Send(i)
	}
	for want := 1; want <= 3; want++ {
		if got := <-o.Messages(); got != want {
			t.Errorf("message = %d, expected %d", got, want)
		}
	}
}

func TestOutboxDropsOldestWhenFull(t *testing.T) {
	o := NewOutbox[int]("a", 2)
	o.Send(1)
	o.Send(2)
	o.Send(3)

	if got := <-o.Messages(); got != 2 {
		t.Errorf("first message = %d, expected 2", got)
	}
	if got := <-o.Messages(); got != 3 {
		t.Errorf("second message = %d, expected 3", got)
	}
}

func TestOutboxCloseIsIdempotent(t *testing.T) {
	o := NewOutbox[string]("a", 1)
	calls := 0
	o.OnClose(func() { calls++ })

	o.Close()
	o.Close()

	if calls != 1 {
		t.Errorf("OnClose ran %d times, expected 1", calls)
	}
	select {
	case <-o.Done():
	default:
		t.Error("Done not closed")
	}

	o.Send("late")
	if n := len(o.Messages()); n != 0 {
		t.Errorf("closed outbox queued %d messages", n)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := NewOutbox[int]("a", 1)
	b := NewOutbox[int]("b", 1)
	r.Register(a)
	r.Register(b)

	if n := r.Count(); n != 2 {
		t.Errorf("Count() = %d, expected 2", n)
	}
	if h, ok := r.Get("a"); !ok || h.ID() != "a" {
		t.Errorf("Get(a) = %v, %v", h, ok)
	}

	r.CloseAll()
	for _, o := range []*Outbox[int]{a, b} {
		select {
		case <-o.Done():
		default:
			t.Errorf("session %s not closed", o.ID())
		}
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("a still registered")
	}
	if n := r.Count(); n != 1 {
		t.Errorf("Count() = %d, expected 1", n)
	}
}
