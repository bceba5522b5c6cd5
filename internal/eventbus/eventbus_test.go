package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	bus.Publish("hello")
	if v := <-sub.C; v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	sub.Cancel()
	if _, ok := <-sub.C; ok {
		t.Fatalf("cancelled subscription should be closed")
	}
}

func TestBusFanOut(t *testing.T) {
	bus := New()
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Publish(42)
	if v := <-a.C; v != 42 {
		t.Fatalf("a got %v", v)
	}
	if v := <-b.C; v != 42 {
		t.Fatalf("b got %v", v)
	}
}

func TestBusDropsWhenBufferFull(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	for i := 0; i < 100; i++ {
		bus.Publish(i)
	}
	// The subscriber buffer holds 16; the rest were dropped, not blocked on.
	n := 0
	for {
		select {
		case <-sub.C:
			n++
			continue
		default:
		}
		break
	}
	if n != 16 {
		t.Fatalf("buffered events = %d, want 16", n)
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Close()
	if _, ok := <-a.C; ok {
		t.Fatalf("expected a closed")
	}
	if _, ok := <-b.C; ok {
		t.Fatalf("expected b closed")
	}
	// Publishing and subscribing after Close must not panic.
	bus.Publish("late")
	late := bus.Subscribe()
	if _, ok := <-late.C; ok {
		t.Fatalf("late subscription should be closed")
	}
}

func TestBusCancelAfterClose(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	bus.Close()
	sub.Cancel()
	sub.Cancel()
}
