package eventbus

import "testing"

func TestTypedBus_PublishSubscribe(t *testing.T) {
	bus := NewTyped[int](4)
	sub := bus.Subscribe()
	bus.Publish(41)
	bus.Publish(42)
	if got := <-sub; got != 41 {
		t.Fatalf("got %d want 41", got)
	}
	if got := <-sub; got != 42 {
		t.Fatalf("got %d want 42", got)
	}
}

func TestTypedBus_DropsWhenFull(t *testing.T) {
	bus := NewTyped[int](1)
	sub := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2) // dropped, buffer full
	if got := <-sub; got != 1 {
		t.Fatalf("got %d want 1", got)
	}
	select {
	case v := <-sub:
		t.Fatalf("unexpected event %d", v)
	default:
	}
}

func TestTypedBus_UnsubscribeCloses(t *testing.T) {
	bus := NewTyped[int](1)
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("channel not closed")
	}
	// publishing after unsubscribe must not panic
	bus.Publish(1)
}

func TestTypedBus_CloseAll(t *testing.T) {
	bus := NewTyped[int](1)
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Close()
	if _, ok := <-a; ok {
		t.Fatal("a not closed")
	}
	if _, ok := <-b; ok {
		t.Fatal("b not closed")
	}
	if ch := bus.Subscribe(); ch == nil {
		t.Fatal("nil channel after close")
	} else if _, ok := <-ch; ok {
		t.Fatal("subscribe after close returned open channel")
	}
}
