package channel

import "testing"

func TestBuffered_SendReceive(t *testing.T) {
	ch := NewBuffered[string](2)
	defer ch.Close()

	ch.Send("Kerbal X")
	ch.Send("Mun Lander")

	if ch.Len() != 2 {
		t.Errorf("expected 2 buffered items, got %d", ch.Len())
	}

	if got := <-ch.Receive(); got != "Kerbal X" {
		t.Errorf("expected 'Kerbal X', got %q", got)
	}
	if got := <-ch.Receive(); got != "Mun Lander" {
		t.Errorf("expected 'Mun Lander', got %q", got)
	}
	if ch.Len() != 0 {
		t.Errorf("expected drained buffer, got %d", ch.Len())
	}
}

func TestBuffered_CloseEndsRange(t *testing.T) {
	ch := NewBuffered[int](3)
	ch.Send(1)
	ch.Send(2)
	ch.Close()

	sum := 0
	for v := range ch.Receive() {
		sum += v
	}
	if sum != 3 {
		t.Errorf("expected sum 3, got %d", sum)
	}
}

func TestUnbuffered_SendReceive(t *testing.T) {
	ch := NewUnbuffered[int]()
	defer ch.Close()

	done := make(chan int)
	go func() {
		done <- <-ch.Receive()
	}()

	ch.Send(42)
	if got := <-done; got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if ch.Len() != 0 {
		t.Errorf("unbuffered Len should be 0, got %d", ch.Len())
	}
}

func TestBuffered_TrySend(t *testing.T) {
	ch := NewBuffered[int](1)
	defer ch.Close()

	if !ch.TrySend(1) {
		t.Error("expected TrySend to succeed on empty buffer")
	}
	if ch.TrySend(2) {
		t.Error("expected TrySend to fail on full buffer")
	}

	<-ch.Receive()
	if !ch.TrySend(3) {
		t.Error("expected TrySend to succeed after drain")
	}
}

func TestUnbuffered_TrySendNoReceiver(t *testing.T) {
	ch := NewUnbuffered[int]()
	defer ch.Close()

	if ch.TrySend(1) {
		t.Error("expected TrySend to fail with no receiver waiting")
	}
}

func TestNew_SatisfiesChannel(t *testing.T) {
	var ch Channel[string] = New[string](4)
	defer ch.Close()

	ch.Send("probe")
	if got := <-ch.Receive(); got != "probe" {
		t.Errorf("expected 'probe', got %q", got)
	}
}
