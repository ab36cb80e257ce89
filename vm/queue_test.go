package vm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueOrder(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(1, 2)
	for _, v := range []int64{3, 4} {
		if err := q.Send(v); err != nil {
			t.Fatalf("send: %s", err)
		}
	}
	q.Close()

	for want := int64(1); want <= 4; want++ {
		got, err := q.Next(ctx)
		if err != nil {
			t.Fatalf("next: %s", err)
		}
		if got != want {
			t.Fatalf("next = %d, want %d", got, want)
		}
	}
	if _, err := q.Next(ctx); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("next on drained closed queue: got %v, want %v", err, ErrMissingInput)
	}
}

func TestQueueNextBlocks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := NewQueue()
	done := make(chan int64)
	go func() {
		v, err := q.Next(ctx)
		if err != nil {
			t.Errorf("next: %s", err)
		}
		done <- v
	}()

	select {
	case v := <-done:
		t.Fatalf("next returned %d on an empty queue", v)
	case <-time.After(20 * time.Millisecond):
	}

	if err := q.Send(7); err != nil {
		t.Fatalf("send: %s", err)
	}
	if v := <-done; v != 7 {
		t.Fatalf("next = %d, want 7", v)
	}
}

func TestQueueDrop(t *testing.T) {
	q := NewQueue(1)
	q.Drop()

	if err := q.Send(2); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("send after drop: got %v, want %v", err, ErrDisconnected)
	}
	if q.Len() != 0 {
		t.Fatalf("pending values kept after drop: %d", q.Len())
	}
}

func TestQueueContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewQueue().Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("next with canceled context: got %v, want %v", err, context.Canceled)
	}
}
