package queue

import (
	"context"
	"io"
	"testing"
	"time"

	"resgen/internal/data/history"
)

func TestMemoryQueue_EnqueueDequeue(t *testing.T) {
	q := NewMemoryQueue(2)
	t.Cleanup(func() { _ = q.Close() })

	if got := q.Enqueue(history.Run{ID: "a"}); got != EnqueueAccepted {
		t.Fatalf("expected enqueue accepted, got %s", got)
	}
	if got := q.Enqueue(history.Run{ID: "b"}); got != EnqueueAccepted {
		t.Fatalf("expected enqueue accepted, got %s", got)
	}
	if got := q.Enqueue(history.Run{ID: "c"}); got != EnqueueDropped {
		t.Fatalf("expected full queue to drop, got %s", got)
	}
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}

	batch, err := q.DequeueBatch(context.Background(), 5, time.Millisecond)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if len(batch) != 2 || batch[0].ID != "a" || batch[1].ID != "b" {
		t.Fatalf("unexpected batch %+v", batch)
	}
}

func TestMemoryQueue_TimeoutAndClose(t *testing.T) {
	q := NewMemoryQueue(1)

	batch, err := q.DequeueBatch(context.Background(), 1, 10*time.Millisecond)
	if err != nil || len(batch) != 0 {
		t.Fatalf("expected empty batch on timeout, got %v, %v", batch, err)
	}

	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if got := q.Enqueue(history.Run{ID: "late"}); got != EnqueueDropped {
		t.Fatalf("closed queue must drop, got %s", got)
	}
	if _, err := q.DequeueBatch(context.Background(), 1, time.Millisecond); err != io.EOF {
		t.Fatalf("expected io.EOF after close, got %v", err)
	}
}

func TestMemoryQueue_ContextCancel(t *testing.T) {
	q := NewMemoryQueue(1)
	t.Cleanup(func() { _ = q.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := q.DequeueBatch(ctx, 1, time.Second); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
