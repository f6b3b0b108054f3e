// Package queue buffers finished runs so recording them never delays the
// next generation.
package queue

import (
	"context"
	"io"
	"sync"
	"time"

	"resgen/internal/data/history"
)

type EnqueueResult string

const (
	EnqueueAccepted EnqueueResult = "accepted"
	EnqueueDropped  EnqueueResult = "dropped"
)

// MemoryQueue is a bounded FIFO of runs.
type MemoryQueue struct {
	ch     chan history.Run
	mu     sync.RWMutex
	closed bool
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryQueue{ch: make(chan history.Run, capacity)}
}

// Enqueue never blocks; a full or closed queue drops the run.
func (q *MemoryQueue) Enqueue(run history.Run) EnqueueResult {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return EnqueueDropped
	}
	select {
	case q.ch <- run:
		return EnqueueAccepted
	default:
		return EnqueueDropped
	}
}

// DequeueBatch waits up to wait for a first run, then takes whatever else is
// buffered, up to maxItems. It returns io.EOF once the queue is closed and
// drained.
func (q *MemoryQueue) DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]history.Run, error) {
	if maxItems <= 0 {
		maxItems = 1
	}
	batch := make([]history.Run, 0, maxItems)

	var timer <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timer = t.C
	}

	select {
	case run, ok := <-q.ch:
		if !ok {
			return nil, io.EOF
		}
		batch = append(batch, run)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer:
		return nil, nil
	}

	for len(batch) < maxItems {
		select {
		case run, ok := <-q.ch:
			if !ok {
				return batch, io.EOF
			}
			batch = append(batch, run)
		default:
			return batch, nil
		}
	}
	return batch, nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.ch)
	return nil
}

func (q *MemoryQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}
