package queue

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"resgen/internal/core/ports"
	"resgen/internal/data/history"
)

var _ ports.RunHistory = (*Recorder)(nil)

const (
	batchSize = 16
	batchWait = 250 * time.Millisecond
)

// Recorder writes runs to a history sink from a background goroutine. Reads
// wait until every accepted run has been written.
type Recorder struct {
	sink    ports.RunHistory
	queue   *MemoryQueue
	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	done    chan struct{}
	once    sync.Once
}

func NewRecorder(sink ports.RunHistory, capacity int) *Recorder {
	r := &Recorder{
		sink:  sink,
		queue: NewMemoryQueue(capacity),
		done:  make(chan struct{}),
	}
	r.idle = sync.NewCond(&r.mu)
	go r.drain()
	return r
}

// Record queues run. When the queue is full the run is written directly.
func (r *Recorder) Record(run history.Run) error {
	r.add(1)
	if r.queue.Enqueue(run) == EnqueueAccepted {
		return nil
	}
	r.add(-1)
	slog.Debug("history queue full, recording synchronously", "run", run.ID)
	return r.sink.Record(run)
}

func (r *Recorder) Runs(projectKey string, since time.Time, limit int) ([]history.Run, error) {
	r.Flush()
	return r.sink.Runs(projectKey, since, limit)
}

func (r *Recorder) LastDigest(projectKey string) (string, error) {
	r.Flush()
	return r.sink.LastDigest(projectKey)
}

// Flush blocks until every queued run has reached the sink.
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.pending > 0 {
		r.idle.Wait()
	}
}

func (r *Recorder) add(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending += n
	if r.pending == 0 {
		r.idle.Broadcast()
	}
}

// Close stops accepting runs and waits for the queued ones to be written.
func (r *Recorder) Close() error {
	r.once.Do(func() { _ = r.queue.Close() })
	<-r.done
	return nil
}

func (r *Recorder) drain() {
	defer close(r.done)
	for {
		batch, err := r.queue.DequeueBatch(context.Background(), batchSize, batchWait)
		for _, run := range batch {
			if recErr := r.sink.Record(run); recErr != nil {
				slog.Warn("failed to record run history", "run", run.ID, "error", recErr)
			}
			r.add(-1)
		}
		if err == io.EOF {
			return
		}
	}
}
