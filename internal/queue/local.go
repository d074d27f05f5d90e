package queue

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// LocalDispatcher runs jobs on an in-process worker pool.
type LocalDispatcher struct {
	jobs    chan ParseJob
	handler Handler
	logger  *slog.Logger
	group   *errgroup.Group
	cancel  context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewLocalDispatcher starts workers goroutines reading from a queue of size buffer.
func NewLocalDispatcher(handler Handler, workers, buffer int, logger *slog.Logger) *LocalDispatcher {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &LocalDispatcher{
		jobs:    make(chan ParseJob, buffer),
		handler: handler,
		logger:  logger,
		cancel:  cancel,
	}
	d.group, _ = errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		worker := i + 1
		d.group.Go(func() error {
			d.run(ctx, worker)
			return nil
		})
	}
	return d
}

func (d *LocalDispatcher) run(ctx context.Context, worker int) {
	for job := range d.jobs {
		if err := d.handler(ctx, job); err != nil {
			d.logger.Error("parse job failed",
				"worker", worker,
				"resume_version_id", job.ResumeVersionID,
				"error", err)
		}
	}
}

// Enqueue queues a job, blocking while the buffer is full.
func (d *LocalDispatcher) Enqueue(ctx context.Context, job ParseJob) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued jobs to finish.
func (d *LocalDispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	err := d.group.Wait()
	d.cancel()
	return err
}

var _ Dispatcher = (*LocalDispatcher)(nil)
