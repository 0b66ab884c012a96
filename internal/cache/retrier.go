// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Retrier redoes cache purges that failed on the hot path. Invalidation
// failures never fail a publish; instead the coordinator queues the keys here
// and a small worker pool retries them with backoff until they succeed or the
// attempts run out.
type Retrier struct {
	cache   Cacher
	logger  *slog.Logger
	queue   chan *purgeJob
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// purgeJob is one queued re-invalidation work item.
type purgeJob struct {
	ID     string
	Keys   []string
	Reason string
}

// RetrierConfig holds retrier configuration.
type RetrierConfig struct {
	Workers   int // Number of concurrent purge workers
	QueueSize int // Pending job capacity
}

// DefaultRetrierConfig returns default retrier configuration.
func DefaultRetrierConfig() RetrierConfig {
	return RetrierConfig{
		Workers:   2,
		QueueSize: 100,
	}
}

// Retry policy per queued job.
const (
	purgeRetryAttempts = 5
	purgeRetryBase     = 200 * time.Millisecond
)

// NewRetrier creates a re-invalidation retrier over the given cache.
func NewRetrier(cache Cacher, logger *slog.Logger, cfg RetrierConfig) *Retrier {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Retrier{
		cache:   cache,
		logger:  logger,
		queue:   make(chan *purgeJob, cfg.QueueSize),
		workers: cfg.Workers,
		done:    make(chan struct{}),
	}
}

// Start starts the retrier workers.
func (r *Retrier) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.logger.Info("starting cache retrier", "workers", r.workers)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}
}

// Stop stops the retrier and waits for workers to finish.
func (r *Retrier) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.logger.Info("stopping cache retrier")
	close(r.done)
	r.wg.Wait()
	r.logger.Info("cache retrier stopped")
}

// Enqueue queues keys for out-of-band purging. Non-blocking: if the queue is
// full the job is dropped and the cache entries will age out by TTL instead.
func (r *Retrier) Enqueue(keys []string, reason string) {
	r.mu.RLock()
	running := r.running
	r.mu.RUnlock()

	if !running {
		r.logger.Warn("retrier not running, dropping purge job", "reason", reason, "keys", len(keys))
		return
	}

	job := &purgeJob{
		ID:     uuid.NewString(),
		Keys:   keys,
		Reason: reason,
	}

	select {
	case r.queue <- job:
		r.logger.Debug("purge job queued", "job_id", job.ID, "reason", reason, "keys", len(keys))
	default:
		r.logger.Warn("purge queue full, dropping job; entries will expire by TTL",
			"job_id", job.ID, "reason", reason)
	}
}

// worker processes queued purge jobs.
func (r *Retrier) worker(ctx context.Context, id int) {
	defer r.wg.Done()
	r.logger.Debug("cache retrier worker started", "worker_id", id)

	for {
		select {
		case <-r.done:
			r.logger.Debug("cache retrier worker stopping", "worker_id", id)
			return
		case <-ctx.Done():
			return
		case job := <-r.queue:
			r.process(ctx, job)
		}
	}
}

// process retries each key of the job with backoff. Keys are independent; a
// key that keeps failing does not block the others.
func (r *Retrier) process(ctx context.Context, job *purgeJob) {
	backoff := retry.WithMaxRetries(purgeRetryAttempts, retry.NewExponential(purgeRetryBase))

	for _, key := range job.Keys {
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if derr := r.cache.Delete(ctx, key); derr != nil {
				return retry.RetryableError(derr)
			}
			return nil
		})
		if err != nil {
			r.logger.Error("out-of-band cache purge exhausted retries",
				"job_id", job.ID,
				"key", key,
				"reason", job.Reason,
				"error", err,
			)
			continue
		}
		r.logger.Info("out-of-band cache purge succeeded",
			"job_id", job.ID,
			"key", key,
			"reason", job.Reason,
		)
	}
}
