// Package scheduler runs jobs on a fixed interval through a worker pool.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/ItemLedger_Go/internal/metrics"
	"github.com/osse101/ItemLedger_Go/internal/registry"
	"github.com/osse101/ItemLedger_Go/internal/worker"
)

// LogMsgTickSkipped is logged when the pool queue is full at tick time
const LogMsgTickSkipped = "Scheduled job skipped, worker queue full"

// Enqueuer accepts jobs without blocking. *worker.Pool satisfies it.
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	pool     Enqueuer
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule enqueues job every interval until Stop. A tick that finds the
// queue full is skipped; the next tick tries again.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.pool.TryEnqueue(job) {
					slog.Debug(LogMsgTickSkipped, "job", name)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
}

// StatusSource reports the registry's current state
type StatusSource interface {
	Status(ctx context.Context) registry.Status
}

// StatusSnapshotJob copies the registry status into the snapshot gauges
func StatusSnapshotJob(src StatusSource) worker.Job {
	return worker.JobFunc(func(ctx context.Context) error {
		st := src.Status(ctx)
		metrics.RecordStatus(st.ItemCount, uint64(st.LastTokenID), st.OwnershipVersion, st.Paused)
		return nil
	})
}
