package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/metrics"
	"github.com/osse101/ItemLedger_Go/internal/registry"
	"github.com/osse101/ItemLedger_Go/internal/testing/leaktest"
	"github.com/osse101/ItemLedger_Go/internal/worker"
)

// countingJob signals every run
type countingJob struct {
	runs atomic.Int32
	done chan struct{}
}

func (j *countingJob) Process(ctx context.Context) error {
	j.runs.Add(1)
	select {
	case j.done <- struct{}{}:
	default:
	}
	return nil
}

// fullQueue rejects everything
type fullQueue struct {
	attempts atomic.Int32
}

func (q *fullQueue) TryEnqueue(job worker.Job) bool {
	q.attempts.Add(1)
	return false
}

func TestScheduler(t *testing.T) {
	leaktest.Run(t, func() {
		pool := worker.NewPool(1, 10)
		pool.Start()
		defer pool.Stop()

		sched := New(pool)
		defer sched.Stop()

		job := &countingJob{done: make(chan struct{}, 10)}
		sched.Schedule("count", 10*time.Millisecond, job)

		timeout := time.After(time.Second)
		for seen := 0; seen < 2; seen++ {
			select {
			case <-job.done:
			case <-timeout:
				t.Fatal("Timeout waiting for job execution")
			}
		}

		assert.GreaterOrEqual(t, int(job.runs.Load()), 2)
	})
}

func TestScheduler_SkipsWhenQueueFull(t *testing.T) {
	q := &fullQueue{}
	sched := New(q)
	sched.Schedule("skip", 5*time.Millisecond, worker.JobFunc(func(context.Context) error {
		t.Error("job must not run")
		return nil
	}))

	require.Eventually(t, func() bool { return q.attempts.Load() >= 2 }, time.Second, 5*time.Millisecond)
	sched.Stop()
	sched.Stop()
}

type staticStatus registry.Status

func (s staticStatus) Status(context.Context) registry.Status { return registry.Status(s) }

func TestStatusSnapshotJob(t *testing.T) {
	job := StatusSnapshotJob(staticStatus{
		Admin:            domain.Principal("admin"),
		Paused:           true,
		LastTokenID:      9,
		ItemCount:        9,
		OwnershipVersion: 12,
	})

	require.NoError(t, job.Process(context.Background()))

	assert.Equal(t, 9.0, testutil.ToFloat64(metrics.Items))
	assert.Equal(t, 9.0, testutil.ToFloat64(metrics.LastTokenID))
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.OwnershipVersion))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Paused))
}
