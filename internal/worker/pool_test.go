package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemLedger_Go/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &testJob{executed: &executed}
	require.NoError(t, pool.Enqueue(job))
	require.NoError(t, pool.Enqueue(job))

	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)

	pool.Stop()

	assert.Equal(t, int32(TestExpectedJobCount), atomic.LoadInt32(&executed))
}

func TestPool_SingleWorkerPreservesOrder(t *testing.T) {
	pool := NewPool(1, 100)
	pool.Start()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, pool.Enqueue(JobFunc(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})))
	}
	pool.Stop()

	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestPool_StopDrainsQueue(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	var executed int32
	pool := NewPool(1, 20)
	// Fill the queue before any worker runs.
	for i := 0; i < 20; i++ {
		require.True(t, pool.TryEnqueue(&testJob{executed: &executed}))
	}
	pool.Start()
	pool.Stop()

	assert.Equal(t, int32(20), atomic.LoadInt32(&executed))
	checker.Check(0)
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()
	pool.Stop()
	pool.Stop()

	var executed int32
	assert.ErrorIs(t, pool.Enqueue(&testJob{executed: &executed}), ErrPoolStopped)
	assert.False(t, pool.TryEnqueue(&testJob{executed: &executed}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&executed))
}

func TestPool_TryEnqueueFull(t *testing.T) {
	pool := NewPool(1, 1)
	// Not started, so the single slot stays occupied.
	var executed int32
	assert.True(t, pool.TryEnqueue(&testJob{executed: &executed}))
	assert.False(t, pool.TryEnqueue(&testJob{executed: &executed}))
	assert.Equal(t, 1, pool.QueueLen())

	pool.Start()
	pool.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestPool_FailingJobDoesNotKillWorker(t *testing.T) {
	pool := NewPool(1, 4)
	pool.Start()

	var executed int32
	require.NoError(t, pool.Enqueue(JobFunc(func(ctx context.Context) error {
		return errors.New("boom")
	})))
	require.NoError(t, pool.Enqueue(&testJob{executed: &executed}))
	pool.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}
