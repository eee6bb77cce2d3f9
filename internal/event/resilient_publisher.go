package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ItemLedger_Go/internal/logger"
)

// retryEntry is an event waiting for another publish attempt
type retryEntry struct {
	event     Event
	attempt   int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher wraps an event Bus with retry logic and dead-letter queuing.
// The first publish attempt runs on the caller's goroutine; failures are retried
// by a single background worker with exponential backoff, and events that exhaust
// their retries (or overflow the queue) are appended to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter file: %w", err)
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes an event, scheduling retries on failure.
// It never returns an error: delivery failures end up in the dead-letter file.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	if rp.maxRetries <= 0 {
		log.Warn(LogMsgEventRetryExhausted, "event_type", evt.Type, "error", err)
		rp.writeDeadLetter(evt, 1, err)
		return
	}

	log.Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	rp.enqueue(retryEntry{
		event:     evt,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
		lastErr:   err,
	})
}

// Publish satisfies Bus so the publisher can stand in wherever a bus is expected
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-rp.shutdown:
		logger.Warn(LogMsgEventDroppedShutdown, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry.event, entry.attempt, entry.lastErr)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
	default:
		logger.Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry.event, entry.attempt, entry.lastErr)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			if !rp.waitUntil(entry.nextRetry) {
				// Shutting down: make one last attempt, then drain.
				rp.finalAttempt(entry)
				rp.drain()
				return
			}
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// waitUntil sleeps until t, returning false if shutdown interrupts the wait
func (rp *ResilientPublisher) waitUntil(t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-rp.shutdown:
		return false
	}
}

func (rp *ResilientPublisher) retry(entry retryEntry) {
	ctx := context.Background()
	attempt := entry.attempt + 1

	err := rp.bus.Publish(ctx, entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", attempt)
		return
	}

	if entry.attempt >= rp.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", attempt, "error", err)
		rp.writeDeadLetter(entry.event, attempt, err)
		return
	}

	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", attempt, "error", err)
	rp.enqueue(retryEntry{
		event:     entry.event,
		attempt:   entry.attempt + 1,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempt+1)),
		lastErr:   err,
	})
}

func (rp *ResilientPublisher) finalAttempt(entry retryEntry) {
	if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
		rp.writeDeadLetter(entry.event, entry.attempt+1, err)
	}
}

// drain gives every queued event one final attempt
func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			rp.finalAttempt(entry)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(evt Event, attempts int, lastErr error) {
	if rp.deadLetter == nil {
		return
	}
	if err := rp.deadLetter.Write(evt, attempts, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", evt.Type, "error", err)
	}
}

// Shutdown stops the retry worker after draining the queue, then closes the dead-letter file.
// Calling Shutdown more than once is safe.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() {
		close(rp.shutdown)
	})

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	if rp.deadLetter != nil {
		if err := rp.deadLetter.Close(); err != nil && !errors.Is(err, ErrDeadLetterClosed) {
			return err
		}
	}
	return nil
}
