// Package leaktest holds goroutine leak assertions shared by the worker pool,
// publisher and ledger shutdown tests.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleInterval = 10 * time.Millisecond
	checkTimeout   = time.Second
)

// GoroutineChecker records a goroutine baseline and later asserts that the
// count has returned to within a tolerance of it.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(settleInterval)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check polls until at most tolerance extra goroutines remain, failing the
// test with a stack dump if they don't go away within a second.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after, ok := settle(g.before+tolerance, checkTimeout)
	if ok {
		return
	}
	g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d (tolerance=%d)\n%s",
		g.before, after, after-g.before, tolerance, stacks())
}

// Run executes fn and asserts it leaves no goroutines behind
func Run(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// WaitForGoroutines blocks until the goroutine count drops to target
func WaitForGoroutines(t testing.TB, target int, timeout time.Duration) {
	t.Helper()

	if current, ok := settle(target, timeout); !ok {
		t.Errorf("timed out waiting for goroutines: current=%d target=%d", current, target)
	}
}

func settle(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(settleInterval)
	}
}

func stacks() string {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	return string(buf[:n])
}
