// Package lifecycle coordinates the lifespan of a single batch run: a
// context cancelled by OS signals, plus cleanup hooks flushed on exit.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Coordinator owns the run context and the cleanup hooks registered against it.
type Coordinator struct {
	ctx      context.Context
	stop     context.CancelFunc
	mu       sync.Mutex
	cleanups []func()
	closed   bool
}

// New creates a Coordinator with a plain cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, stop: cancel}
}

// NewSignalAware creates a Coordinator whose context is cancelled on
// SIGINT or SIGTERM, allowing an in-flight run to wind down cleanly.
func NewSignalAware() *Coordinator {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &Coordinator{ctx: ctx, stop: stop}
}

// Context returns the run context, cancelled on shutdown or signal.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnCleanup registers a hook to run during Close. Hooks run in reverse
// registration order, mirroring defer semantics.
func (c *Coordinator) OnCleanup(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanups = append(c.cleanups, fn)
}

// Close cancels the run context and executes cleanup hooks, bounded by
// timeout. It is safe to call more than once; later calls are no-ops.
func (c *Coordinator) Close(timeout time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	hooks := c.cleanups
	c.mu.Unlock()

	c.stop()

	done := make(chan struct{})
	go func() {
		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("cleanup timeout after %v", timeout)
	}
}
