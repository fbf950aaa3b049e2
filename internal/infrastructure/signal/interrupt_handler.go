// Package signal provides signal handling utilities for the CLI application.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// InterruptHandler turns SIGINT/SIGTERM into a two-step shutdown. The first
// signal fires the FirstPress channel without cancelling the context, so the
// caller can begin a graceful stop and tell the user how to force exit. A
// second signal inside the confirmation window cancels the context. A signal
// arriving after the window has passed counts as a first press again.
type InterruptHandler struct {
	window  time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	firstCh chan struct{}

	mu       sync.Mutex
	deadline time.Time
	running  bool
	sigCh    chan os.Signal
	stopCh   chan struct{}
}

// NewInterruptHandler creates a handler with the given confirmation window.
// The window determines how long a first press stays armed for confirmation.
func NewInterruptHandler(window time.Duration) *InterruptHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &InterruptHandler{
		window:  window,
		ctx:     ctx,
		cancel:  cancel,
		firstCh: make(chan struct{}, 1),
	}
}

// Start begins listening for SIGINT and SIGTERM.
// This method should be called once after creating the handler.
func (h *InterruptHandler) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return
	}

	h.running = true
	h.sigCh = make(chan os.Signal, 1)
	h.stopCh = make(chan struct{})

	signal.Notify(h.sigCh, os.Interrupt, syscall.SIGTERM)

	// The goroutine holds its own references so Stop can clear the fields
	// without racing it.
	go func(sigCh chan os.Signal, stopCh chan struct{}) {
		for {
			select {
			case <-stopCh:
				return
			case <-sigCh:
				h.handleSignal(time.Now())
			}
		}
	}(h.sigCh, h.stopCh)
}

// handleSignal applies the two-step rule to one received signal.
func (h *InterruptHandler) handleSignal(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}

	if at.Before(h.deadline) {
		// Confirmed: a second signal arrived inside the window.
		h.cancel()
		h.deadline = time.Time{}
		return
	}

	h.deadline = at.Add(h.window)

	// Non-blocking send: a first press the caller never consumed must not
	// wedge the signal goroutine.
	select {
	case h.firstCh <- struct{}{}:
	default:
	}
}

// Stop stops listening for signals and cleans up resources.
// It is safe to call Stop multiple times.
func (h *InterruptHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}

	h.running = false
	signal.Stop(h.sigCh)
	close(h.stopCh)
	h.sigCh = nil
	h.stopCh = nil
}

// Context returns a context that will be cancelled when the user confirms
// exit with a second signal inside the confirmation window.
func (h *InterruptHandler) Context() context.Context {
	return h.ctx
}

// FirstPress returns a channel that receives a value on each unconfirmed
// interrupt. Callers use it to begin a graceful stop and to display a
// message like "Press Ctrl+C again to force exit".
func (h *InterruptHandler) FirstPress() <-chan struct{} {
	return h.firstCh
}

// SimulateInterrupt feeds a synthetic interrupt through the two-step rule.
// Callers that own the terminal in raw mode receive Ctrl+C as a key event
// instead of SIGINT and use this to forward it; tests use it to avoid
// sending real signals.
func (h *InterruptHandler) SimulateInterrupt() {
	h.handleSignal(time.Now())
}
