package signal

import (
	"context"
	"testing"
	"time"
)

func TestInterruptHandler_FirstInterruptFiresChannel(t *testing.T) {
	t.Run("should fire FirstPress channel on first interrupt", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		defer handler.Stop()

		handler.SimulateInterrupt()

		select {
		case <-handler.FirstPress():
			// Success - channel fired as expected
		case <-time.After(100 * time.Millisecond):
			t.Error("FirstPress channel did not fire after first interrupt")
		}
	})

	t.Run("should not cancel context on first interrupt", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		defer handler.Stop()

		handler.SimulateInterrupt()

		select {
		case <-handler.Context().Done():
			t.Error("context was cancelled by a single unconfirmed interrupt")
		case <-time.After(50 * time.Millisecond):
			// Success - a lone press keeps the context alive
		}
	})
}

func TestInterruptHandler_DoubleInterruptCancelsContext(t *testing.T) {
	t.Run("should cancel context on second interrupt within window", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		defer handler.Stop()

		handler.SimulateInterrupt()
		time.Sleep(10 * time.Millisecond)
		handler.SimulateInterrupt()

		select {
		case <-handler.Context().Done():
			if handler.Context().Err() == nil {
				t.Error("Context.Err() returned nil after cancellation")
			}
		case <-time.After(100 * time.Millisecond):
			t.Error("context was not cancelled after double interrupt")
		}
	})

	t.Run("should cancel context immediately on rapid double press", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		defer handler.Stop()

		handler.SimulateInterrupt()
		handler.SimulateInterrupt()

		select {
		case <-handler.Context().Done():
			// Success
		case <-time.After(100 * time.Millisecond):
			t.Error("context was not cancelled after rapid double interrupt")
		}
	})
}

func TestInterruptHandler_WindowExpiryResets(t *testing.T) {
	t.Run("a press after the window counts as a first press", func(t *testing.T) {
		window := 50 * time.Millisecond
		handler := NewInterruptHandler(window)
		handler.Start()
		defer handler.Stop()

		handler.SimulateInterrupt()

		select {
		case <-handler.FirstPress():
		case <-time.After(100 * time.Millisecond):
			t.Fatal("FirstPress channel did not fire")
		}

		// Let the confirmation window lapse.
		time.Sleep(window + 20*time.Millisecond)

		handler.SimulateInterrupt()

		select {
		case <-handler.FirstPress():
			// Success - treated as a fresh first press
		case <-time.After(100 * time.Millisecond):
			t.Error("FirstPress channel did not fire after the window reset")
		}

		select {
		case <-handler.Context().Done():
			t.Error("context must stay alive: no press pair landed inside one window")
		default:
		}
	})

	t.Run("a proper double press after a reset still cancels", func(t *testing.T) {
		window := 50 * time.Millisecond
		handler := NewInterruptHandler(window)
		handler.Start()
		defer handler.Stop()

		handler.SimulateInterrupt()
		time.Sleep(window + 20*time.Millisecond)

		handler.SimulateInterrupt()
		time.Sleep(10 * time.Millisecond)
		handler.SimulateInterrupt()

		select {
		case <-handler.Context().Done():
			// Success
		case <-time.After(100 * time.Millisecond):
			t.Error("context was not cancelled by the double press following a reset")
		}
	})
}

func TestInterruptHandler_StartAndStop(t *testing.T) {
	t.Run("should handle multiple Start calls gracefully", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		handler.Start()
		handler.Stop()
	})

	t.Run("should handle Stop without Start", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Stop()
	})

	t.Run("should handle multiple Stop calls", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		handler.Stop()
		handler.Stop()
	})

	t.Run("should not respond to interrupts after Stop", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		handler.Stop()

		handler.SimulateInterrupt()
		handler.SimulateInterrupt()

		time.Sleep(50 * time.Millisecond)

		select {
		case <-handler.Context().Done():
			t.Error("context was cancelled after Stop, expected no response to interrupts")
		default:
			// Success - no response to interrupts after stop
		}
	})
}

func TestInterruptHandler_Context(t *testing.T) {
	t.Run("Context should not be cancelled initially", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		defer handler.Stop()

		ctx := handler.Context()
		select {
		case <-ctx.Done():
			t.Error("context is already cancelled before any interrupt")
		default:
		}
		if ctx.Err() != nil {
			t.Errorf("Context.Err() should be nil initially, got: %v", ctx.Err())
		}
	})

	t.Run("FirstPress returns the same channel on every call", func(t *testing.T) {
		handler := NewInterruptHandler(2 * time.Second)
		handler.Start()
		defer handler.Stop()

		ch1 := handler.FirstPress()
		ch2 := handler.FirstPress()

		handler.SimulateInterrupt()

		received1 := false
		select {
		case <-ch1:
			received1 = true
		case <-time.After(100 * time.Millisecond):
		}

		select {
		case <-ch2:
			if received1 {
				t.Error("received on both ch1 and ch2, channels should be the same")
			}
		case <-time.After(10 * time.Millisecond):
			if !received1 {
				t.Error("neither channel received the interrupt signal")
			}
		}
	})
}

// scenarioTestCase defines a test scenario for interrupt handling behavior.
type scenarioTestCase struct {
	name             string
	window           time.Duration
	interrupts       []time.Duration // delays before each interrupt
	expectCancelled  bool
	expectFirstPress int // how many times FirstPress should fire
}

func TestInterruptHandler_Scenarios(t *testing.T) {
	tests := []scenarioTestCase{
		{
			name:             "single interrupt arms but does not cancel",
			window:           100 * time.Millisecond,
			interrupts:       []time.Duration{0},
			expectCancelled:  false,
			expectFirstPress: 1,
		},
		{
			name:             "double interrupt within window cancels",
			window:           100 * time.Millisecond,
			interrupts:       []time.Duration{0, 10 * time.Millisecond},
			expectCancelled:  true,
			expectFirstPress: 1,
		},
		{
			name:             "double interrupt straddling the window does not cancel",
			window:           50 * time.Millisecond,
			interrupts:       []time.Duration{0, 80 * time.Millisecond},
			expectCancelled:  false,
			expectFirstPress: 2,
		},
		{
			name:             "third interrupt inside a fresh window cancels",
			window:           60 * time.Millisecond,
			interrupts:       []time.Duration{0, 100 * time.Millisecond, 110 * time.Millisecond},
			expectCancelled:  true,
			expectFirstPress: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runScenario(t, tt)
		})
	}
}

// runScenario executes a single interrupt scenario test case.
func runScenario(t *testing.T, tt scenarioTestCase) {
	t.Helper()

	handler := NewInterruptHandler(tt.window)
	handler.Start()
	defer handler.Stop()

	firstPressCount := 0
	start := time.Now()
	for _, delay := range tt.interrupts {
		if sleep := delay - time.Since(start); sleep > 0 {
			time.Sleep(sleep)
		}
		handler.SimulateInterrupt()

		select {
		case <-handler.FirstPress():
			firstPressCount++
		case <-time.After(20 * time.Millisecond):
			// No first press signal for this interrupt.
		}
	}

	time.Sleep(30 * time.Millisecond)

	cancelled := isContextCancelled(handler.Context())
	if cancelled != tt.expectCancelled {
		t.Errorf("expected cancelled=%v, got cancelled=%v", tt.expectCancelled, cancelled)
	}
	if firstPressCount != tt.expectFirstPress {
		t.Errorf("expected firstPressCount=%d, got %d", tt.expectFirstPress, firstPressCount)
	}
}

// isContextCancelled checks if the context is cancelled without blocking.
func isContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
