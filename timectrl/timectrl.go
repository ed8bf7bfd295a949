// Package timectrl paces a fixed-step simulation loop against wall-clock time.
package timectrl

import (
	"context"
	"sync"
	"time"
)

// Mode describes how the TimeController advances simulation ticks.
type Mode int

const (
	// RealTime paces ticks so that one sim step of dt takes dt of wall time.
	RealTime Mode = iota
	// Accelerated runs ticks back to back as fast as the loop allows.
	Accelerated
)

// Ticker is the per-tick work driven by the controller. Tick is invoked
// once per step and is never called concurrently with itself.
type Ticker interface {
	Tick()
}

// TickerFunc adapts a plain function to the Ticker interface.
type TickerFunc func()

func (f TickerFunc) Tick() { f() }

// TimeController drives a Ticker at a fixed step and notifies listeners
// after each completed tick. Ticks are atomic: cancellation between ticks
// stops the loop, but a tick in progress always runs to completion.
type TimeController struct {
	Step time.Duration
	Mode Mode

	mu        sync.RWMutex
	ticks     int
	listeners []func(tick int)
}

// NewTimeController constructs a controller stepping at the given interval.
func NewTimeController(step time.Duration, mode Mode) *TimeController {
	return &TimeController{Step: step, Mode: mode}
}

// Ticks returns the number of completed ticks.
func (tc *TimeController) Ticks() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.ticks
}

// AddListener registers a callback invoked after every completed tick.
func (tc *TimeController) AddListener(fn func(tick int)) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.listeners = append(tc.listeners, fn)
}

// Run drives the ticker until maxTicks complete or the context is
// cancelled. A maxTicks of zero or less means run until cancellation.
// It returns the number of ticks completed during this call.
func (tc *TimeController) Run(ctx context.Context, t Ticker, maxTicks int) int {
	var ticker *time.Ticker
	if tc.Mode == RealTime {
		ticker = time.NewTicker(tc.Step)
		defer ticker.Stop()
	}

	completed := 0
	for {
		if maxTicks > 0 && completed >= maxTicks {
			return completed
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return completed
			case <-ticker.C:
			}
		} else {
			select {
			case <-ctx.Done():
				return completed
			default:
			}
		}

		t.Tick()
		completed++

		tc.mu.Lock()
		tc.ticks++
		tick := tc.ticks
		listeners := tc.listeners
		tc.mu.Unlock()

		for _, fn := range listeners {
			fn(tick)
		}
	}
}
