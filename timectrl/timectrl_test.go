package timectrl

import (
	"context"
	"testing"
	"time"
)

func TestRunStopsAtMaxTicks(t *testing.T) {
	tc := NewTimeController(time.Millisecond, Accelerated)

	ticks := 0
	completed := tc.Run(context.Background(), TickerFunc(func() { ticks++ }), 10)

	if completed != 10 || ticks != 10 {
		t.Fatalf("completed=%d ticks=%d, want 10/10", completed, ticks)
	}
	if tc.Ticks() != 10 {
		t.Fatalf("Ticks() = %d, want 10", tc.Ticks())
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	tc := NewTimeController(time.Millisecond, Accelerated)
	ctx, cancel := context.WithCancel(context.Background())

	ticks := 0
	completed := tc.Run(ctx, TickerFunc(func() {
		ticks++
		if ticks == 5 {
			cancel()
		}
	}), 0)

	// Cancellation mid-tick lets that tick finish; nothing runs after.
	if completed != 5 || ticks != 5 {
		t.Fatalf("completed=%d ticks=%d, want exactly 5", completed, ticks)
	}
}

func TestRunNotifiesListeners(t *testing.T) {
	tc := NewTimeController(time.Millisecond, Accelerated)

	var seen []int
	tc.AddListener(func(tick int) { seen = append(seen, tick) })

	tc.Run(context.Background(), TickerFunc(func() {}), 3)

	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("listener ticks = %v, want [1 2 3]", seen)
	}
}

func TestRunRealTimePacing(t *testing.T) {
	tc := NewTimeController(10*time.Millisecond, RealTime)

	start := time.Now()
	tc.Run(context.Background(), TickerFunc(func() {}), 3)
	elapsed := time.Since(start)

	if elapsed < 25*time.Millisecond {
		t.Fatalf("3 real-time ticks at 10ms took %v, expected pacing", elapsed)
	}
}

func TestRunAccumulatesAcrossCalls(t *testing.T) {
	tc := NewTimeController(time.Millisecond, Accelerated)

	tc.Run(context.Background(), TickerFunc(func() {}), 2)
	tc.Run(context.Background(), TickerFunc(func() {}), 3)

	if tc.Ticks() != 5 {
		t.Fatalf("Ticks() = %d, want cumulative 5", tc.Ticks())
	}
}
