package stats

import (
	"strings"
	"sync"
	"testing"
)

func TestRecorderAccumulates(t *testing.T) {
	r := New()
	r.RecordMessagesSent(3)
	r.RecordMessagesSent(2)
	r.RecordMessagesDropped(1)
	r.RecordMessagesDelivered(4)
	r.RecordYield()
	r.RecordMerge()
	r.RecordProximityStop()
	r.RecordVehicleArrived()
	r.SetWorldCounts(6, 2)

	if r.MessagesSent != 5 || r.MessagesDropped != 1 || r.MessagesDelivered != 4 {
		t.Errorf("message counters = %d/%d/%d", r.MessagesSent, r.MessagesDropped, r.MessagesDelivered)
	}
	if r.YieldEvents != 1 || r.MergeEvents != 1 || r.ProximityStops != 1 {
		t.Errorf("event counters = %d/%d/%d", r.YieldEvents, r.MergeEvents, r.ProximityStops)
	}
	if r.Vehicles != 6 || r.PendingMessages != 2 {
		t.Errorf("world counts = %d/%d", r.Vehicles, r.PendingMessages)
	}
}

func TestRecorderSummary(t *testing.T) {
	r := New()
	r.RecordMessagesSent(10)
	r.RecordVehicleArrived()

	summary := r.Summary()
	for _, want := range []string{"sent=10", "arrived=1", "yields=0"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary %q missing %q", summary, want)
		}
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RecordMessagesSent(1)
				r.RecordYield()
			}
		}()
	}
	wg.Wait()

	if r.MessagesSent != 1000 || r.YieldEvents != 1000 {
		t.Errorf("counters = %d/%d, want 1000/1000", r.MessagesSent, r.YieldEvents)
	}
}
