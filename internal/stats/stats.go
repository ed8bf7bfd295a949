// Package stats tracks in-memory counters for a simulation run. It is
// the lightweight recorder used by headless runs; servers use the
// Prometheus collector in internal/observability instead.
package stats

import (
	"fmt"
	"sync"
)

// Recorder aggregates simulation events. All methods are
// concurrency-safe, although the world only calls them from its
// single-threaded tick loop.
type Recorder struct {
	mu sync.Mutex

	MessagesSent      int
	MessagesDropped   int
	MessagesDelivered int

	YieldEvents     int
	MergeEvents     int
	ProximityStops  int
	VehiclesArrived int

	Vehicles        int
	PendingMessages int
}

// New creates a Recorder with all counters at zero.
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordMessagesSent(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MessagesSent += n
}

func (r *Recorder) RecordMessagesDropped(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MessagesDropped += n
}

func (r *Recorder) RecordMessagesDelivered(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MessagesDelivered += n
}

func (r *Recorder) RecordYield() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.YieldEvents++
}

func (r *Recorder) RecordMerge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MergeEvents++
}

func (r *Recorder) RecordProximityStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProximityStops++
}

func (r *Recorder) RecordVehicleArrived() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.VehiclesArrived++
}

func (r *Recorder) SetWorldCounts(vehicles, pendingMessages int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Vehicles = vehicles
	r.PendingMessages = pendingMessages
}

// Summary renders the counters as a single human-readable line for
// end-of-run reporting.
func (r *Recorder) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf(
		"vehicles=%d arrived=%d yields=%d merges=%d proximity_stops=%d messages sent=%d delivered=%d dropped=%d pending=%d",
		r.Vehicles, r.VehiclesArrived, r.YieldEvents, r.MergeEvents, r.ProximityStops,
		r.MessagesSent, r.MessagesDelivered, r.MessagesDropped, r.PendingMessages,
	)
}
