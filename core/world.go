package core

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/safewaylabs/safeway-sim/internal/logging"
)

// MetricsRecorder receives simulation events as they happen. The world
// pushes events through this interface so aggregation stays outside the
// core; observability backends and plain in-memory counters both
// implement it.
type MetricsRecorder interface {
	RecordMessagesSent(n int)
	RecordMessagesDropped(n int)
	RecordMessagesDelivered(n int)
	RecordYield()
	RecordMerge()
	RecordProximityStop()
	RecordVehicleArrived()
	SetWorldCounts(vehicles, pendingMessages int)
}

type noopRecorder struct{}

func (noopRecorder) RecordMessagesSent(int)      {}
func (noopRecorder) RecordMessagesDropped(int)   {}
func (noopRecorder) RecordMessagesDelivered(int) {}
func (noopRecorder) RecordYield()                {}
func (noopRecorder) RecordMerge()                {}
func (noopRecorder) RecordProximityStop()        {}
func (noopRecorder) RecordVehicleArrived()       {}
func (noopRecorder) SetWorldCounts(int, int)     {}

// Option customizes world construction.
type Option func(*World)

// WithLogger attaches a structured logger to the world.
func WithLogger(log logging.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithMetricsRecorder attaches a metrics recorder to the world.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(w *World) {
		if rec != nil {
			w.recorder = rec
		}
	}
}

// World owns every simulation entity and drives the fixed-step tick:
// trajectory prediction, the network round, conflict resolution, path
// following, and motion integration, strictly in that order. It is
// single-threaded by design; nothing in a tick observes another
// vehicle's post-integration state.
type World struct {
	graph      *RoadGraph
	cfg        Config
	vehicles   map[int]*Vehicle
	ids        []int // sorted, fixes per-tick iteration order
	planner    *PathPlanner
	resolver   *ConflictResolver
	controller *Controller
	network    *NetworkSimulator

	time      float64
	tickCount uint64
	arrived   map[int]bool

	log      logging.Logger
	recorder MetricsRecorder
}

// NewWorld builds a world around an already-validated road graph.
func NewWorld(graph *RoadGraph, cfg Config, opts ...Option) *World {
	rng := rand.New(rand.NewSource(cfg.Seed))
	w := &World{
		graph:    graph,
		cfg:      cfg,
		vehicles: make(map[int]*Vehicle),
		planner:  NewPathPlanner(graph),
		resolver: NewConflictResolver(cfg.SafetyBuffer, cfg.PredictionHorizon),
		controller: &Controller{
			WaypointThreshold: cfg.WaypointThreshold,
			MaxTurnRate:       cfg.MaxTurnRate,
		},
		network:  NewNetworkSimulator(cfg.BroadcastRadius, cfg.Latency, cfg.PacketDropRate, rng),
		arrived:  make(map[int]bool),
		log:      logging.Noop(),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddVehicle registers a vehicle, aligns its trajectory horizon with
// the world's prediction horizon, and, when a destination is given,
// plans its initial path. A vehicle whose destination is unreachable is
// still added; it simply idles in place and never counts as arrived.
func (w *World) AddVehicle(v *Vehicle, destination *Vec2) error {
	if v == nil {
		return fmt.Errorf("world: nil vehicle")
	}
	if _, ok := w.vehicles[v.ID]; ok {
		return fmt.Errorf("world: duplicate vehicle id %d", v.ID)
	}
	if w.cfg.PredictionHorizon > 0 {
		v.TrajectoryHorizon = w.cfg.PredictionHorizon
	}
	w.vehicles[v.ID] = v
	i := sort.SearchInts(w.ids, v.ID)
	w.ids = append(w.ids, 0)
	copy(w.ids[i+1:], w.ids[i:])
	w.ids[i] = v.ID

	if destination != nil {
		d := *destination
		v.Destination = &d
		path := w.planner.FindPath(v.Pos, d)
		if len(path) == 0 {
			w.log.Warn(context.Background(), "no path to destination, vehicle will idle",
				logging.Int("vehicle_id", v.ID))
		} else {
			v.SetPath(path)
		}
	}
	return nil
}

// Tick advances the simulation by one fixed step. The phase order is a
// contract: trajectories and intent messages reflect the start-of-tick
// state, and positions integrate last.
func (w *World) Tick() {
	w.tickCount++
	w.time += w.cfg.Dt
	w.network.AdvanceTime(w.cfg.Dt)

	for _, id := range w.ids {
		w.vehicles[id].UpdateTrajectory(w.cfg.Dt)
	}

	if w.cfg.UseV2V {
		w.exchangeIntents()
	}

	for _, id := range w.ids {
		w.updateVehicle(w.vehicles[id])
	}

	for _, id := range w.ids {
		w.vehicles[id].UpdatePosition(w.cfg.Dt)
	}

	w.recorder.SetWorldCounts(len(w.ids), w.network.PendingCount())
}

// exchangeIntents runs one network round: every vehicle broadcasts a
// snapshot of its start-of-tick state, then each vehicle drains its
// delivery queue and feeds the batch through the three resolver passes
// in fixed order.
func (w *World) exchangeIntents() {
	poses := make([]VehiclePose, 0, len(w.ids))
	for _, id := range w.ids {
		poses = append(poses, VehiclePose{ID: id, Pos: w.vehicles[id].Pos})
	}

	for _, id := range w.ids {
		v := w.vehicles[id]
		sent, dropped := w.network.Broadcast(NewIntentMessage(v, w.time), v.Pos, poses)
		w.recorder.RecordMessagesSent(sent)
		w.recorder.RecordMessagesDropped(dropped)
	}

	for _, id := range w.ids {
		v := w.vehicles[id]
		msgs := w.network.MessagesFor(id)
		if len(msgs) == 0 {
			continue
		}
		w.recorder.RecordMessagesDelivered(len(msgs))

		before := v.Intent
		w.resolver.ResolveIntersectionConflict(v, msgs, w.cfg.Dt)
		w.resolver.ResolveMergeConflict(v, msgs, w.cfg.Dt)
		w.resolver.CheckProximityCollision(v, msgs, w.cfg.Dt)
		w.recordIntentTransition(v, before)
	}
}

func (w *World) recordIntentTransition(v *Vehicle, before Intent) {
	if v.Intent == before {
		return
	}
	switch v.Intent {
	case IntentYield:
		w.recorder.RecordYield()
	case IntentMerge:
		w.recorder.RecordMerge()
	case IntentStop:
		w.recorder.RecordProximityStop()
	}
	w.log.Debug(context.Background(), "intent changed",
		logging.Int("vehicle_id", v.ID),
		logging.String("from", string(before)),
		logging.String("to", string(v.Intent)),
		logging.Int("yield_target", v.YieldTarget))
}

func (w *World) updateVehicle(v *Vehicle) {
	w.controller.Update(v, w.cfg.Dt)

	if w.arrived[v.ID] || v.Destination == nil || len(v.Path) == 0 {
		return
	}
	if _, ok := v.NextWaypoint(); !ok && v.Speed == 0 {
		w.arrived[v.ID] = true
		w.recorder.RecordVehicleArrived()
		w.log.Info(context.Background(), "vehicle arrived",
			logging.Int("vehicle_id", v.ID),
			logging.Float64("time", w.time))
	}
}

// NearbyIntents returns fresh snapshots of every peer currently within
// broadcast range of the given vehicle. Renderers use it to show
// potential connectivity; it reads the same range the network uses but
// bypasses latency and loss, and works identically in baseline mode.
func (w *World) NearbyIntents(vehicleID int) []IntentMessage {
	v, ok := w.vehicles[vehicleID]
	if !ok {
		return nil
	}
	var nearby []IntentMessage
	for _, id := range w.ids {
		if id == vehicleID {
			continue
		}
		other := w.vehicles[id]
		if v.Pos.DistanceTo(other.Pos) <= w.cfg.BroadcastRadius {
			nearby = append(nearby, NewIntentMessage(other, w.time))
		}
	}
	return nearby
}

// Vehicle returns the live vehicle state for an id.
func (w *World) Vehicle(id int) (*Vehicle, bool) {
	v, ok := w.vehicles[id]
	return v, ok
}

// VehicleIDs returns the vehicle ids in ascending order. The returned
// slice is owned by the world.
func (w *World) VehicleIDs() []int { return w.ids }

// Graph returns the world's road graph.
func (w *World) Graph() *RoadGraph { return w.graph }

// Network returns the network simulator, mainly for inspection.
func (w *World) Network() *NetworkSimulator { return w.network }

// Time returns the current simulated time in seconds.
func (w *World) Time() float64 { return w.time }

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 { return w.tickCount }

// Config returns the configuration the world was built with.
func (w *World) Config() Config { return w.cfg }
