package core

// VehicleSnapshot is a read-only copy of one vehicle's renderable
// state.
type VehicleSnapshot struct {
	ID                int     `json:"id"`
	Position          Vec2    `json:"position"`
	Heading           float64 `json:"heading"`
	Speed             float64 `json:"speed"`
	Intent            Intent  `json:"intent"`
	Yielding          bool    `json:"yielding"`
	YieldTarget       int     `json:"yield_target"`
	PathIndex         int     `json:"path_index"`
	Path              []Vec2  `json:"path,omitempty"`
	PlannedTrajectory []Vec2  `json:"planned_trajectory,omitempty"`
}

// WorldSnapshot is the per-tick view the core exposes to renderers.
type WorldSnapshot struct {
	Time     float64           `json:"time"`
	Tick     uint64            `json:"tick"`
	Vehicles []VehicleSnapshot `json:"vehicles"`
}

// Snapshot copies the current world state for external consumers.
// Slices are copied so the caller can hold the snapshot across ticks.
func (w *World) Snapshot() WorldSnapshot {
	snap := WorldSnapshot{
		Time:     w.time,
		Tick:     w.tickCount,
		Vehicles: make([]VehicleSnapshot, 0, len(w.ids)),
	}
	for _, id := range w.ids {
		v := w.vehicles[id]
		vs := VehicleSnapshot{
			ID:          v.ID,
			Position:    v.Pos,
			Heading:     v.Heading,
			Speed:       v.Speed,
			Intent:      v.Intent,
			Yielding:    v.Yielding,
			YieldTarget: v.YieldTarget,
			PathIndex:   v.PathIndex(),
		}
		if len(v.Path) > 0 {
			vs.Path = append([]Vec2(nil), v.Path...)
		}
		if len(v.PlannedTrajectory) > 0 {
			vs.PlannedTrajectory = append([]Vec2(nil), v.PlannedTrajectory...)
		}
		snap.Vehicles = append(snap.Vehicles, vs)
	}
	return snap
}
