package core

import "math"

// Intent is a vehicle's declared near-term maneuver class, broadcast to
// peers and consumed uniformly by the conflict resolver and renderers.
type Intent string

const (
	IntentStraight Intent = "straight"
	IntentLeft     Intent = "left"
	IntentRight    Intent = "right"
	IntentYield    Intent = "yield"
	IntentMerge    Intent = "merge"
	IntentStop     Intent = "stop"
)

// NoYieldTarget marks a vehicle that is not yielding to anyone.
// Vehicle IDs are non-negative.
const NoYieldTarget = -1

// Vehicle is the kinematic state of a single agent. It is created at
// scenario load and mutated every tick by the trajectory update,
// conflict resolution, and motion integration; vehicles that reach
// their destination simply stop, they are never removed.
type Vehicle struct {
	ID int

	Pos     Vec2
	Heading float64 // radians, always in [0, 2π)
	Speed   float64 // units per second, never above MaxSpeed

	MaxSpeed     float64
	Acceleration float64
	Deceleration float64

	PreferredSpeed float64
	Aggressiveness float64 // 0.0 cautious .. 1.0 aggressive

	Destination *Vec2
	Path        []Vec2
	pathIndex   int

	Intent            Intent
	PlannedTrajectory []Vec2
	TrajectoryHorizon int

	Yielding    bool
	YieldTarget int
}

// NewVehicle creates a vehicle at the given position with the default
// kinematic limits and behavior parameters.
func NewVehicle(id int, x, y float64) *Vehicle {
	return &Vehicle{
		ID:                id,
		Pos:               Vec2{X: x, Y: y},
		MaxSpeed:          DefaultMaxSpeed,
		Acceleration:      DefaultAcceleration,
		Deceleration:      DefaultDeceleration,
		PreferredSpeed:    DefaultPreferredSpeed,
		Aggressiveness:    DefaultAggressiveness,
		Intent:            IntentStraight,
		TrajectoryHorizon: DefaultTrajectoryHorizon,
		YieldTarget:       NoYieldTarget,
	}
}

// Velocity returns the velocity vector derived from heading and speed.
func (v *Vehicle) Velocity() Vec2 {
	return Vec2{
		X: v.Speed * math.Cos(v.Heading),
		Y: v.Speed * math.Sin(v.Heading),
	}
}

// SetVelocity derives speed and heading from a velocity vector. Speed
// is clamped to MaxSpeed and a zero vector leaves the heading alone.
func (v *Vehicle) SetVelocity(vel Vec2) {
	speed := vel.Norm()
	if speed > 0 {
		v.Heading = NormalizeAngle(math.Atan2(vel.Y, vel.X))
	}
	v.Speed = math.Min(speed, v.MaxSpeed)
}

// SetPath replaces the planned path wholesale and resets the waypoint
// cursor. The path is owned by the vehicle afterwards.
func (v *Vehicle) SetPath(path []Vec2) {
	v.Path = path
	v.pathIndex = 0
}

// NextWaypoint returns the waypoint under the cursor, or false when the
// path is exhausted or absent.
func (v *Vehicle) NextWaypoint() (Vec2, bool) {
	if v.pathIndex < len(v.Path) {
		return v.Path[v.pathIndex], true
	}
	return Vec2{}, false
}

// PathIndex returns the current waypoint cursor. It only ever moves
// forward within a path's lifetime.
func (v *Vehicle) PathIndex() int { return v.pathIndex }

// ReachedWaypoint reports whether the vehicle is within threshold of
// the waypoint under the cursor. An exhausted path counts as reached.
func (v *Vehicle) ReachedWaypoint(threshold float64) bool {
	wp, ok := v.NextWaypoint()
	if !ok {
		return true
	}
	return v.Pos.DistanceTo(wp) < threshold
}

// AdvancePath moves the cursor past the current waypoint once it has
// been reached.
func (v *Vehicle) AdvancePath(threshold float64) {
	if v.ReachedWaypoint(threshold) && v.pathIndex < len(v.Path) {
		v.pathIndex++
	}
}

// ComputeTrajectory predicts the vehicle's positions for the next steps
// ticks under a constant-velocity assumption.
func (v *Vehicle) ComputeTrajectory(dt float64, steps int) []Vec2 {
	if steps <= 0 {
		steps = v.TrajectoryHorizon
	}
	tp := TrajectoryPredictor{Horizon: steps, Dt: dt}
	return tp.ConstantVelocity(v.Pos, v.Velocity())
}

// UpdateTrajectory recomputes the planned trajectory the vehicle will
// broadcast this tick.
func (v *Vehicle) UpdateTrajectory(dt float64) {
	v.PlannedTrajectory = v.ComputeTrajectory(dt, v.TrajectoryHorizon)
}

// Accelerate moves speed toward the preferred speed, bounded by the
// acceleration limit and MaxSpeed.
func (v *Vehicle) Accelerate(dt float64) {
	if v.Speed < v.PreferredSpeed {
		v.Speed = math.Min(math.Min(v.Speed+v.Acceleration*dt, v.PreferredSpeed), v.MaxSpeed)
	}
}

// Decelerate moves speed down toward targetSpeed, bounded by the
// deceleration limit.
func (v *Vehicle) Decelerate(dt, targetSpeed float64) {
	if v.Speed > targetSpeed {
		v.Speed = math.Max(v.Speed-v.Deceleration*dt, targetSpeed)
	}
}

// Stop halts the vehicle.
func (v *Vehicle) Stop() {
	v.Speed = 0
	v.Intent = IntentStop
}

// UpdatePosition integrates the position by the current velocity.
func (v *Vehicle) UpdatePosition(dt float64) {
	vel := v.Velocity()
	v.Pos.X += vel.X * dt
	v.Pos.Y += vel.Y * dt
}
