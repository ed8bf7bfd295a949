package core

import "math"

// TrajectoryPredictor forward-integrates vehicle motion at a fixed time
// step to produce the short planned trajectories used for collision
// prediction.
type TrajectoryPredictor struct {
	Horizon int
	Dt      float64
}

// NewTrajectoryPredictor builds a predictor with the given horizon
// (number of future samples) and integration step.
func NewTrajectoryPredictor(horizon int, dt float64) *TrajectoryPredictor {
	return &TrajectoryPredictor{Horizon: horizon, Dt: dt}
}

// ConstantVelocity predicts Horizon future positions assuming the
// velocity stays fixed.
func (tp *TrajectoryPredictor) ConstantVelocity(pos, vel Vec2) []Vec2 {
	trajectory := make([]Vec2, 0, tp.Horizon)
	p := pos
	for i := 0; i < tp.Horizon; i++ {
		p.X += vel.X * tp.Dt
		p.Y += vel.Y * tp.Dt
		trajectory = append(trajectory, p)
	}
	return trajectory
}

// ConstantAcceleration predicts Horizon future positions under a fixed
// acceleration, stepping position by v*dt + a*dt²/2 and velocity by
// a*dt each sample.
func (tp *TrajectoryPredictor) ConstantAcceleration(pos, vel, acc Vec2) []Vec2 {
	trajectory := make([]Vec2, 0, tp.Horizon)
	p := pos
	v := vel
	for i := 0; i < tp.Horizon; i++ {
		p.X += v.X*tp.Dt + 0.5*acc.X*tp.Dt*tp.Dt
		p.Y += v.Y*tp.Dt + 0.5*acc.Y*tp.Dt*tp.Dt
		v.X += acc.X * tp.Dt
		v.Y += acc.Y * tp.Dt
		trajectory = append(trajectory, p)
	}
	return trajectory
}

// TimeToCollision scans two trajectories index by index, stopping at
// the shorter one, and returns the first time at which the predicted
// positions come within safetyRadius of each other. It returns +Inf
// when the trajectories never conflict.
//
// The comparison is index-aligned, not interpolated: both trajectories
// must be sampled at the same dt starting from the same tick for the
// result to be meaningful.
func (tp *TrajectoryPredictor) TimeToCollision(trajA, trajB []Vec2, safetyRadius float64) float64 {
	steps := len(trajA)
	if len(trajB) < steps {
		steps = len(trajB)
	}
	for i := 0; i < steps; i++ {
		if trajA[i].DistanceTo(trajB[i]) < safetyRadius {
			return float64(i) * tp.Dt
		}
	}
	return math.Inf(1)
}
