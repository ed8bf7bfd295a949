package core

import "math"

// steerEpsilon short-circuits steering when the waypoint is close
// enough that the bearing is numerically meaningless.
const steerEpsilon = 1e-9

// Controller is the per-vehicle path-following controller: it advances
// the waypoint cursor, steers the heading toward the next waypoint
// under a bounded turn rate, and manages speed around the yield state.
type Controller struct {
	WaypointThreshold float64
	MaxTurnRate       float64 // radians per step
}

// NewController builds a controller with the default thresholds.
func NewController() *Controller {
	return &Controller{
		WaypointThreshold: DefaultWaypointThreshold,
		MaxTurnRate:       DefaultMaxTurnRate,
	}
}

// Update drives one control step for the vehicle. With a live waypoint
// the vehicle steers toward it and accelerates unless it is yielding;
// yielding vehicles settle at half their preferred speed until the
// resolver releases them. With the path exhausted the vehicle brakes to
// a standstill and declares Stop.
func (c *Controller) Update(v *Vehicle, dt float64) {
	if v.ReachedWaypoint(c.WaypointThreshold) {
		v.AdvancePath(c.WaypointThreshold)
	}

	wp, ok := v.NextWaypoint()
	if !ok {
		v.Decelerate(dt, 0)
		if v.Speed < 0.1 {
			v.Stop()
		}
		return
	}

	c.steer(v, wp)

	if v.Yielding {
		v.Decelerate(dt, v.PreferredSpeed*0.5)
	} else {
		v.Accelerate(dt)
	}
}

// steer rotates the heading toward the waypoint, clamped to the turn
// rate, keeping it normalized to [0, 2π).
func (c *Controller) steer(v *Vehicle, wp Vec2) {
	d := wp.Sub(v.Pos)
	if d.Norm() < steerEpsilon {
		return
	}
	targetHeading := math.Atan2(d.Y, d.X)
	turn := Clamp(AngleDifference(v.Heading, targetHeading), -c.MaxTurnRate, c.MaxTurnRate)
	v.Heading = NormalizeAngle(v.Heading + turn)
}
