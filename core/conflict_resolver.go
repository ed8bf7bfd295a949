package core

import "math"

const (
	// collisionWindow is the time-to-collision threshold below which a
	// predicted conflict demands a yield decision, in simulated seconds.
	collisionWindow = 2.0

	// yieldReleaseFactor scales the safety buffer into the distance a
	// threat must recede to before a yielding vehicle resumes Straight
	// intent. The margin keeps vehicles from oscillating right at the
	// yield/resume boundary.
	yieldReleaseFactor = 3.0

	// proximityFactor scales the safety buffer into the hard standoff
	// distance that forces an emergency stop.
	proximityFactor = 1.5

	intersectionSlowdown = 0.4
	mergeSlowdown        = 0.6

	// mergeHeadingWindow classifies a conflict as a merge: senders whose
	// heading is within this angle of the receiver's are converging into
	// the same stream rather than crossing it.
	mergeHeadingWindow = math.Pi / 4
)

// ConflictResolver turns the intent messages a vehicle received this
// tick into yield decisions. It never returns errors and treats an
// empty message set as "no known conflicts": with no network data the
// vehicle simply proceeds under local path following.
type ConflictResolver struct {
	SafetyBuffer      float64
	PredictionHorizon int
}

// NewConflictResolver builds a resolver with the given safety buffer
// and prediction horizon.
func NewConflictResolver(safetyBuffer float64, predictionHorizon int) *ConflictResolver {
	return &ConflictResolver{
		SafetyBuffer:      safetyBuffer,
		PredictionHorizon: predictionHorizon,
	}
}

// PredictCollisionWithMessage computes the time to collision between
// the vehicle's predicted trajectory and a received message. The
// sender's transmitted trajectory is preferred, truncated to the
// resolver's horizon; without one, a synthetic constant-velocity
// projection from the message's position and velocity stands in.
// Returns +Inf when no collision is predicted within the horizon.
func (r *ConflictResolver) PredictCollisionWithMessage(v *Vehicle, msg IntentMessage, dt float64) float64 {
	tp := TrajectoryPredictor{Horizon: r.PredictionHorizon, Dt: dt}
	own := v.ComputeTrajectory(dt, r.PredictionHorizon)

	other := msg.PlannedTrajectory
	if len(other) == 0 {
		other = tp.ConstantVelocity(msg.Position, msg.Velocity)
	} else if len(other) > r.PredictionHorizon {
		other = other[:r.PredictionHorizon]
	}

	return tp.TimeToCollision(own, other, r.SafetyBuffer)
}

// ShouldYield scans the received messages for the closest predicted
// conflict inside the collision window and applies deterministic
// right-of-way: the vehicle with the numerically larger ID yields to
// the smaller. Returns whether to yield and the sender to yield to.
func (r *ConflictResolver) ShouldYield(v *Vehicle, msgs []IntentMessage, dt float64) (bool, int) {
	minTTC := math.Inf(1)
	closest := NoYieldTarget
	for _, msg := range msgs {
		ttc := r.PredictCollisionWithMessage(v, msg, dt)
		if ttc < collisionWindow && ttc < minTTC {
			minTTC = ttc
			closest = msg.SenderID
		}
	}
	if closest != NoYieldTarget && v.ID > closest {
		return true, closest
	}
	return false, NoYieldTarget
}

// ResolveIntersectionConflict enters or leaves the yield state for
// crossing conflicts. A vehicle that must yield declares Yield intent
// and brakes toward a fraction of its preferred speed. A vehicle
// already yielding holds that state until the threat's reported
// position recedes past yieldReleaseFactor times the safety buffer; if
// the threat sent nothing this tick the state is left untouched, so a
// yield can outlive its trigger under packet loss.
func (r *ConflictResolver) ResolveIntersectionConflict(v *Vehicle, msgs []IntentMessage, dt float64) {
	mustYield, target := r.ShouldYield(v, msgs, dt)
	if mustYield {
		v.Yielding = true
		v.YieldTarget = target
		v.Intent = IntentYield
		v.Decelerate(dt, v.PreferredSpeed*intersectionSlowdown)
		return
	}

	if !v.Yielding || v.YieldTarget == NoYieldTarget {
		return
	}
	for _, msg := range msgs {
		if msg.SenderID != v.YieldTarget {
			continue
		}
		if v.Pos.DistanceTo(msg.Position) > r.SafetyBuffer*yieldReleaseFactor {
			v.Yielding = false
			v.YieldTarget = NoYieldTarget
			v.Intent = IntentStraight
		}
		return
	}
}

// ResolveMergeConflict runs the same yield decision restricted to
// merge-type conflicts: messages from senders that declare Merge intent
// or whose heading converges with the receiver's. It runs after the
// intersection pass and may overwrite its verdict for merge geometry;
// that ordering is part of the tick contract.
func (r *ConflictResolver) ResolveMergeConflict(v *Vehicle, msgs []IntentMessage, dt float64) {
	var merging []IntentMessage
	for _, msg := range msgs {
		if msg.Intent == IntentMerge ||
			math.Abs(AngleDifference(v.Heading, msg.Heading)) < mergeHeadingWindow {
			merging = append(merging, msg)
		}
	}

	mustYield, target := r.ShouldYield(v, merging, dt)
	if mustYield {
		v.Yielding = true
		v.YieldTarget = target
		v.Intent = IntentMerge
		v.Decelerate(dt, v.PreferredSpeed*mergeSlowdown)
		return
	}

	if v.Intent == IntentMerge {
		v.Yielding = false
		v.YieldTarget = NoYieldTarget
		v.Intent = IntentStraight
	}
}

// CheckProximityCollision is the order-independent safety net: any
// reported position inside proximityFactor times the safety buffer
// forces an emergency stop regardless of what the earlier passes
// decided. A stale Stop clears back to Straight once the vehicle is no
// longer crowded and not yielding.
func (r *ConflictResolver) CheckProximityCollision(v *Vehicle, msgs []IntentMessage, dt float64) {
	for _, msg := range msgs {
		if v.Pos.DistanceTo(msg.Position) < r.SafetyBuffer*proximityFactor {
			v.Decelerate(dt, 0)
			v.Intent = IntentStop
			return
		}
	}
	if v.Intent == IntentStop && !v.Yielding {
		v.Intent = IntentStraight
	}
}
