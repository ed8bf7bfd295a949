package core

import (
	"math"
	"testing"
)

func TestNewVehicle_Defaults(t *testing.T) {
	v := NewVehicle(7, 1, 2)
	if v.ID != 7 || v.Pos != (Vec2{X: 1, Y: 2}) {
		t.Errorf("identity = %d %+v", v.ID, v.Pos)
	}
	if v.MaxSpeed != DefaultMaxSpeed || v.PreferredSpeed != DefaultPreferredSpeed {
		t.Errorf("speed limits = %v/%v", v.MaxSpeed, v.PreferredSpeed)
	}
	if v.Intent != IntentStraight {
		t.Errorf("intent = %q, want straight", v.Intent)
	}
	if v.YieldTarget != NoYieldTarget {
		t.Errorf("yield target = %d, want %d", v.YieldTarget, NoYieldTarget)
	}
}

func TestVehicle_VelocityRoundTrip(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.Heading = math.Pi / 2
	v.Speed = 3

	vel := v.Velocity()
	if math.Abs(vel.X) > 1e-12 || math.Abs(vel.Y-3) > 1e-12 {
		t.Errorf("velocity = %+v, want (0, 3)", vel)
	}

	v.SetVelocity(Vec2{X: -2, Y: 0})
	if math.Abs(v.Heading-math.Pi) > 1e-12 {
		t.Errorf("heading = %v, want π", v.Heading)
	}
	if v.Speed != 2 {
		t.Errorf("speed = %v, want 2", v.Speed)
	}
}

func TestVehicle_SetVelocityClampsToMaxSpeed(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.SetVelocity(Vec2{X: 100, Y: 0})
	if v.Speed != v.MaxSpeed {
		t.Errorf("speed = %v, want clamp to %v", v.Speed, v.MaxSpeed)
	}
}

func TestVehicle_SetVelocityZeroKeepsHeading(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.Heading = 1.0
	v.SetVelocity(Vec2{})
	if v.Heading != 1.0 {
		t.Errorf("heading = %v, want unchanged 1.0", v.Heading)
	}
	if v.Speed != 0 {
		t.Errorf("speed = %v, want 0", v.Speed)
	}
}

func TestVehicle_AccelerateBoundedByPreferredSpeed(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	for i := 0; i < 100; i++ {
		v.Accelerate(0.1)
	}
	if v.Speed != v.PreferredSpeed {
		t.Errorf("speed = %v, want settle at preferred %v", v.Speed, v.PreferredSpeed)
	}
}

func TestVehicle_DecelerateTowardTarget(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.Speed = 4
	v.Decelerate(0.1, 2)
	// One step sheds Deceleration*dt = 0.3.
	if math.Abs(v.Speed-3.7) > 1e-12 {
		t.Errorf("speed = %v, want 3.7", v.Speed)
	}
	for i := 0; i < 100; i++ {
		v.Decelerate(0.1, 2)
	}
	if v.Speed != 2 {
		t.Errorf("speed = %v, want floor at 2", v.Speed)
	}
}

func TestVehicle_PathAdvancement(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.SetPath([]Vec2{{0.2, 0}, {10, 0}})

	if !v.ReachedWaypoint(0.5) {
		t.Fatalf("expected first waypoint within threshold")
	}
	v.AdvancePath(0.5)
	if v.PathIndex() != 1 {
		t.Errorf("path index = %d, want 1", v.PathIndex())
	}

	wp, ok := v.NextWaypoint()
	if !ok || wp != (Vec2{X: 10, Y: 0}) {
		t.Errorf("next waypoint = %+v %v", wp, ok)
	}

	// Far from the new waypoint: the cursor must not move.
	v.AdvancePath(0.5)
	if v.PathIndex() != 1 {
		t.Errorf("path index advanced without reaching waypoint")
	}
}

func TestVehicle_ExhaustedPath(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	if _, ok := v.NextWaypoint(); ok {
		t.Errorf("expected no waypoint without a path")
	}
	if !v.ReachedWaypoint(0.5) {
		t.Errorf("exhausted path must count as reached")
	}
}

func TestVehicle_UpdatePosition(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.Heading = 0
	v.Speed = 5
	v.UpdatePosition(0.1)
	if math.Abs(v.Pos.X-0.5) > 1e-12 || v.Pos.Y != 0 {
		t.Errorf("pos = %+v, want (0.5, 0)", v.Pos)
	}
}

func TestVehicle_UpdateTrajectory(t *testing.T) {
	v := NewVehicle(1, 0, 0)
	v.Speed = 1
	v.UpdateTrajectory(0.1)
	if len(v.PlannedTrajectory) != v.TrajectoryHorizon {
		t.Errorf("trajectory length = %d, want %d", len(v.PlannedTrajectory), v.TrajectoryHorizon)
	}
	if math.Abs(v.PlannedTrajectory[0].X-0.1) > 1e-12 {
		t.Errorf("first sample = %+v", v.PlannedTrajectory[0])
	}
}
