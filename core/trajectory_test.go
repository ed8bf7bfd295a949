package core

import (
	"math"
	"testing"
)

func TestConstantVelocity_StepsForward(t *testing.T) {
	tp := NewTrajectoryPredictor(3, 0.5)
	traj := tp.ConstantVelocity(Vec2{X: 0, Y: 0}, Vec2{X: 2, Y: 0})

	if len(traj) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(traj))
	}
	want := []Vec2{{1, 0}, {2, 0}, {3, 0}}
	for i := range want {
		if traj[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, traj[i], want[i])
		}
	}
}

func TestConstantAcceleration_IntegratesVelocity(t *testing.T) {
	tp := NewTrajectoryPredictor(2, 1.0)
	traj := tp.ConstantAcceleration(Vec2{}, Vec2{X: 1, Y: 0}, Vec2{X: 2, Y: 0})

	// Step 1: x = 1*1 + 0.5*2*1 = 2, v becomes 3.
	// Step 2: x = 2 + 3*1 + 0.5*2*1 = 6.
	if traj[0].X != 2 {
		t.Errorf("first sample x = %v, want 2", traj[0].X)
	}
	if traj[1].X != 6 {
		t.Errorf("second sample x = %v, want 6", traj[1].X)
	}
}

func TestTimeToCollision_FirstConflictIndex(t *testing.T) {
	tp := NewTrajectoryPredictor(10, 0.1)

	// Two vehicles approaching head on at 5 units/s each close 1 unit
	// per 0.1s sample; starting 4 apart they breach a 2-unit radius at
	// the third sample (separation 2 is not a breach, 1 is).
	a := tp.ConstantVelocity(Vec2{X: 0, Y: 0}, Vec2{X: 5, Y: 0})
	b := tp.ConstantVelocity(Vec2{X: 4, Y: 0}, Vec2{X: -5, Y: 0})

	ttc := tp.TimeToCollision(a, b, 2.0)
	if math.Abs(ttc-0.2) > 1e-12 {
		t.Errorf("ttc = %v, want 0.2", ttc)
	}
}

func TestTimeToCollision_NoConflict(t *testing.T) {
	tp := NewTrajectoryPredictor(10, 0.1)
	a := tp.ConstantVelocity(Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0})
	b := tp.ConstantVelocity(Vec2{X: 0, Y: 100}, Vec2{X: 1, Y: 0})

	if ttc := tp.TimeToCollision(a, b, 2.0); !math.IsInf(ttc, 1) {
		t.Errorf("expected +Inf for parallel distant trajectories, got %v", ttc)
	}
}

func TestTimeToCollision_StopsAtShorterTrajectory(t *testing.T) {
	tp := NewTrajectoryPredictor(10, 0.1)
	a := tp.ConstantVelocity(Vec2{X: 0, Y: 0}, Vec2{X: 5, Y: 0})
	b := []Vec2{{100, 0}} // one sample, far away

	if ttc := tp.TimeToCollision(a, b, 2.0); !math.IsInf(ttc, 1) {
		t.Errorf("expected +Inf when the overlap never conflicts, got %v", ttc)
	}
}
