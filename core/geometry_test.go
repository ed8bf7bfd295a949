package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizeAngle_Range(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{-4 * math.Pi, 0},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v, outside [0, 2π)", c.in, got)
		}
	}
}

func TestAngleDifference_ShortestRotation(t *testing.T) {
	// Crossing the 0/2π seam must take the short way round.
	diff := AngleDifference(0.1, 2*math.Pi-0.1)
	if math.Abs(diff-(-0.2)) > 1e-12 {
		t.Errorf("expected -0.2 across the seam, got %v", diff)
	}

	diff = AngleDifference(2*math.Pi-0.1, 0.1)
	if math.Abs(diff-0.2) > 1e-12 {
		t.Errorf("expected 0.2 across the seam, got %v", diff)
	}

	// Exactly opposite headings resolve to +π, not -π.
	diff = AngleDifference(0, math.Pi)
	if diff != math.Pi {
		t.Errorf("expected π for opposite headings, got %v", diff)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, -1, 1); got != 1 {
		t.Errorf("Clamp(5,-1,1) = %v, want 1", got)
	}
	if got := Clamp(-5, -1, 1); got != -1 {
		t.Errorf("Clamp(-5,-1,1) = %v, want -1", got)
	}
	if got := Clamp(0.5, -1, 1); got != 0.5 {
		t.Errorf("Clamp(0.5,-1,1) = %v, want 0.5", got)
	}
}

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: 1, Y: 2}

	if got := a.Add(b); got != (Vec2{X: 4, Y: 6}) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (Vec2{X: 2, Y: 2}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Scale(2); got != (Vec2{X: 6, Y: 8}) {
		t.Errorf("Scale = %+v", got)
	}
	if got := a.Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}
	if got := a.DistanceTo(Vec2{}); got != 5 {
		t.Errorf("DistanceTo origin = %v, want 5", got)
	}
}

func TestVec2_JSONWireShape(t *testing.T) {
	data, err := json.Marshal(Vec2{X: 1.5, Y: -2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[1.5,-2]" {
		t.Errorf("expected [1.5,-2] on the wire, got %s", data)
	}

	var v Vec2
	if err := json.Unmarshal([]byte("[7,8]"), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v != (Vec2{X: 7, Y: 8}) {
		t.Errorf("unmarshal = %+v", v)
	}

	if err := json.Unmarshal([]byte(`{"x":1}`), &v); err == nil {
		t.Errorf("expected error for object-shaped vector")
	}
}
