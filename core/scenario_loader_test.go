package core

import (
	"math"
	"strings"
	"testing"
)

func TestLoadScenario_Valid(t *testing.T) {
	specs, err := LoadScenario(strings.NewReader(`{
	  "vehicles": [
	    {"id": 1, "spawn_x": 0, "spawn_y": 0, "destination_x": 10, "destination_y": 0},
	    {"id": 2, "spawn_x": 5, "spawn_y": 5, "initial_speed": 2.5, "destination_x": 0, "destination_y": 0}
	  ]
	}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0].InitialSpeed != nil {
		t.Errorf("absent optional field decoded as %v", *specs[0].InitialSpeed)
	}
	if specs[1].InitialSpeed == nil || *specs[1].InitialSpeed != 2.5 {
		t.Errorf("initial_speed not decoded")
	}
}

func TestLoadScenario_Malformed(t *testing.T) {
	if _, err := LoadScenario(strings.NewReader(`{"vehicles": [}`)); err == nil {
		t.Errorf("expected error for malformed JSON")
	}
}

func TestNewVehicleFromSpec_Defaults(t *testing.T) {
	v, dest := NewVehicleFromSpec(VehicleSpec{
		ID: 4, SpawnX: 1, SpawnY: 2, DestinationX: 9, DestinationY: 8,
	})

	if v.ID != 4 || v.Pos != (Vec2{X: 1, Y: 2}) {
		t.Errorf("identity = %d %+v", v.ID, v.Pos)
	}
	if dest != (Vec2{X: 9, Y: 8}) {
		t.Errorf("destination = %+v", dest)
	}
	if v.Heading != 0 || v.Speed != 0 {
		t.Errorf("heading/speed = %v/%v, want zero defaults", v.Heading, v.Speed)
	}
	if v.PreferredSpeed != DefaultPreferredSpeed || v.Aggressiveness != DefaultAggressiveness {
		t.Errorf("behavior defaults = %v/%v", v.PreferredSpeed, v.Aggressiveness)
	}
}

func TestNewVehicleFromSpec_NormalizesAndClamps(t *testing.T) {
	heading := -math.Pi / 2
	speed := 100.0
	v, _ := NewVehicleFromSpec(VehicleSpec{
		ID: 1, InitialHeading: &heading, InitialSpeed: &speed,
	})

	if math.Abs(v.Heading-3*math.Pi/2) > 1e-12 {
		t.Errorf("heading = %v, want normalized 3π/2", v.Heading)
	}
	if v.Speed != v.MaxSpeed {
		t.Errorf("speed = %v, want clamp to %v", v.Speed, v.MaxSpeed)
	}
}
