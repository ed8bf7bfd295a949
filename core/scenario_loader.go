package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// VehicleSpec is the vehicle-construction contract consumed from
// scenario files. Optional fields fall back to documented defaults:
// heading 0, speed 0, preferred speed 4.0, aggressiveness 0.5.
type VehicleSpec struct {
	ID             int      `json:"id"`
	SpawnX         float64  `json:"spawn_x"`
	SpawnY         float64  `json:"spawn_y"`
	InitialHeading *float64 `json:"initial_heading"`
	InitialSpeed   *float64 `json:"initial_speed"`
	PreferredSpeed *float64 `json:"preferred_speed"`
	Aggressiveness *float64 `json:"aggressiveness"`
	DestinationX   float64  `json:"destination_x"`
	DestinationY   float64  `json:"destination_y"`
}

type scenarioJSON struct {
	Vehicles []VehicleSpec `json:"vehicles"`
}

// LoadScenario reads vehicle descriptors from r. It fails only on
// structural errors; field defaults are applied at vehicle
// construction.
func LoadScenario(r io.Reader) ([]VehicleSpec, error) {
	var payload scenarioJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}
	return payload.Vehicles, nil
}

// NewVehicleFromSpec constructs a vehicle from a scenario descriptor,
// applying defaults for absent optional fields. The destination is
// returned separately; the caller hands it to World.AddVehicle so the
// initial path is planned against the world's graph.
func NewVehicleFromSpec(spec VehicleSpec) (*Vehicle, Vec2) {
	v := NewVehicle(spec.ID, spec.SpawnX, spec.SpawnY)
	if spec.InitialHeading != nil {
		v.Heading = NormalizeAngle(*spec.InitialHeading)
	}
	if spec.InitialSpeed != nil {
		v.Speed = Clamp(*spec.InitialSpeed, 0, v.MaxSpeed)
	}
	if spec.PreferredSpeed != nil {
		v.PreferredSpeed = *spec.PreferredSpeed
	}
	if spec.Aggressiveness != nil {
		v.Aggressiveness = *spec.Aggressiveness
	}
	return v, Vec2{X: spec.DestinationX, Y: spec.DestinationY}
}
