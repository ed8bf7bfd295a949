package core

// Simulation defaults. Scenario files and flags override these per
// vehicle or per run.
const (
	DefaultDt = 0.1 // seconds per tick

	DefaultMaxSpeed          = 5.0
	DefaultPreferredSpeed    = 4.0
	DefaultAcceleration      = 2.0
	DefaultDeceleration      = 3.0
	DefaultAggressiveness    = 0.5
	DefaultTrajectoryHorizon = 10

	DefaultBroadcastRadius = 50.0
	DefaultLatency         = 0.0
	DefaultPacketDropRate  = 0.0

	DefaultSafetyBuffer      = 2.0
	DefaultPredictionHorizon = 10

	DefaultWaypointThreshold = 0.5
	DefaultMaxTurnRate       = 0.15 // radians per step
)

// Config is the configuration surface the world consumes at
// construction.
type Config struct {
	// UseV2V enables intent broadcasting and conflict resolution. With
	// it disabled every vehicle runs on local path following only.
	UseV2V bool

	BroadcastRadius float64
	Latency         float64 // seconds of simulated delivery delay
	PacketDropRate  float64 // in [0, 1]

	SafetyBuffer      float64
	PredictionHorizon int

	Dt                float64
	MaxTurnRate       float64
	WaypointThreshold float64

	// Seed feeds the packet-drop sampling so runs are reproducible.
	Seed int64
}

// DefaultConfig returns the standard configuration with V2V enabled.
func DefaultConfig() Config {
	return Config{
		UseV2V:            true,
		BroadcastRadius:   DefaultBroadcastRadius,
		Latency:           DefaultLatency,
		PacketDropRate:    DefaultPacketDropRate,
		SafetyBuffer:      DefaultSafetyBuffer,
		PredictionHorizon: DefaultPredictionHorizon,
		Dt:                DefaultDt,
		MaxTurnRate:       DefaultMaxTurnRate,
		WaypointThreshold: DefaultWaypointThreshold,
	}
}
