package core

// IntentMessage is the immutable snapshot a vehicle broadcasts each
// tick. Recipients consume it during conflict resolution and discard
// it; nothing is persisted.
//
// The JSON field order and the intent tags are part of the wire
// contract for external renderers and must not be reordered.
type IntentMessage struct {
	SenderID          int     `json:"sender_id"`
	Position          Vec2    `json:"position"`
	Velocity          Vec2    `json:"velocity"`
	Heading           float64 `json:"heading"`
	Speed             float64 `json:"speed"`
	Intent            Intent  `json:"intent"`
	PlannedTrajectory []Vec2  `json:"planned_trajectory"`
	Timestamp         float64 `json:"timestamp"`
}

// NewIntentMessage snapshots a vehicle's current state, copying the
// planned trajectory so later ticks cannot mutate the message.
func NewIntentMessage(v *Vehicle, timestamp float64) IntentMessage {
	trajectory := make([]Vec2, len(v.PlannedTrajectory))
	copy(trajectory, v.PlannedTrajectory)
	return IntentMessage{
		SenderID:          v.ID,
		Position:          v.Pos,
		Velocity:          v.Velocity(),
		Heading:           v.Heading,
		Speed:             v.Speed,
		Intent:            v.Intent,
		PlannedTrajectory: trajectory,
		Timestamp:         timestamp,
	}
}
