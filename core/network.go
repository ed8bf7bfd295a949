package core

import (
	"container/heap"
	"math/rand"
)

// VehiclePose is a (vehicle id, position) pair. Broadcast takes the
// candidate recipients as an ordered slice rather than a map so drop
// sampling consumes random numbers in a fixed order and runs stay
// reproducible.
type VehiclePose struct {
	ID  int
	Pos Vec2
}

// inFlightMessage is a pending delivery owned by the network simulator.
type inFlightMessage struct {
	deliveryTime float64
	seq          int // insertion order, keeps equal-time pops FIFO
	msg          IntentMessage
}

// NetworkSimulator models the broadcast medium: one outbound intent
// message per vehicle per tick, geometric range gating, Bernoulli
// packet loss, and a fixed per-message delivery delay expressed in
// simulated time.
//
// The recipient set is captured at send time; vehicles moving in or out
// of range while a message is in flight do not change who receives it.
// A message is delivered at most once.
type NetworkSimulator struct {
	BroadcastRadius float64
	Latency         float64
	PacketDropRate  float64

	now     float64
	seq     int
	pending map[int]*deliveryQueue
	queued  int
	rng     *rand.Rand
}

// NewNetworkSimulator builds a simulator. A nil rng falls back to a
// fixed-seed source so the zero configuration is still deterministic.
func NewNetworkSimulator(broadcastRadius, latency, packetDropRate float64, rng *rand.Rand) *NetworkSimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &NetworkSimulator{
		BroadcastRadius: broadcastRadius,
		Latency:         latency,
		PacketDropRate:  packetDropRate,
		pending:         make(map[int]*deliveryQueue),
		rng:             rng,
	}
}

// AdvanceTime moves the network clock forward by dt simulated seconds.
func (n *NetworkSimulator) AdvanceTime(dt float64) {
	n.now += dt
}

// Now returns the network's current simulated time.
func (n *NetworkSimulator) Now() float64 { return n.now }

// Broadcast offers msg to every other vehicle within BroadcastRadius of
// senderPos (inclusive boundary). Each in-range recipient independently
// survives or loses the message with probability PacketDropRate, and a
// surviving copy is queued for delivery at now + Latency. Returns the
// number of copies queued and the number dropped.
func (n *NetworkSimulator) Broadcast(msg IntentMessage, senderPos Vec2, recipients []VehiclePose) (sent, dropped int) {
	for _, r := range recipients {
		if r.ID == msg.SenderID {
			continue
		}
		if senderPos.DistanceTo(r.Pos) > n.BroadcastRadius {
			continue
		}
		if n.rng.Float64() < n.PacketDropRate {
			dropped++
			continue
		}
		q, ok := n.pending[r.ID]
		if !ok {
			q = &deliveryQueue{}
			n.pending[r.ID] = q
		}
		heap.Push(q, &inFlightMessage{
			deliveryTime: n.now + n.Latency,
			seq:          n.seq,
			msg:          msg,
		})
		n.seq++
		n.queued++
		sent++
	}
	return sent, dropped
}

// MessagesFor removes and returns every message addressed to the
// vehicle whose delivery time has come. Later messages stay queued for
// future ticks.
func (n *NetworkSimulator) MessagesFor(vehicleID int) []IntentMessage {
	q, ok := n.pending[vehicleID]
	if !ok {
		return nil
	}
	var delivered []IntentMessage
	for q.Len() > 0 && q.peek().deliveryTime <= n.now {
		delivered = append(delivered, heap.Pop(q).(*inFlightMessage).msg)
		n.queued--
	}
	return delivered
}

// PendingCount returns the number of in-flight messages.
func (n *NetworkSimulator) PendingCount() int { return n.queued }

// Clear drops every in-flight message.
func (n *NetworkSimulator) Clear() {
	n.pending = make(map[int]*deliveryQueue)
	n.queued = 0
}

// deliveryQueue is a min-heap of in-flight messages ordered by delivery
// time, then insertion order.
type deliveryQueue struct {
	items []*inFlightMessage
}

func (q *deliveryQueue) peek() *inFlightMessage { return q.items[0] }

func (q *deliveryQueue) Len() int { return len(q.items) }

func (q *deliveryQueue) Less(i, j int) bool {
	if q.items[i].deliveryTime != q.items[j].deliveryTime {
		return q.items[i].deliveryTime < q.items[j].deliveryTime
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *deliveryQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *deliveryQueue) Push(x any) {
	q.items = append(q.items, x.(*inFlightMessage))
}

func (q *deliveryQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return item
}
