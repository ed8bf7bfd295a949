package core

import (
	"fmt"
	"math"
)

// NodeID identifies a node in the road graph.
type NodeID int

// RoadNode is a point in the drivable topology.
type RoadNode struct {
	ID  NodeID
	Pos Vec2
}

// RoadEdge is a directed lane between two nodes. Adjacency is
// directional: an edge From→To does not imply To→From.
type RoadEdge struct {
	From  NodeID
	To    NodeID
	Width float64
}

// Obstacle is a circular no-drive region.
type Obstacle struct {
	Center Vec2
	Radius float64
}

// RoadGraph is the static weighted graph of drivable topology. It is
// populated once by a loader and treated as immutable afterwards; the
// world owns it and shares it read-only with the path planner.
type RoadGraph struct {
	nodes map[NodeID]*RoadNode
	order []NodeID // insertion order, fixes nearest-node tie-breaking
	adj   map[NodeID][]NodeID
	edges []RoadEdge

	Intersections [][]NodeID
	Obstacles     []Obstacle
	SpawnPoints   []Vec2
	Destinations  []Vec2
}

// NewRoadGraph returns an empty graph.
func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		nodes: make(map[NodeID]*RoadNode),
		adj:   make(map[NodeID][]NodeID),
	}
}

// AddNode inserts a node. Duplicate IDs are rejected so loaders surface
// malformed maps instead of silently overwriting topology.
func (g *RoadGraph) AddNode(id NodeID, x, y float64) error {
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("road graph: duplicate node %d", id)
	}
	g.nodes[id] = &RoadNode{ID: id, Pos: Vec2{X: x, Y: y}}
	g.order = append(g.order, id)
	return nil
}

// AddEdge inserts a directed edge. Edges referencing missing nodes are
// rejected; the core graph never holds a dangling reference.
func (g *RoadGraph) AddEdge(from, to NodeID, width float64) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("road graph: edge references missing node %d", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("road graph: edge references missing node %d", to)
	}
	g.edges = append(g.edges, RoadEdge{From: from, To: to, Width: width})
	g.adj[from] = append(g.adj[from], to)
	return nil
}

// NodeCount returns the number of nodes.
func (g *RoadGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of directed edges.
func (g *RoadGraph) EdgeCount() int { return len(g.edges) }

// NodePosition returns the position of a node, if it exists.
func (g *RoadGraph) NodePosition(id NodeID) (Vec2, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Vec2{}, false
	}
	return n.Pos, true
}

// Neighbors returns the nodes reachable over a single directed edge.
// The returned slice is owned by the graph and must not be modified.
func (g *RoadGraph) Neighbors(id NodeID) []NodeID {
	return g.adj[id]
}

// Distance returns the Euclidean distance between two nodes, or +Inf if
// either node is missing.
func (g *RoadGraph) Distance(a, b NodeID) float64 {
	pa, okA := g.NodePosition(a)
	pb, okB := g.NodePosition(b)
	if !okA || !okB {
		return math.Inf(1)
	}
	return pa.DistanceTo(pb)
}

// NearestNode returns the node closest to p. Exact distance ties break
// toward the node inserted first; with floating-point coordinates this
// is implementation-defined but deterministic. Returns false only for
// an empty graph.
func (g *RoadGraph) NearestNode(p Vec2) (NodeID, bool) {
	best := NodeID(0)
	bestDist := math.Inf(1)
	found := false
	for _, id := range g.order {
		d := g.nodes[id].Pos.DistanceTo(p)
		if d < bestDist {
			bestDist = d
			best = id
			found = true
		}
	}
	return best, found
}
