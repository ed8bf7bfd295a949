package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// internal JSON shapes – kept unexported so the file format can evolve
// without touching the graph API.
type roadMapJSON struct {
	Nodes         []roadNodeJSON  `json:"nodes"`
	Edges         []roadEdgeJSON  `json:"edges"`
	Intersections [][]int         `json:"intersections"`
	Obstacles     []obstacleJSON  `json:"obstacles"`
	SpawnPoints   []pointJSON     `json:"spawn_points"`
	Destinations  []pointJSON     `json:"destinations"`
}

type roadNodeJSON struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type roadEdgeJSON struct {
	From  int      `json:"from"`
	To    int      `json:"to"`
	Width *float64 `json:"width"` // optional; defaults to 1.0
}

type obstacleJSON struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Radius *float64 `json:"radius"` // optional; defaults to 0.5
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadRoadGraph reads a road map from r and builds a validated graph.
// Malformed input fails here, never inside the simulation: duplicate
// node IDs and edges referencing missing nodes are rejected before the
// core ever sees the graph.
func LoadRoadGraph(r io.Reader) (*RoadGraph, error) {
	var payload roadMapJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadRoadGraph: decode failed: %w", err)
	}

	graph := NewRoadGraph()

	for _, n := range payload.Nodes {
		if err := graph.AddNode(NodeID(n.ID), n.X, n.Y); err != nil {
			return nil, fmt.Errorf("LoadRoadGraph: %w", err)
		}
	}

	for _, e := range payload.Edges {
		width := 1.0
		if e.Width != nil {
			width = *e.Width
		}
		if err := graph.AddEdge(NodeID(e.From), NodeID(e.To), width); err != nil {
			return nil, fmt.Errorf("LoadRoadGraph: %w", err)
		}
	}

	for _, group := range payload.Intersections {
		ids := make([]NodeID, 0, len(group))
		for _, id := range group {
			if _, ok := graph.NodePosition(NodeID(id)); !ok {
				return nil, fmt.Errorf("LoadRoadGraph: intersection references missing node %d", id)
			}
			ids = append(ids, NodeID(id))
		}
		graph.Intersections = append(graph.Intersections, ids)
	}

	for _, o := range payload.Obstacles {
		radius := 0.5
		if o.Radius != nil {
			radius = *o.Radius
		}
		graph.Obstacles = append(graph.Obstacles, Obstacle{
			Center: Vec2{X: o.X, Y: o.Y},
			Radius: radius,
		})
	}

	for _, p := range payload.SpawnPoints {
		graph.SpawnPoints = append(graph.SpawnPoints, Vec2{X: p.X, Y: p.Y})
	}
	for _, p := range payload.Destinations {
		graph.Destinations = append(graph.Destinations, Vec2{X: p.X, Y: p.Y})
	}

	return graph, nil
}
