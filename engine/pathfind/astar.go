package pathfind

import (
	"container/heap"

	"github.com/unarmedpuppy/command-grid/engine/grid"
)

// DefaultBudget caps A* expansions per call. It bounds the synchronous cost
// of a search, not the path length; for a 32x32 grid it covers a full-map
// traversal at low obstacle density.
const DefaultBudget = 500

// Route is the result of a path search. When Fallback is set the goal was
// not reachable within the expansion budget and Cells holds the single-hop
// fallback [goal]; the caller still gets a destination to move toward.
type Route struct {
	Cells    []grid.Cell
	Fallback bool
}

// FindPath computes a 4-directional route from start to goal avoiding the
// blocked set. Neighbor order is East, West, South, North, which fixes the
// tie-break among equal-f nodes. budget <= 0 selects DefaultBudget.
//
// start == goal returns an empty route. An unreachable or enclosed goal
// returns Route{Cells: [goal], Fallback: true}, never an error; callers
// needing strict reachability must check Fallback themselves.
func FindPath(start, goal grid.Cell, blocked map[grid.Cell]bool, g grid.Grid, budget int) Route {
	if start == goal {
		return Route{}
	}
	if budget <= 0 {
		budget = DefaultBudget
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &node{cell: start, f: manhattan(start, goal)})

	came := make(map[grid.Cell]grid.Cell)
	gScore := map[grid.Cell]int{start: 0}

	// East, West, South, North.
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	expansions := 0
	for open.Len() > 0 && expansions < budget {
		cur := heap.Pop(open).(*node)
		if cur.cell == goal {
			return Route{Cells: reconstruct(came, start, goal)}
		}
		expansions++

		for _, d := range dirs {
			next := grid.Cell{Col: cur.cell.Col + d[0], Row: cur.cell.Row + d[1]}
			if !g.InBounds(next) || blocked[next] {
				continue
			}
			tentG := gScore[cur.cell] + 1
			if old, ok := gScore[next]; ok && tentG >= old {
				continue
			}
			gScore[next] = tentG
			came[next] = cur.cell
			heap.Push(open, &node{cell: next, f: tentG + manhattan(next, goal)})
		}
	}

	return Route{Cells: []grid.Cell{goal}, Fallback: true}
}

func manhattan(a, b grid.Cell) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func reconstruct(came map[grid.Cell]grid.Cell, start, goal grid.Cell) []grid.Cell {
	path := []grid.Cell{goal}
	cur := goal
	for cur != start {
		prev, ok := came[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// --- Priority queue ---

// seq breaks f ties by insertion order so expansion is deterministic given
// the fixed neighbor ordering above.
type node struct {
	cell grid.Cell
	f    int
	seq  int
}

type nodeHeap struct {
	nodes   []*node
	counter int
}

func (h nodeHeap) Len() int { return len(h.nodes) }
func (h nodeHeap) Less(i, j int) bool {
	if h.nodes[i].f != h.nodes[j].f {
		return h.nodes[i].f < h.nodes[j].f
	}
	return h.nodes[i].seq < h.nodes[j].seq
}
func (h nodeHeap) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }
func (h *nodeHeap) Push(x interface{}) {
	n := x.(*node)
	n.seq = h.counter
	h.counter++
	h.nodes = append(h.nodes, n)
}
func (h *nodeHeap) Pop() interface{} {
	old := h.nodes
	n := len(old)
	item := old[n-1]
	h.nodes = old[:n-1]
	return item
}
