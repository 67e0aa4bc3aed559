// Package graph provides deterministic cycle detection over integer task IDs.
package graph

import (
	"container/heap"
	"sort"
)

// Graph is a directed graph where an edge from -> to means "from depends on to".
type Graph struct {
	nodes    []int
	index    map[int]int
	outgoing [][]int // by node index, sorted ascending
	indeg    []int
}

// New creates a Graph over the given node IDs. Duplicate IDs are ignored.
func New(ids []int) *Graph {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	g := &Graph{index: make(map[int]int, len(sorted))}
	for _, id := range sorted {
		if _, ok := g.index[id]; ok {
			continue
		}
		g.index[id] = len(g.nodes)
		g.nodes = append(g.nodes, id)
	}
	g.outgoing = make([][]int, len(g.nodes))
	g.indeg = make([]int, len(g.nodes))
	return g
}

// AddEdge records a dependency edge. Edges referencing unknown nodes are
// ignored; reference validation happens before the graph is built.
func (g *Graph) AddEdge(from, to int) {
	fi, ok := g.index[from]
	if !ok {
		return
	}
	ti, ok := g.index[to]
	if !ok {
		return
	}
	g.outgoing[fi] = append(g.outgoing[fi], ti)
	g.indeg[ti]++
}

// intMinHeap is a min-heap of ints for container/heap.
type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopoOrder returns a deterministic topological ordering of node IDs and true,
// or a partial ordering and false when the graph contains a cycle.
// Determinism: the ready queue is a min-heap by node ID.
func (g *Graph) TopoOrder() ([]int, bool) {
	indeg := make([]int, len(g.indeg))
	copy(indeg, g.indeg)

	ready := &intMinHeap{}
	heap.Init(ready)
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, len(g.nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, g.nodes[n])
		for _, m := range g.outgoing[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out, len(out) == len(g.nodes)
}

// FindCycle extracts one cycle as a closed path of node IDs, e.g. [2 5 2].
// Returns nil when the graph is acyclic. The witness is deterministic: the
// DFS visits nodes and neighbors in ascending ID order.
func (g *Graph) FindCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	for i := range g.outgoing {
		sort.Ints(g.outgoing[i])
	}

	color := make([]int, len(g.nodes))
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.outgoing[u] {
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				// Back-edge u -> v: reconstruct v ... u -> v via parent links.
				cycle = append(cycle, v)
				cur := u
				for cur != -1 && cur != v {
					cycle = append(cycle, cur)
					cur = parent[cur]
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := 0; i < len(g.nodes); i++ {
		if color[i] != white {
			continue
		}
		if dfs(i) {
			break
		}
	}

	if len(cycle) == 0 {
		return nil
	}

	// The parent walk produced the cycle in reverse; normalize to forward order.
	out := make([]int, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, g.nodes[cycle[i]])
	}
	return out
}
