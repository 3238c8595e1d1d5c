// Package graph exposes a task dependency relation as ordered views:
// topological order, reachability, and cycle/reference validation. Edges
// are derived from each task's forward-declared dependency set; back-edges
// ("blocks") are computed on demand rather than stored, so they can never
// drift out of sync on delete/update.
package graph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dagr-project/dagr/internal/dagrerr"
)

// Node is the minimal view a graph needs of a task: its id and the ids it
// depends on.
type Node struct {
	ID        string
	DependsOn []string
}

// Graph is an in-memory adjacency-list view over a set of nodes, keyed by
// task id, with edges pointing from prerequisite to dependent.
type Graph struct {
	nodes  map[string]Node
	order  []string // insertion order, for stable iteration when ids don't disambiguate
	succ   map[string][]string
}

// Build constructs a Graph from the given nodes. It does not validate;
// call Validate to check for cycles and unknown references.
func Build(nodes []Node) *Graph {
	g := &Graph{
		nodes: make(map[string]Node, len(nodes)),
		succ:  make(map[string][]string, len(nodes)),
	}
	for _, n := range nodes {
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			g.succ[dep] = append(g.succ[dep], n.ID)
		}
	}
	return g
}

// numericSuffix extracts the trailing integer from an id of form "T-<n>"
// for deterministic tie-breaking. IDs that don't parse sort after those
// that do, by string comparison.
func numericSuffix(id string) (int, bool) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 || i == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func byIDSuffix(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		ni, oki := numericSuffix(ids[i])
		nj, okj := numericSuffix(ids[j])
		if oki && okj {
			return ni < nj
		}
		if oki != okj {
			return oki // numeric ids sort before non-numeric ones
		}
		return ids[i] < ids[j]
	})
}

// Validate checks that every dependency reference exists and that the
// dependency relation is acyclic.
func (g *Graph) Validate() error {
	for id, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return dagrerr.InvalidField("depends_on", "task "+id+" depends on non-existent task "+dep)
			}
		}
	}
	if path, ok := g.findCycle(); ok {
		return dagrerr.CycleDetected(path)
	}
	return nil
}

// findCycle performs a DFS looking for a back-edge, returning the cycle
// path if one is found.
func (g *Graph) findCycle() ([]string, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(id string) ([]string, bool)
	visit = func(id string) ([]string, bool) {
		color[id] = gray
		stack = append(stack, id)
		for _, dep := range g.nodes[id].DependsOn {
			switch color[dep] {
			case gray:
				// found the back-edge; build the cycle path from dep forward
				start := indexOf(stack, dep)
				cycle := append([]string{}, stack[start:]...)
				cycle = append(cycle, dep)
				return cycle, true
			case white:
				if path, found := visit(dep); found {
					return path, true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil, false
	}

	ids := append([]string{}, g.order...)
	byIDSuffix(ids)
	for _, id := range ids {
		if color[id] == white {
			if path, found := visit(id); found {
				return path, true
			}
		}
	}
	return nil, false
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// TopologicalOrder returns every task id such that all of a task's
// dependencies appear before it, tie-broken by ascending numeric id suffix.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		if _, ok := indegree[id]; !ok {
			indegree[id] = 0
		}
		for range n.DependsOn {
			indegree[id]++
		}
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	byIDSuffix(ready)

	var order []string
	remaining := indegree
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var nextReady []string
		for _, s := range g.succ[id] {
			remaining[s]--
			if remaining[s] == 0 {
				nextReady = append(nextReady, s)
			}
		}
		if len(nextReady) > 0 {
			byIDSuffix(nextReady)
			ready = mergeSorted(ready, nextReady)
		}
	}

	if len(order) != len(g.nodes) {
		path, _ := g.findCycle()
		return nil, dagrerr.CycleDetected(path)
	}
	return order, nil
}

// mergeSorted merges two id-suffix-sorted slices into one sorted slice.
func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	less := func(x, y string) bool {
		nx, okx := numericSuffix(x)
		ny, oky := numericSuffix(y)
		if okx && oky {
			return nx < ny
		}
		if okx != oky {
			return okx
		}
		return x < y
	}
	for i < len(a) && j < len(b) {
		if less(a[i], b[j]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// ReverseTopologicalOrder returns TopologicalOrder reversed; used by the
// backward CPM pass.
func (g *Graph) ReverseTopologicalOrder() ([]string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	rev := make([]string, len(order))
	for i, id := range order {
		rev[len(order)-1-i] = id
	}
	return rev, nil
}

// Predecessors returns the ids a task directly depends on.
func (g *Graph) Predecessors(id string) []string {
	return append([]string{}, g.nodes[id].DependsOn...)
}

// Successors returns the ids that directly depend on a task.
func (g *Graph) Successors(id string) []string {
	return append([]string{}, g.succ[id]...)
}

// ReachableAncestors returns the set of ids reachable by following
// depends_on edges transitively from id (id's prerequisites, and their
// prerequisites, ...).
func (g *Graph) ReachableAncestors(id string) map[string]bool {
	seen := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		for _, dep := range g.nodes[cur].DependsOn {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	walk(id)
	return seen
}

// ReachableDescendants returns the set of ids reachable by following
// successor edges transitively from id (id's dependents, and their
// dependents, ...).
func (g *Graph) ReachableDescendants(id string) map[string]bool {
	seen := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		for _, s := range g.succ[cur] {
			if !seen[s] {
				seen[s] = true
				walk(s)
			}
		}
	}
	walk(id)
	return seen
}

// IDs returns every task id known to the graph, in insertion order.
func (g *Graph) IDs() []string {
	return append([]string{}, g.order...)
}
