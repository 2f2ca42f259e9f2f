// Package dependency builds and flattens dependency graphs between
// schema locations.
package dependency

// insertUnique appends s to set unless it is already present. The
// augmented set is returned; insertion order is preserved.
func insertUnique(set []string, s string) []string {
	for _, v := range set {
		if v == s {
			return set
		}
	}
	return append(set, s)
}

// A Graph is a collection of targets and their dependencies. The zero
// value is an empty graph ready for use. Vertices are visited in the
// order they were first added, so the same sequence of Add calls always
// produces the same traversal.
type Graph struct {
	targets []string
	nodes   map[string][]string
}

// Len returns the number of targets in the graph.
func (g *Graph) Len() int {
	return len(g.targets)
}

// Add adds a dependency to a Graph.
func (g *Graph) Add(target, dependency string) {
	if g.nodes == nil {
		g.nodes = make(map[string][]string)
	}
	g.targets = insertUnique(g.targets, target)
	g.nodes[target] = insertUnique(g.nodes[target], dependency)
}

// Dependencies returns the direct dependencies of target, in the order
// they were added.
func (g *Graph) Dependencies(target string) []string {
	return g.nodes[target]
}

// Reaches reports whether to can be reached from from by following
// dependency edges. A vertex reaches itself.
func (g *Graph) Reaches(from, to string) bool {
	visited := make(map[string]bool)
	var reach func(v string) bool
	reach = func(v string) bool {
		if v == to {
			return true
		}
		if visited[v] {
			return false
		}
		visited[v] = true
		for _, dep := range g.nodes[v] {
			if reach(dep) {
				return true
			}
		}
		return false
	}
	return reach(from)
}

// Flatten calls the walk function on each node in the Graph in topological
// order, starting with the leaves and traversing up to the roots.  The same
// Graph will always be traversed in the same order.
//
// Every vertex in the Graph is visited once; any cycles in the graph are
// skipped.
func (g *Graph) Flatten(walk func(string)) {
	visited := make(map[string]bool, len(g.nodes))
	for _, tgt := range g.targets {
		if !visited[tgt] {
			visited[tgt] = true
			g.flatten(walk, g.nodes[tgt], visited)
			walk(tgt)
		}
	}
}

func (g *Graph) flatten(fn func(string), targets []string, visited map[string]bool) {
	for _, tgt := range targets {
		if !visited[tgt] {
			visited[tgt] = true
			g.flatten(fn, g.nodes[tgt], visited)
			fn(tgt)
		}
	}
}
