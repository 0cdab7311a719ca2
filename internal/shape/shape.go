// Package shape names the topology of a flat triple block. The triples
// are read as directed edges (subject to object, labeled by predicate)
// over a multigraph of terms; the classification looks only at degrees
// and connectivity, never at predicates or the variable/constant split.
package shape

import "github.com/forgeql/sparqlforge/internal/pattern"

// Shape identifies the topology class of a triple block.
type Shape string

const (
	Empty        Shape = "Empty"
	SingleTriple Shape = "Single-triple"
	Path         Shape = "Path"
	Star         Shape = "Star"
	Cycle        Shape = "Cycle"
	Tree         Shape = "Tree"
	Flower       Shape = "Flower"
	Complex      Shape = "Complex"
)

// graph is a directed multigraph over term nodes. Parallel edges are
// counted individually for degree purposes.
type graph struct {
	nodes map[string]bool
	out   map[string]int
	in    map[string]int
	adj   map[string]map[string]int // undirected adjacency with multiplicity
	edges int
}

func buildGraph(triples []*pattern.TriplePattern) *graph {
	g := &graph{
		nodes: map[string]bool{},
		out:   map[string]int{},
		in:    map[string]int{},
		adj:   map[string]map[string]int{},
	}
	for _, t := range triples {
		g.addEdge(t.Subject, t.Object)
	}
	return g
}

func (g *graph) addEdge(from, to string) {
	g.nodes[from] = true
	g.nodes[to] = true
	g.out[from]++
	g.in[to]++
	g.edges++
	if g.adj[from] == nil {
		g.adj[from] = map[string]int{}
	}
	if g.adj[to] == nil {
		g.adj[to] = map[string]int{}
	}
	g.adj[from][to]++
	if from != to {
		g.adj[to][from]++
	}
}

// degree is the undirected degree of a node (self-loops count twice).
func (g *graph) degree(n string) int {
	d := 0
	for peer, mult := range g.adj[n] {
		if peer == n {
			d += 2 * mult
		} else {
			d += mult
		}
	}
	return d
}

// connected reports whether the undirected graph is a single component.
func (g *graph) connected() bool {
	if len(g.nodes) == 0 {
		return true
	}
	var start string
	for n := range g.nodes {
		start = n
		break
	}
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for peer := range g.adj[n] {
			if !seen[peer] {
				seen[peer] = true
				queue = append(queue, peer)
			}
		}
	}
	return len(seen) == len(g.nodes)
}

// isTree reports whether the undirected graph is connected and acyclic.
func (g *graph) isTree() bool {
	return g.connected() && g.edges == len(g.nodes)-1
}

// Classify names the topological shape of a flat triple block.
func Classify(triples []*pattern.TriplePattern) Shape {
	if len(triples) == 0 {
		return Empty
	}
	if len(triples) == 1 {
		return SingleTriple
	}

	g := buildGraph(triples)

	if isCycle(g, len(triples)) {
		return Cycle
	}
	if isPath(g) {
		return Path
	}
	if isStar(g) {
		return Star
	}
	if g.isTree() {
		return classifyTree(g)
	}
	return Complex
}

// isCycle: as many nodes as edges, every node with in-degree and
// out-degree exactly one.
func isCycle(g *graph, triples int) bool {
	if len(g.nodes) != triples {
		return false
	}
	for n := range g.nodes {
		if g.in[n] != 1 || g.out[n] != 1 {
			return false
		}
	}
	return true
}

// isPath: in- and out-degrees at most one everywhere, with exactly two
// endpoint nodes of total directed degree one.
func isPath(g *graph) bool {
	endpoints := 0
	for n := range g.nodes {
		if g.in[n] > 1 || g.out[n] > 1 {
			return false
		}
		if g.in[n]+g.out[n] == 1 {
			endpoints++
		}
	}
	return endpoints == 2
}

// isStar: exactly one center of undirected degree above one, every other
// node a leaf of degree exactly one.
func isStar(g *graph) bool {
	centers := 0
	for n := range g.nodes {
		switch d := g.degree(n); {
		case d > 1:
			centers++
			if d == 2 {
				// A degree-2 "center" makes a path, not a star.
				return false
			}
		case d == 1:
			// leaf
		default:
			return false
		}
	}
	return centers == 1
}

// classifyTree refines a connected acyclic graph: no hub means a plain
// path; a single hub with exactly one stem path of length at least two
// makes a flower; anything else is a plain tree.
func classifyTree(g *graph) Shape {
	var hubs []string
	for n := range g.nodes {
		if g.degree(n) > 2 {
			hubs = append(hubs, n)
		}
	}
	if len(hubs) == 0 {
		return Path
	}
	if len(hubs) == 1 && stemCount(g, hubs[0]) == 1 {
		return Flower
	}
	return Tree
}

// stemCount counts branches hanging off the hub that form a simple path
// of two or more nodes once the hub is removed.
func stemCount(g *graph, hub string) int {
	components := componentsWithout(g, hub)
	stems := 0
	for _, comp := range components {
		if len(comp) < 2 {
			continue
		}
		if isSimplePath(g, comp, hub) {
			stems++
		}
	}
	return stems
}

// componentsWithout returns the connected components of the undirected
// graph with the given node deleted.
func componentsWithout(g *graph, removed string) []map[string]bool {
	seen := map[string]bool{removed: true}
	var components []map[string]bool
	for n := range g.nodes {
		if seen[n] {
			continue
		}
		comp := map[string]bool{n: true}
		seen[n] = true
		queue := []string{n}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for peer := range g.adj[cur] {
				if peer == removed || comp[peer] {
					continue
				}
				comp[peer] = true
				seen[peer] = true
				queue = append(queue, peer)
			}
		}
		components = append(components, comp)
	}
	return components
}

// isSimplePath checks that a component (ignoring edges to the excluded
// node) has every degree at most two with exactly two endpoints.
func isSimplePath(g *graph, comp map[string]bool, excluded string) bool {
	endpoints := 0
	for n := range comp {
		d := 0
		for peer, mult := range g.adj[n] {
			if peer == excluded || !comp[peer] {
				continue
			}
			d += mult
		}
		if d > 2 {
			return false
		}
		if d == 1 {
			endpoints++
		}
	}
	return endpoints == 2
}
