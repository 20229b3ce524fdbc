package graph

import (
	"sort"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Directed renders the graph as a gonum directed graph, to support gonum
// layout and analysis algorithms. gonum node ids map back to node ids
// through NodeForID.
func (g *Graph) Directed() *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()

	for _, n := range g.nodes {
		dg.AddNode(simple.Node(n.graphID))
	}

	var selfLoops int
	for _, e := range g.edges {
		if e.From == e.To {
			selfLoops++
			continue
		}

		dg.SetEdge(simple.Edge{
			F: simple.Node(g.index[e.From].graphID),
			T: simple.Node(g.index[e.To].graphID),
		})
	}

	grip.WarningWhen(selfLoops > 0, message.Fields{
		"message": "dropped self loops from directed graph",
		"graph":   g.Name,
		"count":   selfLoops,
	})

	return dg
}

// NodeForID maps a gonum node id produced by Directed back to a node.
func (g *Graph) NodeForID(id int64) (*Node, bool) {
	if id < 0 || id >= int64(len(g.nodes)) {
		return nil, false
	}
	return g.nodes[id], true
}

// GraphID returns the gonum id used for a node by Directed.
func (g *Graph) GraphID(id string) (int64, bool) {
	n, ok := g.index[id]
	if !ok {
		return -1, false
	}
	return n.graphID, true
}

// PageRank computes the pagerank of every node, keyed by node id.
func (g *Graph) PageRank(damp, tol float64) map[string]float64 {
	out := make(map[string]float64, len(g.nodes))
	if len(g.nodes) == 0 {
		return out
	}

	for id, rank := range network.PageRank(g.Directed(), damp, tol) {
		if n, ok := g.NodeForID(id); ok {
			out[n.ID] = rank
		}
	}

	return out
}

// StronglyConnected returns the strongly connected groups with more than
// one member. Members within a group, and the groups themselves, are
// sorted for stable output.
func (g *Graph) StronglyConnected() [][]string {
	groups := [][]string{}

	for _, component := range topo.TarjanSCC(g.Directed()) {
		if len(component) < 2 {
			continue
		}
		groups = append(groups, g.names(component))
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

func (g *Graph) names(nodes []gonum.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, gn := range nodes {
		if n, ok := g.NodeForID(gn.ID()); ok {
			out = append(out, n.ID)
			continue
		}
		grip.Warning(message.Fields{
			"message": "found unknown node in gonum graph",
			"id":      gn.ID(),
			"graph":   g.Name,
		})
	}
	sort.Strings(out)
	return out
}
