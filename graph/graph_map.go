package graph

import (
	"sort"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/mongodb/grip"
)

// GraphMap is an alias for map[string][]string which is a convenient
// format for representating directed graphs, and is the basis for other
// output formats.
type GraphMap map[string][]string

// Mapping renders the edges of a graph into a GraphMap. Every node has an
// entry, including nodes without outgoing edges.
func (g *Graph) Mapping(stripPrefix string) GraphMap {
	out := make(GraphMap, len(g.nodes))

	for _, n := range g.nodes {
		out[strings.TrimPrefix(n.ID, stripPrefix)] = []string{}
	}

	for _, e := range g.edges {
		from := strings.TrimPrefix(e.From, stripPrefix)
		out[from] = append(out[from], strings.TrimPrefix(e.To, stripPrefix))
	}

	grip.Debugf("rendered graph output mapping with %d nodes", len(out))
	return out
}

func cleanNameForDot(name string) string {
	return strings.Join([]string{`"`, `"`}, strings.Replace(name, `"`, `\"`, -1))
}

// Dot transforms a graph mapping. Nodes are emitted in sorted order.
func (report GraphMap) Dot(name string) string {
	dot := gographviz.NewGraph()

	_ = dot.SetName(cleanNameForDot(name))
	_ = dot.SetDir(true)

	nodes := make([]string, 0, len(report))
	for node := range report {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		_ = dot.AddNode(dot.Name, cleanNameForDot(node), nil)
	}

	for _, node := range nodes {
		for _, edge := range report[node] {
			_ = dot.AddEdge(cleanNameForDot(node), cleanNameForDot(edge), true, nil)
		}
	}

	grip.Debugf("rendering dot file with %d nodes and %d edges to graph", len(report), len(dot.Edges.Edges))
	return dot.String()
}

// Dot renders the graph, including node labels, in graphviz format. Node
// and edge order follows insertion order.
func (g *Graph) Dot() string {
	dot := gographviz.NewGraph()

	_ = dot.SetName(cleanNameForDot(g.Name))
	_ = dot.SetDir(true)

	for _, n := range g.nodes {
		var attrs map[string]string
		if n.Label != "" {
			attrs = map[string]string{"label": cleanNameForDot(n.Label)}
		}
		if err := dot.AddNode(dot.Name, cleanNameForDot(n.ID), attrs); err != nil {
			grip.Warningf("problem adding node '%s' to dot output: %s", n.ID, err)
		}
	}

	for _, e := range g.edges {
		if err := dot.AddEdge(cleanNameForDot(e.From), cleanNameForDot(e.To), true, nil); err != nil {
			grip.Warningf("problem adding edge '%s->%s' to dot output: %s", e.From, e.To, err)
		}
	}

	return dot.String()
}
