/*
Package graph holds the in-memory representation of a cause graph: a set of
string-identified nodes, each with an optional label and an auxiliary data
slot, and the directed edges between them.

Topology is built once by a loader. After that, the only mutation most
callers perform is setting the data slot on existing nodes.
*/
package graph

import (
	"github.com/pkg/errors"
)

// Node is a single vertex. Data holds whatever annotation was attached to
// the node (a year, or a small record of years) and is nil until set.
type Node struct {
	ID    string      `bson:"id" json:"id" yaml:"id"`
	Label string      `bson:"label,omitempty" json:"label,omitempty" yaml:"label,omitempty"`
	Data  interface{} `bson:"data,omitempty" json:"data,omitempty" yaml:"data,omitempty"`

	graphID int64
}

// Edge is a directed link between two node ids.
type Edge struct {
	From string `bson:"from" json:"fromId" yaml:"from"`
	To   string `bson:"to" json:"toId" yaml:"to"`
}

// Graph is a directed graph with insertion-ordered nodes and edges. The
// zero value is not usable; construct graphs with New.
type Graph struct {
	Name string

	nodes   []*Node
	index   map[string]*Node
	edges   []Edge
	edgeSet map[Edge]struct{}
}

// New returns an empty graph.
func New(name string) *Graph {
	return &Graph{
		Name:    name,
		index:   map[string]*Node{},
		edgeSet: map[Edge]struct{}{},
	}
}

// AddNode adds a node with the given id, returning the existing node if
// one is already present.
func (g *Graph) AddNode(id string) *Node {
	if n, ok := g.index[id]; ok {
		return n
	}

	n := &Node{ID: id, graphID: int64(len(g.nodes))}
	g.nodes = append(g.nodes, n)
	g.index[id] = n
	return n
}

// AddEdge adds a directed edge, creating either endpoint if it does not
// exist. Duplicate edges are collapsed.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)

	e := Edge{From: from, To: to}
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is shared with the
// graph and must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// Len reports the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// NodeIDs returns the ids of all nodes in insertion order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodes))
	for idx, n := range g.nodes {
		out[idx] = n.ID
	}
	return out
}

// SetData replaces the data slot of an existing node.
func (g *Graph) SetData(id string, data interface{}) error {
	n, ok := g.index[id]
	if !ok {
		return errors.Errorf("node '%s' does not exist in graph '%s'", id, g.Name)
	}
	n.Data = data
	return nil
}

// SetLabel replaces the label of an existing node.
func (g *Graph) SetLabel(id, label string) error {
	n, ok := g.index[id]
	if !ok {
		return errors.Errorf("node '%s' does not exist in graph '%s'", id, g.Name)
	}
	n.Label = label
	return nil
}

// Data returns the data slot of a node, or nil if the node is unknown.
func (g *Graph) Data(id string) interface{} {
	if n, ok := g.index[id]; ok {
		return n.Data
	}
	return nil
}
