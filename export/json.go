package export

import (
	"encoding/json"
	"io"

	"github.com/causegraph/cgraph/graph"
	"github.com/pkg/errors"
)

// jsonGraph mirrors the ngraph serialization layout: a node list with
// optional data and a link list of fromId/toId pairs.
type jsonGraph struct {
	Nodes []jsonNode   `json:"nodes"`
	Links []graph.Edge `json:"links"`
}

type jsonNode struct {
	ID    string      `json:"id"`
	Label string      `json:"label,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// MarshalJSON renders the graph in ngraph JSON form.
func MarshalJSON(g *graph.Graph) ([]byte, error) {
	doc := jsonGraph{
		Nodes: make([]jsonNode, 0, g.Len()),
		Links: make([]graph.Edge, 0, len(g.Edges())),
	}

	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, jsonNode{ID: n.ID, Label: n.Label, Data: n.Data})
	}
	doc.Links = append(doc.Links, g.Edges()...)

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "problem encoding graph as json")
	}
	return out, nil
}

// ReadJSON decodes a graph written by MarshalJSON.
func ReadJSON(name string, r io.Reader) (*graph.Graph, error) {
	doc := jsonGraph{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "problem decoding json graph")
	}

	g := graph.New(name)
	for _, n := range doc.Nodes {
		node := g.AddNode(n.ID)
		node.Label = n.Label
		node.Data = n.Data
	}
	for _, l := range doc.Links {
		g.AddEdge(l.From, l.To)
	}

	return g, nil
}
