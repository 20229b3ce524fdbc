package export

import (
	"github.com/causegraph/cgraph/graph"
	"github.com/causegraph/cgraph/layout"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	yaml "gopkg.in/yaml.v2"
)

// Document is the structured form of a graph shared by the bson and yaml
// formats. Positions are included when a layout ran.
type Document struct {
	Name      string           `bson:"name" yaml:"name"`
	Nodes     []*graph.Node    `bson:"nodes" yaml:"nodes"`
	Edges     []graph.Edge     `bson:"edges" yaml:"edges"`
	Positions layout.Positions `bson:"positions,omitempty" yaml:"positions,omitempty"`
}

func newDocument(g *graph.Graph, positions layout.Positions) *Document {
	return &Document{
		Name:      g.Name,
		Nodes:     g.Nodes(),
		Edges:     g.Edges(),
		Positions: positions,
	}
}

// MarshalBSON renders the graph as a single bson document.
func MarshalBSON(g *graph.Graph, positions layout.Positions) ([]byte, error) {
	out, err := bson.Marshal(newDocument(g, positions))
	if err != nil {
		return nil, errors.Wrap(err, "problem encoding graph as bson")
	}
	return out, nil
}

// MarshalYAML renders the graph as a yaml document.
func MarshalYAML(g *graph.Graph, positions layout.Positions) ([]byte, error) {
	out, err := yaml.Marshal(newDocument(g, positions))
	if err != nil {
		return nil, errors.Wrap(err, "problem encoding graph as yaml")
	}
	return out, nil
}

// ReadBSON decodes a document written by MarshalBSON.
func ReadBSON(data []byte) (*Document, error) {
	doc := &Document{}
	if err := bson.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "problem decoding bson graph")
	}
	return doc, nil
}
