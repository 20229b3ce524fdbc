package parser

import (
	"io"
	"strings"

	"github.com/causegraph/cgraph/graph"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/formats/dot"
	"gonum.org/v1/gonum/graph/formats/dot/ast"
)

// DotParser reads the first graph of a graphviz file. Node statements,
// edge chains, and subgraphs (as edge endpoints or as groupings) are
// supported; a "label" attribute on a node statement becomes the node
// label. Other attributes are ignored. Edges of undirected graphs are
// recorded in the order they are written.
type DotParser struct {
	g *graph.Graph
}

func (p *DotParser) ParseGraph(name string, r io.Reader) (*graph.Graph, error) {
	file, err := dot.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "invalid dot syntax")
	}
	if len(file.Graphs) == 0 {
		return nil, errors.New("dot source contains no graphs")
	}
	grip.WarningWhen(len(file.Graphs) > 1, "dot source contains multiple graphs, using the first")

	src := file.Graphs[0]
	if id := unquoteID(src.ID); id != "" {
		name = id
	}

	p.g = graph.New(name)
	p.statements(src.Stmts)

	return p.g, nil
}

func (p *DotParser) statements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.NodeStmt:
			id := unquoteID(s.Node.ID)
			p.g.AddNode(id)
			for _, attr := range s.Attrs {
				if attr.Key == "label" {
					_ = p.g.SetLabel(id, unquoteID(attr.Val))
				}
			}
		case *ast.EdgeStmt:
			from := p.vertex(s.From)
			for edge := s.To; edge != nil; edge = edge.To {
				to := p.vertex(edge.Vertex)
				for _, f := range from {
					for _, t := range to {
						p.g.AddEdge(f, t)
					}
				}
				from = to
			}
		case *ast.Subgraph:
			p.statements(s.Stmts)
		}
	}
}

// vertex adds the nodes named by an edge endpoint and returns their ids.
func (p *DotParser) vertex(v ast.Vertex) []string {
	switch vv := v.(type) {
	case *ast.Node:
		id := unquoteID(vv.ID)
		p.g.AddNode(id)
		return []string{id}
	case *ast.Subgraph:
		p.statements(vv.Stmts)
		return subgraphNodes(vv.Stmts)
	default:
		return nil
	}
}

// subgraphNodes lists every node mentioned inside a subgraph, in order of
// first appearance.
func subgraphNodes(stmts []ast.Stmt) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(id string) {
		id = unquoteID(id)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	var walkVertex func(ast.Vertex)
	var walk func([]ast.Stmt)
	walkVertex = func(v ast.Vertex) {
		switch vv := v.(type) {
		case *ast.Node:
			add(vv.ID)
		case *ast.Subgraph:
			walk(vv.Stmts)
		}
	}
	walk = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.NodeStmt:
				add(s.Node.ID)
			case *ast.EdgeStmt:
				walkVertex(s.From)
				for edge := s.To; edge != nil; edge = edge.To {
					walkVertex(edge.Vertex)
				}
			case *ast.Subgraph:
				walk(s.Stmts)
			}
		}
	}
	walk(stmts)

	return out
}

// unquoteID strips the quotes from a quoted DOT id and resolves escaped
// quotes. Unquoted and HTML ids are returned unchanged.
func unquoteID(id string) string {
	if len(id) >= 2 && strings.HasPrefix(id, `"`) && strings.HasSuffix(id, `"`) {
		return strings.Replace(id[1:len(id)-1], `\"`, `"`, -1)
	}
	return id
}
