/*
Package parser loads the inputs of an annotation run: graph sources (DOT
files and N-Triples influence dumps) and annotation tables (JSON, YAML,
and N-Triples birth year dumps).

All loaders read the whole input into memory. Read and parse failures are
returned wrapped with the path of the failing input.
*/
package parser

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/causegraph/cgraph/annotate"
	"github.com/causegraph/cgraph/graph"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// GraphFormat names the format of a graph source file.
type GraphFormat string

const (
	GraphDOT     GraphFormat = "dot"
	GraphTriples GraphFormat = "nt"
)

// AnnotationFormat names the format of an annotation or label file.
type AnnotationFormat string

const (
	AnnotationJSON    AnnotationFormat = "json"
	AnnotationYAML    AnnotationFormat = "yaml"
	AnnotationTriples AnnotationFormat = "nt"
)

// GraphParser builds a graph from a reader.
type GraphParser interface {
	ParseGraph(name string, r io.Reader) (*graph.Graph, error)
}

// AnnotationParser builds an annotation table from a reader.
type AnnotationParser interface {
	ParseAnnotations(r io.Reader) (annotate.Map, error)
}

func (f GraphFormat) Validate() error {
	switch f {
	case GraphDOT, GraphTriples:
		return nil
	default:
		return errors.Errorf("'%s' is not a supported graph format", f)
	}
}

// Parser returns the parser for the format. namespace is removed from
// resource IRIs by the n-triples parser and ignored otherwise.
func (f GraphFormat) Parser(namespace string) (GraphParser, error) {
	switch f {
	case GraphDOT:
		return &DotParser{}, nil
	case GraphTriples:
		return &InfluenceParser{Namespace: namespace}, nil
	default:
		return nil, errors.Errorf("'%s' is not a supported graph format", f)
	}
}

func (f AnnotationFormat) Validate() error {
	switch f {
	case AnnotationJSON, AnnotationYAML, AnnotationTriples:
		return nil
	default:
		return errors.Errorf("'%s' is not a supported annotation format", f)
	}
}

// Parser returns the parser for the format. namespace is removed from
// resource IRIs by the n-triples parser and ignored otherwise.
func (f AnnotationFormat) Parser(namespace string) (AnnotationParser, error) {
	switch f {
	case AnnotationJSON:
		return jsonMapParser{}, nil
	case AnnotationYAML:
		return yamlMapParser{}, nil
	case AnnotationTriples:
		return &BirthYearParser{Namespace: namespace}, nil
	default:
		return nil, errors.Errorf("'%s' is not a supported annotation format", f)
	}
}

// GraphFormatFromPath infers a graph format from a file extension.
func GraphFormatFromPath(path string) GraphFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return GraphTriples
	default:
		return GraphDOT
	}
}

// AnnotationFormatFromPath infers an annotation format from a file
// extension.
func AnnotationFormatFromPath(path string) AnnotationFormat {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if utility.StringSliceContains([]string{"yaml", "yml"}, ext) {
		return AnnotationYAML
	}
	if ext == "nt" {
		return AnnotationTriples
	}
	return AnnotationJSON
}

// LoadGraph reads and parses the graph at path. The graph is named after
// the file.
func LoadGraph(path string, format GraphFormat, namespace string) (*graph.Graph, error) {
	if format == "" {
		format = GraphFormatFromPath(path)
	}

	p, err := format.Parser(namespace)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "problem opening graph source '%s'", path)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g, err := p.ParseGraph(name, f)
	if err != nil {
		return nil, errors.Wrapf(err, "problem parsing %s graph '%s'", format, path)
	}

	return g, nil
}

// LoadAnnotations reads and parses the annotation table at path.
func LoadAnnotations(path string, format AnnotationFormat, namespace string) (annotate.Map, error) {
	if format == "" {
		format = AnnotationFormatFromPath(path)
	}

	p, err := format.Parser(namespace)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "problem opening annotation source '%s'", path)
	}
	defer f.Close()

	m, err := p.ParseAnnotations(f)
	if err != nil {
		return nil, errors.Wrapf(err, "problem parsing %s annotations '%s'", format, path)
	}

	return m, nil
}

// LoadLabels reads a flat id to label table in JSON or YAML form.
func LoadLabels(path string) (map[string]string, error) {
	format := AnnotationFormatFromPath(path)
	if format == AnnotationTriples {
		return nil, errors.Errorf("labels file '%s' must be json or yaml", path)
	}

	m, err := LoadAnnotations(path, format, "")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	out := make(map[string]string, len(m))
	for id, val := range m {
		label, ok := val.(string)
		if !ok {
			return nil, errors.Errorf("label for '%s' in '%s' is not a string", id, path)
		}
		out[id] = label
	}

	return out, nil
}
