package parser

import (
	"io"
	"strings"

	"github.com/causegraph/cgraph/annotate"
	"github.com/causegraph/cgraph/graph"
	"github.com/knakk/rdf"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	InfluencedByPredicate = "http://dbpedia.org/ontology/influencedBy"
	BirthYearPredicate    = "http://dbpedia.org/ontology/birthYear"

	// DefaultNamespace is removed from resource IRIs to form node ids.
	DefaultNamespace = "http://dbpedia.org/resource/"
)

// NodeID returns the node id for a resource IRI: the IRI with the
// namespace removed. IRIs outside the namespace are kept whole so that
// they cannot collide with resources inside it. An empty namespace uses
// DefaultNamespace.
func NodeID(iri, namespace string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if id := strings.TrimPrefix(iri, namespace); id != "" {
		return id
	}
	return iri
}

// readTriples calls fn for every statement in r.
func readTriples(r io.Reader, fn func(rdf.Triple) error) error {
	dec := rdf.NewTripleDecoder(r, rdf.NTriples)

	count := 0
	for {
		t, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		count++
		if err != nil {
			return errors.Wrapf(err, "invalid statement %d", count)
		}
		if err = fn(t); err != nil {
			return errors.Wrapf(err, "statement %d", count)
		}
	}
}

func isLiteral(t rdf.Triple) bool { return t.Obj.Type() == rdf.TermLiteral }

// InfluenceParser builds an influence graph from dbpedia triples. Edges
// point from the influencer to the influenced: an "influencedBy"
// statement is reversed, any other IRI-valued statement is kept in
// subject to object order. Literal statements are skipped.
type InfluenceParser struct {
	// Namespace is removed from resource IRIs to form node ids.
	Namespace string
}

func (p *InfluenceParser) ParseGraph(name string, r io.Reader) (*graph.Graph, error) {
	g := graph.New(name)
	skipped := 0

	err := readTriples(r, func(t rdf.Triple) error {
		if isLiteral(t) {
			skipped++
			return nil
		}

		subject := NodeID(t.Subj.String(), p.Namespace)
		object := NodeID(t.Obj.String(), p.Namespace)
		if t.Pred.String() == InfluencedByPredicate {
			g.AddEdge(object, subject)
		} else {
			g.AddEdge(subject, object)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	grip.InfoWhen(skipped > 0, message.Fields{
		"message": "skipped literal statements in influence graph",
		"graph":   name,
		"count":   skipped,
	})

	return g, nil
}

// BirthYearParser builds an annotation table from birthYear statements.
// Statements with other predicates are ignored. Years that do not parse as
// numbers are kept as strings.
type BirthYearParser struct {
	// Predicate overrides the predicate to collect.
	Predicate string
	// Namespace is removed from subject IRIs to form node ids.
	Namespace string
}

func (p *BirthYearParser) ParseAnnotations(r io.Reader) (annotate.Map, error) {
	predicate := p.Predicate
	if predicate == "" {
		predicate = BirthYearPredicate
	}

	out := annotate.Map{}
	err := readTriples(r, func(t rdf.Triple) error {
		if t.Pred.String() != predicate {
			return nil
		}
		id := NodeID(t.Subj.String(), p.Namespace)
		if !isLiteral(t) {
			return errors.Errorf("expected a literal object for '%s'", id)
		}

		value := t.Obj.String()
		if year, ok := graph.Year(value); ok {
			out[id] = year
		} else {
			out[id] = value
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return out, nil
}
