package annotate

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/causegraph/cgraph/graph"
	"github.com/mongodb/grip/send"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeGraph(ids ...string) *graph.Graph {
	g := graph.New("test")
	for _, id := range ids {
		g.AddNode(id)
	}
	return g
}

// shuffledTarget enumerates its nodes in a random order on every call.
type shuffledTarget struct {
	*graph.Graph
	rng *rand.Rand
}

func (s shuffledTarget) NodeIDs() []string {
	ids := s.Graph.NodeIDs()
	s.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// rejectingTarget refuses to set data on one of its own nodes.
type rejectingTarget struct {
	*graph.Graph
	reject string
}

func (r rejectingTarget) SetData(id string, val interface{}) error {
	if id == r.reject {
		return fmt.Errorf("cannot set data on '%s'", id)
	}
	return r.Graph.SetData(id, val)
}

type recordingReporter struct {
	misses    []string
	summaries []*Report
}

func (r *recordingReporter) Miss(id string) { r.misses = append(r.misses, id) }
func (r *recordingReporter) Summary(report *Report) { r.summaries = append(r.summaries, report) }

func TestAnnotateScenarios(t *testing.T) {
	t.Run("PartialCoverage", func(t *testing.T) {
		g := makeGraph("a", "b", "c")
		require.NoError(t, g.SetData("b", "untouched"))

		report := Annotate(g, Map{"a": 1990, "c": 2001}, Options{}, nil)
		assert.Equal(t, 1990, g.Data("a"))
		assert.Equal(t, 2001, g.Data("c"))
		assert.Equal(t, "untouched", g.Data("b"))
		assert.Equal(t, 2, report.Matched)
		assert.Equal(t, 1, report.Unmatched)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, []string{"b"}, report.Missing)
		assert.Equal(t, "2/3", report.String())
	})
	t.Run("EmptyGraph", func(t *testing.T) {
		rep := &recordingReporter{}
		report := Annotate(makeGraph(), Map{"a": 1}, Options{ReportMisses: true}, rep)
		assert.Zero(t, report.Matched)
		assert.Zero(t, report.Unmatched)
		assert.Zero(t, report.Total)
		assert.Empty(t, rep.misses)
		require.Len(t, rep.summaries, 1)
		assert.Equal(t, "0/0", rep.summaries[0].String())
		assert.Equal(t, 1.0, report.Coverage())
	})
	t.Run("EmptyMap", func(t *testing.T) {
		g := makeGraph("a", "b")
		report := Annotate(g, Map{}, Options{}, nil)
		assert.Zero(t, report.Matched)
		assert.Equal(t, 2, report.Unmatched)
		assert.ElementsMatch(t, []string{"a", "b"}, report.Missing)
		assert.Nil(t, g.Data("a"))
		assert.Nil(t, g.Data("b"))
		assert.Zero(t, report.Coverage())
	})
	t.Run("ExtraKeysIgnored", func(t *testing.T) {
		g := makeGraph("a")
		report := Annotate(g, Map{"a": 1, "z": 1700}, Options{}, nil)
		assert.Equal(t, 1, report.Matched)
		assert.Equal(t, 1, report.Total)
		_, ok := g.Node("z")
		assert.False(t, ok)
	})
	t.Run("FullCoverage", func(t *testing.T) {
		report := Annotate(makeGraph("a", "b"), Map{"a": 1, "b": 2}, Options{}, nil)
		assert.Zero(t, report.Unmatched)
		assert.Empty(t, report.Missing)
		assert.Equal(t, 1.0, report.Coverage())
	})
}

func TestAnnotateDoesNotMutateMap(t *testing.T) {
	m := Map{"a": 1, "z": 2}
	Annotate(makeGraph("a", "b"), m, Options{}, nil)
	assert.Equal(t, Map{"a": 1, "z": 2}, m)
}

func TestAnnotateIsIdempotent(t *testing.T) {
	g := makeGraph("a", "b", "c")
	m := Map{"a": 1990.0, "c": map[string]interface{}{"start": 2001.0}}

	first := Annotate(g, m, Options{}, nil)
	once := map[string]interface{}{}
	for _, n := range g.Nodes() {
		once[n.ID] = n.Data
	}

	second := Annotate(g, m, Options{}, nil)
	for _, n := range g.Nodes() {
		assert.Equal(t, once[n.ID], n.Data)
	}
	assert.Equal(t, first, second)
}

func TestAnnotateOrderIndependence(t *testing.T) {
	ids := []string{}
	m := Map{}
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("Q%d", i)
		ids = append(ids, id)
		if i%3 == 0 {
			m[id] = i
		}
	}

	baseline := Annotate(makeGraph(ids...), m, Options{}, nil)
	for seed := int64(1); seed <= 5; seed++ {
		target := shuffledTarget{Graph: makeGraph(ids...), rng: rand.New(rand.NewSource(seed))}
		report := Annotate(target, m, Options{}, nil)
		assert.Equal(t, baseline.Matched, report.Matched)
		assert.Equal(t, baseline.Unmatched, report.Unmatched)
		assert.Equal(t, baseline.Total, report.Total)
		assert.ElementsMatch(t, baseline.Missing, report.Missing)
	}
}

func TestAnnotateMissingCap(t *testing.T) {
	g := makeGraph("a", "b", "c", "d", "e")

	report := Annotate(g, Map{"a": 1}, Options{MaxMissing: 2}, nil)
	assert.Equal(t, 4, report.Unmatched)
	assert.Len(t, report.Missing, 2)
	assert.Equal(t, 2, report.Truncated)
	assert.Equal(t, 5, report.Total)

	report = Annotate(g, Map{"a": 1}, Options{MaxMissing: -1}, nil)
	assert.Equal(t, 4, report.Unmatched)
	assert.Empty(t, report.Missing)
	assert.Equal(t, 4, report.Truncated)
}

func TestAnnotateFailedSetCountsAsMiss(t *testing.T) {
	target := rejectingTarget{Graph: makeGraph("a", "b", "c"), reject: "b"}

	rep := &recordingReporter{}
	report := Annotate(target, Map{"a": 1, "b": 2}, Options{ReportMisses: true}, rep)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 2, report.Unmatched)
	assert.Equal(t, 3, report.Total)
	assert.ElementsMatch(t, []string{"b", "c"}, report.Missing)
	assert.ElementsMatch(t, []string{"b", "c"}, rep.misses)
	assert.Equal(t, report.Unmatched, len(report.Missing)+report.Truncated)
	assert.Nil(t, target.Data("b"))

	report = Annotate(target, Map{"b": 2}, Options{MaxMissing: 1}, nil)
	assert.Equal(t, 3, report.Unmatched)
	assert.Equal(t, report.Unmatched, len(report.Missing)+report.Truncated)
}

func TestAnnotateMissDiagnostics(t *testing.T) {
	g := makeGraph("a", "b", "c")

	rep := &recordingReporter{}
	Annotate(g, Map{"a": 1}, Options{}, rep)
	assert.Empty(t, rep.misses)
	assert.Len(t, rep.summaries, 1)

	rep = &recordingReporter{}
	Annotate(g, Map{"a": 1}, Options{ReportMisses: true}, rep)
	assert.Equal(t, []string{"b", "c"}, rep.misses)
	assert.Len(t, rep.summaries, 1)
}

func TestGripReporter(t *testing.T) {
	sender := send.MakeInternalLogger()
	rep := NewGripReporter("dbpedia", sender)

	Annotate(makeGraph("a", "b"), Map{"a": 1}, Options{ReportMisses: true}, rep)
	require.Equal(t, 2, sender.Len())

	miss := sender.GetMessage()
	assert.Contains(t, miss.Message.String(), "b")

	summary := sender.GetMessage()
	assert.Contains(t, summary.Message.String(), "1/2")
	assert.Contains(t, summary.Message.String(), "dbpedia")
}

func TestLabels(t *testing.T) {
	g := makeGraph("Q1", "Q2", "Q3")

	report := Labels(g, map[string]string{"Q1": "Plato", "Q3": " ", "Q9": "Nobody"}, Options{}, nil)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 2, report.Unmatched)

	n, _ := g.Node("Q1")
	assert.Equal(t, "Plato - Q1", n.Label)
	n, _ = g.Node("Q3")
	assert.Empty(t, n.Label)
}
