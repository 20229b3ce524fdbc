/*
Package annotate attaches per-node values from a lookup table to the nodes
of a graph and accounts for how many nodes were covered.

A node whose id is missing from the table is not an error: it is left
untouched, counted, and optionally reported as a diagnostic. Only the nodes
of the graph are iterated, so table keys without a matching node are
ignored.
*/
package annotate

import (
	"fmt"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

// DefaultMaxMissing bounds the number of unmatched ids a Report retains.
const DefaultMaxMissing = 1000

// Map is an annotation table keyed by node id. Values are years or small
// records of years as decoded from the source file.
type Map map[string]interface{}

// Target is the part of a graph the annotator needs: the full set of node
// ids and a way to set a node's data slot.
type Target interface {
	NodeIDs() []string
	SetData(string, interface{}) error
}

// Options control the diagnostics produced by Annotate.
type Options struct {
	// ReportMisses sends one diagnostic per unmatched id, in addition to
	// the summary line.
	ReportMisses bool `bson:"report_misses" json:"report_misses" yaml:"report_misses"`
	// MaxMissing caps the unmatched ids kept in the Report. Zero uses
	// DefaultMaxMissing; a negative value keeps none.
	MaxMissing int `bson:"max_missing" json:"max_missing" yaml:"max_missing"`
}

func (o Options) maxMissing() int {
	switch {
	case o.MaxMissing == 0:
		return DefaultMaxMissing
	case o.MaxMissing < 0:
		return 0
	default:
		return o.MaxMissing
	}
}

// Report describes the coverage of a single annotation pass.
type Report struct {
	Matched   int      `bson:"matched" json:"matched" yaml:"matched"`
	Unmatched int      `bson:"unmatched" json:"unmatched" yaml:"unmatched"`
	Total     int      `bson:"total" json:"total" yaml:"total"`
	Missing   []string `bson:"missing" json:"missing" yaml:"missing"`
	// Truncated counts the unmatched ids dropped from Missing.
	Truncated int `bson:"truncated" json:"truncated" yaml:"truncated"`
}

// Coverage is the fraction of nodes that matched. An empty graph has full
// coverage.
func (r *Report) Coverage() float64 {
	if r.Total == 0 {
		return 1
	}
	return float64(r.Matched) / float64(r.Total)
}

func (r *Report) String() string { return fmt.Sprintf("%d/%d", r.Matched, r.Total) }

// Fields renders the report as a structured log message.
func (r *Report) Fields() message.Fields {
	return message.Fields{
		"matched":   r.Matched,
		"unmatched": r.Unmatched,
		"total":     r.Total,
		"coverage":  r.Coverage(),
		"truncated": r.Truncated,
	}
}

// Annotate sets the data slot of every node whose id is a key of m to the
// mapped value. m is only read. The reporter receives a miss for each
// unmatched id when opts.ReportMisses is set, and always receives the
// summary; a nil reporter is treated as NopReporter.
func Annotate(g Target, m Map, opts Options, r Reporter) *Report {
	if r == nil {
		r = NopReporter{}
	}

	limit := opts.maxMissing()
	report := &Report{Missing: []string{}}

	miss := func(id string) {
		report.Unmatched++
		if len(report.Missing) < limit {
			report.Missing = append(report.Missing, id)
		} else {
			report.Truncated++
		}
		if opts.ReportMisses {
			r.Miss(id)
		}
	}

	for _, id := range g.NodeIDs() {
		val, ok := m[id]
		if !ok {
			miss(id)
			continue
		}

		if err := g.SetData(id, val); err != nil {
			// the id came from the graph itself, so this is a broken Target
			grip.Error(message.WrapError(err, message.Fields{
				"message": "could not set data on enumerated node",
				"id":      id,
			}))
			miss(id)
			continue
		}
		report.Matched++
	}

	report.Total = report.Matched + report.Unmatched
	r.Summary(report)

	return report
}
