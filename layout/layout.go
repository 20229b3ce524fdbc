/*
Package layout assigns positions to the nodes of a graph. A force layout
runs gonum's Eades spring embedder; a time layout runs the same embedder
and then places every dated node on the y axis according to its year.
*/
package layout

import (
	"math"

	"github.com/causegraph/cgraph/graph"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/layout"
)

// Kind names a layout algorithm.
type Kind string

const (
	None  Kind = "none"
	Force Kind = "force"
	Time  Kind = "time"
)

const (
	DefaultIterations = 100
	DefaultScale      = 10
)

func (k Kind) Validate() error {
	switch k {
	case "", None, Force, Time:
		return nil
	default:
		return errors.Errorf("'%s' is not a supported layout", k)
	}
}

// Position is a point in layout space. Z is always zero for the layouts
// in this package but is carried for the binary position format.
type Position struct {
	X float64 `bson:"x" json:"x" yaml:"x"`
	Y float64 `bson:"y" json:"y" yaml:"y"`
	Z float64 `bson:"z" json:"z" yaml:"z"`
}

// Positions maps node ids to positions.
type Positions map[string]Position

type Options struct {
	Kind       Kind `bson:"kind" json:"kind" yaml:"kind"`
	Iterations int  `bson:"iterations" json:"iterations" yaml:"iterations"`
	// Scale is the distance on the y axis between consecutive years in a
	// time layout.
	Scale float64 `bson:"scale" json:"scale" yaml:"scale"`
}

func (o *Options) Validate() error {
	if err := o.Kind.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if o.Kind == "" {
		o.Kind = None
	}
	if o.Iterations < 0 {
		return errors.New("layout iterations must not be negative")
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	return nil
}

// Run computes the layout for g. A None layout returns nil positions.
func Run(g *graph.Graph, opts Options) (Positions, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	switch opts.Kind {
	case None:
		return nil, nil
	case Force:
		return runForce(g, opts.Iterations), nil
	case Time:
		return pinYears(g, runForce(g, opts.Iterations), opts.Scale), nil
	default:
		return nil, errors.Errorf("'%s' is not a supported layout", opts.Kind)
	}
}

func runForce(g *graph.Graph, iterations int) Positions {
	out := make(Positions, g.Len())
	if g.Len() == 0 {
		return out
	}

	eades := layout.EadesR2{
		Repulsion: 1,
		Rate:      0.05,
		Updates:   iterations,
		Theta:     0.2,
	}
	optimizer := layout.NewOptimizerR2(g.Directed(), eades.Update)

	steps := 0
	for optimizer.Update() {
		steps++
	}

	for _, n := range g.Nodes() {
		id, _ := g.GraphID(n.ID)
		vec := optimizer.Coord2(id)
		out[n.ID] = Position{X: finite(vec.X), Y: finite(vec.Y)}
	}

	grip.Debug(message.Fields{
		"message": "force layout complete",
		"graph":   g.Name,
		"nodes":   g.Len(),
		"steps":   steps,
	})

	return out
}

// pinYears replaces the y coordinate of every dated node with its offset
// from the earliest year in the graph.
func pinYears(g *graph.Graph, positions Positions, scale float64) Positions {
	minYear := math.Inf(1)
	dated := 0
	for _, n := range g.Nodes() {
		if year, ok := graph.Year(n.Data); ok {
			minYear = math.Min(minYear, year)
			dated++
		}
	}

	if dated == 0 {
		grip.Warningf("time layout of '%s' found no dated nodes", g.Name)
		return positions
	}

	for _, n := range g.Nodes() {
		year, ok := graph.Year(n.Data)
		if !ok {
			continue
		}
		pos := positions[n.ID]
		pos.Y = (year - minYear) * scale
		positions[n.ID] = pos
	}

	return positions
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
