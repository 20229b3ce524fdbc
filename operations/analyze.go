package operations

import (
	"context"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/graph"
	"github.com/causegraph/cgraph/parser"
	"github.com/causegraph/cgraph/pipeline"
	"github.com/causegraph/cgraph/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Analyze exposes reports over an annotated graph.
func Analyze() cli.Command {
	return cli.Command{
		Name:  "analyze",
		Usage: "report on the structure and annotation coverage of a graph",
		Subcommands: []cli.Command{
			gaps(),
			backEdges(),
			cycles(),
		},
	}
}

func analysisBefore() cli.BeforeFunc {
	return mergeBeforeFuncs(
		setFlagOrFirstPositional(graphFlagName),
		requireFileExists(graphFlagName),
		requireFileExists(annotationsFlagName),
	)
}

func loadAnnotated(c *cli.Context) (*graph.Graph, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := cgraph.RunOptions{
		GraphPath:        c.String(graphFlagName),
		GraphFormat:      parser.GraphFormat(c.String(graphFormatFlagName)),
		AnnotationPath:   c.String(annotationsFlagName),
		AnnotationFormat: parser.AnnotationFormat(c.String(annotationFormatFlagName)),
		Namespace:        c.String(namespaceFlagName),
		Annotate:         annotateOptionsFromFlags(c),
	}

	grip.Infoln("starting to load graph from:", opts.GraphPath)
	g, _, err := (&pipeline.Runner{}).Load(ctx, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "problem loading graph")
	}

	return g, nil
}

func writeReport(c *cli.Context, report interface{}) error {
	fn := c.String(outputFlagName)
	if fn == "" {
		return errors.WithStack(util.PrintJSON(report))
	}

	grip.Infoln("writing report to:", fn)
	return errors.Wrap(util.WriteJSON(fn, report), "problem writing report")
}

func gaps() cli.Command {
	return cli.Command{
		Name:      "gaps",
		Usage:     "rank the nodes without a year by pagerank, to prioritize annotation work",
		ArgsUsage: "[graph]",
		Flags: reportPathFlag(inputFlags(
			cli.IntFlag{
				Name:  limitFlagName,
				Usage: "number of nodes to report, zero reports all",
				Value: 100,
			})...),
		Before: analysisBefore(),
		Action: func(c *cli.Context) error {
			g, err := loadAnnotated(c)
			if err != nil {
				return errors.WithStack(err)
			}

			return writeReport(c, graph.NewGapReport(g, c.Int(limitFlagName)))
		},
	}
}

func backEdges() cli.Command {
	return cli.Command{
		Name:      "back-edges",
		Usage:     "find influence edges that point backwards in time",
		ArgsUsage: "[graph]",
		Flags: reportPathFlag(inputFlags(
			cli.Float64Flag{
				Name:  thresholdFlagName,
				Usage: "minimum number of years the source must follow the destination by",
				Value: 0,
			})...),
		Before: analysisBefore(),
		Action: func(c *cli.Context) error {
			g, err := loadAnnotated(c)
			if err != nil {
				return errors.WithStack(err)
			}

			report := graph.NewBackEdgeReport(g, c.Float64(thresholdFlagName))
			grip.Infof("found %d back edges of %d checked", len(report.Edges), report.Checked)
			return writeReport(c, report)
		},
	}
}

func cycles() cli.Command {
	return cli.Command{
		Name:      "cycles",
		Usage:     "list groups of mutually influencing nodes",
		ArgsUsage: "[graph]",
		Flags: reportPathFlag(inputFlags(
			cli.StringFlag{
				Name:  stripFlagName,
				Usage: "prefix to remove from node ids in the report",
			},
			cli.StringFlag{
				Name:  dotFlagName,
				Usage: "path to write the cycle members and their edges as a graphviz file",
			})...),
		Before: analysisBefore(),
		Action: func(c *cli.Context) error {
			g, err := loadAnnotated(c)
			if err != nil {
				return errors.WithStack(err)
			}

			report := graph.NewCycleReport(g, c.String(stripFlagName))
			grip.Infof("found %d cycles", len(report.Cycles))

			if fn := c.String(dotFlagName); fn != "" {
				grip.Infoln("writing cycle graph to:", fn)
				if err = util.WriteString(fn, report.Dot(g.Name)); err != nil {
					return errors.Wrap(err, "problem writing cycle graph")
				}
			}

			return writeReport(c, report)
		},
	}
}
