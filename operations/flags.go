package operations

import (
	"strings"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/annotate"
	"github.com/causegraph/cgraph/export"
	"github.com/causegraph/cgraph/layout"
	"github.com/causegraph/cgraph/parser"
	"github.com/causegraph/cgraph/storage"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	graphFlagName            = "graph"
	graphFormatFlagName      = "graph-format"
	annotationsFlagName      = "annotations"
	annotationFormatFlagName = "annotation-format"
	labelsFlagName           = "labels"
	namespaceFlagName        = "namespace"

	nameFlagName       = "name"
	outputFlagName     = "output"
	bucketTypeFlagName = "bucket-type"
	prefixFlagName     = "prefix"
	basenameFlagName   = "basename"
	formatFlagName     = "format"

	layoutFlagName     = "layout"
	iterationsFlagName = "iterations"

	reportMissesFlagName = "report-misses"
	maxMissingFlagName   = "max-missing"

	configFlagName     = "config"
	numWorkersFlagName = "workers"

	thresholdFlagName = "threshold"
	limitFlagName     = "limit"
	stripFlagName     = "strip-prefix"
	dotFlagName       = "dot"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func inputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(graphFlagName, "g"),
			Usage: "path to the graph source (dot or n-triples)",
		},
		cli.StringFlag{
			Name:  graphFormatFlagName,
			Usage: "format of the graph source: 'dot' or 'nt' (inferred from the extension when unset)",
		},
		cli.StringFlag{
			Name:  joinFlagNames(annotationsFlagName, "a"),
			Usage: "path to the annotation table (json, yaml, or n-triples)",
		},
		cli.StringFlag{
			Name:  annotationFormatFlagName,
			Usage: "format of the annotation table: 'json', 'yaml', or 'nt' (inferred from the extension when unset)",
		},
		cli.StringFlag{
			Name:  namespaceFlagName,
			Usage: "namespace removed from n-triples resource iris to form node ids",
			Value: parser.DefaultNamespace,
		},
		cli.BoolFlag{
			Name:  reportMissesFlagName,
			Usage: "log a warning for every node without an annotation",
		},
		cli.IntFlag{
			Name:  maxMissingFlagName,
			Usage: "maximum number of unmatched node ids to keep in the report",
			Value: annotate.DefaultMaxMissing,
		})
}

func outputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  nameFlagName,
			Usage: "name of the run (defaults to the graph file name)",
		},
		cli.StringFlag{
			Name:  labelsFlagName,
			Usage: "path to a json or yaml table of display labels",
		},
		cli.StringFlag{
			Name:  joinFlagNames(outputFlagName, "o"),
			Usage: "output directory for local buckets, or the s3 bucket name",
			Value: ".",
		},
		cli.StringFlag{
			Name:  bucketTypeFlagName,
			Usage: "type of output bucket: 'local' or 's3'",
			Value: string(storage.BucketLocal),
		},
		cli.StringFlag{
			Name:  prefixFlagName,
			Usage: "prefix for every output object",
		},
		cli.StringFlag{
			Name:  basenameFlagName,
			Usage: "base name of the output objects (defaults to the run name)",
		},
		cli.StringSliceFlag{
			Name:  joinFlagNames(formatFlagName, "f"),
			Usage: "output format, may be repeated: json, bson, yaml, dot, binary",
		},
		cli.StringFlag{
			Name:  layoutFlagName,
			Usage: "layout to compute: 'none', 'force', or 'time'",
			Value: string(layout.None),
		},
		cli.IntFlag{
			Name:  iterationsFlagName,
			Usage: "number of force layout iterations",
			Value: layout.DefaultIterations,
		})
}

func batchFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(configFlagName, "c"),
			Usage: "path to a yaml batch configuration",
		},
		cli.IntFlag{
			Name:  numWorkersFlagName,
			Usage: "number of runs to execute concurrently (overrides the configuration)",
		})
}

func reportPathFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(outputFlagName, "o"),
		Usage: "path to write the report to, printed to standard output when unset",
	})
}

func setFlagOrFirstPositional(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		val := c.String(name)
		if val == "" {
			if c.NArg() != 1 {
				return errors.Errorf("must specify exactly one positional argument for '%s'", name)
			}

			val = c.Args().Get(0)
		}

		return c.Set(name, val)
	}
}

////////////////////////////////////////////////////////////////////////
//
// Option Builders

func annotateOptionsFromFlags(c *cli.Context) annotate.Options {
	return annotate.Options{
		ReportMisses: c.Bool(reportMissesFlagName),
		MaxMissing:   c.Int(maxMissingFlagName),
	}
}

func runOptionsFromFlags(c *cli.Context) cgraph.RunOptions {
	formats := []export.Format{}
	for _, f := range c.StringSlice(formatFlagName) {
		formats = append(formats, export.Format(f))
	}

	return cgraph.RunOptions{
		Name:             c.String(nameFlagName),
		GraphPath:        c.String(graphFlagName),
		GraphFormat:      parser.GraphFormat(c.String(graphFormatFlagName)),
		AnnotationPath:   c.String(annotationsFlagName),
		AnnotationFormat: parser.AnnotationFormat(c.String(annotationFormatFlagName)),
		LabelsPath:       c.String(labelsFlagName),
		Namespace:        c.String(namespaceFlagName),
		Annotate:         annotateOptionsFromFlags(c),
		Layout: layout.Options{
			Kind:       layout.Kind(c.String(layoutFlagName)),
			Iterations: c.Int(iterationsFlagName),
		},
		Output: cgraph.OutputOptions{
			BucketType: storage.BucketType(c.String(bucketTypeFlagName)),
			Bucket:     c.String(outputFlagName),
			Prefix:     c.String(prefixFlagName),
			Basename:   c.String(basenameFlagName),
			Formats:    formats,
		},
	}
}
