package operations

import (
	"context"

	"github.com/causegraph/cgraph/pipeline"
	"github.com/causegraph/cgraph/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Annotate runs a single load, annotate, layout, and export pass
// described entirely by flags.
func Annotate() cli.Command {
	return cli.Command{
		Name:      "annotate",
		Usage:     "attach annotations to a graph and write it in one or more formats",
		ArgsUsage: "[graph]",
		Flags:     mergeFlags(inputFlags(), outputFlags()),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(graphFlagName),
			requireFileExists(graphFlagName),
			requireFileExists(annotationsFlagName),
			requireFileExists(labelsFlagName),
			requireNonNegativeInt(iterationsFlagName),
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			opts := runOptionsFromFlags(c)
			grip.Infoln("starting run for graph:", opts.GraphPath)

			res, err := pipeline.Run(ctx, opts)
			if err != nil {
				return errors.Wrap(err, "problem running annotation")
			}

			return errors.WithStack(util.PrintJSON(res))
		},
	}
}
