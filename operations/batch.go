package operations

import (
	"context"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/units"
	"github.com/causegraph/cgraph/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Batch executes every run of a yaml configuration file on a local
// worker queue.
func Batch() cli.Command {
	return cli.Command{
		Name:  "batch",
		Usage: "execute the runs described by a configuration file",
		Flags: batchFlags(),
		Before: mergeBeforeFuncs(
			setFlagOrFirstPositional(configFlagName),
			requireFileExists(configFlagName),
			requireNonNegativeInt(numWorkersFlagName),
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			conf, err := cgraph.LoadConfiguration(c.String(configFlagName))
			if err != nil {
				return errors.WithStack(err)
			}
			if workers := c.Int(numWorkersFlagName); workers > 0 {
				conf.Workers = workers
			}

			results, err := units.RunBatch(ctx, conf)
			grip.Infof("%d of %d runs completed", len(results), len(conf.Runs))
			if perr := util.PrintJSON(results); perr != nil {
				grip.Warning(perr)
			}

			return errors.Wrap(err, "batch encountered errors")
		},
	}
}
