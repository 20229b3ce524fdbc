package units

import (
	"context"
	"time"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/pipeline"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// RunBatch executes every run in conf as an independent job on a local
// queue and waits for all of them. Results of successful runs are returned
// keyed by run name; the error aggregates every failed run.
func RunBatch(ctx context.Context, conf *cgraph.Configuration) (map[string]*pipeline.Result, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid batch configuration")
	}

	return runBatch(ctx, conf, queue.NewLocalLimitedSize(conf.Workers, len(conf.Runs)))
}

// runBatch executes the runs on q, closing q before returning.
func runBatch(ctx context.Context, conf *cgraph.Configuration, q amboy.Queue) (map[string]*pipeline.Result, error) {
	defer q.Close(ctx)

	if err := q.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "problem starting queue")
	}
	grip.Infof("configured local queue with %d workers for %d runs", conf.Workers, len(conf.Runs))

	catcher := grip.NewBasicCatcher()
	for _, run := range conf.Runs {
		catcher.Wrapf(q.Put(ctx, NewAnnotateGraphJob(run)), "problem queuing run '%s'", run.Name)
	}
	if catcher.HasErrors() {
		return nil, catcher.Resolve()
	}

	if !amboy.WaitInterval(ctx, q, 100*time.Millisecond) {
		return nil, errors.Wrap(ctx.Err(), "batch did not complete")
	}

	results := map[string]*pipeline.Result{}
	for j := range q.Results(ctx) {
		if err := j.Error(); err != nil {
			catcher.Add(err)
			continue
		}

		ag, ok := j.(*annotateGraphJob)
		if !ok || ag.Result == nil {
			continue
		}
		results[ag.Options.Name] = ag.Result
	}

	grip.Info(message.Fields{
		"message":   "batch complete",
		"runs":      len(conf.Runs),
		"succeeded": len(results),
		"failed":    catcher.Len(),
	})

	return results, catcher.Resolve()
}
