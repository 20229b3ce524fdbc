package units

import (
	"context"
	"fmt"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/pipeline"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	annotateGraphJobName = "annotate-graph"
)

type annotateGraphJob struct {
	Options cgraph.RunOptions `bson:"options" json:"options" yaml:"options"`
	Result  *pipeline.Result  `bson:"result,omitempty" json:"result,omitempty" yaml:"result,omitempty"`

	job.Base `bson:"metadata" json:"metadata" yaml:"metadata"`
	runner   *pipeline.Runner
}

func init() {
	registry.AddJobType(annotateGraphJobName, func() amboy.Job { return makeAnnotateGraphJob() })
}

func makeAnnotateGraphJob() *annotateGraphJob {
	j := &annotateGraphJob{
		Base: job.Base{
			JobType: amboy.JobType{
				Name:    annotateGraphJobName,
				Version: 1,
			},
		},
	}

	j.SetDependency(dependency.NewAlways())
	return j
}

// NewAnnotateGraphJob returns a job that performs one complete run.
func NewAnnotateGraphJob(opts cgraph.RunOptions) amboy.Job {
	j := makeAnnotateGraphJob()
	j.Options = opts
	j.SetID(fmt.Sprintf("%s.%s.%s", annotateGraphJobName, opts.Name, utility.RandomString()))
	return j
}

func (j *annotateGraphJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	if j.runner == nil {
		j.runner = &pipeline.Runner{}
	}

	res, err := j.runner.Run(ctx, j.Options)
	if err != nil {
		j.AddError(errors.Wrapf(err, "run '%s' failed", j.Options.Name))
		return
	}
	j.Result = res

	grip.Info(message.Fields{
		"job":       j.ID(),
		"run":       j.Options.Name,
		"artifacts": len(res.Artifacts),
	})
}
