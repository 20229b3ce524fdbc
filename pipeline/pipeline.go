/*
Package pipeline runs one annotate-and-export pass: load the graph, load
and apply the annotation table, optionally apply labels and compute a
layout, render every output, and persist the results.

Stages run sequentially. The context is checked between stages; a canceled
run discards its progress and writes nothing. Outputs are rendered in
full before any of them is persisted.
*/
package pipeline

import (
	"context"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/annotate"
	"github.com/causegraph/cgraph/export"
	"github.com/causegraph/cgraph/graph"
	"github.com/causegraph/cgraph/layout"
	"github.com/causegraph/cgraph/parser"
	"github.com/causegraph/cgraph/storage"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
)

// Result summarizes a completed run.
type Result struct {
	Name        string           `bson:"name" json:"name" yaml:"name"`
	Nodes       int              `bson:"nodes" json:"nodes" yaml:"nodes"`
	Edges       int              `bson:"edges" json:"edges" yaml:"edges"`
	Annotations *annotate.Report `bson:"annotations,omitempty" json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Labels      *annotate.Report `bson:"labels,omitempty" json:"labels,omitempty" yaml:"labels,omitempty"`
	Artifacts   []string         `bson:"artifacts" json:"artifacts" yaml:"artifacts"`
}

// Runner executes runs. The zero value logs diagnostics to the process
// sender.
type Runner struct {
	// Sender receives annotation diagnostics. Nil uses the grip sender.
	Sender send.Sender
}

// Run executes a run with the default Runner.
func Run(ctx context.Context, opts cgraph.RunOptions) (*Result, error) {
	return (&Runner{}).Run(ctx, opts)
}

// Load performs the load and annotate stages only, returning the
// annotated graph. It is the shared front half of Run and the analysis
// commands.
func (r *Runner) Load(ctx context.Context, opts *cgraph.RunOptions) (*graph.Graph, *Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid run options")
	}

	g, err := parser.LoadGraph(opts.GraphPath, opts.GraphFormat, opts.Namespace)
	if err != nil {
		return nil, nil, errors.Wrap(err, "problem loading graph")
	}
	grip.Info(message.Fields{
		"message": "loaded graph",
		"run":     opts.Name,
		"path":    opts.GraphPath,
		"nodes":   g.Len(),
		"edges":   len(g.Edges()),
	})

	res := &Result{Name: opts.Name, Nodes: g.Len(), Edges: len(g.Edges())}

	if opts.AnnotationPath != "" {
		if err = ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(err, "run canceled before annotation")
		}

		var values annotate.Map
		values, err = parser.LoadAnnotations(opts.AnnotationPath, opts.AnnotationFormat, opts.Namespace)
		if err != nil {
			return nil, nil, errors.Wrap(err, "problem loading annotations")
		}

		res.Annotations = annotate.Annotate(g, values, opts.Annotate,
			annotate.NewGripReporter(opts.Name, r.Sender))
	}

	if opts.LabelsPath != "" {
		if err = ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(err, "run canceled before labeling")
		}

		var labels map[string]string
		labels, err = parser.LoadLabels(opts.LabelsPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "problem loading labels")
		}

		res.Labels = annotate.Labels(g, labels, annotate.Options{MaxMissing: -1},
			annotate.NewGripReporter(opts.Name+" labels", r.Sender))
	}

	return g, res, nil
}

// Run executes every stage of the run described by opts.
func (r *Runner) Run(ctx context.Context, opts cgraph.RunOptions) (*Result, error) {
	g, res, err := r.Load(ctx, &opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "run canceled before layout")
	}
	positions, err := layout.Run(g, opts.Layout)
	if err != nil {
		return nil, errors.Wrap(err, "problem computing layout")
	}

	artifacts, err := export.Render(g, positions, opts.Output.Formats, opts.Output.Basename)
	if err != nil {
		return nil, errors.Wrap(err, "problem serializing graph")
	}

	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "run canceled before writing output")
	}
	bucket, err := opts.Output.BucketType.Create(ctx, opts.Output.Bucket, opts.Output.Prefix)
	if err != nil {
		return nil, errors.Wrap(err, "problem opening output bucket")
	}
	if err = storage.Persist(ctx, bucket, artifacts); err != nil {
		return nil, errors.Wrap(err, "problem writing output")
	}

	for _, a := range artifacts {
		res.Artifacts = append(res.Artifacts, a.Name)
	}

	grip.Info(message.Fields{
		"message":   "run complete",
		"run":       opts.Name,
		"artifacts": res.Artifacts,
		"bucket":    opts.Output.Bucket,
		"prefix":    opts.Output.Prefix,
	})

	return res, nil
}
