package cgraph

import (
	"path/filepath"
	"strings"

	"github.com/causegraph/cgraph/annotate"
	"github.com/causegraph/cgraph/export"
	"github.com/causegraph/cgraph/layout"
	"github.com/causegraph/cgraph/parser"
	"github.com/causegraph/cgraph/storage"
	"github.com/causegraph/cgraph/util"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// RunOptions configure one annotate-and-export run: where the graph and
// its annotations come from, and where the results go.
type RunOptions struct {
	Name             string                  `bson:"name" json:"name" yaml:"name"`
	GraphPath        string                  `bson:"graph" json:"graph" yaml:"graph"`
	GraphFormat      parser.GraphFormat      `bson:"graph_format" json:"graph_format" yaml:"graph_format"`
	AnnotationPath   string                  `bson:"annotations" json:"annotations" yaml:"annotations"`
	AnnotationFormat parser.AnnotationFormat `bson:"annotation_format" json:"annotation_format" yaml:"annotation_format"`
	LabelsPath       string                  `bson:"labels" json:"labels" yaml:"labels"`
	Annotate         annotate.Options        `bson:"annotate" json:"annotate" yaml:"annotate"`
	Layout           layout.Options          `bson:"layout" json:"layout" yaml:"layout"`
	Output           OutputOptions           `bson:"output" json:"output" yaml:"output"`
	// Namespace is removed from n-triples resource IRIs to form node ids.
	Namespace string `bson:"namespace" json:"namespace" yaml:"namespace"`
}

// OutputOptions describe the destination of a run.
type OutputOptions struct {
	BucketType storage.BucketType `bson:"bucket_type" json:"bucket_type" yaml:"bucket_type"`
	// Bucket is a directory for local buckets and a bucket name for s3.
	Bucket   string          `bson:"bucket" json:"bucket" yaml:"bucket"`
	Prefix   string          `bson:"prefix" json:"prefix" yaml:"prefix"`
	Basename string          `bson:"basename" json:"basename" yaml:"basename"`
	Formats  []export.Format `bson:"formats" json:"formats" yaml:"formats"`
}

// Validate checks the options and fills in defaults. Formats left unset
// are inferred from file extensions.
func (o *RunOptions) Validate() error {
	catcher := grip.NewBasicCatcher()

	if o.GraphPath == "" {
		catcher.New("must specify a graph source")
	} else {
		if o.GraphFormat == "" {
			o.GraphFormat = parser.GraphFormatFromPath(o.GraphPath)
		}
		catcher.Add(o.GraphFormat.Validate())
	}

	if o.Name == "" && o.GraphPath != "" {
		o.Name = strings.TrimSuffix(filepath.Base(o.GraphPath), filepath.Ext(o.GraphPath))
	}

	if o.AnnotationPath != "" {
		if o.AnnotationFormat == "" {
			o.AnnotationFormat = parser.AnnotationFormatFromPath(o.AnnotationPath)
		}
		catcher.Add(o.AnnotationFormat.Validate())
	}

	catcher.Add(o.Layout.Validate())
	catcher.Add(o.Output.validate(o.Name))

	return catcher.Resolve()
}

func (o *OutputOptions) validate(name string) error {
	catcher := grip.NewBasicCatcher()

	if o.BucketType == "" {
		o.BucketType = storage.BucketLocal
	}
	catcher.Add(o.BucketType.Validate())

	if o.Bucket == "" {
		if o.BucketType == storage.BucketLocal {
			o.Bucket = "."
		} else {
			catcher.New("must specify an s3 bucket name")
		}
	}

	if o.Basename == "" {
		o.Basename = name
	}

	if len(o.Formats) == 0 {
		o.Formats = []export.Format{export.JSON}
	}
	seen := map[export.Format]bool{}
	for _, f := range o.Formats {
		catcher.Add(f.Validate())
		catcher.ErrorfWhen(seen[f], "output format '%s' specified more than once", f)
		seen[f] = true
	}

	return catcher.Resolve()
}

// Configuration groups the runs of a batch.
type Configuration struct {
	Workers int          `bson:"workers" json:"workers" yaml:"workers"`
	Runs    []RunOptions `bson:"runs" json:"runs" yaml:"runs"`
}

func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.Workers < 0 {
		catcher.New("must specify a valid number of workers")
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if len(c.Runs) == 0 {
		catcher.New("must specify at least one run")
	}

	names := map[string]bool{}
	for idx := range c.Runs {
		run := &c.Runs[idx]
		if err := run.Validate(); err != nil {
			catcher.Wrapf(err, "invalid run %d (%s)", idx, run.Name)
			continue
		}
		catcher.ErrorfWhen(names[run.Name], "duplicate run name '%s'", run.Name)
		names[run.Name] = true
	}

	return catcher.Resolve()
}

// LoadConfiguration reads and validates a batch configuration file.
func LoadConfiguration(path string) (*Configuration, error) {
	conf := &Configuration{}
	if err := util.ReadFileYAML(path, conf); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in '%s'", path)
	}

	return conf, nil
}
