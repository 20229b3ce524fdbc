/*
Package export serializes annotated graphs. Every format renders into
in-memory artifacts; nothing is written to a destination here, which lets
callers render all outputs before persisting any of them.
*/
package export

import (
	"github.com/causegraph/cgraph/graph"
	"github.com/causegraph/cgraph/layout"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Format names an output serialization.
type Format string

const (
	JSON   Format = "json"
	BSON   Format = "bson"
	YAML   Format = "yaml"
	Dot    Format = "dot"
	Binary Format = "binary"
)

// AllFormats lists every supported format.
func AllFormats() []string {
	return []string{string(JSON), string(BSON), string(YAML), string(Dot), string(Binary)}
}

func (f Format) Validate() error {
	if !utility.StringSliceContains(AllFormats(), string(f)) {
		return errors.Errorf("'%s' is not a supported output format", f)
	}
	return nil
}

// Artifact is one rendered output file.
type Artifact struct {
	Name string
	Data []byte
}

// Render serializes g in every requested format. basename names the
// single-file outputs ("<basename>.<format>"); the binary format produces
// its fixed set of files under "<basename>/". positions may be nil unless
// the binary format is requested.
func Render(g *graph.Graph, positions layout.Positions, formats []Format, basename string) ([]Artifact, error) {
	if basename == "" {
		basename = g.Name
	}

	out := []Artifact{}
	for _, f := range formats {
		var (
			artifacts []Artifact
			err       error
		)

		switch f {
		case JSON:
			artifacts, err = single(basename, f, func() ([]byte, error) { return MarshalJSON(g) })
		case BSON:
			artifacts, err = single(basename, f, func() ([]byte, error) { return MarshalBSON(g, positions) })
		case YAML:
			artifacts, err = single(basename, f, func() ([]byte, error) { return MarshalYAML(g, positions) })
		case Dot:
			artifacts, err = single(basename, f, func() ([]byte, error) { return []byte(g.Dot()), nil })
		case Binary:
			artifacts, err = MarshalBinary(g, positions, basename)
		default:
			err = f.Validate()
		}
		if err != nil {
			return nil, errors.Wrapf(err, "problem rendering %s output for '%s'", f, g.Name)
		}

		out = append(out, artifacts...)
	}

	grip.Infof("rendered %d artifacts for graph '%s'", len(out), g.Name)
	return out, nil
}

func single(basename string, f Format, render func() ([]byte, error)) ([]Artifact, error) {
	data, err := render()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return []Artifact{{Name: basename + "." + string(f), Data: data}}, nil
}
