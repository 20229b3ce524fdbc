package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/causegraph/cgraph/annotate"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

type jsonMapParser struct{}

func (jsonMapParser) ParseAnnotations(r io.Reader) (annotate.Map, error) {
	out := annotate.Map{}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "problem decoding json object")
	}
	return out, nil
}

type yamlMapParser struct{}

func (yamlMapParser) ParseAnnotations(r io.Reader) (annotate.Map, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	raw := map[string]interface{}{}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "problem decoding yaml mapping")
	}

	out := make(annotate.Map, len(raw))
	for k, v := range raw {
		out[k] = normalize(v)
	}
	return out, nil
}

// normalize converts the interface-keyed maps produced by yaml.v2 into
// string-keyed maps so values serialize as json and bson documents.
func normalize(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, val := range vv {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		for idx := range vv {
			vv[idx] = normalize(vv[idx])
		}
		return vv
	default:
		return v
	}
}
