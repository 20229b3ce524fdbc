package annotate

import (
	"fmt"
	"strings"
)

// LabelTarget is a graph whose node labels can be set.
type LabelTarget interface {
	NodeIDs() []string
	SetLabel(string, string) error
}

// Labels sets "label - id" on every node with an entry in labels, using
// the same coverage accounting as Annotate. Nodes without an entry keep
// their existing label. Blank labels count as misses.
func Labels(g LabelTarget, labels map[string]string, opts Options, r Reporter) *Report {
	values := make(Map, len(labels))
	for id, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		values[id] = fmt.Sprintf("%s - %s", label, id)
	}

	return Annotate(labelAdapter{g}, values, opts, r)
}

type labelAdapter struct{ LabelTarget }

func (a labelAdapter) SetData(id string, v interface{}) error {
	return a.SetLabel(id, v.(string))
}
