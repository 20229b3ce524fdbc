package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphConstruction(t *testing.T) {
	assert := assert.New(t)

	g := New("test")
	assert.Equal(0, g.Len())

	a := g.AddNode("a")
	assert.Equal("a", a.ID)
	assert.Same(a, g.AddNode("a"))
	assert.Equal(1, g.Len())

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	assert.Equal(3, g.Len())
	assert.Len(g.Edges(), 2)
	assert.Equal([]string{"a", "b", "c"}, g.NodeIDs())

	_, ok := g.Node("c")
	assert.True(ok)
	_, ok = g.Node("z")
	assert.False(ok)
}

func TestGraphData(t *testing.T) {
	g := New("test")
	g.AddNode("a")

	require.NoError(t, g.SetData("a", 1990.0))
	assert.Equal(t, 1990.0, g.Data("a"))
	assert.Nil(t, g.Data("missing"))

	err := g.SetData("missing", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	require.NoError(t, g.SetLabel("a", "Alpha"))
	n, _ := g.Node("a")
	assert.Equal(t, "Alpha", n.Label)
	assert.Error(t, g.SetLabel("missing", "x"))
}

func TestYear(t *testing.T) {
	for name, test := range map[string]struct {
		data     interface{}
		expected float64
		ok       bool
	}{
		"Nil":          {data: nil},
		"Float":        {data: 1990.0, expected: 1990, ok: true},
		"Int":          {data: 1879, expected: 1879, ok: true},
		"Int64":        {data: int64(-350), expected: -350, ok: true},
		"String":       {data: "1879", expected: 1879, ok: true},
		"NegativeYear": {data: "-0350", expected: -350, ok: true},
		"BadString":    {data: "circa 1900"},
		"Record":       {data: map[string]interface{}{"start": 2001.0, "end": 2005.0}, expected: 2001, ok: true},
		"RecordYear":   {data: map[string]interface{}{"year": 1700}, expected: 1700, ok: true},
		"YAMLRecord":   {data: map[interface{}]interface{}{"birth": 1564}, expected: 1564, ok: true},
		"EmptyRecord":  {data: map[string]interface{}{"other": 1}},
		"Slice":        {data: []int{1}},
	} {
		t.Run(name, func(t *testing.T) {
			year, ok := Year(test.data)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.expected, year)
		})
	}
}
