package main

import (
	"testing"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildApp(t *testing.T) {
	app := buildApp()
	assert.Equal(t, "cgraph", app.Name)

	names := []string{}
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"annotate", "batch", "analyze"}, names)
}

func TestLoggingSetup(t *testing.T) {
	sender := grip.GetSender()
	orig := sender.Level()
	defer func() { _ = sender.SetLevel(orig) }()

	require.NoError(t, loggingSetup("cgraph-test", "warning"))
	assert.Equal(t, level.Warning, grip.GetSender().Level().Threshold)
	assert.Equal(t, "cgraph-test", grip.GetSender().Name())
}
