package units

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/causegraph/cgraph"
	"github.com/causegraph/cgraph/export"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllRegisteredUnitsAreRemoteSafe(t *testing.T) {
	assert := assert.New(t)

	for id := range registry.JobTypeNames() {
		grip.Infoln("testing job is remote ready:", id)
		factory, err := registry.GetJobFactory(id)
		assert.NoError(err)
		assert.NotNil(factory)
		job := factory()

		assert.NotNil(job)

		assert.Equal(id, job.Type().Name)

		assert.NotPanics(func() {
			dbjob, err := registry.MakeJobInterchange(job, amboy.JSON)

			assert.NoError(err)
			assert.NotNil(dbjob)
			assert.NotNil(dbjob.Dependency)
			assert.Equal(id, dbjob.Type)
		}, id)
	}
}

func writeInputs(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "influences.dot"), []byte("digraph { a -> b }"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "birth_years.json"), []byte(`{"a": 1879}`), 0644))
	return dir
}

func TestAnnotateGraphJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := writeInputs(t)

	j := NewAnnotateGraphJob(cgraph.RunOptions{
		Name:           "dbpedia",
		GraphPath:      filepath.Join(dir, "influences.dot"),
		AnnotationPath: filepath.Join(dir, "birth_years.json"),
		Output:         cgraph.OutputOptions{Bucket: filepath.Join(dir, "out")},
	})
	assert.Contains(t, j.ID(), "annotate-graph.dbpedia.")

	j.Run(ctx)
	require.NoError(t, j.Error())
	assert.True(t, j.Status().Completed)

	ag := j.(*annotateGraphJob)
	require.NotNil(t, ag.Result)
	assert.Equal(t, 1, ag.Result.Annotations.Matched)
	assert.FileExists(t, filepath.Join(dir, "out", "influences.json"))
}

func TestAnnotateGraphJobFailure(t *testing.T) {
	j := NewAnnotateGraphJob(cgraph.RunOptions{Name: "broken", GraphPath: filepath.Join(t.TempDir(), "nope.dot")})
	j.Run(context.Background())
	assert.Error(t, j.Error())
	assert.True(t, j.Status().Completed)
}

func TestRunBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := writeInputs(t)

	conf := &cgraph.Configuration{
		Workers: 2,
		Runs: []cgraph.RunOptions{
			{
				Name:           "dbpedia",
				GraphPath:      filepath.Join(dir, "influences.dot"),
				AnnotationPath: filepath.Join(dir, "birth_years.json"),
				Output:         cgraph.OutputOptions{Bucket: filepath.Join(dir, "out"), Prefix: "dbpedia"},
			},
			{
				Name:      "plain",
				GraphPath: filepath.Join(dir, "influences.dot"),
				Output: cgraph.OutputOptions{
					Bucket:  filepath.Join(dir, "out"),
					Prefix:  "plain",
					Formats: []export.Format{export.YAML},
				},
			},
		},
	}

	results, err := RunBatch(ctx, conf)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results["dbpedia"].Annotations.Matched)
	assert.Nil(t, results["plain"].Annotations)
	assert.FileExists(t, filepath.Join(dir, "out", "dbpedia", "influences.json"))
	assert.FileExists(t, filepath.Join(dir, "out", "plain", "influences.yaml"))
}

// closeRecordingQueue notes whether the queue was closed.
type closeRecordingQueue struct {
	amboy.Queue
	closed bool
}

func (q *closeRecordingQueue) Close(ctx context.Context) {
	q.closed = true
	q.Queue.Close(ctx)
}

func TestRunBatchClosesQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := writeInputs(t)

	conf := &cgraph.Configuration{
		Runs: []cgraph.RunOptions{{
			Name:      "plain",
			GraphPath: filepath.Join(dir, "influences.dot"),
			Output:    cgraph.OutputOptions{Bucket: filepath.Join(dir, "out")},
		}},
	}
	require.NoError(t, conf.Validate())

	q := &closeRecordingQueue{Queue: queue.NewLocalLimitedSize(1, 1)}
	results, err := runBatch(ctx, conf, q)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.True(t, q.closed)
}

func TestRunBatchReportsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := writeInputs(t)

	conf := &cgraph.Configuration{
		Runs: []cgraph.RunOptions{
			{
				Name:      "good",
				GraphPath: filepath.Join(dir, "influences.dot"),
				Output:    cgraph.OutputOptions{Bucket: filepath.Join(dir, "out")},
			},
			{
				Name:      "bad",
				GraphPath: filepath.Join(dir, "missing.dot"),
				Output:    cgraph.OutputOptions{Bucket: filepath.Join(dir, "out")},
			},
		},
	}

	results, err := RunBatch(ctx, conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.dot")
	assert.Contains(t, results, "good")
	assert.NotContains(t, results, "bad")

	_, err = RunBatch(ctx, &cgraph.Configuration{})
	assert.Error(t, err)
}
