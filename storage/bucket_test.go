package storage

import (
	"context"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/causegraph/cgraph/export"
	"github.com/evergreen-ci/pail"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBucket fails every Put for the named key.
type failingBucket struct {
	pail.Bucket
	failOn string
}

func (b *failingBucket) Put(ctx context.Context, key string, r io.Reader) error {
	if key == b.failOn {
		return errors.New("disk full")
	}
	return b.Bucket.Put(ctx, key, r)
}

// partialBucket writes the named key and then reports a failure, as an
// interrupted upload would.
type partialBucket struct {
	pail.Bucket
	failOn string
}

func (b *partialBucket) Put(ctx context.Context, key string, r io.Reader) error {
	if err := b.Bucket.Put(ctx, key, r); err != nil {
		return err
	}
	if key == b.failOn {
		return errors.New("connection reset")
	}
	return nil
}

func TestBucketTypeValidate(t *testing.T) {
	assert.NoError(t, BucketLocal.Validate())
	assert.NoError(t, BucketS3.Validate())
	assert.Error(t, BucketType("gridfs").Validate())
}

func TestCreateUnsupported(t *testing.T) {
	_, err := BucketType("gridfs").Create(context.Background(), "x", "")
	assert.Error(t, err)
}

func TestPersistLocal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	bucket, err := BucketLocal.Create(ctx, dir, "")
	require.NoError(t, err)

	artifacts := []export.Artifact{
		{Name: "graph.json", Data: []byte(`{"nodes":[]}`)},
		{Name: "graph/meta.json", Data: []byte(`{}`)},
	}
	require.NoError(t, Persist(ctx, bucket, artifacts))

	data, err := ioutil.ReadFile(filepath.Join(dir, "graph.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":[]}`, string(data))
	assert.FileExists(t, filepath.Join(dir, "graph", "meta.json"))
}

func TestPersistRollsBackOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	local, err := BucketLocal.Create(ctx, dir, "")
	require.NoError(t, err)
	bucket := &failingBucket{Bucket: local, failOn: "second.json"}

	err = Persist(ctx, bucket, []export.Artifact{
		{Name: "first.json", Data: []byte("1")},
		{Name: "second.json", Data: []byte("2")},
		{Name: "third.json", Data: []byte("3")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second.json")
	assert.Contains(t, err.Error(), "disk full")

	assert.NoFileExists(t, filepath.Join(dir, "first.json"))
	assert.NoFileExists(t, filepath.Join(dir, "third.json"))
}

func TestPersistRemovesPartialWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	local, err := BucketLocal.Create(ctx, dir, "")
	require.NoError(t, err)
	bucket := &partialBucket{Bucket: local, failOn: "graph/links.bin"}

	err = Persist(ctx, bucket, []export.Artifact{
		{Name: "graph/labels.json", Data: []byte("[]")},
		{Name: "graph/links.bin", Data: []byte{1, 2}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	assert.NoFileExists(t, filepath.Join(dir, "graph", "labels.json"))
	assert.NoFileExists(t, filepath.Join(dir, "graph", "links.bin"))
}

func TestPersistCanceled(t *testing.T) {
	dir := t.TempDir()
	bucket, err := BucketLocal.Create(context.Background(), dir, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Persist(ctx, bucket, []export.Artifact{{Name: "a.json", Data: []byte("1")}})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "a.json"))
}
