/*
Package storage persists rendered artifacts to a pail bucket, either a
local directory or an s3 bucket.
*/
package storage

import (
	"bytes"
	"context"
	"os"

	"github.com/causegraph/cgraph/export"
	"github.com/evergreen-ci/pail"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// BucketType describes the name of the blob storage backing a pail Bucket
// implementation.
type BucketType string

const (
	BucketS3    BucketType = "s3"
	BucketLocal BucketType = "local"

	defaultS3Region = "us-east-1"
)

func (t BucketType) Validate() error {
	switch t {
	case BucketS3, BucketLocal:
		return nil
	default:
		return errors.Errorf("'%s' is not a supported bucket type", t)
	}
}

// Create returns a pail Bucket backed by BucketType. For local buckets
// name is a directory; for s3 it is the bucket name.
func (t BucketType) Create(ctx context.Context, name, prefix string) (pail.Bucket, error) {
	var b pail.Bucket
	var err error

	switch t {
	case BucketS3:
		opts := pail.S3Options{
			Name:   name,
			Prefix: prefix,
			Region: defaultS3Region,
		}
		b, err = pail.NewS3Bucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	case BucketLocal:
		if err = os.MkdirAll(name, 0755); err != nil {
			return nil, errors.Wrapf(err, "problem creating local bucket '%s'", name)
		}
		opts := pail.LocalOptions{
			Path:   name,
			Prefix: prefix,
		}
		b, err = pail.NewLocalBucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Errorf("'%s' is not a supported bucket type", t)
	}

	if err = b.Check(ctx); err != nil {
		return nil, errors.Wrapf(err, "problem checking %s bucket '%s'", t, name)
	}
	return b, nil
}

// Persist writes every artifact to the bucket. If any write fails, the
// keys written by this call, including the one that failed, are removed
// and the write error is returned, so a failed run leaves no partial
// output behind. Keys are written in place: an artifact that replaced the
// output of an earlier run is removed along with the rest.
func Persist(ctx context.Context, bucket pail.Bucket, artifacts []export.Artifact) error {
	written := make([]string, 0, len(artifacts))

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(rollback(ctx, bucket, written, err), "persist canceled")
		}

		if err := bucket.Put(ctx, a.Name, bytes.NewReader(a.Data)); err != nil {
			err = errors.Wrapf(err, "problem writing '%s'", a.Name)
			return rollback(ctx, bucket, append(written, a.Name), err)
		}
		written = append(written, a.Name)
		grip.Debugf("wrote artifact '%s' (%d bytes)", a.Name, len(a.Data))
	}

	return nil
}

func rollback(ctx context.Context, bucket pail.Bucket, keys []string, cause error) error {
	if len(keys) == 0 {
		return cause
	}

	// removal must run even when ctx is what failed
	cleanupCtx := context.Background()
	if ctx.Err() == nil {
		cleanupCtx = ctx
	}

	if err := bucket.RemoveMany(cleanupCtx, keys...); err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message": "problem removing partial output",
			"keys":    keys,
		}))
	}
	return cause
}
