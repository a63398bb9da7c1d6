// Package storage keeps uploaded product images in a gocloud.dev bucket.
package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"starmobiles/config"
	"starmobiles/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Registered bucket schemes: file://, mem://, gs://
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

const defaultBucketURL = "mem://"

type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// NewBlobStorage wraps an opened bucket. Returned URLs are publicBaseURL/key.
func NewBlobStorage(bucket *blob.Bucket, publicBaseURL string) service.ImageStorage {
	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *blobStorage) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return "", errors.Wrapf(err, "failed to write %s", key)
	}

	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to commit %s", key)
	}

	if s.publicBaseURL == "" {
		return "/" + key, nil
	}

	return s.publicBaseURL + "/" + key, nil
}

func (s *blobStorage) Open(ctx context.Context, key string) (*service.StoredImage, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, service.ErrImageNotFound
		}

		return nil, errors.Wrapf(err, "failed to open %s", key)
	}

	return &service.StoredImage{
		Body:        r,
		ContentType: r.ContentType(),
		Size:        r.Size(),
		ModTime:     r.ModTime(),
	}, nil
}

// Params defines the dependencies of the image storage.
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.ImageStorage, error) {
	bucketURL := defaultBucketURL
	publicBaseURL := ""
	if cfg := params.Config.Storage; cfg != nil {
		if cfg.BucketURL != "" {
			bucketURL = cfg.BucketURL
		}
		publicBaseURL = cfg.PublicBaseURL
	}

	bucket, err := blob.OpenBucket(params.Ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	params.Logger.Info("Image bucket opened", slog.String("url", bucketURL))

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobStorage(bucket, publicBaseURL), nil
}
