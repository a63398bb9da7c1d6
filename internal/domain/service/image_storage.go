package service

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

// ErrImageNotFound is returned by Open for an unknown key.
var ErrImageNotFound = errors.New("image not found")

// StoredImage is an open image object. Callers close Body.
type StoredImage struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// ImageStorage stores uploaded product images and returns their public URL.
type ImageStorage interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (url string, err error)
	Open(ctx context.Context, key string) (*StoredImage, error)
}
