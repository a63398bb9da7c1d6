package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"starmobiles/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

func TestBlobStorage_Upload(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	store := NewBlobStorage(bucket, "https://cdn.example.com/images/")

	url, err := store.Upload(ctx, "products/abc.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/products/abc.png", url)

	data, err := bucket.ReadAll(ctx, "products/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	attrs, err := bucket.Attributes(ctx, "products/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", attrs.ContentType)
}

func TestBlobStorage_Upload_RelativeURL(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	url, err := NewBlobStorage(bucket, "").Upload(ctx, "a.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/a.jpg", url)
}

func TestBlobStorage_Open(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	store := NewBlobStorage(bucket, "")
	_, err := store.Upload(ctx, "products/abc.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	img, err := store.Open(ctx, "products/abc.png")
	require.NoError(t, err)
	defer img.Body.Close()

	data, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(len("png-bytes")), img.Size)

	_, err = store.Open(ctx, "products/missing.png")
	assert.ErrorIs(t, err, service.ErrImageNotFound)
}
