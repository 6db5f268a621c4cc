// Package upload turns raw image bytes into a stored JPEG attachment.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/platform/blob"
)

// Uploader compresses images to JPEG at a fixed quality and stores exactly
// one durable blob per successful call. Any failure aborts before a URL is
// handed out, so callers never attach a URL for a missing object.
type Uploader struct {
	store   blob.Store
	prefix  string
	quality int
	logger  *zap.Logger
}

// New creates an uploader writing JPEGs under the given key prefix at the
// given quality (1-100).
func New(store blob.Store, prefix string, quality int, logger *zap.Logger) *Uploader {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	if prefix == "" {
		prefix = "images"
	}
	return &Uploader{store: store, prefix: prefix, quality: quality, logger: logger}
}

// Upload decodes r as an image, re-encodes it as JPEG, stores it under a
// fresh key, and returns the resolved fetch URL. The URL is resolved only
// after the upload is confirmed.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: u.quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	key := u.prefix + "/" + strings.ReplaceAll(uuid.New().String(), "-", "") + ".jpg"
	if err := u.store.Put(ctx, key, buf.Bytes(), "image/jpeg"); err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}

	url, err := u.store.ResolveURL(ctx, key)
	if err != nil {
		// The blob is durable but unaddressable; surface the failure.
		return "", fmt.Errorf("resolve attachment url: %w", err)
	}

	u.logger.Info("uploaded attachment",
		zap.String("key", key),
		zap.String("source_format", format),
		zap.Int("bytes", buf.Len()))
	return url, nil
}
