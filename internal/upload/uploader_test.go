package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/platform/blob"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoresJPEG(t *testing.T) {
	store := blob.NewMemory()
	u := New(store, "images", 70, zap.NewNop())

	url, err := u.Upload(context.Background(), bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(url, "mem://images/") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q", url)
	}
	if store.Len() != 1 {
		t.Fatalf("stored objects = %d, want 1", store.Len())
	}

	key := strings.TrimPrefix(url, "mem://")
	data, contentType, ok := store.Object(key)
	if !ok {
		t.Fatalf("object %q missing", key)
	}
	if contentType != "image/jpeg" {
		t.Errorf("contentType = %q", contentType)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("stored bytes are not a jpeg: %v", err)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	store := blob.NewMemory()
	u := New(store, "images", 70, zap.NewNop())

	_, err := u.Upload(context.Background(), strings.NewReader("not an image"))
	if err == nil {
		t.Fatal("Upload() succeeded on garbage input")
	}
	if store.Len() != 0 {
		t.Errorf("stored objects = %d, want 0 after decode failure", store.Len())
	}
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte, string) error {
	return errors.New("transport down")
}

func (failingStore) ResolveURL(context.Context, string) (string, error) {
	return "", errors.New("transport down")
}

func TestUploadSurfacesTransportFailure(t *testing.T) {
	u := New(failingStore{}, "images", 70, zap.NewNop())
	_, err := u.Upload(context.Background(), bytes.NewReader(pngBytes(t)))
	if err == nil {
		t.Fatal("Upload() succeeded despite failing store")
	}
}

func TestUploadKeysAreUnique(t *testing.T) {
	store := blob.NewMemory()
	u := New(store, "images", 70, zap.NewNop())

	first, err := u.Upload(context.Background(), bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	second, err := u.Upload(context.Background(), bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if first == second {
		t.Errorf("both uploads produced %q", first)
	}
	if store.Len() != 2 {
		t.Errorf("stored objects = %d, want 2", store.Len())
	}
}
