package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFS stores attachments in the deployment's GridFS bucket. Fetch URLs are
// served by the file gateway in front of the bucket, so ResolveURL only
// confirms existence and joins the public base URL with the object key.
type GridFS struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFS creates a bucket-backed store. baseURL is the public file
// gateway, e.g. https://files.example.com.
func NewGridFS(db *mongo.Database, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("attachments"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFS{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put implements Store. The v1 gridfs API carries no context; the upload
// runs to completion or driver timeout.
func (g *GridFS) Put(_ context.Context, key string, data []byte, contentType string) error {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if _, err := g.bucket.UploadFromStream(key, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// ResolveURL implements Store.
func (g *GridFS) ResolveURL(_ context.Context, key string) (string, error) {
	cursor, err := g.bucket.Find(bson.M{"filename": key})
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", key, err)
	}
	defer func() { _ = cursor.Close(context.Background()) }()
	if !cursor.Next(context.Background()) {
		return "", fmt.Errorf("resolve %s: object not found", key)
	}
	return g.baseURL + "/" + key, nil
}
