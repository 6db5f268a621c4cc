// Package blob defines the boundary to the hosted object storage used for
// message attachments. Objects are write-once: the application never
// overwrites or deletes a stored blob.
package blob

import "context"

// Store is the blob storage boundary.
type Store interface {
	// Put uploads the object under the given key. Returning nil means the
	// upload is durably confirmed.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// ResolveURL returns a durable fetch URL for a previously stored object.
	ResolveURL(ctx context.Context, key string) (string, error)
}
