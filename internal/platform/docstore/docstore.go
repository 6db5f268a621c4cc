// Package docstore defines the boundary to the hosted document database.
// Live queries deliver full-collection snapshots, never deltas: every change
// re-materializes the complete result set.
package docstore

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when no document exists under the given key.
var ErrNotFound = errors.New("docstore: document not found")

// Query describes a live or one-shot collection query.
// Filter entries match on equality; when the stored field is an array, a
// filter value matches if the array contains it (used for group membership).
// OrderBy, when set, sorts ascending with ties broken by backend insertion order.
type Query struct {
	Collection string
	Filter     map[string]any
	OrderBy    string
}

// Snapshot is one complete delivery of a live query's current result set.
type Snapshot []Document

// Client is the document database boundary.
type Client interface {
	// Watch opens a live query. The returned subscription delivers the initial
	// full result set followed by a full re-materialization after every change.
	Watch(ctx context.Context, q Query) (*Subscription, error)
	// Insert adds a document and returns its backend-assigned key.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Get point-reads a document by key. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set writes a document under an explicit key, creating it if needed.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document by key. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// Subscription is a cancellable live-query handle. Close releases the
// listener; it is safe to call more than once and from any goroutine.
type Subscription struct {
	snapshots chan Snapshot
	errs      chan error
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		snapshots: make(chan Snapshot, 8),
		errs:      make(chan error, 4),
		cancel:    cancel,
	}
}

// Snapshots returns the channel of full result-set deliveries.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Errors returns the channel of query failures. The subscription stays open
// after an error; the consumer keeps its last-good snapshot.
func (s *Subscription) Errors() <-chan error {
	return s.errs
}

// Close releases the live query.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// publish delivers a snapshot, evicting the oldest undelivered one when the
// consumer lags. Only the newest materialization matters.
func (s *Subscription) publish(snap Snapshot) {
	for {
		select {
		case s.snapshots <- snap:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}

func (s *Subscription) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}
