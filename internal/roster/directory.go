// Package roster maintains the live list of groups the signed-in identity
// belongs to.
package roster

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
)

const groupCollection = "groups"

// Group is one row of the directory.
type Group struct {
	ID            string
	Name          string
	LatestMessage string
	Timestamp     time.Time
}

// Directory watches the group collection and keeps a full replacement list.
// Query errors keep the last-good list; a later successful delivery recovers
// silently.
type Directory struct {
	docs   docstore.Client
	bus    *bus.Bus
	logger *zap.Logger

	mu     sync.RWMutex
	groups []Group
	sub    *docstore.Subscription
	done   chan struct{}
}

// NewDirectory creates a stopped directory.
func NewDirectory(docs docstore.Client, b *bus.Bus, logger *zap.Logger) *Directory {
	return &Directory{docs: docs, bus: b, logger: logger}
}

// Start opens the membership live query for identity. Each snapshot replaces
// the whole list and publishes roster.updated.
func (d *Directory) Start(ctx context.Context, identity string) error {
	sub, err := d.docs.Watch(ctx, docstore.Query{
		Collection: groupCollection,
		Filter:     map[string]any{"members": identity},
	})
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.sub = sub
	d.done = make(chan struct{})
	d.mu.Unlock()

	go d.consume(sub, d.done)
	return nil
}

// Groups returns the current list.
func (d *Directory) Groups() []Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Group, len(d.groups))
	copy(out, d.groups)
	return out
}

// Stop releases the live query. Safe to call when never started.
func (d *Directory) Stop() {
	d.mu.Lock()
	sub, done := d.sub, d.done
	d.sub, d.done = nil, nil
	d.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	if done != nil {
		close(done)
	}
}

func (d *Directory) consume(sub *docstore.Subscription, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case snap := <-sub.Snapshots():
			groups := d.project(snap)
			d.mu.Lock()
			d.groups = groups
			d.mu.Unlock()
			d.bus.Emit(bus.KindRosterUpdated, groups)
		case err := <-sub.Errors():
			d.logger.Warn("group query failed", zap.Error(err))
			d.bus.Emit(bus.KindRosterError, err)
		}
	}
}

// project decodes a snapshot into the full replacement list. Documents
// without a name are dropped; other fields fall back to defaults.
func (d *Directory) project(snap docstore.Snapshot) []Group {
	groups := make([]Group, 0, len(snap))
	for _, doc := range snap {
		name := doc.String("name")
		if name == "" {
			d.logger.Debug("dropping group document without name", zap.String("id", doc.ID))
			continue
		}
		g := Group{
			ID:            doc.ID,
			Name:          name,
			LatestMessage: doc.String("latestMessage"),
			Timestamp:     doc.Time("timestamp"),
		}
		if g.LatestMessage == "" {
			g.LatestMessage = "No messages yet"
		}
		groups = append(groups, g)
	}
	return groups
}
