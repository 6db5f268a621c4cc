package roster

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
)

func waitRoster(t *testing.T, ch <-chan bus.Event) []Group {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == bus.KindRosterUpdated {
				return evt.Payload.([]Group)
			}
		case <-deadline:
			t.Fatal("no roster.updated event")
		}
	}
}

func TestDirectoryFiltersByMembership(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	b := bus.New()

	if _, err := docs.Insert(ctx, "groups", map[string]any{
		"name":    "Night Howlers",
		"members": []any{"u-1", "u-2"},
	}); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	if _, err := docs.Insert(ctx, "groups", map[string]any{
		"name":    "Lone Wolves",
		"members": []any{"u-3"},
	}); err != nil {
		t.Fatalf("seed group: %v", err)
	}

	ch, unsub := b.Subscribe("roster.", 8)
	defer unsub()

	d := NewDirectory(docs, b, zap.NewNop())
	if err := d.Start(ctx, "u-1"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer d.Stop()

	groups := waitRoster(t, ch)
	if len(groups) != 1 || groups[0].Name != "Night Howlers" {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].LatestMessage != "No messages yet" {
		t.Errorf("LatestMessage = %q, want default", groups[0].LatestMessage)
	}
}

func TestDirectoryReplacesWholeList(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	b := bus.New()

	id, err := docs.Insert(ctx, "groups", map[string]any{
		"name":    "Night Howlers",
		"members": []any{"u-1"},
	})
	if err != nil {
		t.Fatalf("seed group: %v", err)
	}

	ch, unsub := b.Subscribe("roster.", 8)
	defer unsub()

	d := NewDirectory(docs, b, zap.NewNop())
	if err := d.Start(ctx, "u-1"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer d.Stop()
	waitRoster(t, ch)

	if err := docs.Delete(ctx, "groups", id); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	groups := waitRoster(t, ch)
	if len(groups) != 0 {
		t.Fatalf("groups after delete = %+v, want empty", groups)
	}
	if got := d.Groups(); len(got) != 0 {
		t.Errorf("Groups() = %+v, want empty", got)
	}
}

func TestDirectoryDropsNamelessDocuments(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	b := bus.New()

	if _, err := docs.Insert(ctx, "groups", map[string]any{
		"members": []any{"u-1"},
	}); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	if _, err := docs.Insert(ctx, "groups", map[string]any{
		"name":    "Den",
		"members": []any{"u-1"},
	}); err != nil {
		t.Fatalf("seed group: %v", err)
	}

	ch, unsub := b.Subscribe("roster.", 8)
	defer unsub()

	d := NewDirectory(docs, b, zap.NewNop())
	if err := d.Start(ctx, "u-1"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer d.Stop()

	groups := waitRoster(t, ch)
	if len(groups) != 1 || groups[0].Name != "Den" {
		t.Fatalf("groups = %+v, want only the named group", groups)
	}
}
