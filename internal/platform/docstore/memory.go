package docstore

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Client used by --local development mode and tests.
// It reproduces the backend's observable behavior: full snapshots on every
// change, insertion-order tie-breaking, membership matching on array fields.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]memDoc
	watchers    []*memWatcher
}

type memDoc struct {
	id     string
	fields map[string]any
}

type memWatcher struct {
	query Query
	sub   *Subscription
	done  <-chan struct{}
}

// NewMemory creates an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]memDoc)}
}

// Watch implements Client.
func (m *Memory) Watch(ctx context.Context, q Query) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	m.mu.Lock()
	w := &memWatcher{query: q, sub: sub, done: ctx.Done()}
	m.watchers = append(m.watchers, w)
	sub.publish(m.materialize(q))
	m.mu.Unlock()

	return sub, nil
}

// Insert implements Client. The document key is assigned here, standing in
// for the backend's key allocation.
func (m *Memory) Insert(_ context.Context, collection string, fields map[string]any) (string, error) {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")

	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], memDoc{id: id, fields: cloneFields(fields)})
	m.notify(collection)
	m.mu.Unlock()

	return id, nil
}

// Get implements Client.
func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.collections[collection] {
		if d.id == id {
			return Document{ID: d.id, Fields: cloneFields(d.fields)}, nil
		}
	}
	return Document{}, ErrNotFound
}

// Set implements Client.
func (m *Memory) Set(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collections[collection]
	for i, d := range docs {
		if d.id == id {
			docs[i].fields = cloneFields(fields)
			m.notify(collection)
			return nil
		}
	}
	m.collections[collection] = append(docs, memDoc{id: id, fields: cloneFields(fields)})
	m.notify(collection)
	return nil
}

// Delete implements Client.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collections[collection]
	for i, d := range docs {
		if d.id == id {
			m.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			m.notify(collection)
			return nil
		}
	}
	return nil
}

// notify re-materializes and delivers a full snapshot to every live watcher
// of the collection. Caller holds m.mu.
func (m *Memory) notify(collection string) {
	alive := m.watchers[:0]
	for _, w := range m.watchers {
		select {
		case <-w.done:
			continue
		default:
		}
		alive = append(alive, w)
		if w.query.Collection == collection {
			w.sub.publish(m.materialize(w.query))
		}
	}
	m.watchers = alive
}

// materialize evaluates a query against current state. Caller holds m.mu.
func (m *Memory) materialize(q Query) Snapshot {
	var snap Snapshot
	for _, d := range m.collections[q.Collection] {
		if !matchFilter(d.fields, q.Filter) {
			continue
		}
		snap = append(snap, Document{ID: d.id, Fields: cloneFields(d.fields)})
	}
	if q.OrderBy != "" {
		key := q.OrderBy
		sort.SliceStable(snap, func(i, j int) bool {
			return snap[i].Millis(key) < snap[j].Millis(key)
		})
	}
	return snap
}

func matchFilter(fields map[string]any, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := fields[k]
		if !ok {
			return false
		}
		if !matchValue(got, want) {
			return false
		}
	}
	return true
}

// matchValue compares equality, treating an array field as a membership test.
func matchValue(got, want any) bool {
	rv := reflect.ValueOf(got)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if reflect.DeepEqual(rv.Index(i).Interface(), want) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(got, want)
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
