// Package store defines the contract with the synchronized document
// store the clients share. Rooms, players and votes all live in it as
// schemaless documents; change subscriptions are the only read path
// that matters at runtime.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Doc holds JSON-compatible values only. Timestamps travel as
// RFC3339Nano strings so every backend round-trips them identically.
type Doc map[string]any

type serverTimestamp struct{}

// ServerTimestamp is replaced by the store with the write time.
var ServerTimestamp = serverTimestamp{}

// Entry is one document of a collection snapshot.
type Entry struct {
	ID  string
	Doc Doc
}

// DocState is one state of a watched document.
type DocState struct {
	Doc    Doc
	Exists bool
}

// UnsubscribeFunc stops a watch and closes its channel.
type UnsubscribeFunc func()

// Store is the opaque document store: get/merge/update/delete on
// documents plus full-snapshot change subscriptions. Writers race under
// last-write-wins; no transactions span documents.
type Store interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (Doc, error)

	// Set creates or fully replaces a document.
	Set(ctx context.Context, collection, id string, fields Doc) error

	// Merge upserts, folding fields into whatever is stored.
	Merge(ctx context.Context, collection, id string, fields Doc) error

	// Update merges into an existing document only and returns
	// ErrNotFound when it is absent.
	Update(ctx context.Context, collection, id string, fields Doc) error

	// Delete is delete-if-exists: absence is not an error.
	Delete(ctx context.Context, collection, id string) error

	List(ctx context.Context, collection string) ([]Entry, error)

	// WatchDoc delivers the current state immediately, then once per
	// observed change. Snapshots may coalesce under load but are never
	// delivered out of order.
	WatchDoc(collection, id string) (<-chan DocState, UnsubscribeFunc)

	// WatchCollection delivers full collection snapshots, never deltas.
	WatchCollection(collection string) (<-chan []Entry, UnsubscribeFunc)
}

// Now formats a write-side timestamp the way every backend stores it.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ResolveTimestamps replaces ServerTimestamp sentinels in place.
func ResolveTimestamps(fields Doc) Doc {
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			fields[k] = Now()
		}
	}
	return fields
}

// ParseTime reads a stored timestamp, zero time when absent or garbled.
func ParseTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
