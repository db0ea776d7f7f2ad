// In-process document store. Backs tests and single-binary setups;
// also the reference for what the redis and postgres backends must do.
package infra_memstore

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/RECTo0/PokerPlanning/internal/store"
)

type docKey struct {
	collection string
	id         string
}

type colSub struct {
	ch chan []store.Entry
}

type docSub struct {
	ch chan store.DocState
}

type Store struct {
	mu      sync.Mutex
	data    map[string]map[string]store.Doc
	colSubs map[string]map[int]*colSub
	docSubs map[docKey]map[int]*docSub
	nextSub int
}

func New() *Store {
	return &Store{
		data:    make(map[string]map[string]store.Doc),
		colSubs: make(map[string]map[int]*colSub),
		docSubs: make(map[docKey]map[int]*docSub),
	}
}

func (s *Store) Get(_ context.Context, collection, id string) (store.Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return maps.Clone(doc), nil
}

func (s *Store) Set(_ context.Context, collection, id string, fields store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.data[collection]
	if !ok {
		col = make(map[string]store.Doc)
		s.data[collection] = col
	}
	col[id] = store.ResolveTimestamps(maps.Clone(fields))

	s.notifyLocked(collection, id)
	return nil
}

func (s *Store) Merge(_ context.Context, collection, id string, fields store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields = store.ResolveTimestamps(maps.Clone(fields))

	col, ok := s.data[collection]
	if !ok {
		col = make(map[string]store.Doc)
		s.data[collection] = col
	}
	doc, ok := col[id]
	if !ok {
		doc = make(store.Doc, len(fields))
		col[id] = doc
	}
	maps.Copy(doc, fields)

	s.notifyLocked(collection, id)
	return nil
}

func (s *Store) Update(_ context.Context, collection, id string, fields store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	maps.Copy(doc, store.ResolveTimestamps(maps.Clone(fields)))

	s.notifyLocked(collection, id)
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.data[collection]
	if !ok {
		return nil
	}
	if _, ok := col[id]; !ok {
		return nil
	}
	delete(col, id)
	if len(col) == 0 {
		delete(s.data, collection)
	}

	s.notifyLocked(collection, id)
	return nil
}

func (s *Store) List(_ context.Context, collection string) ([]store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked(collection), nil
}

func (s *Store) WatchDoc(collection, id string) (<-chan store.DocState, store.UnsubscribeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &docSub{ch: make(chan store.DocState, 1)}
	key := docKey{collection, id}
	if _, ok := s.docSubs[key]; !ok {
		s.docSubs[key] = make(map[int]*docSub)
	}
	s.nextSub++
	token := s.nextSub
	s.docSubs[key][token] = sub

	sub.ch <- s.docStateLocked(collection, id)

	return sub.ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.docSubs[key][token]; ok {
			delete(s.docSubs[key], token)
			close(cur.ch)
		}
	}
}

func (s *Store) WatchCollection(collection string) (<-chan []store.Entry, store.UnsubscribeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &colSub{ch: make(chan []store.Entry, 1)}
	if _, ok := s.colSubs[collection]; !ok {
		s.colSubs[collection] = make(map[int]*colSub)
	}
	s.nextSub++
	token := s.nextSub
	s.colSubs[collection][token] = sub

	sub.ch <- s.snapshotLocked(collection)

	return sub.ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.colSubs[collection][token]; ok {
			delete(s.colSubs[collection], token)
			close(cur.ch)
		}
	}
}

func (s *Store) docStateLocked(collection, id string) store.DocState {
	doc, ok := s.data[collection][id]
	if !ok {
		return store.DocState{}
	}
	return store.DocState{Doc: maps.Clone(doc), Exists: true}
}

func (s *Store) snapshotLocked(collection string) []store.Entry {
	col := s.data[collection]
	entries := make([]store.Entry, 0, len(col))
	for id, doc := range col {
		entries = append(entries, store.Entry{ID: id, Doc: maps.Clone(doc)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// notifyLocked fans the new state out to every watcher. Sends coalesce:
// a slow consumer sees the latest snapshot, never a stale backlog.
func (s *Store) notifyLocked(collection, id string) {
	if subs := s.docSubs[docKey{collection, id}]; len(subs) > 0 {
		state := s.docStateLocked(collection, id)
		for _, sub := range subs {
			sendLatest(sub.ch, state)
		}
	}
	if subs := s.colSubs[collection]; len(subs) > 0 {
		snapshot := s.snapshotLocked(collection)
		for _, sub := range subs {
			sendLatest(sub.ch, snapshot)
		}
	}
}

func sendLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
