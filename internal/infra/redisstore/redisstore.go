// Redis-backed document store. Documents live as JSON strings in one
// hash per collection; every write publishes the collection on a
// pub/sub channel and watchers re-read their snapshot on each notice.
// Merges are read-modify-write: concurrent writers race under
// last-write-wins, which this system accepts everywhere.
package infra_redisstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/go-redis/redis"

	"github.com/RECTo0/PokerPlanning/internal/store"
)

const keyPrefix = "pokerplanning"

type Store struct {
	client *redis.Client
	logger *slog.Logger
}

type StoreOption func(*Store)

func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(client *redis.Client, opts ...StoreOption) *Store {
	s := &Store{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func hashKey(collection string) string {
	return keyPrefix + ":col:" + collection
}

func channel(collection string) string {
	return keyPrefix + ":chg:" + collection
}

func (s *Store) Get(_ context.Context, collection, id string) (store.Doc, error) {
	raw, err := s.client.HGet(hashKey(collection), id).Result()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (s *Store) Set(_ context.Context, collection, id string, fields store.Doc) error {
	return s.write(collection, id, make(store.Doc, len(fields)), fields)
}

func (s *Store) Merge(ctx context.Context, collection, id string, fields store.Doc) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil && err != store.ErrNotFound {
		return err
	}
	if doc == nil {
		doc = make(store.Doc, len(fields))
	}
	return s.write(collection, id, doc, fields)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields store.Doc) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	return s.write(collection, id, doc, fields)
}

func (s *Store) write(collection, id string, doc, fields store.Doc) error {
	for k, v := range store.ResolveTimestamps(fields) {
		doc[k] = v
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.client.HSet(hashKey(collection), id, string(raw)).Err(); err != nil {
		return err
	}
	return s.client.Publish(channel(collection), id).Err()
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	removed, err := s.client.HDel(hashKey(collection), id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}
	return s.client.Publish(channel(collection), id).Err()
}

func (s *Store) List(_ context.Context, collection string) ([]store.Entry, error) {
	raw, err := s.client.HGetAll(hashKey(collection)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]store.Entry, 0, len(raw))
	for id, payload := range raw {
		doc, err := decode(payload)
		if err != nil {
			s.logger.Warn("skipping undecodable document",
				"collection", collection,
				"id", id,
				"error", err)
			continue
		}
		entries = append(entries, store.Entry{ID: id, Doc: doc})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *Store) WatchDoc(collection, id string) (<-chan store.DocState, store.UnsubscribeFunc) {
	pubsub := s.client.Subscribe(channel(collection))
	out := make(chan store.DocState, 1)

	go func() {
		defer close(out)

		sendLatest(out, s.docState(collection, id))
		for msg := range pubsub.Channel() {
			if msg.Payload != id {
				continue
			}
			sendLatest(out, s.docState(collection, id))
		}
	}()

	return out, func() { _ = pubsub.Close() }
}

func (s *Store) WatchCollection(collection string) (<-chan []store.Entry, store.UnsubscribeFunc) {
	pubsub := s.client.Subscribe(channel(collection))
	out := make(chan []store.Entry, 1)

	go func() {
		defer close(out)

		s.sendSnapshot(out, collection)
		for range pubsub.Channel() {
			s.sendSnapshot(out, collection)
		}
	}()

	return out, func() { _ = pubsub.Close() }
}

func (s *Store) docState(collection, id string) store.DocState {
	doc, err := s.Get(context.Background(), collection, id)
	if err != nil {
		if err != store.ErrNotFound {
			s.logger.Error("doc watch read failed",
				"collection", collection,
				"id", id,
				"error", err)
		}
		return store.DocState{}
	}
	return store.DocState{Doc: doc, Exists: true}
}

func (s *Store) sendSnapshot(out chan []store.Entry, collection string) {
	entries, err := s.List(context.Background(), collection)
	if err != nil {
		s.logger.Error("collection watch read failed",
			"collection", collection,
			"error", err)
		return
	}
	sendLatest(out, entries)
}

func decode(raw string) (store.Doc, error) {
	var doc store.Doc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return doc, nil
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
