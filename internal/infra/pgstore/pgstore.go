// Postgres-backed document store. One jsonb row per document; merges
// use the || operator so a merge is a single statement. Change
// subscriptions ride LISTEN/NOTIFY: every write notifies the affected
// collection and watchers re-read their snapshot.
package infra_pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/RECTo0/PokerPlanning/internal/store"
)

const notifyChannel = "pokerplanning"

type Store struct {
	db       *sqlx.DB
	listener *pq.Listener
	logger   *slog.Logger

	mu       sync.Mutex
	watchers map[int]*watcher
	nextID   int
	closed   bool
}

type watcher struct {
	collection string
	kick       chan struct{}
}

type StoreOption func(*Store)

func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// New starts the shared LISTEN connection. dsn must point at the same
// database as db.
func New(db *sqlx.DB, dsn string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		db:       db,
		logger:   slog.Default(),
		watchers: make(map[int]*watcher),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.listener = pq.NewListener(dsn, 10*time.Second, time.Minute, func(_ pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.Error("listener event", "error", err)
		}
	})
	if err := s.listener.Listen(notifyChannel); err != nil {
		return nil, err
	}
	go s.dispatch()
	return s, nil
}

func MustEnsureSchema(db *sqlx.DB) {
	const schema = `
		CREATE TABLE IF NOT EXISTS documents (
			collection text NOT NULL,
			id         text NOT NULL,
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)
	`
	db.MustExec(schema)
}

// dispatch fans notifications out to watchers. A nil notification
// means the listener reconnected and state may have been missed, so
// every watcher refreshes.
func (s *Store) dispatch() {
	for n := range s.listener.Notify {
		s.mu.Lock()
		for _, w := range s.watchers {
			if n != nil && n.Extra != w.collection {
				continue
			}
			select {
			case w.kick <- struct{}{}:
			default:
			}
		}
		s.mu.Unlock()
	}
}

// Close stops the listener and terminates every watcher.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for id, w := range s.watchers {
		delete(s.watchers, id)
		close(w.kick)
	}
	s.mu.Unlock()

	return s.listener.Close()
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Doc, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc store.Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields store.Doc) error {
	raw, err := json.Marshal(store.ResolveTimestamps(fields))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		return err
	}
	return s.notify(ctx, collection)
}

func (s *Store) Merge(ctx context.Context, collection, id string, fields store.Doc) error {
	raw, err := json.Marshal(store.ResolveTimestamps(fields))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = documents.doc || EXCLUDED.doc, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		return err
	}
	return s.notify(ctx, collection)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields store.Doc) error {
	raw, err := json.Marshal(store.ResolveTimestamps(fields))
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET doc = doc || $3, updated_at = now()
		WHERE collection = $1 AND id = $2
	`
	result, err := s.db.ExecContext(ctx, query, collection, id, raw)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return s.notify(ctx, collection)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}
	return s.notify(ctx, collection)
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Entry, error) {
	type row struct {
		ID  string `db:"id"`
		Doc []byte `db:"doc"`
	}

	var rows []row
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, doc FROM documents WHERE collection = $1 ORDER BY id`,
		collection)
	if err != nil {
		return nil, err
	}

	entries := make([]store.Entry, 0, len(rows))
	for _, r := range rows {
		var doc store.Doc
		if err := json.Unmarshal(r.Doc, &doc); err != nil {
			s.logger.Warn("skipping undecodable document",
				"collection", collection,
				"id", r.ID,
				"error", err)
			continue
		}
		entries = append(entries, store.Entry{ID: r.ID, Doc: doc})
	}
	return entries, nil
}

func (s *Store) notify(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection)
	return err
}

func (s *Store) WatchDoc(collection, id string) (<-chan store.DocState, store.UnsubscribeFunc) {
	kick, unsub := s.register(collection)
	out := make(chan store.DocState, 1)

	go func() {
		defer close(out)

		sendLatest(out, s.docState(collection, id))
		for range kick {
			sendLatest(out, s.docState(collection, id))
		}
	}()

	return out, unsub
}

func (s *Store) WatchCollection(collection string) (<-chan []store.Entry, store.UnsubscribeFunc) {
	kick, unsub := s.register(collection)
	out := make(chan []store.Entry, 1)

	go func() {
		defer close(out)

		s.sendSnapshot(out, collection)
		for range kick {
			s.sendSnapshot(out, collection)
		}
	}()

	return out, unsub
}

func (s *Store) register(collection string) (chan struct{}, store.UnsubscribeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &watcher{collection: collection, kick: make(chan struct{}, 1)}
	s.nextID++
	id := s.nextID
	if !s.closed {
		s.watchers[id] = w
	} else {
		close(w.kick)
	}

	return w.kick, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(cur.kick)
		}
	}
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
