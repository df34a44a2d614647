package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

type progressKey struct {
	sessionID uuid.UUID
	itemID    uuid.UUID
}

// data is the full content of a DB. It is copied wholesale to give
// transactions a private snapshot.
type data struct {
	decks    map[uuid.UUID]*domain.Deck
	progress map[progressKey]*domain.ReviewProgress
	sessions map[uuid.UUID]*session.State
}

func newData() *data {
	return &data{
		decks:    make(map[uuid.UUID]*domain.Deck),
		progress: make(map[progressKey]*domain.ReviewProgress),
		sessions: make(map[uuid.UUID]*session.State),
	}
}

// clone copies the maps. Stored values are never mutated in place, so
// sharing the pointers is safe.
func (d *data) clone() *data {
	out := newData()
	for k, v := range d.decks {
		out.decks[k] = v
	}
	for k, v := range d.progress {
		out.progress[k] = v
	}
	for k, v := range d.sessions {
		out.sessions[k] = v
	}
	return out
}

// DB is an in-memory database holding decks, review progress and sessions.
// It is safe for concurrent use.
type DB struct {
	mu     sync.RWMutex
	data   *data
	logger *slog.Logger

	// txMu serializes transactions.
	txMu sync.Mutex
}

// NewDB creates an empty database. If log is nil, the default logger is used.
func NewDB(log *slog.Logger) *DB {
	if log == nil {
		log = slog.Default()
	}
	return &DB{
		data:   newData(),
		logger: log.With(slog.String("component", "memory_store")),
	}
}

// Stores returns stores that read and write the database directly.
func (db *DB) Stores() store.Stores {
	v := &view{db: db}
	return store.Stores{
		Decks:    &DeckStore{v: v},
		Progress: &ProgressStore{v: v},
		Sessions: &SessionStore{v: v},
	}
}

// WithinTx implements store.Transactor. fn works on a snapshot which
// replaces the database content only when fn succeeds. Writes made outside
// a transaction while it runs are lost on commit.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Stores) error) error {
	log := logger.FromContextOrDefault(ctx, db.logger)

	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.RLock()
	snapshot := db.data.clone()
	db.mu.RUnlock()

	txDB := &DB{data: snapshot, logger: db.logger}
	if err := fn(ctx, txDB.Stores()); err != nil {
		log.Debug("discarding in-memory transaction", slog.String("error", err.Error()))
		return err
	}

	db.mu.Lock()
	db.data = snapshot
	db.mu.Unlock()
	return nil
}

var _ store.Transactor = (*DB)(nil)

// view gives the stores access to the current data under the DB lock.
type view struct {
	db *DB
}

func (v *view) read(fn func(d *data)) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	fn(v.db.data)
}

func (v *view) write(fn func(d *data) error) error {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	return fn(v.db.data)
}

// DeckStore implements store.DeckStore.
type DeckStore struct {
	v *view
}

var _ store.DeckStore = (*DeckStore)(nil)

func copyDeck(d *domain.Deck) *domain.Deck {
	out := *d
	out.Cards = append([]domain.Flashcard(nil), d.Cards...)
	return &out
}

// Create implements store.DeckStore.Create.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return store.NewStoreError("deck", "create", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	return s.v.write(func(d *data) error {
		if _, exists := d.decks[deck.ID]; exists {
			return store.ErrDeckExists
		}
		d.decks[deck.ID] = copyDeck(deck)
		return nil
	})
}

// GetByID implements store.DeckStore.GetByID.
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	var deck *domain.Deck
	s.v.read(func(d *data) {
		if stored, ok := d.decks[id]; ok {
			deck = copyDeck(stored)
		}
	})
	if deck == nil {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

// ListBySession implements store.DeckStore.ListBySession.
func (s *DeckStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Deck, error) {
	decks := []*domain.Deck{}
	s.v.read(func(d *data) {
		for _, deck := range d.decks {
			if deck.SessionID == sessionID {
				decks = append(decks, copyDeck(deck))
			}
		}
	})
	sort.Slice(decks, func(i, j int) bool {
		if decks[i].CreatedAt.Equal(decks[j].CreatedAt) {
			return decks[i].ID.String() < decks[j].ID.String()
		}
		return decks[i].CreatedAt.After(decks[j].CreatedAt)
	})
	return decks, nil
}

// ProgressStore implements store.ProgressStore.
type ProgressStore struct {
	v *view
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, sessionID, itemID uuid.UUID) (*domain.ReviewProgress, error) {
	var progress *domain.ReviewProgress
	s.v.read(func(d *data) {
		if stored, ok := d.progress[progressKey{sessionID, itemID}]; ok {
			p := *stored
			progress = &p
		}
	})
	if progress == nil {
		return nil, store.ErrProgressNotFound
	}
	return progress, nil
}

// Upsert implements store.ProgressStore.Upsert.
func (s *ProgressStore) Upsert(ctx context.Context, progress *domain.ReviewProgress) error {
	if err := progress.Validate(); err != nil {
		return store.NewStoreError("review progress", "upsert", "validation failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	p := *progress
	return s.v.write(func(d *data) error {
		key := progressKey{p.SessionID, p.ItemID}
		if existing, ok := d.progress[key]; ok {
			p.CreatedAt = existing.CreatedAt
		}
		d.progress[key] = &p
		return nil
	})
}

// ListBySession implements store.ProgressStore.ListBySession.
func (s *ProgressStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewProgress, error) {
	out := []*domain.ReviewProgress{}
	s.v.read(func(d *data) {
		for key, stored := range d.progress {
			if key.sessionID == sessionID {
				p := *stored
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextReviewAt.Before(out[j].NextReviewAt)
	})
	return out, nil
}

// CountDue implements store.ProgressStore.CountDue.
func (s *ProgressStore) CountDue(ctx context.Context, now time.Time) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	s.v.read(func(d *data) {
		for key, p := range d.progress {
			if p.IsDue(now) {
				counts[key.sessionID]++
			}
		}
	})
	return counts, nil
}

// SessionStore implements store.SessionStore.
type SessionStore struct {
	v *view
}

var _ store.SessionStore = (*SessionStore)(nil)

// Create implements store.SessionStore.Create.
func (s *SessionStore) Create(ctx context.Context, state *session.State) error {
	if state.ID == uuid.Nil {
		return store.NewStoreError("session", "create", "empty session ID", store.ErrInvalidEntity)
	}
	c := state.Clone()
	return s.v.write(func(d *data) error {
		if _, exists := d.sessions[c.ID]; exists {
			return store.ErrSessionExists
		}
		d.sessions[c.ID] = &c
		return nil
	})
}

// Get implements store.SessionStore.Get.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*session.State, error) {
	var state *session.State
	s.v.read(func(d *data) {
		if stored, ok := d.sessions[id]; ok {
			c := stored.Clone()
			state = &c
		}
	})
	if state == nil {
		return nil, store.ErrSessionNotFound
	}
	return state, nil
}

// Update implements store.SessionStore.Update.
func (s *SessionStore) Update(ctx context.Context, state *session.State) error {
	c := state.Clone()
	return s.v.write(func(d *data) error {
		if _, exists := d.sessions[c.ID]; !exists {
			return store.ErrSessionNotFound
		}
		d.sessions[c.ID] = &c
		return nil
	})
}
