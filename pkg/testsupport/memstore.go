// Package testsupport provides in-memory implementations of the
// storage contracts plus catalog fixtures. Tests use them to count
// backing-store round trips, inject latency into the gated path and
// force store failures without a database.
package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bookwork/go-bookshop/storage"
)

// MemEntityStore is an in-memory storage.EntityStore[T]. Every method
// is call-counted; Latency and FailWith apply to all of them.
type MemEntityStore[T any] struct {
	mu     sync.Mutex
	rows   map[int64]T
	nextID int64
	calls  map[string]int

	idOf   func(T) int64
	withID func(T, int64) T
	textOf func(T) string

	// Latency delays every operation, honoring context cancellation.
	// Tests use it to exercise gate admission and deadlines.
	Latency time.Duration

	// FailWith, when set, makes every operation fail with this error.
	FailWith error
}

// NewMemEntityStore builds a store from the three accessors a generic
// store cannot derive itself: read id, assign id, searchable text.
func NewMemEntityStore[T any](idOf func(T) int64, withID func(T, int64) T, textOf func(T) string) *MemEntityStore[T] {
	return &MemEntityStore[T]{
		rows:   map[int64]T{},
		calls:  map[string]int{},
		idOf:   idOf,
		withID: withID,
		textOf: textOf,
	}
}

// Calls returns how many times the named operation ran.
func (s *MemEntityStore[T]) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Seed inserts records directly, bypassing counters and hooks.
func (s *MemEntityStore[T]) Seed(records ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		id := s.idOf(r)
		if id == 0 {
			s.nextID++
			id = s.nextID
			r = s.withID(r, id)
		} else if id > s.nextID {
			s.nextID = id
		}
		s.rows[id] = r
	}
}

func (s *MemEntityStore[T]) begin(ctx context.Context, op string) error {
	s.mu.Lock()
	s.calls[op]++
	latency, failWith := s.Latency, s.FailWith
	s.mu.Unlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return failWith
}

func (s *MemEntityStore[T]) QueryAll(ctx context.Context) ([]T, error) {
	if err := s.begin(ctx, "QueryAll"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return s.idOf(out[i]) < s.idOf(out[j]) })
	return out, nil
}

func (s *MemEntityStore[T]) QueryByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := s.begin(ctx, "QueryByID"); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return zero, storage.ErrNotFound
	}
	return r, nil
}

func (s *MemEntityStore[T]) Search(ctx context.Context, term string) ([]T, error) {
	if err := s.begin(ctx, "Search"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(term)
	out := make([]T, 0)
	for _, r := range s.rows {
		if strings.Contains(strings.ToLower(s.textOf(r)), needle) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.idOf(out[i]) < s.idOf(out[j]) })
	return out, nil
}

func (s *MemEntityStore[T]) Insert(ctx context.Context, record T) (T, error) {
	var zero T
	if err := s.begin(ctx, "Insert"); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record = s.withID(record, s.nextID)
	s.rows[s.nextID] = record
	return record, nil
}

func (s *MemEntityStore[T]) Update(ctx context.Context, record T) (T, error) {
	var zero T
	if err := s.begin(ctx, "Update"); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idOf(record)
	if _, ok := s.rows[id]; !ok {
		return zero, storage.ErrNotFound
	}
	s.rows[id] = record
	return record, nil
}

func (s *MemEntityStore[T]) Delete(ctx context.Context, id int64) error {
	if err := s.begin(ctx, "Delete"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// MemCartStore is an in-memory storage.CartStore with the same
// conditional-write semantics as the SQL implementation.
type MemCartStore struct {
	mu    sync.Mutex
	rows  map[string]storage.CartRecord
	calls map[string]int

	// FailWith, when set, makes every operation fail with this error.
	FailWith error
}

func NewMemCartStore() *MemCartStore {
	return &MemCartStore{
		rows:  map[string]storage.CartRecord{},
		calls: map[string]int{},
	}
}

// Calls returns how many times the named operation ran.
func (s *MemCartStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *MemCartStore) LoadCartDocument(_ context.Context, userID string) (storage.CartRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Load"]++
	if s.FailWith != nil {
		return storage.CartRecord{}, false, s.FailWith
	}
	rec, ok := s.rows[userID]
	return rec, ok, nil
}

func (s *MemCartStore) StoreCartDocument(_ context.Context, rec storage.CartRecord, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Store"]++
	if s.FailWith != nil {
		return s.FailWith
	}
	cur, exists := s.rows[rec.UserID]
	if expectedVersion == 0 {
		if exists {
			return storage.ErrVersionConflict
		}
		rec.Version = 1
		s.rows[rec.UserID] = rec
		return nil
	}
	if !exists || cur.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	rec.Version = cur.Version + 1
	s.rows[rec.UserID] = rec
	return nil
}
