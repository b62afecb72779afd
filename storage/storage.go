package storage

import (
	"context"
	"time"
)

// EntityStore is the minimal persistence contract a catalog repository
// consumes. Implementations live behind this interface so the caching
// and admission layers never see driver types.
type EntityStore[T any] interface {
	// QueryAll returns the full collection, related entities included.
	QueryAll(ctx context.Context) ([]T, error)

	// QueryByID returns the entity with the given id, or ErrNotFound.
	QueryByID(ctx context.Context, id int64) (T, error)

	// Search returns entities whose searchable text matches term.
	// Matching is case-insensitive substring.
	Search(ctx context.Context, term string) ([]T, error)

	// Insert persists a new entity and returns it with its id assigned.
	Insert(ctx context.Context, record T) (T, error)

	// Update persists changes to an existing entity.
	Update(ctx context.Context, record T) (T, error)

	// Delete removes the entity with the given id. Deleting an absent
	// id is not an error.
	Delete(ctx context.Context, id int64) error
}

// CartStore persists one cart document per user together with the
// version counter the optimistic write discipline relies on.
type CartStore interface {
	// LoadCartDocument returns the stored document for userID.
	// found is false when the user has no cart row yet; that is not
	// an error.
	LoadCartDocument(ctx context.Context, userID string) (doc CartRecord, found bool, err error)

	// StoreCartDocument writes the document back. expectedVersion is
	// the version observed by the preceding LoadCartDocument (zero for
	// a document that has no row yet). When the stored version has
	// moved in the meantime the write fails with ErrVersionConflict
	// and nothing is persisted.
	StoreCartDocument(ctx context.Context, doc CartRecord, expectedVersion int64) error
}

// CartRecord is the persisted shape of a cart document. LinesJSON
// holds the serialized line list; its wire format is owned by the
// cart package and must stay stable across versions.
type CartRecord struct {
	ID           string
	UserID       string
	LinesJSON    []byte
	Version      int64
	LastModified time.Time
}
