package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/storage"
)

const cartKind = "Cart"

// cartRow is the persisted cart document: one row per user, the line
// list as an opaque JSON blob, and the version counter conditional
// writes race on.
type cartRow struct {
	bun.BaseModel `bun:"table:carts,alias:ct"`

	ID           string    `bun:"id,pk"`
	UserID       string    `bun:"user_id,notnull,unique"`
	LinesJSON    []byte    `bun:"lines_json"`
	Version      int64     `bun:"version,notnull"`
	LastModified time.Time `bun:"last_modified,notnull"`
}

// CartStore is the bun implementation of storage.CartStore.
type CartStore struct {
	db *bun.DB
}

var _ storage.CartStore = (*CartStore)(nil)

func NewCartStore(db *bun.DB) *CartStore {
	return &CartStore{db: db}
}

// LoadCartDocument implements storage.CartStore.
func (s *CartStore) LoadCartDocument(ctx context.Context, userID string) (storage.CartRecord, bool, error) {
	row := new(cartRow)
	err := s.db.NewSelect().Model(row).Where("ct.user_id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CartRecord{}, false, nil
		}
		return storage.CartRecord{}, false, storage.NewStoreError("load", cartKind, err)
	}
	return storage.CartRecord{
		ID:           row.ID,
		UserID:       row.UserID,
		LinesJSON:    row.LinesJSON,
		Version:      row.Version,
		LastModified: row.LastModified,
	}, true, nil
}

// StoreCartDocument implements storage.CartStore. expectedVersion zero
// inserts the row; any other value updates conditional on the stored
// version. Either way a lost race surfaces ErrVersionConflict and the
// caller replays its read-modify-write.
func (s *CartStore) StoreCartDocument(ctx context.Context, rec storage.CartRecord, expectedVersion int64) error {
	if expectedVersion == 0 {
		row := &cartRow{
			ID:           rec.ID,
			UserID:       rec.UserID,
			LinesJSON:    rec.LinesJSON,
			Version:      1,
			LastModified: rec.LastModified,
		}
		res, err := s.db.NewInsert().
			Model(row).
			On("CONFLICT (user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return storage.NewStoreError("store", cartKind, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return storage.NewStoreError("store", cartKind, err)
		}
		if affected == 0 {
			// Another writer created the row first.
			return storage.ErrVersionConflict
		}
		return nil
	}

	res, err := s.db.NewUpdate().
		Model((*cartRow)(nil)).
		Set("lines_json = ?", rec.LinesJSON).
		Set("version = version + 1").
		Set("last_modified = ?", rec.LastModified).
		Where("user_id = ? AND version = ?", rec.UserID, expectedVersion).
		Exec(ctx)
	if err != nil {
		return storage.NewStoreError("store", cartKind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.NewStoreError("store", cartKind, err)
	}
	if affected == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}
