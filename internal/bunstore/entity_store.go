package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/storage"
)

// EntityStore is the bun implementation of storage.EntityStore[T].
// Relations named at construction are loaded on every QueryAll and
// QueryByID; searchColumns drive the case-insensitive Search.
type EntityStore[T any] struct {
	db            *bun.DB
	kind          string
	relations     []string
	searchColumns []string
}

var _ storage.EntityStore[struct{}] = (*EntityStore[struct{}])(nil)

// NewEntityStore builds a store for one entity kind.
func NewEntityStore[T any](db *bun.DB, kind string, relations []string, searchColumns []string) *EntityStore[T] {
	return &EntityStore[T]{
		db:            db,
		kind:          kind,
		relations:     relations,
		searchColumns: searchColumns,
	}
}

func (s *EntityStore[T]) selectWithRelations(model any) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	for _, rel := range s.relations {
		q = q.Relation(rel)
	}
	return q
}

// QueryAll implements storage.EntityStore.
func (s *EntityStore[T]) QueryAll(ctx context.Context) ([]T, error) {
	records := make([]T, 0)
	if err := s.selectWithRelations(&records).Scan(ctx); err != nil {
		return nil, storage.NewStoreError("query-all", s.kind, err)
	}
	return records, nil
}

// QueryByID implements storage.EntityStore.
func (s *EntityStore[T]) QueryByID(ctx context.Context, id int64) (T, error) {
	record := new(T)
	err := s.selectWithRelations(record).Where("?TableAlias.id = ?", id).Scan(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, storage.ErrNotFound
		}
		return zero, storage.NewStoreError("query-by-id", s.kind, err)
	}
	return *record, nil
}

// Search implements storage.EntityStore. Matching is a
// case-insensitive substring test across the configured columns.
func (s *EntityStore[T]) Search(ctx context.Context, term string) ([]T, error) {
	records := make([]T, 0)
	pattern := "%" + strings.ToLower(term) + "%"
	q := s.selectWithRelations(&records)
	q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, col := range s.searchColumns {
			q = q.WhereOr("lower(?TableAlias.?) LIKE ?", bun.Ident(col), pattern)
		}
		return q
	})
	if err := q.Scan(ctx); err != nil {
		return nil, storage.NewStoreError("search", s.kind, err)
	}
	return records, nil
}

// Insert implements storage.EntityStore. The record comes back with
// its id assigned.
func (s *EntityStore[T]) Insert(ctx context.Context, record T) (T, error) {
	if _, err := s.db.NewInsert().Model(&record).Exec(ctx); err != nil {
		var zero T
		return zero, storage.NewStoreError("insert", s.kind, err)
	}
	return record, nil
}

// Update implements storage.EntityStore. Updating an absent id is
// ErrNotFound.
func (s *EntityStore[T]) Update(ctx context.Context, record T) (T, error) {
	var zero T
	res, err := s.db.NewUpdate().Model(&record).WherePK().Exec(ctx)
	if err != nil {
		return zero, storage.NewStoreError("update", s.kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return zero, storage.NewStoreError("update", s.kind, err)
	}
	if affected == 0 {
		return zero, storage.ErrNotFound
	}
	return record, nil
}

// Delete implements storage.EntityStore. Deleting an absent id is not
// an error.
func (s *EntityStore[T]) Delete(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().Model(new(T)).Where("?TableAlias.id = ?", id).Exec(ctx)
	return storage.NewStoreError("delete", s.kind, err)
}
