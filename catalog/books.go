package catalog

import (
	"context"

	"github.com/bookwork/go-bookshop/cache"
	"github.com/bookwork/go-bookshop/storage"
)

// BookStore extends the generic entity contract with the flattened
// detail projection the book page serves.
type BookStore interface {
	storage.EntityStore[Book]

	// QueryDetails returns the joined detail row for one book, or
	// storage.ErrNotFound.
	QueryDetails(ctx context.Context, id int64) (BookDetails, error)
}

// BookRepository is the cached book repository. Books are the hot
// listing in the shop, so their full-collection fetch is the one path
// that runs under the admission gate.
type BookRepository struct {
	*Repository[Book]
	store BookStore
}

// NewBookRepository builds the book repository.
func NewBookRepository(store BookStore, cacheStore cache.Store, opts ...Option[Book]) *BookRepository {
	return &BookRepository{
		Repository: NewRepository(KindBook, store, cacheStore, opts...),
		store:      store,
	}
}

// Details returns the detail projection for one book. Point query,
// never cached.
func (r *BookRepository) Details(ctx context.Context, id int64) (BookDetails, error) {
	return r.store.QueryDetails(ctx, id)
}
