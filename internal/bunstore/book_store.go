package bunstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/storage"
)

// BookStore adds the joined detail projection on top of the generic
// entity store. Satisfies catalog.BookStore.
type BookStore struct {
	*EntityStore[catalog.Book]
	db *bun.DB
}

var _ catalog.BookStore = (*BookStore)(nil)

// NewBookStore builds the book store with its full relation set.
func NewBookStore(db *bun.DB) *BookStore {
	return &BookStore{
		EntityStore: NewEntityStore[catalog.Book](db, catalog.KindBook,
			[]string{"Author", "Category", "Publisher"},
			[]string{"title", "description"},
		),
		db: db,
	}
}

// QueryDetails returns the flattened one-row projection for a book.
func (s *BookStore) QueryDetails(ctx context.Context, id int64) (catalog.BookDetails, error) {
	var details catalog.BookDetails
	err := s.db.NewSelect().
		Model((*catalog.Book)(nil)).
		ColumnExpr("b.id AS book_id").
		ColumnExpr("b.title AS title").
		ColumnExpr("b.description AS description").
		ColumnExpr("b.price AS price").
		ColumnExpr("b.stock AS stock").
		ColumnExpr("a.name AS author_name").
		ColumnExpr("a.biography AS author_biography").
		ColumnExpr("p.name AS publisher_name").
		ColumnExpr("p.address AS publisher_address").
		ColumnExpr("p.phone AS publisher_phone").
		ColumnExpr("c.name AS category_name").
		ColumnExpr("c.description AS category_desc").
		Join("JOIN authors AS a ON a.id = b.author_id").
		Join("JOIN categories AS c ON c.id = b.category_id").
		Join("JOIN publishers AS p ON p.id = b.publisher_id").
		Where("b.id = ?", id).
		Scan(ctx, &details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.BookDetails{}, storage.ErrNotFound
		}
		return catalog.BookDetails{}, storage.NewStoreError("query-details", catalog.KindBook, err)
	}
	return details, nil
}
