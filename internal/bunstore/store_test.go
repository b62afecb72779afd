package bunstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/storage"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := OpenSQLite("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, CreateSchema(context.Background(), db))
	return db
}

func seedCatalog(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()

	authors := []catalog.Author{
		{ID: 1, Name: "Alan Donovan", Biography: "Co-author of the Go book"},
		{ID: 2, Name: "Martin Kleppmann", Biography: "Distributed systems researcher"},
	}
	categories := []catalog.Category{
		{ID: 1, Name: "Programming", Description: "Software construction"},
	}
	publishers := []catalog.Publisher{
		{ID: 1, Name: "Addison-Wesley", Address: "Boston", Phone: "555-0100"},
		{ID: 2, Name: "O'Reilly", Address: "Sebastopol", Phone: "555-0200"},
	}
	books := []catalog.Book{
		{ID: 1, Title: "The Go Programming Language", Description: "Language reference", Price: 39.99, Stock: 12, AuthorID: 1, CategoryID: 1, PublisherID: 1},
		{ID: 2, Title: "Designing Data-Intensive Applications", Description: "Systems design", Price: 49.50, Stock: 7, AuthorID: 2, CategoryID: 1, PublisherID: 2},
	}

	_, err := db.NewInsert().Model(&authors).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&categories).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&publishers).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&books).Exec(ctx)
	require.NoError(t, err)
}

func TestBookStoreQueryAllLoadsRelations(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	store := NewBookStore(db)

	books, err := store.QueryAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)

	require.NotNil(t, books[0].Author)
	assert.Equal(t, "Alan Donovan", books[0].Author.Name)
	require.NotNil(t, books[0].Category)
	assert.Equal(t, "Programming", books[0].Category.Name)
	require.NotNil(t, books[1].Publisher)
	assert.Equal(t, "O'Reilly", books[1].Publisher.Name)
}

func TestBookStoreQueryByID(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	store := NewBookStore(db)

	book, err := store.QueryByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Designing Data-Intensive Applications", book.Title)

	_, err = store.QueryByID(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBookStoreSearch(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	store := NewBookStore(db)
	ctx := context.Background()

	// Case-insensitive over title and description.
	books, err := store.Search(ctx, "DATA")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.EqualValues(t, 2, books[0].ID)

	books, err = store.Search(ctx, "reference")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.EqualValues(t, 1, books[0].ID)

	books, err = store.Search(ctx, "haskell")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookStoreInsertUpdateDelete(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	store := NewBookStore(db)
	ctx := context.Background()

	created, err := store.Insert(ctx, catalog.Book{
		Title: "The Pragmatic Programmer", Description: "Craft essays",
		Price: 29.00, Stock: 3, AuthorID: 1, CategoryID: 1, PublisherID: 1,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	created.Price = 31.50
	updated, err := store.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 31.50, updated.Price)

	reread, err := store.QueryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 31.50, reread.Price)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.QueryByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntityStoreUpdateMissingRow(t *testing.T) {
	db := openTestDB(t)
	store := NewAuthorStore(db)

	_, err := store.Update(context.Background(), catalog.Author{ID: 42, Name: "Nobody"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBookStoreQueryDetails(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	store := NewBookStore(db)

	details, err := store.QueryDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, details.BookID)
	assert.Equal(t, "The Go Programming Language", details.Title)
	assert.Equal(t, "Alan Donovan", details.AuthorName)
	assert.Equal(t, "Programming", details.CategoryName)
	assert.Equal(t, "Addison-Wesley", details.PublisherName)
	assert.Equal(t, "555-0100", details.PublisherPhone)

	_, err = store.QueryDetails(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCartStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()

	_, found, err := store.LoadCartDocument(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	rec := storage.CartRecord{
		ID: "11111111-1111-1111-1111-111111111111", UserID: "u1",
		LinesJSON: []byte(`[{"bookId":1,"title":"Go","price":39.99,"quantity":2}]`),
	}
	require.NoError(t, store.StoreCartDocument(ctx, rec, 0))

	loaded, found, err := store.LoadCartDocument(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.JSONEq(t, string(rec.LinesJSON), string(loaded.LinesJSON))
	assert.EqualValues(t, 1, loaded.Version)
}

func TestCartStoreVersionConflicts(t *testing.T) {
	db := openTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()

	rec := storage.CartRecord{ID: "22222222-2222-2222-2222-222222222222", UserID: "u1", LinesJSON: []byte(`[]`)}
	require.NoError(t, store.StoreCartDocument(ctx, rec, 0))

	// A concurrent first write for the same user loses.
	err := store.StoreCartDocument(ctx, rec, 0)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	loaded, _, err := store.LoadCartDocument(ctx, "u1")
	require.NoError(t, err)

	// Winning conditional update bumps the version.
	loaded.LinesJSON = []byte(`[{"bookId":2,"title":"DDIA","price":49.5,"quantity":1}]`)
	require.NoError(t, store.StoreCartDocument(ctx, loaded, loaded.Version))

	// Replaying against the stale version loses.
	err = store.StoreCartDocument(ctx, loaded, loaded.Version)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	reloaded, _, err := store.LoadCartDocument(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloaded.Version)

	// Updating a user with no row conflicts instead of upserting.
	ghost := storage.CartRecord{ID: "33333333-3333-3333-3333-333333333333", UserID: "ghost"}
	err = store.StoreCartDocument(ctx, ghost, 5)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)
}

func TestStoreErrorCarriesOpAndKind(t *testing.T) {
	// No schema: every query fails at the database.
	db, err := OpenSQLite("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewAuthorStore(db)
	_, err = store.QueryAll(context.Background())
	require.Error(t, err)

	var serr *storage.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "query-all", serr.Op)
	assert.Equal(t, catalog.KindAuthor, serr.Kind)
}
