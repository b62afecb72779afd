package testsupport

import (
	"context"

	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/storage"
)

// NewMemBookStore returns an in-memory store wired with the book
// accessors. It also satisfies catalog.BookStore.
func NewMemBookStore() *MemBookStore {
	return &MemBookStore{
		MemEntityStore: NewMemEntityStore[catalog.Book](
			func(b catalog.Book) int64 { return b.ID },
			func(b catalog.Book, id int64) catalog.Book { b.ID = id; return b },
			func(b catalog.Book) string { return b.Title + " " + b.Description },
		),
	}
}

// MemBookStore adds the detail projection over the generic in-memory
// store.
type MemBookStore struct {
	*MemEntityStore[catalog.Book]
}

var _ catalog.BookStore = (*MemBookStore)(nil)

func (s *MemBookStore) QueryDetails(ctx context.Context, id int64) (catalog.BookDetails, error) {
	b, err := s.QueryByID(ctx, id)
	if err != nil {
		return catalog.BookDetails{}, err
	}
	d := catalog.BookDetails{
		BookID:      b.ID,
		Title:       b.Title,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
	}
	if b.Author != nil {
		d.AuthorName = b.Author.Name
		d.AuthorBiography = b.Author.Biography
	}
	if b.Publisher != nil {
		d.PublisherName = b.Publisher.Name
		d.PublisherAddress = b.Publisher.Address
		d.PublisherPhone = b.Publisher.Phone
	}
	if b.Category != nil {
		d.CategoryName = b.Category.Name
		d.CategoryDesc = b.Category.Description
	}
	return d, nil
}

// NewMemAuthorStore returns an in-memory author store.
func NewMemAuthorStore() *MemEntityStore[catalog.Author] {
	return NewMemEntityStore[catalog.Author](
		func(a catalog.Author) int64 { return a.ID },
		func(a catalog.Author, id int64) catalog.Author { a.ID = id; return a },
		func(a catalog.Author) string { return a.Name + " " + a.Biography },
	)
}

// NewMemCategoryStore returns an in-memory category store.
func NewMemCategoryStore() *MemEntityStore[catalog.Category] {
	return NewMemEntityStore[catalog.Category](
		func(c catalog.Category) int64 { return c.ID },
		func(c catalog.Category, id int64) catalog.Category { c.ID = id; return c },
		func(c catalog.Category) string { return c.Name + " " + c.Description },
	)
}

// NewMemPublisherStore returns an in-memory publisher store.
func NewMemPublisherStore() *MemEntityStore[catalog.Publisher] {
	return NewMemEntityStore[catalog.Publisher](
		func(p catalog.Publisher) int64 { return p.ID },
		func(p catalog.Publisher, id int64) catalog.Publisher { p.ID = id; return p },
		func(p catalog.Publisher) string { return p.Name + " " + p.Address },
	)
}

// SampleBooks returns a small, id-stable catalog slice used across
// test suites.
func SampleBooks() []catalog.Book {
	return []catalog.Book{
		{ID: 1, Title: "The Go Programming Language", Description: "Language reference", Price: 39.99, Stock: 12, AuthorID: 1, CategoryID: 1, PublisherID: 1},
		{ID: 2, Title: "Designing Data-Intensive Applications", Description: "Systems design", Price: 49.50, Stock: 7, AuthorID: 2, CategoryID: 1, PublisherID: 2},
		{ID: 3, Title: "The Pragmatic Programmer", Description: "Craft essays", Price: 29.00, Stock: 3, AuthorID: 3, CategoryID: 2, PublisherID: 1},
	}
}

// SampleAuthors returns authors matching SampleBooks foreign keys.
func SampleAuthors() []catalog.Author {
	return []catalog.Author{
		{ID: 1, Name: "Alan Donovan", Biography: "Co-author of the Go book"},
		{ID: 2, Name: "Martin Kleppmann", Biography: "Distributed systems researcher"},
		{ID: 3, Name: "Andrew Hunt", Biography: "Pragmatic programmer"},
	}
}

// Interface checks: the generic store must satisfy the contract for
// every entity kind the repositories use.
var (
	_ storage.EntityStore[catalog.Author]   = (*MemEntityStore[catalog.Author])(nil)
	_ storage.EntityStore[catalog.Book]     = (*MemEntityStore[catalog.Book])(nil)
	_ storage.EntityStore[catalog.Category] = (*MemEntityStore[catalog.Category])(nil)
	_ storage.CartStore                     = (*MemCartStore)(nil)
)
