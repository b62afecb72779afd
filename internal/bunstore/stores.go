package bunstore

import (
	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/catalog"
)

// Per-kind constructors pinning the relation sets and searchable
// columns the shop's listings load.

func NewAuthorStore(db *bun.DB) *EntityStore[catalog.Author] {
	return NewEntityStore[catalog.Author](db, catalog.KindAuthor,
		[]string{"Books"}, []string{"name", "biography"})
}

func NewCategoryStore(db *bun.DB) *EntityStore[catalog.Category] {
	return NewEntityStore[catalog.Category](db, catalog.KindCategory,
		[]string{"Books"}, []string{"name", "description"})
}

func NewPublisherStore(db *bun.DB) *EntityStore[catalog.Publisher] {
	return NewEntityStore[catalog.Publisher](db, catalog.KindPublisher,
		[]string{"Books"}, []string{"name", "address"})
}

func NewCustomerStore(db *bun.DB) *EntityStore[catalog.Customer] {
	return NewEntityStore[catalog.Customer](db, catalog.KindCustomer,
		[]string{"Orders"}, []string{"name", "email"})
}

func NewOrderStore(db *bun.DB) *EntityStore[catalog.Order] {
	return NewEntityStore[catalog.Order](db, catalog.KindOrder,
		[]string{"Customer", "Lines", "Lines.Book"}, []string{"status"})
}
