package bunstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/storage"
)

// schemaModels in dependency order: referenced tables first.
var schemaModels = []any{
	(*catalog.Author)(nil),
	(*catalog.Category)(nil),
	(*catalog.Publisher)(nil),
	(*catalog.Book)(nil),
	(*catalog.Customer)(nil),
	(*catalog.Order)(nil),
	(*catalog.OrderLine)(nil),
	(*cartRow)(nil),
}

// CreateSchema creates every table this store uses, if missing. Tests
// and local development bootstrap through this; production schema
// management lives outside this module.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range schemaModels {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return storage.NewStoreError("create-schema", "schema", err)
		}
	}
	return nil
}
