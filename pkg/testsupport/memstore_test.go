package testsupport

import (
	"context"
	"errors"
	"testing"

	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/storage"
)

func TestMemEntityStoreCRUD(t *testing.T) {
	s := NewMemAuthorStore()
	ctx := context.Background()

	created, err := s.Insert(ctx, catalog.Author{Name: "Alan Donovan"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Fatal("Insert must assign an id")
	}

	got, err := s.QueryByID(ctx, created.ID)
	if err != nil || got.Name != "Alan Donovan" {
		t.Fatalf("QueryByID = %+v, %v", got, err)
	}

	created.Name = "Alan A. A. Donovan"
	if _, err := s.Update(ctx, created); err != nil {
		t.Fatal(err)
	}
	all, err := s.QueryAll(ctx)
	if err != nil || len(all) != 1 || all[0].Name != "Alan A. A. Donovan" {
		t.Fatalf("QueryAll = %+v, %v", all, err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.QueryByID(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestMemEntityStoreUpdateMissing(t *testing.T) {
	s := NewMemAuthorStore()
	if _, err := s.Update(context.Background(), catalog.Author{ID: 9, Name: "x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemEntityStoreSeedAndSearch(t *testing.T) {
	s := NewMemBookStore()
	s.Seed(SampleBooks()...)
	ctx := context.Background()

	got, err := s.Search(ctx, "pragmatic")
	if err != nil || len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("Search = %+v, %v", got, err)
	}

	// Seed must leave the id sequence past the seeded rows.
	created, err := s.Insert(ctx, catalog.Book{Title: "New"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != 4 {
		t.Errorf("Insert after Seed assigned id %d, want 4", created.ID)
	}
}

func TestMemEntityStoreFailWith(t *testing.T) {
	s := NewMemAuthorStore()
	boom := errors.New("boom")
	s.FailWith = boom

	if _, err := s.QueryAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want injected failure, got %v", err)
	}
	if s.Calls("QueryAll") != 1 {
		t.Error("failed call not counted")
	}
}

func TestMemBookStoreDetails(t *testing.T) {
	s := NewMemBookStore()
	s.Seed(SampleBooks()...)

	details, err := s.QueryDetails(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if details.BookID != 1 || details.Title != "The Go Programming Language" {
		t.Errorf("details wrong: %+v", details)
	}

	if _, err := s.QueryDetails(context.Background(), 99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemCartStoreConditionalWrites(t *testing.T) {
	s := NewMemCartStore()
	ctx := context.Background()

	rec := storage.CartRecord{ID: "c1", UserID: "u1", LinesJSON: []byte(`[]`)}
	if err := s.StoreCartDocument(ctx, rec, 0); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// A second insert for the same user loses.
	if err := s.StoreCartDocument(ctx, rec, 0); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("want ErrVersionConflict on duplicate insert, got %v", err)
	}

	loaded, found, err := s.LoadCartDocument(ctx, "u1")
	if err != nil || !found {
		t.Fatalf("Load = %v, found=%v", err, found)
	}
	if loaded.Version != 1 {
		t.Fatalf("fresh row has version %d, want 1", loaded.Version)
	}

	// Conditional update against the observed version wins once.
	if err := s.StoreCartDocument(ctx, loaded, loaded.Version); err != nil {
		t.Fatalf("conditional update: %v", err)
	}
	if err := s.StoreCartDocument(ctx, loaded, loaded.Version); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("stale version must lose, got %v", err)
	}

	reloaded, _, err := s.LoadCartDocument(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Version != 2 {
		t.Errorf("version after one update = %d, want 2", reloaded.Version)
	}
}

func TestMemCartStoreMissingRow(t *testing.T) {
	s := NewMemCartStore()

	_, found, err := s.LoadCartDocument(context.Background(), "nobody")
	if err != nil || found {
		t.Fatalf("Load = %v, found=%v; want absent row", err, found)
	}
	rec := storage.CartRecord{ID: "c1", UserID: "nobody"}
	if err := s.StoreCartDocument(context.Background(), rec, 7); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("update of missing row must conflict, got %v", err)
	}
}
