package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/internal/logging"
	"github.com/bookwork/go-bookshop/storage"
)

// DefaultGuestID is the identity cart operations fall back to when no
// authenticated user is available.
const DefaultGuestID = "guest"

// BookReader is the slice of the catalog the cart needs: the point
// read that produces a line's title/price snapshot. Satisfied by
// *catalog.BookRepository.
type BookReader interface {
	GetByID(ctx context.Context, id int64) (catalog.Book, error)
}

// Config tunes the aggregate store.
type Config struct {
	// GuestID substitutes for an empty user identity.
	GuestID string

	// MaxAttempts bounds the optimistic write loop: how many times a
	// read-modify-write is replayed after losing a version race.
	MaxAttempts uint64

	// RetryDelay is the constant pause between replays.
	RetryDelay time.Duration
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		GuestID:     DefaultGuestID,
		MaxAttempts: 5,
		RetryDelay:  15 * time.Millisecond,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.GuestID, validation.Required),
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(uint64(1))),
		validation.Field(&c.RetryDelay, validation.Required, validation.Min(time.Duration(1))),
	)
}

// AggregateStore manages one cart document per user with
// read-modify-write semantics.
//
// Concurrent mutations of the same document are serialized
// optimistically: every load observes the document's version, every
// store is conditional on that version, and a write that loses the
// race replays the whole load-mutate-store sequence. At most one
// write wins per version; nothing is lost silently.
type AggregateStore struct {
	store storage.CartStore
	books BookReader
	cfg   Config
	log   logging.Logger
}

// NewAggregateStore builds the cart store over the given backing store
// and catalog reader.
func NewAggregateStore(store storage.CartStore, books BookReader, opts ...StoreOption) (*AggregateStore, error) {
	s := &AggregateStore{
		store: store,
		books: books,
		cfg:   DefaultConfig(),
		log:   logging.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cart: invalid config: %w", err)
	}
	return s, nil
}

// StoreOption configures an AggregateStore at construction time.
type StoreOption func(*AggregateStore)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) StoreOption {
	return func(s *AggregateStore) { s.cfg = cfg }
}

// WithLogger attaches a logger for retry and decode diagnostics.
func WithLogger(log logging.Logger) StoreOption {
	return func(s *AggregateStore) { s.log = log }
}

func (s *AggregateStore) identity(userID string) string {
	if userID == "" {
		return s.cfg.GuestID
	}
	return userID
}

// GetDocument loads the user's cart, or an empty document when none
// exists yet. Reading never creates a persisted row.
func (s *AggregateStore) GetDocument(ctx context.Context, userID string) (Document, error) {
	doc, _, _, err := s.load(ctx, s.identity(userID))
	return doc, err
}

// AddItem merges a book into the cart. An existing line for the book
// accumulates quantity; otherwise a new line is appended with the
// title/price snapshot fetched from the catalog at this moment. The
// backing row is created if the user had no cart.
func (s *AggregateStore) AddItem(ctx context.Context, userID string, bookID int64, quantity int) (Document, error) {
	if quantity < 1 {
		return Document{}, fmt.Errorf("cart: quantity must be at least 1, got %d", quantity)
	}
	return s.mutate(ctx, s.identity(userID), true, func(ctx context.Context, doc *Document) (bool, error) {
		if i := lineIndex(doc.Lines, bookID); i >= 0 {
			doc.Lines[i].Quantity += quantity
			return true, nil
		}
		book, err := s.books.GetByID(ctx, bookID)
		if err != nil {
			return false, fmt.Errorf("cart: snapshot lookup for book %d: %w", bookID, err)
		}
		doc.Lines = append(doc.Lines, Line{
			BookID:   bookID,
			Title:    book.Title,
			Price:    book.Price,
			Quantity: quantity,
		})
		return true, nil
	})
}

// RemoveItem drops the line for bookID. Removing a book that is not in
// the cart is a no-op, not an error.
func (s *AggregateStore) RemoveItem(ctx context.Context, userID string, bookID int64) (Document, error) {
	return s.mutate(ctx, s.identity(userID), false, func(_ context.Context, doc *Document) (bool, error) {
		i := lineIndex(doc.Lines, bookID)
		if i < 0 {
			return false, nil
		}
		doc.Lines = append(doc.Lines[:i], doc.Lines[i+1:]...)
		return true, nil
	})
}

// Clear empties the cart.
func (s *AggregateStore) Clear(ctx context.Context, userID string) (Document, error) {
	return s.mutate(ctx, s.identity(userID), false, func(_ context.Context, doc *Document) (bool, error) {
		if len(doc.Lines) == 0 {
			return false, nil
		}
		doc.Lines = []Line{}
		return true, nil
	})
}

// Search returns the cart lines whose title snapshot contains term,
// case-insensitively. Does not mutate.
func (s *AggregateStore) Search(ctx context.Context, userID string, term string) ([]Line, error) {
	doc, _, _, err := s.load(ctx, s.identity(userID))
	if err != nil {
		return nil, err
	}
	return matchLines(doc.Lines, term), nil
}

// mutate runs one load-mutate-store sequence under the optimistic
// retry loop. apply reports whether the document changed; an unchanged
// document is not written back. createRow allows the first write to
// create the backing row for a user with no cart yet.
func (s *AggregateStore) mutate(ctx context.Context, userID string, createRow bool, apply func(context.Context, *Document) (bool, error)) (Document, error) {
	backoff := retry.WithMaxRetries(s.cfg.MaxAttempts, retry.NewConstant(s.cfg.RetryDelay))

	var out Document
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		doc, version, found, err := s.load(ctx, userID)
		if err != nil {
			return err
		}
		if !found && !createRow {
			out = doc
			return nil
		}

		changed, err := apply(ctx, &doc)
		if err != nil {
			return err
		}
		if !changed {
			out = doc
			return nil
		}

		if err := s.save(ctx, &doc, version); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				s.log.Debug(ctx, "cart write lost version race, replaying",
					"user", userID, "version", version)
				return retry.RetryableError(err)
			}
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	return out, nil
}

// load reads and decodes the user's document. Absent rows come back as
// an empty document with found=false and version zero.
func (s *AggregateStore) load(ctx context.Context, userID string) (Document, int64, bool, error) {
	rec, found, err := s.store.LoadCartDocument(ctx, userID)
	if err != nil {
		return Document{}, 0, false, err
	}
	if !found {
		return Document{UserID: userID, Lines: []Line{}}, 0, false, nil
	}

	doc := Document{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Lines:        []Line{},
		LastModified: rec.LastModified,
	}
	if len(rec.LinesJSON) > 0 {
		if err := json.Unmarshal(rec.LinesJSON, &doc.Lines); err != nil {
			return Document{}, 0, false, fmt.Errorf("cart: decode document for user %q: %w", userID, err)
		}
	}
	return doc, rec.Version, true, nil
}

// save serializes the document and writes it back conditional on the
// version observed at load time.
func (s *AggregateStore) save(ctx context.Context, doc *Document, expectedVersion int64) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.LastModified = time.Now().UTC()

	linesJSON, err := json.Marshal(doc.Lines)
	if err != nil {
		return fmt.Errorf("cart: encode document for user %q: %w", doc.UserID, err)
	}

	return s.store.StoreCartDocument(ctx, storage.CartRecord{
		ID:           doc.ID,
		UserID:       doc.UserID,
		LinesJSON:    linesJSON,
		LastModified: doc.LastModified,
	}, expectedVersion)
}
