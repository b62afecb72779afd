package catalog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/singleflight"

	"github.com/bookwork/go-bookshop/cache"
	"github.com/bookwork/go-bookshop/gate"
	"github.com/bookwork/go-bookshop/internal/logging"
	"github.com/bookwork/go-bookshop/storage"
)

// TTLPolicy sets how long a repository's listing entry lives.
// WriteSliding being longer than ReadSliding is intentional: a write
// is assumed to precede a burst of reads, so a repopulation triggered
// by a write earns a wider window before cold-eviction.
type TTLPolicy struct {
	Absolute     time.Duration
	ReadSliding  time.Duration
	WriteSliding time.Duration
}

// DefaultTTLPolicy returns the stock policy: one hour absolute, five
// minutes sliding on a read-miss population, twenty after a write.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Absolute:     time.Hour,
		ReadSliding:  5 * time.Minute,
		WriteSliding: 20 * time.Minute,
	}
}

// Validate checks whether the policy values are usable.
func (p TTLPolicy) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Absolute, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&p.ReadSliding, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&p.WriteSliding, validation.Required, validation.Min(time.Duration(1))),
	)
}

// Repository decorates a backing entity store with the catalog's
// caching policy:
//
//   - GetAll is the only cached operation. On a miss the full
//     collection is fetched (through the admission gate when one is
//     wired), stamped and stored under the kind's listing key.
//     Concurrent misses for the same key are coalesced.
//   - GetByID and Search always hit the backing store. Their key space
//     is unbounded and nothing would ever invalidate the entries.
//   - Add, Update and Delete validate, write to the backing store,
//     invalidate the listing entry and eagerly repopulate it so the
//     next reader does not pay the miss.
type Repository[T Validatable] struct {
	kind    string
	listKey string
	store   storage.EntityStore[T]
	cache   cache.Store
	ttl     TTLPolicy

	limiter  *gate.Limiter
	resource string

	flight singleflight.Group
	log    logging.Logger
}

// NewRepository builds a cached repository for one entity kind.
func NewRepository[T Validatable](kind string, store storage.EntityStore[T], cacheStore cache.Store, opts ...Option[T]) *Repository[T] {
	r := &Repository[T]{
		kind:    kind,
		listKey: cache.ListKey(kind),
		store:   store,
		cache:   cacheStore,
		ttl:     DefaultTTLPolicy(),
		log:     logging.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Repository at construction time.
type Option[T Validatable] func(*Repository[T])

// WithTTLPolicy overrides the default listing TTLs.
func WithTTLPolicy[T Validatable](p TTLPolicy) Option[T] {
	return func(r *Repository[T]) { r.ttl = p }
}

// WithGate places the full-listing fetch under admission control. The
// resource name defaults to the kind's listing key.
func WithGate[T Validatable](l *gate.Limiter, resource string) Option[T] {
	return func(r *Repository[T]) {
		r.limiter = l
		r.resource = resource
		if r.resource == "" {
			r.resource = r.listKey
		}
	}
}

// WithLogger attaches a logger for corruption drops and repopulation
// failures.
func WithLogger[T Validatable](log logging.Logger) Option[T] {
	return func(r *Repository[T]) { r.log = log }
}

// Kind returns the entity kind this repository serves.
func (r *Repository[T]) Kind() string { return r.kind }

// ListKey returns the cache key the full listing is stored under.
func (r *Repository[T]) ListKey() string { return r.listKey }

// GetAll returns the full collection, served from cache when the
// listing entry is live.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	items, hit, err := cache.GetTyped[[]T](r.cache, r.listKey)
	if err != nil {
		r.log.Warn(ctx, "dropping corrupt cache entry", "key", r.listKey, "error", err)
		r.cache.Invalidate(r.listKey)
	} else if hit {
		return items, nil
	}

	// Coalesce concurrent misses: one fetch per key, everyone shares
	// the result. The version stamp, not the coalescing, is what keeps
	// a slow populate from clobbering newer data.
	v, err, _ := r.flight.Do(r.listKey, func() (any, error) {
		return r.populate(ctx, r.ttl.ReadSliding)
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

// populate fetches the full collection and offers it to the cache
// under a version taken before the fetch. A rejected Set means a newer
// write already landed; the fetched data is still returned to the
// caller that asked for it.
func (r *Repository[T]) populate(ctx context.Context, sliding time.Duration) ([]T, error) {
	ver := r.cache.Begin()
	items, err := r.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(r.listKey, items, cache.TTL{Absolute: r.ttl.Absolute, Sliding: sliding}, ver)
	return items, nil
}

func (r *Repository[T]) fetchAll(ctx context.Context) ([]T, error) {
	if r.limiter == nil {
		return r.store.QueryAll(ctx)
	}
	return gate.DoValue(ctx, r.limiter, r.resource, func(ctx context.Context) ([]T, error) {
		return r.store.QueryAll(ctx)
	})
}

// GetByID returns one entity straight from the backing store.
func (r *Repository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return r.store.QueryByID(ctx, id)
}

// Search returns entities matching term straight from the backing
// store.
func (r *Repository[T]) Search(ctx context.Context, term string) ([]T, error) {
	return r.store.Search(ctx, term)
}

// Add validates and persists a new entity, then refreshes the listing.
func (r *Repository[T]) Add(ctx context.Context, record T) (T, error) {
	var zero T
	if err := record.Validate(); err != nil {
		return zero, err
	}
	created, err := r.store.Insert(ctx, record)
	if err != nil {
		return zero, err
	}
	r.refreshAfterWrite(ctx)
	return created, nil
}

// Update validates and persists changes, then refreshes the listing.
func (r *Repository[T]) Update(ctx context.Context, record T) (T, error) {
	var zero T
	if err := record.Validate(); err != nil {
		return zero, err
	}
	updated, err := r.store.Update(ctx, record)
	if err != nil {
		return zero, err
	}
	r.refreshAfterWrite(ctx)
	return updated, nil
}

// Delete removes an entity, then refreshes the listing.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.refreshAfterWrite(ctx)
	return nil
}

// refreshAfterWrite invalidates the listing and eagerly repopulates it
// with the post-write sliding window. A failed repopulation is not a
// failure of the write: the cache stays invalidated and the next
// reader repopulates lazily.
func (r *Repository[T]) refreshAfterWrite(ctx context.Context) {
	r.cache.Invalidate(r.listKey)
	if _, err := r.populate(ctx, r.ttl.WriteSliding); err != nil {
		r.log.Warn(ctx, "post-write repopulation failed, cache left invalidated",
			"key", r.listKey, "error", err)
	}
}
