// Package di wires the shop's core: backing store, cache, admission
// gate, catalog repositories and the cart aggregate store.
package di

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bookwork/go-bookshop/cache"
	"github.com/bookwork/go-bookshop/cart"
	"github.com/bookwork/go-bookshop/catalog"
	"github.com/bookwork/go-bookshop/gate"
	"github.com/bookwork/go-bookshop/internal/bunstore"
	"github.com/bookwork/go-bookshop/internal/cacheinfra"
	"github.com/bookwork/go-bookshop/internal/logging"
	"github.com/bookwork/go-bookshop/storage"
)

// GateResourceBooks names the one guarded resource: the full book
// listing.
const GateResourceBooks = "books"

// Config is the container's configuration surface.
type Config struct {
	// Driver selects the backing database: "sqlite" or "postgres".
	Driver string
	// DSN is the driver-specific connection string.
	DSN string

	// TTL is the listing cache policy applied to the cached catalog
	// repositories.
	TTL catalog.TTLPolicy

	// Gate is the admission policy for the book listing path.
	Gate gate.Config

	// Cart tunes the cart aggregate store (guest identity, CAS retry).
	Cart cart.Config
}

// DefaultConfig returns a development configuration: in-memory SQLite
// and the stock policies from each package.
func DefaultConfig() Config {
	return Config{
		Driver: "sqlite",
		DSN:    "file::memory:?cache=shared",
		TTL:    catalog.DefaultTTLPolicy(),
		Gate:   gate.DefaultConfig(),
		Cart:   cart.DefaultConfig(),
	}
}

// Validate checks the configuration before anything is built.
func (c Config) Validate() error {
	if c.Driver != "sqlite" && c.Driver != "postgres" {
		return fmt.Errorf("di: unknown driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("di: empty DSN")
	}
	if err := c.TTL.Validate(); err != nil {
		return fmt.Errorf("di: ttl policy: %w", err)
	}
	if err := c.Gate.Validate(); err != nil {
		return fmt.Errorf("di: gate config: %w", err)
	}
	if err := c.Cart.Validate(); err != nil {
		return fmt.Errorf("di: cart config: %w", err)
	}
	return nil
}

// Container owns singleton instances of the core components and hands
// out the repositories built over them.
type Container struct {
	config  Config
	db      *bun.DB
	cache   cache.Store
	limiter *gate.Limiter
	log     logging.Logger

	books      *catalog.BookRepository
	authors    *catalog.Repository[catalog.Author]
	categories *catalog.Repository[catalog.Category]
	publishers *catalog.Repository[catalog.Publisher]
	customers  *catalog.Repository[catalog.Customer]
	orders     *catalog.Repository[catalog.Order]
	cartStore  *cart.AggregateStore
}

// New opens the configured database and builds the container.
func New(cfg Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		db  *bun.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = bunstore.OpenPostgres(cfg.DSN)
	default:
		db, err = bunstore.OpenSQLite(cfg.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("di: open database: %w", err)
	}
	return NewWithDB(cfg, db)
}

// NewWithDB builds the container over an already opened database.
func NewWithDB(cfg Config, db *bun.DB) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.Default()
	cacheStore := cacheinfra.New()

	limiter, err := gate.New(gate.DefaultConfig(), gate.WithResource(GateResourceBooks, cfg.Gate))
	if err != nil {
		return nil, err
	}

	c := &Container{
		config:  cfg,
		db:      db,
		cache:   cacheStore,
		limiter: limiter,
		log:     log,
	}

	c.books = catalog.NewBookRepository(bunstore.NewBookStore(db), cacheStore,
		catalog.WithTTLPolicy[catalog.Book](cfg.TTL),
		catalog.WithGate[catalog.Book](limiter, GateResourceBooks),
		catalog.WithLogger[catalog.Book](log),
	)
	c.authors = newCached[catalog.Author](c, catalog.KindAuthor, bunstore.NewAuthorStore(db))
	c.categories = newCached[catalog.Category](c, catalog.KindCategory, bunstore.NewCategoryStore(db))
	c.publishers = newCached[catalog.Publisher](c, catalog.KindPublisher, bunstore.NewPublisherStore(db))

	// Customers and orders stay uncached: their listings are cold
	// admin paths, served straight from the store.
	c.customers = catalog.NewRepository(catalog.KindCustomer,
		storage.EntityStore[catalog.Customer](bunstore.NewCustomerStore(db)), passthroughCache{},
		catalog.WithLogger[catalog.Customer](log))
	c.orders = catalog.NewRepository(catalog.KindOrder,
		storage.EntityStore[catalog.Order](bunstore.NewOrderStore(db)), passthroughCache{},
		catalog.WithLogger[catalog.Order](log))

	c.cartStore, err = cart.NewAggregateStore(bunstore.NewCartStore(db), c.books,
		cart.WithConfig(cfg.Cart), cart.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// newCached builds a cached repository with the container's shared
// cache, TTL policy and logger. Package-level because Go methods
// cannot have type parameters.
func newCached[T catalog.Validatable](c *Container, kind string, store storage.EntityStore[T]) *catalog.Repository[T] {
	return catalog.NewRepository(kind, store, c.cache,
		catalog.WithTTLPolicy[T](c.config.TTL),
		catalog.WithLogger[T](c.log),
	)
}

// Bootstrap creates the database schema if missing. Intended for tests
// and local development.
func (c *Container) Bootstrap(ctx context.Context) error {
	return bunstore.CreateSchema(ctx, c.db)
}

// Close releases the underlying database.
func (c *Container) Close() error { return c.db.Close() }

func (c *Container) DB() *bun.DB { return c.db }

func (c *Container) Cache() cache.Store { return c.cache }

func (c *Container) Gate() *gate.Limiter { return c.limiter }

func (c *Container) Books() *catalog.BookRepository { return c.books }

func (c *Container) Authors() *catalog.Repository[catalog.Author] { return c.authors }

func (c *Container) Categories() *catalog.Repository[catalog.Category] { return c.categories }

func (c *Container) Publishers() *catalog.Repository[catalog.Publisher] { return c.publishers }

func (c *Container) Customers() *catalog.Repository[catalog.Customer] { return c.customers }

func (c *Container) Orders() *catalog.Repository[catalog.Order] { return c.orders }

func (c *Container) Cart() *cart.AggregateStore { return c.cartStore }

// passthroughCache never hits: repositories built over it serve every
// read from the backing store while keeping the same code path.
type passthroughCache struct{}

func (passthroughCache) Get(string) (any, bool) { return nil, false }

func (passthroughCache) Begin() cache.Version { return 0 }

func (passthroughCache) Set(string, any, cache.TTL, cache.Version) bool { return false }

func (passthroughCache) Invalidate(string) {}
