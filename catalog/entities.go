package catalog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"
)

// Entity kind names. They feed cache key derivation and gate resource
// naming, so they must stay stable.
const (
	KindBook      = "Book"
	KindAuthor    = "Author"
	KindCategory  = "Category"
	KindPublisher = "Publisher"
	KindCustomer  = "Customer"
	KindOrder     = "Order"
)

// Validatable is the constraint every catalog entity satisfies: a
// record checks its own field-level invariants before it is written.
type Validatable interface {
	Validate() error
}

// Book is a catalog item. Author, Category and Publisher are loaded
// relations; the repository's full listing includes them.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int64   `json:"id" bun:"id,pk,autoincrement"`
	Title       string  `json:"title" bun:"title,notnull"`
	Description string  `json:"description" bun:"description"`
	Price       float64 `json:"price" bun:"price,notnull"`
	Stock       int     `json:"stock" bun:"stock"`

	AuthorID    int64      `json:"authorId" bun:"author_id,notnull"`
	Author      *Author    `json:"author,omitempty" bun:"rel:belongs-to,join:author_id=id"`
	CategoryID  int64      `json:"categoryId" bun:"category_id,notnull"`
	Category    *Category  `json:"category,omitempty" bun:"rel:belongs-to,join:category_id=id"`
	PublisherID int64      `json:"publisherId" bun:"publisher_id,notnull"`
	Publisher   *Publisher `json:"publisher,omitempty" bun:"rel:belongs-to,join:publisher_id=id"`
}

func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required, validation.Length(1, 512)),
		validation.Field(&b.Price, validation.Min(0.0)),
		validation.Field(&b.Stock, validation.Min(0)),
		validation.Field(&b.AuthorID, validation.Required),
		validation.Field(&b.CategoryID, validation.Required),
		validation.Field(&b.PublisherID, validation.Required),
	)
}

// BookDetails is the flattened projection served by the book detail
// page: one row joining the book with its related names.
type BookDetails struct {
	BookID           int64   `json:"bookId"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Stock            int     `json:"stock"`
	AuthorName       string  `json:"authorName"`
	AuthorBiography  string  `json:"authorBiography"`
	PublisherName    string  `json:"publisherName"`
	PublisherAddress string  `json:"publisherAddress"`
	PublisherPhone   string  `json:"publisherPhone"`
	CategoryName     string  `json:"categoryName"`
	CategoryDesc     string  `json:"categoryDescription"`
}

// Author writes books.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int64   `json:"id" bun:"id,pk,autoincrement"`
	Name      string  `json:"name" bun:"name,notnull"`
	Biography string  `json:"biography" bun:"biography"`
	Books     []*Book `json:"books,omitempty" bun:"rel:has-many,join:id=author_id"`
}

func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 256)),
	)
}

// Category groups books by genre.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64   `json:"id" bun:"id,pk,autoincrement"`
	Name        string  `json:"name" bun:"name,notnull"`
	Description string  `json:"description" bun:"description"`
	Books       []*Book `json:"books,omitempty" bun:"rel:has-many,join:id=category_id"`
}

func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 256)),
	)
}

// Publisher distributes books.
type Publisher struct {
	bun.BaseModel `bun:"table:publishers,alias:p"`

	ID      int64   `json:"id" bun:"id,pk,autoincrement"`
	Name    string  `json:"name" bun:"name,notnull"`
	Address string  `json:"address" bun:"address"`
	Phone   string  `json:"phone" bun:"phone"`
	Books   []*Book `json:"books,omitempty" bun:"rel:has-many,join:id=publisher_id"`
}

func (p Publisher) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 256)),
	)
}

// Customer places orders.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:cu"`

	ID      int64    `json:"id" bun:"id,pk,autoincrement"`
	Name    string   `json:"name" bun:"name,notnull"`
	Email   string   `json:"email" bun:"email,notnull"`
	Phone   string   `json:"phone" bun:"phone"`
	Address string   `json:"address" bun:"address"`
	Orders  []*Order `json:"orders,omitempty" bun:"rel:has-many,join:id=customer_id"`
}

func (c Customer) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&c.Email, validation.Required, is.Email),
	)
}

// Order statuses as the original shop used them.
const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order is a placed purchase with its line items.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          int64        `json:"id" bun:"id,pk,autoincrement"`
	CustomerID  int64        `json:"customerId" bun:"customer_id,notnull"`
	Customer    *Customer    `json:"customer,omitempty" bun:"rel:belongs-to,join:customer_id=id"`
	OrderDate   time.Time    `json:"orderDate" bun:"order_date,notnull"`
	TotalAmount float64      `json:"totalAmount" bun:"total_amount,notnull"`
	Status      string       `json:"status" bun:"status,notnull"`
	Lines       []*OrderLine `json:"lines,omitempty" bun:"rel:has-many,join:id=order_id"`
}

func (o Order) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.CustomerID, validation.Required),
		validation.Field(&o.TotalAmount, validation.Min(0.0)),
		validation.Field(&o.Status, validation.Required, validation.In(
			OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		)),
	)
}

// OrderLine is one book within an order.
type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines,alias:ol"`

	ID       int64   `json:"id" bun:"id,pk,autoincrement"`
	OrderID  int64   `json:"orderId" bun:"order_id,notnull"`
	BookID   int64   `json:"bookId" bun:"book_id,notnull"`
	Book     *Book   `json:"book,omitempty" bun:"rel:belongs-to,join:book_id=id"`
	Quantity int     `json:"quantity" bun:"quantity,notnull"`
	Price    float64 `json:"price" bun:"price,notnull"`
}

func (l OrderLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.BookID, validation.Required),
		validation.Field(&l.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&l.Price, validation.Min(0.0)),
	)
}
