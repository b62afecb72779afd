package cart

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Line is one book in a cart. Title and Price are snapshots taken from
// the catalog the moment the line was first added; they are never
// refreshed afterward, so a cart always reflects price-at-add-time.
//
// The JSON shape of a line is the persisted wire format and must stay
// stable across versions.
type Line struct {
	BookID   int64   `json:"bookId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Total is the line subtotal at snapshot price.
func (l Line) Total() float64 {
	return l.Price * float64(l.Quantity)
}

func (l Line) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.BookID, validation.Required),
		validation.Field(&l.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&l.Price, validation.Min(0.0)),
	)
}

// Document is one user's cart: an ordered line list plus bookkeeping.
// At most one document exists per user, and no two lines share a
// bookId - a duplicate add accumulates quantity instead of appending.
type Document struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"userId"`
	Lines        []Line    `json:"lines"`
	LastModified time.Time `json:"lastModified"`
}

// Total sums the line subtotals.
func (d Document) Total() float64 {
	var sum float64
	for _, l := range d.Lines {
		sum += l.Total()
	}
	return sum
}

// Empty reports whether the cart holds no lines.
func (d Document) Empty() bool {
	return len(d.Lines) == 0
}

// lineIndex returns the position of the line for bookID, or -1.
func lineIndex(lines []Line, bookID int64) int {
	for i, l := range lines {
		if l.BookID == bookID {
			return i
		}
	}
	return -1
}

// matchLines returns the lines whose title contains term,
// case-insensitively. An empty term matches everything.
func matchLines(lines []Line, term string) []Line {
	needle := strings.ToLower(term)
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l.Title), needle) {
			out = append(out, l)
		}
	}
	return out
}
