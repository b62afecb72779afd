package cache

import "testing"

func TestListKey(t *testing.T) {
	tests := []struct {
		name string
		kind string
		want string
	}{
		{name: "simple kind", kind: "Book", want: "all-books"},
		{name: "already lower", kind: "author", want: "all-authors"},
		{name: "already plural", kind: "books", want: "all-books"},
		{name: "camel case", kind: "OrderLine", want: "all-order-lines"},
		{name: "acronym boundary", kind: "ISBNRecord", want: "all-isbn-records"},
		{name: "spaces collapse", kind: " book  shelf ", want: "all-book-shelfs"},
		{name: "consonant y", kind: "Category", want: "all-categories"},
		{name: "vowel y", kind: "Essay", want: "all-essays"},
		{name: "sibilant ending", kind: "Address", want: "all-addresses"},
		{name: "box ending", kind: "Mailbox", want: "all-mailboxes"},
		{name: "pointer noise stripped", kind: "*Book", want: "all-books"},
		{name: "generic suffix stripped", kind: "Repository[Book]", want: "all-repository-books"},
		{name: "empty", kind: "", want: "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ListKey(tt.kind); got != tt.want {
				t.Errorf("ListKey(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestListKeyDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if ListKey("Publisher") != "all-publishers" {
			t.Fatal("ListKey must be deterministic")
		}
	}
}
