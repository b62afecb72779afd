package cache

import (
	"errors"
	"testing"
)

// stubStore returns a canned value for every Get.
type stubStore struct {
	value any
	found bool
}

func (s *stubStore) Get(string) (any, bool) { return s.value, s.found }

func (s *stubStore) Begin() Version { return 1 }

func (s *stubStore) Set(string, any, TTL, Version) bool { return true }

func (s *stubStore) Invalidate(string) {}

func TestGetTypedHit(t *testing.T) {
	store := &stubStore{value: []string{"a", "b"}, found: true}

	got, ok, err := GetTyped[[]string](store, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected value: %v", got)
	}
}

func TestGetTypedMiss(t *testing.T) {
	store := &stubStore{found: false}

	_, ok, err := GetTyped[int](store, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a miss")
	}
}

func TestGetTypedCorruptEntry(t *testing.T) {
	store := &stubStore{value: "not an int slice", found: true}

	_, ok, err := GetTyped[[]int](store, "k")
	if ok {
		t.Fatal("corrupt entry must read as a miss")
	}
	var corrupt *CorruptEntryError
	if !errors.As(err, &corrupt) {
		t.Fatalf("want *CorruptEntryError, got %v", err)
	}
	if corrupt.Key != "k" {
		t.Errorf("error carries wrong key: %q", corrupt.Key)
	}
}

func TestGetTypedNilInterfaceValue(t *testing.T) {
	// A stored nil must not panic the typed read.
	store := &stubStore{value: nil, found: true}

	_, ok, err := GetTyped[[]int](store, "k")
	if ok {
		t.Fatal("nil value must not read as a typed hit")
	}
	if err == nil {
		t.Fatal("nil value of the wrong type should surface as corruption")
	}
}
