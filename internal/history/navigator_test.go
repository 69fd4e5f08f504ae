package history

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestAddRelocatesDuplicates(t *testing.T) {
	n := NewNavigator(10)
	for _, term := range []string{"one", "two", "three", "two"} {
		if err := n.Add(term); err != nil {
			t.Fatalf("add %q: %v", term, err)
		}
	}
	if got := n.Entries(); !reflect.DeepEqual(got, []string{"one", "three", "two"}) {
		t.Fatalf("unexpected entries %v", got)
	}
}

func TestAddEvictsOldest(t *testing.T) {
	n := NewNavigator(3)
	for _, term := range []string{"a", "b", "c", "d"} {
		if err := n.Add(term); err != nil {
			t.Fatalf("add %q: %v", term, err)
		}
	}
	if got := n.Entries(); !reflect.DeepEqual(got, []string{"b", "c", "d"}) {
		t.Fatalf("expected oldest evicted, got %v", got)
	}
}

func TestCursorWalk(t *testing.T) {
	n := NewNavigator(10)
	for _, term := range []string{"old", "mid", "new"} {
		if err := n.Add(term); err != nil {
			t.Fatalf("add %q: %v", term, err)
		}
	}

	if _, ok := n.Current(); ok {
		t.Fatal("cursor must start parked off the end")
	}
	if v, ok := n.Previous(); !ok || v != "new" {
		t.Fatalf("first Previous should land on the newest, got %q %v", v, ok)
	}
	if v, ok := n.Previous(); !ok || v != "mid" {
		t.Fatalf("expected mid, got %q %v", v, ok)
	}
	if v, ok := n.Previous(); !ok || v != "old" {
		t.Fatalf("expected old, got %q %v", v, ok)
	}
	if v, ok := n.Previous(); !ok || v != "old" {
		t.Fatalf("Previous at the oldest must stay, got %q %v", v, ok)
	}
	if v, ok := n.Next(); !ok || v != "mid" {
		t.Fatalf("expected mid going forward, got %q %v", v, ok)
	}
	if v, ok := n.First(); !ok || v != "old" {
		t.Fatalf("First must land on the oldest, got %q %v", v, ok)
	}
	if v, ok := n.Last(); !ok || v != "new" {
		t.Fatalf("Last must land on the newest, got %q %v", v, ok)
	}
	if v, ok := n.Next(); ok {
		t.Fatalf("Next past the newest must report nothing, got %q", v)
	}
	if _, ok := n.Current(); ok {
		t.Fatal("cursor must be parked after stepping past the newest")
	}
}

func TestEmptyNavigatorNeverPanics(t *testing.T) {
	n := NewNavigator(5)
	if _, ok := n.First(); ok {
		t.Fatal("First on empty must report nothing")
	}
	if _, ok := n.Last(); ok {
		t.Fatal("Last on empty must report nothing")
	}
	if _, ok := n.Next(); ok {
		t.Fatal("Next on empty must report nothing")
	}
	if _, ok := n.Previous(); ok {
		t.Fatal("Previous on empty must report nothing")
	}
	if _, ok := n.Current(); ok {
		t.Fatal("Current on empty must report nothing")
	}
}

func TestAddIgnoresEmpty(t *testing.T) {
	n := NewNavigator(5)
	if err := n.Add(""); err != nil {
		t.Fatalf("add empty: %v", err)
	}
	if n.Len() != 0 {
		t.Fatal("empty terms must not be recorded")
	}
}

func TestPersistentNavigatorRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "find-history.json")
	store := NewStore(path)

	n, err := NewPersistentNavigator(store, 10)
	if err != nil {
		t.Fatalf("fresh navigator: %v", err)
	}
	for _, term := range []string{"alpha", "beta"} {
		if err := n.Add(term); err != nil {
			t.Fatalf("add %q: %v", term, err)
		}
	}

	restored, err := NewPersistentNavigator(NewStore(path), 10)
	if err != nil {
		t.Fatalf("restore navigator: %v", err)
	}
	if got := restored.Entries(); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Fatalf("unexpected restored entries %v", got)
	}
	if _, ok := restored.Current(); ok {
		t.Fatal("restored cursor must start parked")
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	terms, err := store.Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if terms != nil {
		t.Fatalf("expected no terms, got %v", terms)
	}
}
