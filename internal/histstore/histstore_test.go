package histstore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecentOrdersOldestFirst(t *testing.T) {
	store := openTestStore(t)

	for _, body := range []string{"one", "two", "three"} {
		if err := store.Append(body); err != nil {
			t.Fatalf("Append(%q): %v", body, err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("index %d: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	store := openTestStore(t)
	for _, body := range []string{"one", "two", "three", "four"} {
		if err := store.Append(body); err != nil {
			t.Fatalf("Append(%q): %v", body, err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"three", "four"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("index %d: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestAppendEmptyBodyIsNoop(t *testing.T) {
	store := openTestStore(t)
	if err := store.Append(""); err != nil {
		t.Fatalf("Append(\"\"): %v", err)
	}
	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows recorded for an empty body, got %v", got)
	}
}

func TestLoadNavigatorBuildsNavigatorFromPersistedHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, body := range []string{"alpha", "beta"} {
		if err := store.Append(body); err != nil {
			t.Fatalf("Append(%q): %v", body, err)
		}
	}
	store.Close()

	reopened, nav := LoadNavigator(path, 10)
	if reopened == nil {
		t.Fatal("expected a non-nil Store from LoadNavigator")
	}
	defer reopened.Close()

	if len(nav.UserMessages) != 2 || nav.UserMessages[0] != "alpha" || nav.UserMessages[1] != "beta" {
		t.Fatalf("expected navigator seeded with [alpha beta], got %v", nav.UserMessages)
	}
}

func TestLoadNavigatorFallsBackOnUnopenablePath(t *testing.T) {
	// A directory path can never be opened as a sqlite3 database file.
	dir := t.TempDir()
	store, nav := LoadNavigator(dir, 10)
	if store != nil {
		t.Fatal("expected a nil Store when the path cannot be opened")
	}
	if len(nav.UserMessages) != 0 {
		t.Fatalf("expected an empty navigator, got %v", nav.UserMessages)
	}
}
