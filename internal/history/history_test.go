package history

import "testing"

func TestNavigateUpCapturesDraftAndWalksBack(t *testing.T) {
	var seen []string
	n := NewNavigator([]string{"first", "second", "third"})
	n.OnChange = func(s string) { seen = append(seen, s) }

	n.NavigateUp("draft")
	if n.OriginalDraft != "draft" {
		t.Fatalf("expected draft captured as %q, got %q", "draft", n.OriginalDraft)
	}
	n.NavigateUp("draft")
	n.NavigateUp("draft")

	want := []string{"third", "second", "first"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d OnChange calls, got %d: %v", len(want), len(seen), seen)
	}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("call %d: expected %q, got %q", i, w, seen[i])
		}
	}
}

func TestNavigateUpStopsAtOldest(t *testing.T) {
	n := NewNavigator([]string{"only"})
	var last string
	n.OnChange = func(s string) { last = s }

	n.NavigateUp("draft")
	n.NavigateUp("draft") // past the only entry, should be a no-op
	if last != "only" {
		t.Fatalf("expected to stay on %q, got %q", "only", last)
	}
	if n.HistoryIndex != 0 {
		t.Fatalf("expected HistoryIndex to stay at 0, got %d", n.HistoryIndex)
	}
}

func TestNavigateDownRestoresDraftVerbatim(t *testing.T) {
	var seen []string
	n := NewNavigator([]string{"first", "second"})
	n.OnChange = func(s string) { seen = append(seen, s) }

	n.NavigateUp("my draft")
	n.NavigateDown()

	if n.HistoryIndex != -1 {
		t.Fatalf("expected HistoryIndex reset to -1, got %d", n.HistoryIndex)
	}
	if got := seen[len(seen)-1]; got != "my draft" {
		t.Fatalf("expected draft restored verbatim, got %q", got)
	}
}

func TestNavigateDownWhenNotNavigatingIsNoop(t *testing.T) {
	called := false
	n := NewNavigator([]string{"a", "b"})
	n.OnChange = func(s string) { called = true }
	n.NavigateDown()
	if called {
		t.Fatal("NavigateDown should not fire OnChange when not navigating")
	}
}

func TestIsActiveGatesNavigation(t *testing.T) {
	n := NewNavigator([]string{"a", "b"})
	n.IsActive = func() bool { return false }
	called := false
	n.OnChange = func(s string) { called = true }
	n.NavigateUp("draft")
	if called {
		t.Fatal("NavigateUp should be gated off by IsActive returning false")
	}
	if n.HistoryIndex != -1 {
		t.Fatalf("expected HistoryIndex untouched, got %d", n.HistoryIndex)
	}
}

func TestGoToIndexClampsAndCapturesDraft(t *testing.T) {
	var last string
	n := NewNavigator([]string{"a", "b", "c"})
	n.OnChange = func(s string) { last = s }

	n.GoToIndex(100, "draft")
	if n.HistoryIndex != 2 {
		t.Fatalf("expected index clamped to 2, got %d", n.HistoryIndex)
	}
	if last != "a" {
		t.Fatalf("expected most-distant message %q, got %q", "a", last)
	}
	if n.OriginalDraft != "draft" {
		t.Fatalf("expected draft captured, got %q", n.OriginalDraft)
	}
}

func TestGoToIndexNegativeOneRestoresDraft(t *testing.T) {
	var seen []string
	n := NewNavigator([]string{"a", "b", "c"})
	n.OnChange = func(s string) { seen = append(seen, s) }

	n.GoToIndex(1, "my draft")
	n.GoToIndex(-1, "my draft")

	if n.HistoryIndex != -1 {
		t.Fatalf("expected HistoryIndex reset to -1, got %d", n.HistoryIndex)
	}
	if got := seen[len(seen)-1]; got != "my draft" {
		t.Fatalf("expected draft restored verbatim, got %q", got)
	}
}

func TestSubmitAppendsAndResetsNavigation(t *testing.T) {
	n := NewNavigator([]string{"a"})
	n.NavigateUp("draft")
	n.Submit("b")

	if n.HistoryIndex != -1 {
		t.Fatalf("expected HistoryIndex reset after submit, got %d", n.HistoryIndex)
	}
	if n.OriginalDraft != "" {
		t.Fatalf("expected OriginalDraft cleared after submit, got %q", n.OriginalDraft)
	}
	if len(n.UserMessages) != 2 || n.UserMessages[1] != "b" {
		t.Fatalf("expected %q appended to UserMessages, got %v", "b", n.UserMessages)
	}
}

func TestNavigateUpOnEmptyHistoryIsNoop(t *testing.T) {
	called := false
	n := NewNavigator(nil)
	n.OnChange = func(s string) { called = true }
	n.NavigateUp("draft")
	if called {
		t.Fatal("NavigateUp on empty history should not fire OnChange")
	}
}
