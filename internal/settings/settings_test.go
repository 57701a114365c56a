package settings

import (
	"os"
	"path/filepath"
	"testing"

	"reapo/internal/vimtextarea"
)

func TestOpenOnMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.VimModeStyle() != vimtextarea.StyleVimEditor {
		t.Fatalf("expected default style StyleVimEditor, got %v", s.VimModeStyle())
	}
	if s.DisableVimCommandMode() {
		t.Fatal("expected DisableVimCommandMode to default to false")
	}
}

func TestOpenRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected Open to reject invalid JSON")
	}
}

func TestSetVimModeStylePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetVimModeStyle(vimtextarea.StyleBashVim); err != nil {
		t.Fatalf("SetVimModeStyle: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.VimModeStyle() != vimtextarea.StyleBashVim {
		t.Fatalf("expected persisted style StyleBashVim, got %v", reopened.VimModeStyle())
	}
}

func TestSetDisableVimCommandModePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetDisableVimCommandMode(true); err != nil {
		t.Fatalf("SetDisableVimCommandMode: %v", err)
	}
	if !s.DisableVimCommandMode() {
		t.Fatal("expected DisableVimCommandMode to read back true")
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.DisableVimCommandMode() {
		t.Fatal("expected DisableVimCommandMode to persist across reopen")
	}
}

func TestSaveWritesAtomicallyViaTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetVimModeStyle(vimtextarea.StyleBashVim); err != nil {
		t.Fatalf("SetVimModeStyle: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected the temp file to be renamed away, stat error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file to exist at %s: %v", path, err)
	}
}
