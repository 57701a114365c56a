// Package settings persists user-editable preferences as a JSON
// document (a dotted key such as general.vimModeStyle is stored as a
// nested object), read and patched with gjson/sjson dotted paths instead of
// unmarshaling into a struct — convenient for the handful of
// independently-toggled fields this store holds, and it means adding
// a field never requires a migration.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"reapo/internal/logger"
	"reapo/internal/vimtextarea"
)

const (
	keyVimModeStyle           = "general.vimModeStyle"
	keyDisableVimCommandMode  = "general.disableVimCommandMode"
)

// Store is a file-backed settings document. It implements
// vimtextarea.SettingsPort, so a *Store can be handed straight into a
// vimtextarea.Capabilities bundle.
type Store struct {
	mu   sync.RWMutex
	path string
	raw  string
}

// Open loads path if it exists, or starts from an empty document.
func Open(path string) (*Store, error) {
	s := &Store{path: path, raw: "{}"}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}
	if !gjson.Valid(string(data)) {
		return nil, fmt.Errorf("settings: %s is not valid JSON", path)
	}
	s.raw = string(data)
	return s, nil
}

// DefaultPath returns ~/.config/reapo/settings.json, creating the
// directory if necessary.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("settings: %w", err)
	}
	dir := filepath.Join(home, ".config", "reapo")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("settings: %w", err)
	}
	return filepath.Join(dir, "settings.json"), nil
}

func (s *Store) save() error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(s.raw), 0600); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("settings: rename %s: %w", tmp, err)
	}
	return nil
}

// VimModeStyle implements vimtextarea.SettingsPort.
func (s *Store) VimModeStyle() vimtextarea.VimModeStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if gjson.Get(s.raw, keyVimModeStyle).String() == "bash-vim" {
		return vimtextarea.StyleBashVim
	}
	return vimtextarea.StyleVimEditor
}

// DisableVimCommandMode implements vimtextarea.SettingsPort.
func (s *Store) DisableVimCommandMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.raw, keyDisableVimCommandMode).Bool()
}

// SetVimModeStyle persists the vim mode style and writes the file.
func (s *Store) SetVimModeStyle(style vimtextarea.VimModeStyle) error {
	value := "vim-editor"
	if style == vimtextarea.StyleBashVim {
		value = "bash-vim"
	}
	return s.patch(keyVimModeStyle, value)
}

// SetDisableVimCommandMode persists the command-mode toggle.
func (s *Store) SetDisableVimCommandMode(disabled bool) error {
	return s.patch(keyDisableVimCommandMode, disabled)
}

func (s *Store) patch(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := sjson.Set(s.raw, key, value)
	if err != nil {
		return fmt.Errorf("settings: set %s: %w", key, err)
	}
	s.raw = updated
	if err := s.save(); err != nil {
		logger.Error("settings: %v", err)
		return err
	}
	return nil
}
