package tui

import (
	"github.com/atotto/clipboard"

	"reapo/internal/logger"
)

// syncClipboard mirrors the vim engine's internal yank/delete register
// onto the OS clipboard whenever it changes, so text pulled into the
// prompt with y/d/c can be pasted into another application. It's a
// one-way mirror: the OS clipboard never feeds back into the engine,
// matching the real vim behavior of keeping the unnamed register and
// the system clipboard separate unless the user explicitly asks for
// "+y.
func (m *Model) syncClipboard() {
	text := m.textarea.Clipboard()
	if text == "" || text == m.lastClipboard {
		return
	}
	m.lastClipboard = text
	if err := clipboard.WriteAll(text); err != nil {
		logger.Debug("tui: clipboard mirror: %v", err)
	}
}
