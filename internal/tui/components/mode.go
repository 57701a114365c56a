package components

import (
	"github.com/charmbracelet/lipgloss"
	"reapo/internal/vimtextarea"
)

// ModeIndicatorComponent handles the rendering of the vim mode indicator
type ModeIndicatorComponent struct {
	mode vimtextarea.Mode
}

// NewModeIndicatorComponent creates a new mode indicator component
func NewModeIndicatorComponent(mode vimtextarea.Mode) *ModeIndicatorComponent {
	return &ModeIndicatorComponent{
		mode: mode,
	}
}

// Render renders the vim mode indicator with colored background
func (m *ModeIndicatorComponent) Render() string {
	var modeText string
	var modeColor string

	switch m.mode {
	case vimtextarea.ModeNormal:
		modeText = " NORMAL "
		modeColor = "4" // Blue background for normal mode
	case vimtextarea.ModeInsert:
		modeText = " INSERT "
		modeColor = "2" // Green background for insert mode
	case vimtextarea.ModeVisual:
		modeText = " VISUAL "
		modeColor = "5" // Magenta background for visual mode
	case vimtextarea.ModeVisualLine:
		modeText = " V-LINE "
		modeColor = "5"
	case vimtextarea.ModeCommand:
		modeText = " COMMAND "
		modeColor = "3" // Yellow background for command mode
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")). // Black text
		Background(lipgloss.Color(modeColor)).
		Render(modeText)
}

// Width returns the width of the mode indicator
func (m *ModeIndicatorComponent) Width() int {
	switch m.mode {
	case vimtextarea.ModeNormal:
		return len(" NORMAL ")
	case vimtextarea.ModeInsert:
		return len(" INSERT ")
	case vimtextarea.ModeVisual:
		return len(" VISUAL ")
	case vimtextarea.ModeVisualLine:
		return len(" V-LINE ")
	case vimtextarea.ModeCommand:
		return len(" COMMAND ")
	default:
		return 0
	}
}
