package vimtextarea

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea-facing wrapper around Controller: it owns
// width/height/placeholder/focus the way the teacher's textarea
// components do, and translates tea.KeyMsg into Key before handing
// off to the pure engine.
type Model struct {
	ctrl *Controller

	width       int
	height      int
	placeholder string
	focused     bool
}

// New returns a Model ready to receive key messages, wired to caps.
func New(caps Capabilities) Model {
	return Model{
		ctrl:    NewController(caps),
		width:   80,
		height:  1,
		focused: true,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Update applies msg to the engine. The third return value reports
// whether the vim controller consumed the key (spec.md §4.D's
// handled_by_vim); callers that layer their own key handling on top
// (history navigation, completion, ...) use it to know when a key
// fell through unhandled, the same way the core's HandleKey signals
// it internally.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled := m.ctrl.HandleKey(keyFromTea(msg))
		return m, nil, handled
	}
	return m, nil, false
}

// keyFromTea adapts a bubbletea KeyMsg to the engine's Key shape.
func keyFromTea(msg tea.KeyMsg) Key {
	k := Key{
		Sequence: msg.String(),
		Meta:     msg.Alt,
		Runes:    msg.Runes,
	}
	switch msg.Type {
	case tea.KeyRunes:
		k.Insertable = true
	case tea.KeyEscape:
		k.Name = "escape"
	case tea.KeyEnter:
		k.Name = "return"
	case tea.KeyBackspace:
		k.Name = "backspace"
	case tea.KeyTab:
		k.Name = "tab"
	case tea.KeyUp:
		k.Name = "up"
	case tea.KeyDown:
		k.Name = "down"
	case tea.KeyLeft:
		k.Name = "left"
	case tea.KeyRight:
		k.Name = "right"
	case tea.KeyCtrlW:
		k.Ctrl, k.Name = true, "w"
	case tea.KeyCtrlU:
		k.Ctrl, k.Name = true, "u"
	case tea.KeyCtrlR:
		k.Ctrl, k.Name = true, "r"
	case tea.KeyCtrlV:
		k.Ctrl, k.Name = true, "v"
	case tea.KeyCtrlX:
		k.Ctrl, k.Name = true, "x"
	case tea.KeyCtrlE:
		k.Ctrl, k.Name = true, "e"
	}
	return k
}

// --- public API mirroring the teacher's textarea surface -----------

func (m Model) Value() string { return joinLines(m.ctrl.Buffer) }

func (m *Model) SetValue(value string) {
	m.ctrl.Buffer = NewBufferState()
	if value != "" {
		m.ctrl.Buffer = insertText(m.ctrl.Buffer, value)
	}
	m.ctrl.Buffer.CursorRow, m.ctrl.Buffer.CursorCol = 0, 0
}

func (m *Model) SetWidth(w int)  { m.width = w }
func (m *Model) SetHeight(h int) { m.height = h }
func (m Model) Height() int      { return m.height }

func (m *Model) SetPlaceholder(p string) { m.placeholder = p }

func (m *Model) Focus() { m.focused = true }
func (m *Model) Blur()  { m.focused = false }
func (m Model) Focused() bool { return m.focused }

func (m Model) Mode() Mode              { return m.ctrl.Mode }
func (m Model) CommandBuffer() string   { return m.ctrl.CommandBuffer }
func (m Model) Controller() *Controller { return m.ctrl }

// Clipboard returns the text most recently yanked or deleted into the
// internal register, for hosts that mirror it onto the OS clipboard.
func (m Model) Clipboard() string { return m.ctrl.Buffer.Clipboard }
