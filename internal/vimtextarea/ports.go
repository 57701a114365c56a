package vimtextarea

// This file is the core's only seam onto the outside world (spec.md
// §4.F/§4.G). The controller is handed a Capabilities bundle of plain
// function references — no singletons, no package-level state — so it
// can be constructed identically in tests and in the real TUI.

// SubmitPort is called on Enter in INSERT when the trimmed buffer text
// is non-empty.
type SubmitPort func(text string)

// ExternalEditorPort is a one-shot, fire-and-forget launch of an
// external editor, invoked by the Ctrl+X Ctrl+E chord. The core never
// awaits it; any failure is the host's concern (spec.md §7).
type ExternalEditorPort func()

// SettingsPort answers settings lookups. It is consulted on every
// dispatch with no caching in the core (spec.md §4.F) — a concrete
// implementation may cache internally, but the controller never
// memoizes the result across calls.
type SettingsPort interface {
	VimModeStyle() VimModeStyle
	DisableVimCommandMode() bool
}

// VimModeStyle selects the relaxed "bash-vim" history-yielding variant
// or the strict vim-editor style (spec.md §6).
type VimModeStyle int

const (
	StyleVimEditor VimModeStyle = iota
	StyleBashVim
)

// ObserverPort receives rendering-facing notifications after a state
// transition has committed (spec.md §5 "Observer callbacks fire after
// the state transition is committed").
type ObserverPort struct {
	OnModeChange          func(Mode)
	OnCommandBufferChange func(string)
}

func (o ObserverPort) modeChanged(m Mode) {
	if o.OnModeChange != nil {
		o.OnModeChange(m)
	}
}

func (o ObserverPort) commandBufferChanged(s string) {
	if o.OnCommandBufferChange != nil {
		o.OnCommandBufferChange(s)
	}
}

// Capabilities bundles every external collaborator the controller
// touches. A zero-value Capabilities is safe to use: Submit and
// OpenExternalEditor become no-ops, Settings defaults to vim-editor
// style with command mode enabled.
type Capabilities struct {
	Submit             SubmitPort
	OpenExternalEditor ExternalEditorPort
	Settings           SettingsPort
	Observer           ObserverPort
}

type defaultSettings struct{}

func (defaultSettings) VimModeStyle() VimModeStyle      { return StyleVimEditor }
func (defaultSettings) DisableVimCommandMode() bool     { return false }

func (c Capabilities) settings() SettingsPort {
	if c.Settings == nil {
		return defaultSettings{}
	}
	return c.Settings
}

func (c Capabilities) submit(text string) {
	if c.Submit != nil {
		c.Submit(text)
	}
}

func (c Capabilities) openExternalEditor() {
	if c.OpenExternalEditor != nil {
		c.OpenExternalEditor()
	}
}
