package vimtextarea

// Mode is the controller's current modal state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
	ModeVisualLine
	ModeCommand
)

// PendingOperator is an operator verb awaiting a motion or text object.
type PendingOperator int

const (
	OperatorNone PendingOperator = iota
	OperatorG
	OperatorDelete
	OperatorChange
	OperatorYank
)

// PendingChord is a multi-key modifier sequence in flight.
type PendingChord int

const (
	ChordNone PendingChord = iota
	ChordCtrlX
)

// Direction is a scan direction used by find/search.
type Direction int

const (
	DirForward Direction = iota
	DirBackward
)

// Position is a (row, col) pair in code-point coordinates.
type Position struct {
	Row int
	Col int
}

// FindState records an armed or completed f/F/t/T find.
type FindState struct {
	Char        rune
	Direction   Direction
	Inclusive   bool // true for f/F, false for t/T ("exclusive")
}

// LastCommand is the most recently executed repeatable mutation,
// consumed by '.'.
type LastCommand struct {
	Type  string // the key sequence that triggered it: "x", "dw", "cc", ...
	Count int
	Char  rune // replacement character for "r"; unused otherwise
}

// BufferState is the text buffer's logical value (spec.md §3). It is
// updated by copy-on-write: every mutating function takes a BufferState
// and returns a new one.
type BufferState struct {
	Lines             []string
	CursorRow         int
	CursorCol         int
	PreferredCol      *int
	SelectionAnchor   *Position
	Clipboard         string
	LastSearchQuery   string
	LastSearchDir     Direction
	UndoStack         []undoSnapshot
}

const maxUndoDepth = 100

// undoSnapshot is a full pre-image of the mutable buffer fields,
// excluding the undo stack itself (spec.md §3).
type undoSnapshot struct {
	Lines           []string
	CursorRow       int
	CursorCol       int
	PreferredCol    *int
	SelectionAnchor *Position
	Clipboard       string
}

// NewBufferState returns the invariant-satisfying empty buffer.
func NewBufferState() BufferState {
	return BufferState{Lines: []string{""}}
}

func cloneLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

func clonePreferredCol(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSelectionAnchor(p *Position) *Position {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
