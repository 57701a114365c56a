package vimtextarea

import (
	"strings"

	"reapo/internal/logger"
)

// Controller is the modal key-to-action state machine of spec.md
// §3/§4.D. It owns the buffer it mutates; callers only ever see it
// through HandleKey, Buffer (read), and the observable-state getters
// at the bottom of this file.
type Controller struct {
	Buffer BufferState
	Mode   Mode

	CommandBuffer string
	Count         int
	PendingOperator PendingOperator
	PendingChord    PendingChord
	PendingReplace  bool
	PendingInner    bool
	PendingFind     *FindState
	LastFind        *FindState
	LastCommand     *LastCommand

	// operatorCount and pendingReplaceCount are pragmatic extensions of
	// spec.md's pending-state set: the spec names a single `count`
	// field, but an operator's own count (the "2" in "2dw") must
	// survive while further digits accumulate the motion's count.
	operatorCount       int
	pendingReplaceCount int
	pendingFindSeq      string

	caps Capabilities
}

// NewController creates a controller in INSERT mode (ready to type),
// mirroring the teacher's vimtextarea.New().
func NewController(caps Capabilities) *Controller {
	return &Controller{
		Buffer: NewBufferState(),
		Mode:   ModeInsert,
		caps:   caps,
	}
}

// HandleKey is the single entry point: it returns whether the key was
// consumed by the vim engine (spec.md §4.D).
func (c *Controller) HandleKey(key Key) bool {
	key = normalizeKey(key)

	if c.PendingReplace {
		return c.consumeReplace(key)
	}
	if c.PendingFind != nil {
		return c.consumeFind(key)
	}
	if c.PendingChord == ChordCtrlX {
		c.PendingChord = ChordNone
		if key.Ctrl && keyLetter(key) == "e" {
			c.caps.openExternalEditor()
		}
		return true
	}
	if key.Ctrl && keyLetter(key) == "x" {
		c.PendingChord = ChordCtrlX
		return true
	}

	switch c.Mode {
	case ModeInsert:
		return c.handleInsert(key)
	case ModeCommand:
		return c.handleCommand(key)
	default:
		return c.handleNormalOrVisual(key)
	}
}

func keyLetter(key Key) string {
	if key.Name != "" {
		return key.Name
	}
	return key.Sequence
}

// --- pending_replace / pending_find short-circuits -----------------

func (c *Controller) consumeReplace(key Key) bool {
	c.PendingReplace = false
	if len(key.Runes) != 1 {
		return true
	}
	count := c.pendingReplaceCount
	if count == 0 {
		count = 1
	}
	r := key.Runes[0]
	buf := c.Buffer
	changed := false
	for i := 0; i < count; i++ {
		var ok bool
		buf, ok = replaceCharAction(buf, r)
		if !ok {
			break
		}
		changed = true
		buf.CursorCol++
	}
	if changed {
		buf.CursorCol--
		c.Buffer = buf
		c.LastCommand = &LastCommand{Type: "r", Count: 1, Char: r}
	}
	c.clearTransient()
	return true
}

func (c *Controller) consumeFind(key Key) bool {
	pf := c.PendingFind
	c.PendingFind = nil
	if len(key.Runes) != 1 {
		return true
	}
	pf.Char = key.Runes[0]
	pos, ok := findChar(c.Buffer, pf.Char, pf.Direction, pf.Inclusive)
	if ok {
		c.setMotion(pos)
		c.LastFind = pf
	}
	c.clearTransient()
	return true
}

// --- INSERT mode -----------------------------------------------------

func (c *Controller) handleInsert(key Key) bool {
	switch {
	case key.Name == "escape" || key.Sequence == "escape":
		c.clearAllPending()
		c.Buffer = escapeInsertMode(c.Buffer)
		c.Mode = ModeNormal
		c.caps.Observer.modeChanged(c.Mode)
		return true

	case key.Ctrl && keyLetter(key) == "w":
		c.Buffer, _ = deleteWordBackwardAction(c.Buffer, 1)
		return true

	case key.Ctrl && keyLetter(key) == "u":
		c.Buffer, _ = deleteToLineStart(c.Buffer)
		return true

	case key.Name == "return" || key.Sequence == "return":
		text := joinLines(c.Buffer)
		if strings.TrimSpace(text) != "" && c.caps.Submit != nil {
			c.caps.submit(text)
			c.Buffer = NewBufferState()
			return true
		}
		return false

	case key.Name == "tab" || key.Sequence == "tab":
		return false
	case key.Name == "up" || key.Name == "down":
		return false
	case key.Ctrl && keyLetter(key) == "r":
		return false
	case key.Ctrl && keyLetter(key) == "v":
		return false

	case key.Name == "backspace" || key.Sequence == "backspace":
		c.Buffer = backspaceAction(c.Buffer)
		return true

	default:
		if len(key.Runes) == 1 && key.Runes[0] == '!' && isBufferEmpty(c.Buffer) {
			return false
		}
		if key.Insertable && len(key.Runes) > 0 {
			c.Buffer = insertText(c.Buffer, string(key.Runes))
			return true
		}
		return false
	}
}

// --- COMMAND mode (spec.md §4.D bullet "COMMAND mode") ---------------

func (c *Controller) handleCommand(key Key) bool {
	switch {
	case key.Name == "escape" || key.Sequence == "escape":
		c.Mode = ModeNormal
		c.CommandBuffer = ""
		c.caps.Observer.modeChanged(c.Mode)
		c.caps.Observer.commandBufferChanged("")
		return true

	case key.Name == "backspace" || key.Sequence == "backspace":
		n := codepointLen(c.CommandBuffer)
		if n <= 1 {
			c.Mode = ModeNormal
			c.CommandBuffer = ""
			c.caps.Observer.modeChanged(c.Mode)
		} else {
			c.CommandBuffer = codepointSlice(c.CommandBuffer, 0, n-1)
		}
		c.caps.Observer.commandBufferChanged(c.CommandBuffer)
		return true

	case key.Name == "return" || key.Sequence == "return":
		c.dispatchCommandLine()
		return true

	default:
		if key.Insertable && len(key.Runes) > 0 {
			c.CommandBuffer += string(key.Runes)
			c.caps.Observer.commandBufferChanged(c.CommandBuffer)
		}
		return true
	}
}

// dispatchCommandLine handles Enter in COMMAND mode: an ex stub for
// ':', search dispatch for '/' and '?' (spec.md §4.F).
func (c *Controller) dispatchCommandLine() {
	buf := c.CommandBuffer
	c.CommandBuffer = ""
	c.Mode = ModeNormal
	c.caps.Observer.modeChanged(c.Mode)
	c.caps.Observer.commandBufferChanged("")

	if buf == "" {
		return
	}
	prefix := buf[0]
	rest := buf[1:]

	switch prefix {
	case ':':
		switch strings.TrimSpace(rest) {
		case "q", "w", "wq":
			logger.Debug("vimtextarea: ex command %q (no-op, host responsibility)", rest)
		}
	case '/':
		c.Buffer.LastSearchQuery = rest
		c.Buffer.LastSearchDir = DirForward
		if pos, ok := search(c.Buffer, rest, DirForward); ok {
			c.setMotion(pos)
		}
	case '?':
		c.Buffer.LastSearchQuery = rest
		c.Buffer.LastSearchDir = DirBackward
		if pos, ok := search(c.Buffer, rest, DirBackward); ok {
			c.setMotion(pos)
		}
	}
}

// --- NORMAL and VISUAL modes -----------------------------------------

func (c *Controller) handleNormalOrVisual(key Key) bool {
	seq := key.Sequence
	if key.Name == "escape" {
		seq = "escape"
	}
	if seq == "" {
		return false
	}
	if mapped, ok := arrowToMotion[seq]; ok {
		seq = mapped
	}

	// Count accumulation.
	if len(seq) == 1 && seq[0] >= '1' && seq[0] <= '9' {
		c.Count = c.Count*10 + int(seq[0]-'0')
		return true
	}
	if seq == "0" && c.Count > 0 {
		c.Count = c.Count * 10
		return true
	}

	if c.PendingOperator != OperatorNone {
		return c.handlePendingOperator(seq)
	}

	count := c.Count
	if count == 0 {
		count = 1
	}
	style := c.caps.settings().VimModeStyle()
	inVisual := c.Mode == ModeVisual || c.Mode == ModeVisualLine

	switch seq {
	case "v":
		if c.Mode == ModeVisual {
			c.exitVisual()
		} else {
			c.enterVisual(ModeVisual)
		}
		c.clearTransient()
		return true
	case "V":
		if c.Mode == ModeVisualLine {
			c.exitVisual()
		} else {
			c.enterVisual(ModeVisualLine)
		}
		c.clearTransient()
		return true

	case "h":
		c.setMotion(moveLeft(c.Buffer, count))
		c.clearTransient()
		return true
	case "l":
		c.setMotion(moveRight(c.Buffer, count))
		c.clearTransient()
		return true
	case "j":
		if style == StyleBashVim && !inVisual && c.PendingOperator == OperatorNone {
			return false
		}
		c.Buffer = moveVertical(c.Buffer, count, true)
		c.clearTransient()
		return true
	case "k":
		if style == StyleBashVim && !inVisual && c.PendingOperator == OperatorNone {
			return false
		}
		c.Buffer = moveVertical(c.Buffer, count, false)
		c.clearTransient()
		return true
	case "w":
		c.setMotion(moveWordForward(c.Buffer, count))
		c.clearTransient()
		return true
	case "b":
		c.setMotion(moveWordBackward(c.Buffer, count))
		c.clearTransient()
		return true
	case "e":
		c.setMotion(moveWordEnd(c.Buffer, count))
		c.clearTransient()
		return true
	case "0":
		c.setMotion(moveToLineStart(c.Buffer))
		c.clearTransient()
		return true
	case "^":
		c.setMotion(moveToFirstNonWhitespace(c.Buffer))
		c.clearTransient()
		return true
	case "$":
		c.setMotion(moveToLineEnd(c.Buffer))
		c.clearTransient()
		return true
	case "%":
		c.setMotion(moveToMatchingPair(c.Buffer))
		c.clearTransient()
		return true
	case "G":
		if style == StyleBashVim && !inVisual {
			return false
		}
		if c.Count == 0 {
			c.setMotion(moveToLastLine(c.Buffer))
		} else {
			c.setMotion(moveToLine(c.Buffer, c.Count))
		}
		c.clearTransient()
		return true
	case "g":
		c.PendingOperator = OperatorG
		return true

	case "f", "F", "t", "T":
		c.PendingFind = &FindState{
			Direction: findDirection(seq),
			Inclusive: findInclusive(seq),
		}
		return true
	case ";":
		if c.LastFind != nil {
			if pos, ok := findChar(c.Buffer, c.LastFind.Char, c.LastFind.Direction, c.LastFind.Inclusive); ok {
				c.setMotion(pos)
			}
		}
		c.clearTransient()
		return true
	case ",":
		if c.LastFind != nil {
			if pos, ok := findChar(c.Buffer, c.LastFind.Char, opposite(c.LastFind.Direction), c.LastFind.Inclusive); ok {
				c.setMotion(pos)
			}
		}
		c.clearTransient()
		return true

	case "x":
		if inVisual {
			c.visualDelete()
		} else if buf, changed := deleteChar(c.Buffer, count); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "x", Count: count}
		}
		c.clearTransient()
		return true
	case "X":
		if buf, changed := deleteCharBefore(c.Buffer, count); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "X", Count: count}
		}
		c.clearTransient()
		return true
	case "~":
		if buf, changed := toggleCase(c.Buffer, count); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "~", Count: count}
		}
		c.clearTransient()
		return true

	case "i":
		if !inVisual {
			c.Buffer = pushUndo(c.Buffer)
			c.enterInsert()
		}
		c.clearTransient()
		return true
	case "a":
		if !inVisual {
			c.Buffer = pushUndo(c.Buffer)
			ll := lineLen(c.Buffer, c.Buffer.CursorRow)
			c.setMotion(Position{Row: c.Buffer.CursorRow, Col: min(c.Buffer.CursorCol+1, ll)})
			c.enterInsert()
		}
		c.clearTransient()
		return true
	case "I":
		if !inVisual {
			c.Buffer = pushUndo(c.Buffer)
			c.setMotion(moveToFirstNonWhitespace(c.Buffer))
			c.enterInsert()
		}
		c.clearTransient()
		return true
	case "A":
		if !inVisual {
			c.Buffer = pushUndo(c.Buffer)
			ll := lineLen(c.Buffer, c.Buffer.CursorRow)
			c.setMotion(Position{Row: c.Buffer.CursorRow, Col: ll})
			c.enterInsert()
		}
		c.clearTransient()
		return true
	case "o":
		if !inVisual {
			c.Buffer = openLineBelow(c.Buffer)
			c.enterInsert()
		}
		c.clearTransient()
		return true
	case "O":
		if !inVisual {
			c.Buffer = openLineAbove(c.Buffer)
			c.enterInsert()
		}
		c.clearTransient()
		return true

	case "D":
		if buf, changed := deleteToEndOfLine(c.Buffer); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "D", Count: 1}
		}
		c.clearTransient()
		return true
	case "C":
		buf, changed := deleteToEndOfLine(c.Buffer)
		if changed {
			c.Buffer = buf
		}
		c.enterInsert()
		c.LastCommand = &LastCommand{Type: "C", Count: 1}
		c.clearTransient()
		return true

	case "u":
		c.Buffer = undo(c.Buffer)
		c.clearTransient()
		return true
	case "r":
		c.PendingReplace = true
		c.pendingReplaceCount = count
		return true

	case "p":
		if buf, changed := paste(c.Buffer, true); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "p", Count: 1}
		}
		c.clearTransient()
		return true
	case "P":
		if buf, changed := paste(c.Buffer, false); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "P", Count: 1}
		}
		c.clearTransient()
		return true

	case "n":
		if pos, ok := search(c.Buffer, c.Buffer.LastSearchQuery, c.Buffer.LastSearchDir); ok {
			c.setMotion(pos)
		}
		c.clearTransient()
		return true
	case "N":
		if pos, ok := search(c.Buffer, c.Buffer.LastSearchQuery, opposite(c.Buffer.LastSearchDir)); ok {
			c.setMotion(pos)
		}
		c.clearTransient()
		return true

	case ".":
		c.repeatLastCommand()
		c.clearTransient()
		return true

	case "d":
		if inVisual {
			c.visualDelete()
		} else {
			c.PendingOperator = OperatorDelete
			c.operatorCount = count
			c.Count = 0
		}
		return true
	case "c":
		if inVisual {
			c.visualChange()
		} else {
			c.PendingOperator = OperatorChange
			c.operatorCount = count
			c.Count = 0
		}
		return true
	case "y":
		if inVisual {
			c.visualYank()
		} else {
			c.PendingOperator = OperatorYank
			c.operatorCount = count
			c.Count = 0
		}
		return true

	case ":", "/", "?":
		if c.caps.settings().DisableVimCommandMode() {
			c.Buffer = insertText(c.Buffer, seq)
			c.enterInsert()
			c.clearTransient()
			return true
		}
		if style == StyleBashVim && (seq == "/" || seq == "?") {
			return false
		}
		c.Mode = ModeCommand
		c.CommandBuffer = seq
		c.caps.Observer.modeChanged(c.Mode)
		c.caps.Observer.commandBufferChanged(c.CommandBuffer)
		return true

	case "escape":
		if inVisual {
			c.exitVisual()
		}
		c.clearAllPending()
		return true

	default:
		c.clearAllPending()
		return true
	}
}

func (c *Controller) handlePendingOperator(seq string) bool {
	op := c.PendingOperator

	if op == OperatorG {
		c.PendingOperator = OperatorNone
		if seq == "g" {
			c.setMotion(moveToFirstLine(c.Buffer))
		}
		c.clearTransient()
		return true
	}

	if c.PendingInner {
		c.PendingInner = false
		c.PendingOperator = OperatorNone
		if seq == "w" {
			c.applyInnerWordOp(op)
		}
		c.clearTransient()
		return true
	}

	if seq == "i" {
		c.PendingInner = true
		return true
	}

	isLinewise := (op == OperatorDelete && seq == "d") ||
		(op == OperatorChange && seq == "c") ||
		(op == OperatorYank && seq == "y")
	if isLinewise {
		c.PendingOperator = OperatorNone
		count := c.operatorCount * motionCountOr1(c.Count)
		c.applyLinewiseOp(op, count)
		c.clearTransient()
		return true
	}

	c.PendingOperator = OperatorNone
	c.composeOperatorMotion(op, seq)
	c.clearTransient()
	return true
}

func motionCountOr1(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// composeOperatorMotion applies op over the range the named motion
// would traverse (spec.md §4.C "change_movement" generalized to every
// operator).
func (c *Controller) composeOperatorMotion(op PendingOperator, seq string) {
	motionCount := motionCountOr1(c.Count)
	total := c.operatorCount * motionCount
	cursor := Position{Row: c.Buffer.CursorRow, Col: c.Buffer.CursorCol}

	// j/k are linewise motions: the operator spans whole lines, like dd
	// but over total+1 rows anchored at the cursor or the target row.
	switch seq {
	case "j":
		c.applyLinewiseOp(op, total+1)
		return
	case "k":
		c.Buffer = moveVertical(c.Buffer, total, false)
		c.applyLinewiseOp(op, total+1)
		return
	}

	var start, end Position
	inclusive := false

	switch seq {
	case "h":
		start, end = moveLeft(c.Buffer, total), cursor
	case "l":
		start, end = cursor, moveRight(c.Buffer, total)
	case "w":
		// Real Vim special-cases "cw" to behave like "ce" when the cursor
		// starts on a non-blank: plain "w"'s next-word-start range would
		// otherwise swallow the trailing whitespace after the current
		// word (spec.md §8 Scenario 3: "cwx<esc>" on "alpha beta..."
		// preserves the space before "beta").
		if op == OperatorChange && isNonBlankAt(c.Buffer, cursor) {
			start, end = cursor, moveWordEnd(c.Buffer, total)
			inclusive = true
			break
		}
		start, end = cursor, moveWordForward(c.Buffer, total)
	case "b":
		start, end = moveWordBackward(c.Buffer, total), cursor
	case "e":
		start, end = cursor, moveWordEnd(c.Buffer, total)
		inclusive = true
	case "0":
		start, end = moveToLineStart(c.Buffer), cursor
	case "^":
		start, end = moveToFirstNonWhitespace(c.Buffer), cursor
	case "$":
		start, end = cursor, moveToLineEnd(c.Buffer)
		inclusive = true
	case "%":
		target := moveToMatchingPair(c.Buffer)
		if target == cursor {
			return
		}
		start, end = cursor, target
		inclusive = true
	case "G":
		var target Position
		if c.Count == 0 {
			target = moveToLastLine(c.Buffer)
		} else {
			target = moveToLine(c.Buffer, c.Count)
		}
		start, end = cursor, target
	default:
		return
	}

	c.applyRangeOp(op, start, end, inclusive, "d"+seq)
}

func (c *Controller) applyRangeOp(op PendingOperator, start, end Position, inclusive bool, tag string) {
	switch op {
	case OperatorDelete:
		var buf BufferState
		var changed bool
		if inclusive {
			buf, changed = deleteInclusiveRange(c.Buffer, start, end)
		} else {
			buf, changed = deleteExclusiveRange(c.Buffer, start, end)
		}
		if changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: tag, Count: 1}
		}
	case OperatorChange:
		var buf BufferState
		var changed bool
		if inclusive {
			buf, changed = deleteInclusiveRange(c.Buffer, start, end)
		} else {
			buf, changed = deleteExclusiveRange(c.Buffer, start, end)
		}
		if changed {
			c.Buffer = buf
		}
		c.enterInsert()
		c.LastCommand = &LastCommand{Type: "c" + tag[1:], Count: 1}
	case OperatorYank:
		if inclusive {
			c.Buffer = yankInclusiveRange(c.Buffer, start, end)
		} else {
			c.Buffer = yankExclusiveRange(c.Buffer, start, end)
		}
	}
}

func (c *Controller) applyLinewiseOp(op PendingOperator, count int) {
	switch op {
	case OperatorDelete:
		if buf, changed := deleteLines(c.Buffer, count); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "dd", Count: count}
		}
	case OperatorChange:
		if buf, changed := deleteLines(c.Buffer, count); changed {
			c.Buffer = buf
		}
		c.enterInsert()
		c.LastCommand = &LastCommand{Type: "cc", Count: count}
	case OperatorYank:
		c.Buffer = yankLines(c.Buffer, count)
	}
}

func (c *Controller) applyInnerWordOp(op PendingOperator) {
	switch op {
	case OperatorDelete:
		if buf, changed := deleteInnerWord(c.Buffer); changed {
			c.Buffer = buf
			c.LastCommand = &LastCommand{Type: "diw", Count: 1}
		}
	case OperatorChange:
		if buf, changed := deleteInnerWord(c.Buffer); changed {
			c.Buffer = buf
		}
		c.enterInsert()
		c.LastCommand = &LastCommand{Type: "ciw", Count: 1}
	case OperatorYank:
		c.Buffer = yankInnerWord(c.Buffer)
	}
}

// --- VISUAL selection operators --------------------------------------

func (c *Controller) enterVisual(mode Mode) {
	anchor := Position{Row: c.Buffer.CursorRow, Col: c.Buffer.CursorCol}
	c.Buffer.SelectionAnchor = &anchor
	c.Mode = mode
	c.caps.Observer.modeChanged(c.Mode)
}

func (c *Controller) exitVisual() {
	c.Buffer.SelectionAnchor = nil
	c.Mode = ModeNormal
	c.caps.Observer.modeChanged(c.Mode)
}

func (c *Controller) selectionRange() (Position, Position) {
	anchor := *c.Buffer.SelectionAnchor
	cursor := Position{Row: c.Buffer.CursorRow, Col: c.Buffer.CursorCol}
	if anchor.Row > cursor.Row || (anchor.Row == cursor.Row && anchor.Col > cursor.Col) {
		return cursor, anchor
	}
	return anchor, cursor
}

func (c *Controller) visualDelete() {
	if c.Mode == ModeVisualLine {
		start, end := c.selectionRange()
		c.Buffer.CursorRow, c.Buffer.CursorCol = start.Row, 0
		if buf, changed := deleteLines(c.Buffer, end.Row-start.Row+1); changed {
			c.Buffer = buf
		}
		c.exitVisual()
		return
	}
	start, end := c.selectionRange()
	if buf, changed := deleteInclusiveRange(c.Buffer, start, end); changed {
		c.Buffer = buf
	}
	c.exitVisual()
}

func (c *Controller) visualChange() {
	if c.Mode == ModeVisualLine {
		start, end := c.selectionRange()
		c.Buffer.CursorRow, c.Buffer.CursorCol = start.Row, 0
		if buf, changed := deleteLines(c.Buffer, end.Row-start.Row+1); changed {
			c.Buffer = buf
		}
		c.exitVisual()
		c.enterInsert()
		return
	}
	start, end := c.selectionRange()
	if buf, changed := deleteInclusiveRange(c.Buffer, start, end); changed {
		c.Buffer = buf
	}
	c.exitVisual()
	c.enterInsert()
}

func (c *Controller) visualYank() {
	if c.Mode == ModeVisualLine {
		start, end := c.selectionRange()
		c.Buffer.CursorRow = start.Row
		c.Buffer = yankLines(c.Buffer, end.Row-start.Row+1)
		c.exitVisual()
		return
	}
	start, end := c.selectionRange()
	c.Buffer = yankInclusiveRange(c.Buffer, start, end)
	c.exitVisual()
}

// --- repeat ('.') ------------------------------------------------------

func (c *Controller) repeatLastCommand() {
	lc := c.LastCommand
	if lc == nil {
		return
	}
	switch lc.Type {
	case "x":
		if buf, changed := deleteChar(c.Buffer, lc.Count); changed {
			c.Buffer = buf
		}
	case "X":
		if buf, changed := deleteCharBefore(c.Buffer, lc.Count); changed {
			c.Buffer = buf
		}
	case "~":
		if buf, changed := toggleCase(c.Buffer, lc.Count); changed {
			c.Buffer = buf
		}
	case "D":
		if buf, changed := deleteToEndOfLine(c.Buffer); changed {
			c.Buffer = buf
		}
	case "C":
		if buf, changed := deleteToEndOfLine(c.Buffer); changed {
			c.Buffer = buf
		}
		c.enterInsertNoUndo()
	case "p":
		if buf, changed := paste(c.Buffer, true); changed {
			c.Buffer = buf
		}
	case "P":
		if buf, changed := paste(c.Buffer, false); changed {
			c.Buffer = buf
		}
	case "r":
		if buf, ok := replaceCharAction(c.Buffer, lc.Char); ok {
			c.Buffer = buf
		}
	case "dd":
		if buf, changed := deleteLines(c.Buffer, lc.Count); changed {
			c.Buffer = buf
		}
	case "cc":
		if buf, changed := deleteLines(c.Buffer, lc.Count); changed {
			c.Buffer = buf
		}
		c.enterInsertNoUndo()
	case "diw":
		if buf, changed := deleteInnerWord(c.Buffer); changed {
			c.Buffer = buf
		}
	case "ciw":
		if buf, changed := deleteInnerWord(c.Buffer); changed {
			c.Buffer = buf
		}
		c.enterInsertNoUndo()
	default:
		c.repeatMotionComposite(lc.Type)
	}
}

// repeatMotionComposite replays an operator+motion composite whose tag
// is "d"+seq or "c"+seq (e.g. "dw", "cw", "de", "d$").
func (c *Controller) repeatMotionComposite(tag string) {
	if len(tag) < 2 {
		return
	}
	opLetter, seq := tag[:1], tag[1:]
	var op PendingOperator
	switch opLetter {
	case "d":
		op = OperatorDelete
	case "c":
		op = OperatorChange
	default:
		return
	}

	saved := c.operatorCount
	savedCount := c.Count
	c.operatorCount = 1
	c.Count = 0
	c.composeOperatorMotion(op, seq)
	c.operatorCount = saved
	c.Count = savedCount
}

// --- shared helpers ----------------------------------------------------

// setMotion applies a motion result to the cursor. In VISUAL modes the
// selection end tracks the cursor implicitly (selectionRange reads it
// directly), so no extra bookkeeping is needed here.
func (c *Controller) setMotion(pos Position) {
	c.Buffer.CursorRow = pos.Row
	c.Buffer.CursorCol = pos.Col
	c.Buffer.PreferredCol = nil
}

// enterInsert transitions to INSERT mode without touching undo — used
// after an operation that has already pushed its own undo boundary
// (o, O, change_*). enterInsertNoUndo is its alias used by repeat.
func (c *Controller) enterInsert() {
	c.Mode = ModeInsert
	c.caps.Observer.modeChanged(c.Mode)
}

func (c *Controller) enterInsertNoUndo() {
	c.Mode = ModeInsert
	c.caps.Observer.modeChanged(c.Mode)
}

func (c *Controller) clearTransient() {
	c.Count = 0
	c.PendingOperator = OperatorNone
	c.PendingInner = false
	c.operatorCount = 0
}

func (c *Controller) clearAllPending() {
	c.clearTransient()
	c.PendingFind = nil
	c.PendingReplace = false
	c.pendingReplaceCount = 0
}

func findDirection(seq string) Direction {
	if seq == "F" || seq == "T" {
		return DirBackward
	}
	return DirForward
}

func findInclusive(seq string) bool {
	return seq == "f" || seq == "F"
}

func opposite(d Direction) Direction {
	if d == DirForward {
		return DirBackward
	}
	return DirForward
}

func joinLines(s BufferState) string {
	return strings.Join(s.Lines, "\n")
}

func isBufferEmpty(s BufferState) bool {
	return len(s.Lines) == 1 && s.Lines[0] == ""
}

// escapeInsertMode moves the cursor left one code point unless it is
// already at column 0 (spec.md §4.D).
func escapeInsertMode(s BufferState) BufferState {
	if s.CursorCol > 0 {
		s.CursorCol--
	}
	return s
}

func backspaceAction(s BufferState) BufferState {
	if s.CursorCol > 0 {
		return replaceRange(s, s.CursorRow, s.CursorCol-1, s.CursorRow, s.CursorCol, "")
	}
	if s.CursorRow > 0 {
		prevLen := lineLen(s, s.CursorRow-1)
		return replaceRange(s, s.CursorRow-1, prevLen, s.CursorRow, 0, "")
	}
	return s
}

func insertText(s BufferState, text string) BufferState {
	return replaceRange(s, s.CursorRow, s.CursorCol, s.CursorRow, s.CursorCol, text)
}

// --- observable state (spec.md §6) --------------------------------

func (c *Controller) ObservableMode() Mode               { return c.Mode }
func (c *Controller) ObservableCount() int               { return c.Count }
func (c *Controller) ObservableCommandBuffer() string    { return c.CommandBuffer }
func (c *Controller) ObservableLastCommand() *LastCommand { return c.LastCommand }
func (c *Controller) ObservableLastFind() *FindState      { return c.LastFind }
