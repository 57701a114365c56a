package vimtextarea

import "testing"

func newTestController() *Controller {
	return NewController(Capabilities{})
}

// setText seeds the buffer with the given lines and drops the controller
// into NORMAL mode at row 0, col 0.
func setText(c *Controller, lines ...string) {
	c.Buffer = BufferState{Lines: lines}
	c.Mode = ModeNormal
}

func seq(s string) Key { return Key{Sequence: s} }

func rn(r rune) Key { return Key{Insertable: true, Runes: []rune{r}} }

func press(c *Controller, seqs ...string) {
	for _, s := range seqs {
		c.HandleKey(seq(s))
	}
}

func TestInsertThenEscape(t *testing.T) {
	c := newTestController()
	if c.Mode != ModeInsert {
		t.Fatalf("new controller should start in INSERT mode, got %v", c.Mode)
	}
	c.HandleKey(rn('h'))
	c.HandleKey(rn('i'))
	if got := joinLines(c.Buffer); got != "hi" {
		t.Fatalf("expected buffer %q, got %q", "hi", got)
	}
	press(c, "escape")
	if c.Mode != ModeNormal {
		t.Fatalf("expected NORMAL mode after escape, got %v", c.Mode)
	}
	if c.Buffer.CursorCol != 1 {
		t.Fatalf("expected cursor col 1 after escape, got %d", c.Buffer.CursorCol)
	}
}

func TestCountWordMotion(t *testing.T) {
	c := newTestController()
	setText(c, "foo bar baz qux")
	press(c, "2", "w")
	if c.Buffer.CursorCol != 8 {
		t.Fatalf("expected cursor at col 8 after 2w, got %d", c.Buffer.CursorCol)
	}
}

func TestChangeWord(t *testing.T) {
	c := newTestController()
	setText(c, "alpha beta gamma delta")
	press(c, "c", "w")
	if c.Mode != ModeInsert {
		t.Fatalf("expected INSERT mode after cw, got %v", c.Mode)
	}
	if got := joinLines(c.Buffer); got != " beta gamma delta" {
		t.Fatalf("expected buffer %q after cw (space preserved), got %q", " beta gamma delta", got)
	}
	c.HandleKey(rn('x'))
	if got := joinLines(c.Buffer); got != "x beta gamma delta" {
		t.Fatalf("expected buffer %q after typing x, got %q", "x beta gamma delta", got)
	}
}

func TestLinewiseYankAndPaste(t *testing.T) {
	c := newTestController()
	setText(c, "one", "two", "three")
	press(c, "y", "y")
	if c.Buffer.Clipboard != "one\n" {
		t.Fatalf("expected clipboard %q after yy, got %q", "one\n", c.Buffer.Clipboard)
	}
	press(c, "p")
	want := "one\none\ntwo\nthree"
	if got := joinLines(c.Buffer); got != want {
		t.Fatalf("expected buffer %q after p, got %q", want, got)
	}
	if c.Buffer.CursorRow != 1 {
		t.Fatalf("expected cursor row 1 after linewise p, got %d", c.Buffer.CursorRow)
	}
}

func TestUndoAfterChange(t *testing.T) {
	c := newTestController()
	setText(c, "one", "two", "three")
	press(c, "c", "c")
	if c.Mode != ModeInsert {
		t.Fatalf("expected INSERT mode after cc, got %v", c.Mode)
	}
	c.HandleKey(rn('x'))
	press(c, "escape")
	if got := joinLines(c.Buffer); got != "xtwo\nthree" {
		t.Fatalf("expected buffer %q before undo, got %q", "xtwo\nthree", got)
	}
	press(c, "u")
	if got := joinLines(c.Buffer); got != "one\ntwo\nthree" {
		t.Fatalf("expected buffer restored to %q after undo, got %q", "one\ntwo\nthree", got)
	}
}

func TestSearchNextAndPrevious(t *testing.T) {
	c := newTestController()
	setText(c, "foo bar foo baz foo")
	c.Buffer.LastSearchQuery = "foo"
	c.Buffer.LastSearchDir = DirForward

	press(c, "n")
	if c.Buffer.CursorCol != 8 {
		t.Fatalf("expected cursor at col 8 after n, got %d", c.Buffer.CursorCol)
	}
	press(c, "n")
	if c.Buffer.CursorCol != 16 {
		t.Fatalf("expected cursor at col 16 after second n, got %d", c.Buffer.CursorCol)
	}
	press(c, "N")
	if c.Buffer.CursorCol != 8 {
		t.Fatalf("expected N to reverse search direction back to col 8, got %d", c.Buffer.CursorCol)
	}
}

func TestFindAndRepeat(t *testing.T) {
	c := newTestController()
	setText(c, "a,b,c,d")
	press(c, "f")
	c.HandleKey(rn(','))
	if c.Buffer.CursorCol != 1 {
		t.Fatalf("expected cursor at col 1 after f,, got %d", c.Buffer.CursorCol)
	}
	press(c, ";")
	if c.Buffer.CursorCol != 3 {
		t.Fatalf("expected cursor at col 3 after ; repeat, got %d", c.Buffer.CursorCol)
	}
	press(c, ",")
	if c.Buffer.CursorCol != 1 {
		t.Fatalf("expected cursor at col 1 after , reverse repeat, got %d", c.Buffer.CursorCol)
	}
}

func TestDotRepeatsDeleteWord(t *testing.T) {
	c := newTestController()
	setText(c, "foo bar baz")
	press(c, "d", "w")
	if got := joinLines(c.Buffer); got != "bar baz" {
		t.Fatalf("expected buffer %q after dw, got %q", "bar baz", got)
	}
	press(c, ".")
	if got := joinLines(c.Buffer); got != "baz" {
		t.Fatalf("expected buffer %q after . repeat, got %q", "baz", got)
	}
}

func TestVisualDelete(t *testing.T) {
	c := newTestController()
	setText(c, "foobar")
	press(c, "v", "l", "l")
	press(c, "d")
	if c.Mode != ModeNormal {
		t.Fatalf("expected NORMAL mode after visual delete, got %v", c.Mode)
	}
	if got := joinLines(c.Buffer); got != "bar" {
		t.Fatalf("expected buffer %q after visual delete, got %q", "bar", got)
	}
}

func TestVisualEscapeReturnsToNormal(t *testing.T) {
	c := newTestController()
	setText(c, "foobar")
	press(c, "v", "l", "l")
	press(c, "escape")
	if c.Mode != ModeNormal {
		t.Fatalf("expected NORMAL mode after escape from VISUAL, got %v", c.Mode)
	}
	if c.Buffer.SelectionAnchor != nil {
		t.Fatal("expected selection anchor cleared after escape from VISUAL")
	}
	if got := joinLines(c.Buffer); got != "foobar" {
		t.Fatalf("escape from VISUAL should not modify buffer, got %q", got)
	}
}

func TestVisualYank(t *testing.T) {
	c := newTestController()
	setText(c, "foobar")
	press(c, "v", "l", "l")
	press(c, "y")
	if c.Buffer.Clipboard != "foo" {
		t.Fatalf("expected clipboard %q after visual yank, got %q", "foo", c.Buffer.Clipboard)
	}
	if got := joinLines(c.Buffer); got != "foobar" {
		t.Fatalf("visual yank should not modify buffer, got %q", got)
	}
}

func TestVisualChange(t *testing.T) {
	c := newTestController()
	setText(c, "foobar")
	press(c, "v", "l", "l")
	press(c, "c")
	if c.Mode != ModeInsert {
		t.Fatalf("expected INSERT mode after visual change, got %v", c.Mode)
	}
	if got := joinLines(c.Buffer); got != "bar" {
		t.Fatalf("expected buffer %q after visual change, got %q", "bar", got)
	}
}

func TestVisualLineDeleteRemovesWholeLines(t *testing.T) {
	c := newTestController()
	setText(c, "foo", "bar", "baz")
	c.Buffer.CursorRow, c.Buffer.CursorCol = 1, 1
	press(c, "V", "j")
	press(c, "d")
	if c.Mode != ModeNormal {
		t.Fatalf("expected NORMAL mode after visual line delete, got %v", c.Mode)
	}
	if got := joinLines(c.Buffer); got != "foo" {
		t.Fatalf("expected buffer %q after visual line delete, got %q", "foo", got)
	}
}

func TestVisualLineYankIsWholeLines(t *testing.T) {
	c := newTestController()
	setText(c, "foo", "bar", "baz")
	c.Buffer.CursorRow, c.Buffer.CursorCol = 1, 1
	press(c, "V", "j")
	press(c, "y")
	if c.Buffer.Clipboard != "bar\nbaz\n" {
		t.Fatalf("expected clipboard %q after visual line yank, got %q", "bar\nbaz\n", c.Buffer.Clipboard)
	}
	if got := joinLines(c.Buffer); got != "foo\nbar\nbaz" {
		t.Fatalf("visual line yank should not modify buffer, got %q", got)
	}
}

func TestVisualLineChangeRemovesWholeLines(t *testing.T) {
	c := newTestController()
	setText(c, "foo", "bar", "baz")
	c.Buffer.CursorRow, c.Buffer.CursorCol = 0, 1
	press(c, "V", "j")
	press(c, "c")
	if c.Mode != ModeInsert {
		t.Fatalf("expected INSERT mode after visual line change, got %v", c.Mode)
	}
	if got := joinLines(c.Buffer); got != "baz" {
		t.Fatalf("expected buffer %q after visual line change, got %q", "baz", got)
	}
}

func TestInnerWordOperators(t *testing.T) {
	c := newTestController()
	setText(c, "foo bar baz")
	c.Buffer.CursorCol = 5 // inside "bar"

	press(c, "y", "i", "w")
	if c.Buffer.Clipboard != "bar" {
		t.Fatalf("expected clipboard %q after yiw, got %q", "bar", c.Buffer.Clipboard)
	}

	press(c, "d", "i", "w")
	if got := joinLines(c.Buffer); got != "foo  baz" {
		t.Fatalf("expected buffer %q after diw, got %q", "foo  baz", got)
	}

	setText(c, "foo bar baz")
	c.Buffer.CursorCol = 5
	press(c, "c", "i", "w")
	if c.Mode != ModeInsert {
		t.Fatalf("expected INSERT mode after ciw, got %v", c.Mode)
	}
	if got := joinLines(c.Buffer); got != "foo  baz" {
		t.Fatalf("expected buffer %q after ciw, got %q", "foo  baz", got)
	}
}

func TestReplaceChar(t *testing.T) {
	c := newTestController()
	setText(c, "cat")
	press(c, "l") // move onto 'a'
	press(c, "r")
	c.HandleKey(rn('u'))
	if got := joinLines(c.Buffer); got != "cut" {
		t.Fatalf("expected buffer %q after ru, got %q", "cut", got)
	}
	if c.Buffer.CursorCol != 1 {
		t.Fatalf("expected cursor to stay at col 1 after r, got %d", c.Buffer.CursorCol)
	}
}

func TestOpenLineBelowEntersInsert(t *testing.T) {
	c := newTestController()
	setText(c, "one", "two")
	press(c, "o")
	if c.Mode != ModeInsert {
		t.Fatalf("expected INSERT mode after o, got %v", c.Mode)
	}
	c.HandleKey(rn('x'))
	want := "one\nx\ntwo"
	if got := joinLines(c.Buffer); got != want {
		t.Fatalf("expected buffer %q after o + typing, got %q", want, got)
	}
}

func TestCommandModeSearchDispatch(t *testing.T) {
	c := newTestController()
	setText(c, "foo bar foo")
	press(c, "/")
	if c.Mode != ModeCommand {
		t.Fatalf("expected COMMAND mode after /, got %v", c.Mode)
	}
	c.HandleKey(rn('f'))
	c.HandleKey(rn('o'))
	c.HandleKey(rn('o'))
	press(c, "return")
	if c.Mode != ModeNormal {
		t.Fatalf("expected NORMAL mode after search submit, got %v", c.Mode)
	}
	if c.Buffer.CursorCol != 8 {
		t.Fatalf("expected cursor at col 8 after /foo, got %d", c.Buffer.CursorCol)
	}
}

func TestSubmitCallsCapability(t *testing.T) {
	var submitted string
	c := NewController(Capabilities{Submit: func(text string) { submitted = text }})
	c.HandleKey(rn('h'))
	c.HandleKey(rn('i'))
	c.HandleKey(seq("return"))
	if submitted != "hi" {
		t.Fatalf("expected Submit called with %q, got %q", "hi", submitted)
	}
	if got := joinLines(c.Buffer); got != "" {
		t.Fatalf("expected buffer cleared after submit, got %q", got)
	}
}

func TestSubmitNotCalledOnEmptyBuffer(t *testing.T) {
	called := false
	c := NewController(Capabilities{Submit: func(text string) { called = true }})
	c.HandleKey(seq("return"))
	if called {
		t.Fatal("Submit should not be called on an empty buffer")
	}
}
