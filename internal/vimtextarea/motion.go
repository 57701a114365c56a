package vimtextarea

import "unicode"

// stepForward returns the position one code point to the right of pos,
// skipping over combining marks (so the cursor never rests on one) and
// crossing line boundaries. ok is false only at the very end of the
// buffer.
func stepForward(s BufferState, pos Position) (Position, bool) {
	ll := lineLen(s, pos.Row)
	if ll == 0 || pos.Col >= ll-1 {
		if pos.Row < len(s.Lines)-1 {
			return Position{Row: pos.Row + 1, Col: 0}, true
		}
		return pos, false
	}
	pos.Col++
	for pos.Col < ll && isCombiningMark(runeAt(s.Lines[pos.Row], pos.Col)) {
		pos.Col++
	}
	if pos.Col >= ll {
		if pos.Row < len(s.Lines)-1 {
			return Position{Row: pos.Row + 1, Col: 0}, true
		}
		return Position{Row: pos.Row, Col: ll - 1}, true
	}
	return pos, true
}

// stepBackward returns the position one code point to the left of pos.
func stepBackward(s BufferState, pos Position) (Position, bool) {
	if pos.Col > 0 {
		return Position{Row: pos.Row, Col: pos.Col - 1}, true
	}
	if pos.Row > 0 {
		ll := lineLen(s, pos.Row-1)
		col := 0
		if ll > 0 {
			col = ll - 1
		}
		return Position{Row: pos.Row - 1, Col: col}, true
	}
	return pos, false
}

// classAt reports the binary word-class at pos: true for a word-class
// character per charClass (combining marks included), false for
// everything else including an implicit line boundary.
func classAt(s BufferState, pos Position) bool {
	ll := lineLen(s, pos.Row)
	if pos.Col >= ll {
		return false
	}
	return charClass(runeAt(s.Lines[pos.Row], pos.Col))
}

// isNonBlankAt reports whether pos holds a non-whitespace character.
// Used by "cw" to decide whether it should behave like "ce" rather than
// the plain "w" range (Vim's cw special case).
func isNonBlankAt(s BufferState, pos Position) bool {
	ll := lineLen(s, pos.Row)
	if pos.Col >= ll {
		return false
	}
	return !unicode.IsSpace(runeAt(s.Lines[pos.Row], pos.Col))
}

func moveLeft(s BufferState, n int) Position {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	for i := 0; i < n; i++ {
		if pos.Col > 0 {
			pos.Col--
		} else if pos.Row > 0 {
			pos.Row--
			ll := lineLen(s, pos.Row)
			if ll > 0 {
				pos.Col = ll - 1
			} else {
				pos.Col = 0
			}
		} else {
			break
		}
	}
	return pos
}

func moveRight(s BufferState, n int) Position {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	for i := 0; i < n; i++ {
		next, ok := stepForward(s, pos)
		if !ok {
			break
		}
		pos = next
	}
	return pos
}

// moveVertical applies j/k motion, honoring and updating preferredCol
// per spec.md §3/§4.C. It returns the full buffer state since it may
// set PreferredCol.
func moveVertical(s BufferState, n int, down bool) BufferState {
	wanted := s.CursorCol
	if s.PreferredCol != nil {
		wanted = *s.PreferredCol
	}

	row := s.CursorRow
	if down {
		row += n
	} else {
		row -= n
	}
	if row < 0 {
		row = 0
	}
	if row >= len(s.Lines) {
		row = len(s.Lines) - 1
	}

	maxCol := lineLen(s, row) - 1
	if maxCol < 0 {
		maxCol = 0
	}
	col := wanted
	if col > maxCol {
		col = maxCol
	}
	if col < 0 {
		col = 0
	}

	s.CursorRow = row
	s.CursorCol = col
	if s.PreferredCol == nil {
		v := wanted
		s.PreferredCol = &v
	}
	return s
}

func moveToLineStart(s BufferState) Position {
	return Position{Row: s.CursorRow, Col: 0}
}

func moveToLineEnd(s BufferState) Position {
	ll := lineLen(s, s.CursorRow)
	col := ll - 1
	if col < 0 {
		col = 0
	}
	return Position{Row: s.CursorRow, Col: col}
}

func moveToFirstNonWhitespace(s BufferState) Position {
	row := s.CursorRow
	line := []rune(lineAt(s, row))
	for i, r := range line {
		if !unicode.IsSpace(r) {
			return Position{Row: row, Col: i}
		}
	}
	return Position{Row: row, Col: 0}
}

func moveToFirstLine(s BufferState) Position {
	return Position{Row: 0, Col: 0}
}

func moveToLastLine(s BufferState) Position {
	return Position{Row: len(s.Lines) - 1, Col: 0}
}

// moveToLine moves to 1-based line n, clamped into range.
func moveToLine(s BufferState, n int) Position {
	row := n - 1
	if row < 0 {
		row = 0
	}
	if row >= len(s.Lines) {
		row = len(s.Lines) - 1
	}
	return Position{Row: row, Col: 0}
}

func lineAt(s BufferState, row int) string {
	if row < 0 || row >= len(s.Lines) {
		return ""
	}
	return s.Lines[row]
}

// nextWordStart implements a single 'w' step: skip the run sharing the
// cursor's class, then skip any non-word run, landing on the first
// character of the next word (or buffer end).
func nextWordStart(s BufferState, pos Position) Position {
	cur := classAt(s, pos)
	for {
		next, ok := stepForward(s, pos)
		if !ok {
			return pos
		}
		if classAt(s, next) != cur {
			pos = next
			break
		}
		pos = next
	}
	for classAt(s, pos) == false {
		next, ok := stepForward(s, pos)
		if !ok {
			return pos
		}
		if next == pos {
			return pos
		}
		pos = next
	}
	return pos
}

func moveWordForward(s BufferState, n int) Position {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	for i := 0; i < n; i++ {
		next := nextWordStart(s, pos)
		if next == pos {
			break
		}
		pos = next
	}
	return pos
}

// prevWordStart implements a single 'b' step.
func prevWordStart(s BufferState, pos Position) Position {
	prev, ok := stepBackward(s, pos)
	if !ok {
		return pos
	}
	pos = prev
	for classAt(s, pos) == false {
		prev, ok := stepBackward(s, pos)
		if !ok {
			return pos
		}
		pos = prev
	}
	for {
		prev, ok := stepBackward(s, pos)
		if !ok || classAt(s, prev) == false {
			return pos
		}
		pos = prev
	}
}

func moveWordBackward(s BufferState, n int) Position {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	for i := 0; i < n; i++ {
		pos = prevWordStart(s, pos)
	}
	return pos
}

// nextWordEnd implements a single 'e' step: advance at least one
// position, skip any non-word run, then ride the following word run to
// its last character.
func nextWordEnd(s BufferState, pos Position) Position {
	next, ok := stepForward(s, pos)
	if !ok {
		return pos
	}
	pos = next
	for classAt(s, pos) == false {
		next, ok := stepForward(s, pos)
		if !ok {
			return pos
		}
		pos = next
	}
	for {
		next, ok := stepForward(s, pos)
		if !ok || classAt(s, next) == false {
			return pos
		}
		pos = next
	}
}

func moveWordEnd(s BufferState, n int) Position {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	for i := 0; i < n; i++ {
		pos = nextWordEnd(s, pos)
	}
	return pos
}

var matchOpeners = map[rune]rune{'(': ')', '[': ']', '{': '}', '<': '>'}
var matchClosers = map[rune]rune{')': '(', ']': '[', '}': '{', '>': '<'}

// moveToMatchingPair scans the current line forward from the cursor
// for a bracket character, then scans for its match across lines with
// a depth counter. No match leaves the cursor unchanged.
func moveToMatchingPair(s BufferState) Position {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	line := []rune(lineAt(s, pos.Row))

	var found rune
	var foundCol = -1
	for i := pos.Col; i < len(line); i++ {
		c := line[i]
		if _, ok := matchOpeners[c]; ok {
			found, foundCol = c, i
			break
		}
		if _, ok := matchClosers[c]; ok {
			found, foundCol = c, i
			break
		}
	}
	if foundCol == -1 {
		return pos
	}

	if closer, isOpener := matchOpeners[found]; isOpener {
		depth := 1
		row, col := pos.Row, foundCol
		for {
			next, ok := stepForward(s, Position{Row: row, Col: col})
			if !ok {
				return pos
			}
			row, col = next.Row, next.Col
			c := runeAt(lineAt(s, row), col)
			switch {
			case c == found:
				depth++
			case c == closer:
				depth--
				if depth == 0 {
					return Position{Row: row, Col: col}
				}
			}
		}
	}

	opener := matchClosers[found]
	depth := 1
	row, col := pos.Row, foundCol
	for {
		prev, ok := stepBackward(s, Position{Row: row, Col: col})
		if !ok {
			return pos
		}
		row, col = prev.Row, prev.Col
		c := runeAt(lineAt(s, row), col)
		switch {
		case c == found:
			depth++
		case c == opener:
			depth--
			if depth == 0 {
				return Position{Row: row, Col: col}
			}
		}
	}
}

// findChar scans the current line only for char in the given
// direction. When incl is false ("exclusive", used by t/T) the result
// stops one column short of the target in the scan direction. No match
// returns the cursor position unchanged.
func findChar(s BufferState, char rune, dir Direction, incl bool) (Position, bool) {
	pos := Position{Row: s.CursorRow, Col: s.CursorCol}
	line := []rune(lineAt(s, pos.Row))

	if dir == DirForward {
		for i := pos.Col + 1; i < len(line); i++ {
			if line[i] == char {
				col := i
				if !incl {
					col--
				}
				return Position{Row: pos.Row, Col: col}, true
			}
		}
	} else {
		for i := pos.Col - 1; i >= 0; i-- {
			if line[i] == char {
				col := i
				if !incl {
					col++
				}
				return Position{Row: pos.Row, Col: col}, true
			}
		}
	}
	return pos, false
}
