package vimtextarea

import "strings"

// The mutation verbs in this file take a BufferState and return the
// resulting BufferState; those that can be no-ops also return whether
// text actually changed. pushUndo is only invoked when changed is true, per
// spec.md §4.B/§7 ("no-op mutations... do not push undo").

func deleteChar(s BufferState, n int) (BufferState, bool) {
	ll := lineLen(s, s.CursorRow)
	end := s.CursorCol + n
	if end > ll {
		end = ll
	}
	if end <= s.CursorCol {
		return s, false
	}
	s = pushUndo(s)
	col := s.CursorCol
	s = replaceRange(s, s.CursorRow, col, s.CursorRow, end, "")
	s.CursorRow, s.CursorCol = s.CursorRow, col
	return s, true
}

func deleteCharBefore(s BufferState, n int) (BufferState, bool) {
	start := s.CursorCol - n
	if start < 0 {
		start = 0
	}
	if start >= s.CursorCol {
		return s, false
	}
	s = pushUndo(s)
	s = replaceRange(s, s.CursorRow, start, s.CursorRow, s.CursorCol, "")
	return s, true
}

// deleteExclusiveRange deletes [start, end) ordered, used by motion
// composites whose motion is exclusive (w, b, h, l, 0, ^, G).
func deleteExclusiveRange(s BufferState, start, end Position) (BufferState, bool) {
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		start, end = end, start
	}
	if start == end {
		return s, false
	}
	text := sliceRange(s, start, end)
	s2 := pushUndo(s)
	s2.Clipboard = text
	s2 = replaceRange(s2, start.Row, start.Col, end.Row, end.Col, "")
	s2.CursorRow, s2.CursorCol = start.Row, start.Col
	return s2, true
}

// deleteInclusiveRange deletes [start, end] ordered (end column
// inclusive), used by motions like e, $, %, and VISUAL-mode
// operators (spec.md §4.C "Selection + operator interaction").
func deleteInclusiveRange(s BufferState, start, end Position) (BufferState, bool) {
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		start, end = end, start
	}
	endExclusive := Position{Row: end.Row, Col: end.Col + 1}
	return deleteExclusiveRange(s, start, endExclusive)
}

func sliceRange(s BufferState, start, end Position) string {
	if start.Row == end.Row {
		return codepointSlice(s.Lines[start.Row], start.Col, end.Col)
	}
	var parts []string
	parts = append(parts, codepointSlice(s.Lines[start.Row], start.Col, lineLen(s, start.Row)))
	for r := start.Row + 1; r < end.Row; r++ {
		parts = append(parts, s.Lines[r])
	}
	parts = append(parts, codepointSlice(s.Lines[end.Row], 0, end.Col))
	return strings.Join(parts, "\n")
}

func yankExclusiveRange(s BufferState, start, end Position) BufferState {
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		start, end = end, start
	}
	s.Clipboard = sliceRange(s, start, end)
	return s
}

func yankInclusiveRange(s BufferState, start, end Position) BufferState {
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		start, end = end, start
	}
	return yankExclusiveRange(s, start, Position{Row: end.Row, Col: end.Col + 1})
}

// deleteLines removes n whole lines starting at the cursor row,
// linewise-yanking them to the clipboard. lines_count == 1 or
// n >= lines_remaining yields the single-empty-line floor state
// (spec.md §4.C).
func deleteLines(s BufferState, n int) (BufferState, bool) {
	start := s.CursorRow
	end := start + n - 1
	if end >= len(s.Lines) {
		end = len(s.Lines) - 1
	}
	if start > end {
		return s, false
	}

	s2 := pushUndo(s)
	s2.Clipboard = strings.Join(s2.Lines[start:end+1], "\n") + "\n"

	if len(s.Lines) <= n {
		s2.Lines = []string{""}
		s2.CursorRow, s2.CursorCol = 0, 0
		s2.PreferredCol = nil
		return s2, true
	}

	newLines := append([]string{}, s2.Lines[:start]...)
	newLines = append(newLines, s2.Lines[end+1:]...)
	s2.Lines = ensureNonEmpty(newLines)
	if start >= len(s2.Lines) {
		start = len(s2.Lines) - 1
	}
	s2.CursorRow, s2.CursorCol = start, 0
	s2.PreferredCol = nil
	return s2, true
}

func yankLines(s BufferState, n int) BufferState {
	start := s.CursorRow
	end := start + n - 1
	if end >= len(s.Lines) {
		end = len(s.Lines) - 1
	}
	s.Clipboard = strings.Join(s.Lines[start:end+1], "\n") + "\n"
	return s
}

func deleteToEndOfLine(s BufferState) (BufferState, bool) {
	ll := lineLen(s, s.CursorRow)
	if s.CursorCol >= ll {
		return s, false
	}
	text := codepointSlice(s.Lines[s.CursorRow], s.CursorCol, ll)
	s = pushUndo(s)
	s.Clipboard = text
	s = replaceRange(s, s.CursorRow, s.CursorCol, s.CursorRow, ll, "")
	return s, true
}

func deleteToLineStart(s BufferState) (BufferState, bool) {
	if s.CursorCol == 0 {
		return s, false
	}
	text := codepointSlice(s.Lines[s.CursorRow], 0, s.CursorCol)
	s = pushUndo(s)
	s.Clipboard = text
	s = replaceRange(s, s.CursorRow, 0, s.CursorRow, s.CursorCol, "")
	return s, true
}

// toggleCase swaps the case of n code points starting at the cursor,
// advancing the cursor by the processed length, clamped to line_len-1.
func toggleCase(s BufferState, n int) (BufferState, bool) {
	ll := lineLen(s, s.CursorRow)
	end := s.CursorCol + n
	if end > ll {
		end = ll
	}
	if end <= s.CursorCol {
		return s, false
	}
	line := []rune(s.Lines[s.CursorRow])
	for i := s.CursorCol; i < end; i++ {
		line[i] = swapCase(line[i])
	}
	s = pushUndo(s)
	s.Lines = cloneLines(s.Lines)
	s.Lines[s.CursorRow] = string(line)
	newCol := end
	if newCol > ll-1 {
		newCol = ll - 1
	}
	if newCol < 0 {
		newCol = 0
	}
	s.CursorCol = newCol
	s.PreferredCol = nil
	return s, true
}

func swapCase(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A')
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	default:
		return r
	}
}

// replaceCharAction overwrites the single code point under the cursor.
// No-op at end of line.
func replaceCharAction(s BufferState, c rune) (BufferState, bool) {
	ll := lineLen(s, s.CursorRow)
	if s.CursorCol >= ll {
		return s, false
	}
	s = pushUndo(s)
	s = replaceRange(s, s.CursorRow, s.CursorCol, s.CursorRow, s.CursorCol+1, string(c))
	s.CursorCol--
	if s.CursorCol < 0 {
		s.CursorCol = 0
	}
	return s, true
}

func openLineBelow(s BufferState) BufferState {
	s = pushUndo(s)
	ll := lineLen(s, s.CursorRow)
	s = replaceRange(s, s.CursorRow, ll, s.CursorRow, ll, "\n")
	return s
}

// openLineAbove inserts a newline above the current row; the cursor is
// pinned to the original row (the newly empty line).
func openLineAbove(s BufferState) BufferState {
	s = pushUndo(s)
	s = replaceRange(s, s.CursorRow, 0, s.CursorRow, 0, "\n")
	s.CursorRow--
	s.CursorCol = 0
	return s
}

// paste inserts the clipboard. Linewise content (trailing '\n') is
// inserted as whole line(s) below ('p'/forward) or above ('P'/before
// the current line); inline content is inserted after the cursor
// column ('p') or at the cursor ('P').
func paste(s BufferState, after bool) (BufferState, bool) {
	if s.Clipboard == "" {
		return s, false
	}
	s2 := pushUndo(s)

	if strings.HasSuffix(s2.Clipboard, "\n") {
		text := strings.TrimSuffix(s2.Clipboard, "\n")
		row := s2.CursorRow
		if after {
			row++
		}
		s2 = insertLinesAt(s2, row, text)
		return s2, true
	}

	col := s2.CursorCol
	if after && lineLen(s2, s2.CursorRow) > 0 {
		col++
	}
	s2 = replaceRange(s2, s2.CursorRow, col, s2.CursorRow, col, s2.Clipboard)
	return s2, true
}

func insertLinesAt(s BufferState, row int, text string) BufferState {
	lines := strings.Split(text, "\n")
	var newLines []string
	newLines = append(newLines, s.Lines[:row]...)
	newLines = append(newLines, lines...)
	newLines = append(newLines, s.Lines[row:]...)
	s.Lines = ensureNonEmpty(newLines)
	s.CursorRow = row
	s.CursorCol = 0
	s.PreferredCol = nil
	return s
}

// deleteWordBackwardAction removes the n words before the cursor; it
// backs Ctrl+W in INSERT mode.
func deleteWordBackwardAction(s BufferState, n int) (BufferState, bool) {
	cursor := Position{Row: s.CursorRow, Col: s.CursorCol}
	pos := cursor
	for i := 0; i < n; i++ {
		pos = prevWordStart(s, pos)
	}
	return deleteExclusiveRange(s, pos, cursor)
}

// innerWordRange returns the inclusive [start,end] code-point range of
// the maximal run sharing the class of the character under the
// cursor, per spec.md §4.C's inner-word selector.
func innerWordRange(s BufferState, pos Position) (Position, Position) {
	line := []rune(lineAt(s, pos.Row))
	if len(line) == 0 {
		return pos, pos
	}
	col := pos.Col
	if col >= len(line) {
		col = len(line) - 1
	}
	cls := charClass(line[col])

	start, end := col, col
	for start > 0 && charClass(line[start-1]) == cls {
		start--
	}
	for end < len(line)-1 && charClass(line[end+1]) == cls {
		end++
	}
	return Position{Row: pos.Row, Col: start}, Position{Row: pos.Row, Col: end}
}

func yankInnerWord(s BufferState) BufferState {
	start, end := innerWordRange(s, Position{Row: s.CursorRow, Col: s.CursorCol})
	return yankInclusiveRange(s, start, end)
}

func deleteInnerWord(s BufferState) (BufferState, bool) {
	start, end := innerWordRange(s, Position{Row: s.CursorRow, Col: s.CursorCol})
	return deleteInclusiveRange(s, start, end)
}

// search performs a substring search across lines starting from the
// cursor, wrapping around end-of-buffer back to the cursor position.
func search(s BufferState, query string, dir Direction) (Position, bool) {
	if query == "" {
		return Position{Row: s.CursorRow, Col: s.CursorCol}, false
	}
	joined := strings.Join(s.Lines, "\n")
	offsets := lineOffsets(s.Lines)
	cursorOffset := offsets[s.CursorRow] + s.CursorCol

	runes := []rune(joined)
	n := len(runes)
	if n == 0 {
		return Position{Row: s.CursorRow, Col: s.CursorCol}, false
	}

	if dir == DirForward {
		for i := 1; i <= n; i++ {
			idx := (cursorOffset + i) % n
			if matchesAt(runes, idx, query) {
				return offsetToPos(s.Lines, offsets, idx), true
			}
		}
	} else {
		for i := 1; i <= n; i++ {
			idx := ((cursorOffset-i)%n + n) % n
			if matchesAt(runes, idx, query) {
				return offsetToPos(s.Lines, offsets, idx), true
			}
		}
	}
	return Position{Row: s.CursorRow, Col: s.CursorCol}, false
}

func matchesAt(runes []rune, idx int, query string) bool {
	q := []rune(query)
	if idx+len(q) > len(runes) {
		return false
	}
	for i, r := range q {
		if runes[idx+i] != r {
			return false
		}
	}
	return true
}

func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	acc := 0
	for i, l := range lines {
		offsets[i] = acc
		acc += codepointLen(l) + 1
	}
	return offsets
}

func offsetToPos(lines []string, offsets []int, idx int) Position {
	row := 0
	for i := len(offsets) - 1; i >= 0; i-- {
		if idx >= offsets[i] {
			row = i
			break
		}
	}
	return Position{Row: row, Col: idx - offsets[row]}
}
