package vimtextarea

import (
	"strings"

	"reapo/internal/logger"
)

// replaceRange slices [startCol, endCol) out of the line range
// [startRow, endRow] and splices text in its place. text may contain
// '\n' to introduce new lines. The cursor is placed at the end of the
// inserted text and preferredCol is cleared. This is the one private
// workhorse every mutation-producing action composes with pushUndo
// (spec.md §4.B).
func replaceRange(s BufferState, startRow, startCol, endRow, endCol int, text string) BufferState {
	startRow, endRow = clampRow(s, startRow), clampRow(s, endRow)
	startCol = clampCol(s, startRow, startCol)
	endCol = clampCol(s, endRow, endCol)

	prefix := codepointSlice(s.Lines[startRow], 0, startCol)
	suffix := codepointSlice(s.Lines[endRow], endCol, codepointLen(s.Lines[endRow]))

	inserted := strings.Split(text, "\n")

	var newLines []string
	newLines = append(newLines, s.Lines[:startRow]...)

	if len(inserted) == 1 {
		newLines = append(newLines, prefix+inserted[0]+suffix)
	} else {
		newLines = append(newLines, prefix+inserted[0])
		newLines = append(newLines, inserted[1:len(inserted)-1]...)
		newLines = append(newLines, inserted[len(inserted)-1]+suffix)
	}

	newLines = append(newLines, s.Lines[endRow+1:]...)

	s.Lines = ensureNonEmpty(newLines)

	lastInsertedRow := startRow + len(inserted) - 1
	var lastInsertedCol int
	if len(inserted) == 1 {
		lastInsertedCol = startCol + codepointLen(inserted[0])
	} else {
		lastInsertedCol = codepointLen(inserted[len(inserted)-1])
	}

	s.CursorRow = clampRow(s, lastInsertedRow)
	s.CursorCol = clampCol(s, s.CursorRow, lastInsertedCol)
	s.PreferredCol = nil
	return s
}

// ensureNonEmpty preserves the invariant that lines is never empty: a
// cleared buffer is [""], never [].
func ensureNonEmpty(lines []string) []string {
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func clampRow(s BufferState, row int) int {
	if len(s.Lines) == 0 {
		return 0
	}
	if row < 0 {
		return 0
	}
	if row >= len(s.Lines) {
		return len(s.Lines) - 1
	}
	return row
}

func clampCol(s BufferState, row, col int) int {
	if row < 0 || row >= len(s.Lines) {
		return 0
	}
	max := codepointLen(s.Lines[row])
	if col < 0 {
		return 0
	}
	if col > max {
		return max
	}
	return col
}

// pushUndo appends the pre-image of s to its own undo stack, bounded
// to maxUndoDepth entries (oldest discarded on overflow). Never called
// for pure motion (spec.md §4.B).
func pushUndo(s BufferState) BufferState {
	snap := undoSnapshot{
		Lines:           cloneLines(s.Lines),
		CursorRow:       s.CursorRow,
		CursorCol:       s.CursorCol,
		PreferredCol:    clonePreferredCol(s.PreferredCol),
		SelectionAnchor: cloneSelectionAnchor(s.SelectionAnchor),
		Clipboard:       s.Clipboard,
	}
	s.UndoStack = append(s.UndoStack, snap)
	if len(s.UndoStack) > maxUndoDepth {
		s.UndoStack = s.UndoStack[1:]
	}
	logger.Debug("vimtextarea: pushUndo depth=%d", len(s.UndoStack))
	return s
}

// undo pops the latest snapshot and installs it wholesale, leaving the
// undo stack itself popped (no redo stack — spec.md does not specify
// one).
func undo(s BufferState) BufferState {
	if len(s.UndoStack) == 0 {
		return s
	}
	last := s.UndoStack[len(s.UndoStack)-1]
	s.UndoStack = s.UndoStack[:len(s.UndoStack)-1]

	s.Lines = ensureNonEmpty(cloneLines(last.Lines))
	s.CursorRow = last.CursorRow
	s.CursorCol = last.CursorCol
	s.PreferredCol = clonePreferredCol(last.PreferredCol)
	s.SelectionAnchor = cloneSelectionAnchor(last.SelectionAnchor)
	s.Clipboard = last.Clipboard
	logger.Debug("vimtextarea: undo depth=%d", len(s.UndoStack))
	return s
}

// lineLen returns the code-point length of row, or 0 if out of range.
func lineLen(s BufferState, row int) int {
	if row < 0 || row >= len(s.Lines) {
		return 0
	}
	return codepointLen(s.Lines[row])
}
