package vimtextarea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0"))
	selectionStyle = lipgloss.NewStyle().Background(lipgloss.Color("240"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	commandLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// View renders the buffer, one input line per viewport row, with a
// leading "> " prompt on row zero matching the teacher's textarea
// chrome. All indexing here is code-point based (runeAt/codepointSlice),
// not byte based, unlike the rendering this supersedes.
func (m Model) View() string {
	buf := m.ctrl.Buffer
	if isBufferEmpty(buf) && m.placeholder != "" {
		return "> " + m.renderPlaceholder()
	}

	lines := make([]string, 0, len(buf.Lines))
	for row, line := range buf.Lines {
		prefix := "  "
		if row == 0 {
			prefix = "> "
		}
		lines = append(lines, prefix+m.renderRow(row, line))
	}

	out := strings.Join(lines, "\n")
	if m.ctrl.Mode == ModeCommand {
		out += "\n" + commandLineStyle.Render(m.ctrl.CommandBuffer)
	}
	return out
}

func (m Model) renderRow(row int, line string) string {
	buf := m.ctrl.Buffer
	inVisual := buf.SelectionAnchor != nil && (m.ctrl.Mode == ModeVisual || m.ctrl.Mode == ModeVisualLine)

	if inVisual {
		if sel := m.visualSpanForRow(row); sel != nil {
			return renderRowWithSelection(line, row, buf.CursorRow, buf.CursorCol, *sel)
		}
	}
	if row != buf.CursorRow {
		return line
	}
	return renderRowWithCursor(line, buf.CursorCol)
}

type colSpan struct{ start, end int } // [start, end)

// visualSpanForRow returns the selected column span on row, or nil if
// row isn't part of the selection.
func (m Model) visualSpanForRow(row int) *colSpan {
	buf := m.ctrl.Buffer
	anchor := *buf.SelectionAnchor
	cursor := Position{Row: buf.CursorRow, Col: buf.CursorCol}
	start, end := anchor, cursor
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		start, end = end, start
	}
	if row < start.Row || row > end.Row {
		return nil
	}

	ll := codepointLen(lineAt(buf, row))
	if m.ctrl.Mode == ModeVisualLine {
		return &colSpan{start: 0, end: ll}
	}

	s, e := 0, ll
	if row == start.Row {
		s = start.Col
	}
	if row == end.Row {
		e = end.Col + 1
		if e > ll {
			e = ll
		}
	}
	return &colSpan{start: s, end: e}
}

func renderRowWithCursor(line string, col int) string {
	ll := codepointLen(line)
	if col >= ll {
		return line + cursorStyle.Render(" ")
	}
	before := codepointSlice(line, 0, col)
	char := codepointSlice(line, col, col+1)
	after := codepointSlice(line, col+1, ll)
	return before + cursorStyle.Render(char) + after
}

func renderRowWithSelection(line string, row, cursorRow, cursorCol int, span colSpan) string {
	ll := codepointLen(line)
	start, end := span.start, span.end
	if start < 0 {
		start = 0
	}
	if end > ll {
		end = ll
	}
	if start >= end {
		if row == cursorRow {
			return renderRowWithCursor(line, cursorCol)
		}
		return line
	}

	before := codepointSlice(line, 0, start)
	selected := codepointSlice(line, start, end)
	after := codepointSlice(line, end, ll)
	return before + selectionStyle.Render(selected) + after
}

func (m Model) renderPlaceholder() string {
	if m.placeholder == "" {
		return ""
	}
	first := codepointSlice(m.placeholder, 0, 1)
	rest := codepointSlice(m.placeholder, 1, codepointLen(m.placeholder))
	return cursorStyle.Render(first) + placeholderStyle.Render(rest)
}
