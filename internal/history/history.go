// Package history implements the prompt history navigator: Up/Down
// cycling through previously submitted messages with a draft that is
// captured once and restored verbatim if the user backs out without
// submitting.
package history

// Navigator holds the read-only message list and the navigation
// cursor into it. It is an orthogonal peer of the vim controller, not
// a mode of it: the host decides when Up/Down should reach the
// navigator versus the buffer (e.g. only at row 0 with an empty
// buffer), the same way the teacher's completion state is driven from
// outside by update.go rather than owning key dispatch itself.
type Navigator struct {
	// UserMessages is the oldest-first list of previously submitted
	// messages; Submit appends to it.
	UserMessages []string

	// HistoryIndex is -1 when not navigating, otherwise an index into
	// UserMessages counting back from the end (0 is the most recent).
	HistoryIndex int

	// OriginalDraft is whatever was in the buffer when navigation
	// started, restored verbatim on NavigateDown past the most recent
	// entry.
	OriginalDraft string

	// OnChange is invoked with the buffer text the navigator wants
	// displayed, whenever navigation changes it.
	OnChange func(string)

	// IsActive reports whether navigation is currently permitted
	// (e.g. cursor at buffer row 0). A nil IsActive behaves as always
	// active.
	IsActive func() bool
}

// NewNavigator returns a Navigator over messages, not yet navigating.
func NewNavigator(messages []string) *Navigator {
	return &Navigator{UserMessages: messages, HistoryIndex: -1}
}

func (n *Navigator) active() bool {
	return n.IsActive == nil || n.IsActive()
}

func (n *Navigator) fire(text string) {
	if n.OnChange != nil {
		n.OnChange(text)
	}
}

// NavigateUp moves one entry further into the past. On the first call
// of a navigation session it captures currentDraft as OriginalDraft.
func (n *Navigator) NavigateUp(currentDraft string) {
	if !n.active() || len(n.UserMessages) == 0 {
		return
	}
	if n.HistoryIndex == -1 {
		n.OriginalDraft = currentDraft
		n.HistoryIndex = 0
	} else if n.HistoryIndex < len(n.UserMessages)-1 {
		n.HistoryIndex++
	} else {
		return
	}
	n.fire(n.UserMessages[len(n.UserMessages)-1-n.HistoryIndex])
}

// NavigateDown moves one entry back toward the present, restoring
// OriginalDraft verbatim once it passes the most recent entry.
func (n *Navigator) NavigateDown() {
	if !n.active() || n.HistoryIndex == -1 {
		return
	}
	if n.HistoryIndex == 0 {
		n.HistoryIndex = -1
		n.fire(n.OriginalDraft)
		return
	}
	n.HistoryIndex--
	n.fire(n.UserMessages[len(n.UserMessages)-1-n.HistoryIndex])
}

// GoToIndex jumps directly to a 0-based index counting back from the
// most recent message (0 is most recent), clamped into [-1, len-1].
// -1 means "not navigating" and restores OriginalDraft, the same as
// NavigateDown past the most recent entry.
func (n *Navigator) GoToIndex(i int, currentDraft string) {
	if !n.active() || len(n.UserMessages) == 0 {
		return
	}
	if n.HistoryIndex == -1 {
		n.OriginalDraft = currentDraft
	}
	if i < -1 {
		i = -1
	}
	if i > len(n.UserMessages)-1 {
		i = len(n.UserMessages) - 1
	}
	if i == -1 {
		n.HistoryIndex = -1
		n.fire(n.OriginalDraft)
		return
	}
	n.HistoryIndex = i
	n.fire(n.UserMessages[len(n.UserMessages)-1-n.HistoryIndex])
}

// Submit appends value to UserMessages and resets navigation, ready
// for the next draft.
func (n *Navigator) Submit(value string) {
	n.UserMessages = append(n.UserMessages, value)
	n.HistoryIndex = -1
	n.OriginalDraft = ""
}
