package vimtextarea

// Key is the controller's view of a single keystroke (spec.md §6).
// Missing fields are simply zero values; a malformed key (e.g. an
// empty Sequence) is filled with defaults and, failing every dispatch
// branch, passed through as non-Vim input (spec.md §7).
type Key struct {
	Name       string
	Sequence   string
	Ctrl       bool
	Meta       bool
	Shift      bool
	Paste      bool
	Insertable bool
	Runes      []rune
}

// normalizeKey maps a handful of named keys onto the sequence the
// dispatch tables switch on, so "left"/"h" and friends share one path.
func normalizeKey(k Key) Key {
	if k.Sequence != "" {
		return k
	}
	switch k.Name {
	case "left":
		k.Sequence = "left"
	case "right":
		k.Sequence = "right"
	case "up":
		k.Sequence = "up"
	case "down":
		k.Sequence = "down"
	case "escape":
		k.Sequence = "escape"
	case "return":
		k.Sequence = "return"
	case "backspace":
		k.Sequence = "backspace"
	case "tab":
		k.Sequence = "tab"
	}
	return k
}

var arrowToMotion = map[string]string{
	"left":  "h",
	"right": "l",
	"up":    "k",
	"down":  "j",
}
