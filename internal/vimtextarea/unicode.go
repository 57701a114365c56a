package vimtextarea

import "unicode"

// codepointLen returns the number of Unicode code points in s.
func codepointLen(s string) int {
	return len([]rune(s))
}

// codepointSlice returns the code points [start, end) of s as a string.
// Out-of-range bounds are clamped rather than panicking.
func codepointSlice(s string, start, end int) string {
	r := []rune(s)
	if start < 0 {
		start = 0
	}
	if end > len(r) {
		end = len(r)
	}
	if start > end {
		start = end
	}
	return string(r[start:end])
}

// runeAt returns the code point at index i, or 0 if out of range.
func runeAt(s string, i int) rune {
	r := []rune(s)
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i]
}

// isWordCharStrict implements Vim's strict "word" character class:
// letters, digits, and underscore.
func isWordCharStrict(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

// isCombiningMark reports whether c is a Unicode combining mark —
// a code point that attaches visually to the preceding base character.
func isCombiningMark(c rune) bool {
	return unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Me, c) || unicode.Is(unicode.Mc, c)
}

// isWordCharWithCombining reports true for strict word characters and
// for combining marks, used when grouping a base character with any
// marks attached to it.
func isWordCharWithCombining(c rune) bool {
	return isWordCharStrict(c) || isCombiningMark(c)
}

// charClass classifies c into the two-way partition the inner-word
// selector and word motions use: word-class vs. everything else.
// Whitespace and punctuation are both "non-word", matching Vim's
// b/w/e classification (as opposed to B/W/E "WORD" classification,
// which this engine does not implement — see spec.md §1 Non-goals).
// A combining mark classifies as word-class so it glues to whichever
// run it trails instead of splitting it in two (spec.md §4.A/§9 "combining
// marks are skipped on rightward motion so the cursor never rests on
// one" — the same reasoning applies to word-boundary classification).
func charClass(c rune) bool {
	return isWordCharWithCombining(c)
}
