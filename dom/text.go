package dom

import "strings"

// isWhitespace reports whether b is one of the five ASCII whitespace bytes
// HTML text-node normalization collapses on: space, tab, LF, FF, CR.
func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// IsWhitespaceOnly reports whether s consists entirely of ASCII whitespace
// (including the empty string). The htmlparser adapter uses this to decide
// whether to drop a text node under Config.PreserveWhitespace == false.
func IsWhitespaceOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWhitespace(s[i]) {
			return false
		}
	}
	return true
}

// collapseWhitespace collapses runs of ASCII whitespace to a single space
// and trims leading/trailing whitespace, matching the normalization
// Element.Text applies unless the Document was built with
// PreserveWhitespace.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	wroteAny := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isWhitespace(c) {
			inRun = true
			continue
		}
		if inRun && wroteAny {
			b.WriteByte(' ')
		}
		inRun = false
		wroteAny = true
		b.WriteByte(c)
	}
	return b.String()
}
