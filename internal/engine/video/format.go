package video

import (
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// paragraphThreshold is the character count past which a paragraph break is
// taken at the next sentence-terminal boundary.
const paragraphThreshold = 400

// FormatSegments joins timed segments into readable prose, breaking into
// paragraphs once the accumulated text passes the threshold AND ends at
// sentence-terminal punctuation. Whitespace runs inside a segment (multi-
// line cues) collapse to single spaces. A trailing partial paragraph is
// always flushed, never dropped.
func FormatSegments(segments []Segment) string {
	var paragraphs []string
	var cur strings.Builder

	for _, s := range segments {
		text := engine.CollapseWhitespace(s.Text)
		if text == "" {
			continue
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(text)

		if cur.Len() >= paragraphThreshold && endsSentence(text) {
			paragraphs = append(paragraphs, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		paragraphs = append(paragraphs, cur.String())
	}

	return strings.Join(paragraphs, "\n\n")
}

// endsSentence reports whether s ends with sentence-terminal punctuation.
func endsSentence(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
