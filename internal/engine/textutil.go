package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// User-Agent string for plain (non-spoofed) API calls.
const UserAgentBot = "GoRecap/1.0"

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	numericRefRe = regexp.MustCompile(`&#(\d+);`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// entityReplacer covers the named entities YouTube caption markup uses.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
)

// DecodeEntities decodes markup-escaped entities (named plus numeric
// character references) in caption text.
func DecodeEntities(s string) string {
	s = entityReplacer.Replace(s)
	s = numericRefRe.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.Atoi(m[2 : len(m)-1])
		if err != nil || n < 0 || n > 0x10FFFF {
			return m
		}
		return string(rune(n))
	})
	return strings.TrimSpace(s)
}

// CollapseWhitespace folds runs of whitespace into single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
