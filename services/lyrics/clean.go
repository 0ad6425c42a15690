package lyrics

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	contributorLine = regexp.MustCompile(`(?i)^\s*(\d+\s*contributors?|translations)`)
	mightAlsoLike   = regexp.MustCompile(`(?mi)^[ \t]*you might also like[ \t]*`)
	embedMarker     = regexp.MustCompile(`(?i)(?:\d+|\n)[ \t]*embed\s*$`)
	sectionTag      = regexp.MustCompile(`\[[^\]\n]*\]`)
	extraBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Clean turns scraped lyrics into display text. It drops a leading
// contributor/translation credit line, "You might also like" teasers and a
// trailing embed marker, strips [Section] tags, collapses runs of blank
// lines to a single blank line and trims the result.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimLeftFunc(text, unicode.IsSpace)

	if first, rest, found := strings.Cut(text, "\n"); contributorLine.MatchString(first) {
		if found {
			text = rest
		} else {
			text = ""
		}
	}

	text = mightAlsoLike.ReplaceAllString(text, "")
	text = embedMarker.ReplaceAllString(text, "")
	text = sectionTag.ReplaceAllString(text, "")
	text = extraBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Normalize prepares artist and title for provider lookups. Letters (any
// script), digits, underscores, whitespace, hyphens and apostrophes are
// kept; the title also keeps parentheses.
func Normalize(artist, title string) (string, string) {
	return keep(artist, ""), keep(title, "()")
}

func keep(s, extra string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), unicode.IsMark(r):
			return r
		case r == '_' || r == '-' || r == '\'':
			return r
		case strings.ContainsRune(extra, r):
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}
