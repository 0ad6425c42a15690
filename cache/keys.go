package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const textKeyPrefixRunes = 50

var folder = cases.Fold()

// NormalizeKeyPart case-folds s, applies NFC and collapses whitespace runs
// into single underscores.
func NormalizeKeyPart(s string) string {
	folded := folder.String(norm.NFC.String(s))
	return strings.Join(strings.Fields(folded), "_")
}

// SongKey derives the cache key for an (artist, title) pair.
func SongKey(artist, title string) string {
	return NormalizeKeyPart(artist) + "|" + NormalizeKeyPart(title)
}

// TextKey derives the cache key for a piece of text in a target language:
// a readable normalized prefix plus a digest of the whole text, so two texts
// sharing their first lines do not collide.
func TextKey(lang, text string) string {
	normalized := NormalizeKeyPart(text)
	prefix := []rune(normalized)
	if len(prefix) > textKeyPrefixRunes {
		prefix = prefix[:textKeyPrefixRunes]
	}

	sum := sha256.Sum256([]byte(text))
	return strings.ToLower(strings.TrimSpace(lang)) + ":" + string(prefix) + ":" + hex.EncodeToString(sum[:8])
}
