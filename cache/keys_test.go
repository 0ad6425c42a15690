package cache

import (
	"strings"
	"testing"
)

func TestNormalizeKeyPart(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Radiohead", "radiohead"},
		{"collapses whitespace", "  Set  Fire\tto the   Rain ", "set_fire_to_the_rain"},
		{"folds unicode case", "BEYONC\u00c9", "beyonc\u00e9"},
		{"normalizes combining marks", "Beyonce\u0301", "beyonc\u00e9"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKeyPart(tt.input); got != tt.expected {
				t.Errorf("NormalizeKeyPart(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSongKeyIsCaseInsensitive(t *testing.T) {
	a := SongKey("Radiohead", "Creep")
	b := SongKey("radiohead", "CREEP")
	if a != b {
		t.Errorf("SongKey mismatch: %q vs %q", a, b)
	}
	if SongKey("a b", "c") == SongKey("a", "b c") {
		t.Error("artist/title boundary must be part of the key")
	}
}

func TestTextKey(t *testing.T) {
	text := strings.Repeat("I set fire to the rain\n", 20)

	if TextKey("tr", text) != TextKey("TR", text) {
		t.Error("language should be case-insensitive")
	}
	if TextKey("tr", text) == TextKey("de", text) {
		t.Error("different languages must produce different keys")
	}

	// Same first 50 runes, different tails.
	other := text + "one more line"
	if TextKey("tr", text) == TextKey("tr", other) {
		t.Error("texts with a shared prefix must not collide")
	}

	key := TextKey("tr", text)
	if !strings.HasPrefix(key, "tr:i_set_fire_to_the_rain") {
		t.Errorf("unexpected key shape: %q", key)
	}
}
