package rest

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

// Provider names accepted in FALLBACK_PROVIDERS.
const (
	LyricsOVHName     = "lyricsovh"
	SomeRandomAPIName = "somerandomapi"
	LRCLIBName        = "lrclib"
)

// Default API roots.
const (
	DefaultLyricsOVHURL     = "https://api.lyrics.ovh/v1"
	DefaultSomeRandomAPIURL = "https://some-random-api.com/lyrics"
	DefaultLRCLIBURL        = "https://lrclib.net/api/get"
)

// lyrics.ovh prefixes some answers with "Paroles de la chanson X par Y".
var lyricsOVHHeader = regexp.MustCompile(`(?i)^\s*paroles de la chanson .* par .*\r?\n`)

// LyricsOVH looks songs up at {base}/{artist}/{title}.
var LyricsOVH = Preset{
	Name: LyricsOVHName,
	BuildURL: func(base, artist, title string) string {
		return base + "/" + url.PathEscape(artist) + "/" + url.PathEscape(title)
	},
	Extract: lyricsField,
	Clean: func(lyrics string) string {
		return lyricsOVHHeader.ReplaceAllString(lyrics, "")
	},
}

// SomeRandomAPI looks songs up with a single "{artist} {title}" query.
var SomeRandomAPI = Preset{
	Name: SomeRandomAPIName,
	BuildURL: func(base, artist, title string) string {
		return base + "?title=" + url.QueryEscape(strings.TrimSpace(artist+" "+title))
	},
	Extract: lyricsField,
}

// LRCLIB looks songs up by artist and track name and returns the plain
// (untimed) lyrics.
var LRCLIB = Preset{
	Name: LRCLIBName,
	BuildURL: func(base, artist, title string) string {
		params := url.Values{}
		params.Set("artist_name", artist)
		params.Set("track_name", title)
		return base + "?" + params.Encode()
	},
	Extract: func(body []byte) (string, error) {
		var resp struct {
			PlainLyrics  string `json:"plainLyrics"`
			Instrumental bool   `json:"instrumental"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", err
		}
		if resp.Instrumental {
			return "", nil
		}
		return resp.PlainLyrics, nil
	},
}

// Presets lists every built-in preset by name.
var Presets = map[string]Preset{
	LyricsOVHName:     LyricsOVH,
	SomeRandomAPIName: SomeRandomAPI,
	LRCLIBName:        LRCLIB,
}

func lyricsField(body []byte) (string, error) {
	var resp struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Lyrics, nil
}
