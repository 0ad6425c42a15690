// Package catalog holds the built-in library of practice songs and picks
// the song of the day.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

//go:embed songs.json
var songsJSON []byte

// VocabularyWord is a word worth learning from a song.
type VocabularyWord struct {
	Word      string `json:"word"`
	Meaning   string `json:"meaning"`
	Example   string `json:"example"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Song is a featured practice song.
type Song struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Artist       string           `json:"artist"`
	YouTubeID    string           `json:"youtubeId"`
	ThumbnailURL string           `json:"thumbnailUrl"`
	Difficulty   string           `json:"difficulty"`
	Duration     string           `json:"duration,omitempty"`
	Genre        string           `json:"genre,omitempty"`
	Vocabulary   []VocabularyWord `json:"vocabularyWords,omitempty"`
}

// Catalog is an immutable, ordered song library.
type Catalog struct {
	songs []Song
	byID  map[string]int
}

// Parse builds a catalog from a JSON array of songs.
func Parse(data []byte) (*Catalog, error) {
	var songs []Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("failed to parse song catalog: %w", err)
	}
	if len(songs) == 0 {
		return nil, errors.New("song catalog is empty")
	}

	c := &Catalog{songs: songs, byID: make(map[string]int, len(songs))}
	for i, s := range songs {
		if s.ID == "" || s.Title == "" || s.Artist == "" {
			return nil, fmt.Errorf("song %d is missing id, title or artist", i)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate song id %q", s.ID)
		}
		c.byID[s.ID] = i
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(songsJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Songs returns every song in catalog order.
func (c *Catalog) Songs() []Song {
	out := make([]Song, len(c.songs))
	copy(out, c.songs)
	return out
}

// Today returns the song of the day for t's calendar date. The same date
// always yields the same song.
func (c *Catalog) Today(t time.Time) Song {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	idx := int(days % int64(len(c.songs)))
	if idx < 0 {
		idx += len(c.songs)
	}
	return c.songs[idx]
}

// ByID returns the song with the given ID.
func (c *Catalog) ByID(id string) (Song, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Song{}, false
	}
	return c.songs[i], true
}
