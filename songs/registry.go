// Package songs keeps the list of songs the user has already paid a search
// credit for, so that looking them up again is free.
package songs

import (
	"errors"
	"strings"
	"sync"
	"time"

	"rifflingua-go/cache"
	"rifflingua-go/logcolors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

const listKey = "saved"

// ErrNotFound is returned by Remove when no song has the given ID.
var ErrNotFound = errors.New("saved song not found")

// SavedSong is a song whose lyrics were resolved and kept locally.
type SavedSong struct {
	ID           string    `json:"id"`
	Artist       string    `json:"artist"`
	Title        string    `json:"title"`
	Lyrics       string    `json:"lyrics"`
	VideoID      string    `json:"videoId,omitempty"`
	ChannelTitle string    `json:"channelTitle,omitempty"`
	SavedAt      time.Time `json:"savedAt"`
}

// Registry stores saved songs as one JSON list, newest first.
type Registry struct {
	mu    sync.Mutex
	store cache.Store
	fold  cases.Caser
	now   func() time.Time
}

// NewRegistry creates a registry persisted in store.
func NewRegistry(store cache.Store) *Registry {
	return &Registry{
		store: store,
		fold:  cases.Fold(),
		now:   time.Now,
	}
}

func (r *Registry) sameSong(s SavedSong, artist, title string) bool {
	return r.fold.String(strings.TrimSpace(s.Artist)) == r.fold.String(strings.TrimSpace(artist)) &&
		r.fold.String(strings.TrimSpace(s.Title)) == r.fold.String(strings.TrimSpace(title))
}

func (r *Registry) load() ([]SavedSong, error) {
	var list []SavedSong
	if _, err := cache.LookupJSON(r.store, listKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// list reads the registry, logging and hiding read failures.
func (r *Registry) list() []SavedSong {
	list, err := r.load()
	if err != nil {
		log.Errorf("%s Failed to read saved songs: %v", logcolors.LogSongs, err)
		return nil
	}
	return list
}

// List returns every saved song, newest first.
func (r *Registry) List() []SavedSong {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list()
}

// Count returns how many songs are saved.
func (r *Registry) Count() int {
	return len(r.List())
}

// IsSaved returns the saved song matching artist and title, ignoring case,
// or nil.
func (r *Registry) IsSaved(artist, title string) *SavedSong {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.list() {
		if r.sameSong(s, artist, title) {
			found := s
			return &found
		}
	}
	return nil
}

// Save inserts song at the front of the list, or overwrites the existing
// entry for the same artist and title in place, keeping its ID and any
// video details song leaves empty. SavedAt is always refreshed. The stored
// song is returned.
func (r *Registry) Save(song SavedSong) (*SavedSong, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		// Overwriting here would drop every song we failed to read.
		return nil, err
	}

	song.SavedAt = r.now()

	for i, existing := range list {
		if r.sameSong(existing, song.Artist, song.Title) {
			song.ID = existing.ID
			if song.VideoID == "" {
				song.VideoID = existing.VideoID
				song.ChannelTitle = existing.ChannelTitle
			}
			list[i] = song
			if err := cache.SetJSON(r.store, listKey, list); err != nil {
				return nil, err
			}
			log.Infof("%s Updated saved song: %s - %s", logcolors.LogSongs, song.Artist, song.Title)
			return &song, nil
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	song.ID = id.String()
	list = append([]SavedSong{song}, list...)

	if err := cache.SetJSON(r.store, listKey, list); err != nil {
		return nil, err
	}
	log.Infof("%s Saved new song: %s - %s", logcolors.LogSongs, song.Artist, song.Title)
	return &song, nil
}

// Remove deletes the song with the given ID.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}

	filtered := make([]SavedSong, 0, len(list))
	for _, s := range list {
		if s.ID != id {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == len(list) {
		return ErrNotFound
	}

	if err := cache.SetJSON(r.store, listKey, filtered); err != nil {
		return err
	}
	log.Infof("%s Removed saved song %s", logcolors.LogSongs, id)
	return nil
}

// Clear removes every saved song.
func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(listKey); err != nil {
		return err
	}
	log.Infof("%s Cleared all saved songs", logcolors.LogSongs)
	return nil
}
