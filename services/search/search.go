// Package search answers "give me the lyrics for this song" using free
// sources first and spending a daily search credit only on new songs.
package search

import (
	"context"
	"errors"
	"strings"

	"rifflingua-go/cache"
	"rifflingua-go/catalog"
	"rifflingua-go/logcolors"
	"rifflingua-go/quota"
	"rifflingua-go/services/providers"
	"rifflingua-go/services/video"
	"rifflingua-go/songs"
	"rifflingua-go/stats"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrEmptyQuery is returned when artist or title is blank.
	ErrEmptyQuery = errors.New("artist and title are required")

	// ErrQuotaExhausted is returned when a new song is requested after the
	// day's search credits are spent.
	ErrQuotaExhausted = errors.New("daily search limit reached")
)

// Result sources.
const (
	SourceSaved    = stats.SourceSaved
	SourceCache    = stats.SourceCache
	SourceProvider = stats.SourceProvider
)

// LyricsResolver resolves lyrics through the provider chain.
type LyricsResolver interface {
	ResolveWithSource(ctx context.Context, artist, title string) (*providers.Result, error)
}

// VideoFinder pairs a song with a video. A nil match means none.
type VideoFinder interface {
	FindVideo(ctx context.Context, artist, title string) *video.Match
}

// Options tunes a single lookup.
type Options struct {
	// ForceRefresh skips the saved songs and the lyrics cache.
	ForceRefresh bool
}

// Result is a resolved song.
type Result struct {
	Artist    string       `json:"artist"`
	Title     string       `json:"title"`
	Lyrics    string       `json:"lyrics"`
	Video     *video.Match `json:"video,omitempty"`
	Source    string       `json:"source"`
	Provider  string       `json:"provider,omitempty"`
	Billed    bool         `json:"billed"`
	Remaining int          `json:"remaining"`
	SongID    string       `json:"songId,omitempty"`
}

// Stats summarises the quota and the saved songs.
type Stats struct {
	Remaining  int `json:"remaining"`
	Total      int `json:"total"`
	SavedCount int `json:"savedCount"`
}

// Service wires the registry, the lyrics cache, the quota ledger, the
// lyrics engine and the video service together.
type Service struct {
	registry *songs.Registry
	ledger   *quota.Ledger
	lyrics   cache.Store
	engine   LyricsResolver
	videos   VideoFinder
}

// NewService creates a search service. lyricsCache is the lyrics namespace.
func NewService(registry *songs.Registry, ledger *quota.Ledger, lyricsCache cache.Store, engine LyricsResolver, videos VideoFinder) *Service {
	return &Service{
		registry: registry,
		ledger:   ledger,
		lyrics:   lyricsCache,
		engine:   engine,
		videos:   videos,
	}
}

// Lookup returns the lyrics for a song. Saved songs and cached lyrics are
// free; anything else needs a search credit, which is spent only when the
// lyrics are actually found. ForceRefresh re-resolves a saved song without
// spending a credit.
func (s *Service) Lookup(ctx context.Context, artist, title string, opts Options) (*Result, error) {
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	if artist == "" || title == "" {
		return nil, ErrEmptyQuery
	}

	if opts.ForceRefresh {
		if saved := s.registry.IsSaved(artist, title); saved != nil {
			return s.refresh(ctx, saved)
		}
	} else {
		if res := s.fromRegistry(artist, title); res != nil {
			return res, nil
		}
		if res := s.fromCache(ctx, artist, title); res != nil {
			return res, nil
		}
	}

	if !s.ledger.CanSearch() {
		stats.Get().RecordQuotaDenied()
		log.Infof("%s Daily limit reached, refusing %s - %s", logcolors.LogQuota, artist, title)
		return nil, ErrQuotaExhausted
	}
	return s.resolve(ctx, artist, title, true)
}

// refresh re-resolves a saved song. Saved songs never cost a credit.
func (s *Service) refresh(ctx context.Context, saved *songs.SavedSong) (*Result, error) {
	res, err := s.resolve(ctx, saved.Artist, saved.Title, false)
	if err != nil {
		return nil, err
	}
	if res.Video == nil && saved.VideoID != "" {
		res.Video = &video.Match{VideoID: saved.VideoID, ChannelTitle: saved.ChannelTitle}
	}
	return res, nil
}

// resolve asks the lyrics engine while the video lookup runs alongside,
// then caches and saves the result. A credit is spent only when billed.
func (s *Service) resolve(ctx context.Context, artist, title string, billed bool) (*Result, error) {
	videoCh := make(chan *video.Match, 1)
	go func() {
		videoCh <- s.videos.FindVideo(ctx, artist, title)
	}()

	resolved, err := s.engine.ResolveWithSource(ctx, artist, title)
	if err != nil {
		log.Warnf("%s Lookup failed for %s - %s: %v", logcolors.LogSearch, artist, title, err)
		return nil, err
	}

	if billed && !s.ledger.ConsumeCredit() {
		log.Warnf("%s Credit was spent concurrently for %s - %s", logcolors.LogQuota, artist, title)
	}
	if err := s.lyrics.Set(cache.SongKey(artist, title), resolved.Text); err != nil {
		log.Warnf("%s Failed to cache lyrics: %v", logcolors.LogCacheLyrics, err)
	}

	match := <-videoCh
	res := &Result{
		Artist:   artist,
		Title:    title,
		Lyrics:   resolved.Text,
		Video:    match,
		Source:   SourceProvider,
		Provider: resolved.Provider,
		Billed:   billed,
	}
	res.SongID = s.save(res)
	res.Remaining = s.ledger.Remaining()

	stats.Get().RecordLookupSource(SourceProvider)
	log.Infof("%s %s - %s resolved by %s, %d search(es) left", logcolors.LogSuccess, artist, title, resolved.Provider, res.Remaining)
	return res, nil
}

func (s *Service) fromRegistry(artist, title string) *Result {
	saved := s.registry.IsSaved(artist, title)
	if saved == nil {
		return nil
	}

	res := &Result{
		Artist:    saved.Artist,
		Title:     saved.Title,
		Lyrics:    saved.Lyrics,
		Source:    SourceSaved,
		Remaining: s.ledger.Remaining(),
		SongID:    saved.ID,
	}
	if saved.VideoID != "" {
		res.Video = &video.Match{VideoID: saved.VideoID, ChannelTitle: saved.ChannelTitle}
	}

	stats.Get().RecordLookupSource(SourceSaved)
	log.Infof("%s Saved song: %s - %s", logcolors.LogSongs, saved.Artist, saved.Title)
	return res
}

func (s *Service) fromCache(ctx context.Context, artist, title string) *Result {
	text, found, err := s.lyrics.Lookup(cache.SongKey(artist, title))
	if err != nil {
		log.Warnf("%s Failed to read cached lyrics: %v", logcolors.LogCacheLyrics, err)
		return nil
	}
	if !found || text == "" {
		return nil
	}

	res := &Result{
		Artist: artist,
		Title:  title,
		Lyrics: text,
		Video:  s.videos.FindVideo(ctx, artist, title),
		Source: SourceCache,
	}
	res.SongID = s.save(res)
	res.Remaining = s.ledger.Remaining()

	stats.Get().RecordLookupSource(SourceCache)
	log.Infof("%s Cache hit for %s - %s", logcolors.LogCacheLyrics, artist, title)
	return res
}

// save records the result in the registry. Failures are logged only.
func (s *Service) save(res *Result) string {
	song := songs.SavedSong{Artist: res.Artist, Title: res.Title, Lyrics: res.Lyrics}
	if res.Video != nil {
		song.VideoID = res.Video.VideoID
		song.ChannelTitle = res.Video.ChannelTitle
	}
	saved, err := s.registry.Save(song)
	if err != nil {
		log.Errorf("%s Failed to save %s - %s: %v", logcolors.LogSongs, res.Artist, res.Title, err)
		return ""
	}
	return saved.ID
}

// Featured resolves the lyrics of a catalog song. It never touches the
// quota and does not add the song to the saved list.
func (s *Service) Featured(ctx context.Context, song catalog.Song) (*Result, error) {
	res := &Result{
		Artist:    song.Artist,
		Title:     song.Title,
		Remaining: s.ledger.Remaining(),
		Video: &video.Match{
			VideoID:   song.YouTubeID,
			Title:     song.Title,
			Thumbnail: song.ThumbnailURL,
		},
	}

	if saved := s.registry.IsSaved(song.Artist, song.Title); saved != nil {
		res.Lyrics, res.Source, res.SongID = saved.Lyrics, SourceSaved, saved.ID
		stats.Get().RecordLookupSource(SourceSaved)
		return res, nil
	}

	key := cache.SongKey(song.Artist, song.Title)
	if text, found, err := s.lyrics.Lookup(key); err == nil && found && text != "" {
		res.Lyrics, res.Source = text, SourceCache
		stats.Get().RecordLookupSource(SourceCache)
		return res, nil
	}

	resolved, err := s.engine.ResolveWithSource(ctx, song.Artist, song.Title)
	if err != nil {
		return nil, err
	}
	if err := s.lyrics.Set(key, resolved.Text); err != nil {
		log.Warnf("%s Failed to cache lyrics: %v", logcolors.LogCacheLyrics, err)
	}

	res.Lyrics, res.Source, res.Provider = resolved.Text, SourceProvider, resolved.Provider
	stats.Get().RecordLookupSource(SourceProvider)
	return res, nil
}

// Stats returns the remaining searches, the daily total and how many songs
// are saved.
func (s *Service) Stats() Stats {
	return Stats{
		Remaining:  s.ledger.Remaining(),
		Total:      s.ledger.Limit(),
		SavedCount: s.registry.Count(),
	}
}
