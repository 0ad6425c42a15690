// Package video finds a music video for a song on YouTube.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rifflingua-go/cache"
	"rifflingua-go/logcolors"
	"rifflingua-go/stats"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// MusicCategoryID is YouTube's "Music" video category.
	MusicCategoryID = "10"
)

// Match is the video paired with a song.
type Match struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default *thumbnail `json:"default"`
				High    *thumbnail `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Config configures a Service.
type Config struct {
	APIKey     string
	BaseURL    string
	CategoryID string
	Timeout    time.Duration
}

// Service looks videos up, caching every match. It never fails: any problem
// is logged and reported as "no match".
type Service struct {
	store      cache.Store
	apiKey     string
	baseURL    string
	categoryID string
	httpClient *http.Client
}

// NewService creates a video service backed by store.
func NewService(store cache.Store, cfg Config) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CategoryID == "" {
		cfg.CategoryID = MusicCategoryID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Service{
		store:      store,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		categoryID: cfg.CategoryID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool {
	return s.apiKey != ""
}

// FindVideo returns the best video for the song, or nil. The cache is
// consulted before checking for an API key, so cached matches keep working
// without one.
func (s *Service) FindVideo(ctx context.Context, artist, title string) *Match {
	key := cache.SongKey(artist, title)

	var cached Match
	found, err := cache.LookupJSON(s.store, key, &cached)
	if err != nil {
		log.Warnf("%s Failed to read cached video for %s - %s: %v", logcolors.LogCacheVideo, artist, title, err)
	}
	if found {
		stats.Get().RecordVideoCache(true)
		log.Debugf("%s Cache hit for %s - %s", logcolors.LogCacheVideo, artist, title)
		return &cached
	}
	stats.Get().RecordVideoCache(false)

	if !s.Enabled() {
		log.Debugf("%s No YouTube API key configured, skipping lookup", logcolors.LogVideo)
		return nil
	}

	match, err := s.search(ctx, artist, title)
	if err != nil {
		log.Errorf("%s Search failed for %s - %s: %v", logcolors.LogVideo, artist, title, err)
		return nil
	}
	if match == nil {
		log.Infof("%s No video found for %s - %s", logcolors.LogVideo, artist, title)
		return nil
	}

	if err := cache.SetJSON(s.store, key, match); err != nil {
		log.Warnf("%s Failed to cache video: %v", logcolors.LogCacheVideo, err)
	}
	log.Infof("%s Found %q (%s)", logcolors.LogVideo, match.Title, match.VideoID)
	return match
}

func (s *Service) search(ctx context.Context, artist, title string) (*Match, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", strings.TrimSpace(artist+" "+title)+" official")
	params.Set("type", "video")
	params.Set("videoCategoryId", s.categoryID)
	params.Set("maxResults", "1")
	params.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube API returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(sr.Items) == 0 || sr.Items[0].ID.VideoID == "" {
		return nil, nil
	}

	item := sr.Items[0]
	match := &Match{
		VideoID:      item.ID.VideoID,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
	}
	switch {
	case item.Snippet.Thumbnails.High != nil && item.Snippet.Thumbnails.High.URL != "":
		match.Thumbnail = item.Snippet.Thumbnails.High.URL
	case item.Snippet.Thumbnails.Default != nil:
		match.Thumbnail = item.Snippet.Thumbnails.Default.URL
	}
	return match, nil
}

// ClearCache removes every cached video match.
func (s *Service) ClearCache() (int, error) {
	n, err := s.store.Clear()
	if err != nil {
		return 0, err
	}
	log.Infof("%s Removed %d cached videos", logcolors.LogCacheVideo, n)
	return n, nil
}
