// Package rest implements lyrics providers backed by simple JSON REST APIs.
// Each API is described by a Preset; the HTTP plumbing is shared.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rifflingua-go/logcolors"
	"rifflingua-go/services/providers"

	log "github.com/sirupsen/logrus"
)

const maxBodySize = 2 * 1024 * 1024

// Preset describes one REST lyrics API.
type Preset struct {
	// Name is the provider identifier used in FALLBACK_PROVIDERS.
	Name string

	// BuildURL returns the request URL for a song.
	BuildURL func(baseURL, artist, title string) string

	// Extract pulls the lyrics out of a 200 response body. An empty result
	// means the API has no lyrics for the song.
	Extract func(body []byte) (string, error)

	// Clean optionally post-processes the extracted lyrics.
	Clean func(lyrics string) string
}

// Provider is a providers.Provider for a Preset.
type Provider struct {
	preset     Preset
	baseURL    string
	httpClient *http.Client
}

// New creates a provider for preset rooted at baseURL.
func New(preset Preset, baseURL string) *Provider {
	return &Provider{
		preset:     preset,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.preset.Name
}

// FetchLyrics requests the song and extracts its lyrics. 404 and empty
// answers are reported as not found.
func (p *Provider) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	name := p.preset.Name
	reqURL := p.preset.BuildURL(p.baseURL, artist, title)
	log.Debugf("%s %s GET %s", logcolors.LogLyrics, logcolors.Provider(name), reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", providers.NewProviderError(name, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "rifflingua/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", providers.NewProviderError(name, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", providers.NotFound(name)
	}
	if resp.StatusCode != http.StatusOK {
		return "", providers.NewProviderError(name, fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", providers.NewProviderError(name, "failed to read response", err)
	}

	lyrics, err := p.preset.Extract(body)
	if err != nil {
		return "", providers.NewProviderError(name, "failed to parse response", err)
	}
	if p.preset.Clean != nil {
		lyrics = p.preset.Clean(lyrics)
	}
	lyrics = strings.TrimSpace(lyrics)
	if lyrics == "" {
		return "", providers.NotFound(name)
	}
	return lyrics, nil
}
