// Package genius fetches lyrics by searching the Genius API and scraping the
// matched song page.
package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rifflingua-go/logcolors"
	"rifflingua-go/services/providers"

	log "github.com/sirupsen/logrus"
)

const (
	// ProviderName is the identifier for the Genius provider
	ProviderName = "genius"

	// DefaultBaseURL is the Genius API root.
	DefaultBaseURL = "https://api.genius.com"

	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxPageSize = 5 * 1024 * 1024
)

// searchResponse mirrors the parts of GET /search we use.
type searchResponse struct {
	Response struct {
		Hits []struct {
			Type   string `json:"type"`
			Result struct {
				Title         string `json:"title"`
				URL           string `json:"url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// Provider implements providers.Provider against Genius.
type Provider struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewProvider creates a Genius provider. baseURL may be empty.
func NewProvider(accessToken, baseURL string) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		httpClient:  &http.Client{Timeout: 20 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return ProviderName
}

// Primary reports that Genius is asked before the fallback providers.
func (p *Provider) Primary() bool {
	return true
}

// FetchLyrics searches for "{artist} {title}", takes the top song hit and
// extracts the lyrics from its page.
func (p *Provider) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	query := strings.TrimSpace(artist + " " + title)
	log.Infof("%s %s Searching: %s", logcolors.LogSearch, logcolors.Provider(ProviderName), query)

	pageURL, err := p.search(ctx, query)
	if err != nil {
		return "", err
	}
	if pageURL == "" {
		return "", providers.NotFound(ProviderName)
	}

	log.Infof("%s %s Scraping %s", logcolors.LogScrape, logcolors.Provider(ProviderName), pageURL)
	return p.scrape(ctx, pageURL)
}

func (p *Provider) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", providers.NewProviderError(ProviderName, "failed to create search request", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", providers.NewProviderError(ProviderName, "search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", providers.NewProviderError(ProviderName, fmt.Sprintf("search returned status %d", resp.StatusCode), nil)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", providers.NewProviderError(ProviderName, "failed to parse search response", err)
	}

	for _, hit := range sr.Response.Hits {
		if hit.Type == "song" && hit.Result.URL != "" {
			log.Debugf("%s %s Top hit: %s - %s", logcolors.LogMatch, logcolors.Provider(ProviderName),
				hit.Result.PrimaryArtist.Name, hit.Result.Title)
			return hit.Result.URL, nil
		}
	}
	return "", nil
}

func (p *Provider) scrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", providers.NewProviderError(ProviderName, "failed to create page request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", providers.NewProviderError(ProviderName, "page request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", providers.NotFound(ProviderName)
	}
	if resp.StatusCode != http.StatusOK {
		return "", providers.NewProviderError(ProviderName, fmt.Sprintf("page returned status %d", resp.StatusCode), nil)
	}

	text, err := ExtractLyrics(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", providers.NewProviderError(ProviderName, "failed to parse song page", err)
	}
	if text == "" {
		return "", providers.NotFound(ProviderName)
	}
	return text, nil
}
