package genius

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"rifflingua-go/services/providers"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

func TestExtractLyrics_Fixture(t *testing.T) {
	got, err := ExtractLyrics(strings.NewReader(readFixture(t, "song_page.html")))
	if err != nil {
		t.Fatalf("ExtractLyrics: %v", err)
	}

	expected := "[Verse 1]\n" +
		"Hello, it's me\n" +
		"I was wondering if after all these years you'd like to meet\n" +
		"To go over everything\n" +
		"[Chorus]\n" +
		"Hello from the other side\n" +
		"I must've called a thousand times & more"

	if got != expected {
		t.Errorf("ExtractLyrics() =\n%q\nexpected\n%q", got, expected)
	}
}

func TestExtractLyrics(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "no containers",
			html:     `<html><body><p>Lyrics for this song have yet to be released.</p></body></html>`,
			expected: "",
		},
		{
			name:     "numeric and named entities",
			html:     `<div data-lyrics-container="true">caf&eacute; &#8217;til dawn&#x21;</div>`,
			expected: "café ’til dawn!",
		},
		{
			name:     "nested excluded block",
			html:     `<div data-lyrics-container="true">line one<br><span data-exclude-from-selection="true">Embed</span>line two</div>`,
			expected: "line one\nline two",
		},
		{
			name:     "script inside container dropped",
			html:     `<div data-lyrics-container="true">a<script>var x = 1;</script><br>b</div>`,
			expected: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractLyrics(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("ExtractLyrics: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

// newGeniusServer serves /search and /songs/hello. hits is the raw JSON
// array returned in response.hits; "%s" in it is replaced by the server URL.
func newGeniusServer(t *testing.T, hits string, page string, pageStatus int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if r.URL.Query().Get("q") != "Adele Hello" {
				t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
			}
			fmt.Fprintf(w, `{"response":{"hits":%s}}`, strings.ReplaceAll(hits, "%s", srv.URL))
		case "/songs/hello":
			w.WriteHeader(pageStatus)
			fmt.Fprint(w, page)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

const songHit = `[{"type":"song","result":{"title":"Hello","url":"%s/songs/hello","primary_artist":{"name":"Adele"}}}]`

func TestProvider_FetchLyrics(t *testing.T) {
	srv := newGeniusServer(t, songHit, readFixture(t, "song_page.html"), http.StatusOK)

	p := NewProvider("test-token", srv.URL)
	got, err := p.FetchLyrics(context.Background(), "Adele", "Hello")
	if err != nil {
		t.Fatalf("FetchLyrics: %v", err)
	}
	if !strings.HasPrefix(got, "[Verse 1]\nHello, it's me") {
		t.Errorf("unexpected lyrics: %q", got)
	}
}

func TestProvider_NotFoundCases(t *testing.T) {
	tests := []struct {
		name       string
		hits       string
		page       string
		pageStatus int
	}{
		{"no hits", `[]`, "", http.StatusOK},
		{"only non-song hits", `[{"type":"album","result":{"url":"%s/albums/1"}}]`, "", http.StatusOK},
		{"page 404", songHit, "", http.StatusNotFound},
		{"page without lyrics", songHit, "<html><body>nothing</body></html>", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGeniusServer(t, tt.hits, tt.page, tt.pageStatus)
			_, err := NewProvider("test-token", srv.URL).FetchLyrics(context.Background(), "Adele", "Hello")
			if !providers.IsNotFound(err) {
				t.Errorf("expected not-found, got %v", err)
			}
		})
	}
}

func TestProvider_Failures(t *testing.T) {
	t.Run("bad token", func(t *testing.T) {
		srv := newGeniusServer(t, songHit, "", http.StatusOK)
		_, err := NewProvider("wrong", srv.URL).FetchLyrics(context.Background(), "Adele", "Hello")

		var pe *providers.ProviderError
		if !errors.As(err, &pe) || providers.IsNotFound(err) {
			t.Errorf("expected a non-not-found ProviderError, got %v", err)
		}
	})

	t.Run("page server error", func(t *testing.T) {
		srv := newGeniusServer(t, songHit, "oops", http.StatusInternalServerError)
		_, err := NewProvider("test-token", srv.URL).FetchLyrics(context.Background(), "Adele", "Hello")
		if err == nil || providers.IsNotFound(err) {
			t.Errorf("expected failure, got %v", err)
		}
	})
}

func TestProvider_Name(t *testing.T) {
	if NewProvider("t", "").Name() != ProviderName {
		t.Error("unexpected name")
	}
}
