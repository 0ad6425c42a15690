package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rifflingua-go/services/providers"
	"rifflingua-go/services/providers/rest"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "contributors line, tags and blank runs",
			input:    "3 Contributors\n[Chorus]\nHello\n\n\n\nWorld",
			expected: "Hello\n\nWorld",
		},
		{
			name:     "genius header glued to translations",
			input:    "143 ContributorsTranslationsTürkçeHello Lyrics\n[Verse 1]\nHello, it's me",
			expected: "Hello, it's me",
		},
		{
			name:     "you might also like and embed",
			input:    "Line one\nYou might also like\nLine two\n\n12Embed",
			expected: "Line one\n\nLine two",
		},
		{
			name:     "teaser glued to next section",
			input:    "Line one\nYou might also like[Bridge]\nLine two",
			expected: "Line one\n\nLine two",
		},
		{
			name:     "standalone Embed line",
			input:    "Last line\nEmbed",
			expected: "Last line",
		},
		{
			name:     "embed inside lyrics kept",
			input:    "I want to embed you in my heart",
			expected: "I want to embed you in my heart",
		},
		{
			name:     "windows newlines",
			input:    "a\r\n\r\n\r\n\r\nb",
			expected: "a\n\nb",
		},
		{
			name:     "only tags",
			input:    "[Intro]\n[Instrumental]",
			expected: "",
		},
		{
			name:     "contributor word later in text kept",
			input:    "First line\n3 Contributors came along",
			expected: "First line\n3 Contributors came along",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	once := Clean("5 Contributors\n[Verse]\nA\n\n\n\nB\n3Embed")
	if twice := Clean(once); twice != once {
		t.Errorf("Clean not idempotent: %q -> %q", once, twice)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		artist, title         string
		wantArtist, wantTitle string
	}{
		{"  Guns N' Roses ", "Sweet Child O' Mine!", "Guns N' Roses", "Sweet Child O' Mine"},
		{"Beyoncé", "Halo (Live)", "Beyoncé", "Halo (Live)"},
		{"AC/DC", "T.N.T.", "ACDC", "TNT"},
		{"Jay-Z", "Song_Name?", "Jay-Z", "Song_Name"},
		{"Sezen Aksu (TR)", "Şarkı", "Sezen Aksu TR", "Şarkı"},
	}

	for _, tt := range tests {
		artist, title := Normalize(tt.artist, tt.title)
		if artist != tt.wantArtist || title != tt.wantTitle {
			t.Errorf("Normalize(%q, %q) = (%q, %q), expected (%q, %q)",
				tt.artist, tt.title, artist, title, tt.wantArtist, tt.wantTitle)
		}
	}
}

type fakeProvider struct {
	name string
	text string
	err  error
	seen [2]string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	f.seen = [2]string{artist, title}
	return f.text, f.err
}

func TestEngine_CleansAndNormalizes(t *testing.T) {
	p := &fakeProvider{name: "genius", text: "2 Contributors\n[Verse 1]\nHello"}
	e := NewEngine([]providers.Provider{p}, providers.ChainConfig{})

	got, err := e.Resolve(context.Background(), "Adele!", "Hello?")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "Hello" {
		t.Errorf("Resolve() = %q", got)
	}
	if p.seen != [2]string{"Adele", "Hello"} {
		t.Errorf("provider saw %v, expected normalized input", p.seen)
	}
}

func TestEngine_TagOnlyAnswerFallsThrough(t *testing.T) {
	tagsOnly := &fakeProvider{name: "genius", text: "[Instrumental]"}
	backup := &fakeProvider{name: "lrclib", text: "real words"}

	e := NewEngine([]providers.Provider{tagsOnly, backup}, providers.ChainConfig{})
	res, err := e.ResolveWithSource(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Provider != "lrclib" || res.Text != "real words" {
		t.Errorf("ResolveWithSource() = %+v", res)
	}
}

// With the primary disabled (not in the chain) and the only fallback
// answering 404, resolution fails with NotFoundError.
func TestEngine_PrimaryDisabledFallback404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"No lyrics found"}`)
	}))
	defer srv.Close()

	e := NewEngine([]providers.Provider{rest.New(rest.LyricsOVH, srv.URL)}, providers.ChainConfig{})
	_, err := e.Resolve(context.Background(), "Nobody", "Nothing")

	var nf *providers.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *providers.NotFoundError, got %T (%v)", err, err)
	}
	if e.Providers()[0] != rest.LyricsOVHName {
		t.Errorf("Providers() = %v", e.Providers())
	}
}

func TestEngine_AllFailuresIsResolutionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewEngine([]providers.Provider{
		rest.New(rest.LyricsOVH, srv.URL),
		rest.New(rest.SomeRandomAPI, srv.URL),
	}, providers.ChainConfig{})

	_, err := e.Resolve(context.Background(), "A", "B")
	var re *providers.ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected *providers.ResolutionError, got %v", err)
	}
	var pe *providers.ProviderError
	if !errors.As(re.Last, &pe) || pe.Provider != rest.SomeRandomAPIName {
		t.Errorf("Last = %v, expected the last provider's error", re.Last)
	}
}

func TestEngine_NoProviders(t *testing.T) {
	_, err := NewEngine(nil, providers.ChainConfig{}).Resolve(context.Background(), "A", "B")
	if !errors.Is(err, providers.ErrNoProviders) {
		t.Errorf("expected ErrNoProviders, got %v", err)
	}
}
