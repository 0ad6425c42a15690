// Package lyrics resolves plain-text lyrics for a song through an ordered
// chain of providers and cleans them up for display.
package lyrics

import (
	"context"

	"rifflingua-go/circuitbreaker"
	"rifflingua-go/logcolors"
	"rifflingua-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// Engine resolves lyrics. The zero value is not usable; use NewEngine.
type Engine struct {
	chain *providers.Chain
}

// cleaned applies Clean to a provider's answer, so a page that is nothing
// but credits and section tags counts as "not found" and the chain moves on.
type cleaned struct {
	providers.Provider
}

func (c cleaned) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	text, err := c.Provider.FetchLyrics(ctx, artist, title)
	if err != nil {
		return "", err
	}
	text = Clean(text)
	if text == "" {
		return "", providers.NotFound(c.Name())
	}
	return text, nil
}

// NewEngine builds an engine over ps, tried in order.
func NewEngine(ps []providers.Provider, cfg providers.ChainConfig) *Engine {
	wrapped := make([]providers.Provider, len(ps))
	for i, p := range ps {
		wrapped[i] = cleaned{p}
	}
	return &Engine{chain: providers.NewChain(wrapped, cfg)}
}

// Resolve returns cleaned lyrics for the song. Errors are
// *providers.NotFoundError or *providers.ResolutionError.
func (e *Engine) Resolve(ctx context.Context, artist, title string) (string, error) {
	res, err := e.ResolveWithSource(ctx, artist, title)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ResolveWithSource is Resolve that also reports which provider answered.
func (e *Engine) ResolveWithSource(ctx context.Context, artist, title string) (*providers.Result, error) {
	cleanArtist, cleanTitle := Normalize(artist, title)
	log.Infof("%s Resolving %s - %s", logcolors.LogLyrics, cleanArtist, cleanTitle)
	return e.chain.Resolve(ctx, cleanArtist, cleanTitle)
}

// Providers returns the provider names in the order they are tried.
func (e *Engine) Providers() []string {
	return e.chain.Names()
}

// Breakers returns the state of each provider's circuit breaker.
func (e *Engine) Breakers() []circuitbreaker.Snapshot {
	return e.chain.Breakers()
}

// ResetBreakers closes every provider's circuit breaker.
func (e *Engine) ResetBreakers() {
	e.chain.ResetBreakers()
}
