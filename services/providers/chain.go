package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	"rifflingua-go/circuitbreaker"
	"rifflingua-go/logcolors"
	"rifflingua-go/stats"

	log "github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 15 * time.Second

// ChainConfig configures a Chain.
type ChainConfig struct {
	Timeout          time.Duration // per provider call
	BreakerThreshold int
	BreakerCooldown  time.Duration
	Clock            func() time.Time
}

// Result is the lyrics text together with the provider that produced it.
type Result struct {
	Text     string
	Provider string
}

type link struct {
	provider Provider
	breaker  *circuitbreaker.CircuitBreaker
}

// Chain tries providers in order; the first non-empty answer wins.
// Reordering providers is a matter of building the chain from a different
// slice.
type Chain struct {
	links   []link
	timeout time.Duration
}

// NewChain builds a chain over providers, each behind its own circuit
// breaker.
func NewChain(providers []Provider, cfg ChainConfig) *Chain {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	links := make([]link, 0, len(providers))
	for _, p := range providers {
		links = append(links, link{
			provider: p,
			breaker: circuitbreaker.New(circuitbreaker.Config{
				Name:      p.Name(),
				Threshold: cfg.BreakerThreshold,
				Cooldown:  cfg.BreakerCooldown,
				Clock:     cfg.Clock,
			}),
		})
	}
	return &Chain{links: links, timeout: cfg.Timeout}
}

// Names returns the provider names in chain order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.links))
	for i, l := range c.links {
		names[i] = l.provider.Name()
	}
	return names
}

// Breakers returns a snapshot of every provider's circuit breaker.
func (c *Chain) Breakers() []circuitbreaker.Snapshot {
	snaps := make([]circuitbreaker.Snapshot, len(c.links))
	for i, l := range c.links {
		snaps[i] = l.breaker.Snapshot()
	}
	return snaps
}

// ResetBreakers closes every circuit breaker.
func (c *Chain) ResetBreakers() {
	for _, l := range c.links {
		l.breaker.Reset()
	}
}

// Resolve asks each provider in turn. It returns *NotFoundError when no
// provider had lyrics and a fallback said so (or a primary did and no
// fallback was asked), and *ResolutionError when every fallback failed
// otherwise.
func (c *Chain) Resolve(ctx context.Context, artist, title string) (*Result, error) {
	if len(c.links) == 0 {
		return nil, &ResolutionError{Last: ErrNoProviders}
	}

	var (
		lastErr       error
		sawMiss       bool
		primaryMiss   bool
		fallbackAsked bool
		attempted     []string
	)

	for i, l := range c.links {
		name := l.provider.Name()
		if i > 0 {
			log.Infof("%s Trying %s for %s - %s", logcolors.LogFallback, name, artist, title)
		}
		attempted = append(attempted, name)
		primary := isPrimary(l.provider)
		if !primary {
			fallbackAsked = true
		}

		text, err := c.call(ctx, l, artist, title)
		if err == nil && strings.TrimSpace(text) != "" {
			stats.Get().RecordProviderResult(name, stats.OutcomeSuccess)
			log.Infof("%s %s Lyrics found for %s - %s", logcolors.LogSuccess, logcolors.Provider(name), artist, title)
			return &Result{Text: text, Provider: name}, nil
		}
		if err == nil {
			err = NotFound(name)
		}

		switch {
		case IsNotFound(err):
			stats.Get().RecordProviderResult(name, stats.OutcomeNotFound)
			log.Infof("%s %s No lyrics for %s - %s", logcolors.LogNotFound, logcolors.Provider(name), artist, title)
			if primary {
				primaryMiss = true
			} else {
				sawMiss = true
			}
		case errors.Is(err, circuitbreaker.ErrCircuitOpen):
			stats.Get().RecordProviderResult(name, stats.OutcomeSkipped)
			log.Warnf("%s %s Skipped, circuit open", logcolors.LogWarning, logcolors.Provider(name))
			err = NewProviderError(name, "circuit open", err)
		default:
			stats.Get().RecordProviderResult(name, stats.OutcomeFailure)
			log.Warnf("%s %s Failed: %v", logcolors.LogWarning, logcolors.Provider(name), err)
		}
		if !primary || !IsNotFound(err) {
			lastErr = err
		}

		if ctx.Err() != nil {
			break
		}
	}

	if sawMiss || (primaryMiss && !fallbackAsked) {
		return nil, &NotFoundError{Artist: artist, Title: title}
	}
	return nil, &ResolutionError{Attempted: attempted, Last: lastErr}
}

func (c *Chain) call(ctx context.Context, l link, artist, title string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var text string
	err := l.breaker.Execute(func() error {
		var err error
		text, err = l.provider.FetchLyrics(callCtx, artist, title)
		return err
	}, func(err error) bool {
		return !IsNotFound(err)
	})
	return text, err
}
