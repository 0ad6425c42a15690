// Package providers defines the lyrics provider contract and the ordered
// fallback chain that tries providers until one returns lyrics.
package providers

import (
	"context"
	"sort"
	"sync"
)

// Provider defines the interface that all lyrics providers must implement
type Provider interface {
	// Name returns the provider's identifier (e.g., "genius", "lyricsovh")
	Name() string

	// FetchLyrics returns plain-text lyrics for the song. A provider that
	// answered but has no lyrics returns an error matching ErrNotFound.
	FetchLyrics(ctx context.Context, artist, title string) (string, error)
}

// Primary is implemented by a provider consulted ahead of the fallbacks.
// Its "no lyrics" answer decides the outcome only when no fallback was
// asked.
type Primary interface {
	Primary() bool
}

func isPrimary(p Provider) bool {
	pp, ok := p.(Primary)
	return ok && pp.Primary()
}

// Registry holds the providers available to build a chain from.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry, replacing any provider with the
// same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ordered returns the registered providers named in names, in that order.
// Duplicates are dropped; names with no registered provider are returned
// separately so the caller can report them.
func (r *Registry) Ordered(names []string) (ordered []Provider, unknown []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		p, ok := r.providers[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		ordered = append(ordered, p)
	}
	return ordered, unknown
}
