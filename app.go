package main

import (
	"fmt"
	"strings"
	"time"

	"rifflingua-go/cache"
	"rifflingua-go/catalog"
	"rifflingua-go/config"
	"rifflingua-go/journal"
	"rifflingua-go/logcolors"
	"rifflingua-go/quota"
	"rifflingua-go/services/lyrics"
	"rifflingua-go/services/providers"
	"rifflingua-go/services/providers/genius"
	"rifflingua-go/services/providers/rest"
	"rifflingua-go/services/search"
	"rifflingua-go/services/translation"
	"rifflingua-go/services/video"
	"rifflingua-go/songs"

	log "github.com/sirupsen/logrus"
)

var conf = config.Get()

// App holds every component, opened once and shared by the HTTP server and
// the CLI commands.
type App struct {
	conf        config.Config
	cache       *cache.PersistentCache
	journal     *journal.Store
	registry    *songs.Registry
	ledger      *quota.Ledger
	engine      *lyrics.Engine
	videos      *video.Service
	translator  *translation.Engine
	search      *search.Service
	catalog     *catalog.Catalog
	lyricsCache *cache.Namespace
	now         func() time.Time
}

// newApp opens the stores under the data directory and wires the services.
func newApp(c config.Config) (*App, error) {
	pc, err := cache.Open(c.CachePath(), c.BackupDir(), c.FeatureFlags.CacheCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	js, err := journal.Open(c.JournalPath())
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return assembleApp(c, pc, js, buildProviders(c)), nil
}

// assembleApp wires services over already opened stores.
func assembleApp(c config.Config, pc *cache.PersistentCache, js *journal.Store, ps []providers.Provider) *App {
	a := &App{
		conf:        c,
		cache:       pc,
		journal:     js,
		catalog:     catalog.Default(),
		lyricsCache: pc.Namespace(cache.NamespaceLyrics),
		now:         time.Now,
	}

	a.registry = songs.NewRegistry(pc.Namespace(cache.NamespaceSongs))
	a.ledger = quota.NewLedger(pc.Namespace(cache.NamespaceQuota),
		quota.WithLimit(c.Configuration.DailySearchLimit))

	a.engine = lyrics.NewEngine(ps, providers.ChainConfig{
		Timeout:          c.ProviderTimeout(),
		BreakerThreshold: c.Configuration.CircuitBreakerThreshold,
		BreakerCooldown:  c.CircuitBreakerCooldown(),
	})

	a.videos = video.NewService(pc.Namespace(cache.NamespaceVideo), video.Config{
		APIKey:     c.Configuration.YouTubeAPIKey,
		BaseURL:    c.Configuration.YouTubeBaseURL,
		CategoryID: c.Configuration.YouTubeCategoryID,
		Timeout:    c.RequestTimeout(),
	})

	a.translator = translation.NewEngine(
		pc.Namespace(cache.NamespaceTranslation),
		translation.NewMyMemoryClient(c.Configuration.TranslationBaseURL, c.RequestTimeout()),
		translation.Config{
			Enabled:       c.Configuration.TranslationEnabled,
			ChunkSize:     c.Configuration.TranslationChunkSize,
			ChunkDelay:    c.TranslationChunkDelay(),
			DefaultSource: c.Configuration.DefaultSourceLang,
			DefaultTarget: c.Configuration.DefaultTargetLang,
		},
	)

	a.search = search.NewService(a.registry, a.ledger, a.lyricsCache, a.engine, a.videos)
	return a
}

// buildProviders returns the lyrics providers in resolution order: Genius
// when a token is configured, then the fallbacks named in
// FALLBACK_PROVIDERS.
func buildProviders(c config.Config) []providers.Provider {
	registry := providers.NewRegistry()
	registry.Register(rest.New(rest.LyricsOVH, c.Configuration.LyricsOVHBaseURL))
	registry.Register(rest.New(rest.SomeRandomAPI, c.Configuration.SomeRandomAPIBaseURL))
	registry.Register(rest.New(rest.LRCLIB, c.Configuration.LRCLIBBaseURL))

	var ordered []providers.Provider
	if c.GeniusEnabled() {
		ordered = append(ordered, genius.NewProvider(c.Configuration.GeniusAccessToken, c.Configuration.GeniusBaseURL))
	} else {
		log.Infof("%s GENIUS_ACCESS_TOKEN not set, Genius disabled", logcolors.LogConfig)
	}

	names := make([]string, 0, len(c.Configuration.FallbackProviders))
	for _, name := range c.Configuration.FallbackProviders {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			names = append(names, name)
		}
	}
	fallbacks, unknown := registry.Ordered(names)
	for _, name := range unknown {
		log.Warnf("%s Unknown fallback provider %q ignored (known: %s)", logcolors.LogConfig, name, strings.Join(registry.List(), ", "))
	}

	return append(ordered, fallbacks...)
}

// Close releases the stores.
func (a *App) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = err
	}
	if err := a.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// namespace returns the cache view for name, or false if unknown.
func (a *App) namespace(name string) (*cache.Namespace, bool) {
	if !cache.IsNamespace(name) {
		return nil, false
	}
	return a.cache.Namespace(name), true
}
