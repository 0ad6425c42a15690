// Package translation translates song lyrics chunk by chunk and caches the
// joined result.
package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rifflingua-go/cache"
	"rifflingua-go/logcolors"
	"rifflingua-go/stats"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "tr"
	DefaultChunkDelay = 300 * time.Millisecond
)

// ErrTranslationDisabled is returned when translation is switched off.
var ErrTranslationDisabled = errors.New("translation is disabled")

// Config configures an Engine.
type Config struct {
	Enabled       bool
	ChunkSize     int
	ChunkDelay    time.Duration
	DefaultSource string
	DefaultTarget string
}

// Engine translates text through a Translator.
type Engine struct {
	store      cache.Store
	translator Translator
	limiter    *rate.Limiter
	cfg        Config
}

// NewEngine creates an engine. Requests to the translator are spaced at
// least cfg.ChunkDelay apart across all callers.
func NewEngine(store cache.Store, translator Translator, cfg Config) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkDelay < 0 {
		cfg.ChunkDelay = DefaultChunkDelay
	}
	if cfg.DefaultSource == "" {
		cfg.DefaultSource = DefaultSourceLang
	}
	if cfg.DefaultTarget == "" {
		cfg.DefaultTarget = DefaultTargetLang
	}

	limit := rate.Inf
	if cfg.ChunkDelay > 0 {
		limit = rate.Every(cfg.ChunkDelay)
	}

	return &Engine{
		store:      store,
		translator: translator,
		limiter:    rate.NewLimiter(limit, 1),
		cfg:        cfg,
	}
}

// Enabled reports whether translation is switched on.
func (e *Engine) Enabled() bool {
	return e.cfg.Enabled
}

// Translate returns text translated into targetLang. Empty language codes
// fall back to the configured defaults.
func (e *Engine) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if !e.cfg.Enabled {
		return "", ErrTranslationDisabled
	}
	if targetLang = strings.TrimSpace(targetLang); targetLang == "" {
		targetLang = e.cfg.DefaultTarget
	}
	if sourceLang = strings.TrimSpace(sourceLang); sourceLang == "" {
		sourceLang = e.cfg.DefaultSource
	}

	key := cache.TextKey(targetLang, text)
	cached, found, err := e.store.Lookup(key)
	if err != nil {
		log.Warnf("%s Failed to read cached translation: %v", logcolors.LogCacheTranslation, err)
	}
	if found {
		stats.Get().RecordTranslationCache(true)
		log.Debugf("%s Cache hit (%s)", logcolors.LogCacheTranslation, targetLang)
		return cached, nil
	}
	stats.Get().RecordTranslationCache(false)

	chunks := SplitText(text, e.cfg.ChunkSize)
	log.Infof("%s Translating %d chunk(s) %s -> %s", logcolors.LogTranslation, len(chunks), sourceLang, targetLang)

	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			translated = append(translated, chunk)
			continue
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("translation cancelled at chunk %d/%d: %w", i+1, len(chunks), err)
		}

		out, err := e.translator.TranslateChunk(ctx, chunk, sourceLang, targetLang)
		stats.Get().RecordTranslationChunk()
		if err != nil {
			log.Errorf("%s Chunk %d/%d failed: %v", logcolors.LogTranslation, i+1, len(chunks), err)
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		translated = append(translated, out)
	}

	result := strings.Join(translated, "\n\n")
	if err := e.store.Set(key, result); err != nil {
		log.Warnf("%s Failed to cache translation: %v", logcolors.LogCacheTranslation, err)
	}
	return result, nil
}

// ClearCache removes every cached translation.
func (e *Engine) ClearCache() (int, error) {
	n, err := e.store.Clear()
	if err != nil {
		return 0, err
	}
	log.Infof("%s Removed %d cached translations", logcolors.LogCacheTranslation, n)
	return n, nil
}
