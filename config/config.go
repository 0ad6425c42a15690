package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		DataDir  string `envconfig:"DATA_DIR" default:""`
		Port     string `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

		RateLimitPerSecond  int      `envconfig:"RATE_LIMIT_PER_SECOND" default:"10"`
		RateLimitBurstLimit int      `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"20"`
		CORSAllowedOrigins  []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:8081,http://localhost:19006"`

		RequestTimeoutMs  int `envconfig:"REQUEST_TIMEOUT_MS" default:"20000"`
		ProviderTimeoutMs int `envconfig:"PROVIDER_TIMEOUT_MS" default:"15000"`
		DailySearchLimit  int `envconfig:"DAILY_SEARCH_LIMIT" default:"2"`

		// Lyrics providers
		GeniusAccessToken    string   `envconfig:"GENIUS_ACCESS_TOKEN" default:""`
		GeniusBaseURL        string   `envconfig:"GENIUS_BASE_URL" default:"https://api.genius.com"`
		LyricsOVHBaseURL     string   `envconfig:"LYRICS_OVH_BASE_URL" default:"https://api.lyrics.ovh/v1"`
		SomeRandomAPIBaseURL string   `envconfig:"SOME_RANDOM_API_BASE_URL" default:"https://some-random-api.com/lyrics"`
		LRCLIBBaseURL        string   `envconfig:"LRCLIB_BASE_URL" default:"https://lrclib.net/api/get"`
		FallbackProviders    []string `envconfig:"FALLBACK_PROVIDERS" default:"lyricsovh,somerandomapi,lrclib"`

		// Video provider
		YouTubeAPIKey     string `envconfig:"YOUTUBE_API_KEY" default:""`
		YouTubeBaseURL    string `envconfig:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com/youtube/v3"`
		YouTubeCategoryID string `envconfig:"YOUTUBE_CATEGORY_ID" default:"10"`

		// Translation provider
		TranslationBaseURL      string `envconfig:"TRANSLATION_BASE_URL" default:"https://api.mymemory.translated.net"`
		TranslationEnabled      bool   `envconfig:"TRANSLATION_ENABLED" default:"true"`
		TranslationChunkSize    int    `envconfig:"TRANSLATION_CHUNK_SIZE" default:"450"`
		TranslationChunkDelayMs int    `envconfig:"TRANSLATION_CHUNK_DELAY_MS" default:"300"`
		DefaultTargetLang       string `envconfig:"DEFAULT_TARGET_LANG" default:"tr"`
		DefaultSourceLang       string `envconfig:"DEFAULT_SOURCE_LANG" default:"en"`

		CircuitBreakerThreshold    int `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`        // Consecutive failures before a provider is skipped
		CircuitBreakerCooldownSecs int `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"` // Seconds before a skipped provider is retried
	}

	FeatureFlags struct {
		CacheCompression bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}

// GeniusEnabled reports whether the primary lyrics provider has a credential.
func (c Config) GeniusEnabled() bool {
	return strings.TrimSpace(c.Configuration.GeniusAccessToken) != ""
}

// YouTubeEnabled reports whether video matching has a credential.
func (c Config) YouTubeEnabled() bool {
	return strings.TrimSpace(c.Configuration.YouTubeAPIKey) != ""
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Configuration.RequestTimeoutMs) * time.Millisecond
}

func (c Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Configuration.ProviderTimeoutMs) * time.Millisecond
}

func (c Config) TranslationChunkDelay() time.Duration {
	return time.Duration(c.Configuration.TranslationChunkDelayMs) * time.Millisecond
}

func (c Config) CircuitBreakerCooldown() time.Duration {
	return time.Duration(c.Configuration.CircuitBreakerCooldownSecs) * time.Second
}

// ResolveDataDir returns DATA_DIR when set, otherwise the XDG data home
// location, falling back to the user's home directory.
func (c Config) ResolveDataDir() string {
	if dir := strings.TrimSpace(c.Configuration.DataDir); dir != "" {
		return dir
	}

	xdg.Reload()
	dataHome := xdg.DataHome
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "rifflingua")
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "rifflingua")
}

// CachePath is the bbolt file holding every key-value namespace.
func (c Config) CachePath() string {
	return filepath.Join(c.ResolveDataDir(), "cache.db")
}

// BackupDir holds cache backups.
func (c Config) BackupDir() string {
	return filepath.Join(c.ResolveDataDir(), "backups")
}

// JournalPath is the SQLite file for journal entries.
func (c Config) JournalPath() string {
	return filepath.Join(c.ResolveDataDir(), "journal.db")
}
