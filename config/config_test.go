package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// unsetEnv clears the given keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestConfigDefaultValues(t *testing.T) {
	unsetEnv(t,
		"DAILY_SEARCH_LIMIT",
		"PROVIDER_TIMEOUT_MS",
		"REQUEST_TIMEOUT_MS",
		"TRANSLATION_CHUNK_SIZE",
		"TRANSLATION_CHUNK_DELAY_MS",
		"TRANSLATION_ENABLED",
		"FALLBACK_PROVIDERS",
		"YOUTUBE_CATEGORY_ID",
		"DEFAULT_TARGET_LANG",
		"DEFAULT_SOURCE_LANG",
		"FF_CACHE_COMPRESSION",
	)

	cfg, err := load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"DailySearchLimit default", cfg.Configuration.DailySearchLimit, 2},
		{"ProviderTimeoutMs default", cfg.Configuration.ProviderTimeoutMs, 15000},
		{"RequestTimeoutMs default", cfg.Configuration.RequestTimeoutMs, 20000},
		{"TranslationChunkSize default", cfg.Configuration.TranslationChunkSize, 450},
		{"TranslationChunkDelayMs default", cfg.Configuration.TranslationChunkDelayMs, 300},
		{"TranslationEnabled default", cfg.Configuration.TranslationEnabled, true},
		{"FallbackProviders default", cfg.Configuration.FallbackProviders, []string{"lyricsovh", "somerandomapi", "lrclib"}},
		{"YouTubeCategoryID default", cfg.Configuration.YouTubeCategoryID, "10"},
		{"DefaultTargetLang default", cfg.Configuration.DefaultTargetLang, "tr"},
		{"DefaultSourceLang default", cfg.Configuration.DefaultSourceLang, "en"},
		{"CacheCompression default", cfg.FeatureFlags.CacheCompression, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("got %v, expected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("DAILY_SEARCH_LIMIT", "5")
	t.Setenv("FALLBACK_PROVIDERS", "lrclib,lyricsovh")
	t.Setenv("TRANSLATION_ENABLED", "false")
	t.Setenv("PROVIDER_TIMEOUT_MS", "1500")

	cfg, err := load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Configuration.DailySearchLimit != 5 {
		t.Errorf("DailySearchLimit = %d, expected 5", cfg.Configuration.DailySearchLimit)
	}
	if !reflect.DeepEqual(cfg.Configuration.FallbackProviders, []string{"lrclib", "lyricsovh"}) {
		t.Errorf("FallbackProviders = %v", cfg.Configuration.FallbackProviders)
	}
	if cfg.Configuration.TranslationEnabled {
		t.Error("Expected TranslationEnabled to be false")
	}
	if cfg.ProviderTimeout() != 1500*time.Millisecond {
		t.Errorf("ProviderTimeout() = %v, expected 1.5s", cfg.ProviderTimeout())
	}
}

func TestProviderEnabledFlags(t *testing.T) {
	tests := []struct {
		name    string
		genius  string
		youtube string
		wantG   bool
		wantY   bool
	}{
		{"no credentials", "", "", false, false},
		{"genius only", "token", "", true, false},
		{"youtube only", "", "key", false, true},
		{"whitespace is not a credential", "   ", " ", false, false},
		{"both", "token", "key", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.Configuration.GeniusAccessToken = tt.genius
			cfg.Configuration.YouTubeAPIKey = tt.youtube

			if got := cfg.GeniusEnabled(); got != tt.wantG {
				t.Errorf("GeniusEnabled() = %v, expected %v", got, tt.wantG)
			}
			if got := cfg.YouTubeEnabled(); got != tt.wantY {
				t.Errorf("YouTubeEnabled() = %v, expected %v", got, tt.wantY)
			}
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	t.Run("explicit DATA_DIR wins", func(t *testing.T) {
		dir := t.TempDir()
		var cfg Config
		cfg.Configuration.DataDir = dir

		if got := cfg.ResolveDataDir(); got != dir {
			t.Errorf("ResolveDataDir() = %q, expected %q", got, dir)
		}
		if got := cfg.CachePath(); got != filepath.Join(dir, "cache.db") {
			t.Errorf("CachePath() = %q", got)
		}
		if got := cfg.JournalPath(); got != filepath.Join(dir, "journal.db") {
			t.Errorf("JournalPath() = %q", got)
		}
	})

	t.Run("XDG data home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_DATA_HOME", home)

		var cfg Config
		if got := cfg.ResolveDataDir(); got != filepath.Join(home, "rifflingua") {
			t.Errorf("ResolveDataDir() = %q, expected under %q", got, home)
		}
	})
}

func TestGet(t *testing.T) {
	cfg := Get()

	if cfg.Configuration.DailySearchLimit == 0 && cfg.Configuration.TranslationChunkSize == 0 {
		t.Error("Expected Get() to return initialized config, got zero values")
	}
}

func TestMustLoad(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("mustLoad() panicked: %v", r)
		}
	}()

	cfg := mustLoad()
	if cfg.Configuration.DailySearchLimit <= 0 {
		t.Error("Expected mustLoad to return valid config with positive DailySearchLimit")
	}
}

func TestFeatureFlagCacheCompression(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Cache compression enabled (true)", "true", true},
		{"Cache compression disabled (false)", "false", false},
		{"Cache compression enabled (1)", "1", true},
		{"Cache compression disabled (0)", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FF_CACHE_COMPRESSION", tt.envValue)

			cfg, err := load()
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}

			if cfg.FeatureFlags.CacheCompression != tt.expected {
				t.Errorf("Expected CacheCompression %v, got %v", tt.expected, cfg.FeatureFlags.CacheCompression)
			}
		})
	}
}
