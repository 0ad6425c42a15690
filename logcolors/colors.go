package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

// Cache-related log prefixes
const (
	LogCacheInit        = Blue + "[Cache:Init]" + Reset
	LogCache            = Blue + "[Cache]" + Reset
	LogCacheBackup      = Blue + "[Cache:Backup]" + Reset
	LogCacheClear       = Blue + "[Cache:Clear]" + Reset
	LogCacheRestore     = Blue + "[Cache:Restore]" + Reset
	LogCacheLyrics      = Green + "[Cache:Lyrics]" + Reset
	LogCacheVideo       = Green + "[Cache:Video]" + Reset
	LogCacheTranslation = Green + "[Cache:Translation]" + Reset
)

// Local store log prefixes
const (
	LogQuota   = Purple + "[Quota]" + Reset
	LogSongs   = Cyan + "[SavedSongs]" + Reset
	LogJournal = Cyan + "[Journal]" + Reset
)

// Server/Init log prefixes
const (
	LogServer    = Green + "[Server]" + Reset
	LogConfig    = Cyan + "[Config]" + Reset
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogHTTP      = Cyan + "[HTTP]" + Reset
)

// Provider service log prefixes
const (
	LogSearch      = Blue + "[Search]" + Reset
	LogMatch       = Green + "[Match]" + Reset
	LogSuccess     = Green + "[Success]" + Reset
	LogLyrics      = Blue + "[Lyrics]" + Reset
	LogScrape      = Cyan + "[Scrape]" + Reset
	LogFallback    = Cyan + "[Fallback]" + Reset
	LogNotFound    = Yellow + "[Not Found]" + Reset
	LogVideo       = Blue + "[Video]" + Reset
	LogTranslation = Blue + "[Translation]" + Reset
	LogWarning     = Red + "[Warning]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}

// Provider returns a colored provider name prefix, e.g. "[Provider:genius]"
func Provider(name string) string {
	return Cyan + "[Provider:" + name + "]" + Reset
}
