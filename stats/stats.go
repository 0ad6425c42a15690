// Package stats keeps in-process counters exposed by the /stats endpoint.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Provider outcomes recorded by the lyrics chain.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
)

// Lyrics lookup sources.
const (
	SourceSaved    = "saved"
	SourceCache    = "cache"
	SourceProvider = "provider"
)

// Stats holds all server statistics with atomic counters
type Stats struct {
	// Server info
	StartTime time.Time

	// Request counters
	TotalRequests       atomic.Int64
	LyricsRequests      atomic.Int64
	TranslationRequests atomic.Int64
	VideoRequests       atomic.Int64
	JournalRequests     atomic.Int64
	OtherRequests       atomic.Int64

	// Where lyrics lookups were answered from
	SavedHits    atomic.Int64
	CacheHits    atomic.Int64
	ProviderHits atomic.Int64
	QuotaDenied  atomic.Int64

	// Translation and video caches
	TranslationCacheHits   atomic.Int64
	TranslationCacheMisses atomic.Int64
	TranslationChunks      atomic.Int64
	VideoCacheHits         atomic.Int64
	VideoCacheMisses       atomic.Int64

	RateLimitExceeded atomic.Int64

	// Response status codes
	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64

	// Response time tracking (in microseconds for precision)
	totalResponseTime atomic.Int64
	responseCount     atomic.Int64
	minResponseTime   atomic.Int64
	maxResponseTime   atomic.Int64

	// provider name -> outcome -> *atomic.Int64
	providers sync.Map
}

const noResponseYet = int64(^uint64(0) >> 1)

// New returns zeroed stats starting now.
func New() *Stats {
	s := &Stats{StartTime: time.Now()}
	s.minResponseTime.Store(noResponseYet)
	return s
}

var global = New()

// Get returns the global stats instance
func Get() *Stats {
	return global
}

// RecordRequest records a request by route group.
func (s *Stats) RecordRequest(group string) {
	s.TotalRequests.Add(1)
	switch group {
	case "lyrics":
		s.LyricsRequests.Add(1)
	case "translate":
		s.TranslationRequests.Add(1)
	case "video":
		s.VideoRequests.Add(1)
	case "journal":
		s.JournalRequests.Add(1)
	default:
		s.OtherRequests.Add(1)
	}
}

// RecordLookupSource records where a lyrics lookup was answered from.
func (s *Stats) RecordLookupSource(source string) {
	switch source {
	case SourceSaved:
		s.SavedHits.Add(1)
	case SourceCache:
		s.CacheHits.Add(1)
	case SourceProvider:
		s.ProviderHits.Add(1)
	}
}

// RecordQuotaDenied records a lookup refused because the daily limit was
// reached.
func (s *Stats) RecordQuotaDenied() {
	s.QuotaDenied.Add(1)
}

// RecordTranslationCache records a translation cache hit or miss.
func (s *Stats) RecordTranslationCache(hit bool) {
	if hit {
		s.TranslationCacheHits.Add(1)
	} else {
		s.TranslationCacheMisses.Add(1)
	}
}

// RecordTranslationChunk records one chunk sent to the translation service.
func (s *Stats) RecordTranslationChunk() {
	s.TranslationChunks.Add(1)
}

// RecordVideoCache records a video cache hit or miss.
func (s *Stats) RecordVideoCache(hit bool) {
	if hit {
		s.VideoCacheHits.Add(1)
	} else {
		s.VideoCacheMisses.Add(1)
	}
}

// RecordRateLimitExceeded records a request rejected with 429.
func (s *Stats) RecordRateLimitExceeded() {
	s.RateLimitExceeded.Add(1)
}

// RecordProviderResult records the outcome of one provider call.
func (s *Stats) RecordProviderResult(provider, outcome string) {
	outcomes, _ := s.providers.LoadOrStore(provider, &sync.Map{})
	counter, _ := outcomes.(*sync.Map).LoadOrStore(outcome, new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
}

// ProviderResults returns provider -> outcome -> count.
func (s *Stats) ProviderResults() map[string]map[string]int64 {
	out := make(map[string]map[string]int64)
	s.providers.Range(func(name, outcomes interface{}) bool {
		counts := make(map[string]int64)
		outcomes.(*sync.Map).Range(func(outcome, counter interface{}) bool {
			counts[outcome.(string)] = counter.(*atomic.Int64).Load()
			return true
		})
		out[name.(string)] = counts
		return true
	})
	return out
}

// RecordStatusCode records a response status code
func (s *Stats) RecordStatusCode(code int) {
	switch {
	case code >= 200 && code < 300:
		s.Status2xx.Add(1)
	case code >= 400 && code < 500:
		s.Status4xx.Add(1)
	case code >= 500:
		s.Status5xx.Add(1)
	}
}

// RecordResponseTime records a response time
func (s *Stats) RecordResponseTime(duration time.Duration) {
	us := duration.Microseconds()

	s.totalResponseTime.Add(us)
	s.responseCount.Add(1)

	for {
		current := s.minResponseTime.Load()
		if us >= current || s.minResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
	for {
		current := s.maxResponseTime.Load()
		if us <= current || s.maxResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
}

// Uptime returns the server uptime
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// FreeLookupRate returns the percentage of lyrics lookups answered without
// spending a search credit.
func (s *Stats) FreeLookupRate() float64 {
	free := s.SavedHits.Load() + s.CacheHits.Load()
	total := free + s.ProviderHits.Load()
	if total == 0 {
		return 0
	}
	return float64(free) / float64(total) * 100
}

// AvgResponseTime returns the average response time
func (s *Stats) AvgResponseTime() time.Duration {
	count := s.responseCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(s.totalResponseTime.Load()/count) * time.Microsecond
}

// MinResponseTime returns the minimum response time
func (s *Stats) MinResponseTime() time.Duration {
	min := s.minResponseTime.Load()
	if min == noResponseYet {
		return 0
	}
	return time.Duration(min) * time.Microsecond
}

// MaxResponseTime returns the maximum response time
func (s *Stats) MaxResponseTime() time.Duration {
	return time.Duration(s.maxResponseTime.Load()) * time.Microsecond
}

// Snapshot returns a point-in-time snapshot of all stats
func (s *Stats) Snapshot() map[string]interface{} {
	uptime := s.Uptime()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"start_time":     s.StartTime.Format(time.RFC3339),
			"uptime":         uptime.String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
		"requests": map[string]interface{}{
			"total":     s.TotalRequests.Load(),
			"lyrics":    s.LyricsRequests.Load(),
			"translate": s.TranslationRequests.Load(),
			"video":     s.VideoRequests.Load(),
			"journal":   s.JournalRequests.Load(),
			"other":     s.OtherRequests.Load(),
		},
		"lookups": map[string]interface{}{
			"saved":        s.SavedHits.Load(),
			"cache":        s.CacheHits.Load(),
			"provider":     s.ProviderHits.Load(),
			"quota_denied": s.QuotaDenied.Load(),
			"free_rate":    s.FreeLookupRate(),
		},
		"providers": s.ProviderResults(),
		"translation": map[string]interface{}{
			"cache_hits":   s.TranslationCacheHits.Load(),
			"cache_misses": s.TranslationCacheMisses.Load(),
			"chunks":       s.TranslationChunks.Load(),
		},
		"video": map[string]interface{}{
			"cache_hits":   s.VideoCacheHits.Load(),
			"cache_misses": s.VideoCacheMisses.Load(),
		},
		"rate_limiting": map[string]interface{}{
			"exceeded": s.RateLimitExceeded.Load(),
		},
		"responses": map[string]interface{}{
			"2xx": s.Status2xx.Load(),
			"4xx": s.Status4xx.Load(),
			"5xx": s.Status5xx.Load(),
		},
		"response_times": map[string]interface{}{
			"avg": s.AvgResponseTime().String(),
			"min": s.MinResponseTime().String(),
			"max": s.MaxResponseTime().String(),
		},
	}
}
