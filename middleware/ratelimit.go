package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"rifflingua-go/logcolors"
	"rifflingua-go/stats"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket is kept after its last request.
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than idleTTL are dropped.
type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a limiter allowing r requests per second per IP
// with the given burst.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:   make(map[string]*visitor),
		rate:  r,
		burst: burst,
		now:   time.Now,
	}
}

// Burst returns the per-IP burst size.
func (i *IPRateLimiter) Burst() int {
	return i.burst
}

// GetLimiter returns the bucket for ip, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	i.sweep(now)

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.rate, i.burst)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops idle buckets, at most once per idleTTL. Callers hold mu.
func (i *IPRateLimiter) sweep(now time.Time) {
	if now.Sub(i.lastSweep) < idleTTL {
		return
	}
	i.lastSweep = now
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(i.ips, ip)
		}
	}
}

// Tokens returns the whole tokens left for ip.
func (i *IPRateLimiter) Tokens(ip string) int {
	return int(math.Max(0, math.Floor(i.GetLimiter(ip).Tokens())))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with 429 and sets the
// X-RateLimit-* headers on every response.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		limiter := i.GetLimiter(ip)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", i.burst))
		if !limiter.Allow() {
			stats.Get().RecordRateLimitExceeded()
			log.Warnf("%s IP %s exceeded the rate limit", logcolors.LogRateLimit, ip)
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", i.Tokens(ip)))
		next.ServeHTTP(w, r)
	})
}
