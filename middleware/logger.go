package middleware

import (
	"net/http"
	"strings"
	"time"

	"rifflingua-go/logcolors"
	"rifflingua-go/stats"

	log "github.com/sirupsen/logrus"
)

// ResponseRecorder captures the status code and body size of a response.
type ResponseRecorder struct {
	http.ResponseWriter
	StatusCode int
	BodySize   int
}

// NewResponseRecorder wraps w. The status defaults to 200 until
// WriteHeader is called.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, StatusCode: http.StatusOK}
}

func (r *ResponseRecorder) WriteHeader(statusCode int) {
	r.StatusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *ResponseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.BodySize += n
	return n, err
}

func getStatusColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return logcolors.Green
	case statusCode >= 300 && statusCode < 400:
		return logcolors.Cyan
	case statusCode >= 400 && statusCode < 500:
		return logcolors.Yellow
	case statusCode >= 500:
		return logcolors.Red
	default:
		return logcolors.Reset
	}
}

// requestGroup maps a path to the stats route group.
func requestGroup(path string) string {
	switch {
	case strings.HasPrefix(path, "/lyrics"), strings.HasPrefix(path, "/today"), strings.HasPrefix(path, "/songs"):
		return "lyrics"
	case strings.HasPrefix(path, "/translate"):
		return "translate"
	case strings.HasPrefix(path, "/video"):
		return "video"
	case strings.HasPrefix(path, "/journal"):
		return "journal"
	default:
		return "other"
	}
}

// LoggingMiddleware logs every request with a colored status and records
// request stats.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewResponseRecorder(w)

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		s := stats.Get()
		s.RecordRequest(requestGroup(r.URL.Path))
		s.RecordStatusCode(rec.StatusCode)
		s.RecordResponseTime(duration)

		log.Infof("%s %s %s %s%d%s %dB %v",
			logcolors.LogHTTP,
			r.Method,
			r.URL.RequestURI(),
			getStatusColor(rec.StatusCode), rec.StatusCode, logcolors.Reset,
			rec.BodySize,
			duration.Round(time.Microsecond),
		)
	})
}
