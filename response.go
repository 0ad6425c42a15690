package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rifflingua-go/journal"
	"rifflingua-go/services/providers"
	"rifflingua-go/services/search"
	"rifflingua-go/services/translation"
	"rifflingua-go/songs"
)

// APIResponse sets the standard headers and writes JSON bodies.
type APIResponse struct {
	w        http.ResponseWriter
	r        *http.Request
	source   string
	provider string
}

// Respond creates a response helper for the request.
func Respond(w http.ResponseWriter, r *http.Request) *APIResponse {
	return &APIResponse{w: w, r: r}
}

// SetSource sets the X-Lyrics-Source header value (saved, cache, provider).
func (a *APIResponse) SetSource(source string) *APIResponse {
	a.source = source
	return a
}

// SetProvider sets the X-Provider header value
func (a *APIResponse) SetProvider(provider string) *APIResponse {
	a.provider = provider
	return a
}

func (a *APIResponse) writeHeaders() {
	a.w.Header().Set("Content-Type", "application/json")
	if a.source != "" {
		a.w.Header().Set("X-Lyrics-Source", a.source)
	}
	if a.provider != "" {
		a.w.Header().Set("X-Provider", a.provider)
	}
}

// JSON writes headers and encodes data as JSON (200 OK)
func (a *APIResponse) JSON(data interface{}) error {
	return a.Status(http.StatusOK, data)
}

// Status writes headers, the status code and data as JSON.
func (a *APIResponse) Status(statusCode int, data interface{}) error {
	a.writeHeaders()
	a.w.WriteHeader(statusCode)
	return json.NewEncoder(a.w).Encode(data)
}

// Error writes {"error": ..., "message": ...} with the status matching err.
// The message is localized from ?lang= or Accept-Language.
func (a *APIResponse) Error(err error) error {
	return a.Status(statusForError(err), map[string]interface{}{
		"error":   err.Error(),
		"message": search.UserMessage(err, requestLang(a.r)),
	})
}

// BadRequest writes a 400 with a plain message.
func (a *APIResponse) BadRequest(message string) error {
	return a.Status(http.StatusBadRequest, map[string]interface{}{"error": message})
}

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	var (
		resolutionErr  *providers.ResolutionError
		translationErr *translation.TranslationError
	)
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrInvalidEntry):
		return http.StatusUnprocessableEntity
	case providers.IsNotFound(err), errors.Is(err, journal.ErrNotFound), errors.Is(err, songs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, search.ErrQuotaExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, translation.ErrTranslationDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &resolutionErr), errors.As(err, &translationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requestLang picks "tr" or "en" for user-facing messages.
func requestLang(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.HasPrefix(lang, "tr") {
		return "tr"
	}
	return "en"
}
