package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"rifflingua-go/circuitbreaker"
	"rifflingua-go/logcolors"
	"rifflingua-go/services/search"
	"rifflingua-go/stats"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func songQuery(r *http.Request) (artist, title string) {
	q := r.URL.Query()
	return strings.TrimSpace(q.Get("artist")), strings.TrimSpace(q.Get("title"))
}

func (a *App) getLyrics(w http.ResponseWriter, r *http.Request) {
	artist, title := songQuery(r)
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := a.search.Lookup(r.Context(), artist, title, search.Options{ForceRefresh: force})
	if err != nil {
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).SetSource(res.Source).SetProvider(res.Provider).JSON(res)
}

func (a *App) getToday(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(a.catalog.Today(a.now()))
}

func (a *App) getTodayLyrics(w http.ResponseWriter, r *http.Request) {
	song := a.catalog.Today(a.now())

	res, err := a.search.Featured(r.Context(), song)
	if err != nil {
		log.Errorf("%s Song of the day %s failed: %v", logcolors.LogLyrics, song.ID, err)
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).SetSource(res.Source).SetProvider(res.Provider).JSON(TodayLyricsResponse{Song: song, Result: res})
}

func (a *App) getVideo(w http.ResponseWriter, r *http.Request) {
	artist, title := songQuery(r)
	if artist == "" || title == "" {
		Respond(w, r).BadRequest("artist and title are required")
		return
	}

	match := a.videos.FindVideo(r.Context(), artist, title)
	if match == nil {
		Respond(w, r).Status(http.StatusNotFound, map[string]interface{}{
			"error": "no video found",
		})
		return
	}
	Respond(w, r).JSON(match)
}

func (a *App) translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		Respond(w, r).BadRequest("invalid JSON body")
		return
	}

	target := firstNonEmpty(req.Target, a.conf.Configuration.DefaultTargetLang)
	source := firstNonEmpty(req.Source, a.conf.Configuration.DefaultSourceLang)

	out, err := a.translator.Translate(r.Context(), req.Text, target, source)
	if err != nil {
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(TranslateResponse{Translation: out, Target: target, Source: source})
}

func (a *App) getQuota(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(a.search.Stats())
}

func (a *App) resetQuota(w http.ResponseWriter, r *http.Request) {
	if err := a.ledger.Reset(); err != nil {
		log.Errorf("%s Failed to reset quota: %v", logcolors.LogQuota, err)
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(a.search.Stats())
}

func (a *App) listSongs(w http.ResponseWriter, r *http.Request) {
	list := a.registry.List()
	Respond(w, r).JSON(SongsResponse{Count: len(list), Songs: list})
}

func (a *App) clearSongs(w http.ResponseWriter, r *http.Request) {
	if err := a.registry.Clear(); err != nil {
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(map[string]interface{}{"message": "Saved songs cleared"})
}

func (a *App) deleteSong(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.registry.Remove(id); err != nil {
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(map[string]interface{}{"deleted": id})
}

func (a *App) getStats(w http.ResponseWriter, r *http.Request) {
	snapshot := stats.Get().Snapshot()

	numKeys, sizeInKB := a.cache.Stats()
	snapshot["cache_storage"] = map[string]interface{}{
		"keys":    numKeys,
		"size_kb": sizeInKB,
		"size_mb": float64(sizeInKB) / 1024,
	}
	snapshot["circuit_breakers"] = a.engine.Breakers()
	snapshot["quota"] = a.search.Stats()

	Respond(w, r).JSON(snapshot)
}

func (a *App) getHealthStatus(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":              "ok",
		"providers":           a.engine.Providers(),
		"translation_enabled": a.translator.Enabled(),
		"video_enabled":       a.videos.Enabled(),
	}

	var open []string
	for _, b := range a.engine.Breakers() {
		if b.State == circuitbreaker.StateOpen.String() {
			open = append(open, b.Name)
		}
	}
	if len(open) > 0 {
		health["status"] = "degraded"
		health["open_circuits"] = open
	}

	if len(a.engine.Providers()) == 0 {
		health["status"] = "unhealthy"
		health["error"] = "no lyrics providers enabled"
	}

	if n, err := a.journal.Count(r.Context()); err != nil {
		health["status"] = "unhealthy"
		health["journal_error"] = err.Error()
	} else {
		health["journal_entries"] = n
	}

	Respond(w, r).JSON(health)
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(map[string]interface{}{
		"name": "rifflingua",
		"endpoints": map[string]string{
			"GET /lyrics?artist=&title=&force=": "Lyrics for a song (saved and cached songs are free, new songs use a daily search)",
			"GET /today":                        "Song of the day",
			"GET /today/lyrics":                 "Song of the day with lyrics",
			"GET /video?artist=&title=":         "Music video for a song",
			"POST /translate":                   `Translate text, body {"text":"...","target":"tr","source":"en"}`,
			"GET /quota":                        "Remaining daily searches",
			"POST /quota/reset":                 "Reset today's searches",
			"GET /songs":                        "Saved songs",
			"DELETE /songs":                     "Remove all saved songs",
			"DELETE /songs/{id}":                "Remove a saved song",
			"GET|POST /journal":                 "List or create journal entries",
			"GET|PATCH|DELETE /journal/{id}":    "Read, update or delete a journal entry",
			"GET /journal/date/{date}":          "Journal entry for a date (YYYY-MM-DD)",
			"POST /cache/clear":                 "Clear every cache namespace",
			"POST /cache/clear/{namespace}":     "Clear one cache namespace",
			"POST /cache/backup":                "Back up the cache database",
			"GET /cache/backups":                "List cache backups",
			"POST /cache/restore/{file}":        "Restore the cache from a backup",
			"GET /stats":                        "Runtime statistics",
			"GET /health":                       "Health check",
		},
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
