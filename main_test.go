package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rifflingua-go/cache"
	"rifflingua-go/config"
	"rifflingua-go/journal"
	"rifflingua-go/services/providers"
	"rifflingua-go/services/providers/rest"

	"github.com/gorilla/mux"
)

// lrclibStub answers every track except "Missing" with plain lyrics.
func lrclibStub(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		track := r.URL.Query().Get("track_name")
		if track == "Missing" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"code":404,"name":"TrackNotFound"}`)
			return
		}
		fmt.Fprintf(w, `{"plainLyrics":%q,"instrumental":false}`, "[Verse 1]\n"+track+" line one\n"+track+" line two")
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func testConfig() config.Config {
	var c config.Config
	c.Configuration.DailySearchLimit = 2
	c.Configuration.RateLimitPerSecond = 1000
	c.Configuration.RateLimitBurstLimit = 1000
	c.Configuration.DefaultTargetLang = "tr"
	c.Configuration.DefaultSourceLang = "en"
	return c
}

func newTestApp(t *testing.T, c config.Config, ps []providers.Provider) *App {
	t.Helper()
	dir := t.TempDir()

	pc, err := cache.Open(filepath.Join(dir, "cache.db"), filepath.Join(dir, "backups"), false)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	js, err := journal.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}

	a := assembleApp(c, pc, js, ps)
	a.now = func() time.Time { return time.Date(2025, 9, 12, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { a.Close() })
	return a
}

func newDefaultTestApp(t *testing.T) *App {
	return newTestApp(t, testConfig(), []providers.Provider{rest.New(rest.LRCLIB, lrclibStub(t))})
}

func doRequest(t *testing.T, a *App, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	setupRoutes(router, a)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGetLyrics_NewThenSaved(t *testing.T) {
	a := newDefaultTestApp(t)

	rec := doRequest(t, a, "GET", "/lyrics?artist=Adele&title=Hello", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Lyrics-Source") != "provider" || rec.Header().Get("X-Provider") != rest.LRCLIBName {
		t.Errorf("unexpected headers: %v", rec.Header())
	}
	body := decodeBody(t, rec)
	if body["lyrics"] != "Hello line one\nHello line two" {
		t.Errorf("lyrics = %q", body["lyrics"])
	}
	if body["remaining"] != float64(1) || body["billed"] != true {
		t.Errorf("unexpected quota fields: %v", body)
	}

	rec = doRequest(t, a, "GET", "/lyrics?artist=adele&title=HELLO", "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Lyrics-Source") != "saved" {
		t.Errorf("second lookup: %d, source %q", rec.Code, rec.Header().Get("X-Lyrics-Source"))
	}
	if body := decodeBody(t, rec); body["remaining"] != float64(1) {
		t.Errorf("saved songs must be free, remaining = %v", body["remaining"])
	}
}

func TestGetLyrics_Errors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantMessage string
	}{
		{"missing title", "/lyrics?artist=Adele", http.StatusBadRequest, "Please enter both an artist and a song title."},
		{"not found", "/lyrics?artist=Nobody&title=Missing", http.StatusNotFound, "Lyrics for this song were not found."},
		{"not found in turkish", "/lyrics?artist=Nobody&title=Missing&lang=tr", http.StatusNotFound, "Bu şarkının sözleri bulunamadı."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newDefaultTestApp(t)
			rec := doRequest(t, a, "GET", tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if body := decodeBody(t, rec); body["message"] != tt.wantMessage {
				t.Errorf("message = %q, expected %q", body["message"], tt.wantMessage)
			}
		})
	}
}

func TestGetLyrics_QuotaExhausted(t *testing.T) {
	a := newDefaultTestApp(t)

	for _, title := range []string{"One", "Two"} {
		if rec := doRequest(t, a, "GET", "/lyrics?artist=A&title="+title, ""); rec.Code != http.StatusOK {
			t.Fatalf("lookup %s: %d", title, rec.Code)
		}
	}

	rec := doRequest(t, a, "GET", "/lyrics?artist=A&title=Three", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}

	rec = doRequest(t, a, "GET", "/quota", "")
	body := decodeBody(t, rec)
	if body["remaining"] != float64(0) || body["total"] != float64(2) || body["savedCount"] != float64(2) {
		t.Errorf("unexpected quota: %v", body)
	}

	if rec := doRequest(t, a, "POST", "/quota/reset", ""); rec.Code != http.StatusOK {
		t.Fatalf("reset: %d", rec.Code)
	}
	if rec := doRequest(t, a, "GET", "/lyrics?artist=A&title=Three", ""); rec.Code != http.StatusOK {
		t.Errorf("after reset: %d", rec.Code)
	}
}

func TestNoProvidersIsBadGateway(t *testing.T) {
	a := newTestApp(t, testConfig(), nil)

	rec := doRequest(t, a, "GET", "/lyrics?artist=Adele&title=Hello", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rec.Code)
	}

	rec = doRequest(t, a, "GET", "/health", "")
	if body := decodeBody(t, rec); body["status"] != "unhealthy" {
		t.Errorf("health status = %v", body["status"])
	}
}

func TestSongsEndpoints(t *testing.T) {
	a := newDefaultTestApp(t)
	doRequest(t, a, "GET", "/lyrics?artist=Adele&title=Hello", "")

	rec := doRequest(t, a, "GET", "/songs", "")
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Fatalf("GET /songs count = %v", body["count"])
	}

	if rec := doRequest(t, a, "DELETE", "/songs/does-not-exist", ""); rec.Code != http.StatusNotFound {
		t.Errorf("DELETE unknown song: %d", rec.Code)
	}

	id := a.registry.List()[0].ID
	if rec := doRequest(t, a, "DELETE", "/songs/"+id, ""); rec.Code != http.StatusOK {
		t.Errorf("DELETE song: %d", rec.Code)
	}
	if a.registry.Count() != 0 {
		t.Error("song not removed")
	}

	doRequest(t, a, "GET", "/lyrics?artist=Adele&title=Skyfall", "")
	if rec := doRequest(t, a, "DELETE", "/songs", ""); rec.Code != http.StatusOK || a.registry.Count() != 0 {
		t.Errorf("DELETE /songs: %d, count %d", rec.Code, a.registry.Count())
	}
}

func TestTranslateEndpoint(t *testing.T) {
	a := newDefaultTestApp(t)

	rec := doRequest(t, a, "POST", "/translate", `{"text":"   "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty text: %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["translation"] != "" || body["target"] != "tr" {
		t.Errorf("unexpected body: %v", body)
	}

	rec = doRequest(t, a, "POST", "/translate", `{"text":"hello"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled translation: expected 503, got %d", rec.Code)
	}

	rec = doRequest(t, a, "POST", "/translate", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: expected 400, got %d", rec.Code)
	}
}

func TestTranslateEndpoint_Enabled(t *testing.T) {
	mm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseData":{"translatedText":"merhaba"},"responseStatus":"200"}`)
	}))
	defer mm.Close()

	c := testConfig()
	c.Configuration.TranslationEnabled = true
	c.Configuration.TranslationBaseURL = mm.URL
	a := newTestApp(t, c, nil)

	rec := doRequest(t, a, "POST", "/translate", `{"text":"hello","target":"tr"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["translation"] != "merhaba" {
		t.Errorf("translation = %v", body["translation"])
	}
}

func TestJournalEndpoints(t *testing.T) {
	a := newDefaultTestApp(t)

	rec := doRequest(t, a, "POST", "/journal", `{"date":"2025-09-12","title":"Beach day","content":"Sunny","rating":5,"mood":"😊"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /journal: %d %s", rec.Code, rec.Body.String())
	}
	id, _ := decodeBody(t, rec)["id"].(string)
	if id == "" {
		t.Fatal("expected the created entry's id")
	}

	rec = doRequest(t, a, "GET", "/journal/date/2025-09-12", "")
	if rec.Code != http.StatusOK || decodeBody(t, rec)["id"] != id {
		t.Errorf("GET by date: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, a, "PATCH", "/journal/"+id, `{"rating":9}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid rating: expected 422, got %d", rec.Code)
	}

	rec = doRequest(t, a, "PATCH", "/journal/"+id, `{"title":"Beach evening"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["title"] != "Beach evening" || body["content"] != "Sunny" || body["rating"] != float64(5) {
		t.Errorf("partial update lost fields: %v", body)
	}

	if rec := doRequest(t, a, "PATCH", "/journal/nope", `{"title":"x"}`); rec.Code != http.StatusNotFound {
		t.Errorf("PATCH unknown: %d", rec.Code)
	}

	rec = doRequest(t, a, "POST", "/journal", `{"date":"12/09/2025","title":"Bad date"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid date: expected 422, got %d", rec.Code)
	}

	rec = doRequest(t, a, "GET", "/journal", "")
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Errorf("GET /journal count = %v", body["count"])
	}

	if rec := doRequest(t, a, "DELETE", "/journal/"+id, ""); rec.Code != http.StatusOK {
		t.Errorf("DELETE: %d", rec.Code)
	}
	if rec := doRequest(t, a, "GET", "/journal/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete: %d", rec.Code)
	}
	if rec := doRequest(t, a, "GET", "/journal/date/2025-09-12", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET by date after delete: %d", rec.Code)
	}
}

func TestCacheEndpoints(t *testing.T) {
	a := newDefaultTestApp(t)
	doRequest(t, a, "GET", "/lyrics?artist=Adele&title=Hello", "")

	rec := doRequest(t, a, "POST", "/cache/clear/bogus", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown namespace: expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, a, "POST", "/cache/clear/lyrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear lyrics: %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["removed"] != float64(1) {
		t.Errorf("removed = %v", body["removed"])
	}
	if a.registry.Count() != 1 {
		t.Error("clearing lyrics must not touch saved songs")
	}

	rec = doRequest(t, a, "POST", "/cache/backup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("backup: %d %s", rec.Code, rec.Body.String())
	}
	backupFile := filepath.Base(decodeBody(t, rec)["backup_path"].(string))

	rec = doRequest(t, a, "GET", "/cache/backups", "")
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Errorf("backups count = %v", body["count"])
	}

	if rec := doRequest(t, a, "POST", "/cache/clear", ""); rec.Code != http.StatusOK {
		t.Fatalf("clear all: %d", rec.Code)
	}
	if a.registry.Count() != 0 {
		t.Errorf("saved songs after clear all = %d, expected 0", a.registry.Count())
	}

	if rec := doRequest(t, a, "POST", "/cache/restore/cache_backup_missing.db", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown backup: expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, a, "POST", "/cache/restore/"+backupFile, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: %d %s", rec.Code, rec.Body.String())
	}
	if a.registry.Count() != 1 {
		t.Errorf("saved songs after restore = %d, expected 1", a.registry.Count())
	}
}

func TestTodayEndpoints(t *testing.T) {
	a := newDefaultTestApp(t)
	song := a.catalog.Today(a.now())

	rec := doRequest(t, a, "GET", "/today", "")
	if body := decodeBody(t, rec); body["id"] != song.ID {
		t.Errorf("GET /today id = %v, expected %s", body["id"], song.ID)
	}

	rec = doRequest(t, a, "GET", "/today/lyrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /today/lyrics: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["lyrics"].(string), song.Title+" line one") {
		t.Errorf("lyrics = %q", body["lyrics"])
	}
	if body["billed"] != false || a.ledger.Remaining() != 2 {
		t.Error("the song of the day must be free")
	}
}

func TestHealthAndStats(t *testing.T) {
	a := newDefaultTestApp(t)

	rec := doRequest(t, a, "GET", "/health", "")
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["journal_entries"] != float64(0) {
		t.Errorf("unexpected health: %v", body)
	}

	rec = doRequest(t, a, "GET", "/stats", "")
	body = decodeBody(t, rec)
	for _, key := range []string{"server", "requests", "lookups", "cache_storage", "circuit_breakers", "quota"} {
		if _, ok := body[key]; !ok {
			t.Errorf("stats missing %q", key)
		}
	}
}

func TestHandlerRateLimit(t *testing.T) {
	c := testConfig()
	c.Configuration.RateLimitPerSecond = 1
	c.Configuration.RateLimitBurstLimit = 1
	h := newTestApp(t, c, nil).handler()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v", codes)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	saved := conf
	t.Cleanup(func() { conf = saved })
	conf = testConfig()
	conf.Configuration.DataDir = t.TempDir()
	conf.Configuration.LogLevel = "error"

	out, err := runCLI(t, "journal", "seed")
	if err != nil || !strings.Contains(out, "Seeded 3 sample entries") {
		t.Fatalf("journal seed: %q, %v", out, err)
	}
	out, _ = runCLI(t, "journal", "seed")
	if !strings.Contains(out, "nothing seeded") {
		t.Errorf("second seed: %q", out)
	}

	out, err = runCLI(t, "journal", "list")
	if err != nil || !strings.Contains(out, "Coffee with friends") {
		t.Errorf("journal list: %q, %v", out, err)
	}

	out, err = runCLI(t, "journal", "add", "--date", "2025-09-13", "--title", "Concert", "--rating", "4")
	if err != nil || !strings.HasPrefix(out, "Created ") {
		t.Fatalf("journal add: %q, %v", out, err)
	}
	if _, err := runCLI(t, "journal", "add", "--title", "Too many stars", "--rating", "7"); err == nil {
		t.Error("journal add with rating 7 should fail")
	}

	out, err = runCLI(t, "journal", "show", "--date", "2025-09-13")
	if err != nil || !strings.Contains(out, "Concert") || !strings.Contains(out, "★★★★☆") {
		t.Errorf("journal show: %q, %v", out, err)
	}

	out, err = runCLI(t, "quota")
	if err != nil || !strings.Contains(out, "2") {
		t.Errorf("quota: %q, %v", out, err)
	}

	out, err = runCLI(t, "songs", "list")
	if err != nil || !strings.Contains(out, "No saved songs") {
		t.Errorf("songs list: %q, %v", out, err)
	}

	if _, err := runCLI(t, "cache", "clear", "bogus"); err == nil {
		t.Error("clearing an unknown namespace should fail")
	}
	out, err = runCLI(t, "cache", "clear", "all")
	if err != nil || !strings.Contains(out, "Cleared every cache namespace") {
		t.Errorf("cache clear all: %q, %v", out, err)
	}

	out, err = runCLI(t, "cache", "backups")
	if err != nil || !strings.Contains(out, "No backups") {
		t.Errorf("cache backups: %q, %v", out, err)
	}
	out, err = runCLI(t, "cache", "backup")
	if err != nil || !strings.HasPrefix(out, "Backup written to ") {
		t.Fatalf("cache backup: %q, %v", out, err)
	}
	backupFile := filepath.Base(strings.TrimSpace(strings.TrimPrefix(out, "Backup written to ")))

	out, err = runCLI(t, "cache", "backups")
	if err != nil || !strings.Contains(out, backupFile) {
		t.Errorf("cache backups: %q, %v", out, err)
	}
	if _, err := runCLI(t, "cache", "restore", "../cache.db"); err == nil {
		t.Error("restoring outside the backup directory should fail")
	}
	out, err = runCLI(t, "cache", "restore", backupFile)
	if err != nil || !strings.Contains(out, "Restored "+backupFile) {
		t.Errorf("cache restore: %q, %v", out, err)
	}
}
