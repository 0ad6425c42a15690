package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router, a *App) {
	// Lyrics, song of the day and video
	router.HandleFunc("/lyrics", a.getLyrics).Methods("GET")
	router.HandleFunc("/today", a.getToday).Methods("GET")
	router.HandleFunc("/today/lyrics", a.getTodayLyrics).Methods("GET")
	router.HandleFunc("/video", a.getVideo).Methods("GET")
	router.HandleFunc("/translate", a.translate).Methods("POST")

	// Daily quota and saved songs
	router.HandleFunc("/quota", a.getQuota).Methods("GET")
	router.HandleFunc("/quota/reset", a.resetQuota).Methods("POST")
	router.HandleFunc("/songs", a.listSongs).Methods("GET")
	router.HandleFunc("/songs", a.clearSongs).Methods("DELETE")
	router.HandleFunc("/songs/{id}", a.deleteSong).Methods("DELETE")

	// Journal
	router.HandleFunc("/journal", a.listJournal).Methods("GET")
	router.HandleFunc("/journal", a.createJournal).Methods("POST")
	router.HandleFunc("/journal/date/{date}", a.getJournalByDate).Methods("GET")
	router.HandleFunc("/journal/{id}", a.getJournal).Methods("GET")
	router.HandleFunc("/journal/{id}", a.updateJournal).Methods("PATCH")
	router.HandleFunc("/journal/{id}", a.deleteJournal).Methods("DELETE")

	// Cache management endpoints
	router.HandleFunc("/cache/clear", a.clearAllCaches).Methods("POST")
	router.HandleFunc("/cache/clear/{namespace}", a.clearNamespace).Methods("POST")
	router.HandleFunc("/cache/backup", a.backupCache).Methods("POST")
	router.HandleFunc("/cache/backups", a.listBackups).Methods("GET")
	router.HandleFunc("/cache/restore/{file}", a.restoreCache).Methods("POST")

	// Health and stats endpoints
	router.HandleFunc("/health", a.getHealthStatus).Methods("GET")
	router.HandleFunc("/stats", a.getStats).Methods("GET")

	// Help endpoint
	router.HandleFunc("/", helpHandler).Methods("GET")
}
