package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rifflingua-go/journal"
	"rifflingua-go/logcolors"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func (a *App) listJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := a.journal.GetAll(r.Context())
	if err != nil {
		log.Errorf("%s Failed to list entries: %v", logcolors.LogJournal, err)
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

func (a *App) createJournal(w http.ResponseWriter, r *http.Request) {
	var entry journal.Entry
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&entry); err != nil {
		Respond(w, r).BadRequest("invalid JSON body")
		return
	}

	id, err := a.journal.Create(r.Context(), entry)
	if err != nil {
		Respond(w, r).Error(err)
		return
	}

	created, err := a.journal.GetByID(r.Context(), id)
	if err != nil || created == nil {
		Respond(w, r).Status(http.StatusCreated, map[string]interface{}{"id": id})
		return
	}
	Respond(w, r).Status(http.StatusCreated, created)
}

func (a *App) getJournal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, err := a.journal.GetByID(r.Context(), id)
	if err != nil {
		Respond(w, r).Error(err)
		return
	}
	if entry == nil {
		Respond(w, r).Error(fmt.Errorf("entry %s: %w", id, journal.ErrNotFound))
		return
	}
	Respond(w, r).JSON(entry)
}

func (a *App) getJournalByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	entry, err := a.journal.GetByDate(r.Context(), date)
	if err != nil {
		Respond(w, r).Error(err)
		return
	}
	if entry == nil {
		Respond(w, r).Error(fmt.Errorf("no entry on %s: %w", date, journal.ErrNotFound))
		return
	}
	Respond(w, r).JSON(entry)
}

func (a *App) updateJournal(w http.ResponseWriter, r *http.Request) {
	var patch journal.Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		Respond(w, r).BadRequest("invalid JSON body")
		return
	}

	updated, err := a.journal.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(updated)
}

func (a *App) deleteJournal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.journal.Delete(r.Context(), id); err != nil {
		Respond(w, r).Error(err)
		return
	}
	Respond(w, r).JSON(map[string]interface{}{"deleted": id})
}
