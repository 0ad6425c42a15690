package main

import (
	"errors"
	"fmt"
	"net/http"

	"rifflingua-go/cache"
	"rifflingua-go/logcolors"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func (a *App) clearNamespace(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["namespace"]
	ns, ok := a.namespace(name)
	if !ok {
		Respond(w, r).Status(http.StatusNotFound, map[string]interface{}{
			"error":      fmt.Sprintf("unknown cache namespace %q", name),
			"namespaces": cache.Namespaces,
		})
		return
	}

	removed, err := ns.Clear()
	if err != nil {
		log.Errorf("%s Failed to clear %s: %v", logcolors.LogCacheClear, name, err)
		Respond(w, r).Status(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to clear cache: %v", err),
		})
		return
	}

	log.Infof("%s Cleared %d %s entries", logcolors.LogCacheClear, removed, name)
	Respond(w, r).JSON(map[string]interface{}{
		"message":   "Cache cleared successfully",
		"namespace": name,
		"removed":   removed,
	})
}

func (a *App) clearAllCaches(w http.ResponseWriter, r *http.Request) {
	if err := a.cache.Clear(); err != nil {
		log.Errorf("%s Failed to clear cache: %v", logcolors.LogCacheClear, err)
		Respond(w, r).Status(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to clear cache: %v", err),
		})
		return
	}

	log.Infof("%s Cleared every namespace", logcolors.LogCacheClear)
	Respond(w, r).JSON(map[string]interface{}{
		"message":    "Cache cleared successfully",
		"namespaces": cache.Namespaces,
	})
}

func (a *App) backupCache(w http.ResponseWriter, r *http.Request) {
	backupPath, err := a.cache.Backup()
	if err != nil {
		log.Errorf("%s Failed to create backup: %v", logcolors.LogCacheBackup, err)
		Respond(w, r).Status(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to create backup: %v", err),
		})
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"message":     "Backup created successfully",
		"backup_path": backupPath,
	})
}

func (a *App) listBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := a.cache.ListBackups()
	if err != nil {
		log.Errorf("%s Failed to list backups: %v", logcolors.LogCacheBackup, err)
		Respond(w, r).Status(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to list backups: %v", err),
		})
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"count":   len(backups),
		"backups": backups,
	})
}

func (a *App) restoreCache(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if err := a.cache.RestoreFromBackup(file); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cache.ErrBackupNotFound) {
			status = http.StatusNotFound
		}
		log.Errorf("%s Failed to restore %s: %v", logcolors.LogCacheRestore, file, err)
		Respond(w, r).Status(status, map[string]interface{}{
			"error": fmt.Sprintf("Failed to restore backup: %v", err),
		})
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"message":  "Cache restored successfully",
		"restored": file,
	})
}
