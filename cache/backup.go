package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"rifflingua-go/logcolors"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

// ErrBackupNotFound is returned by RestoreFromBackup when the name is not a
// backup file in the backup directory.
var ErrBackupNotFound = errors.New("backup not found")

// BackupInfo contains metadata about a backup file
type BackupInfo struct {
	FileName  string    `json:"fileName"`
	FilePath  string    `json:"filePath"`
	Size      int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Backup writes a consistent snapshot of the database into the backup
// directory and returns its path. The database stays open.
func (pc *PersistentCache) Backup() (string, error) {
	if pc.backupPath == "" {
		return "", fmt.Errorf("backup directory not configured")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	backupFilePath := filepath.Join(pc.backupPath, fmt.Sprintf("cache_backup_%s.db", timestamp))

	pc.mu.RLock()
	defer pc.mu.RUnlock()

	err := pc.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(backupFilePath, 0o600)
	})
	if err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	log.Infof("%s Backup created: %s", logcolors.LogCacheBackup, backupFilePath)
	return backupFilePath, nil
}

// ListBackups returns the available backup files, newest first.
func (pc *PersistentCache) ListBackups() ([]BackupInfo, error) {
	var backups []BackupInfo

	entries, err := os.ReadDir(pc.backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return backups, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warnf("%s Failed to get info for %s: %v", logcolors.LogCacheBackup, entry.Name(), err)
			continue
		}

		backups = append(backups, BackupInfo{
			FileName:  entry.Name(),
			FilePath:  filepath.Join(pc.backupPath, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].FileName > backups[j].FileName
	})
	return backups, nil
}

// RestoreFromBackup replaces the live database with the named backup and
// reloads the memory mirror.
func (pc *PersistentCache) RestoreFromBackup(backupFileName string) error {
	if filepath.Ext(backupFileName) != ".db" || filepath.Base(backupFileName) != backupFileName {
		return fmt.Errorf("%w: invalid name %q", ErrBackupNotFound, backupFileName)
	}

	backupFilePath := filepath.Join(pc.backupPath, backupFileName)
	if _, err := os.Stat(backupFilePath); err != nil {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, backupFileName)
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	log.Infof("%s Restoring from backup: %s", logcolors.LogCacheRestore, backupFileName)

	if err := pc.db.Close(); err != nil {
		return fmt.Errorf("failed to close current database: %w", err)
	}

	data, err := os.ReadFile(backupFilePath)
	if err == nil {
		err = os.WriteFile(pc.dbPath, data, 0o600)
	}
	if err != nil {
		if reopenErr := pc.openDatabase(); reopenErr != nil {
			return fmt.Errorf("failed to restore backup: %w (reopen: %v)", err, reopenErr)
		}
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	if err := pc.openDatabase(); err != nil {
		return fmt.Errorf("failed to reopen database after restore: %w", err)
	}

	log.Infof("%s Restored from backup: %s", logcolors.LogCacheRestore, backupFileName)
	return nil
}
