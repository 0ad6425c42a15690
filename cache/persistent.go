package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"rifflingua-go/logcolors"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "cache"

var errKeyNotFound = errors.New("key not found")

// PersistenceError reports a failed read or write against local storage.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PersistentCache wraps BoltDB with an in-memory mirror for fast access.
// It is opened once at startup and shared by every namespace.
type PersistentCache struct {
	mu                 sync.RWMutex
	db                 *bolt.DB
	memCache           sync.Map
	dbPath             string
	backupPath         string
	compressionEnabled bool
}

// CacheEntry represents a cached value (can be compressed)
type CacheEntry struct {
	Value string `json:"value"`
}

// Open creates the cache directory and database file if needed and
// preloads every entry into memory.
func Open(dbPath string, backupPath string, compressionEnabled bool) (*PersistentCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if backupPath != "" {
		if err := os.MkdirAll(backupPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	if info, err := os.Stat(dbPath); err == nil {
		log.Infof("%s Found existing database file at: %s (size: %d bytes)", logcolors.LogCacheInit, dbPath, info.Size())
	} else {
		log.Infof("%s Creating new database file at: %s", logcolors.LogCacheInit, dbPath)
	}

	pc := &PersistentCache{
		dbPath:             dbPath,
		backupPath:         backupPath,
		compressionEnabled: compressionEnabled,
	}
	if err := pc.openDatabase(); err != nil {
		return nil, err
	}

	log.Infof("%s Persistent cache initialized at %s (compression: %v)", logcolors.LogCache, dbPath, compressionEnabled)
	return pc, nil
}

func (pc *PersistentCache) openDatabase() error {
	db, err := bolt.Open(pc.dbPath, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create cache bucket: %w", err)
	}

	pc.db = db
	if err := pc.loadToMemory(); err != nil {
		log.Warnf("%s Failed to preload cache to memory: %v", logcolors.LogCache, err)
	}
	return nil
}

// loadToMemory loads all cache entries from disk to memory
func (pc *PersistentCache) loadToMemory() error {
	pc.memCache.Range(func(key, _ interface{}) bool {
		pc.memCache.Delete(key)
		return true
	})

	count := 0
	err := pc.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var entry CacheEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				log.Warnf("%s Failed to unmarshal cache entry for key %s: %v", logcolors.LogCache, string(k), err)
				return nil
			}
			pc.memCache.Store(string(k), entry)
			count++
			return nil
		})
	})
	if err != nil {
		return err
	}

	log.Debugf("%s Loaded %d entries from disk to memory", logcolors.LogCache, count)
	return nil
}

// Lookup retrieves a value, distinguishing a missing key (false, nil) from a
// storage failure (false, *PersistenceError).
func (pc *PersistentCache) Lookup(key string) (string, bool, error) {
	if entry, ok := pc.memCache.Load(key); ok {
		return pc.decode(key, entry.(CacheEntry).Value)
	}

	pc.mu.RLock()
	defer pc.mu.RUnlock()

	var entry CacheEntry
	err := pc.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		data := b.Get([]byte(key))
		if data == nil {
			return errKeyNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if errors.Is(err, errKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &PersistenceError{Op: "read", Key: key, Err: err}
	}

	pc.memCache.Store(key, entry)
	return pc.decode(key, entry.Value)
}

func (pc *PersistentCache) decode(key, value string) (string, bool, error) {
	if !pc.compressionEnabled {
		return value, true, nil
	}
	decompressed, err := decompressString(value)
	if err != nil {
		return "", false, &PersistenceError{Op: "decompress", Key: key, Err: err}
	}
	return decompressed, true, nil
}

// Get retrieves a value from cache (checks memory first, then disk).
// Storage failures are logged and reported as a miss.
func (pc *PersistentCache) Get(key string) (string, bool) {
	value, ok, err := pc.Lookup(key)
	if err != nil {
		log.Errorf("%s %v", logcolors.LogCache, err)
		return "", false
	}
	return value, ok
}

// Set stores a value in cache (both memory and disk)
func (pc *PersistentCache) Set(key, value string) error {
	finalValue := value
	if pc.compressionEnabled {
		compressed, err := compressString(value)
		if err != nil {
			return &PersistenceError{Op: "compress", Key: key, Err: err}
		}
		finalValue = compressed
	}

	entry := CacheEntry{Value: finalValue}
	data, err := json.Marshal(entry)
	if err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}

	pc.mu.RLock()
	defer pc.mu.RUnlock()

	err = pc.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}

	pc.memCache.Store(key, entry)
	return nil
}

// Delete removes a key from cache
func (pc *PersistentCache) Delete(key string) error {
	pc.memCache.Delete(key)

	pc.mu.RLock()
	defer pc.mu.RUnlock()

	err := pc.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return &PersistenceError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (pc *PersistentCache) DeletePrefix(prefix string) (int, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	var removed []string
	err := pc.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		c := b.Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Seek(p) {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed = append(removed, string(k))
		}
		return nil
	})
	if err != nil {
		return 0, &PersistenceError{Op: "delete", Key: prefix + "*", Err: err}
	}

	for _, key := range removed {
		pc.memCache.Delete(key)
	}
	log.Infof("%s Removed %d entries with prefix %q", logcolors.LogCacheClear, len(removed), prefix)
	return len(removed), nil
}

// Clear removes all entries from cache
func (pc *PersistentCache) Clear() error {
	pc.memCache.Range(func(key, _ interface{}) bool {
		pc.memCache.Delete(key)
		return true
	})

	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return pc.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Range iterates over all cache entries
func (pc *PersistentCache) Range(fn func(key string, entry CacheEntry) bool) {
	pc.memCache.Range(func(k, v interface{}) bool {
		return fn(k.(string), v.(CacheEntry))
	})
}

// Stats returns cache statistics
func (pc *PersistentCache) Stats() (numKeys int, sizeInKB int) {
	pc.memCache.Range(func(k, v interface{}) bool {
		entry := v.(CacheEntry)
		numKeys++
		sizeInKB += len(k.(string)) + len(entry.Value)
		return true
	})
	sizeInKB = sizeInKB / 1024
	return
}

// Close closes the database connection
func (pc *PersistentCache) Close() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.db != nil {
		return pc.db.Close()
	}
	return nil
}
