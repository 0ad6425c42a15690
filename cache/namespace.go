package cache

import (
	"encoding/json"
	"strings"
)

// Namespaces sharing the one cache file. Each gets a distinct key prefix.
const (
	NamespaceLyrics      = "lyrics"
	NamespaceTranslation = "translation"
	NamespaceVideo       = "video"
	NamespaceSongs       = "songs"
	NamespaceQuota       = "quota"
)

// Namespaces lists every namespace the application uses.
var Namespaces = []string{
	NamespaceLyrics,
	NamespaceTranslation,
	NamespaceVideo,
	NamespaceSongs,
	NamespaceQuota,
}

// IsNamespace reports whether name is a known namespace.
func IsNamespace(name string) bool {
	for _, ns := range Namespaces {
		if ns == name {
			return true
		}
	}
	return false
}

// Store is the key-value contract components depend on. *Namespace
// satisfies it; tests may substitute their own.
type Store interface {
	Lookup(key string) (string, bool, error)
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Clear() (int, error)
}

// Namespace is a prefixed view over a PersistentCache.
type Namespace struct {
	cache  *PersistentCache
	name   string
	prefix string
}

// Namespace returns a view whose keys are stored as "name:key".
func (pc *PersistentCache) Namespace(name string) *Namespace {
	return &Namespace{cache: pc, name: name, prefix: name + ":"}
}

func (n *Namespace) Name() string { return n.name }

func (n *Namespace) Lookup(key string) (string, bool, error) {
	return n.cache.Lookup(n.prefix + key)
}

func (n *Namespace) Get(key string) (string, bool) {
	return n.cache.Get(n.prefix + key)
}

func (n *Namespace) Set(key, value string) error {
	return n.cache.Set(n.prefix+key, value)
}

func (n *Namespace) Delete(key string) error {
	return n.cache.Delete(n.prefix + key)
}

// Clear removes every entry of this namespace only.
func (n *Namespace) Clear() (int, error) {
	return n.cache.DeletePrefix(n.prefix)
}

// Keys returns the unprefixed keys currently held in this namespace.
func (n *Namespace) Keys() []string {
	var keys []string
	n.cache.Range(func(key string, _ CacheEntry) bool {
		if strings.HasPrefix(key, n.prefix) {
			keys = append(keys, strings.TrimPrefix(key, n.prefix))
		}
		return true
	})
	return keys
}

// LookupJSON decodes a JSON value stored under key into v.
func LookupJSON(s Store, key string, v interface{}) (bool, error) {
	raw, ok, err := s.Lookup(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, &PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: key, Err: err}
	}
	return s.Set(key, string(data))
}
