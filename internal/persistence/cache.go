package persistence

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
)

// cacheNamespace scopes cache keys derived from option sets.
var cacheNamespace = uuid.MustParse("6f1c2a8e-52b4-4c0e-9a57-1d3e8b7c4f20")

// Cache maps option sets to encoded continents. Generation is deterministic,
// so an entry never goes stale.
type Cache struct {
	db *leveldb.DB
}

// OpenCache opens or creates a LevelDB cache directory.
func OpenCache(path string) (*Cache, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	return c.db.Close()
}

// CacheKey derives a stable key from the canonical JSON of an option set.
func CacheKey(optionsJSON []byte) string {
	return uuid.NewSHA1(cacheNamespace, optionsJSON).String()
}

// Put stores a payload.
func (c *Cache) Put(key string, payload []byte) error {
	if err := c.db.Put([]byte(key), payload, nil); err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}

// Get returns the payload stored under key. ok is false when there is none.
func (c *Cache) Get(key string) (payload []byte, ok bool, err error) {
	payload, err = c.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return payload, true, nil
}

// Delete drops an entry, if present.
func (c *Cache) Delete(key string) error {
	return c.db.Delete([]byte(key), nil)
}
