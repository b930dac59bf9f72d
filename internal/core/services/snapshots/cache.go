package snapshots

import (
	"sync"

	"hiscore-tracker/internal/core/domain"
)

// Cache holds one session's resolutions: records found per player and the
// players known to be absent. Names are keyed by SessionKey, so "Big Bob" and
// "big  bob" share an entry. Entries are never invalidated.
type Cache struct {
	mu      sync.RWMutex
	records map[string]*domain.PlayerRecord
	missing map[string]struct{}
}

func NewCache() *Cache {
	return &Cache{
		records: make(map[string]*domain.PlayerRecord),
		missing: make(map[string]struct{}),
	}
}

func (c *Cache) Get(name string) (*domain.PlayerRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[SessionKey(name)]
	return rec, ok
}

func (c *Cache) IsMissing(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.missing[SessionKey(name)]
	return ok
}

func (c *Cache) Store(name string, rec *domain.PlayerRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[SessionKey(name)] = rec
}

func (c *Cache) MarkMissing(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missing[SessionKey(name)] = struct{}{}
}

// Len reports the number of found and missing entries.
func (c *Cache) Len() (found, missing int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), len(c.missing)
}
