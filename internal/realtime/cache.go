package realtime

import (
	"encoding/json"
	"sync"
)

// Cache holds the latest known row state per id, merged from change
// events. Merge is last-write-wins gated on the row version: an event
// whose version is not strictly newer than what the cache holds is
// ignored, so out-of-order delivery can never regress a row.
type Cache struct {
	mu   sync.RWMutex
	rows map[string]cachedRow
}

type cachedRow struct {
	version int64
	data    json.RawMessage
}

func NewCache() *Cache {
	return &Cache{
		rows: make(map[string]cachedRow),
	}
}

// Apply merges an event into the cache. Returns true when the event
// was accepted, false when it was stale.
func (c *Cache) Apply(event *ChangeEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.rows[event.RowID]
	if ok && event.Version <= existing.version {
		return false
	}

	c.rows[event.RowID] = cachedRow{
		version: event.Version,
		data:    event.Row,
	}
	return true
}

// Get returns the cached row data and version for an id
func (c *Cache) Get(rowID string) (json.RawMessage, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	row, ok := c.rows[rowID]
	if !ok {
		return nil, 0, false
	}
	return row.data, row.version, true
}

// Len returns the number of cached rows
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}
