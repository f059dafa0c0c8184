package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func mustEvent(t *testing.T, op Operation, rowID, status string, version int64) *ChangeEvent {
	t.Helper()
	event, err := NewChangeEvent(op, "stall_applications", rowID, testRow{ID: rowID, Status: status}, version)
	assert.NoError(t, err)
	return event
}

func TestCacheAppliesNewerVersions(t *testing.T) {
	cache := NewCache()

	assert.True(t, cache.Apply(mustEvent(t, OpInsert, "row-1", "pending", 1)))
	assert.True(t, cache.Apply(mustEvent(t, OpUpdate, "row-1", "approved", 2)))

	_, version, ok := cache.Get("row-1")
	assert.True(t, ok)
	assert.Equal(t, int64(2), version)
}

func TestCacheIgnoresStaleVersions(t *testing.T) {
	cache := NewCache()

	assert.True(t, cache.Apply(mustEvent(t, OpUpdate, "row-1", "approved", 3)))

	// out-of-order delivery: older versions must not regress the row
	assert.False(t, cache.Apply(mustEvent(t, OpUpdate, "row-1", "pending", 2)))
	assert.False(t, cache.Apply(mustEvent(t, OpInsert, "row-1", "pending", 1)))

	// same version is also not an advance
	assert.False(t, cache.Apply(mustEvent(t, OpUpdate, "row-1", "rejected", 3)))

	data, version, ok := cache.Get("row-1")
	assert.True(t, ok)
	assert.Equal(t, int64(3), version)
	assert.Contains(t, string(data), "approved")
}

func TestCacheTracksRowsIndependently(t *testing.T) {
	cache := NewCache()

	assert.True(t, cache.Apply(mustEvent(t, OpInsert, "row-1", "pending", 5)))
	assert.True(t, cache.Apply(mustEvent(t, OpInsert, "row-2", "pending", 1)))
	assert.Equal(t, 2, cache.Len())

	// a high version on one row does not gate another
	assert.True(t, cache.Apply(mustEvent(t, OpUpdate, "row-2", "approved", 2)))
}

func TestCacheGetUnknownRow(t *testing.T) {
	cache := NewCache()
	_, _, ok := cache.Get("missing")
	assert.False(t, ok)
}
