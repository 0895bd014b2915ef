package analytics_test

import (
	"testing"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotKey_ContentAddressed(t *testing.T) {
	harvests := []domain.Harvest{{TotalQuantity: 100, Unit: domain.UnitBins}}
	same := []domain.Harvest{{TotalQuantity: 100, Unit: domain.UnitBins}}
	changed := []domain.Harvest{{TotalQuantity: 101, Unit: domain.UnitBins}}

	a := analytics.SnapshotKey("funnel:2025-2026", harvests)
	b := analytics.SnapshotKey("funnel:2025-2026", same)
	c := analytics.SnapshotKey("funnel:2025-2026", changed)
	d := analytics.SnapshotKey("funnel:2024-2025", harvests)

	assert.Equal(t, a, b, "equal content must produce equal keys")
	assert.NotEqual(t, a, c, "changed content must produce a new key")
	assert.NotEqual(t, a, d, "scope is part of the key")
}

func TestSnapshotCache_PutGet(t *testing.T) {
	cache := analytics.NewSnapshotCache(2)

	cache.Put("a", 1)
	cache.Put("b", 2)

	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// Third entry evicts the oldest.
	cache.Put("c", 3)
	_, ok = cache.Get("a")
	assert.False(t, ok)

	v, ok = cache.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSnapshotCache_OverwriteSameKey(t *testing.T) {
	cache := analytics.NewSnapshotCache(2)
	cache.Put("a", 1)
	cache.Put("a", 2)

	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}
