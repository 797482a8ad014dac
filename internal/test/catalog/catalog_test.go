package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"studkits-backend/internal/catalog"
)

func TestLoad(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cat.All())
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	kits := cat.Search("SMART HOME", "")
	require.NotEmpty(t, kits)
	for _, kit := range kits {
		assert.True(t,
			strings.Contains(strings.ToLower(kit.Title), "smart home") ||
				strings.Contains(strings.ToLower(kit.Description), "smart home"))
	}
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	assert.Len(t, cat.Search("", ""), len(cat.All()))
}

func TestSearch_NoMatches(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	assert.Empty(t, cat.Search("quantum teleporter", ""))
}

func TestGet(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	kit, ok := cat.Get("iot-1")
	require.True(t, ok)
	assert.Equal(t, "Smart Home Automation", kit.Title)

	_, ok = cat.Get("missing")
	assert.False(t, ok)
}

func TestCategories_DistinctInListingOrder(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	categories := cat.Categories()
	seen := make(map[string]bool)
	for _, category := range categories {
		assert.False(t, seen[category], "duplicate category %s", category)
		seen[category] = true
	}
	assert.Equal(t, "IoT-Based Projects", categories[0])
}
