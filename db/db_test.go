package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetValue(t *testing.T) {
	db := openTestDB(t)

	testCases := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{
			name:     "insert new key",
			key:      KeyVersion,
			value:    "v1.0.0",
			expected: "v1.0.0",
		},
		{
			name:     "update existing key",
			key:      KeyVersion,
			value:    "v2.0.0",
			expected: "v2.0.0",
		},
		{
			name:     "empty value is stored",
			key:      KeyCredential,
			value:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := SetValue(db, tc.key, tc.value)
			assert.NoError(t, err)

			value, found, err := GetValue(db, tc.key)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tc.expected, value)
		})
	}

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM cache").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetValue_Missing(t *testing.T) {
	db := openTestDB(t)

	value, found, err := GetValue(db, "missing")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "", value)
}

func TestSaveEntryAndLoadEntry(t *testing.T) {
	db := openTestDB(t)

	entry, err := LoadEntry(db)
	require.NoError(t, err)
	assert.Equal(t, models.CacheEntry{}, entry)

	saved := models.CacheEntry{
		Projects:    `[{"id":1,"name":"A"}]`,
		LastUpdated: "2024-01-01T00:00:00Z",
		Version:     "v2.0.0",
	}
	err = SaveEntry(db, saved)
	require.NoError(t, err)

	entry, err = LoadEntry(db)
	require.NoError(t, err)
	assert.Equal(t, saved, entry)

	// Full replace on the second write
	saved.Projects = "[]"
	saved.LastUpdated = "2024-06-01T00:00:00Z"
	err = SaveEntry(db, saved)
	require.NoError(t, err)

	entry, err = LoadEntry(db)
	require.NoError(t, err)
	assert.Equal(t, saved, entry)
}

func TestCache_SaveKeepsCredential(t *testing.T) {
	cache := NewCache(openTestDB(t))

	require.NoError(t, cache.SaveCredential("ghp_secret"))
	require.NoError(t, cache.Save(models.CacheEntry{
		Projects:    "[]",
		LastUpdated: "2024-01-01T00:00:00Z",
		Version:     "v2.0.0",
	}))

	token, err := cache.Credential()
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", token)
}

func TestCache_AdvanceLastUpdated(t *testing.T) {
	testCases := []struct {
		name     string
		stored   string
		ts       string
		written  bool
		expected string
	}{
		{
			name:     "older stored value moves forward",
			stored:   "2024-01-01T00:00:00Z",
			ts:       "2024-02-02T00:00:00.000Z",
			written:  true,
			expected: "2024-02-02T00:00:00.000Z",
		},
		{
			name:     "newer stored value is kept",
			stored:   "2024-07-01T12:00:03.000Z",
			ts:       "2024-07-01T12:00:01.000Z",
			written:  false,
			expected: "2024-07-01T12:00:03.000Z",
		},
		{
			name:     "equal value is rewritten",
			stored:   "2024-07-01T12:00:01Z",
			ts:       "2024-07-01T12:00:01.000Z",
			written:  true,
			expected: "2024-07-01T12:00:01.000Z",
		},
		{
			name:     "missing value is written",
			stored:   "",
			ts:       "2024-07-01T12:00:01.000Z",
			written:  true,
			expected: "2024-07-01T12:00:01.000Z",
		},
		{
			name:     "unparsable stored value is replaced",
			stored:   "yesterday",
			ts:       "2024-07-01T12:00:01.000Z",
			written:  true,
			expected: "2024-07-01T12:00:01.000Z",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := openTestDB(t)
			cache := NewCache(db)
			if tc.stored != "" {
				require.NoError(t, SetValue(db, KeyLastUpdated, tc.stored))
			}

			written, err := cache.AdvanceLastUpdated(tc.ts)
			require.NoError(t, err)
			assert.Equal(t, tc.written, written)

			value, _, err := GetValue(db, KeyLastUpdated)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestCache_CredentialMissing(t *testing.T) {
	cache := NewCache(openTestDB(t))

	token, err := cache.Credential()
	assert.NoError(t, err)
	assert.Empty(t, token)
}
