package db

import (
	"database/sql"

	"github.com/andrejsstepanovs/projtrack/models"
)

// Cache is the local project cache backed by the sqlite cache table.
type Cache struct {
	db *sql.DB
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

func (c *Cache) Load() (models.CacheEntry, error) {
	return LoadEntry(c.db)
}

func (c *Cache) Save(entry models.CacheEntry) error {
	return SaveEntry(c.db, entry)
}

// AdvanceLastUpdated moves the cache timestamp forward to ts. A newer stored timestamp is kept.
func (c *Cache) AdvanceLastUpdated(ts string) (bool, error) {
	return AdvanceLastUpdated(c.db, ts)
}

func (c *Cache) Credential() (string, error) {
	token, _, err := GetValue(c.db, KeyCredential)
	return token, err
}

func (c *Cache) SaveCredential(token string) error {
	return SetValue(c.db, KeyCredential, token)
}
