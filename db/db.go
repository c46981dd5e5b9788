package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/andrejsstepanovs/projtrack/models"
	_ "github.com/mattn/go-sqlite3"
)

// Cache keys. They match the keys of the browser cache so exported data stays recognisable.
const (
	KeyProjects    = "aiProjects"
	KeyLastUpdated = "aiProjectsLastUpdated"
	KeyVersion     = "aiProjectsVersion"
	KeyCredential  = "githubToken"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating cache table: %w", err)
	}

	return db, nil
}

func SetupDatabase(path string) (*sql.DB, error) {
	dbConn, err := InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, nil
}

// GetValue returns the stored value for key and false when the key is absent.
func GetValue(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM cache WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cache key '%s': %w", key, err)
	}
	return value, true, nil
}

func SetValue(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;
	`
	_, err := db.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set cache key '%s': %w", key, err)
	}
	return nil
}

// AdvanceLastUpdated stores ts unless the cached timestamp is already newer.
// It reports whether ts was written.
func AdvanceLastUpdated(db *sql.DB, ts string) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRow("SELECT value FROM cache WHERE key = ?", KeyLastUpdated).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to get cache key '%s': %w", KeyLastUpdated, err)
	}
	if models.ParseTimestamp(current).After(models.ParseTimestamp(ts)) {
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT INTO cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;
	`, KeyLastUpdated, ts)
	if err != nil {
		return false, fmt.Errorf("failed to set cache key '%s': %w", KeyLastUpdated, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// LoadEntry reads the three cache values. Missing keys come back as empty strings.
func LoadEntry(db *sql.DB) (models.CacheEntry, error) {
	var entry models.CacheEntry
	var err error

	if entry.Projects, _, err = GetValue(db, KeyProjects); err != nil {
		return models.CacheEntry{}, err
	}
	if entry.LastUpdated, _, err = GetValue(db, KeyLastUpdated); err != nil {
		return models.CacheEntry{}, err
	}
	if entry.Version, _, err = GetValue(db, KeyVersion); err != nil {
		return models.CacheEntry{}, err
	}

	return entry, nil
}

// SaveEntry replaces all three cache values in one transaction.
func SaveEntry(db *sql.DB, entry models.CacheEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;
	`
	values := [][2]string{
		{KeyProjects, entry.Projects},
		{KeyLastUpdated, entry.LastUpdated},
		{KeyVersion, entry.Version},
	}
	for _, kv := range values {
		_, err = tx.Exec(query, kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("failed to write cache key '%s': %w", kv[0], err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
