package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	_ "github.com/mattn/go-sqlite3"
)

// Cache is the client-side snapshot cache, the local-storage analog for a
// display context. It is the third source in the load precedence chain and
// holds locally-added genres that survive a genre merge.
type Cache struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenCache opens (or creates) the snapshot cache at path.
//
// ":memory:" is accepted for tests.
func OpenCache(path string, logger *log.Logger) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			resource TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveSnapshot caches every resource the snapshot carries.
//
// A write failure diagnosed as the disk being full surfaces as
// [shared.ErrQuotaExceeded] so the caller can offer cleanup and retry;
// the write is never silently dropped.
func (c *Cache) SaveSnapshot(snap *models.Snapshot) error {
	entries := map[string]any{}
	if snap.Songs != nil {
		entries["songs"] = snap.Songs
	}
	if snap.Genres != nil {
		entries["genres"] = snap.Genres
	}
	if snap.Profile != nil {
		entries["profile"] = snap.Profile
	}
	if snap.Settings != nil {
		entries["settings"] = snap.Settings
	}

	now := time.Now()
	for resource, value := range entries {
		payload, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", resource, err)
		}

		query := `
			INSERT INTO snapshots (resource, payload, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(resource) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
		`
		if _, err := c.db.Exec(query, resource, string(payload), now); err != nil {
			if isQuotaError(err) {
				return fmt.Errorf("%w: %v", shared.ErrQuotaExceeded, err)
			}
			return fmt.Errorf("failed to cache %s: %w", resource, err)
		}
	}
	return nil
}

// LoadSnapshot returns the cached snapshot; missing resources are nil.
func (c *Cache) LoadSnapshot() (*models.Snapshot, error) {
	rows, err := c.db.Query(`SELECT resource, payload FROM snapshots`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	snap := &models.Snapshot{}
	for rows.Next() {
		var resource, payload string
		if err := rows.Scan(&resource, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}

		switch resource {
		case "songs":
			if err := json.Unmarshal([]byte(payload), &snap.Songs); err != nil {
				c.logger.Warn("corrupt cached songs, skipping", "error", err)
			}
		case "genres":
			if err := json.Unmarshal([]byte(payload), &snap.Genres); err != nil {
				c.logger.Warn("corrupt cached genres, skipping", "error", err)
			}
		case "profile":
			if err := json.Unmarshal([]byte(payload), &snap.Profile); err != nil {
				c.logger.Warn("corrupt cached profile, skipping", "error", err)
			}
		case "settings":
			if err := json.Unmarshal([]byte(payload), &snap.Settings); err != nil {
				c.logger.Warn("corrupt cached settings, skipping", "error", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache row iteration error: %w", err)
	}
	return snap, nil
}

// Clear drops all cached snapshots, the cleanup offered after a quota failure.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// isQuotaError matches SQLite's disk-full diagnostics.
func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "disk is full") || strings.Contains(msg, "database or disk is full")
}
