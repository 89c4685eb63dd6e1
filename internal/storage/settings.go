package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ziadkadry99/cadena/internal/db"
)

const (
	keyTemperature = "temperature"
	keyMaxTokens   = "max_tokens"
	keyDarkMode    = "dark_mode"
)

// SettingsStore persists chat preferences as key/value rows.
type SettingsStore struct {
	db       *db.DB
	defaults Settings
}

// NewSettingsStore creates a SettingsStore. Keys that were never saved
// fall back to defaults.
func NewSettingsStore(database *db.DB, defaults Settings) *SettingsStore {
	return &SettingsStore{db: database, defaults: defaults}
}

// Get returns stored settings merged over the defaults. Stored values that
// cannot be parsed are ignored.
func (s *SettingsStore) Get(ctx context.Context) (Settings, error) {
	out := s.defaults

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return out, fmt.Errorf("reading settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return out, fmt.Errorf("scanning setting: %w", err)
		}
		switch key {
		case keyTemperature:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				out.Temperature = f
			}
		case keyMaxTokens:
			if n, err := strconv.Atoi(value); err == nil {
				out.MaxTokens = n
			}
		case keyDarkMode:
			if b, err := strconv.ParseBool(value); err == nil {
				out.DarkMode = b
			}
		}
	}
	return out, rows.Err()
}

// Save stores every field of settings.
func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	if settings.Temperature < 0 || settings.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if settings.MaxTokens < 1 || settings.MaxTokens > 2048 {
		return fmt.Errorf("max_tokens must be between 1 and 2048")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	values := map[string]string{
		keyTemperature: strconv.FormatFloat(settings.Temperature, 'f', -1, 64),
		keyMaxTokens:   strconv.Itoa(settings.MaxTokens),
		keyDarkMode:    strconv.FormatBool(settings.DarkMode),
	}
	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		)
		if err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}
