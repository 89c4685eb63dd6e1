package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/cadena/internal/db"
)

// ModelStore remembers which local model was last loaded.
type ModelStore struct {
	db *db.DB
}

// NewModelStore creates a ModelStore.
func NewModelStore(database *db.DB) *ModelStore {
	return &ModelStore{db: database}
}

// Save records id as the current model, replacing any previous one.
func (s *ModelStore) Save(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stored_models (slot, model_id, name, loaded_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET model_id = excluded.model_id, name = excluded.name, loaded_at = excluded.loaded_at`,
		id, name, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	return nil
}

// Current returns the most recently saved model, or ErrNotFound.
func (s *ModelStore) Current(ctx context.Context) (*StoredModel, error) {
	var m StoredModel
	err := s.db.QueryRowContext(ctx,
		`SELECT model_id, name, loaded_at FROM stored_models WHERE slot = 1`,
	).Scan(&m.ID, &m.Name, &m.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return &m, nil
}

// Clear forgets the stored model.
func (s *ModelStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stored_models`); err != nil {
		return fmt.Errorf("clearing model: %w", err)
	}
	return nil
}
