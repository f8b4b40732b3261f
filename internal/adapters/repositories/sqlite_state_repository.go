package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the StateRepository port.
type SqliteStateRepository struct{ DB *sql.DB }

func NewSqliteStateRepository(db *sql.DB) *SqliteStateRepository {
	return &SqliteStateRepository{DB: db}
}

// Return the JSON value stored under key.
func (s *SqliteStateRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("sqlite state repository: DB is nil")
	}

	var value string
	err := s.DB.QueryRowContext(ctx, `
	SELECT value
	FROM app_state
	WHERE key = ?;
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state key=%q: %w", key, err)
	}

	return []byte(value), true, nil
}

// Replace the JSON value stored under key.
func (s *SqliteStateRepository) Save(ctx context.Context, key string, value []byte) error {
	if s.DB == nil {
		return errors.New("sqlite state repository: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO app_state (
		key,
		value
	)
	VALUES (?, ?);
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("save state key=%q: %w", key, err)
	}
	return nil
}

// Remove every stored key.
func (s *SqliteStateRepository) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sqlite state repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM app_state;`); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}
