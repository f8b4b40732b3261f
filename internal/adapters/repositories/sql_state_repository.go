package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-planner-service/internal/platform/obs"
)

// Postgres-backed implementation of the StateRepository port.
type SQLStateRepository struct{ DB *sql.DB }

func NewSQLStateRepository(db *sql.DB) *SQLStateRepository {
	return &SQLStateRepository{DB: db}
}

func (s *SQLStateRepository) Load(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "state.Load")(&err)

	if s.DB == nil {
		return nil, false, errors.New("sql state repository: DB is nil")
	}

	var value string
	err = s.DB.QueryRowContext(ctx, `
	SELECT value
	FROM app_state
	WHERE key = $1;
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state key=%q: %w", key, err)
	}

	return []byte(value), true, nil
}

func (s *SQLStateRepository) Save(ctx context.Context, key string, value []byte) (err error) {
	defer obs.Time(ctx, "state.Save")(&err)

	if s.DB == nil {
		return errors.New("sql state repository: DB is nil")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO app_state (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value;
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("save state key=%q: %w", key, err)
	}
	return nil
}

func (s *SQLStateRepository) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sql state repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM app_state;`); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}
