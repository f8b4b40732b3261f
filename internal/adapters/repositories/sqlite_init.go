package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
)

// Initialize the database schema for the given driver.
func InitSchema(conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	floatType := "REAL"
	if driver == db.DriverPostgres {
		floatType = "DOUBLE PRECISION"
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStateQuery := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lng %[1]s NOT NULL,
        lat %[1]s NOT NULL
    );
	`, floatType)

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        profile TEXT NOT NULL,
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        points TEXT NOT NULL,
        PRIMARY KEY (profile, origin, destination)
    );
	`

	statements := []string{
		createStateQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate stored favorites from a JSON array of candidate results.
// Seeded items keep their order; duplicates within a category are skipped.
// Items without an image get one from the static pool.
func SeedFromJSON(ctx context.Context, repo ports.StateRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed favorites: read %q: %w", jsonPath, err)
	}

	var data []domain.CandidateResult
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed favorites: parse json: %w", err)
	}

	favs := domain.Favorites{}
	added := 0
	for i, item := range data {
		if strings.TrimSpace(item.ID) == "" {
			return 0, fmt.Errorf("seed favorites: item at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(item.Title) == "" {
			return 0, fmt.Errorf("seed favorites: item %q: title cannot be empty", item.ID)
		}
		c, err := domain.ParseCategory(string(item.Category))
		if err != nil {
			return 0, fmt.Errorf("seed favorites: item %q: %w", item.ID, err)
		}
		item.Category = c
		if strings.TrimSpace(item.Image) == "" {
			item.Image = domain.PoolImage(nil, item.Title, c)
		}

		var ok bool
		if favs, ok = favs.With(item); ok {
			added++
		}
	}

	b, err := json.Marshal(favs)
	if err != nil {
		return 0, fmt.Errorf("seed favorites: encode: %w", err)
	}
	if err := repo.Save(ctx, ports.StateFavorites, b); err != nil {
		return 0, fmt.Errorf("seed favorites: %w", err)
	}

	return added, nil
}
