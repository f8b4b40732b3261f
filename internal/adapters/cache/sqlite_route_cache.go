package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// SQLite backed cache for directions results, keyed by profile and endpoints.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

func (s *SqliteRouteCache) Get(
	ctx context.Context,
	profile string,
	start, end domain.Coordinates,
) (ports.RouteResult, bool, error) {
	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	var (
		meters, seconds int
		points          string
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT
        distance_meters,
        duration_seconds,
        points
    FROM route_cache
    WHERE profile = ?
        AND origin = ?
        AND destination = ?;
	`, profile, start.String(), end.String()).Scan(&meters, &seconds, &points)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var pts []domain.Coordinates
	if err := json.Unmarshal([]byte(points), &pts); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode points: %w", err)
	}

	return ports.RouteResult{DistanceMeters: meters, DurationSeconds: seconds, Points: pts}, true, nil
}

func (s *SqliteRouteCache) Put(
	ctx context.Context,
	profile string,
	start, end domain.Coordinates,
	r ports.RouteResult,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	points, err := json.Marshal(r.Points)
	if err != nil {
		return fmt.Errorf("insert route cache: encode points: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO route_cache (
        profile,
        origin,
        destination,
        distance_meters,
        duration_seconds,
        points
    )
    VALUES (?, ?, ?, ?, ?, ?);
	`, profile, start.String(), end.String(), r.DistanceMeters, r.DurationSeconds, string(points))
	if err != nil {
		return fmt.Errorf("insert route cache %s->%s: %w", start, end, err)
	}
	return nil
}
