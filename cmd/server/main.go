package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/export"
	"trip-planner-service/internal/adapters/images"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/adapters/search"
	"trip-planner-service/internal/adapters/weather"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, ORS, Redis, travel search) behind ports
// and starts the HTTP server.
func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	obs.InitLogger("trip-planner", cfg.Env, cfg.LogLevel)
	if envErr != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := openDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn, cfg.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	session := &http.Client{Timeout: 15 * time.Second}

	stateRepo, geocodeCache := persistence(conn, cfg.DBDriver)

	router, geocoder, profile, err := buildRouting(cfg, geocodeCache, session)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	routeCache, closeCache := buildRouteCache(ctx, cfg, conn)
	defer closeCache()
	cachedRouter := routing.NewCachedRouter(router, routeCache, profile)

	store := services.NewPlannerStore(stateRepo, services.NewScheduler(), services.NewRouteSummarizer(cachedRouter))
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load planner state")
	}

	travel, err := search.NewTravelClient(cfg.SearchBaseURL, session)
	if err != nil {
		log.Fatal().Err(err).Msg("build search client")
	}

	var searcher ports.ImageSearcher
	if cfg.ImageSearchKey != "" {
		u, err := images.NewUnsplashSearcher(cfg.ImageSearchURL, cfg.ImageSearchKey, session)
		if err != nil {
			log.Fatal().Err(err).Msg("build image searcher")
		}
		searcher = u
	}
	resolver := services.NewImageResolver(images.NewHTTPProber(session), searcher, cfg.ImageTimeout)
	orchestrator := services.NewSearchOrchestrator(travel, geocoder, resolver)

	forecasts := services.NewWeatherService(weather.NewOpenMeteoClient(cfg.WeatherBaseURL, session), geocoder, store)

	exporter, err := buildExporter(cfg, session)
	if err != nil {
		log.Fatal().Err(err).Msg("build exporter")
	}

	// A new lodging or destination moves the forecast location.
	store.Subscribe(func(e services.Event) {
		if e.Kind != services.EventFavorites && e.Kind != services.EventDestination {
			return
		}
		go func() {
			if err := forecasts.Refresh(ctx); err != nil {
				log.Debug().Err(err).Msg("weather refresh after state change")
			}
		}()
	})
	go forecasts.Run(ctx, cfg.WeatherRefresh)

	handler := api.NewRouter(api.Deps{
		Store:   store,
		Search:  orchestrator,
		Weather: forecasts,
		Export:  services.NewExportService(store, forecasts, exporter),
	})

	// Timeouts are tuned for cold-cache searches (provider fan-out plus geocoding).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("db", cfg.DBDriver).Str("profile", profile).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case db.DriverSQLite:
		return db.OpenSQLite(cfg.DBPath)
	case db.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("openDB: DATABASE_URL is required for postgres")
		}
		return db.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("openDB: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func persistence(conn *sql.DB, driver string) (ports.StateRepository, ports.GeocodeCache) {
	if driver == db.DriverPostgres {
		return repositories.NewSQLStateRepository(conn), cache.NewSQLGeocodeCache(conn)
	}
	return repositories.NewSqliteStateRepository(conn), cache.NewSqliteGeocodeCache(conn)
}

// buildRouting uses OpenRouteService when a key is configured and falls back to
// straight-line estimates (with no geocoder) otherwise.
func buildRouting(
	cfg *config.Config,
	geocodeCache ports.GeocodeCache,
	session *http.Client,
) (ports.Router, ports.Geocoder, string, error) {
	if cfg.ORSAPIKey == "" {
		log.Warn().Msg("ORS_API_KEY not set; using straight-line routes and no geocoding")
		return routing.NewStraightLineRouter(), nil, "straight-line", nil
	}

	ors, err := routing.NewORSClient(cfg.ORSAPIKey,
		routing.WithBaseURL(cfg.ORSBaseURL),
		routing.WithProfile(cfg.RouteProfile),
		routing.WithGeocodeCache(geocodeCache),
		routing.WithHTTPClient(session),
	)
	if err != nil {
		return nil, nil, "", err
	}
	return ors, ors, ors.Profile(), nil
}

// buildRouteCache prefers Redis. Without it, SQLite deployments cache routes in the
// database and Postgres deployments run uncached.
func buildRouteCache(ctx context.Context, cfg *config.Config, conn *sql.DB) (ports.RouteCache, func()) {
	fallback := func() (ports.RouteCache, func()) {
		if cfg.DBDriver == db.DriverSQLite {
			return cache.NewSqliteRouteCache(conn), func() {}
		}
		return nil, func() {}
	}
	if cfg.RedisAddr == "" {
		return fallback()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; falling back")
		client.Close()
		return fallback()
	}
	return cache.NewRedisRouteCache(client, cfg.RouteTTL), func() { client.Close() }
}

func buildExporter(cfg *config.Config, session *http.Client) (ports.SummaryExporter, error) {
	if cfg.ExportURL == "" {
		return export.NewYAMLExporter(), nil
	}
	return export.NewHTTPExporter(cfg.ExportURL, session)
}
