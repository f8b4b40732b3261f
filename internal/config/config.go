package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration read from the environment.
// Call godotenv.Load before Load so a local .env file is honored.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	RedisAddr string
	RouteTTL  time.Duration

	ORSAPIKey    string
	ORSBaseURL   string
	RouteProfile string

	SearchBaseURL string

	ImageSearchURL string
	ImageSearchKey string
	ImageTimeout   time.Duration

	WeatherBaseURL string
	WeatherRefresh time.Duration

	ExportURL string
}

func Load() *Config {
	return &Config{
		Port:     Get("PORT", "8080"),
		Env:      Get("ENV", "development"),
		LogLevel: Get("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SeedPath:    Get("SEED_PATH", "data/seeds/favorites.json"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RouteTTL:  GetDuration("ROUTE_CACHE_TTL", 24*time.Hour),

		ORSAPIKey:    strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSBaseURL:   Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		RouteProfile: Get("ROUTE_PROFILE", "driving-car"),

		SearchBaseURL: Get("SEARCH_BASE_URL", "http://localhost:8081/api/travel/ask"),

		ImageSearchURL: Get("IMAGE_SEARCH_URL", "https://api.unsplash.com"),
		ImageSearchKey: os.Getenv("IMAGE_SEARCH_KEY"),
		ImageTimeout:   GetDuration("IMAGE_TIMEOUT", 3*time.Second),

		WeatherBaseURL: Get("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		WeatherRefresh: GetDuration("WEATHER_REFRESH", 30*time.Minute),

		ExportURL: os.Getenv("EXPORT_URL"),
	}
}

// Get returns the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
