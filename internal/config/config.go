// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port            string
	BearerToken     string
	ShutdownTimeout time.Duration

	// Optional backends. Empty means the in-memory implementation is used.
	DatabaseURL      string
	RedisURL         string
	MigrationsOnBoot bool

	// Optional collaborator keys. Empty means the collaborator is not configured.
	OpenWeatherKey  string
	GooglePlacesKey string
	OpenTripMapKey  string

	OverpassURL     string
	DisableOverpass bool
	NominatimURL    string

	SearchRadiusKm  float64
	SourceTimeout   time.Duration
	CheckpointLimit int

	// RandomSeed seeds the fallback generators when HasRandomSeed is set.
	RandomSeed    uint64
	HasRandomSeed bool
}

// Load reads an optional .env file in the working directory and then the
// process environment. Real environment variables win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	token, err := mustEnv("BEARER_TOKEN")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		BearerToken:     token,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenWeatherKey:  os.Getenv("OPENWEATHER_API_KEY"),
		GooglePlacesKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		OpenTripMapKey:  os.Getenv("OPENTRIPMAP_API_KEY"),
		OverpassURL:     getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		NominatimURL:    getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
	}

	if cfg.DisableOverpass, err = getBool("DISABLE_OVERPASS", false); err != nil {
		return nil, err
	}
	if cfg.MigrationsOnBoot, err = getBool("RUN_MIGRATIONS", true); err != nil {
		return nil, err
	}
	if cfg.SearchRadiusKm, err = getFloat("SEARCH_RADIUS_KM", 10); err != nil {
		return nil, err
	}
	if cfg.SourceTimeout, err = getDuration("SOURCE_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CheckpointLimit, err = getInt("CHECKPOINT_CONCURRENCY", 4); err != nil {
		return nil, err
	}

	if v := os.Getenv("RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing RANDOM_SEED: %w", err)
		}
		cfg.RandomSeed = seed
		cfg.HasRandomSeed = true
	}

	if cfg.SearchRadiusKm <= 0 {
		return nil, fmt.Errorf("SEARCH_RADIUS_KM must be positive, got %v", cfg.SearchRadiusKm)
	}
	if cfg.CheckpointLimit <= 0 {
		return nil, fmt.Errorf("CHECKPOINT_CONCURRENCY must be positive, got %d", cfg.CheckpointLimit)
	}

	return cfg, nil
}

func mustEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s not set", key)
	}
	return v, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
