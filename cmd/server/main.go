package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/roadtrip-planner/internal/api"
	"github.com/neexbeast/roadtrip-planner/internal/cache"
	"github.com/neexbeast/roadtrip-planner/internal/config"
	"github.com/neexbeast/roadtrip-planner/internal/geocode"
	"github.com/neexbeast/roadtrip-planner/internal/metrics"
	"github.com/neexbeast/roadtrip-planner/internal/poi"
	"github.com/neexbeast/roadtrip-planner/internal/scoring"
	"github.com/neexbeast/roadtrip-planner/internal/storage"
	"github.com/neexbeast/roadtrip-planner/internal/trip"
	"github.com/neexbeast/roadtrip-planner/internal/weather"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// planStore is the union of what the pipeline and the HTTP layer need.
type planStore interface {
	trip.Store
	api.PlanStore
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	pipelineMetrics := metrics.NewPipeline()

	// Trip store: Postgres when configured, otherwise process memory.
	var store planStore = storage.NewMemoryStore()
	var dbPinger, redisPinger healthPinger
	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		if cfg.MigrationsOnBoot {
			if err := storage.RunMigrations(ctx, pool, storage.Migrations()); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			log.Info("migrations applied")
		}

		store = storage.NewPlanRepository(pool)
		dbPinger = &pgxPoolPinger{pool: pool}
	} else {
		log.Info("DATABASE_URL not set, trip plans are kept in memory")
	}

	// Weather cache: Redis when configured, otherwise process memory.
	var weatherCache weather.Cache
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		weatherCache = cache.NewWeatherCache(redisClient)
		redisPinger = &redisPingerAdapter{client: redisClient}
	}

	// Collaborators.
	var weatherProvider weather.Provider
	if cfg.OpenWeatherKey != "" {
		weatherProvider = weather.NewOpenWeatherClient(cfg.OpenWeatherKey, cfg.SourceTimeout)
	} else {
		log.Warn("OPENWEATHER_API_KEY not set, weather will be synthesized")
	}

	sources := poiSources(cfg)
	if len(sources) == 0 {
		log.Warn("no POI sources configured, every checkpoint will use the fallback set")
	}

	weatherSvc := weather.NewService(weatherProvider, weatherCache, newRand(cfg), pipelineMetrics, log)
	aggregator := poi.NewAggregator(sources, cfg.SourceTimeout, newRand(cfg), pipelineMetrics, log)
	planner := trip.NewService(aggregator, weatherSvc, scoring.NewEngine(), store, trip.Options{
		RadiusKm:    cfg.SearchRadiusKm,
		Concurrency: cfg.CheckpointLimit,
	}, pipelineMetrics, log)
	geocoder := geocode.NewClient(cfg.NominatimURL, cfg.SourceTimeout)

	handlers := api.NewHandlers(planner, store, geocoder, log)
	router := api.NewRouter(handlers, cfg.BearerToken, pipelineMetrics.Handler(), dbPinger, redisPinger, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port, "poi_sources", len(sources))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// poiSources lists the configured sources in priority order.
func poiSources(cfg *config.Config) []poi.Source {
	var sources []poi.Source
	if cfg.GooglePlacesKey != "" {
		sources = append(sources, poi.NewPlacesClient(cfg.GooglePlacesKey, cfg.SourceTimeout))
	}
	if !cfg.DisableOverpass && cfg.OverpassURL != "" {
		sources = append(sources, poi.NewOverpassClient(cfg.OverpassURL, cfg.SourceTimeout))
	}
	if cfg.OpenTripMapKey != "" {
		sources = append(sources, poi.NewOpenTripMapClient(cfg.OpenTripMapKey, cfg.SourceTimeout))
	}
	return sources
}

// newRand returns a generator for the fallback paths. With RANDOM_SEED set
// every call yields an identically seeded generator.
func newRand(cfg *config.Config) *rand.Rand {
	if !cfg.HasRandomSeed {
		return nil
	}
	return rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed))
}

// healthPinger is left nil for backends that are not configured.
type healthPinger interface {
	Ping(ctx context.Context) error
}

// pgxPoolPinger adapts pgxpool.Pool to the api.dbPinger interface.
type pgxPoolPinger struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p *pgxPoolPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// redisPingerAdapter adapts redis.Client to the api.redisPinger interface.
type redisPingerAdapter struct {
	client *redis.Client
}

func (r *redisPingerAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
