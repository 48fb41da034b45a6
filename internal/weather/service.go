package weather

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/metrics"
)

// FreshFor is how long a cached snapshot may be served.
const FreshFor = 30 * time.Minute

// bucketPlaces is the coordinate rounding used for cache keys (~1 km).
const bucketPlaces = 2

// Provider is the external weather collaborator.
type Provider interface {
	Fetch(ctx context.Context, loc geo.Location) (*Snapshot, error)
}

// Cache stores snapshots by coordinate bucket. Get returns nil, nil on a miss
// or when the entry has expired.
type Cache interface {
	Get(ctx context.Context, key string) (*Snapshot, error)
	Set(ctx context.Context, key string, s Snapshot) error
}

// Service resolves weather for a location: cache first, then the provider,
// then a synthetic snapshot. Fetch never fails.
type Service struct {
	provider Provider
	cache    Cache
	metrics  *metrics.Pipeline
	log      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService constructs a Service. provider may be nil, in which case every
// cache miss is answered with a synthetic snapshot.
func NewService(provider Provider, cache Cache, rng *rand.Rand, m *metrics.Pipeline, log *slog.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache(FreshFor)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{provider: provider, cache: cache, rng: rng, metrics: m, log: log}
}

// CacheKey returns the bucket key for a location.
func CacheKey(loc geo.Location) string {
	return geo.RoundKey(loc, bucketPlaces)
}

// Fetch returns the weather at loc.
func (s *Service) Fetch(ctx context.Context, loc geo.Location) Snapshot {
	key := CacheKey(loc)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("weather cache get failed", "key", key, "err", err)
	}
	if cached != nil {
		s.metrics.WeatherCacheLookup(true)
		return *cached
	}
	s.metrics.WeatherCacheLookup(false)

	if s.provider != nil {
		snap, err := s.provider.Fetch(ctx, loc)
		if err == nil && snap != nil {
			if snap.Icon == "" {
				snap.Icon = snap.Condition.Icon()
			}
			if err := s.cache.Set(ctx, key, *snap); err != nil {
				s.log.Warn("weather cache set failed", "key", key, "err", err)
			}
			return *snap
		}
		s.log.Warn("weather fetch failed, using synthetic snapshot", "key", key, "err", err)
	}

	s.metrics.FallbackUsed("weather")
	return s.synthesize()
}

type archetype struct {
	condition Condition
	minTemp   float64
	maxTemp   float64
}

var archetypes = []archetype{
	{Sunny, 22, 32},
	{PartlyCloudy, 18, 26},
	{Cloudy, 14, 22},
	{LightRain, 12, 20},
	{Clear, 16, 28},
}

// synthesize picks an archetype uniformly at random. Synthetic snapshots
// are not cached so a recovered provider is used on the next call.
func (s *Service) synthesize() Snapshot {
	s.mu.Lock()
	a := archetypes[s.rng.IntN(len(archetypes))]
	temp := a.minTemp + s.rng.Float64()*(a.maxTemp-a.minTemp)
	humidity := 40 + s.rng.IntN(41)
	wind := 5 + s.rng.Float64()*15
	s.mu.Unlock()

	return Snapshot{
		Temperature: math.Round(temp*10) / 10,
		Condition:   a.condition,
		Humidity:    humidity,
		WindSpeed:   math.Round(wind*10) / 10,
		Icon:        a.condition.Icon(),
	}
}

// MemoryCache is an in-process Cache with a fixed freshness window.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	snap    Snapshot
	expires time.Time
}

// NewMemoryCache returns a MemoryCache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// WithClock replaces the cache's time source.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, nil
	}
	snap := e.snap
	return &snap, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, s Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{snap: s, expires: c.now().Add(c.ttl)}
	return nil
}
