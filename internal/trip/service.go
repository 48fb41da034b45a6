package trip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/metrics"
	"github.com/neexbeast/roadtrip-planner/internal/poi"
	"github.com/neexbeast/roadtrip-planner/internal/scoring"
	"github.com/neexbeast/roadtrip-planner/internal/weather"
)

const (
	DefaultRadiusKm    = 10.0
	DefaultConcurrency = 4
)

// POIFinder is satisfied by *poi.Aggregator.
type POIFinder interface {
	SearchNear(ctx context.Context, loc geo.Location, hints []string, radiusKm float64) []poi.POI
}

// WeatherFetcher is satisfied by *weather.Service.
type WeatherFetcher interface {
	Fetch(ctx context.Context, loc geo.Location) weather.Snapshot
}

// Options tunes the per-checkpoint search.
type Options struct {
	RadiusKm    float64
	Concurrency int
}

// Service runs the route pipeline and saves the resulting plan.
type Service struct {
	pois    POIFinder
	weather WeatherFetcher
	engine  *scoring.Engine
	store   Store
	opts    Options
	metrics *metrics.Pipeline
	log     *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires the pipeline collaborators. Zero Options fields fall back
// to DefaultRadiusKm and DefaultConcurrency.
func NewService(pois POIFinder, w WeatherFetcher, engine *scoring.Engine, store Store, opts Options, m *metrics.Pipeline, log *slog.Logger) *Service {
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = DefaultRadiusKm
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if engine == nil {
		engine = scoring.NewEngine()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pois:    pois,
		weather: w,
		engine:  engine,
		store:   store,
		opts:    opts,
		metrics: m,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock replaces the timestamp source. Used in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ProcessRoute validates in, enriches every checkpoint, ranks and
// diversifies the POIs, and saves the plan. Nothing is saved when ctx is
// done before the pipeline finishes.
func (s *Service) ProcessRoute(ctx context.Context, in RouteInput) (*Plan, error) {
	start := time.Now()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.process(ctx, in)
	if err != nil {
		s.metrics.RouteProcessed("error", time.Since(start))
		return nil, err
	}
	s.metrics.RouteProcessed("ok", time.Since(start))
	return plan, nil
}

func (s *Service) process(ctx context.Context, in RouteInput) (*Plan, error) {
	checkpoints := PlanCheckpoints(in)

	perCheckpoint := make([][]poi.POI, len(checkpoints))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, cp := range checkpoints {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			perCheckpoint[i] = s.enrich(gCtx, in, cp)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing route: %w", err)
	}

	pool := uniqueByID(perCheckpoint)
	ranked := s.engine.Rank(pool, in.Preferences, in.DepartureTime)
	selected := scoring.Diversify(ranked)

	now := s.now().UTC()
	plan := &Plan{
		ID:              s.newID(),
		Route:           in,
		Checkpoints:     checkpoints,
		POIs:            selected,
		TotalDistanceKm: geo.DistanceKm(in.Origin, in.Destination),
		Bounds:          planBounds(checkpoints, selected),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Save(ctx, plan); err != nil {
		s.log.Error("saving trip plan failed", "id", plan.ID, "err", err)
		return nil, fmt.Errorf("saving trip plan: %w", err)
	}

	s.log.Info("trip plan created",
		"id", plan.ID,
		"checkpoints", len(checkpoints),
		"candidates", len(pool),
		"selected", len(selected),
	)
	return plan, nil
}

// enrich fetches weather and POIs for one checkpoint concurrently, then
// attaches the weather and the distance to the nearer route endpoint to
// every POI.
func (s *Service) enrich(ctx context.Context, in RouteInput, cp Checkpoint) []poi.POI {
	var g errgroup.Group

	snapshot := weather.Snapshot{Condition: weather.Unknown, Icon: weather.Unknown.Icon()}
	var found []poi.POI

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("weather fetch panicked", "checkpoint", cp.Index, "recover", r)
			}
		}()
		snapshot = s.weather.Fetch(ctx, cp.Location)
		return nil
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("poi search panicked", "checkpoint", cp.Index, "recover", r)
				found = nil
			}
		}()
		found = s.pois.SearchNear(ctx, cp.Location, in.Preferences, s.opts.RadiusKm)
		return nil
	})

	_ = g.Wait()

	out := make([]poi.POI, 0, len(found))
	for _, p := range found {
		w := snapshot
		p.Weather = &w
		p.DistanceFromRoute, p.ClosestTo = geo.ClosestEndpoint(p.Location, in.Origin, in.Destination)
		out = append(out, p)
	}
	return out
}

// uniqueByID flattens per-checkpoint results in checkpoint order, keeping
// the first occurrence of each POI id.
func uniqueByID(perCheckpoint [][]poi.POI) []poi.POI {
	seen := make(map[string]struct{})
	var out []poi.POI
	for _, pois := range perCheckpoint {
		for _, p := range pois {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func planBounds(checkpoints []Checkpoint, pois []scoring.ScoredPOI) Bounds {
	locs := make([]geo.Location, 0, len(checkpoints)+len(pois))
	for _, cp := range checkpoints {
		locs = append(locs, cp.Location)
	}
	for _, p := range pois {
		locs = append(locs, p.Location)
	}
	b := geo.Bounds(locs...)
	return Bounds{MinLat: b.Min.Lat(), MinLng: b.Min.Lon(), MaxLat: b.Max.Lat(), MaxLng: b.Max.Lon()}
}
