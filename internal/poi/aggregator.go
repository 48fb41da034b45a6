package poi

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/roadtrip-planner/internal/geo"
	"github.com/neexbeast/roadtrip-planner/internal/metrics"
)

const (
	// MaxResults caps the POIs returned for one search.
	MaxResults = 20

	defaultSourceTimeout = 8 * time.Second
)

// Aggregator queries every configured source in parallel and merges the
// results. Source failures are non-fatal: a failing source contributes
// nothing and is logged.
type Aggregator struct {
	sources []Source
	timeout time.Duration
	metrics *metrics.Pipeline
	log     *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAggregator constructs an Aggregator. Sources are listed in priority
// order; that order is kept when merging. rng drives the synthetic fallback
// set and may be nil for a randomly seeded source.
func NewAggregator(sources []Source, timeout time.Duration, rng *rand.Rand, m *metrics.Pipeline, log *slog.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{sources: sources, timeout: timeout, rng: rng, metrics: m, log: log}
}

// SearchNear returns up to MaxResults deduplicated POIs near loc. It never
// returns an empty slice: when every source comes back empty a synthetic
// set is generated instead.
func (a *Aggregator) SearchNear(ctx context.Context, loc geo.Location, hints []string, radiusKm float64) []POI {
	results := make([][]RawRecord, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			results[i] = a.query(ctx, src, loc, hints, radiusKm)
			return nil
		})
	}
	_ = g.Wait()

	var pool []POI
	for _, recs := range results {
		for _, rec := range recs {
			if p, ok := Normalize(rec); ok {
				pool = append(pool, p)
			}
		}
	}

	if len(pool) == 0 {
		a.log.Info("no POIs from any source, generating fallback set", "location", geo.RoundKey(loc, 4))
		a.metrics.FallbackUsed("poi")
		pool = a.synthesize(loc, hints, radiusKm)
	}

	return truncate(Dedup(pool), MaxResults)
}

// query runs one source under its own timeout, turning errors and panics
// into an empty contribution.
func (a *Aggregator) query(ctx context.Context, src Source, loc geo.Location, hints []string, radiusKm float64) (recs []RawRecord) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("poi source panicked", "source", src.Name(), "recover", r)
			a.metrics.SourceFailed(src.Name())
			recs = nil
		}
	}()

	sctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	recs, err := src.Search(sctx, loc, hints, radiusKm)
	if err != nil {
		a.log.Warn("poi source failed", "source", src.Name(), "location", geo.RoundKey(loc, 4), "err", err)
		a.metrics.SourceFailed(src.Name())
		return nil
	}
	return recs
}

// Dedup drops later POIs whose DedupKey matches an earlier one.
func Dedup(pois []POI) []POI {
	seen := make(map[string]struct{}, len(pois))
	out := make([]POI, 0, len(pois))
	for _, p := range pois {
		k := p.DedupKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

func truncate(pois []POI, n int) []POI {
	if len(pois) > n {
		return pois[:n]
	}
	return pois
}
