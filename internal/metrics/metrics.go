// Package metrics exposes Prometheus instrumentation for the route pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline holds the collectors for one registry. A nil *Pipeline is valid
// and records nothing, so services can be built without metrics in tests.
type Pipeline struct {
	registry       *prometheus.Registry
	sourceFailures *prometheus.CounterVec
	fallbacks      *prometheus.CounterVec
	weatherCache   *prometheus.CounterVec
	routeDuration  *prometheus.HistogramVec
}

// NewPipeline registers the pipeline collectors on a fresh registry.
func NewPipeline() *Pipeline {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Pipeline{
		registry: reg,
		sourceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poi_source_failures_total",
			Help: "POI source calls that failed and contributed no results",
		}, []string{"source"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fallback_activations_total",
			Help: "Times synthetic data was generated in place of a collaborator result",
		}, []string{"kind"}),
		weatherCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_lookups_total",
			Help: "Weather cache lookups by result",
		}, []string{"result"}),
		routeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "route_process_duration_seconds",
			Help:    "Time taken to build a trip plan",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Pipeline) Handler() http.Handler {
	if p == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *Pipeline) Registry() *prometheus.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

func (p *Pipeline) SourceFailed(source string) {
	if p == nil {
		return
	}
	p.sourceFailures.WithLabelValues(source).Inc()
}

func (p *Pipeline) FallbackUsed(kind string) {
	if p == nil {
		return
	}
	p.fallbacks.WithLabelValues(kind).Inc()
}

func (p *Pipeline) WeatherCacheLookup(hit bool) {
	if p == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.weatherCache.WithLabelValues(result).Inc()
}

func (p *Pipeline) RouteProcessed(status string, d time.Duration) {
	if p == nil {
		return
	}
	p.routeDuration.WithLabelValues(status).Observe(d.Seconds())
}
