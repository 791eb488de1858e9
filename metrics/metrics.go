// Package metrics exports runtime scheduling events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	sig "github.com/AnatoleLucet/signalgraph"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "sig").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: exponential from 10µs to ~160ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the pass duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "sig",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records runtime events into Prometheus collectors.
// Register it with sig.WithObserver.
//
// Metrics collected:
//   - sig_passes_total: propagation passes
//   - sig_runs_total: computation runs by kind (memo, effect)
//   - sig_deferred_total: re-triggers pushed to the next pass
//   - sig_writes_total: queued writes that changed a value
//   - sig_failures_total: failed computation runs by kind
//   - sig_deferral_limit_total: flushes stopped by the pass limit
//   - sig_pass_duration_seconds: pass duration
type Observer struct {
	passes        prometheus.Counter
	runs          *prometheus.CounterVec
	deferred      prometheus.Counter
	writes        prometheus.Counter
	failures      *prometheus.CounterVec
	deferralLimit prometheus.Counter
	passDuration  prometheus.Histogram
}

var _ sig.Observer = (*Observer)(nil)

// New creates the collectors and registers them. It panics if they are already registered,
// like promauto does.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of propagation passes",
			ConstLabels: config.ConstLabels,
		}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "runs_total",
			Help:        "Total number of computation runs inside passes",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		deferred: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "deferred_total",
			Help:        "Total number of computations re-triggered in a pass they already ran in",
			ConstLabels: config.ConstLabels,
		}),

		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of queued writes that changed a value",
			ConstLabels: config.ConstLabels,
		}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed computation runs",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		deferralLimit: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "deferral_limit_total",
			Help:        "Total number of flushes stopped by the pass limit",
			ConstLabels: config.ConstLabels,
		}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Propagation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (o *Observer) PassCompleted(stats sig.PassStats) {
	o.passes.Inc()
	o.runs.WithLabelValues(sig.KindMemo.String()).Add(float64(stats.Runs - stats.EffectRuns))
	o.runs.WithLabelValues(sig.KindEffect.String()).Add(float64(stats.EffectRuns))
	o.deferred.Add(float64(stats.Deferred))
	o.writes.Add(float64(stats.Writes))
	o.passDuration.Observe(stats.Duration.Seconds())
}

func (o *Observer) ComputationFailed(id uint64, kind sig.Kind, err error) {
	o.failures.WithLabelValues(kind.String()).Inc()
}

func (o *Observer) DeferralLimitExceeded(passes int) {
	o.deferralLimit.Inc()
}
