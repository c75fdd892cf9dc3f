// Package metrics records Prometheus metrics for store actions and state
// mutations.
//
//	collector := metrics.New(metrics.WithNamespace("myapp"))
//	r := store.NewRegistry(store.WithPlugins(collector.Plugin))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - vstore_actions_total: Counter of actions by store, action and status
//   - vstore_action_duration_seconds: Histogram of action duration, including
//     the time a pending result takes to settle
//   - vstore_action_errors_total: Counter of failed actions by error type
//   - vstore_mutations_total: Counter of state mutations by store and type
//   - vstore_stores_constructed_total: Counter of store constructions
package metrics

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/store"
)

// Config configures the metrics collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vstore").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for action duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics collector.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "vstore",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics. One collector may serve any number
// of registries; stores are told apart by their id label only.
type Collector struct {
	actionsTotal      *prometheus.CounterVec
	actionDuration    *prometheus.HistogramVec
	actionErrors      *prometheus.CounterVec
	mutationsTotal    *prometheus.CounterVec
	storesConstructed *prometheus.CounterVec
}

// New registers the metrics with the configured registry and returns the
// collector. It panics if the metrics are already registered there, like
// promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of store actions called",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "action", "status"}),

		actionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_duration_seconds",
			Help:        "Action duration in seconds, until the result settles",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store", "action"}),

		actionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_errors_total",
			Help:        "Total number of failed store actions",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "action", "error_type"}),

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total number of state mutations",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "type"}),

		storesConstructed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stores_constructed_total",
			Help:        "Total number of store instances constructed",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),
	}
}

// Plugin instruments a newly constructed store. Install it with
// store.WithPlugins(c.Plugin) or Registry.Use(c.Plugin).
func (c *Collector) Plugin(ctx store.PluginContext) {
	id := ctx.Store.ID()
	c.storesConstructed.WithLabelValues(id).Inc()

	ctx.Store.OnAction(func(call *store.ActionContext) {
		start := time.Now()

		call.After(func(any) any {
			c.actionDuration.WithLabelValues(id, call.Name).Observe(time.Since(start).Seconds())
			c.actionsTotal.WithLabelValues(id, call.Name, "success").Inc()
			return nil
		})
		call.OnError(func(err error) {
			c.actionDuration.WithLabelValues(id, call.Name).Observe(time.Since(start).Seconds())
			c.actionsTotal.WithLabelValues(id, call.Name, "error").Inc()
			c.actionErrors.WithLabelValues(id, call.Name, categorizeError(err)).Inc()
		})
	})

	ctx.Store.Subscribe(func(m store.Mutation, _ *store.State) {
		c.mutationsTotal.WithLabelValues(id, m.Type.String()).Inc()
	})
}

// categorizeError returns a low-cardinality label for err: the code of a
// runtime error, "canceled" for context errors and "action" otherwise.
func categorizeError(err error) string {
	var coded *errors.Error
	if stderrors.As(err, &coded) && coded.Code != "" {
		return coded.Code
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "action"
}
