package form

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "formguard").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for validation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "formguard",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors shared by every Form configured
// with it. A nil *Metrics records nothing.
//
// Metrics collected:
//   - formguard_fields_validated_total: fields validated by outcome
//   - formguard_rule_failures_total: surfaced errors by rule
//   - formguard_validate_duration_seconds: whole-form validation time
//   - formguard_presenter_panics_total: recovered presenter panics
type Metrics struct {
	fieldsValidated  *prometheus.CounterVec
	ruleFailures     *prometheus.CounterVec
	validateDuration prometheus.Histogram
	presenterPanics  prometheus.Counter
}

// NewMetrics registers the collectors. Registering twice with the same
// registry panics, so create one Metrics per registry and share it.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		fieldsValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fields_validated_total",
			Help:        "Total number of fields validated by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		ruleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rule_failures_total",
			Help:        "Total number of surfaced field errors by rule",
			ConstLabels: config.ConstLabels,
		}, []string{"rule"}),

		validateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validate_duration_seconds",
			Help:        "Whole-form validation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		presenterPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "presenter_panics_total",
			Help:        "Total number of recovered presenter panics",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observeField(outcome, rule string) {
	if m == nil {
		return
	}
	m.fieldsValidated.WithLabelValues(outcome).Inc()
	if outcome == OutcomeInvalid {
		m.ruleFailures.WithLabelValues(rule).Inc()
	}
}

func (m *Metrics) observeValidate(d time.Duration) {
	if m == nil {
		return
	}
	m.validateDuration.Observe(d.Seconds())
}

func (m *Metrics) observePanic() {
	if m == nil {
		return
	}
	m.presenterPanics.Inc()
}
