package form

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	f := newSignup(t, &Config{Metrics: m})

	f.Validate()

	tests := []struct {
		outcome string
		want    float64
	}{
		// email, age, plan, terms, country, avatar
		{OutcomeInvalid, 6},
		// bio
		{OutcomeValid, 1},
		// nickname, code, secret
		{OutcomeSkipped, 3},
	}
	for _, tt := range tests {
		if got := metricCounterValue(t, m.fieldsValidated.WithLabelValues(tt.outcome)); got != tt.want {
			t.Errorf("fields_validated_total(%s) = %v, want %v", tt.outcome, got, tt.want)
		}
	}
	if got := metricCounterValue(t, m.ruleFailures.WithLabelValues("required")); got != 4 {
		t.Errorf("rule_failures_total(required) = %v, want 4", got)
	}
	if got := metricCounterValue(t, m.ruleFailures.WithLabelValues("min")); got != 1 {
		t.Errorf("rule_failures_total(min) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.validateDuration); got != 1 {
		t.Errorf("validate_duration_seconds count = %d, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, fam := range families {
		if fam.GetName() == "test_fields_validated_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected test_fields_validated_total to be registered")
	}
}

func TestMetrics_PresenterPanics(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	f := newSignup(t, &Config{Metrics: m, Presenter: panickyPresenter{}})

	f.Trigger("age")
	if got := metricCounterValue(t, m.presenterPanics); got != 2 {
		t.Errorf("presenter_panics_total = %v, want 2 (show + mark)", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.observeField(OutcomeInvalid, "required")
	m.observeValidate(0)
	m.observePanic()
}
