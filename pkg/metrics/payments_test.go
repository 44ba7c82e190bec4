package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
)

func TestPaymentMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.IncInitiationSuccess("tbank")
	m.IncInitiationSuccess("tbank")
	m.IncInitiationFailure("platron")
	m.IncWebhookAccepted("tbank")
	m.IncWebhookRejected("")

	if got := fetchCounterValue(t, reg, "payment_initiation_success", "tbank"); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := fetchCounterValue(t, reg, "payment_initiation_failure", "platron"); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := fetchCounterValue(t, reg, "payment_webhook_accepted", "tbank"); got != 1 {
		t.Fatalf("expected 1 accepted webhook, got %v", got)
	}
	if got := fetchCounterValue(t, reg, "payment_webhook_rejected", "unknown"); got != 1 {
		t.Fatalf("empty provider should be recorded as unknown, got %v", got)
	}
}

func TestPaymentMetricsObserveInitiation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.ObserveInitiation("yookassa", 250*time.Millisecond)
	m.ObserveInitiation("yookassa", 750*time.Millisecond)

	sum, count := fetchHistogram(t, reg, "payment_initiation_duration_seconds", "yookassa")
	if count != 2 {
		t.Fatalf("expected 2 observations, got %d", count)
	}
	if sum < 0.99 || sum > 1.01 {
		t.Fatalf("expected sum near 1.0s, got %v", sum)
	}
}

func TestPaymentMetricsNilSafe(t *testing.T) {
	var m *PaymentMetrics
	m.IncInitiationSuccess("tbank")
	m.ObserveInitiation("tbank", time.Second)

	unregistered := NewPaymentMetrics(nil)
	unregistered.IncWebhookAccepted("tbank")
}

func fetchCounterValue(t *testing.T, reg *prometheus.Registry, name, provider string) float64 {
	t.Helper()
	mf := findMetricFamily(t, reg, name)
	for _, metric := range mf.GetMetric() {
		if matchesProvider(metric, provider) {
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("no series for provider %q in %s", provider, name)
	return 0
}

func fetchHistogram(t *testing.T, reg *prometheus.Registry, name, provider string) (float64, uint64) {
	t.Helper()
	mf := findMetricFamily(t, reg, name)
	for _, metric := range mf.GetMetric() {
		if matchesProvider(metric, provider) {
			h := metric.GetHistogram()
			return h.GetSampleSum(), h.GetSampleCount()
		}
	}
	t.Fatalf("no series for provider %q in %s", provider, name)
	return 0, 0
}

func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func matchesProvider(metric *dto.Metric, provider string) bool {
	for _, label := range metric.GetLabel() {
		if label.GetName() == "provider" && label.GetValue() == provider {
			return true
		}
	}
	return false
}
