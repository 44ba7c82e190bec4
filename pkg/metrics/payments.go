package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records initiation and webhook outcomes per provider.
type PaymentMetrics struct {
	initiationDuration *prometheus.HistogramVec
	initiationSuccess  *prometheus.CounterVec
	initiationFailure  *prometheus.CounterVec
	webhookAccepted    *prometheus.CounterVec
	webhookRejected    *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	initiationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_initiation_duration_seconds",
		Help:    "Duration of payment initiation calls per provider.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	initiationSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_initiation_success",
		Help: "Successful payment initiations.",
	}, []string{"provider"})
	initiationFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_initiation_failure",
		Help: "Failed payment initiations.",
	}, []string{"provider"})
	webhookAccepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_accepted",
		Help: "Webhook notifications that passed verification.",
	}, []string{"provider"})
	webhookRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_rejected",
		Help: "Webhook notifications rejected at verification.",
	}, []string{"provider"})
	reg.MustRegister(initiationDuration, initiationSuccess, initiationFailure, webhookAccepted, webhookRejected)
	return &PaymentMetrics{
		initiationDuration: initiationDuration,
		initiationSuccess:  initiationSuccess,
		initiationFailure:  initiationFailure,
		webhookAccepted:    webhookAccepted,
		webhookRejected:    webhookRejected,
	}
}

// ObserveInitiation records the duration of one initiation call.
func (p *PaymentMetrics) ObserveInitiation(provider string, duration time.Duration) {
	if p == nil || p.initiationDuration == nil {
		return
	}
	p.initiationDuration.WithLabelValues(normalizeLabel(provider)).Observe(duration.Seconds())
}

// IncInitiationSuccess increments the success counter for the provider.
func (p *PaymentMetrics) IncInitiationSuccess(provider string) {
	if p == nil || p.initiationSuccess == nil {
		return
	}
	p.initiationSuccess.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncInitiationFailure increments the failure counter for the provider.
func (p *PaymentMetrics) IncInitiationFailure(provider string) {
	if p == nil || p.initiationFailure == nil {
		return
	}
	p.initiationFailure.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncWebhookAccepted increments the accepted-webhook counter for the provider.
func (p *PaymentMetrics) IncWebhookAccepted(provider string) {
	if p == nil || p.webhookAccepted == nil {
		return
	}
	p.webhookAccepted.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncWebhookRejected increments the rejected-webhook counter for the provider.
func (p *PaymentMetrics) IncWebhookRejected(provider string) {
	if p == nil || p.webhookRejected == nil {
		return
	}
	p.webhookRejected.WithLabelValues(normalizeLabel(provider)).Inc()
}

func normalizeLabel(provider string) string {
	if provider == "" {
		return "unknown"
	}
	return provider
}
