package webhooks

import (
	"context"
	"fmt"
	"net/url"

	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/logger"
	"github.com/svetline/svetline-backend/pkg/metrics"
	"github.com/svetline/svetline-backend/pkg/redis"
)

// recordUpserter is the slice of the payment repository the verifier needs.
type recordUpserter interface {
	Upsert(ctx context.Context, record *models.PaymentRecord) (*models.PaymentRecord, error)
}

// eventGuard marks provider events as seen so redeliveries can be spotted
// in the logs. It never blocks processing; the upsert is idempotent anyway.
type eventGuard interface {
	MarkEventSeen(ctx context.Context, provider, eventID string) (firstDelivery bool, err error)
}

// Service verifies inbound payment notifications and persists the
// resulting status transition.
type Service interface {
	HandleTBank(ctx context.Context, payload []byte) error
	HandlePlatron(ctx context.Context, form url.Values) error
}

type service struct {
	records   recordUpserter
	guard     eventGuard
	providers config.ProvidersConfig
	metrics   *metrics.PaymentMetrics
	logg      *logger.Logger
}

// NewService builds the webhook verifier.
func NewService(records recordUpserter, guard eventGuard, providers config.ProvidersConfig, pm *metrics.PaymentMetrics, logg *logger.Logger) (Service, error) {
	if records == nil {
		return nil, fmt.Errorf("payment record store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		records:   records,
		guard:     guard,
		providers: providers,
		metrics:   pm,
		logg:      logg,
	}, nil
}

// optionalString maps provider fields onto the nullable customer columns.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *service) noteDelivery(ctx context.Context, provider, paymentID string) {
	if s.guard == nil || paymentID == "" {
		return
	}
	first, err := s.guard.MarkEventSeen(ctx, provider, paymentID)
	if err != nil {
		s.logg.Error(ctx, "webhook.guard_failed", err)
		return
	}
	if !first {
		s.logg.Info(s.logg.WithProvider(ctx, provider), "webhook.redelivery")
	}
}

// RedisEventGuard tracks seen webhook events in redis.
type RedisEventGuard struct {
	client *redis.Client
	ttl    config.CheckoutConfig
}

// NewRedisEventGuard wraps the shared redis client.
func NewRedisEventGuard(client *redis.Client, cfg config.CheckoutConfig) *RedisEventGuard {
	return &RedisEventGuard{client: client, ttl: cfg}
}

// MarkEventSeen implements eventGuard.
func (g *RedisEventGuard) MarkEventSeen(ctx context.Context, provider, eventID string) (bool, error) {
	if g == nil || g.client == nil {
		return true, nil
	}
	return g.client.SetNX(ctx, g.client.WebhookEventKey(provider, eventID), "1", g.ttl.WebhookGuardTTL)
}
