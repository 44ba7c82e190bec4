package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/svetline/svetline-backend/internal/cart"
	"github.com/svetline/svetline-backend/internal/payments"
	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
	"github.com/svetline/svetline-backend/pkg/metrics"
	"github.com/svetline/svetline-backend/pkg/types"
)

// InitiateInput is the checkout payload from the storefront.
type InitiateInput struct {
	Provider string
	Customer types.Customer
}

// InitiateResult pairs the generated order id with the provider's answer.
type InitiateResult struct {
	OrderID string                     `json:"order_id"`
	Payment *payments.InitiationResult `json:"payment"`
}

// Service drives a session cart through payment initiation.
type Service interface {
	Initiate(ctx context.Context, sessionID string, input InitiateInput) (*InitiateResult, error)
}

type service struct {
	carts      cart.Service
	registry   *payments.Registry
	checkout   config.CheckoutConfig
	metrics    *metrics.PaymentMetrics
	logg       *logger.Logger
	newOrderID func() string
}

// NewService builds the checkout orchestrator.
func NewService(carts cart.Service, registry *payments.Registry, cfg config.CheckoutConfig, pm *metrics.PaymentMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if registry == nil {
		return nil, fmt.Errorf("provider registry required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:    carts,
		registry: registry,
		checkout: cfg,
		metrics:  pm,
		logg:     logg,
		newOrderID: func() string {
			return "svl-" + uuid.NewString()
		},
	}, nil
}

// Initiate reads the session cart, dispatches the chosen provider, and
// clears the cart once the provider has accepted the payment. The cart is
// left untouched on any failure so the shopper can retry.
func (s *service) Initiate(ctx context.Context, sessionID string, input InitiateInput) (*InitiateResult, error) {
	providerName, err := enums.ParsePaymentProvider(strings.TrimSpace(input.Provider))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}
	provider, err := s.registry.Resolve(providerName)
	if err != nil {
		return nil, err
	}

	snap, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if snap.TotalItems == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderID := s.newOrderID()
	request := payments.InitiationRequest{
		OrderID:     orderID,
		Amount:      snap.TotalPrice,
		Customer:    input.Customer,
		Description: fmt.Sprintf("Svetline order %s", orderID),
	}

	callCtx := ctx
	if s.checkout.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.checkout.ProviderTimeout)
		defer cancel()
	}

	started := time.Now()
	result, err := provider.Initiate(callCtx, request)
	s.metrics.ObserveInitiation(providerName.String(), time.Since(started))
	logCtx := s.logg.WithOrderID(s.logg.WithProvider(ctx, providerName.String()), orderID)
	if err != nil {
		s.metrics.IncInitiationFailure(providerName.String())
		s.logg.Error(logCtx, "checkout.initiation_failed", err)
		return nil, err
	}
	s.metrics.IncInitiationSuccess(providerName.String())
	s.logg.Info(logCtx, "checkout.initiated")

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		// The payment is already open; losing the clear only leaves a
		// stale cart behind.
		s.logg.Error(logCtx, "checkout.cart_clear_failed", err)
	}

	return &InitiateResult{OrderID: orderID, Payment: result}, nil
}
