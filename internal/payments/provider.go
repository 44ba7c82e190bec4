package payments

import (
	"context"
	"fmt"
	"net/http"

	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
)

// InitiationRequest is the provider-neutral payload for opening a payment.
// Amount is always whole rubles here; each provider converts to its own
// unit at its boundary.
type InitiationRequest struct {
	OrderID     string
	Amount      types.Rubles
	Customer    types.Customer
	Description string
}

// InitiationResult is what a provider hands back on success. Exactly one
// of PaymentURL or QRPayload is set, depending on the provider's flow.
type InitiationResult struct {
	Provider   enums.PaymentProvider `json:"provider"`
	PaymentID  string                `json:"payment_id"`
	PaymentURL string                `json:"payment_url,omitempty"`
	QRPayload  string                `json:"qr_payload,omitempty"`
}

// Provider opens a payment with one upstream gateway.
type Provider interface {
	Name() enums.PaymentProvider
	Initiate(ctx context.Context, req InitiationRequest) (*InitiationResult, error)
}

// httpDoer lets tests swap the outbound HTTP client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Registry resolves provider strategies by identifier.
type Registry struct {
	providers map[enums.PaymentProvider]Provider
}

// NewRegistry indexes the given providers by name.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: map[enums.PaymentProvider]Provider{}}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Resolve returns the provider for the identifier or a validation error.
func (r *Registry) Resolve(name enums.PaymentProvider) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment provider %q", name))
	}
	return p, nil
}

// Names lists the registered provider identifiers.
func (r *Registry) Names() []enums.PaymentProvider {
	out := make([]enums.PaymentProvider, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	return out
}

func validateInitiation(req InitiationRequest) error {
	if req.OrderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if req.Amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	return nil
}

func errNotConfigured(name enums.PaymentProvider) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("payment provider %s is not configured", name))
}

func errUpstream(name enums.PaymentProvider, detail string) error {
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("%s: payment could not be created", name)).
		WithDetails(detail)
}
