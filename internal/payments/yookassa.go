package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
)

// YooKassaProvider talks to the modern REST aggregator. There is no custom
// signature; requests authenticate with HTTP Basic over the shop id and
// API key plus a per-request idempotence key. Amounts travel as decimal
// strings with two places.
type YooKassaProvider struct {
	cfg  config.YooKassaConfig
	http httpDoer

	// newIdempotenceKey is swapped in tests for a fixed value.
	newIdempotenceKey func(orderID string) string
}

// NewYooKassaProvider builds the REST aggregator strategy.
func NewYooKassaProvider(cfg config.YooKassaConfig, client httpDoer) *YooKassaProvider {
	return &YooKassaProvider{
		cfg:  cfg,
		http: client,
		newIdempotenceKey: func(orderID string) string {
			return fmt.Sprintf("%s-%s", orderID, uuid.NewString())
		},
	}
}

// Name implements Provider.
func (p *YooKassaProvider) Name() enums.PaymentProvider {
	return enums.PaymentProviderYooKassa
}

type yookassaAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type yookassaConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type yookassaCreateRequest struct {
	Amount       yookassaAmount        `json:"amount"`
	Capture      bool                  `json:"capture"`
	Confirmation *yookassaConfirmation `json:"confirmation,omitempty"`
	Description  string                `json:"description,omitempty"`
	Metadata     map[string]string     `json:"metadata,omitempty"`
}

type yookassaCreateResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Confirmation *yookassaConfirmation `json:"confirmation"`
	Description  string                `json:"description"`
}

type yookassaErrorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Initiate creates a payment and returns the confirmation URL.
func (p *YooKassaProvider) Initiate(ctx context.Context, req InitiationRequest) (*InitiationResult, error) {
	if !p.cfg.Configured() {
		return nil, errNotConfigured(p.Name())
	}
	if err := validateInitiation(req); err != nil {
		return nil, err
	}

	payload := yookassaCreateRequest{
		Amount: yookassaAmount{
			Value:    req.Amount.DecimalString(),
			Currency: "RUB",
		},
		Capture: true,
		Confirmation: &yookassaConfirmation{
			Type:      "redirect",
			ReturnURL: p.cfg.ReturnURL,
		},
		Description: req.Description,
		Metadata:    map[string]string{"order_id": req.OrderID},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode payment payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build payment request")
	}
	httpReq.SetBasicAuth(p.cfg.ShopID, p.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", p.newIdempotenceKey(req.OrderID))

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call yookassa")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read yookassa response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr yookassaErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Description != "" {
			return nil, errUpstream(p.Name(), apiErr.Description)
		}
		return nil, errUpstream(p.Name(), string(raw))
	}

	var parsed yookassaCreateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errUpstream(p.Name(), string(raw))
	}
	if parsed.ID == "" || parsed.Confirmation == nil || parsed.Confirmation.ConfirmationURL == "" {
		return nil, errUpstream(p.Name(), "response missing confirmation url")
	}

	return &InitiationResult{
		Provider:   p.Name(),
		PaymentID:  parsed.ID,
		PaymentURL: parsed.Confirmation.ConfirmationURL,
	}, nil
}
