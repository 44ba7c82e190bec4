package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
)

// SBPQRProvider delegates fully to the QR aggregator's REST API with
// Bearer auth; there is no local signature. Amounts travel in kopecks.
type SBPQRProvider struct {
	cfg  config.SBPQRConfig
	http httpDoer
}

// NewSBPQRProvider builds the QR aggregator strategy.
func NewSBPQRProvider(cfg config.SBPQRConfig, client httpDoer) *SBPQRProvider {
	return &SBPQRProvider{cfg: cfg, http: client}
}

// Name implements Provider.
func (p *SBPQRProvider) Name() enums.PaymentProvider {
	return enums.PaymentProviderSBPQR
}

type sbpqrCreateRequest struct {
	MerchantID string `json:"merchant_id"`
	Amount     int64  `json:"amount"`
	OrderID    string `json:"order_id"`
	Purpose    string `json:"purpose,omitempty"`
}

type sbpqrCreateResponse struct {
	PaymentID string `json:"payment_id"`
	QRPayload string `json:"qr_payload"`
	Error     string `json:"error"`
}

// Initiate registers a QR payment and returns the inline QR payload.
func (p *SBPQRProvider) Initiate(ctx context.Context, req InitiationRequest) (*InitiationResult, error) {
	if !p.cfg.Configured() {
		return nil, errNotConfigured(p.Name())
	}
	if err := validateInitiation(req); err != nil {
		return nil, err
	}

	payload := sbpqrCreateRequest{
		MerchantID: p.cfg.MerchantID,
		Amount:     req.Amount.ToKopecks().Int64(),
		OrderID:    req.OrderID,
		Purpose:    req.Description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode qr payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/qr", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build qr request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call qr aggregator")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read qr response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errUpstream(p.Name(), string(raw))
	}

	var parsed sbpqrCreateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errUpstream(p.Name(), string(raw))
	}
	if parsed.Error != "" || parsed.PaymentID == "" || parsed.QRPayload == "" {
		return nil, errUpstream(p.Name(), parsed.Error)
	}

	return &InitiationResult{
		Provider:  p.Name(),
		PaymentID: parsed.PaymentID,
		QRPayload: parsed.QRPayload,
	}, nil
}
