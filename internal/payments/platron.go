package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
)

// PlatronProvider signs with the legacy merchant-id scheme: sorted
// key=value pairs joined with semicolons, the shared secret appended as
// the final segment, hashed with SHA-256. Amounts stay in whole rubles.
type PlatronProvider struct {
	cfg  config.PlatronConfig
	http httpDoer
}

// NewPlatronProvider builds the legacy aggregator strategy.
func NewPlatronProvider(cfg config.PlatronConfig, client httpDoer) *PlatronProvider {
	return &PlatronProvider{cfg: cfg, http: client}
}

// Name implements Provider.
func (p *PlatronProvider) Name() enums.PaymentProvider {
	return enums.PaymentProviderPlatron
}

type platronInitResponse struct {
	Status           string `json:"status"`
	PaymentID        string `json:"payment_id"`
	RedirectURL      string `json:"redirect_url"`
	ErrorDescription string `json:"error_description"`
}

// Initiate opens a payment and returns the hosted payment page URL.
func (p *PlatronProvider) Initiate(ctx context.Context, req InitiationRequest) (*InitiationResult, error) {
	if !p.cfg.Configured() {
		return nil, errNotConfigured(p.Name())
	}
	if err := validateInitiation(req); err != nil {
		return nil, err
	}

	params := map[string]string{
		"pg_merchant_id": p.cfg.MerchantID,
		"pg_amount":      fmt.Sprintf("%d", req.Amount.Int64()),
		"pg_order_id":    req.OrderID,
	}
	if req.Description != "" {
		params["pg_description"] = req.Description
	}
	if req.Customer.Phone != "" {
		params["pg_user_phone"] = req.Customer.Phone
	}
	if req.Customer.Email != "" {
		params["pg_user_contact_email"] = req.Customer.Email
	}
	params["pg_sig"] = PlatronSignature(params, p.cfg.Secret)

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/init_payment", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build init request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call platron init")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read platron response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errUpstream(p.Name(), string(raw))
	}

	var parsed platronInitResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errUpstream(p.Name(), string(raw))
	}
	if parsed.Status != "ok" {
		return nil, errUpstream(p.Name(), parsed.ErrorDescription)
	}

	return &InitiationResult{
		Provider:   p.Name(),
		PaymentID:  parsed.PaymentID,
		PaymentURL: parsed.RedirectURL,
	}, nil
}

// PlatronSignature joins the sorted params as key=value pairs separated by
// semicolons, appends the secret as the last segment, and hashes with
// SHA-256. The pg_sig field itself never takes part.
func PlatronSignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if key == "pg_sig" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	segments := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		segments = append(segments, key+"="+params[key])
	}
	segments = append(segments, secret)

	sum := sha256.Sum256([]byte(strings.Join(segments, ";")))
	return hex.EncodeToString(sum[:])
}
