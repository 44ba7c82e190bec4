package payments

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
)

// TBankProvider signs initiation calls with the terminal-key scheme: the
// shared password joins the parameter map as a Password field, keys are
// sorted, and the values alone are concatenated and hashed.
type TBankProvider struct {
	cfg  config.TBankConfig
	http httpDoer
}

// NewTBankProvider builds the card gateway strategy.
func NewTBankProvider(cfg config.TBankConfig, client httpDoer) *TBankProvider {
	return &TBankProvider{cfg: cfg, http: client}
}

// Name implements Provider.
func (p *TBankProvider) Name() enums.PaymentProvider {
	return enums.PaymentProviderTBank
}

type tbankInitResponse struct {
	Success    bool   `json:"Success"`
	ErrorCode  string `json:"ErrorCode"`
	Message    string `json:"Message"`
	Details    string `json:"Details"`
	PaymentID  string `json:"PaymentId"`
	PaymentURL string `json:"PaymentURL"`
}

// Initiate opens a payment session and returns the hosted payment page URL.
func (p *TBankProvider) Initiate(ctx context.Context, req InitiationRequest) (*InitiationResult, error) {
	if !p.cfg.Configured() {
		return nil, errNotConfigured(p.Name())
	}
	if err := validateInitiation(req); err != nil {
		return nil, err
	}

	// The gateway expects kopecks.
	amount := req.Amount.ToKopecks()

	params := map[string]string{
		"TerminalKey": p.cfg.TerminalKey,
		"Amount":      fmt.Sprintf("%d", amount.Int64()),
		"OrderId":     req.OrderID,
	}
	if req.Description != "" {
		params["Description"] = req.Description
	}
	token := TBankToken(params, p.cfg.Password)

	payload := map[string]any{
		"TerminalKey": p.cfg.TerminalKey,
		"Amount":      amount.Int64(),
		"OrderId":     req.OrderID,
		"Token":       token,
	}
	if req.Description != "" {
		payload["Description"] = req.Description
	}
	if req.Customer.Phone != "" || req.Customer.Email != "" {
		data := map[string]string{}
		if req.Customer.Phone != "" {
			data["Phone"] = req.Customer.Phone
		}
		if req.Customer.Email != "" {
			data["Email"] = req.Customer.Email
		}
		payload["DATA"] = data
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode init payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/Init", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build init request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call tbank init")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read tbank response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errUpstream(p.Name(), string(raw))
	}

	var parsed tbankInitResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errUpstream(p.Name(), string(raw))
	}
	if !parsed.Success {
		detail := parsed.Message
		if parsed.Details != "" {
			detail = fmt.Sprintf("%s: %s", parsed.Message, parsed.Details)
		}
		return nil, errUpstream(p.Name(), detail)
	}

	return &InitiationResult{
		Provider:   p.Name(),
		PaymentID:  parsed.PaymentID,
		PaymentURL: parsed.PaymentURL,
	}, nil
}

// tbankExcludedFields never take part in the token: nested structures and
// the token itself, plus the callback and redirect URLs.
var tbankExcludedFields = map[string]struct{}{
	"Token":           {},
	"Receipt":         {},
	"DATA":            {},
	"NotificationURL": {},
	"SuccessURL":      {},
	"FailURL":         {},
}

// TBankToken computes the terminal-key signature over flat string params.
// The shared password is injected as a Password field, the keys are sorted
// lexicographically, and the bare values are concatenated in that order
// and hashed with SHA-256.
func TBankToken(params map[string]string, password string) string {
	signed := make(map[string]string, len(params)+1)
	for key, value := range params {
		if _, skip := tbankExcludedFields[key]; skip {
			continue
		}
		signed[key] = value
	}
	signed["Password"] = password

	keys := make([]string, 0, len(signed))
	for key := range signed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var concatenated bytes.Buffer
	for _, key := range keys {
		concatenated.WriteString(signed[key])
	}
	sum := sha256.Sum256(concatenated.Bytes())
	return hex.EncodeToString(sum[:])
}
