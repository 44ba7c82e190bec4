package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/svetline/svetline-backend/pkg/config"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
)

func yookassaTestConfig() config.YooKassaConfig {
	return config.YooKassaConfig{
		ShopID:    "shop-1",
		SecretKey: "live_secret",
		BaseURL:   "https://rest.test/v3",
		ReturnURL: "https://svetline.ru/checkout/done",
	}
}

func TestYooKassaInitiateSendsBasicAuthAndIdempotenceKey(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"id":"yk-1","status":"pending","confirmation":{"type":"redirect","confirmation_url":"https://rest.test/confirm/yk-1"}}`,
	}
	provider := NewYooKassaProvider(yookassaTestConfig(), doer)
	provider.newIdempotenceKey = func(orderID string) string { return orderID + "-fixed" }

	result, err := provider.Initiate(context.Background(), InitiationRequest{
		OrderID: "order-42",
		Amount:  types.Rubles(150),
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.PaymentID != "yk-1" || result.PaymentURL != "https://rest.test/confirm/yk-1" {
		t.Fatalf("unexpected result %+v", result)
	}

	user, pass, ok := doer.lastReq.BasicAuth()
	if !ok || user != "shop-1" || pass != "live_secret" {
		t.Fatalf("basic auth not set: %q %q %v", user, pass, ok)
	}
	if got := doer.lastReq.Header.Get("Idempotence-Key"); got != "order-42-fixed" {
		t.Fatalf("idempotence key %q", got)
	}

	var sent yookassaCreateRequest
	if err := json.Unmarshal(doer.lastBody, &sent); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if sent.Amount.Value != "150.00" || sent.Amount.Currency != "RUB" {
		t.Fatalf("expected decimal amount 150.00 RUB, got %+v", sent.Amount)
	}
	if sent.Metadata["order_id"] != "order-42" {
		t.Fatalf("order id missing from metadata: %+v", sent.Metadata)
	}
}

func TestYooKassaInitiateAPIError(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusUnauthorized,
		body:   `{"code":"invalid_credentials","description":"Authentication failed"}`,
	}
	provider := NewYooKassaProvider(yookassaTestConfig(), doer)

	_, err := provider.Initiate(context.Background(), InitiationRequest{OrderID: "order-1", Amount: 10})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY failure, got %v", err)
	}
	if detail, _ := appErr.Details().(string); detail != "Authentication failed" {
		t.Fatalf("expected provider description in details, got %v", appErr.Details())
	}
}

func TestYooKassaInitiateMissingConfirmation(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"id":"yk-2","status":"pending"}`,
	}
	provider := NewYooKassaProvider(yookassaTestConfig(), doer)

	_, err := provider.Initiate(context.Background(), InitiationRequest{OrderID: "order-1", Amount: 10})
	if pkgerrors.As(err) == nil {
		t.Fatalf("expected failure on missing confirmation url, got %v", err)
	}
}
