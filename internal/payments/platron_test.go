package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"testing"

	"github.com/svetline/svetline-backend/pkg/config"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
)

func platronTestConfig() config.PlatronConfig {
	return config.PlatronConfig{
		MerchantID: "12345",
		Secret:     "platron-secret",
		BaseURL:    "https://aggregator.test",
	}
}

func TestPlatronSignatureLayout(t *testing.T) {
	params := map[string]string{
		"pg_merchant_id": "12345",
		"pg_amount":      "343",
		"pg_order_id":    "order-42",
	}

	got := PlatronSignature(params, "platron-secret")

	joined := "pg_amount=343;pg_merchant_id=12345;pg_order_id=order-42;platron-secret"
	sum := sha256.Sum256([]byte(joined))
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("signature %s, want %s", got, want)
	}
}

func TestPlatronSignatureIgnoresOwnField(t *testing.T) {
	params := map[string]string{
		"pg_merchant_id": "12345",
		"pg_amount":      "343",
	}
	base := PlatronSignature(params, "s")

	params["pg_sig"] = "previously computed"
	if PlatronSignature(params, "s") != base {
		t.Fatal("pg_sig must not take part in the signature")
	}
}

func TestPlatronInitiateSendsRublesAndSignature(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"status":"ok","payment_id":"pl-900","redirect_url":"https://aggregator.test/pay/pl-900"}`,
	}
	provider := NewPlatronProvider(platronTestConfig(), doer)

	result, err := provider.Initiate(context.Background(), InitiationRequest{
		OrderID: "order-42",
		Amount:  types.Rubles(343),
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.PaymentID != "pl-900" {
		t.Fatalf("unexpected result %+v", result)
	}

	form, err := url.ParseQuery(string(doer.lastBody))
	if err != nil {
		t.Fatalf("parse form body: %v", err)
	}
	if form.Get("pg_amount") != "343" {
		t.Fatalf("expected whole rubles, got %q", form.Get("pg_amount"))
	}
	want := PlatronSignature(map[string]string{
		"pg_merchant_id": "12345",
		"pg_amount":      "343",
		"pg_order_id":    "order-42",
	}, "platron-secret")
	if form.Get("pg_sig") != want {
		t.Fatalf("signature mismatch: %q", form.Get("pg_sig"))
	}
}

func TestPlatronInitiateErrorStatus(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"status":"error","error_description":"merchant is blocked"}`,
	}
	provider := NewPlatronProvider(platronTestConfig(), doer)

	_, err := provider.Initiate(context.Background(), InitiationRequest{OrderID: "order-1", Amount: 50})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY failure, got %v", err)
	}
	if detail, _ := appErr.Details().(string); detail != "merchant is blocked" {
		t.Fatalf("provider message missing from details: %v", appErr.Details())
	}
}
