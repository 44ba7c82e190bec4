package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	checkoutsvc "github.com/svetline/svetline-backend/internal/checkout"
	"github.com/svetline/svetline-backend/internal/payments"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
)

type stubCheckoutService struct {
	result      *checkoutsvc.InitiateResult
	err         error
	lastSession string
	lastInput   checkoutsvc.InitiateInput
}

func (s *stubCheckoutService) Initiate(_ context.Context, sessionID string, input checkoutsvc.InitiateInput) (*checkoutsvc.InitiateResult, error) {
	s.lastSession = sessionID
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestCheckoutSuccess(t *testing.T) {
	stub := &stubCheckoutService{
		result: &checkoutsvc.InitiateResult{
			OrderID: "svl-abc",
			Payment: &payments.InitiationResult{
				Provider:   enums.PaymentProviderTBank,
				PaymentID:  "19200",
				PaymentURL: "https://securepay.example/pay/19200",
			},
		},
	}

	body, _ := json.Marshal(map[string]any{
		"provider":   "tbank",
		"first_name": "Ivan",
		"phone":      "+79990001122",
	})
	req := sessionRequest(http.MethodPost, "/api/v1/checkout", body)
	rec := httptest.NewRecorder()
	Checkout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastSession != "sess-1" {
		t.Fatalf("session not forwarded, got %q", stub.lastSession)
	}
	if stub.lastInput.Provider != "tbank" || stub.lastInput.Customer.FirstName != "Ivan" {
		t.Fatalf("input not forwarded: %+v", stub.lastInput)
	}

	var envelope struct {
		Data struct {
			OrderID string `json:"order_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.OrderID != "svl-abc" {
		t.Fatalf("unexpected order id %q", envelope.Data.OrderID)
	}
}

func TestCheckoutMissingFields(t *testing.T) {
	stub := &stubCheckoutService{}

	body, _ := json.Marshal(map[string]any{"provider": "tbank"})
	req := sessionRequest(http.MethodPost, "/api/v1/checkout", body)
	rec := httptest.NewRecorder()
	Checkout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.lastSession != "" {
		t.Fatalf("service must not be called on invalid payload")
	}
}

func TestCheckoutProviderUnavailable(t *testing.T) {
	stub := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeDependency, "tbank: payment could not be created")}

	body, _ := json.Marshal(map[string]any{
		"provider":   "tbank",
		"first_name": "Ivan",
		"phone":      "+79990001122",
	})
	req := sessionRequest(http.MethodPost, "/api/v1/checkout", body)
	rec := httptest.NewRecorder()
	Checkout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
