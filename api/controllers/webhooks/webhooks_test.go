package webhooks

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
)

type stubWebhookService struct {
	tbankErr   error
	platronErr error

	tbankCalls   int
	platronCalls int
	lastPayload  []byte
	lastForm     url.Values
}

func (s *stubWebhookService) HandleTBank(_ context.Context, payload []byte) error {
	s.tbankCalls++
	s.lastPayload = payload
	return s.tbankErr
}

func (s *stubWebhookService) HandlePlatron(_ context.Context, form url.Values) error {
	s.platronCalls++
	s.lastForm = form
	return s.platronErr
}

func TestTBankWebhookAcksVerbatim(t *testing.T) {
	svc := &stubWebhookService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/tbank", bytes.NewBufferString(`{"Status":"CONFIRMED"}`))

	TBankWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "OK" {
		t.Fatalf("expected literal OK body, got %q", body)
	}
	if svc.tbankCalls != 1 {
		t.Fatalf("expected one service call, got %d", svc.tbankCalls)
	}
}

func TestTBankWebhookMalformedStillAcks(t *testing.T) {
	svc := &stubWebhookService{tbankErr: pkgerrors.New(pkgerrors.CodeValidation, "unparseable payload")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/tbank", bytes.NewBufferString("not json"))

	TBankWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 ack for malformed payload, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "OK" {
		t.Fatalf("expected literal OK body, got %q", body)
	}
}

func TestTBankWebhookSignatureMismatch(t *testing.T) {
	svc := &stubWebhookService{tbankErr: pkgerrors.New(pkgerrors.CodeSignature, "signature mismatch")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/tbank", bytes.NewBufferString(`{"Token":"bad"}`))

	TBankWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "OK" {
		t.Fatalf("rejected delivery must not be acknowledged")
	}
}

func TestTBankWebhookPersistenceFailure(t *testing.T) {
	svc := &stubWebhookService{tbankErr: pkgerrors.New(pkgerrors.CodeDependency, "database write failed")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/tbank", bytes.NewBufferString(`{"Status":"CONFIRMED"}`))

	TBankWebhook(svc, nil)(rec, req)

	if rec.Code < 500 {
		t.Fatalf("expected 5xx so the bank redelivers, got %d", rec.Code)
	}
}

func TestPlatronWebhookAcksVerbatim(t *testing.T) {
	svc := &stubWebhookService{}
	form := url.Values{"pg_payment_id": {"777"}, "pg_result": {"1"}, "pg_sig": {"abc"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/platron", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	PlatronWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Fatalf("unexpected ack body %q", body)
	}
	if svc.platronCalls != 1 {
		t.Fatalf("expected one service call, got %d", svc.platronCalls)
	}
	if got := svc.lastForm.Get("pg_payment_id"); got != "777" {
		t.Fatalf("form not forwarded, got pg_payment_id %q", got)
	}
}

func TestPlatronWebhookSignatureMismatch(t *testing.T) {
	svc := &stubWebhookService{platronErr: pkgerrors.New(pkgerrors.CodeSignature, "signature mismatch")}
	form := url.Values{"pg_payment_id": {"777"}, "pg_sig": {"tampered"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/platron", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	PlatronWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestPlatronWebhookMalformedStillAcks(t *testing.T) {
	svc := &stubWebhookService{platronErr: pkgerrors.New(pkgerrors.CodeValidation, "empty notification")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/platron", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	PlatronWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 ack, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Fatalf("unexpected ack body %q", body)
	}
}
