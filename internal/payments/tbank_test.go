package payments

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/svetline/svetline-backend/pkg/config"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
)

type stubDoer struct {
	status   int
	body     string
	err      error
	lastReq  *http.Request
	lastBody []byte
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.lastReq = req
	if req.Body != nil {
		d.lastBody, _ = io.ReadAll(req.Body)
	}
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func tbankTestConfig() config.TBankConfig {
	return config.TBankConfig{
		TerminalKey: "TestTerminal",
		Password:    "usaf8fw8fsw21g",
		BaseURL:     "https://gateway.test/v2",
	}
}

func TestTBankTokenDeterministic(t *testing.T) {
	params := map[string]string{
		"TerminalKey": "TestTerminal",
		"Amount":      "19200",
		"OrderId":     "21090",
		"Description": "lamp order",
	}

	first := TBankToken(params, "usaf8fw8fsw21g")
	second := TBankToken(params, "usaf8fw8fsw21g")
	if first != second {
		t.Fatalf("token not deterministic: %s vs %s", first, second)
	}

	// Sorted keys: Amount, Description, OrderId, Password, TerminalKey.
	concatenated := "19200" + "lamp order" + "21090" + "usaf8fw8fsw21g" + "TestTerminal"
	sum := sha256.Sum256([]byte(concatenated))
	if want := hex.EncodeToString(sum[:]); first != want {
		t.Fatalf("token %s, want %s", first, want)
	}
}

func TestTBankTokenSingleCharacterSensitivity(t *testing.T) {
	params := map[string]string{
		"TerminalKey": "TestTerminal",
		"Amount":      "19200",
		"OrderId":     "21090",
	}
	base := TBankToken(params, "secret")

	for key, value := range params {
		mutated := map[string]string{}
		for k, v := range params {
			mutated[k] = v
		}
		mutated[key] = value[:len(value)-1] + "X"
		if TBankToken(mutated, "secret") == base {
			t.Fatalf("token unchanged after mutating %s", key)
		}
	}
	if TBankToken(params, "secreX") == base {
		t.Fatal("token unchanged after mutating the password")
	}
}

func TestTBankTokenExcludesNonSignedFields(t *testing.T) {
	params := map[string]string{
		"TerminalKey": "TestTerminal",
		"Amount":      "100",
		"OrderId":     "1",
	}
	withExtras := map[string]string{}
	for k, v := range params {
		withExtras[k] = v
	}
	withExtras["Token"] = "bogus"
	withExtras["Receipt"] = `{"Items":[]}`
	withExtras["NotificationURL"] = "https://svetline.ru/hook"
	withExtras["SuccessURL"] = "https://svetline.ru/ok"
	withExtras["FailURL"] = "https://svetline.ru/fail"

	if TBankToken(params, "secret") != TBankToken(withExtras, "secret") {
		t.Fatal("excluded fields must not affect the token")
	}
}

func TestTBankInitiateSuccess(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"Success":true,"PaymentId":"700001","PaymentURL":"https://gateway.test/pay/700001"}`,
	}
	provider := NewTBankProvider(tbankTestConfig(), doer)

	result, err := provider.Initiate(context.Background(), InitiationRequest{
		OrderID:     "order-42",
		Amount:      types.Rubles(343),
		Customer:    types.Customer{Phone: "+79990000000", Email: "buyer@svetline.ru"},
		Description: "lamp order",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.PaymentID != "700001" || result.PaymentURL != "https://gateway.test/pay/700001" {
		t.Fatalf("unexpected result %+v", result)
	}

	var sent map[string]any
	if err := json.Unmarshal(doer.lastBody, &sent); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if sent["Amount"] != float64(34300) {
		t.Fatalf("expected Amount in kopecks (34300), got %v", sent["Amount"])
	}
	wantToken := TBankToken(map[string]string{
		"TerminalKey": "TestTerminal",
		"Amount":      "34300",
		"OrderId":     "order-42",
		"Description": "lamp order",
	}, "usaf8fw8fsw21g")
	if sent["Token"] != wantToken {
		t.Fatalf("token mismatch: %v", sent["Token"])
	}
	if !bytes.Contains(doer.lastBody, []byte(`"DATA"`)) {
		t.Fatal("customer contact data missing from request")
	}
}

func TestTBankInitiateBusinessFailure(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"Success":false,"ErrorCode":"204","Message":"Invalid token","Details":"check signing"}`,
	}
	provider := NewTBankProvider(tbankTestConfig(), doer)

	_, err := provider.Initiate(context.Background(), InitiationRequest{OrderID: "order-1", Amount: 100})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY failure, got %v", err)
	}
	if detail, ok := appErr.Details().(string); !ok || !strings.Contains(detail, "Invalid token") {
		t.Fatalf("provider message missing from details: %v", appErr.Details())
	}
}

func TestTBankInitiateUnconfigured(t *testing.T) {
	provider := NewTBankProvider(config.TBankConfig{}, &stubDoer{})

	_, err := provider.Initiate(context.Background(), InitiationRequest{OrderID: "order-1", Amount: 100})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION for missing credentials, got %v", err)
	}
}
