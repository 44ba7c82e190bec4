package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/svetline/svetline-backend/internal/payments"
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
)

// HandleTBank verifies and applies one card-gateway notification. The
// token is recomputed over the received scalar fields with the shared
// password injected, exactly as on the initiation side, and compared
// case-insensitively.
func (s *service) HandleTBank(ctx context.Context, payload []byte) error {
	fields, customer, err := flattenJSONFields(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed notification payload")
	}

	claimed := fields["Token"]
	if claimed == "" {
		return pkgerrors.New(pkgerrors.CodeSignature, "notification carries no token")
	}
	expected := payments.TBankToken(fields, s.providers.TBank.Password)
	if !strings.EqualFold(claimed, expected) {
		s.metrics.IncWebhookRejected(enums.PaymentProviderTBank.String())
		s.logg.Warn(s.logg.WithProvider(ctx, enums.PaymentProviderTBank.String()), "webhook.signature_rejected")
		return pkgerrors.New(pkgerrors.CodeSignature, "notification token mismatch")
	}

	paymentID := fields["PaymentId"]
	if paymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification missing PaymentId")
	}
	amount, err := strconv.ParseInt(fields["Amount"], 10, 64)
	if err != nil {
		logCtx := s.logg.WithField(s.logg.WithProvider(ctx, enums.PaymentProviderTBank.String()), "amount_raw", fields["Amount"])
		s.logg.Warn(logCtx, "webhook.amount_unparsed")
	}

	s.noteDelivery(ctx, enums.PaymentProviderTBank.String(), paymentID)

	record := &models.PaymentRecord{
		OrderID:           fields["OrderId"],
		Provider:          enums.PaymentProviderTBank,
		ProviderPaymentID: paymentID,
		AmountKopecks:     amount,
		Status:            mapTBankStatus(fields["Status"]),
		CustomerName:      optionalString(customer["Name"]),
		CustomerPhone:     optionalString(customer["Phone"]),
		CustomerEmail:     optionalString(customer["Email"]),
		ProviderData:      types.JSONText(payload),
	}
	if _, err := s.records.Upsert(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment record")
	}

	s.metrics.IncWebhookAccepted(enums.PaymentProviderTBank.String())
	logCtx := s.logg.WithOrderID(s.logg.WithProvider(ctx, enums.PaymentProviderTBank.String()), record.OrderID)
	s.logg.Info(logCtx, "webhook.applied")
	return nil
}

// mapTBankStatus folds the gateway statuses into the record enum. Anything
// unknown stays pending so a new upstream status never terminates a
// payment by accident.
func mapTBankStatus(status string) enums.PaymentStatus {
	switch status {
	case "CONFIRMED":
		return enums.PaymentStatusCompleted
	case "REJECTED", "CANCELED", "REVERSED", "DEADLINE_EXPIRED":
		return enums.PaymentStatusFailed
	default:
		return enums.PaymentStatusPending
	}
}

// flattenJSONFields decodes the payload and renders its root-level scalar
// fields as strings, keeping numbers exactly as they appeared on the wire.
// Nested objects and arrays never take part in signing, so they are kept
// out of the field map; the DATA block is returned separately because it
// echoes the customer contact details from initiation.
func flattenJSONFields(payload []byte) (fields, customer map[string]string, err error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var parsed map[string]any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, nil, err
	}

	fields = make(map[string]string, len(parsed))
	customer = map[string]string{}
	for key, value := range parsed {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = strconv.FormatBool(v)
		case map[string]any:
			if key == "DATA" {
				for dataKey, dataValue := range v {
					if s, ok := dataValue.(string); ok {
						customer[dataKey] = s
					}
				}
			}
		case nil:
		default:
		}
	}
	return fields, customer, nil
}
