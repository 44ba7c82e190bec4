package webhooks

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/svetline/svetline-backend/internal/payments"
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
)

// HandlePlatron verifies and applies one legacy-aggregator notification.
// The signature is recomputed over every received pg_* field except
// pg_sig itself and compared case-insensitively.
func (s *service) HandlePlatron(ctx context.Context, form url.Values) error {
	if len(form) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "empty notification payload")
	}

	fields := make(map[string]string, len(form))
	for key := range form {
		fields[key] = form.Get(key)
	}

	claimed := fields["pg_sig"]
	if claimed == "" {
		return pkgerrors.New(pkgerrors.CodeSignature, "notification carries no signature")
	}
	expected := payments.PlatronSignature(fields, s.providers.Platron.Secret)
	if !strings.EqualFold(claimed, expected) {
		s.metrics.IncWebhookRejected(enums.PaymentProviderPlatron.String())
		s.logg.Warn(s.logg.WithProvider(ctx, enums.PaymentProviderPlatron.String()), "webhook.signature_rejected")
		return pkgerrors.New(pkgerrors.CodeSignature, "notification signature mismatch")
	}

	paymentID := fields["pg_payment_id"]
	if paymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification missing pg_payment_id")
	}

	// The aggregator reports whole rubles; records store kopecks.
	amountRub, err := strconv.ParseInt(fields["pg_amount"], 10, 64)
	if err != nil {
		logCtx := s.logg.WithField(s.logg.WithProvider(ctx, enums.PaymentProviderPlatron.String()), "amount_raw", fields["pg_amount"])
		s.logg.Warn(logCtx, "webhook.amount_unparsed")
	}

	s.noteDelivery(ctx, enums.PaymentProviderPlatron.String(), paymentID)

	raw, err := json.Marshal(fields)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode provider payload")
	}

	record := &models.PaymentRecord{
		OrderID:           fields["pg_order_id"],
		Provider:          enums.PaymentProviderPlatron,
		ProviderPaymentID: paymentID,
		AmountKopecks:     types.Rubles(amountRub).ToKopecks().Int64(),
		Status:            mapPlatronStatus(fields["pg_result"]),
		CustomerPhone:     optionalString(fields["pg_user_phone"]),
		CustomerEmail:     optionalString(fields["pg_user_contact_email"]),
		ProviderData:      types.JSONText(raw),
	}
	if _, err := s.records.Upsert(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment record")
	}

	s.metrics.IncWebhookAccepted(enums.PaymentProviderPlatron.String())
	logCtx := s.logg.WithOrderID(s.logg.WithProvider(ctx, enums.PaymentProviderPlatron.String()), record.OrderID)
	s.logg.Info(logCtx, "webhook.applied")
	return nil
}

// mapPlatronStatus folds the aggregator result codes into the record
// enum; anything unknown stays pending.
func mapPlatronStatus(result string) enums.PaymentStatus {
	switch result {
	case "ok", "1":
		return enums.PaymentStatusCompleted
	case "failed", "0":
		return enums.PaymentStatusFailed
	default:
		return enums.PaymentStatusPending
	}
}
