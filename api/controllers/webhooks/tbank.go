package webhooks

import (
	"io"
	"net/http"

	"github.com/svetline/svetline-backend/api/responses"
	webhooksvc "github.com/svetline/svetline-backend/internal/webhooks"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

// TBankWebhook receives payment notifications from T-Bank. The bank keeps
// retrying until it reads the literal body "OK", so every acknowledged
// delivery answers with exactly that.
func TBankWebhook(svc webhooksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		if err := svc.HandleTBank(ctx, payload); err != nil {
			typed := pkgerrors.As(err)
			// Malformed payloads are acknowledged so the bank stops
			// retrying a delivery that can never succeed. Signature and
			// dependency failures keep their error status.
			if typed != nil && typed.Code() == pkgerrors.CodeValidation {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "webhook.malformed")
				}
				ackTBank(w)
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ackTBank(w)
	}
}

func ackTBank(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
