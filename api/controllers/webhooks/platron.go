package webhooks

import (
	"net/http"

	"github.com/svetline/svetline-backend/api/responses"
	webhooksvc "github.com/svetline/svetline-backend/internal/webhooks"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

// PlatronWebhook receives form-encoded result notifications from Platron.
// The aggregator expects the fixed body {"status":"ok"} on acknowledgement.
func PlatronWebhook(svc webhooksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		if err := r.ParseForm(); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "webhook.malformed")
			}
			ackPlatron(w)
			return
		}

		if err := svc.HandlePlatron(ctx, r.PostForm); err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeValidation {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "webhook.malformed")
				}
				ackPlatron(w)
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ackPlatron(w)
	}
}

func ackPlatron(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
