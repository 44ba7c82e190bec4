package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/svetline/svetline-backend/pkg/logger"
)

const (
	sessionCookieName   = "svetline_sid"
	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// Session ensures every storefront request carries a shopper session cookie.
// A missing or blank cookie gets a fresh identifier set on the response, so
// the cart survives across requests without any account.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				sessionID = cookie.Value
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
