package controllers

import (
	"net/http"

	"github.com/svetline/svetline-backend/api/responses"
	"github.com/svetline/svetline-backend/api/validators"
	authsvc "github.com/svetline/svetline-backend/internal/auth"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

// AdminLogin exchanges admin credentials for a bearer token.
func AdminLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
