package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/svetline/svetline-backend/api/middleware"
	"github.com/svetline/svetline-backend/api/responses"
	"github.com/svetline/svetline-backend/api/validators"
	contentsvc "github.com/svetline/svetline-backend/internal/content"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

// AdminListContentBlocks returns every managed content slot.
func AdminListContentBlocks(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		blocks, err := svc.ListBlocks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, blocks)
	}
}

type contentBlockRequest struct {
	Body json.RawMessage `json:"body" validate:"required"`
}

// AdminSaveContentBlock upserts the content for one slot, stamping the
// acting admin's email as the editor.
func AdminSaveContentBlock(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		slot := strings.TrimSpace(chi.URLParam(r, "slot"))

		var payload contentBlockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		block, err := svc.SaveBlock(r.Context(), slot, payload.Body, middleware.AdminEmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, block)
	}
}
