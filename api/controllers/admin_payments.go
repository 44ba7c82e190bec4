package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/svetline/svetline-backend/api/responses"
	paymentsvc "github.com/svetline/svetline-backend/internal/payments"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

// AdminListPayments returns recent payment records, newest first.
// ?order_id= narrows the listing to a single order, ?limit= caps the page.
func AdminListPayments(repo *paymentsvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment repository unavailable"))
			return
		}

		if orderID := strings.TrimSpace(r.URL.Query().Get("order_id")); orderID != "" {
			records, err := repo.ListByOrderID(r.Context(), orderID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments"))
				return
			}
			responses.WriteSuccess(w, records)
			return
		}

		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			limit = parsed
		}

		records, err := repo.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments"))
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// AdminGetPayment returns a single payment record by its row id.
func AdminGetPayment(repo *paymentsvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment repository unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "paymentId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment id"))
			return
		}

		record, err := repo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get payment"))
			return
		}
		responses.WriteSuccess(w, record)
	}
}
