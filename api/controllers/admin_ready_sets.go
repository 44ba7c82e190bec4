package controllers

import (
	"net/http"

	"github.com/svetline/svetline-backend/api/responses"
	"github.com/svetline/svetline-backend/api/validators"
	catalogsvc "github.com/svetline/svetline-backend/internal/catalog"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

type readySetRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       int64   `json:"price" validate:"required,min=1"`
	Description string  `json:"description"`
	ProductIDs  []int64 `json:"product_ids" validate:"required,min=1"`
	IsActive    *bool   `json:"is_active"`
	Position    int     `json:"position"`
}

func (p readySetRequest) toInput() catalogsvc.ReadySetInput {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return catalogsvc.ReadySetInput{
		Name:        p.Name,
		PriceRub:    p.Price,
		Description: p.Description,
		ProductIDs:  p.ProductIDs,
		IsActive:    active,
		Position:    p.Position,
	}
}

func AdminListReadySets(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sets, err := svc.ListAllReadySets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sets)
	}
}

func AdminCreateReadySet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload readySetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		set, err := svc.CreateReadySet(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, set)
	}
}

func AdminUpdateReadySet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := int64Param(r, "setId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload readySetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		set, err := svc.UpdateReadySet(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, set)
	}
}

func AdminDeleteReadySet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := int64Param(r, "setId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteReadySet(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
