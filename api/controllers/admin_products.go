package controllers

import (
	"net/http"

	"github.com/svetline/svetline-backend/api/responses"
	"github.com/svetline/svetline-backend/api/validators"
	catalogsvc "github.com/svetline/svetline-backend/internal/catalog"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
)

type productRequest struct {
	Name           string  `json:"name" validate:"required"`
	Power          string  `json:"power"`
	LightColor     string  `json:"light_color"`
	Price          int64   `json:"price" validate:"required,min=1"`
	Image          string  `json:"image"`
	Category       string  `json:"category" validate:"required"`
	CompatibleWith []int64 `json:"compatible_with"`
	Description    *string `json:"description"`
	IsActive       *bool   `json:"is_active"`
	Position       int     `json:"position"`
}

func (p productRequest) toInput() catalogsvc.ProductInput {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return catalogsvc.ProductInput{
		Name:           p.Name,
		Power:          p.Power,
		LightColor:     p.LightColor,
		PriceRub:       p.Price,
		Image:          p.Image,
		Category:       p.Category,
		CompatibleWith: p.CompatibleWith,
		Description:    p.Description,
		IsActive:       active,
		Position:       p.Position,
	}
}

// AdminListProducts returns every product, inactive ones included.
func AdminListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListAllProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func AdminCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
