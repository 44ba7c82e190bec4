package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/svetline/svetline-backend/api/middleware"
	cartsvc "github.com/svetline/svetline-backend/internal/cart"
	"github.com/svetline/svetline-backend/pkg/db/models"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/logger"
	"github.com/svetline/svetline-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

func newCartService(t *testing.T, products ...models.Product) cartsvc.Service {
	t.Helper()
	svc, err := cartsvc.NewService(cartsvc.NewStore(), &fixedCatalogStub{products: products})
	if err != nil {
		t.Fatalf("build cart service: %v", err)
	}
	return svc
}

type fixedCatalogStub struct {
	products []models.Product
}

func (c *fixedCatalogStub) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (c *fixedCatalogStub) ListActiveProducts(_ context.Context) ([]models.Product, error) {
	return c.products, nil
}

func sessionRequest(method, target string, body []byte) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithSessionID(req.Context(), "sess-1")
	return req.WithContext(ctx)
}

func TestAddCartItemReturnsSnapshot(t *testing.T) {
	svc := newCartService(t, models.Product{ID: 7, Name: "Lamp", PriceRub: 1290, IsActive: true})

	body, _ := json.Marshal(map[string]any{"product_id": 7})
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			TotalItems int          `json:"total_items"`
			TotalPrice types.Rubles `json:"total_price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.TotalItems != 1 || envelope.Data.TotalPrice != 1290 {
		t.Fatalf("unexpected snapshot: %+v", envelope.Data)
	}
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	svc := newCartService(t)

	body, _ := json.Marshal(map[string]any{"product_id": 99})
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddCartItemMissingSession(t *testing.T) {
	svc := newCartService(t)

	body, _ := json.Marshal(map[string]any{"product_id": 7})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session, got %d", rec.Code)
	}
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	svc := newCartService(t, models.Product{ID: 7, Name: "Lamp", PriceRub: 1290, IsActive: true})
	logg := testLogger()

	addBody, _ := json.Marshal(map[string]any{"product_id": 7})
	rec := httptest.NewRecorder()
	AddCartItem(svc, logg).ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/items", addBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	updateBody, _ := json.Marshal(map[string]any{"quantity": 0})
	req := sessionRequest(http.MethodPatch, "/api/v1/cart/items/7", updateBody)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", "7")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec = httptest.NewRecorder()
	UpdateCartItem(svc, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			TotalItems int `json:"total_items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.TotalItems != 0 {
		t.Fatalf("expected empty cart after zero quantity, got %d items", envelope.Data.TotalItems)
	}
}

func TestSuggestRoundSum(t *testing.T) {
	svc := newCartService(t,
		models.Product{ID: 1, Name: "Lamp", PriceRub: 343, IsActive: true},
		models.Product{ID: 2, Name: "Plug", PriceRub: 157, IsActive: true},
	)
	logg := testLogger()

	addBody, _ := json.Marshal(map[string]any{"product_id": 1})
	rec := httptest.NewRecorder()
	AddCartItem(svc, logg).ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/items", addBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	SuggestRoundSum(svc, logg).ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/cart/suggestions?target=500", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Needed      types.Rubles     `json:"needed"`
			Suggestions []models.Product `json:"suggestions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.Needed != 157 {
		t.Fatalf("expected needed 157, got %d", envelope.Data.Needed)
	}
	if len(envelope.Data.Suggestions) != 1 || envelope.Data.Suggestions[0].ID != 2 {
		t.Fatalf("unexpected suggestions: %+v", envelope.Data.Suggestions)
	}
}
