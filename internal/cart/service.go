package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/svetline/svetline-backend/pkg/db/models"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
	"gorm.io/gorm"
)

type catalogReader interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
}

// Snapshot is the cart state returned to callers after every operation.
type Snapshot struct {
	Items      []LineItem   `json:"items"`
	TotalItems int          `json:"total_items"`
	TotalPrice types.Rubles `json:"total_price"`
}

// Service exposes the per-session cart operations.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Snapshot, error)
	AddItem(ctx context.Context, sessionID string, productID int64) (*Snapshot, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*Snapshot, error)
	Clear(ctx context.Context, sessionID string) (*Snapshot, error)
	Suggest(ctx context.Context, sessionID string, targetSum types.Rubles) (*Suggestion, error)
}

type service struct {
	store   *Store
	catalog catalogReader
}

// NewService builds a cart service backed by the session store and catalog.
func NewService(store *Store, catalog catalogReader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{store: store, catalog: catalog}, nil
}

// Get returns the current cart snapshot for the session.
func (s *service) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	var snap *Snapshot
	s.store.With(sessionID, func(c *Cart) {
		snap = snapshot(c)
	})
	return snap, nil
}

// AddItem loads the product and adds one unit of it to the session cart.
func (s *service) AddItem(ctx context.Context, sessionID string, productID int64) (*Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	var snap *Snapshot
	s.store.With(sessionID, func(c *Cart) {
		c.AddItem(*product)
		snap = snapshot(c)
	})
	return snap, nil
}

// RemoveItem drops the product's line item; absent products are a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	var snap *Snapshot
	s.store.With(sessionID, func(c *Cart) {
		c.RemoveItem(productID)
		snap = snapshot(c)
	})
	return snap, nil
}

// UpdateQuantity sets the absolute quantity for a line item already in the
// cart. Quantities at or below zero remove the line item.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	var snap *Snapshot
	s.store.With(sessionID, func(c *Cart) {
		c.UpdateQuantity(productID, quantity)
		snap = snapshot(c)
	})
	return snap, nil
}

// Clear empties the session cart.
func (s *service) Clear(ctx context.Context, sessionID string) (*Snapshot, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	var snap *Snapshot
	s.store.With(sessionID, func(c *Cart) {
		c.Clear()
		snap = snapshot(c)
	})
	return snap, nil
}

// Suggest computes the round-sum suggestion against the active catalog.
func (s *service) Suggest(ctx context.Context, sessionID string, targetSum types.Rubles) (*Suggestion, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if targetSum <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target sum must be positive")
	}

	catalog, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	var suggestion *Suggestion
	s.store.With(sessionID, func(c *Cart) {
		suggestion = c.SuggestionToRoundSum(targetSum, catalog)
	})
	return suggestion, nil
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

func snapshot(c *Cart) *Snapshot {
	return &Snapshot{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
