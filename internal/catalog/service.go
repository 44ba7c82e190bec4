package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/multierr"
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/enums"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"gorm.io/gorm"
)

// ProductInput carries the fields an operator can set on a product.
type ProductInput struct {
	Name           string
	Power          string
	LightColor     string
	PriceRub       int64
	Image          string
	Category       string
	CompatibleWith []int64
	Description    *string
	IsActive       bool
	Position       int
}

// ReadySetInput carries the fields an operator can set on a ready set.
type ReadySetInput struct {
	Name        string
	PriceRub    int64
	Description string
	ProductIDs  []int64
	IsActive    bool
	Position    int
}

// ReadySetDetail pairs a ready set with its constituent products.
type ReadySetDetail struct {
	Set      models.ReadySet  `json:"set"`
	Products []models.Product `json:"products"`
}

// Service exposes catalog reads for the storefront and CRUD for admins.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	ListCompatibleProducts(ctx context.Context, productID int64) ([]models.Product, error)
	ListActiveReadySets(ctx context.Context) ([]models.ReadySet, error)
	GetReadySetDetail(ctx context.Context, id int64) (*ReadySetDetail, error)

	ListAllProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListAllReadySets(ctx context.Context) ([]models.ReadySet, error)
	CreateReadySet(ctx context.Context, input ReadySetInput) (*models.ReadySet, error)
	UpdateReadySet(ctx context.Context, id int64, input ReadySetInput) (*models.ReadySet, error)
	DeleteReadySet(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct loads one product by id.
func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.FindProduct(ctx, id)
}

// ListActiveProducts returns the storefront catalog in display order.
func (s *service) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// ListProductsByCategory filters the storefront catalog by one category.
func (s *service) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	parsed, err := enums.ParseProductCategory(category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	products, err := s.repo.ListProductsByCategory(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by category")
	}
	return products, nil
}

// ListCompatibleProducts resolves a product's companion suggestions,
// keeping the order the operator set on the product.
func (s *service) ListCompatibleProducts(ctx context.Context, productID int64) ([]models.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	if len(product.CompatibleWith) == 0 {
		return nil, nil
	}
	companions, err := s.repo.ListProductsByIDs(ctx, product.CompatibleWith)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load compatible products")
	}
	active := companions[:0]
	for _, companion := range companions {
		if companion.IsActive {
			active = append(active, companion)
		}
	}
	return active, nil
}

// ListActiveReadySets returns the purchasable bundles in display order.
func (s *service) ListActiveReadySets(ctx context.Context) ([]models.ReadySet, error) {
	sets, err := s.repo.ListReadySets(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ready sets")
	}
	return sets, nil
}

// GetReadySetDetail loads a ready set with its constituent products.
func (s *service) GetReadySetDetail(ctx context.Context, id int64) (*ReadySetDetail, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ready set id is required")
	}
	set, err := s.repo.FindReadySet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ready set not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ready set")
	}
	products, err := s.repo.ListProductsByIDs(ctx, set.ProductIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ready set products")
	}
	return &ReadySetDetail{Set: *set, Products: products}, nil
}

// ListAllProducts returns every product, hidden ones included.
func (s *service) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// CreateProduct validates and inserts a new product.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product, err := buildProduct(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// UpdateProduct validates and replaces an existing product's fields.
func (s *service) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	next, err := buildProduct(input)
	if err != nil {
		return nil, err
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	updated, err := s.repo.UpdateProduct(ctx, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

// DeleteProduct removes a product.
func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ListAllReadySets returns every ready set, hidden ones included.
func (s *service) ListAllReadySets(ctx context.Context) ([]models.ReadySet, error) {
	sets, err := s.repo.ListReadySets(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ready sets")
	}
	return sets, nil
}

// CreateReadySet validates and inserts a new ready set.
func (s *service) CreateReadySet(ctx context.Context, input ReadySetInput) (*models.ReadySet, error) {
	set, err := s.buildReadySet(ctx, input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateReadySet(ctx, set)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ready set")
	}
	return created, nil
}

// UpdateReadySet validates and replaces an existing ready set's fields.
func (s *service) UpdateReadySet(ctx context.Context, id int64, input ReadySetInput) (*models.ReadySet, error) {
	existing, err := s.repo.FindReadySet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ready set not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ready set")
	}
	next, err := s.buildReadySet(ctx, input)
	if err != nil {
		return nil, err
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	updated, err := s.repo.UpdateReadySet(ctx, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ready set")
	}
	return updated, nil
}

// DeleteReadySet removes a ready set.
func (s *service) DeleteReadySet(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ready set id is required")
	}
	if err := s.repo.DeleteReadySet(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ready set not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ready set")
	}
	return nil
}

func buildProduct(input ProductInput) (*models.Product, error) {
	var errs []error
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, errors.New("product name is required"))
	}
	if input.PriceRub <= 0 {
		errs = append(errs, errors.New("product price must be positive"))
	}
	category, err := enums.ParseProductCategory(input.Category)
	if err != nil {
		errs = append(errs, errors.New("unknown product category"))
	}
	if combined := multierr.Combine(errs...); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, combined, "invalid product")
	}
	return &models.Product{
		Name:           strings.TrimSpace(input.Name),
		Power:          strings.TrimSpace(input.Power),
		LightColor:     strings.TrimSpace(input.LightColor),
		PriceRub:       input.PriceRub,
		Image:          strings.TrimSpace(input.Image),
		Category:       category,
		CompatibleWith: pq.Int64Array(input.CompatibleWith),
		Description:    input.Description,
		IsActive:       input.IsActive,
		Position:       input.Position,
	}, nil
}

func (s *service) buildReadySet(ctx context.Context, input ReadySetInput) (*models.ReadySet, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ready set name is required")
	}
	if input.PriceRub <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ready set price must be positive")
	}
	if len(input.ProductIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ready set needs at least one product")
	}
	found, err := s.repo.ListProductsByIDs(ctx, input.ProductIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify ready set products")
	}
	if len(found) != len(uniqueIDs(input.ProductIDs)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ready set references unknown products")
	}
	return &models.ReadySet{
		Name:        strings.TrimSpace(input.Name),
		PriceRub:    input.PriceRub,
		Description: strings.TrimSpace(input.Description),
		ProductIDs:  pq.Int64Array(input.ProductIDs),
		IsActive:    input.IsActive,
		Position:    input.Position,
	}, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
