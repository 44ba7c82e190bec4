package catalog

import (
	"context"

	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository wires product and ready-set persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProduct loads a single product by id.
func (r *Repository) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns products ordered by position then id. When
// activeOnly is set, hidden products are excluded.
func (r *Repository) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("position ASC, id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsByCategory returns active products within one category.
func (r *Repository) ListProductsByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		Order("position ASC, id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsByIDs loads products for the given ids, preserving the
// order of the ids argument.
func (r *Repository) ListProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product row.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindReadySet loads a single ready set by id.
func (r *Repository) FindReadySet(ctx context.Context, id int64) (*models.ReadySet, error) {
	var set models.ReadySet
	if err := r.db.WithContext(ctx).First(&set, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

// ListReadySets returns ready sets ordered by position then id.
func (r *Repository) ListReadySets(ctx context.Context, activeOnly bool) ([]models.ReadySet, error) {
	query := r.db.WithContext(ctx).Order("position ASC, id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var sets []models.ReadySet
	if err := query.Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// CreateReadySet inserts a new ready set row.
func (r *Repository) CreateReadySet(ctx context.Context, set *models.ReadySet) (*models.ReadySet, error) {
	if err := r.db.WithContext(ctx).Create(set).Error; err != nil {
		return nil, err
	}
	return set, nil
}

// UpdateReadySet updates an existing ready set row.
func (r *Repository) UpdateReadySet(ctx context.Context, set *models.ReadySet) (*models.ReadySet, error) {
	if err := r.db.WithContext(ctx).Save(set).Error; err != nil {
		return nil, err
	}
	return set, nil
}

// DeleteReadySet removes the ready set row.
func (r *Repository) DeleteReadySet(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ReadySet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
