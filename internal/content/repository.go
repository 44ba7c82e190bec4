package content

import (
	"context"

	"github.com/svetline/svetline-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the editable storefront content blocks.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySlot loads a content block by its slot name.
func (r *Repository) FindBySlot(ctx context.Context, slot string) (*models.ContentBlock, error) {
	var block models.ContentBlock
	if err := r.db.WithContext(ctx).First(&block, "slot = ?", slot).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

// List returns all content blocks ordered by slot.
func (r *Repository) List(ctx context.Context) ([]models.ContentBlock, error) {
	var blocks []models.ContentBlock
	if err := r.db.WithContext(ctx).Order("slot ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// Upsert writes the block for its slot, replacing the body on conflict.
func (r *Repository) Upsert(ctx context.Context, block *models.ContentBlock) (*models.ContentBlock, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_by", "updated_at"}),
		}).
		Create(block).Error; err != nil {
		return nil, err
	}
	return r.FindBySlot(ctx, block.Slot)
}
