package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/svetline/svetline-backend/pkg/db/models"
	pkgerrors "github.com/svetline/svetline-backend/pkg/errors"
	"github.com/svetline/svetline-backend/pkg/types"
	"gorm.io/gorm"
)

// Known storefront slots. Other slots are rejected so a typo in the admin
// panel cannot silently create an orphan block.
var knownSlots = map[string]struct{}{
	"hero":   {},
	"footer": {},
	"about":  {},
}

// Service exposes content block reads for the storefront and writes for
// the admin panel.
type Service interface {
	GetBlock(ctx context.Context, slot string) (*models.ContentBlock, error)
	ListBlocks(ctx context.Context) ([]models.ContentBlock, error)
	SaveBlock(ctx context.Context, slot string, body json.RawMessage, updatedBy string) (*models.ContentBlock, error)
}

type service struct {
	repo *Repository
}

// NewService builds the content service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

// GetBlock loads the block for one slot.
func (s *service) GetBlock(ctx context.Context, slot string) (*models.ContentBlock, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	block, err := s.repo.FindBySlot(ctx, slot)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content block not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content block")
	}
	return block, nil
}

// ListBlocks returns every configured block.
func (s *service) ListBlocks(ctx context.Context) ([]models.ContentBlock, error) {
	blocks, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list content blocks")
	}
	return blocks, nil
}

// SaveBlock validates and upserts the body for one slot.
func (s *service) SaveBlock(ctx context.Context, slot string, body json.RawMessage, updatedBy string) (*models.ContentBlock, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	if len(body) == 0 || !json.Valid(body) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content body must be valid JSON")
	}
	block := &models.ContentBlock{
		Slot: slot,
		Body: types.JSONText(body),
	}
	if trimmed := strings.TrimSpace(updatedBy); trimmed != "" {
		block.UpdatedBy = &trimmed
	}
	saved, err := s.repo.Upsert(ctx, block)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save content block")
	}
	return saved, nil
}

func validateSlot(slot string) error {
	if _, ok := knownSlots[slot]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown content slot")
	}
	return nil
}
