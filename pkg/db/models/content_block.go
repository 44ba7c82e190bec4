package models

import (
	"time"

	"github.com/svetline/svetline-backend/pkg/types"
)

// ContentBlock stores operator-editable storefront content (hero banner,
// footer columns) keyed by a stable slot name.
type ContentBlock struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Slot      string         `gorm:"column:slot;not null;uniqueIndex" json:"slot"`
	Body      types.JSONText `gorm:"column:body;type:jsonb;not null" json:"body"`
	UpdatedBy *string        `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
