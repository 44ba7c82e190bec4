package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/svetline/svetline-backend/pkg/enums"
)

// Product represents a catalog listing. Prices are whole rubles; the shop
// sells nothing with a fractional price.
type Product struct {
	ID             int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string                `gorm:"column:name;not null" json:"name"`
	Power          string                `gorm:"column:power;not null;default:''" json:"power"`
	LightColor     string                `gorm:"column:light_color;not null;default:''" json:"light_color"`
	PriceRub       int64                 `gorm:"column:price_rub;not null" json:"price"`
	Image          string                `gorm:"column:image;not null;default:''" json:"image"`
	Category       enums.ProductCategory `gorm:"column:category;not null" json:"category"`
	CompatibleWith pq.Int64Array         `gorm:"column:compatible_with;type:bigint[]" json:"compatible_with,omitempty"`
	Description    *string               `gorm:"column:description" json:"description,omitempty"`
	IsActive       bool                  `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Position       int                   `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
