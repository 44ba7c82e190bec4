package models

import (
	"time"

	"github.com/lib/pq"
)

// ReadySet is a fixed-price bundle of products sold as one purchasable
// unit. The operator sets the price independently of the constituents.
type ReadySet struct {
	ID          int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"column:name;not null" json:"name"`
	PriceRub    int64         `gorm:"column:price_rub;not null" json:"price"`
	Description string        `gorm:"column:description;not null;default:''" json:"description"`
	ProductIDs  pq.Int64Array `gorm:"column:product_ids;type:bigint[];not null" json:"product_ids"`
	IsActive    bool          `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Position    int           `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
