package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/svetline/svetline-backend/pkg/enums"
	"github.com/svetline/svetline-backend/pkg/types"
)

// PaymentRecord is the persisted audit trail for one payment attempt.
// Rows are created by webhook delivery, keyed by the provider-issued
// payment id; initiation itself writes nothing.
type PaymentRecord struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           string                `gorm:"column:order_id;not null" json:"order_id"`
	Provider          enums.PaymentProvider `gorm:"column:provider;not null" json:"provider"`
	ProviderPaymentID string                `gorm:"column:provider_payment_id;not null;uniqueIndex" json:"provider_payment_id"`
	AmountKopecks     int64                 `gorm:"column:amount_kopecks;not null" json:"amount_kopecks"`
	Status            enums.PaymentStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	CustomerName      *string               `gorm:"column:customer_name" json:"customer_name,omitempty"`
	CustomerPhone     *string               `gorm:"column:customer_phone" json:"customer_phone,omitempty"`
	CustomerEmail     *string               `gorm:"column:customer_email" json:"customer_email,omitempty"`
	ProviderData      types.JSONText        `gorm:"column:provider_data;type:jsonb" json:"provider_data,omitempty"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
