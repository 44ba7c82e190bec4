package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists payment records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByProviderPaymentID loads a record by the provider-issued id.
func (r *Repository) FindByProviderPaymentID(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := r.db.WithContext(ctx).First(&record, "provider_payment_id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByID loads a record by its row id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByOrderID returns every record tied to one order.
func (r *Repository) ListByOrderID(ctx context.Context, orderID string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// List returns recent records, newest first, capped at limit.
func (r *Repository) List(ctx context.Context, limit int) ([]models.PaymentRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var records []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert writes the record keyed by provider_payment_id in one statement,
// so concurrent deliveries of the same notification collapse into a single
// row. Completed and failed rows keep their status; only the raw provider
// payload is refreshed for them. Customer contact columns stick once set,
// a later delivery without them never blanks the record.
func (r *Repository) Upsert(ctx context.Context, record *models.PaymentRecord) (*models.PaymentRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_payment_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status": gorm.Expr(
					"CASE WHEN payment_records.status IN (?, ?) THEN payment_records.status ELSE ? END",
					enums.PaymentStatusCompleted, enums.PaymentStatusFailed, record.Status,
				),
				"customer_name":  gorm.Expr("COALESCE(?, payment_records.customer_name)", record.CustomerName),
				"customer_phone": gorm.Expr("COALESCE(?, payment_records.customer_phone)", record.CustomerPhone),
				"customer_email": gorm.Expr("COALESCE(?, payment_records.customer_email)", record.CustomerEmail),
				"provider_data":  record.ProviderData,
				"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(record).Error; err != nil {
		return nil, err
	}
	return r.FindByProviderPaymentID(ctx, record.ProviderPaymentID)
}
