package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/pagination"
)

// Repository exposes tenant-scoped customer reads plus registration.
// Balance fields are never written here; only the ledger store mutates them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Customer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", customerID, tenantID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var list []models.Customer
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
