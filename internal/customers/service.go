package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	pkgerrors "github.com/omarsaleem/tandoorpos-backend/pkg/errors"
	"github.com/omarsaleem/tandoorpos-backend/pkg/pagination"
)

// Service defines tenant-scoped customer operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Customer, error)
	Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*CustomerPage, error)
}

// CustomerPage is one cursor page of the tenant's customer list.
type CustomerPage struct {
	Customers  []models.Customer `json:"customers"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

type service struct {
	repo Repository
}

// RegisterInput captures the data required to register a billing profile.
type RegisterInput struct {
	TenantID    uuid.UUID
	Name        string
	Phone       string
	CreditLimit decimal.Decimal
}

// NewService wires a customers service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Customer, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if input.CreditLimit.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit limit cannot be negative")
	}

	customer := &models.Customer{
		UserID:         input.TenantID,
		Name:           name,
		Phone:          phone,
		CreditLimit:    input.CreditLimit,
		AccountBalance: decimal.Zero,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	customer, err := s.repo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*CustomerPage, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	list, err := s.repo.ListByTenant(ctx, tenantID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	page := &CustomerPage{Customers: list}
	if len(list) > limit {
		page.Customers = list[:limit]
		last := page.Customers[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}
