package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	pkgerrors "github.com/omarsaleem/tandoorpos-backend/pkg/errors"
	"github.com/omarsaleem/tandoorpos-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, customer *models.Customer) error
	findByIDFn func(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	listFn     func(ctx context.Context, tenantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Customer, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, customer *models.Customer) error {
	if f.createFn != nil {
		return f.createFn(ctx, customer)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, tenantID, customerID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Customer, error) {
	if f.listFn != nil {
		return f.listFn(ctx, tenantID, limit, cursor)
	}
	return nil, nil
}

func TestService_RegisterValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	ctx := context.Background()
	tenantID := uuid.New()

	cases := []struct {
		name  string
		input RegisterInput
		code  pkgerrors.Code
	}{
		{
			name:  "missing tenant",
			input: RegisterInput{Name: "Ali", Phone: "0300"},
			code:  pkgerrors.CodeUnauthorized,
		},
		{
			name:  "blank name",
			input: RegisterInput{TenantID: tenantID, Name: "   ", Phone: "0300"},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "blank phone",
			input: RegisterInput{TenantID: tenantID, Name: "Ali", Phone: ""},
			code:  pkgerrors.CodeValidation,
		},
		{
			name: "negative credit limit",
			input: RegisterInput{
				TenantID:    tenantID,
				Name:        "Ali",
				Phone:       "0300",
				CreditLimit: decimal.NewFromInt(-1),
			},
			code: pkgerrors.CodeValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestService_GetMapsNotFound(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestService_ListWrapsRepoError(t *testing.T) {
	boom := errors.New("boom")
	svc, err := NewService(&fakeRepository{
		listFn: func(ctx context.Context, tenantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Customer, error) {
			return nil, boom
		},
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.List(context.Background(), uuid.New(), pagination.Params{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause preserved, got %v", err)
	}
}

func TestService_ListPaginatesWithCursor(t *testing.T) {
	tenantID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := make([]models.Customer, 0, 3)
	for i := 0; i < 3; i++ {
		stored = append(stored, models.Customer{
			ID:        uuid.New(),
			UserID:    tenantID,
			Name:      "Customer",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}

	svc, err := NewService(&fakeRepository{
		listFn: func(ctx context.Context, tid uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Customer, error) {
			if limit != 3 {
				t.Fatalf("expected buffered limit 3 got %d", limit)
			}
			start := 0
			if cursor != nil {
				for i, c := range stored {
					if c.ID == cursor.ID {
						start = i + 1
						break
					}
				}
			}
			end := start + limit
			if end > len(stored) {
				end = len(stored)
			}
			return stored[start:end], nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	first, err := svc.List(context.Background(), tenantID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(first.Customers) != 2 {
		t.Fatalf("expected 2 customers got %d", len(first.Customers))
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor for remaining rows")
	}

	second, err := svc.List(context.Background(), tenantID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(second.Customers) != 1 {
		t.Fatalf("expected final page of 1 got %d", len(second.Customers))
	}
	if second.NextCursor != "" {
		t.Fatalf("expected empty cursor on last page got %q", second.NextCursor)
	}
}

func TestService_ListRejectsGarbageCursor(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.List(context.Background(), uuid.New(), pagination.Params{Cursor: "%%%not-base64%%%"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
