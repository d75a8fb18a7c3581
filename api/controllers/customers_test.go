package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/internal/customers"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/pagination"
)

type testCustomersService struct {
	registerFn func(ctx context.Context, input customers.RegisterInput) (*models.Customer, error)
	listFn     func(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*customers.CustomerPage, error)
	getFn      func(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
}

func (s *testCustomersService) Register(ctx context.Context, input customers.RegisterInput) (*models.Customer, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return &models.Customer{Name: input.Name}, nil
}

func (s *testCustomersService) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	if s.getFn != nil {
		return s.getFn(ctx, tenantID, customerID)
	}
	return &models.Customer{ID: customerID}, nil
}

func (s *testCustomersService) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*customers.CustomerPage, error) {
	if s.listFn != nil {
		return s.listFn(ctx, tenantID, params)
	}
	return &customers.CustomerPage{}, nil
}

func TestRegisterCustomerCreates(t *testing.T) {
	tenantID := uuid.New()
	var got customers.RegisterInput
	svc := &testCustomersService{
		registerFn: func(ctx context.Context, input customers.RegisterInput) (*models.Customer, error) {
			got = input
			return &models.Customer{ID: uuid.New(), Name: input.Name}, nil
		},
	}

	body := strings.NewReader(`{"name":"Aisha Khan","phone":"0301-5551234","credit_limit":"5000"}`)
	req := authedRequest(http.MethodPost, "/api/v1/customers", body, tenantID)
	resp := httptest.NewRecorder()
	RegisterCustomer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.TenantID != tenantID || got.Name != "Aisha Khan" {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.CreditLimit.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected credit limit %s", got.CreditLimit)
	}
}

func TestRegisterCustomerRequiresFields(t *testing.T) {
	body := strings.NewReader(`{"phone":"0301-5551234"}`)
	req := authedRequest(http.MethodPost, "/api/v1/customers", body, uuid.New())
	resp := httptest.NewRecorder()
	RegisterCustomer(&testCustomersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListCustomersForwardsPagination(t *testing.T) {
	tenantID := uuid.New()
	svc := &testCustomersService{
		listFn: func(ctx context.Context, tid uuid.UUID, params pagination.Params) (*customers.CustomerPage, error) {
			if tid != tenantID {
				t.Fatalf("unexpected tenant %s", tid)
			}
			if params.Limit != 10 || params.Cursor != "abc" {
				t.Fatalf("unexpected params %+v", params)
			}
			return &customers.CustomerPage{
				Customers:  []models.Customer{{ID: uuid.New(), Name: "Bashir"}},
				NextCursor: "next",
			}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/customers?limit=10&cursor=abc", nil, tenantID)
	resp := httptest.NewRecorder()
	ListCustomers(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data customers.CustomerPage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Customers) != 1 || envelope.Data.NextCursor != "next" {
		t.Fatalf("unexpected page %+v", envelope.Data)
	}
}

func TestGetCustomerRejectsBadID(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/customers/xyz", nil, uuid.New())
	req = addRouteParam(req, "customerId", "xyz")
	resp := httptest.NewRecorder()
	GetCustomer(&testCustomersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
