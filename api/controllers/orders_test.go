package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/internal/orders"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

type testOrdersService struct {
	completeFn func(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error)
	billFn     func(ctx context.Context, input orders.BillToAccountInput) (*orders.BillToAccountResult, error)
}

func (s *testOrdersService) Complete(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, input)
	}
	return &orders.CompleteResult{Order: &models.Order{}}, nil
}

func (s *testOrdersService) BillToAccount(ctx context.Context, input orders.BillToAccountInput) (*orders.BillToAccountResult, error) {
	if s.billFn != nil {
		return s.billFn(ctx, input)
	}
	return &orders.BillToAccountResult{Order: &models.Order{}}, nil
}

func TestCompleteOrderDecodesCapture(t *testing.T) {
	orderID := uuid.New()
	actorID := uuid.New()
	var got orders.CompleteInput
	svc := &testOrdersService{
		completeFn: func(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error) {
			got = input
			return &orders.CompleteResult{Order: &models.Order{ID: input.OrderID}}, nil
		},
	}

	body := strings.NewReader(`{"capture":{"payment_method":"easypaisa"}}`)
	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/complete", body, actorID)
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	CompleteOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.OrderID != orderID || got.TenantID != actorID || got.ActorID != actorID {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Capture == nil || got.Capture.PaymentMethod != enums.PaymentMethodEasyPaisa {
		t.Fatalf("unexpected capture %+v", got.Capture)
	}
}

func TestCompleteOrderEmptyBodyMeansNoCapture(t *testing.T) {
	orderID := uuid.New()
	var got orders.CompleteInput
	svc := &testOrdersService{
		completeFn: func(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error) {
			got = input
			return &orders.CompleteResult{Order: &models.Order{}}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/complete", nil, uuid.New())
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	CompleteOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.Capture != nil {
		t.Fatalf("expected nil capture got %+v", got.Capture)
	}
}

func TestCompleteOrderRejectsMalformedBody(t *testing.T) {
	orderID := uuid.New()
	body := strings.NewReader(`{"capture":`)
	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/complete", body, uuid.New())
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	CompleteOrder(&testOrdersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCompleteOrderRejectsBadOrderID(t *testing.T) {
	req := authedRequest(http.MethodPost, "/api/v1/orders/banana/complete", nil, uuid.New())
	req = addRouteParam(req, "orderId", "banana")
	resp := httptest.NewRecorder()
	CompleteOrder(&testOrdersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBillOrderToAccountReturnsEntry(t *testing.T) {
	orderID := uuid.New()
	actorID := uuid.New()
	svc := &testOrdersService{
		billFn: func(ctx context.Context, input orders.BillToAccountInput) (*orders.BillToAccountResult, error) {
			if input.OrderID != orderID || input.TenantID != actorID {
				t.Fatalf("unexpected input %+v", input)
			}
			return &orders.BillToAccountResult{
				Order: &models.Order{ID: orderID},
				Entry: &models.LedgerEntry{Amount: decimal.NewFromInt(1200)},
			}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/bill-to-account", nil, actorID)
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	BillOrderToAccount(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "entry") {
		t.Fatalf("expected entry in payload got %s", resp.Body.String())
	}
}

func TestBillOrderToAccountMissingIdentity(t *testing.T) {
	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/bill-to-account", nil)
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	BillOrderToAccount(&testOrdersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
