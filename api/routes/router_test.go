package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/internal/customers"
	"github.com/omarsaleem/tandoorpos-backend/internal/ledger"
	"github.com/omarsaleem/tandoorpos-backend/internal/orders"
	pkgAuth "github.com/omarsaleem/tandoorpos-backend/pkg/auth"
	"github.com/omarsaleem/tandoorpos-backend/pkg/config"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
	"github.com/omarsaleem/tandoorpos-backend/pkg/pagination"
	"github.com/omarsaleem/tandoorpos-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubLedgerService struct {
	summaries func(ctx context.Context, tenantID uuid.UUID) (*ledger.SummariesResult, error)
	record    func(ctx context.Context, tenantID, customerID uuid.UUID, input ledger.PaymentInput, receivedBy uuid.UUID) (*ledger.RecordPaymentResult, error)
}

func (s stubLedgerService) CurrentBalance(ctx context.Context, tenantID, customerID uuid.UUID) (types.AuthoritativeBalance, error) {
	return types.Authoritative(decimal.Zero), nil
}

func (s stubLedgerService) CreateEntry(ctx context.Context, input ledger.EntryInput) (*models.LedgerEntry, error) {
	panic("unimplemented")
}

func (s stubLedgerService) CreateEntryWithoutBalanceUpdate(ctx context.Context, input ledger.EntryInput) (*models.LedgerEntry, error) {
	panic("unimplemented")
}

func (s stubLedgerService) RecordPayment(ctx context.Context, tenantID, customerID uuid.UUID, input ledger.PaymentInput, receivedBy uuid.UUID) (*ledger.RecordPaymentResult, error) {
	if s.record != nil {
		return s.record(ctx, tenantID, customerID, input, receivedBy)
	}
	return &ledger.RecordPaymentResult{Payment: &models.Payment{}}, nil
}

func (s stubLedgerService) CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (*ledger.Summary, error) {
	return &ledger.Summary{CustomerID: customerID}, nil
}

func (s stubLedgerService) AllCustomerSummaries(ctx context.Context, tenantID uuid.UUID) (*ledger.SummariesResult, error) {
	if s.summaries != nil {
		return s.summaries(ctx, tenantID)
	}
	return &ledger.SummariesResult{}, nil
}

func (s stubLedgerService) Statement(ctx context.Context, tenantID, customerID uuid.UUID, from, to *time.Time) (*ledger.Statement, error) {
	return &ledger.Statement{Customer: &models.Customer{ID: customerID}}, nil
}

func (s stubLedgerService) UnpaidOrders(ctx context.Context, tenantID, customerID uuid.UUID) ([]ledger.UnpaidOrder, error) {
	return nil, nil
}

type stubCustomersService struct{}

func (stubCustomersService) Register(ctx context.Context, input customers.RegisterInput) (*models.Customer, error) {
	return &models.Customer{Name: input.Name}, nil
}

func (stubCustomersService) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	return &models.Customer{ID: customerID}, nil
}

func (stubCustomersService) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*customers.CustomerPage, error) {
	return &customers.CustomerPage{}, nil
}

type stubOrdersService struct {
	complete func(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error)
}

func (s stubOrdersService) Complete(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error) {
	if s.complete != nil {
		return s.complete(ctx, input)
	}
	return &orders.CompleteResult{Order: &models.Order{}}, nil
}

func (s stubOrdersService) BillToAccount(ctx context.Context, input orders.BillToAccountInput) (*orders.BillToAccountResult, error) {
	return &orders.BillToAccountResult{Order: &models.Order{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubLedgerService{},
		stubOrdersService{},
		stubCustomersService{},
		nil,
	)
}

func TestHealthLiveAlwaysUp(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestLedgerCustomerListRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/customers", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous list got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/customers", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed list got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "summaries") {
		t.Fatalf("expected summaries envelope got %s", resp.Body.String())
	}
}

func TestRecordPaymentRouteValidatesCustomerID(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/customers/not-a-uuid/payments", strings.NewReader(`{"amount":"100","payment_method":"cash"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCashier))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed customer id got %d", resp.Code)
	}
}

func TestCompleteOrderRouteAcceptsEmptyBody(t *testing.T) {
	cfg := testConfig()
	captured := make(chan orders.CompleteInput, 1)
	svc := stubOrdersService{
		complete: func(ctx context.Context, input orders.CompleteInput) (*orders.CompleteResult, error) {
			captured <- input
			return &orders.CompleteResult{Order: &models.Order{}}, nil
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(cfg, logg, stubPinger{}, nil, stubLedgerService{}, svc, stubCustomersService{}, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/complete", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty-body completion got %d: %s", resp.Code, resp.Body.String())
	}

	input := <-captured
	if input.OrderID != orderID {
		t.Fatalf("expected order id %s got %s", orderID, input.OrderID)
	}
	if input.Capture != nil {
		t.Fatalf("expected nil capture for empty body")
	}
}

func TestStatementCSVRouteSetsDownloadHeaders(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/customers/"+customerID.String()+"/statement.csv", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleOwner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for csv export got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv content type got %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, customerID.String()) {
		t.Fatalf("expected attachment disposition naming the customer got %q", got)
	}
}
