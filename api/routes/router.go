package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omarsaleem/tandoorpos-backend/api/controllers"
	"github.com/omarsaleem/tandoorpos-backend/api/middleware"
	"github.com/omarsaleem/tandoorpos-backend/internal/customers"
	"github.com/omarsaleem/tandoorpos-backend/internal/ledger"
	"github.com/omarsaleem/tandoorpos-backend/internal/orders"
	"github.com/omarsaleem/tandoorpos-backend/pkg/config"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
	pkgredis "github.com/omarsaleem/tandoorpos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	ledgerService ledger.Service,
	ordersService orders.Service,
	customersService customers.Service,
	promReg *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var cachePinger interface {
		Ping(ctx context.Context) error
	}
	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		cachePinger = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cachePinger))
	})

	if promReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Ledger.IdempotencyTTL, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(customersService, logg))
			r.Post("/", controllers.RegisterCustomer(customersService, logg))
			r.Get("/{customerId}", controllers.GetCustomer(customersService, logg))
		})

		r.Route("/v1/ledger/customers", func(r chi.Router) {
			r.Get("/", controllers.LedgerCustomers(ledgerService, logg))
			r.Route("/{customerId}", func(r chi.Router) {
				r.Get("/", controllers.LedgerCustomerSummary(ledgerService, logg))
				r.Get("/statement", controllers.LedgerStatement(ledgerService, logg))
				r.Get("/statement.csv", controllers.LedgerStatementCSV(ledgerService, logg))
				r.Get("/unpaid-orders", controllers.LedgerUnpaidOrders(ledgerService, logg))
				r.Post("/payments", controllers.LedgerRecordPayment(ledgerService, logg))
			})
		})

		r.Route("/v1/orders/{orderId}", func(r chi.Router) {
			r.Post("/complete", controllers.CompleteOrder(ordersService, logg))
			r.Post("/bill-to-account", controllers.BillOrderToAccount(ordersService, logg))
		})
	})

	return r
}
