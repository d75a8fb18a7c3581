package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/api/responses"
	"github.com/omarsaleem/tandoorpos-backend/api/validators"
	"github.com/omarsaleem/tandoorpos-backend/internal/customers"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
	"github.com/omarsaleem/tandoorpos-backend/pkg/pagination"
)

type registerCustomerBody struct {
	Name        string          `json:"name" validate:"required"`
	Phone       string          `json:"phone" validate:"required"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

func RegisterCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body registerCustomerBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Register(r.Context(), customers.RegisterInput{
			TenantID:    tenantID,
			Name:        body.Name,
			Phone:       body.Phone,
			CreditLimit: body.CreditLimit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"customer": customer})
	}
}

func ListCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), tenantID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := pathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), tenantID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"customer": customer})
	}
}
