package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/omarsaleem/tandoorpos-backend/api/responses"
	"github.com/omarsaleem/tandoorpos-backend/internal/orders"
	pkgerrors "github.com/omarsaleem/tandoorpos-backend/pkg/errors"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
)

type completeOrderBody struct {
	Capture *orders.CaptureInput `json:"capture"`
}

// CompleteOrder closes out an order. The body is optional: orders that are
// already paid or billed to account complete without a capture payload.
func CompleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body completeOrderBody
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
			return
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			decoder := json.NewDecoder(bytes.NewReader(raw))
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&body); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
				return
			}
		}

		result, err := svc.Complete(r.Context(), orders.CompleteInput{
			TenantID: tenantID,
			OrderID:  orderID,
			ActorID:  tenantID,
			Capture:  body.Capture,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BillOrderToAccount posts the order's outstanding amount as a ledger debit
// against the order's customer.
func BillOrderToAccount(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BillToAccount(r.Context(), orders.BillToAccountInput{
			TenantID: tenantID,
			OrderID:  orderID,
			ActorID:  tenantID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
