package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ordertrack/ordertrack-backend/api/responses"
	"github.com/ordertrack/ordertrack-backend/internal/invoices"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func InvoiceItems(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoiceID, err := strconv.ParseUint(chi.URLParam(r, "invoiceId"), 10, 32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invoice id must be numeric"))
			return
		}
		items, err := svc.ListItems(r.Context(), uint(invoiceID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
