package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ordertrack/ordertrack-backend/api/responses"
	"github.com/ordertrack/ordertrack-backend/api/validators"
	"github.com/ordertrack/ordertrack-backend/internal/orders"
	"github.com/ordertrack/ordertrack-backend/pkg/config"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
	"github.com/ordertrack/ordertrack-backend/pkg/pagination"
)

// OrderPreview accepts a multipart workbook upload, parses and stages it,
// and returns the normalized rows for operator review.
func OrderPreview(svc orders.Service, ingest config.IngestConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, filename, supplierID, err := uploadFromRequest(r, ingest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		result, err := svc.Preview(r.Context(), orders.PreviewInput{
			Filename:   filename,
			SupplierID: supplierID,
			File:       file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input orders.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), orders.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.Get(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input orders.UpdateOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Update(r.Context(), chi.URLParam(r, "orderId"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "orderId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// uploadFromRequest pulls the workbook and supplier id out of a multipart
// form, bounded by the configured upload size.
func uploadFromRequest(r *http.Request, ingest config.IngestConfig) (file multipart.File, filename, supplierID string, err error) {
	if err := r.ParseMultipartForm(int64(ingest.MaxUploadMB) << 20); err != nil {
		return nil, "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	upload, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", "", pkgerrors.New(pkgerrors.CodeValidation, "no file selected, choose file")
	}
	supplierID = strings.TrimSpace(r.FormValue("supplier_id"))
	if supplierID == "" {
		upload.Close()
		return nil, "", "", pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	return upload, header.Filename, supplierID, nil
}
