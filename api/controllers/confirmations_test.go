package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordertrack/ordertrack-backend/internal/confirmations"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

type testConfirmationsService struct {
	listFn   func(ctx context.Context, params confirmations.ListParams) (*confirmations.ConfirmationList, error)
	exportFn func(ctx context.Context, id string) (*confirmations.ExportResult, error)
}

func (s *testConfirmationsService) Preview(context.Context, confirmations.PreviewInput) (*confirmations.PreviewResult, error) {
	return &confirmations.PreviewResult{}, nil
}

func (s *testConfirmationsService) Create(context.Context, confirmations.CreateConfirmationInput) (*confirmations.ConfirmationDetail, error) {
	return &confirmations.ConfirmationDetail{}, nil
}

func (s *testConfirmationsService) List(ctx context.Context, params confirmations.ListParams) (*confirmations.ConfirmationList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &confirmations.ConfirmationList{}, nil
}

func (s *testConfirmationsService) Get(context.Context, string) (*confirmations.ConfirmationDetail, error) {
	return &confirmations.ConfirmationDetail{}, nil
}

func (s *testConfirmationsService) Update(context.Context, string, confirmations.UpdateConfirmationInput) (*confirmations.ConfirmationDetail, error) {
	return &confirmations.ConfirmationDetail{}, nil
}

func (s *testConfirmationsService) Delete(context.Context, string) error { return nil }

func (s *testConfirmationsService) Export(ctx context.Context, id string) (*confirmations.ExportResult, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx, id)
	}
	return &confirmations.ExportResult{}, nil
}

func TestConfirmationListParsesQuery(t *testing.T) {
	var got confirmations.ListParams
	svc := &testConfirmationsService{
		listFn: func(_ context.Context, params confirmations.ListParams) (*confirmations.ConfirmationList, error) {
			got = params
			return &confirmations.ConfirmationList{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/confirmations?limit=5&cursor=abc", nil)
	resp := httptest.NewRecorder()
	ConfirmationList(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 5, got.Limit)
	require.Equal(t, "abc", got.Cursor)
}

func TestConfirmationListRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/confirmations?limit=zero", nil)
	resp := httptest.NewRecorder()
	ConfirmationList(&testConfirmationsService{}, testLogger())(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestConfirmationExportWritesAttachment(t *testing.T) {
	svc := &testConfirmationsService{
		exportFn: func(_ context.Context, id string) (*confirmations.ExportResult, error) {
			require.Equal(t, "CONF1", id)
			return &confirmations.ExportResult{
				Filename: "confirmation_CONF1.xlsx",
				Content:  []byte("workbook-bytes"),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/confirmations/CONF1/export", nil)
	req = addRouteParam(req, "confirmationId", "CONF1")
	resp := httptest.NewRecorder()
	ConfirmationExport(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, xlsxContentType, resp.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="confirmation_CONF1.xlsx"`, resp.Header().Get("Content-Disposition"))
	require.Equal(t, "workbook-bytes", resp.Body.String())
}

func TestConfirmationExportNotFound(t *testing.T) {
	svc := &testConfirmationsService{
		exportFn: func(context.Context, string) (*confirmations.ExportResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "confirmation has no items to export")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/confirmations/CONF9/export", nil)
	req = addRouteParam(req, "confirmationId", "CONF9")
	resp := httptest.NewRecorder()
	ConfirmationExport(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
	require.Equal(t, "confirmation has no items to export", envelope.Error.Message)
}
