package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ordertrack/ordertrack-backend/internal/ingest"
	"github.com/ordertrack/ordertrack-backend/internal/orders"
	"github.com/ordertrack/ordertrack-backend/pkg/config"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

type testOrdersService struct {
	previewFn func(ctx context.Context, input orders.PreviewInput) (*orders.PreviewResult, error)
	createFn  func(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDetail, error)
	getFn     func(ctx context.Context, id string) (*orders.OrderDetail, error)
}

func (s *testOrdersService) Preview(ctx context.Context, input orders.PreviewInput) (*orders.PreviewResult, error) {
	if s.previewFn != nil {
		return s.previewFn(ctx, input)
	}
	return &orders.PreviewResult{}, nil
}

func (s *testOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDetail, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &orders.OrderDetail{}, nil
}

func (s *testOrdersService) List(context.Context, orders.ListParams) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *testOrdersService) Get(ctx context.Context, id string) (*orders.OrderDetail, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &orders.OrderDetail{}, nil
}

func (s *testOrdersService) Update(context.Context, string, orders.UpdateOrderInput) (*orders.OrderDetail, error) {
	return &orders.OrderDetail{}, nil
}

func (s *testOrdersService) Delete(context.Context, string) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func multipartUpload(t *testing.T, filename, supplierID string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if supplierID != "" {
		require.NoError(t, writer.WriteField("supplier_id", supplierID))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestOrderPreviewUploadsWorkbook(t *testing.T) {
	var got orders.PreviewInput
	svc := &testOrdersService{
		previewFn: func(_ context.Context, input orders.PreviewInput) (*orders.PreviewResult, error) {
			got = input
			return &orders.PreviewResult{
				Token:   "token-1",
				OrderID: "ORD1-C01-B02",
				Rows:    []ingest.OrderRow{{Product: "111_B02", Client: "C01", Quantity: 3}},
			}, nil
		},
	}

	body, contentType := multipartUpload(t, "ORD1-C01-B02.xlsx", "T00016", []byte("workbook"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/preview", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	OrderPreview(svc, config.IngestConfig{MaxUploadMB: 1}, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "ORD1-C01-B02.xlsx", got.Filename)
	require.Equal(t, "T00016", got.SupplierID)

	var envelope struct {
		Data orders.PreviewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "token-1", envelope.Data.Token)
	require.Len(t, envelope.Data.Rows, 1)
}

func TestOrderPreviewRequiresFileAndSupplier(t *testing.T) {
	body, contentType := multipartUpload(t, "", "T00016", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/preview", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	OrderPreview(&testOrdersService{}, config.IngestConfig{MaxUploadMB: 1}, testLogger())(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	body, contentType = multipartUpload(t, "ORD1.xlsx", "", []byte("workbook"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders/preview", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	OrderPreview(&testOrdersService{}, config.IngestConfig{MaxUploadMB: 1}, testLogger())(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOrderCreateRejectsBadBody(t *testing.T) {
	handler := OrderCreate(&testOrdersService{}, testLogger())

	// missing required fields
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"name":"x"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	require.Contains(t, envelope.Error.Details, "order_date")

	// unknown fields are rejected
	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"surprise":true}`))
	resp = httptest.NewRecorder()
	handler(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOrderGetPassesRouteParam(t *testing.T) {
	svc := &testOrdersService{
		getFn: func(_ context.Context, id string) (*orders.OrderDetail, error) {
			require.Equal(t, "ORD1-C01-B02", id)
			return &orders.OrderDetail{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD1-C01-B02", nil)
	req = addRouteParam(req, "orderId", "ORD1-C01-B02")
	resp := httptest.NewRecorder()
	OrderGet(svc, testLogger())(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}
