package responses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func TestWriteSuccessEnvelope(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"id": "ORD1"})

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "ORD1", body.Data["id"])
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeStateConflict, http.StatusUnprocessableEntity},
		{pkgerrors.CodeExpired, http.StatusGone},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		resp := httptest.NewRecorder()
		WriteError(context.Background(), testLogger(), resp, pkgerrors.New(tt.code, "boom"))
		require.Equal(t, tt.status, resp.Code, "code %s", tt.code)

		var body errorBody
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		require.Equal(t, string(tt.code), body.Error.Code)
	}
}

func TestWriteErrorExposesClientSafeMessage(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp,
		pkgerrors.New(pkgerrors.CodeConflict, "there is a confirmation with such name"))

	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "there is a confirmation with such name", body.Error.Message)
}

func TestWriteErrorMasksInternalDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp, errors.New("pq: connection refused on 10.0.0.4"))

	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	require.Equal(t, "internal server error", body.Error.Message)
	require.NotContains(t, resp.Body.String(), "10.0.0.4")
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"name": "name is required"})

	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp, err)

	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "name is required", body.Error.Details["name"])
}
