package hrest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"account-service/pkg/response"
	xerrors "account-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// the validation paths below never reach a usecase, so nil ones are fine
func newTestHandler(t *testing.T) *AccountingRestHandler {
	t.Helper()
	return NewAccountingRestHandler(nil, nil, nil, zap.NewNop())
}

func TestWriteDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "account not found", err: xerrors.ErrAccountNotFound, expected: http.StatusNotFound},
		{name: "transaction not found", err: xerrors.ErrTransactionNotFound, expected: http.StatusNotFound},
		{name: "client not found", err: xerrors.ErrClientNotFound, expected: http.StatusNotFound},
		{name: "already exists", err: xerrors.ErrAccountAlreadyExists, expected: http.StatusConflict},
		{name: "inactive client", err: xerrors.ErrInactiveClient, expected: http.StatusBadRequest},
		{name: "insufficient balance", err: xerrors.ErrInsufficientBalance, expected: http.StatusBadRequest},
		{name: "invalid input", err: xerrors.ErrInvalidInput, expected: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeDomainError(rec, tt.err)

			assert.Equal(t, tt.expected, rec.Code)

			var body response.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
		})
	}
}

func TestCreateAccountValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing account number", body: `{"account_type":"savings","client_id":"c-1","client_name":"Jose Lema","status":true,"client_status":true}`},
		{name: "unknown account type", body: `{"account_number":"478758","account_type":"credit","client_id":"c-1","client_name":"Jose Lema","status":true,"client_status":true}`},
		{name: "missing status", body: `{"account_number":"478758","account_type":"savings","client_id":"c-1","client_name":"Jose Lema"}`},
		{name: "negative initial balance", body: `{"account_number":"478758","account_type":"savings","initial_balance":"-5.00","client_id":"c-1","client_name":"Jose Lema","status":true,"client_status":true}`},
	}

	router := newTestHandler(t).Router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cuentas", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest(http.MethodPost, "/movimientos", bytes.NewBufferString(`{"transaction_type":"deposit","amount":"10.00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactionInvalidID(t *testing.T) {
	router := newTestHandler(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/movimientos/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReportQueryValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing clientId", query: "fechaInicio=2024-03-01&fechaFin=2024-03-31"},
		{name: "bad start date", query: "clientId=c-1&fechaInicio=march&fechaFin=2024-03-31"},
		{name: "bad end date", query: "clientId=c-1&fechaInicio=2024-03-01&fechaFin=31-03-2024"},
		{name: "inverted range", query: "clientId=c-1&fechaInicio=2024-03-31&fechaFin=2024-03-01"},
	}

	router := newTestHandler(t).Router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reportes?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
