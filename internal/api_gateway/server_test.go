package api_gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/api_gateway/handler"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/engine"
	processing "github.com/payments-engine/internal/transaction_processor/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{
		Application: config.ApplicationConfig{Env: "test"},
		Output:      config.OutputConfig{Precision: 4},
		Server:      config.ServerConfig{Port: 0},
	}

	eng := engine.NewSynchronized(engine.Config{})
	processor := processing.NewProcessingService(eng, nil, uuid.New(), logger)

	return NewServer(logger, cfg,
		service.NewAccountService(eng),
		service.NewTransactionService(logger, eng, processor))
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	var response handler.Response
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	}
	return rr, response
}

func TestServer_DisputeFlow(t *testing.T) {
	s := newTestServer(t)

	rr, _ := do(t, s, http.MethodPost, "/api/v1/transactions", `{"type":"deposit","client":1,"tx":1,"amount":"3.0"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, response := do(t, s, http.MethodPost, "/api/v1/transactions", `{"type":"deposit","client":1,"tx":1,"amount":"3.0"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "DUPLICATE_TRANSACTION", response.Error.Code)

	rr, _ = do(t, s, http.MethodPost, "/api/v1/transactions", `{"type":"dispute","client":1,"tx":1}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, response = do(t, s, http.MethodGet, "/api/v1/transactions/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"tx": 1.0, "client": 1.0, "amount": "3.0000", "state": "disputed"}, response.Data)

	rr, _ = do(t, s, http.MethodPost, "/api/v1/transactions", `{"type":"chargeback","client":1,"tx":1}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, response = do(t, s, http.MethodGet, "/api/v1/accounts/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{
		"client": 1.0, "available": "0.0000", "held": "0.0000", "total": "0.0000", "locked": true,
	}, response.Data)

	rr, response = do(t, s, http.MethodPost, "/api/v1/transactions", `{"type":"deposit","client":1,"tx":2,"amount":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", response.Error.Code)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	rr, _ := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = do(t, s, http.MethodGet, "/api/v1/accounts/3", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.CorrelationIDHeader))

	rr, _ = do(t, s, http.MethodGet, "/api/v1/transactions/3", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, response := do(t, s, http.MethodGet, "/api/v1/accounts", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{}, response.Data)
}

func TestServer_ListAccountsHugePage(t *testing.T) {
	s := newTestServer(t)

	rr, _ := do(t, s, http.MethodPost, "/api/v1/transactions", `{"type":"deposit","client":1,"tx":1,"amount":1}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, response := do(t, s, http.MethodGet, "/api/v1/accounts?page=18446744073709552&per_page=500", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, response.Error)
	assert.Equal(t, []any{}, response.Data)
}
