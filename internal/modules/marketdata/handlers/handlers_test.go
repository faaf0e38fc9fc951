package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finwell/internal/database"
	"github.com/aristath/finwell/internal/modules/marketdata"
	testingpkg "github.com/aristath/finwell/internal/testing"
)

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testingpkg.NewTestDB(t, database.MarketData)

	log := zerolog.Nop()
	router := chi.NewRouter()
	NewHandler(marketdata.NewRepository(db.Conn(), log), log).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router chi.Router, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return w.Code, nil
	}

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return w.Code, response
}

func TestBarsIngestion(t *testing.T) {
	router := setupRouter(t)

	status, _ := do(t, router, "PUT", "/marketdata/aapl/bars", `{"bars":[
		{"date":"2024-01-02T00:00:00Z","open":100,"high":101,"low":99,"close":100,"volume":1000},
		{"date":"2024-01-03T00:00:00Z","open":100,"high":103,"low":100,"close":102,"volume":1200}
	]}`)
	require.Equal(t, http.StatusOK, status)

	status, response := do(t, router, "GET", "/marketdata/AAPL/bars", "")
	require.Equal(t, http.StatusOK, status)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "AAPL", data["symbol"])
	assert.Len(t, data["bars"], 2)

	status, response = do(t, router, "GET", "/marketdata/AAPL/bars?since=2024-01-03", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, response["data"].(map[string]interface{})["bars"], 1)
}

func TestBarsIngestion_BadRequest(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"invalid json", "PUT", "/marketdata/AAPL/bars", `{"bars":`},
		{"negative close", "PUT", "/marketdata/AAPL/bars", `{"bars":[{"date":"2024-01-02T00:00:00Z","close":-1}]}`},
		{"missing date", "PUT", "/marketdata/AAPL/bars", `{"bars":[{"close":10}]}`},
		{"bad since", "GET", "/marketdata/AAPL/bars?since=yesterday", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestFundamentalsAndSymbols(t *testing.T) {
	router := setupRouter(t)

	status, _ := do(t, router, "PUT", "/marketdata/msft/fundamentals", `{"pe_ratio":30,"return_on_equity":0.4}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, router, "POST", "/marketdata/msft/articles", `{"articles":[
		{"title":"Record quarter","published_at":"2024-01-03T12:00:00Z","sentiment":{"polarity":0.5,"subjectivity":0.4}}
	]}`)
	require.Equal(t, http.StatusOK, status)

	status, response := do(t, router, "GET", "/marketdata/symbols", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{"MSFT"}, response["data"])
}

func TestMarketSnapshotIngestion(t *testing.T) {
	router := setupRouter(t)

	status, _ := do(t, router, "PUT", "/marketdata/indices", `{"indices":[
		{"name":"S&P 500","symbol":"^GSPC","current":4800,"change":24,"change_percent":0.5},
		{"name":"NASDAQ","symbol":"^IXIC","current":15000,"change":-30,"change_percent":-0.2}
	]}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, router, "PUT", "/marketdata/sectors", `{"sectors":[
		{"sector":"Technology","etf_symbol":"XLK","current_price":200,"price_change_percent":1.5}
	]}`)
	require.Equal(t, http.StatusOK, status)

	status, response := do(t, router, "GET", "/marketdata/snapshot", "")
	require.Equal(t, http.StatusOK, status)

	data := response["data"].(map[string]interface{})
	indices := data["indices"].([]interface{})
	require.Len(t, indices, 2)
	assert.Equal(t, "^GSPC", indices[0].(map[string]interface{})["symbol"])
	assert.Len(t, data["sectors"], 1)
}
