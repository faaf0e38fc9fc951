package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finwell/internal/config"
	"github.com/aristath/finwell/internal/di"
	"github.com/aristath/finwell/internal/scheduler"
	testingpkg "github.com/aristath/finwell/internal/testing"
)

func setupServer(t *testing.T) (*Server, *di.JobInstances) {
	t.Helper()
	log := zerolog.Nop()
	cfg := &config.Config{
		DataDir:  t.TempDir(),
		Port:     8080,
		Analysis: config.AnalysisConfig{Workers: 2, FetchTimeout: 5 * time.Second},
		Risk:     config.RiskConfig{RiskFreeRate: 0.02, MarketVolatility: 0.16},
		Reports:  config.ReportsConfig{RetentionDays: 30, CleanupSchedule: "0 0 3 * * *"},
	}

	container, jobs, err := di.Wire(cfg, scheduler.New(log), log)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	srv := New(Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   true,
		DataDir:   cfg.DataDir,
		Container: container,
		Jobs:      jobs,
	})
	return srv, jobs
}

func request(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	w := request(t, srv, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, map[string]string{"marketdata": "ok", "reports": "ok"}, response.Databases)
}

func TestSystemStatus(t *testing.T) {
	srv, _ := setupServer(t)

	w := request(t, srv, "GET", "/api/system/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response SystemStatusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response.Status)
	require.Len(t, response.Databases, 2)
	assert.Equal(t, "marketdata", response.Databases[0].Name)
	assert.NotNil(t, response.Databases[0].Stats)
	assert.Equal(t, []string{"check_databases", "report_retention"}, response.Jobs)
	assert.Positive(t, response.Goroutines)
}

func TestTriggerJob(t *testing.T) {
	srv, _ := setupServer(t)

	w := request(t, srv, "POST", "/api/jobs/report_retention", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, srv, "POST", "/api/jobs/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingJob struct{}

func (failingJob) Name() string { return "failing" }
func (failingJob) Run() error   { return errors.New("boom") }

func TestTriggerJob_Failure(t *testing.T) {
	srv, _ := setupServer(t)
	srv.systemHandlers.RegisterJob(failingJob{})

	w := request(t, srv, "POST", "/api/jobs/failing", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
}

func TestIngestAnalyzeAndStoreReport(t *testing.T) {
	srv, _ := setupServer(t)

	bars, err := json.Marshal(map[string]interface{}{
		"bars": testingpkg.TrendingBars(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 60, 100, 1),
	})
	require.NoError(t, err)

	w := request(t, srv, "PUT", "/api/marketdata/AAPL/bars", string(bars))
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, srv, "PUT", "/api/marketdata/AAPL/fundamentals", `{"pe_ratio":12,"return_on_equity":0.2}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, srv, "PUT", "/api/marketdata/indices", `{"indices":[{"name":"S&P 500","symbol":"^GSPC","change_percent":0.4}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, srv, "POST", "/api/analysis", `{"symbols":["aapl"],"period":"1y","persist":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	assert.Contains(t, data["results"], "AAPL")

	w = request(t, srv, "GET", "/api/reports/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, srv, "GET", "/api/analysis/quick/AAPL", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, srv, "DELETE", "/api/reports/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDirectContracts(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []struct {
		path string
		body string
	}{
		{"/api/fundamentals/score", `{"symbol":"AAPL","metrics":{"pe_ratio":12}}`},
		{"/api/risk/assess", `{"symbol":"AAPL","bars":[{"date":"2024-01-01T00:00:00Z","close":100},{"date":"2024-01-02T00:00:00Z","close":100},{"date":"2024-01-03T00:00:00Z","close":100}]}`},
		{"/api/recommendations/synthesize", `{"symbol":"AAPL"}`},
		{"/api/portfolio/allocation", `{"recommendations":[]}`},
		{"/api/indicators", `{"symbol":"AAPL","bars":[{"date":"2024-01-01T00:00:00Z","open":100,"high":100,"low":100,"close":100,"volume":10}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := request(t, srv, "POST", tt.path, tt.body)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}
