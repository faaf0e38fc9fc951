package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/analysis"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*domain.AnalysisReport, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisReport), args.Error(1)
}

func (m *mockAnalyzer) QuickAnalysis(ctx context.Context, symbol string) (*domain.QuickAnalysis, error) {
	args := m.Called(symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuickAnalysis), args.Error(1)
}

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) Save(ctx context.Context, report *domain.AnalysisReport) (string, error) {
	args := m.Called(report)
	return args.String(0), args.Error(1)
}

func newRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	return r
}

func TestHandleAnalyze(t *testing.T) {
	analyzer := new(mockAnalyzer)
	saver := new(mockSaver)
	report := &domain.AnalysisReport{Symbols: []string{"AAPL"}, Period: "1y", Quality: domain.QualityGood}

	analyzer.On("Analyze", analysis.Request{Symbols: []string{"AAPL"}, Period: "1y"}).Return(report, nil)
	saver.On("Save", report).Return("abc", nil)

	router := newRouter(NewHandler(analyzer, saver, zerolog.Nop()))

	body := `{"symbols":["AAPL"],"period":"1y","persist":true}`
	req := httptest.NewRequest("POST", "/api/analysis/", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "good", data["analysis_quality"])
	assert.Equal(t, true, response["metadata"].(map[string]interface{})["persisted"])

	analyzer.AssertExpectations(t)
	saver.AssertExpectations(t)
}

func TestHandleAnalyze_WithoutPersist(t *testing.T) {
	analyzer := new(mockAnalyzer)
	saver := new(mockSaver)
	analyzer.On("Analyze", mock.Anything).Return(&domain.AnalysisReport{}, nil)

	router := newRouter(NewHandler(analyzer, saver, zerolog.Nop()))
	req := httptest.NewRequest("POST", "/api/analysis/", strings.NewReader(`{"symbols":["MSFT"]}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	saver.AssertNotCalled(t, "Save", mock.Anything)
}

func TestHandleAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{"symbols":`, nil, http.StatusBadRequest},
		{"empty symbols", `{"symbols":[]}`, domain.ErrEmptySymbolSet, http.StatusBadRequest},
		{"bad period", `{"symbols":["A"],"period":"9d"}`, domain.ErrInvalidPeriod, http.StatusBadRequest},
		{"internal", `{"symbols":["A"]}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := new(mockAnalyzer)
			if tt.err != nil {
				analyzer.On("Analyze", mock.Anything).Return(nil, tt.err)
			}

			router := newRouter(NewHandler(analyzer, new(mockSaver), zerolog.Nop()))
			req := httptest.NewRequest("POST", "/api/analysis/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandleQuickAnalysis(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("QuickAnalysis", "AAPL").Return(&domain.QuickAnalysis{Symbol: "AAPL", RiskLevel: domain.RiskLow}, nil)
	analyzer.On("QuickAnalysis", "NOPE").Return(nil, domain.NewStageError("NOPE", domain.StageData, domain.ErrNotFound))

	router := newRouter(NewHandler(analyzer, new(mockSaver), zerolog.Nop()))

	req := httptest.NewRequest("GET", "/api/analysis/quick/AAPL", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "LOW", response["data"].(map[string]interface{})["risk_level"])

	req = httptest.NewRequest("GET", "/api/analysis/quick/NOPE", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
