package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/database"
	"github.com/marketlens/marketlens/internal/modules/analysis"
)

type staticSource struct{}

func (staticSource) DailyHistory(ctx context.Context, symbol, rng string) ([]analysis.PriceSample, error) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]analysis.PriceSample, 60)
	for i := range samples {
		samples[i] = analysis.PriceSample{Date: start.AddDate(0, 0, i), Price: 100 + float64(i)}
	}
	return samples, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	snapshots := analysis.NewSnapshotRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, snapshots.Init())

	store := &memoryStore{}
	svc := analysis.NewService(0.02, zerolog.Nop())
	handlers := analysis.NewHandlers(svc, staticSource{}, store, snapshots, nil, zerolog.Nop())

	return New(Config{
		Log:              zerolog.Nop(),
		Port:             0,
		DB:               db,
		AnalysisHandlers: handlers,
	})
}

type memoryStore struct {
	prices map[string][]analysis.PriceSample
}

func (m *memoryStore) SavePrices(symbol string, samples []analysis.PriceSample) error {
	if m.prices == nil {
		m.prices = make(map[string][]analysis.PriceSample)
	}
	m.prices[symbol] = samples
	return nil
}

func (m *memoryStore) GetPrices(symbol string, limit int) ([]analysis.PriceSample, error) {
	return m.prices[symbol], nil
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_SystemStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status systemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.GreaterOrEqual(t, status.UptimeHours, 0.0)
	assert.GreaterOrEqual(t, status.RAMPercent, 0.0)
}

func TestServer_AnalysisRoutesMounted(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/", strings.NewReader(`{"symbol": "AAPL"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot analysis.QuantitativeAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "AAPL", snapshot.Symbol)
}
