package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pageza/alchemorsel-v2/safety/config"
	"github.com/pageza/alchemorsel-v2/safety/internal/api"
	"github.com/pageza/alchemorsel-v2/safety/internal/metrics"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
	"github.com/pageza/alchemorsel-v2/safety/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	logger := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	profiles := service.NewProfileService(db)
	recipes := service.NewRecipeService(db, nil)
	safetySvc := service.NewSafetyService(safety.NewValidator(), profiles, recipes, nil, m, logger)

	cfg := &config.Config{
		Environment: config.Test,
		ServerHost:  "localhost",
		ServerPort:  "0",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	return New(Options{
		Config:   cfg,
		DB:       db,
		Logger:   logger,
		Metrics:  m,
		Gatherer: reg,
		Services: api.Services{
			Safety:   safetySvc,
			Search:   service.NewSearchService(recipes, profiles, safetySvc, logger),
			Profiles: profiles,
			Tokens:   service.NewTokenService("test-secret", time.Hour),
		},
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestMetricsAfterValidation(t *testing.T) {
	srv := newTestServer(t)

	body := `{"recipe": {"id": "r1", "ingredients": ["shrimp"]}, "preferences": {"avoidFoods": ["shrimp"]}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/safety/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alchemorsel_safety_verdicts_total")
	assert.Contains(t, w.Body.String(), `path="/api/v1/safety/validate"`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/safety/validate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
