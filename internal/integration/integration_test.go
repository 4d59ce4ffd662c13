package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pageza/alchemorsel-v2/safety/config"
	"github.com/pageza/alchemorsel-v2/safety/internal/api"
	"github.com/pageza/alchemorsel-v2/safety/internal/metrics"
	"github.com/pageza/alchemorsel-v2/safety/internal/middleware"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/server"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
	"github.com/pageza/alchemorsel-v2/safety/internal/testhelpers"
	"github.com/pageza/alchemorsel-v2/safety/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestSafetyStack runs the HTTP API against postgres with pgvector and redis.
func TestSafetyStack(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	redisClient := testhelpers.SetupRedis(t)
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tokens := service.NewTokenService("integration-secret", time.Hour)
	profiles := service.NewProfileService(db)
	recipes := service.NewRecipeService(db, service.NewEmbeddingService())
	safetySvc := service.NewSafetyService(
		safety.NewValidator(safety.WithSuggester(safety.DefaultSubstitutions())),
		profiles, recipes, service.NewRedisVerdictCache(redisClient, time.Minute), m, logger,
	)

	srv := server.New(server.Options{
		Config: &config.Config{
			Environment: config.Test,
			ServerHost:  "localhost",
			ServerPort:  "0",
		},
		DB:       db,
		Redis:    redisClient,
		Logger:   logger,
		Metrics:  m,
		Gatherer: reg,
		Services: api.Services{
			Safety:   safetySvc,
			Search:   service.NewSearchService(recipes, profiles, safetySvc, logger),
			Profiles: profiles,
			Tokens:   tokens,
			Limiter:  middleware.NewValidationRateLimiter(redisClient, 100, time.Minute, logger),
		},
	})

	user := testhelpers.CreateUser(t, db, gofakeit.New(3))
	token, err := tokens.GenerateToken(user.ID, user.Name)
	require.NoError(t, err)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPut, "/api/v1/profile/diet", testhelpers.PeanutAllergyProfile())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	satay, err := recipes.CreateRecipe(ctx, testhelpers.FakeRecipeWithIngredients("Satay Noodles", "rice noodles", "peanut butter"))
	require.NoError(t, err)
	require.NotNil(t, satay.Embedding)
	_, err = recipes.CreateRecipe(ctx, testhelpers.FakeRecipeWithIngredients("Sesame Noodles", "rice noodles", "sesame oil"))
	require.NoError(t, err)

	t.Run("stored recipe verdict is cached", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := do(http.MethodGet, "/api/v1/safety/recipes/"+satay.ID.String(), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var verdict safety.SafetyVerdict
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))
			assert.False(t, verdict.IsSafe)
			require.Len(t, verdict.Blockers, 1)
			assert.Equal(t, "peanut butter", verdict.Blockers[0].Ingredient)
		}

		w := do(http.MethodGet, "/metrics", nil)
		assert.Contains(t, w.Body.String(), `alchemorsel_safety_verdict_cache_lookups_total{result="hit"} 1`)
		assert.Contains(t, w.Body.String(), `alchemorsel_safety_verdict_cache_lookups_total{result="miss"} 1`)
	})

	t.Run("vector search filters unsafe recipes", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/recipes/search?q=noodles", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result types.SafeSearchResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result.Results, 1)
		assert.Equal(t, "Sesame Noodles", result.Results[0].Recipe.Name)
		assert.Equal(t, 1, result.Excluded)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("health reports both stores", func(t *testing.T) {
		w := do(http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","database":"ok","redis":"ok"}`, w.Body.String())
	})
}
