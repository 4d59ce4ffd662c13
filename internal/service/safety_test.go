package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/metrics"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memoryVerdictCache struct {
	mu      sync.Mutex
	entries map[string]*safety.SafetyVerdict
	gets    int
	sets    int
	err     error
}

func newMemoryVerdictCache() *memoryVerdictCache {
	return &memoryVerdictCache{entries: map[string]*safety.SafetyVerdict{}}
}

func (c *memoryVerdictCache) Get(_ context.Context, recipeID, inputHash string) (*safety.SafetyVerdict, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.entries[verdictKey(recipeID, inputHash)]
	return v, ok, nil
}

func (c *memoryVerdictCache) Set(_ context.Context, recipeID, inputHash string, verdict *safety.SafetyVerdict) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.entries[verdictKey(recipeID, inputHash)] = verdict
	return nil
}

func newTestSafetyService(t *testing.T, cache VerdictCache) (*SafetyService, *ProfileService, *RecipeService) {
	db := testhelpers.SetupSQLite(t)
	profiles := NewProfileService(db)
	recipes := NewRecipeService(db, NewEmbeddingService())
	svc := NewSafetyService(safety.NewValidator(), profiles, recipes, cache, metrics.New(prometheus.NewRegistry()), zaptest.NewLogger(t))
	return svc, profiles, recipes
}

func TestSafetyService_ValidateRecipeCaches(t *testing.T) {
	cache := newMemoryVerdictCache()
	svc, _, _ := newTestSafetyService(t, cache)
	ctx := context.Background()

	recipe := &safety.Recipe{ID: "recipe-1", Ingredients: []string{"1 cup flour", "1 tbsp peanut butter"}}
	prefs := testhelpers.PeanutAllergyProfile()

	first, err := svc.ValidateRecipe(ctx, recipe, prefs)
	require.NoError(t, err)
	assert.False(t, first.IsSafe)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.ValidateRecipe(ctx, recipe, prefs)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.sets)

	// A different profile must not be served the cached verdict.
	third, err := svc.ValidateRecipe(ctx, recipe, testhelpers.IBSProfile())
	require.NoError(t, err)
	assert.True(t, third.IsSafe)
	assert.Equal(t, 2, cache.sets)
}

func TestSafetyService_SameIDDifferentIngredientsRevalidates(t *testing.T) {
	cache := newMemoryVerdictCache()
	svc, _, _ := newTestSafetyService(t, cache)
	ctx := context.Background()
	prefs := testhelpers.PeanutAllergyProfile()

	harmless, err := svc.ValidateRecipe(ctx, &safety.Recipe{ID: "r1", Ingredients: []string{"1 cup water"}}, prefs)
	require.NoError(t, err)
	assert.True(t, harmless.IsSafe)

	verdict, err := svc.ValidateRecipe(ctx, &safety.Recipe{ID: "r1", Ingredients: []string{"1 tbsp peanut butter"}}, prefs)
	require.NoError(t, err)
	assert.False(t, verdict.IsSafe)
	require.Len(t, verdict.Blockers, 1)
	assert.Equal(t, "1 tbsp peanut butter", verdict.Blockers[0].Ingredient)
	assert.Equal(t, 2, cache.sets)
}

func TestSafetyService_CacheHitsAreCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	db := testhelpers.SetupSQLite(t)
	svc := NewSafetyService(safety.NewValidator(), NewProfileService(db), NewRecipeService(db, NewEmbeddingService()),
		newMemoryVerdictCache(), metrics.New(reg), zaptest.NewLogger(t))

	recipe := &safety.Recipe{ID: "recipe-1", Ingredients: []string{"1 tbsp peanut butter"}}
	for i := 0; i < 2; i++ {
		_, err := svc.ValidateRecipe(context.Background(), recipe, testhelpers.PeanutAllergyProfile())
		require.NoError(t, err)
	}

	expected := `
# HELP alchemorsel_safety_verdicts_total Safety verdicts issued, by outcome.
# TYPE alchemorsel_safety_verdicts_total counter
alchemorsel_safety_verdicts_total{outcome="unsafe"} 2
# HELP alchemorsel_safety_verdict_cache_lookups_total Verdict cache lookups, by result.
# TYPE alchemorsel_safety_verdict_cache_lookups_total counter
alchemorsel_safety_verdict_cache_lookups_total{result="hit"} 1
alchemorsel_safety_verdict_cache_lookups_total{result="miss"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"alchemorsel_safety_verdicts_total", "alchemorsel_safety_verdict_cache_lookups_total"))
}

func TestSafetyService_RecipesWithoutIDSkipCache(t *testing.T) {
	cache := newMemoryVerdictCache()
	svc, _, _ := newTestSafetyService(t, cache)

	_, err := svc.ValidateRecipe(context.Background(), &safety.Recipe{Ingredients: []string{"salt"}}, nil)
	require.NoError(t, err)
	assert.Zero(t, cache.gets)
	assert.Zero(t, cache.sets)
}

func TestSafetyService_CacheErrorsDoNotFailValidation(t *testing.T) {
	cache := newMemoryVerdictCache()
	cache.err = errors.New("connection refused")
	svc, _, _ := newTestSafetyService(t, cache)

	verdict, err := svc.ValidateRecipe(context.Background(), &safety.Recipe{ID: "r", Ingredients: []string{"1 cup milk"}}, testhelpers.IBSProfile())
	require.NoError(t, err)
	require.Len(t, verdict.Warnings, 1)
	assert.Equal(t, 1, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestSafetyService_InputErrors(t *testing.T) {
	svc, _, _ := newTestSafetyService(t, nil)
	ctx := context.Background()

	_, err := svc.ValidateRecipe(ctx, nil, nil)
	assert.ErrorIs(t, err, safety.ErrNilRecipe)

	_, err = svc.ValidateRecipe(ctx, &safety.Recipe{ID: "r"}, nil)
	assert.ErrorIs(t, err, safety.ErrMissingIngredients)
}

func TestSafetyService_ValidateRecipeForUser(t *testing.T) {
	svc, profiles, recipes := newTestSafetyService(t, newMemoryVerdictCache())
	ctx := context.Background()
	userID := uuid.New()

	_, err := profiles.SaveDietPreferences(ctx, userID, testhelpers.IBSProfile())
	require.NoError(t, err)
	recipe, err := recipes.CreateRecipe(ctx, testhelpers.FakeRecipeWithIngredients("Creamy Pasta", "1 box pasta", "1 cup milk", "1/2 cup cheese"))
	require.NoError(t, err)

	verdict, err := svc.ValidateRecipeForUser(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, verdict.IsSafe)
	require.Len(t, verdict.Warnings, 1)
	assert.Equal(t, "1 cup milk", verdict.Warnings[0].Ingredient)
	assert.Contains(t, verdict.Warnings[0].Reason, "which can trigger IBS")

	_, err = svc.ValidateRecipeForUser(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestSafetyService_ConstraintsAndAlternativesForUser(t *testing.T) {
	svc, profiles, _ := newTestSafetyService(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	prefs := &safety.DietPreferences{
		AvoidFoods:   []string{"soy"},
		EmbraceFoods: []string{"soy milk", "salmon"},
	}
	_, err := profiles.SaveDietPreferences(ctx, userID, prefs)
	require.NoError(t, err)

	constraints, err := svc.SearchConstraintsForUser(ctx, userID)
	require.NoError(t, err)
	assert.False(t, constraints.Valid)
	assert.Equal(t, []string{"soy milk"}, constraints.ConflictingTerms())

	alts, err := svc.AlternativesForUser(ctx, userID, "1 cup milk")
	require.NoError(t, err)
	assert.Contains(t, alts, "oat milk")
	assert.NotContains(t, alts, "soy milk")
}
