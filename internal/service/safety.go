package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/metrics"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"go.uber.org/zap"
)

// SafetyService wraps the validation engine with profile loading, verdict
// caching and metrics. Cache failures are logged and never fail a request.
type SafetyService struct {
	validator *safety.Validator
	profiles  IProfileService
	recipes   IRecipeService
	cache     VerdictCache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

var _ ISafetyService = (*SafetyService)(nil)

// NewSafetyService creates a new SafetyService instance. cache and m may be nil.
func NewSafetyService(validator *safety.Validator, profiles IProfileService, recipes IRecipeService, cache VerdictCache, m *metrics.Metrics, logger *zap.Logger) *SafetyService {
	if validator == nil {
		validator = safety.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SafetyService{
		validator: validator,
		profiles:  profiles,
		recipes:   recipes,
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// ValidateRecipe returns the verdict for recipe against prefs, serving it
// from the cache when the same recipe ID with the same ingredients was
// validated against an identical profile. Recipes without an ID are never
// cached. Served verdicts are counted whether computed or cached.
func (s *SafetyService) ValidateRecipe(ctx context.Context, recipe *safety.Recipe, prefs *safety.DietPreferences) (*safety.SafetyVerdict, error) {
	if recipe == nil {
		return nil, safety.ErrNilRecipe
	}

	start := time.Now()
	var hash string
	cacheable := s.cache != nil && recipe.ID != ""
	if cacheable {
		var err error
		hash, err = VerdictHash(recipe, prefs)
		if err != nil {
			return nil, err
		}
		verdict, ok, err := s.cache.Get(ctx, recipe.ID, hash)
		switch {
		case err != nil:
			s.metrics.RecordCacheLookup("error")
			s.logger.Warn("verdict cache lookup failed", zap.String("recipe_id", recipe.ID), zap.Error(err))
		case ok:
			s.metrics.RecordCacheLookup("hit")
			s.record(verdict, time.Since(start))
			return verdict, nil
		default:
			s.metrics.RecordCacheLookup("miss")
		}
	}

	verdict, err := s.validator.ValidateRecipeSafety(recipe, prefs)
	if err != nil {
		return nil, err
	}
	s.record(verdict, time.Since(start))

	s.logger.Debug("recipe validated",
		zap.String("recipe_id", recipe.ID),
		zap.Bool("safe", verdict.IsSafe),
		zap.Int("blockers", len(verdict.Blockers)),
		zap.Int("warnings", len(verdict.Warnings)),
	)

	if cacheable {
		if err := s.cache.Set(ctx, recipe.ID, hash, verdict); err != nil {
			s.logger.Warn("verdict cache store failed", zap.String("recipe_id", recipe.ID), zap.Error(err))
		}
	}
	return verdict, nil
}

func (s *SafetyService) record(verdict *safety.SafetyVerdict, elapsed time.Duration) {
	s.metrics.RecordVerdict(verdict.IsSafe, elapsed)
	for _, b := range verdict.Blockers {
		s.metrics.RecordFinding(safety.TierBlocker.String(), b.Rule)
	}
	for _, w := range verdict.Warnings {
		s.metrics.RecordFinding(safety.TierWarning.String(), w.Rule)
	}
}

// ValidateRecipeForUser validates a stored recipe against the user's stored profile.
func (s *SafetyService) ValidateRecipeForUser(ctx context.Context, userID, recipeID uuid.UUID) (*safety.SafetyVerdict, error) {
	recipe, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.profiles.GetDietPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load diet profile: %w", err)
	}
	return s.ValidateRecipe(ctx, recipe.ToSafety(), prefs)
}

func (s *SafetyService) SearchConstraints(prefs *safety.DietPreferences) safety.SearchConstraints {
	return s.validator.ValidateSearchConstraints(prefs)
}

func (s *SafetyService) SearchConstraintsForUser(ctx context.Context, userID uuid.UUID) (safety.SearchConstraints, error) {
	prefs, err := s.profiles.GetDietPreferences(ctx, userID)
	if err != nil {
		return safety.SearchConstraints{}, fmt.Errorf("failed to load diet profile: %w", err)
	}
	return s.SearchConstraints(prefs), nil
}

func (s *SafetyService) Alternatives(ingredient string, prefs *safety.DietPreferences) []string {
	return s.validator.GetSafeAlternatives(ingredient, prefs)
}

func (s *SafetyService) AlternativesForUser(ctx context.Context, userID uuid.UUID, ingredient string) ([]string, error) {
	prefs, err := s.profiles.GetDietPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load diet profile: %w", err)
	}
	return s.Alternatives(ingredient, prefs), nil
}
