package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/types"
	"go.uber.org/zap"
)

// SearchOptions tunes SafeSearch.
type SearchOptions struct {
	Limit         int
	IncludeUnsafe bool
}

// SearchService runs recipe searches and filters the hits through safety
// validation for the searching user.
type SearchService struct {
	recipes  IRecipeService
	profiles IProfileService
	safety   ISafetyService
	logger   *zap.Logger
}

var _ ISearchService = (*SearchService)(nil)

// NewSearchService creates a new SearchService instance
func NewSearchService(recipes IRecipeService, profiles IProfileService, safetySvc ISafetyService, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		recipes:  recipes,
		profiles: profiles,
		safety:   safetySvc,
		logger:   logger,
	}
}

// SafeSearch returns hits annotated with verdicts. Unsafe hits are dropped
// unless opts.IncludeUnsafe is set; safe hits come first, ordered by warning
// count with search order kept among equals.
func (s *SearchService) SafeSearch(ctx context.Context, userID uuid.UUID, query string, opts SearchOptions) (*types.SafeSearchResult, error) {
	prefs, err := s.profiles.GetDietPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load diet profile: %w", err)
	}

	hits, err := s.recipes.SearchRecipes(ctx, query, opts.Limit)
	if err != nil {
		return nil, err
	}

	result := &types.SafeSearchResult{
		Query:       query,
		Results:     []types.RecipeResult{},
		Constraints: s.safety.SearchConstraints(prefs),
	}

	for _, hit := range hits {
		verdict, err := s.safety.ValidateRecipe(ctx, hit.ToSafety(), prefs)
		if err != nil {
			return nil, fmt.Errorf("failed to validate recipe %s: %w", hit.ID, err)
		}
		if !verdict.IsSafe && !opts.IncludeUnsafe {
			result.Excluded++
			continue
		}
		result.Results = append(result.Results, types.RecipeResult{
			Recipe: types.RecipeSummary{
				ID:          hit.ID,
				Name:        hit.Name,
				Description: hit.Description,
				Category:    hit.Category,
				Ingredients: []string(hit.Ingredients),
			},
			Verdict: verdict,
		})
	}

	sort.SliceStable(result.Results, func(i, j int) bool {
		a, b := result.Results[i].Verdict, result.Results[j].Verdict
		if a.IsSafe != b.IsSafe {
			return a.IsSafe
		}
		return len(a.Warnings) < len(b.Warnings)
	})

	s.logger.Info("safe search",
		zap.String("user_id", userID.String()),
		zap.String("query", query),
		zap.Int("results", len(result.Results)),
		zap.Int("excluded", result.Excluded),
		zap.Bool("constraint_conflicts", !result.Constraints.Valid),
	)
	return result, nil
}
