package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/models"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/types"
	pgvector "github.com/pgvector/pgvector-go"
)

// IProfileService loads and stores diet profiles.
type IProfileService interface {
	GetDietPreferences(ctx context.Context, userID uuid.UUID) (*safety.DietPreferences, error)
	SaveDietPreferences(ctx context.Context, userID uuid.UUID, prefs *safety.DietPreferences) (*safety.DietPreferences, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*models.Recipe, error)
	SearchRecipes(ctx context.Context, query string, limit int) ([]*models.Recipe, error)
}

// ISafetyService runs safety validation on behalf of API callers.
type ISafetyService interface {
	ValidateRecipe(ctx context.Context, recipe *safety.Recipe, prefs *safety.DietPreferences) (*safety.SafetyVerdict, error)
	ValidateRecipeForUser(ctx context.Context, userID, recipeID uuid.UUID) (*safety.SafetyVerdict, error)
	SearchConstraints(prefs *safety.DietPreferences) safety.SearchConstraints
	SearchConstraintsForUser(ctx context.Context, userID uuid.UUID) (safety.SearchConstraints, error)
	Alternatives(ingredient string, prefs *safety.DietPreferences) []string
	AlternativesForUser(ctx context.Context, userID uuid.UUID, ingredient string) ([]string, error)
}

// ISearchService runs recipe searches filtered through safety validation.
type ISearchService interface {
	SafeSearch(ctx context.Context, userID uuid.UUID, query string, opts SearchOptions) (*types.SafeSearchResult, error)
}

// ITokenService issues and validates bearer tokens.
type ITokenService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(userID uuid.UUID, username string) (string, error)
}

// EmbeddingServiceInterface turns text into a search embedding.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// VerdictCache stores verdicts keyed by recipe ID and VerdictHash.
type VerdictCache interface {
	Get(ctx context.Context, recipeID, inputHash string) (*safety.SafetyVerdict, bool, error)
	Set(ctx context.Context, recipeID, inputHash string, verdict *safety.SafetyVerdict) error
}
