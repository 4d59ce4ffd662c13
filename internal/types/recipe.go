package types

import (
	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
)

// RecipeSummary is the part of a recipe returned from search.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Ingredients []string  `json:"ingredients"`
}

// RecipeResult pairs a search hit with its verdict.
type RecipeResult struct {
	Recipe  RecipeSummary         `json:"recipe"`
	Verdict *safety.SafetyVerdict `json:"verdict"`
}

// SafeSearchResult is the annotated result of a safety-filtered search.
type SafeSearchResult struct {
	Query       string                   `json:"query"`
	Results     []RecipeResult           `json:"results"`
	Excluded    int                      `json:"excluded"`
	Constraints safety.SearchConstraints `json:"constraints"`
}
