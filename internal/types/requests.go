package types

import (
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
)

// ValidateSafetyRequest is the body of an ad-hoc validation call. Ingredients
// must be present; an empty list is allowed.
type ValidateSafetyRequest struct {
	Recipe      safety.Recipe           `json:"recipe"`
	Preferences *safety.DietPreferences `json:"preferences"`
}

// AlternativesResponse lists substitutes for one ingredient.
type AlternativesResponse struct {
	Ingredient   string   `json:"ingredient"`
	Alternatives []string `json:"alternatives"`
}

// SearchConstraintsResponse wraps the conflict report with the flat term list.
type SearchConstraintsResponse struct {
	safety.SearchConstraints
	ConflictingTerms []string `json:"conflictingTerms"`
}

// NewSearchConstraintsResponse builds the response from a report.
func NewSearchConstraintsResponse(c safety.SearchConstraints) SearchConstraintsResponse {
	return SearchConstraintsResponse{
		SearchConstraints: c,
		ConflictingTerms:  c.ConflictingTerms(),
	}
}
