package safety

import "errors"

var (
	ErrNilRecipe          = errors.New("recipe is nil")
	ErrMissingIngredients = errors.New("recipe has no ingredient list")
	ErrInvalidSubstitutes = errors.New("invalid substitution table")
)
