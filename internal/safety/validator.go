// Package safety decides whether a recipe is safe to present to a user given
// their dietary and medical profile. It performs no I/O and holds no state
// between calls.
package safety

import "fmt"

// Validator applies the ordered restriction rules to recipes. The zero value
// is not usable; construct one with NewValidator.
type Validator struct {
	matcher   Matcher
	suggester Suggester
}

// Option configures a Validator.
type Option func(*Validator)

// WithMatcher replaces the ingredient matching strategy.
func WithMatcher(m Matcher) Option {
	return func(v *Validator) {
		if m != nil {
			v.matcher = m
		}
	}
}

// WithSuggester attaches safe alternatives to every finding.
func WithSuggester(s Suggester) Option {
	return func(v *Validator) {
		v.suggester = s
	}
}

// NewValidator creates a new Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{matcher: DefaultMatcher}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// ValidateRecipeSafety validates with the default matcher and no suggester.
func ValidateRecipeSafety(recipe *Recipe, prefs *DietPreferences) (*SafetyVerdict, error) {
	return defaultValidator.ValidateRecipeSafety(recipe, prefs)
}

// ValidateRecipeSafety returns the verdict for one recipe and profile.
//
// Each ingredient is evaluated against the rules in order (avoid, medical,
// trigger). The first blocker-tier hit ends evaluation for that ingredient,
// so an ingredient never appears as both a blocker and a warning.
func (v *Validator) ValidateRecipeSafety(recipe *Recipe, prefs *DietPreferences) (*SafetyVerdict, error) {
	if recipe == nil {
		return nil, ErrNilRecipe
	}
	if recipe.Ingredients == nil {
		return nil, fmt.Errorf("recipe %q: %w", recipe.ID, ErrMissingIngredients)
	}

	verdict := &SafetyVerdict{
		Blockers: []Blocker{},
		Warnings: []Warning{},
	}
	rules := rulesFor(prefs)

	for _, ingredient := range recipe.Ingredients {
		f, ok := v.evaluate(rules, ingredient)
		if !ok {
			continue
		}
		switch f.tier {
		case TierBlocker:
			verdict.Blockers = append(verdict.Blockers, Blocker{
				Ingredient:   ingredient,
				Reason:       f.reason,
				Rule:         f.rule,
				Term:         f.term,
				Alternatives: v.alternatives(ingredient, prefs),
			})
		case TierWarning:
			verdict.Warnings = append(verdict.Warnings, Warning{
				Ingredient:   ingredient,
				Reason:       f.reason,
				Severity:     f.severity,
				Rule:         f.rule,
				Term:         f.term,
				Condition:    f.condition,
				Alternatives: v.alternatives(ingredient, prefs),
			})
		}
	}

	verdict.IsSafe = len(verdict.Blockers) == 0
	return verdict, nil
}

func (v *Validator) evaluate(rules []Rule, ingredient string) (finding, bool) {
	for _, r := range rules {
		if f, ok := r.Evaluate(v.matcher, ingredient); ok {
			return f, true
		}
	}
	return finding{}, false
}

// blocks reports whether any blocker-tier rule matches text.
func (v *Validator) blocks(prefs *DietPreferences, text string) bool {
	for _, r := range blockingRulesFor(prefs) {
		if _, ok := r.Evaluate(v.matcher, text); ok {
			return true
		}
	}
	return false
}

func (v *Validator) alternatives(ingredient string, prefs *DietPreferences) []string {
	if v.suggester == nil {
		return nil
	}
	alts := v.GetSafeAlternatives(ingredient, prefs)
	if len(alts) == 0 {
		return nil
	}
	return alts
}
