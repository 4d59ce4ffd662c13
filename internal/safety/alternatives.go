package safety

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suggester maps an ingredient to substitute ingredient names. It returns
// an empty slice when nothing is known.
type Suggester interface {
	Suggest(ingredient string) []string
}

// SubstitutionCategory groups the terms that identify an allergen category
// with the substitutes offered for it.
type SubstitutionCategory struct {
	Category    string   `json:"category"`
	Matches     []string `json:"matches"`
	Substitutes []string `json:"substitutes"`
}

// SubstitutionTable is an ordered Suggester. Every category whose terms
// match the ingredient contributes its substitutes, in table order.
type SubstitutionTable struct {
	categories []SubstitutionCategory
	matcher    Matcher
}

// NewSubstitutionTable creates a table. A nil matcher uses DefaultMatcher.
func NewSubstitutionTable(categories []SubstitutionCategory, m Matcher) *SubstitutionTable {
	if m == nil {
		m = DefaultMatcher
	}
	return &SubstitutionTable{categories: categories, matcher: m}
}

// ParseSubstitutionTable decodes a JSON array of categories.
func ParseSubstitutionTable(data []byte) (*SubstitutionTable, error) {
	var categories []SubstitutionCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubstitutes, err)
	}
	for i, c := range categories {
		if strings.TrimSpace(c.Category) == "" {
			return nil, fmt.Errorf("%w: category %d has no name", ErrInvalidSubstitutes, i)
		}
		if len(c.Matches) == 0 {
			return nil, fmt.Errorf("%w: category %q has no match terms", ErrInvalidSubstitutes, c.Category)
		}
	}
	return NewSubstitutionTable(categories, nil), nil
}

// Categories returns the table's categories.
func (t *SubstitutionTable) Categories() []SubstitutionCategory {
	return t.categories
}

// Suggest implements Suggester.
func (t *SubstitutionTable) Suggest(ingredient string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, c := range t.categories {
		if !t.matchesCategory(c, ingredient) {
			continue
		}
		for _, s := range c.Substitutes {
			key := strings.ToLower(s)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func (t *SubstitutionTable) matchesCategory(c SubstitutionCategory, ingredient string) bool {
	for _, term := range c.Matches {
		if t.matcher.Matches(ingredient, term) {
			return true
		}
	}
	return false
}

// DefaultSubstitutions covers the common allergen categories.
func DefaultSubstitutions() *SubstitutionTable {
	return NewSubstitutionTable([]SubstitutionCategory{
		{
			Category:    "dairy",
			Matches:     []string{"milk", "butter", "cheese", "cream", "yogurt", "ghee"},
			Substitutes: []string{"oat milk", "soy milk", "coconut cream", "olive oil", "nutritional yeast"},
		},
		{
			Category:    "gluten",
			Matches:     []string{"flour", "wheat", "pasta", "bread", "barley", "rye", "couscous"},
			Substitutes: []string{"rice flour", "almond flour", "gluten-free pasta", "quinoa", "buckwheat"},
		},
		{
			Category:    "nuts",
			Matches:     []string{"peanut", "almond", "walnut", "cashew", "pecan", "hazelnut", "pistachio"},
			Substitutes: []string{"sunflower seed butter", "pumpkin seeds", "toasted oats", "tahini"},
		},
	}, nil)
}

// GetSafeAlternatives returns substitutes for ingredient that are not
// themselves blocked by prefs. With no suggester configured the default
// substitution table is used.
func (v *Validator) GetSafeAlternatives(ingredient string, prefs *DietPreferences) []string {
	s := v.suggester
	if s == nil {
		s = DefaultSubstitutions()
	}
	out := []string{}
	for _, alt := range s.Suggest(ingredient) {
		if v.blocks(prefs, alt) {
			continue
		}
		out = append(out, alt)
	}
	return out
}

// GetSafeAlternatives uses the default matcher and substitution table.
func GetSafeAlternatives(ingredient string, prefs *DietPreferences) []string {
	return defaultValidator.GetSafeAlternatives(ingredient, prefs)
}
