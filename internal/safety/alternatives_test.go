package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSubstitutions(t *testing.T) {
	table := DefaultSubstitutions()

	assert.Equal(t, []string{"oat milk", "soy milk", "coconut cream", "olive oil", "nutritional yeast"}, table.Suggest("1 cup Milk"))
	assert.Contains(t, table.Suggest("2 cups all-purpose flour"), "rice flour")
	assert.Contains(t, table.Suggest("handful of walnuts"), "pumpkin seeds")
	assert.Empty(t, table.Suggest("1 tsp salt"))
	assert.NotNil(t, table.Suggest("1 tsp salt"))
}

func TestSubstitutionTable_MultipleCategories(t *testing.T) {
	// peanut butter is both a nut and, textually, a dairy term.
	alts := DefaultSubstitutions().Suggest("1 tbsp peanut butter")
	assert.Contains(t, alts, "oat milk")
	assert.Contains(t, alts, "sunflower seed butter")
}

func TestSubstitutionTable_Deduplicates(t *testing.T) {
	table := NewSubstitutionTable([]SubstitutionCategory{
		{Category: "a", Matches: []string{"egg"}, Substitutes: []string{"flax egg", "aquafaba"}},
		{Category: "b", Matches: []string{"egg"}, Substitutes: []string{"Aquafaba", "chia egg"}},
	}, nil)

	assert.Equal(t, []string{"flax egg", "aquafaba", "chia egg"}, table.Suggest("2 eggs"))
}

func TestParseSubstitutionTable(t *testing.T) {
	table, err := ParseSubstitutionTable([]byte(`[
		{"category": "eggs", "matches": ["egg"], "substitutes": ["flax egg"]}
	]`))
	require.NoError(t, err)
	require.Len(t, table.Categories(), 1)
	assert.Equal(t, []string{"flax egg"}, table.Suggest("3 large eggs"))

	_, err = ParseSubstitutionTable([]byte(`{`))
	assert.ErrorIs(t, err, ErrInvalidSubstitutes)

	_, err = ParseSubstitutionTable([]byte(`[{"category": "", "matches": ["x"]}]`))
	assert.ErrorIs(t, err, ErrInvalidSubstitutes)

	_, err = ParseSubstitutionTable([]byte(`[{"category": "soy", "matches": []}]`))
	assert.ErrorIs(t, err, ErrInvalidSubstitutes)
}

func TestGetSafeAlternatives_FiltersBlockedSubstitutes(t *testing.T) {
	prefs := &DietPreferences{
		AvoidFoods:     []string{"soy"},
		SeverityLevels: SeverityLevels{{Term: "coconut", Class: SeverityClassMedical}},
	}

	alts := GetSafeAlternatives("1 cup milk", prefs)
	assert.Equal(t, []string{"oat milk", "olive oil", "nutritional yeast"}, alts)
}

func TestGetSafeAlternatives_UnknownIngredient(t *testing.T) {
	alts := GetSafeAlternatives("1 sprig rosemary", nil)
	assert.NotNil(t, alts)
	assert.Empty(t, alts)
}
