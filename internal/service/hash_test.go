package service

import (
	"testing"

	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHash(t *testing.T) {
	a, err := ProfileHash(testhelpers.PeanutAllergyProfile())
	require.NoError(t, err)
	b, err := ProfileHash(testhelpers.PeanutAllergyProfile())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c, err := ProfileHash(testhelpers.IBSProfile())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestProfileHash_NilAndEmptyCollectionsAgree(t *testing.T) {
	nilHash, err := ProfileHash(nil)
	require.NoError(t, err)
	emptyHash, err := ProfileHash(&safety.DietPreferences{
		AvoidFoods:        []string{},
		EmbraceFoods:      []string{},
		MedicalConditions: []safety.MedicalCondition{},
		SeverityLevels:    safety.SeverityLevels{},
		TriggerFoods:      []safety.TriggerFood{},
	})
	require.NoError(t, err)
	assert.Equal(t, nilHash, emptyHash)
}

func TestProfileHash_OrderMatters(t *testing.T) {
	first, err := ProfileHash(&safety.DietPreferences{TriggerFoods: []safety.TriggerFood{
		{Name: "milk", Condition: "IBS", Severity: safety.SeverityMild},
		{Name: "cream", Condition: "GERD", Severity: safety.SeveritySevere},
	}})
	require.NoError(t, err)
	second, err := ProfileHash(&safety.DietPreferences{TriggerFoods: []safety.TriggerFood{
		{Name: "cream", Condition: "GERD", Severity: safety.SeveritySevere},
		{Name: "milk", Condition: "IBS", Severity: safety.SeverityMild},
	}})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerdictHash_CoversIngredients(t *testing.T) {
	prefs := testhelpers.PeanutAllergyProfile()
	water, err := VerdictHash(&safety.Recipe{ID: "r1", Ingredients: []string{"1 cup water"}}, prefs)
	require.NoError(t, err)
	peanut, err := VerdictHash(&safety.Recipe{ID: "r1", Ingredients: []string{"1 tbsp peanut butter"}}, prefs)
	require.NoError(t, err)
	assert.NotEqual(t, water, peanut)

	again, err := VerdictHash(&safety.Recipe{ID: "other", Ingredients: []string{"1 cup water"}}, prefs)
	require.NoError(t, err)
	assert.Equal(t, water, again)

	otherProfile, err := VerdictHash(&safety.Recipe{ID: "r1", Ingredients: []string{"1 cup water"}}, testhelpers.IBSProfile())
	require.NoError(t, err)
	assert.NotEqual(t, water, otherProfile)
}
