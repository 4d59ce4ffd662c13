package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_SaveAndLoadKeepsOrder(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewProfileService(db)
	user := testhelpers.CreateUser(t, db, gofakeit.New(1))
	ctx := context.Background()

	prefs := &safety.DietPreferences{
		AvoidFoods:   []string{"garlic", "anchovy", "cilantro"},
		EmbraceFoods: []string{"salmon", "kale"},
		MedicalConditions: []safety.MedicalCondition{
			{ID: "celiac", Name: "Celiac Disease", Severity: safety.SeveritySevere},
			{ID: "custom-1", Name: safety.CustomConditionName, Severity: safety.SeverityMild, CustomName: "Histamine intolerance"},
		},
		SeverityLevels: safety.SeverityLevels{
			{Term: "wheat", Class: safety.SeverityClassMedical},
			{Term: "barley", Class: safety.SeverityClassMedical},
			{Term: "tomato", Class: "preference"},
		},
		TriggerFoods: []safety.TriggerFood{
			{Name: "aged cheese", Condition: "Histamine intolerance", Severity: safety.SeverityModerate, UserAdded: true},
			{Name: "wine", Condition: "Histamine intolerance", Severity: safety.SeverityMild},
		},
	}

	saved, err := svc.SaveDietPreferences(ctx, user.ID, prefs)
	require.NoError(t, err)
	assert.Equal(t, prefs, saved)

	loaded, err := svc.GetDietPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, prefs, loaded)
}

func TestProfileService_SaveReplacesProfile(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewProfileService(db)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.SaveDietPreferences(ctx, userID, testhelpers.PeanutAllergyProfile())
	require.NoError(t, err)

	replacement := testhelpers.IBSProfile()
	saved, err := svc.SaveDietPreferences(ctx, userID, replacement)
	require.NoError(t, err)
	assert.Empty(t, saved.SeverityLevels)
	assert.Empty(t, saved.EmbraceFoods)
	assert.Equal(t, replacement.TriggerFoods, saved.TriggerFoods)
}

func TestProfileService_UnknownUserHasEmptyProfile(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewProfileService(db)

	prefs, err := svc.GetDietPreferences(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, prefs.AvoidFoods)
	assert.Empty(t, prefs.AvoidFoods)
	assert.Empty(t, prefs.TriggerFoods)

	verdict, err := safety.ValidateRecipeSafety(&safety.Recipe{ID: "x", Ingredients: []string{"peanut butter"}}, prefs)
	require.NoError(t, err)
	assert.True(t, verdict.IsSafe)
}

func TestProfileService_RejectsInvalidProfiles(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewProfileService(db)

	tests := map[string]*safety.DietPreferences{
		"nil profile":      nil,
		"bad severity":     {TriggerFoods: []safety.TriggerFood{{Name: "milk", Condition: "IBS", Severity: "critical"}}},
		"missing trigger":  {TriggerFoods: []safety.TriggerFood{{Condition: "IBS", Severity: safety.SeverityMild}}},
		"blank avoid food": {AvoidFoods: []string{""}},
		"custom unnamed":   {MedicalConditions: []safety.MedicalCondition{{Name: safety.CustomConditionName, Severity: safety.SeverityMild}}},
		"empty class":      {SeverityLevels: safety.SeverityLevels{{Term: "soy"}}},
	}

	for name, prefs := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SaveDietPreferences(context.Background(), uuid.New(), prefs)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}
