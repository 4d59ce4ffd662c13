package testhelpers

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/models"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"gorm.io/gorm"
)

// PeanutAllergyProfile blocks peanut butter as a medical restriction.
func PeanutAllergyProfile() *safety.DietPreferences {
	return &safety.DietPreferences{
		AvoidFoods:   []string{},
		EmbraceFoods: []string{"salmon"},
		MedicalConditions: []safety.MedicalCondition{
			{ID: "peanut-allergy", Name: "Peanut Allergy", Severity: safety.SeveritySevere},
		},
		SeverityLevels: safety.SeverityLevels{{Term: "peanut butter", Class: safety.SeverityClassMedical}},
		TriggerFoods:   []safety.TriggerFood{},
	}
}

// IBSProfile warns about milk.
func IBSProfile() *safety.DietPreferences {
	return &safety.DietPreferences{
		AvoidFoods:        []string{},
		EmbraceFoods:      []string{},
		MedicalConditions: []safety.MedicalCondition{{ID: "ibs", Name: "IBS", Severity: safety.SeverityModerate}},
		SeverityLevels:    safety.SeverityLevels{},
		TriggerFoods: []safety.TriggerFood{
			{Name: "milk", Condition: "IBS", Severity: safety.SeverityModerate},
		},
	}
}

// CreateUser stores a user with a generated name and email.
func CreateUser(t *testing.T, db *gorm.DB, f *gofakeit.Faker) *models.User {
	t.Helper()
	user := &models.User{Name: f.Name(), Email: fmt.Sprintf("%s@%s", uuid.NewString(), f.DomainName())}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateRecipe stores a recipe with the given ingredients.
func CreateRecipe(t *testing.T, db *gorm.DB, name string, ingredients ...string) *models.Recipe {
	t.Helper()
	recipe := FakeRecipeWithIngredients(name, ingredients...)
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

// FakeRecipe builds an unsaved recipe with generated name and ingredients.
func FakeRecipe(f *gofakeit.Faker) *models.Recipe {
	ingredients := make([]string, f.Number(2, 6))
	for i := range ingredients {
		ingredients[i] = fmt.Sprintf("%d cup %s", f.Number(1, 3), f.Vegetable())
	}
	return &models.Recipe{
		Name:        f.Dinner(),
		Description: f.Sentence(8),
		Category:    "Dinner",
		Ingredients: ingredients,
		Calories:    float64(f.Number(100, 900)),
	}
}

// FakeRecipeWithIngredients builds an unsaved recipe with a fixed name and ingredients.
func FakeRecipeWithIngredients(name string, ingredients ...string) *models.Recipe {
	return &models.Recipe{
		Name:        name,
		Description: "A recipe for " + name,
		Category:    "Dinner",
		Ingredients: models.JSONBStringArray(ingredients),
	}
}
