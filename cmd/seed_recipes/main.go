package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pageza/alchemorsel-v2/safety/config"
	"github.com/pageza/alchemorsel-v2/safety/internal/database"
	"github.com/pageza/alchemorsel-v2/safety/internal/models"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
	"go.uber.org/zap"
)

// allergenRecipes give every seeded diet profile something to trip over.
var allergenRecipes = []struct {
	name        string
	category    string
	ingredients []string
}{
	{"Chicken Satay", "Dinner", []string{"1 lb chicken thigh", "3 tbsp peanut butter", "2 tbsp soy sauce", "1 clove garlic"}},
	{"Creamy Tomato Soup", "Lunch", []string{"6 tomatoes", "1 cup whole milk", "1 onion", "2 tbsp butter"}},
	{"Sourdough Toast", "Breakfast", []string{"2 slices wheat sourdough", "1 tbsp olive oil", "pinch of salt"}},
	{"Garlic Shrimp", "Dinner", []string{"1 lb shrimp", "4 cloves garlic", "2 tbsp olive oil", "1 lemon"}},
	{"Grilled Salmon", "Dinner", []string{"2 salmon fillets", "1 lemon", "fresh dill"}},
	{"Beef Tacos", "Dinner", []string{"1 lb ground beef", "8 corn tortillas", "1 cup cheddar cheese", "salsa"}},
	{"Barley Risotto", "Dinner", []string{"1 cup pearl barley", "4 cups vegetable stock", "1 onion", "parmesan"}},
	{"Fruit Salad", "Dessert", []string{"2 apples", "1 cup grapes", "1 orange", "mint"}},
}

func main() {
	fakeCount := flag.Int("fake", 25, "Number of generated recipes to add")
	seed := flag.Int64("seed", 1, "Seed for generated recipes")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zlog, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	recipes := service.NewRecipeService(db, service.NewEmbeddingService())
	created := 0

	for _, r := range allergenRecipes {
		recipe := &models.Recipe{
			Name:        r.name,
			Description: "Seed recipe: " + r.name,
			Category:    r.category,
			Ingredients: models.JSONBStringArray(r.ingredients),
		}
		if _, err := recipes.CreateRecipe(ctx, recipe); err != nil {
			zlog.Error("failed to save recipe", zap.String("name", r.name), zap.Error(err))
			continue
		}
		created++
	}

	faker := gofakeit.New(*seed)
	for i := 0; i < *fakeCount; i++ {
		ingredients := make([]string, faker.Number(3, 7))
		for j := range ingredients {
			switch faker.Number(0, 2) {
			case 0:
				ingredients[j] = fmt.Sprintf("%d cup %s", faker.Number(1, 3), faker.Vegetable())
			case 1:
				ingredients[j] = fmt.Sprintf("%d %s", faker.Number(1, 4), faker.Fruit())
			default:
				ingredients[j] = fmt.Sprintf("%d tbsp %s", faker.Number(1, 3), faker.Snack())
			}
		}
		recipe := &models.Recipe{
			Name:        faker.Dinner(),
			Description: faker.Sentence(10),
			Category:    "Dinner",
			Ingredients: models.JSONBStringArray(ingredients),
			Calories:    float64(faker.Number(150, 900)),
			Protein:     float64(faker.Number(5, 60)),
			Carbs:       float64(faker.Number(10, 120)),
			Fat:         float64(faker.Number(2, 50)),
		}
		if _, err := recipes.CreateRecipe(ctx, recipe); err != nil {
			zlog.Error("failed to save recipe", zap.String("name", recipe.Name), zap.Error(err))
			continue
		}
		created++
	}

	zlog.Info("seeded recipes", zap.Int("count", created))
}
