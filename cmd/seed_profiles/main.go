package main

import (
	"context"
	"fmt"
	"log"

	"github.com/pageza/alchemorsel-v2/safety/config"
	"github.com/pageza/alchemorsel-v2/safety/internal/database"
	"github.com/pageza/alchemorsel-v2/safety/internal/models"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
	"go.uber.org/zap"
)

// seedUser is a development account with a representative diet profile.
type seedUser struct {
	name  string
	email string
	prefs *safety.DietPreferences
}

var seedUsers = []seedUser{
	{
		name:  "Peanut Allergy",
		email: "peanut@example.com",
		prefs: &safety.DietPreferences{
			MedicalConditions: []safety.MedicalCondition{
				{ID: "peanut-allergy", Name: "Peanut Allergy", Severity: safety.SeveritySevere},
			},
			SeverityLevels: safety.SeverityLevels{
				{Term: "peanut", Class: safety.SeverityClassMedical},
				{Term: "groundnut", Class: safety.SeverityClassMedical},
			},
		},
	},
	{
		name:  "IBS",
		email: "ibs@example.com",
		prefs: &safety.DietPreferences{
			MedicalConditions: []safety.MedicalCondition{{ID: "ibs", Name: "IBS", Severity: safety.SeverityModerate}},
			TriggerFoods: []safety.TriggerFood{
				{Name: "milk", Condition: "IBS", Severity: safety.SeverityModerate},
				{Name: "onion", Condition: "IBS", Severity: safety.SeverityMild},
				{Name: "garlic", Condition: "IBS", Severity: safety.SeverityMild},
			},
		},
	},
	{
		name:  "Celiac",
		email: "celiac@example.com",
		prefs: &safety.DietPreferences{
			AvoidFoods: []string{"wheat", "barley", "rye"},
			MedicalConditions: []safety.MedicalCondition{
				{ID: "celiac", Name: "Celiac Disease", Severity: safety.SeveritySevere},
			},
			SeverityLevels: safety.SeverityLevels{{Term: "gluten", Class: safety.SeverityClassMedical}},
		},
	},
	{
		name:  "Pescatarian",
		email: "pescatarian@example.com",
		prefs: &safety.DietPreferences{
			AvoidFoods:   []string{"beef", "pork", "chicken"},
			EmbraceFoods: []string{"salmon", "shrimp", "chicken-free nuggets"},
		},
	},
	{
		name:  "No Restrictions",
		email: "open@example.com",
		prefs: &safety.DietPreferences{},
	},
}

func main() {
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

	profiles := service.NewProfileService(db)
	tokens := service.NewTokenService(cfg.JWTSecret, 0)

	zlog.Info("creating seed users with diet profiles")
	for _, seed := range seedUsers {
		var user models.User
		if err := db.Where("email = ?", seed.email).First(&user).Error; err != nil {
			user = models.User{Name: seed.name, Email: seed.email}
			if err := db.Create(&user).Error; err != nil {
				zlog.Error("failed to create user", zap.String("email", seed.email), zap.Error(err))
				continue
			}
		}

		if _, err := profiles.SaveDietPreferences(ctx, user.ID, seed.prefs); err != nil {
			zlog.Error("failed to save diet profile", zap.String("email", seed.email), zap.Error(err))
			continue
		}

		token, err := tokens.GenerateToken(user.ID, seed.name)
		if err != nil {
			zlog.Error("failed to issue token", zap.String("email", seed.email), zap.Error(err))
			continue
		}
		fmt.Printf("%-16s %s\n  token: %s\n", seed.name, seed.email, token)
	}
}
