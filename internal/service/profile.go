package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/models"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"gorm.io/gorm"
)

// ProfileService handles diet profile storage
type ProfileService struct {
	db       *gorm.DB
	validate *validator.Validate
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:       db,
		validate: validator.New(),
	}
}

type conditionInput struct {
	Name       string `validate:"required,max=100"`
	Severity   string `validate:"oneof=mild moderate severe"`
	CustomName string `validate:"required_if=Name Custom,max=100"`
}

type severityInput struct {
	Term  string `validate:"required,max=100"`
	Class string `validate:"required,max=32"`
}

type triggerInput struct {
	Name      string `validate:"required,max=100"`
	Condition string `validate:"required,max=100"`
	Severity  string `validate:"oneof=mild moderate severe"`
}

type profileInput struct {
	AvoidFoods        []string         `validate:"dive,required,max=100"`
	EmbraceFoods      []string         `validate:"dive,required,max=100"`
	MedicalConditions []conditionInput `validate:"dive"`
	SeverityLevels    []severityInput  `validate:"dive"`
	TriggerFoods      []triggerInput   `validate:"dive"`
}

func toProfileInput(prefs *safety.DietPreferences) profileInput {
	in := profileInput{
		AvoidFoods:   prefs.AvoidFoods,
		EmbraceFoods: prefs.EmbraceFoods,
	}
	for _, c := range prefs.MedicalConditions {
		in.MedicalConditions = append(in.MedicalConditions, conditionInput{c.Name, string(c.Severity), c.CustomName})
	}
	for _, l := range prefs.SeverityLevels {
		in.SeverityLevels = append(in.SeverityLevels, severityInput{l.Term, l.Class})
	}
	for _, t := range prefs.TriggerFoods {
		in.TriggerFoods = append(in.TriggerFoods, triggerInput{t.Name, t.Condition, string(t.Severity)})
	}
	return in
}

// ValidatePreferences checks a profile before it is stored.
func (s *ProfileService) ValidatePreferences(prefs *safety.DietPreferences) error {
	if prefs == nil {
		return fmt.Errorf("%w: preferences are required", ErrInvalidProfile)
	}
	if err := s.validate.Struct(toProfileInput(prefs)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// GetDietPreferences loads a user's profile in declaration order. A user
// without any stored rows gets an empty profile.
func (s *ProfileService) GetDietPreferences(ctx context.Context, userID uuid.UUID) (*safety.DietPreferences, error) {
	db := s.db.WithContext(ctx)

	var foods []models.FoodPreference
	if err := db.Where("user_id = ?", userID).Order("position").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to load food preferences: %w", err)
	}
	var conditions []models.MedicalCondition
	if err := db.Where("user_id = ?", userID).Order("position").Find(&conditions).Error; err != nil {
		return nil, fmt.Errorf("failed to load medical conditions: %w", err)
	}
	var levels []models.IngredientSeverity
	if err := db.Where("user_id = ?", userID).Order("position").Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("failed to load severity levels: %w", err)
	}
	var triggers []models.TriggerFood
	if err := db.Where("user_id = ?", userID).Order("position").Find(&triggers).Error; err != nil {
		return nil, fmt.Errorf("failed to load trigger foods: %w", err)
	}

	prefs := &safety.DietPreferences{
		AvoidFoods:        []string{},
		EmbraceFoods:      []string{},
		MedicalConditions: []safety.MedicalCondition{},
		SeverityLevels:    safety.SeverityLevels{},
		TriggerFoods:      []safety.TriggerFood{},
	}
	for _, f := range foods {
		switch f.Kind {
		case models.FoodKindAvoid:
			prefs.AvoidFoods = append(prefs.AvoidFoods, f.Food)
		case models.FoodKindEmbrace:
			prefs.EmbraceFoods = append(prefs.EmbraceFoods, f.Food)
		}
	}
	for _, c := range conditions {
		prefs.MedicalConditions = append(prefs.MedicalConditions, safety.MedicalCondition{
			ID:         c.ConditionID,
			Name:       c.Name,
			Severity:   safety.Severity(c.Severity),
			CustomName: c.CustomName,
		})
	}
	for _, l := range levels {
		prefs.SeverityLevels = append(prefs.SeverityLevels, safety.SeverityLevel{Term: l.Term, Class: l.Class})
	}
	for _, t := range triggers {
		prefs.TriggerFoods = append(prefs.TriggerFoods, safety.TriggerFood{
			Name:      t.Name,
			Condition: t.Condition,
			Severity:  safety.Severity(t.Severity),
			UserAdded: t.UserAdded,
		})
	}
	return prefs, nil
}

// SaveDietPreferences replaces the user's whole profile and returns it as stored.
func (s *ProfileService) SaveDietPreferences(ctx context.Context, userID uuid.UUID, prefs *safety.DietPreferences) (*safety.DietPreferences, error) {
	if err := s.ValidatePreferences(prefs); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range models.DietModels() {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to clear diet profile: %w", err)
			}
		}

		var foods []models.FoodPreference
		for i, f := range prefs.AvoidFoods {
			foods = append(foods, models.FoodPreference{UserID: userID, Kind: models.FoodKindAvoid, Food: f, Position: i})
		}
		for i, f := range prefs.EmbraceFoods {
			foods = append(foods, models.FoodPreference{UserID: userID, Kind: models.FoodKindEmbrace, Food: f, Position: i})
		}
		if len(foods) > 0 {
			if err := tx.Create(&foods).Error; err != nil {
				return fmt.Errorf("failed to save food preferences: %w", err)
			}
		}

		var conditions []models.MedicalCondition
		for i, c := range prefs.MedicalConditions {
			conditions = append(conditions, models.MedicalCondition{
				UserID:      userID,
				ConditionID: c.ID,
				Name:        c.Name,
				Severity:    string(c.Severity),
				CustomName:  c.CustomName,
				Position:    i,
			})
		}
		if len(conditions) > 0 {
			if err := tx.Create(&conditions).Error; err != nil {
				return fmt.Errorf("failed to save medical conditions: %w", err)
			}
		}

		var levels []models.IngredientSeverity
		for i, l := range prefs.SeverityLevels {
			levels = append(levels, models.IngredientSeverity{UserID: userID, Term: l.Term, Class: l.Class, Position: i})
		}
		if len(levels) > 0 {
			if err := tx.Create(&levels).Error; err != nil {
				return fmt.Errorf("failed to save severity levels: %w", err)
			}
		}

		var triggers []models.TriggerFood
		for i, t := range prefs.TriggerFoods {
			triggers = append(triggers, models.TriggerFood{
				UserID:    userID,
				Name:      t.Name,
				Condition: t.Condition,
				Severity:  string(t.Severity),
				UserAdded: t.UserAdded,
				Position:  i,
			})
		}
		if len(triggers) > 0 {
			if err := tx.Create(&triggers).Error; err != nil {
				return fmt.Errorf("failed to save trigger foods: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetDietPreferences(ctx, userID)
}
