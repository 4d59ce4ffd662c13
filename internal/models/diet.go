package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Food list kinds stored in FoodPreference.Kind.
const (
	FoodKindAvoid   = "avoid"
	FoodKindEmbrace = "embrace"
)

// FoodPreference is one avoid or embrace term on a user's diet profile.
// Position keeps the order the user declared the terms in.
type FoodPreference struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Kind      string    `gorm:"size:16;not null" json:"kind"`
	Food      string    `gorm:"size:100;not null" json:"food"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FoodPreference) TableName() string {
	return "diet_food_preferences"
}

// MedicalCondition is a diagnosed condition on a user's diet profile.
type MedicalCondition struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ConditionID string    `gorm:"size:64" json:"condition_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Severity    string    `gorm:"size:16;not null" json:"severity"`
	CustomName  string    `gorm:"size:100" json:"custom_name"`
	Position    int       `gorm:"not null" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MedicalCondition) TableName() string {
	return "diet_medical_conditions"
}

// IngredientSeverity tags a food term with a severity class, "medical"
// marking a diagnosed restriction.
type IngredientSeverity struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Term      string    `gorm:"size:100;not null" json:"term"`
	Class     string    `gorm:"size:32;not null" json:"class"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IngredientSeverity) TableName() string {
	return "diet_severity_levels"
}

// TriggerFood links a food to a condition it aggravates.
type TriggerFood struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Condition string    `gorm:"size:100;not null" json:"condition"`
	Severity  string    `gorm:"size:16;not null" json:"severity"`
	UserAdded bool      `gorm:"not null;default:false" json:"user_added"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TriggerFood) TableName() string {
	return "diet_trigger_foods"
}

func (f *FoodPreference) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (c *MedicalCondition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (s *IngredientSeverity) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (t *TriggerFood) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// DietModels lists the diet profile tables for AutoMigrate.
func DietModels() []interface{} {
	return []interface{}{
		&FoodPreference{},
		&MedicalCondition{},
		&IngredientSeverity{},
		&TriggerFood{},
	}
}
