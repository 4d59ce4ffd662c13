package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// EmbeddingDimensions is the width of the recipe embedding column.
const EmbeddingDimensions = 3

// JSONBStringArray stores a string slice as a JSON array column.
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONBStringArray source %T", value)
	}

	return json.Unmarshal(raw, a)
}

type Recipe struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Category    string           `gorm:"size:50" json:"category"`
	Ingredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Calories    float64          `gorm:"type:float" json:"calories"`
	Protein     float64          `gorm:"type:float" json:"protein"`
	Carbs       float64          `gorm:"type:float" json:"carbs"`
	Fat         float64          `gorm:"type:float" json:"fat"`
	Embedding   *pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	UserID      uuid.UUID        `gorm:"type:varchar(36);index" json:"user_id"`
}

func (Recipe) TableName() string {
	return "recipes"
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ToSafety converts the row into the validation input.
func (r *Recipe) ToSafety() *safety.Recipe {
	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return &safety.Recipe{
		ID:          r.ID.String(),
		Title:       r.Name,
		Ingredients: ingredients,
		Nutrition: &safety.Nutrition{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		},
	}
}
