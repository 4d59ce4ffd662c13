package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/models"
	"gorm.io/gorm"
)

const defaultSearchLimit = 50

type RecipeService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, embeddingService EmbeddingServiceInterface) *RecipeService {
	return &RecipeService{
		db:               db,
		embeddingService: embeddingService,
	}
}

// CreateRecipe stores a recipe, computing its embedding when missing.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if recipe.Embedding == nil && s.embeddingService != nil {
		vec, err := s.embeddingService.GenerateEmbedding(recipe.Name + " " + strings.Join(recipe.Ingredients, " "))
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		recipe.Embedding = &vec
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*models.Recipe, error) {
	var recipes []models.Recipe
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return toRecipePointers(recipes), nil
}

// SearchRecipes matches the query against name, description and
// ingredients. On postgres matches are ordered by embedding distance.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string, limit int) ([]*models.Recipe, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var recipes []models.Recipe
	dbQuery := s.db.WithContext(ctx).Model(&models.Recipe{})
	like := "%" + strings.ToLower(query) + "%"

	if query != "" {
		if s.db.Dialector.Name() == "postgres" && s.embeddingService != nil {
			vec, err := s.embeddingService.GenerateEmbedding(query)
			if err != nil {
				return nil, fmt.Errorf("failed to generate embedding: %w", err)
			}

			subQuery := s.db.Model(&models.Recipe{}).
				Select("id, embedding <-> ? as similarity", vec).
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like, like)

			dbQuery = dbQuery.Joins("JOIN (?) as search ON recipes.id = search.id", subQuery).
				Order("search.similarity ASC")
		} else {
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?", like, like, like).
				Order("name ASC")
		}
	} else {
		dbQuery = dbQuery.Order("name ASC")
	}

	if err := dbQuery.Limit(limit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return toRecipePointers(recipes), nil
}

func toRecipePointers(recipes []models.Recipe) []*models.Recipe {
	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result
}
