package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-v2/safety/internal/middleware"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
	"github.com/pageza/alchemorsel-v2/safety/internal/types"
)

// SafetyHandler exposes recipe validation, search constraint checks and
// ingredient alternatives.
type SafetyHandler struct {
	safety  service.ISafetyService
	tokens  middleware.TokenValidator
	limiter *middleware.RateLimiter
}

func NewSafetyHandler(safetySvc service.ISafetyService, tokens middleware.TokenValidator, limiter *middleware.RateLimiter) *SafetyHandler {
	return &SafetyHandler{
		safety:  safetySvc,
		tokens:  tokens,
		limiter: limiter,
	}
}

func (h *SafetyHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.tokens)
	group := router.Group("/safety")
	{
		group.POST("/validate", h.limiter.RateLimitMiddleware(), h.ValidateRecipe)
		group.GET("/recipes/:id", auth, h.ValidateStoredRecipe)
		group.GET("/search-constraints", auth, h.GetSearchConstraints)
		group.POST("/search-constraints", h.CheckSearchConstraints)
		group.GET("/alternatives", middleware.OptionalAuthMiddleware(h.tokens), h.GetAlternatives)
	}
}

// ValidateRecipe validates a recipe against the preferences sent with it.
func (h *SafetyHandler) ValidateRecipe(c *gin.Context) {
	var req types.ValidateSafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	verdict, err := h.safety.ValidateRecipe(c.Request.Context(), &req.Recipe, req.Preferences)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// ValidateStoredRecipe validates a stored recipe against the caller's profile.
func (h *SafetyHandler) ValidateStoredRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid recipe id")
		return
	}

	verdict, err := h.safety.ValidateRecipeForUser(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

func (h *SafetyHandler) GetSearchConstraints(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	constraints, err := h.safety.SearchConstraintsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSearchConstraintsResponse(constraints))
}

// CheckSearchConstraints reports conflicts in a profile sent in the body.
func (h *SafetyHandler) CheckSearchConstraints(c *gin.Context) {
	var prefs safety.DietPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, types.NewSearchConstraintsResponse(h.safety.SearchConstraints(&prefs)))
}

// GetAlternatives lists substitutes for an ingredient. Authenticated callers
// only get substitutes their own profile allows.
func (h *SafetyHandler) GetAlternatives(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		badRequest(c, "ingredient is required")
		return
	}

	var alternatives []string
	if userID, ok := middleware.UserID(c); ok {
		var err error
		alternatives, err = h.safety.AlternativesForUser(c.Request.Context(), userID, ingredient)
		if err != nil {
			respondError(c, err)
			return
		}
	} else {
		alternatives = h.safety.Alternatives(ingredient, nil)
	}
	if alternatives == nil {
		alternatives = []string{}
	}

	c.JSON(http.StatusOK, types.AlternativesResponse{
		Ingredient:   ingredient,
		Alternatives: alternatives,
	})
}
