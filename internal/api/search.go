package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/alchemorsel-v2/safety/internal/middleware"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
)

const maxSearchLimit = 100

type SearchHandler struct {
	search  service.ISearchService
	tokens  middleware.TokenValidator
	limiter *middleware.RateLimiter
}

func NewSearchHandler(search service.ISearchService, tokens middleware.TokenValidator, limiter *middleware.RateLimiter) *SearchHandler {
	return &SearchHandler{
		search:  search,
		tokens:  tokens,
		limiter: limiter,
	}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.tokens))
	{
		recipes.GET("/search", h.limiter.RateLimitMiddleware(), h.SearchRecipes)
	}
}

// SearchRecipes runs a search and filters the hits through the caller's
// diet profile.
func (h *SearchHandler) SearchRecipes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	opts := service.SearchOptions{}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxSearchLimit {
			badRequest(c, "limit must be between 1 and 100")
			return
		}
		opts.Limit = limit
	}
	if raw := c.Query("include_unsafe"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "include_unsafe must be a boolean")
			return
		}
		opts.IncludeUnsafe = include
	}

	result, err := h.search.SafeSearch(c.Request.Context(), userID, c.Query("q"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
