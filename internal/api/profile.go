package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/alchemorsel-v2/safety/internal/middleware"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
)

type ProfileHandler struct {
	profiles service.IProfileService
	tokens   middleware.TokenValidator
}

func NewProfileHandler(profiles service.IProfileService, tokens middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		tokens:   tokens,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.tokens))
	{
		profile.GET("/diet", h.GetDietPreferences)
		profile.PUT("/diet", h.UpdateDietPreferences)
	}
}

func (h *ProfileHandler) GetDietPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	prefs, err := h.profiles.GetDietPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdateDietPreferences replaces the caller's whole diet profile.
func (h *ProfileHandler) UpdateDietPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var prefs safety.DietPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	saved, err := h.profiles.SaveDietPreferences(c.Request.Context(), userID, &prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
