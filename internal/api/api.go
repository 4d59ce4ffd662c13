package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/alchemorsel-v2/safety/internal/middleware"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
)

// Services bundles what the HTTP handlers depend on.
type Services struct {
	Safety   service.ISafetyService
	Search   service.ISearchService
	Profiles service.IProfileService
	Tokens   middleware.TokenValidator
	Limiter  *middleware.RateLimiter
}

// SetupAPI registers every versioned route on router.
func SetupAPI(router *gin.Engine, svc Services) {
	v1 := router.Group("/api/v1")

	NewSafetyHandler(svc.Safety, svc.Tokens, svc.Limiter).RegisterRoutes(v1)
	NewSearchHandler(svc.Search, svc.Tokens, svc.Limiter).RegisterRoutes(v1)
	NewProfileHandler(svc.Profiles, svc.Tokens).RegisterRoutes(v1)
}
