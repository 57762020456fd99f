package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salescope/lead-insights/internal/auth"
	"github.com/salescope/lead-insights/internal/config"
	"github.com/salescope/lead-insights/internal/handler"
	middlewarepkg "github.com/salescope/lead-insights/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Leads *handler.LeadsHandler
}

// Register wires all HTTP routes for the API under the /api prefix. The JWT
// guard covers mutating routes only and is a no-op when manager is nil.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	api := e.Group("/api")

	api.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Lead Generation System API",
			"version": "1.0",
		})
	})

	api.GET("/leads", handlers.Leads.List)
	api.GET("/leads/stats/summary", handlers.Leads.Stats)
	api.GET("/leads/:id", handlers.Leads.Get)

	guarded := api.Group("", middlewarepkg.JWT(jwtManager))
	guarded.POST("/leads", handlers.Leads.Create)
	guarded.PUT("/leads/:id", handlers.Leads.Update)
	guarded.DELETE("/leads/:id", handlers.Leads.Delete)
	guarded.POST("/leads/:id/analyze", handlers.Leads.Analyze, middlewarepkg.AnalyzeRateLimiter(cfg.RateLimitAnalyze))
}
