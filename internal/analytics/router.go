package analytics

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles analytics dashboard routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all analytics routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.JWTAuthWithConfig(r.config))
	{
		analytics.GET("/organiser", middleware.RequireRoles(string(users.RoleOrganiser)), r.controller.OrganiserDashboard)
		analytics.GET("/platform", middleware.RequireManager(), r.controller.PlatformDashboard)
	}
}
