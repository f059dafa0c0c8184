package exhibitions

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles exhibition-related routes
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

// SetupRoutes registers all exhibition routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	exhibitions := rg.Group("/exhibitions")
	{
		// Public routes
		exhibitions.GET("", r.controller.List)
		exhibitions.GET("/:id", r.controller.GetByID)

		// Organiser routes
		protected := exhibitions.Group("")
		protected.Use(middleware.JWTAuthWithConfig(r.config))
		{
			protected.POST("", middleware.RequireRoles(string(users.RoleOrganiser)), r.controller.Create)
			protected.PUT("/:id", middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)), r.controller.Update)
			protected.DELETE("/:id", middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)), r.controller.Delete)
		}
	}

	// Kept out of /exhibitions to avoid clashing with the :id wildcard
	organiser := rg.Group("/organiser/exhibitions")
	organiser.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireRoles(string(users.RoleOrganiser)))
	{
		organiser.GET("", r.controller.GetMine)
	}
}
