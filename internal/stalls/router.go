package stalls

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles stall and stall-instance routes
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

// SetupRoutes registers all stall routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	organiserOnly := middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager))

	// Exhibition-scoped listing and layout
	exhibitionScoped := rg.Group("/exhibitions/:id")
	{
		// Public floor plan views. The exhibition id param is shared
		// with the exhibitions router, so the same :id name is used.
		exhibitionScoped.GET("/stalls", r.withExhibitionParam(r.controller.ListStalls))
		exhibitionScoped.GET("/stall-instances", r.withExhibitionParam(r.controller.ListInstances))

		protected := exhibitionScoped.Group("")
		protected.Use(middleware.JWTAuthWithConfig(r.config), organiserOnly)
		{
			protected.POST("/stalls", r.withExhibitionParam(r.controller.CreateStall))
			protected.POST("/stall-instances", r.withExhibitionParam(r.controller.CreateInstance))
			protected.POST("/stall-instances/generate", r.withExhibitionParam(r.controller.GenerateInstances))
		}
	}

	// Direct stall template access
	stallRoutes := rg.Group("/stalls")
	{
		stallRoutes.GET("/:id", r.controller.GetStall)

		protected := stallRoutes.Group("")
		protected.Use(middleware.JWTAuthWithConfig(r.config), organiserOnly)
		{
			protected.PUT("/:id", r.controller.UpdateStall)
			protected.DELETE("/:id", r.controller.DeleteStall)
		}
	}

	// Direct instance access and maintenance
	instanceRoutes := rg.Group("/stall-instances")
	{
		instanceRoutes.GET("/:id", r.controller.GetInstance)
		instanceRoutes.GET("/:id/maintenance", r.controller.ListMaintenanceLogs)

		protected := instanceRoutes.Group("")
		protected.Use(middleware.JWTAuthWithConfig(r.config), organiserOnly)
		{
			protected.DELETE("/:id", r.controller.DeleteInstance)
			protected.POST("/:id/maintenance", r.controller.StartMaintenance)
			protected.PUT("/:id/maintenance/complete", r.controller.CompleteMaintenance)
		}
	}
}

// withExhibitionParam maps the shared :id route param onto the
// exhibitionId name the controller reads.
func (r *Router) withExhibitionParam(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "exhibitionId", Value: c.Param("id")})
		handler(c)
	}
}
