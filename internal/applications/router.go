package applications

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles stall application routes
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

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/applications")
	applications.Use(middleware.JWTAuthWithConfig(r.config))
	{
		applications.POST("", middleware.RequireRoles(string(users.RoleBrand)), r.controller.Submit)
		applications.GET("/:id", r.controller.GetByID)
		applications.PUT("/:id/status", middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)), r.controller.UpdateStatus)
		applications.DELETE("/:id", middleware.RequireRoles(string(users.RoleBrand)), r.controller.Delete)
	}

	brand := rg.Group("/brand/applications")
	brand.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireRoles(string(users.RoleBrand)))
	{
		brand.GET("", r.controller.ListMine)
	}

	// Organiser views hang off the owning resources
	exhibitionScoped := rg.Group("/exhibitions/:id/applications")
	exhibitionScoped.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)))
	{
		exhibitionScoped.GET("", r.controller.ListByExhibition)
	}

	instanceScoped := rg.Group("/stall-instances/:id/applications")
	instanceScoped.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)))
	{
		instanceScoped.GET("", r.controller.ListByInstance)
	}
}
