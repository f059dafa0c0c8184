package payments

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles payment routes
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

// SetupRoutes registers all payment routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.Use(middleware.JWTAuthWithConfig(r.config))
	{
		payments.POST("", middleware.RequireRoles(string(users.RoleBrand)), r.controller.Create)
		payments.GET("/:id", r.controller.GetByID)
		payments.PUT("/:id/status", middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)), r.controller.UpdateStatus)
		payments.POST("/:id/refund", middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)), r.controller.Refund)
	}

	brand := rg.Group("/brand/payments")
	brand.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireRoles(string(users.RoleBrand)))
	{
		brand.GET("", r.controller.ListMine)
	}

	applicationScoped := rg.Group("/applications/:id/payments")
	applicationScoped.Use(middleware.JWTAuthWithConfig(r.config))
	{
		applicationScoped.GET("", r.controller.ListByApplication)
	}
}
