package coupons

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles coupon routes
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

// SetupRoutes registers all coupon routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	coupons := rg.Group("/coupons")
	coupons.Use(middleware.JWTAuthWithConfig(r.config))
	{
		coupons.POST("/validate", r.controller.Validate)

		admin := coupons.Group("")
		admin.Use(middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)))
		{
			admin.POST("", r.controller.Create)
			admin.GET("", r.controller.List)
			admin.DELETE("/:id", r.controller.Deactivate)
		}
	}
}
