package realtime

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"
	"exhibae/internal/users"

	"github.com/gin-gonic/gin"
)

// Router handles change feed streaming routes
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

// SetupRoutes registers all realtime routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	realtime := rg.Group("/realtime")
	realtime.Use(middleware.JWTAuthWithConfig(r.config))
	{
		realtime.GET("/applications", middleware.RequireRoles(string(users.RoleBrand)), r.controller.StreamMyApplications)
		realtime.GET("/exhibitions/:id/applications", middleware.RequireRoles(string(users.RoleOrganiser), string(users.RoleManager)), r.controller.StreamExhibitionApplications)
		realtime.GET("/conversations/:id", r.controller.StreamConversation)
	}
}
