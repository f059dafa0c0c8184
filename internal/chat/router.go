package chat

import (
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles chat and support ticket routes
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

// SetupRoutes registers all chat routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	conversations := rg.Group("/conversations")
	conversations.Use(middleware.JWTAuthWithConfig(r.config))
	{
		conversations.POST("", r.controller.StartConversation)
		conversations.GET("", r.controller.ListConversations)
		conversations.GET("/:id/messages", r.controller.ListMessages)
		conversations.POST("/:id/messages", r.controller.SendMessage)
	}

	tickets := rg.Group("/support/tickets")
	tickets.Use(middleware.JWTAuthWithConfig(r.config))
	{
		tickets.POST("", r.controller.CreateTicket)
		tickets.GET("", r.controller.ListMyTickets)
		tickets.GET("/all", middleware.RequireManager(), r.controller.ListAllTickets)
		tickets.PUT("/:id", middleware.RequireManager(), r.controller.UpdateTicket)
	}
}
