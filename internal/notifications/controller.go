package notifications

import (
	"net/http"
	"strconv"

	"exhibae/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) List(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	unreadOnly := ctx.Query("unread") == "true"

	resp, err := c.service.List(ctx.Request.Context(), userID.(string), unreadOnly, page, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list notifications", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Notifications retrieved successfully", resp, nil)
}

func (c *Controller) MarkRead(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id := ctx.Param("id")

	err := c.service.MarkRead(ctx.Request.Context(), id, userID.(string))
	if err != nil {
		switch err {
		case ErrNotificationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Notification not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to mark notification read", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Notification marked as read", nil, nil)
}

func (c *Controller) MarkAllRead(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	count, err := c.service.MarkAllRead(ctx.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to mark notifications read", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Notifications marked as read", gin.H{"updated": count}, nil)
}
