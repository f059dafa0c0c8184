package chat

import (
	"net/http"
	"strconv"
	"time"

	"exhibae/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) StartConversation(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req StartConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	conversation, err := c.service.StartConversation(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to start conversation", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Conversation ready", conversation, nil)
}

func (c *Controller) ListConversations(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	conversations, err := c.service.ListConversations(ctx.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list conversations", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Conversations retrieved successfully", conversations, nil)
}

func (c *Controller) SendMessage(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	conversationID := ctx.Param("id")

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	message, err := c.service.SendMessage(ctx.Request.Context(), conversationID, userID.(string), &req)
	if err != nil {
		switch err {
		case ErrConversationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Conversation not found", nil, nil)
		case ErrNotParticipant:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "You are not part of this conversation", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to send message", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Message sent", message, nil)
}

func (c *Controller) ListMessages(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	conversationID := ctx.Param("id")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	var before *time.Time
	if raw := ctx.Query("before"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			before = &parsed
		}
	}

	messages, err := c.service.ListMessages(ctx.Request.Context(), conversationID, userID.(string), limit, before)
	if err != nil {
		switch err {
		case ErrConversationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Conversation not found", nil, nil)
		case ErrNotParticipant:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "You are not part of this conversation", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list messages", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Messages retrieved successfully", messages, nil)
}

func (c *Controller) CreateTicket(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	ticket, err := c.service.CreateTicket(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create support ticket", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Support ticket created", ticket, nil)
}

func (c *Controller) UpdateTicket(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	ticket, err := c.service.UpdateTicket(ctx.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrTicketNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Support ticket not found", nil, nil)
		case ErrIllegalTransition:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket status transition not allowed", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update support ticket", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Support ticket updated", ticket, nil)
}

func (c *Controller) ListMyTickets(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	tickets, err := c.service.ListMyTickets(ctx.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list tickets", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tickets retrieved successfully", tickets, nil)
}

func (c *Controller) ListAllTickets(ctx *gin.Context) {
	tickets, err := c.service.ListAllTickets(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list tickets", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tickets retrieved successfully", tickets, nil)
}
