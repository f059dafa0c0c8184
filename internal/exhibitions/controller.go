package exhibitions

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

func (c *Controller) Create(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateExhibitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Create(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch err {
		case ErrInvalidDateRange:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "End date must be after start date", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create exhibition", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Exhibition created successfully", resp, nil)
}

func (c *Controller) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	resp, err := c.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrExhibitionNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Exhibition not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get exhibition", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibition retrieved successfully", resp, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filters := ListFilters{
		Search:      ctx.Query("search"),
		Status:      ctx.Query("status"),
		City:        ctx.Query("city"),
		OrganiserID: ctx.Query("organiser_id"),
		Page:        page,
		Limit:       limit,
	}
	if from, err := time.Parse(time.RFC3339, ctx.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse(time.RFC3339, ctx.Query("to")); err == nil {
		filters.To = &to
	}

	resp, err := c.service.List(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list exhibitions", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibitions retrieved successfully", resp, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id := ctx.Param("id")

	var req UpdateExhibitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Update(ctx.Request.Context(), id, userID.(string), &req)
	if err != nil {
		switch err {
		case ErrExhibitionNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Exhibition not found", nil, nil)
		case ErrNotOwner:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "You are not the organiser of this exhibition", nil, nil)
		case ErrInvalidStatus:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid exhibition status", nil, nil)
		case ErrInvalidTransition:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Exhibition status transition not allowed", nil, nil)
		case ErrInvalidDateRange:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "End date must be after start date", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update exhibition", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibition updated successfully", resp, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id := ctx.Param("id")

	err := c.service.Delete(ctx.Request.Context(), id, userID.(string))
	if err != nil {
		switch err {
		case ErrExhibitionNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Exhibition not found", nil, nil)
		case ErrNotOwner:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "You are not the organiser of this exhibition", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete exhibition", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibition deleted successfully", nil, nil)
}

func (c *Controller) GetMine(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	resp, err := c.service.GetByOrganiser(ctx.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get exhibitions", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibitions retrieved successfully", resp, nil)
}
