package applications

import (
	"errors"
	"net/http"

	"exhibae/internal/shared/utils/response"
	"exhibae/internal/stalls"

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

func (c *Controller) Submit(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Submit(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch err {
		case ErrAlreadyPending:
			response.RespondJSON(ctx, "error", http.StatusConflict, "A pending application already exists for this stall", nil, nil)
		case ErrNotAvailable:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Stall instance is not available", nil, nil)
		default:
			if errors.Is(err, stalls.ErrInstanceNotFound) {
				response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall instance not found", nil, nil)
				return
			}
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to submit application", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Application submitted successfully", resp, nil)
}

func (c *Controller) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.UpdateStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrApplicationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Application not found", nil, nil)
		case ErrIllegalTransition:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Status transition not allowed", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update application", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Application updated successfully", resp, nil)
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
		case ErrApplicationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Application not found", nil, nil)
		case ErrNotOwner:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Application does not belong to you", nil, nil)
		case ErrIllegalTransition:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Only pending applications can be withdrawn", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to withdraw application", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Application withdrawn successfully", nil, nil)
}

func (c *Controller) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	resp, err := c.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrApplicationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Application not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get application", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Application retrieved successfully", resp, nil)
}

func (c *Controller) ListMine(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	resp, err := c.service.ListByBrand(ctx.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list applications", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Applications retrieved successfully", resp, nil)
}

func (c *Controller) ListByExhibition(ctx *gin.Context) {
	exhibitionID := ctx.Param("id")

	resp, err := c.service.ListByExhibition(ctx.Request.Context(), exhibitionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list applications", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Applications retrieved successfully", resp, nil)
}

func (c *Controller) ListByInstance(ctx *gin.Context) {
	instanceID := ctx.Param("id")

	resp, err := c.service.ListByInstance(ctx.Request.Context(), instanceID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list applications", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Applications retrieved successfully", resp, nil)
}
