package stalls

import (
	"net/http"

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

func (c *Controller) CreateStall(ctx *gin.Context) {
	exhibitionID := ctx.Param("exhibitionId")

	var req CreateStallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	stall, err := c.service.CreateStall(ctx.Request.Context(), exhibitionID, &req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create stall", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Stall created successfully", stall, nil)
}

func (c *Controller) ListStalls(ctx *gin.Context) {
	exhibitionID := ctx.Param("exhibitionId")

	stalls, err := c.service.ListStalls(ctx.Request.Context(), exhibitionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list stalls", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stalls retrieved successfully", stalls, nil)
}

func (c *Controller) GetStall(ctx *gin.Context) {
	id := ctx.Param("id")

	stall, err := c.service.GetStall(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall retrieved successfully", stall, nil)
}

func (c *Controller) UpdateStall(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateStallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	stall, err := c.service.UpdateStall(ctx.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall updated successfully", stall, nil)
}

func (c *Controller) DeleteStall(ctx *gin.Context) {
	id := ctx.Param("id")

	err := c.service.DeleteStall(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		case ErrStallHasInstances:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Stall has placed instances and cannot be deleted", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall deleted successfully", nil, nil)
}

func (c *Controller) CreateInstance(ctx *gin.Context) {
	exhibitionID := ctx.Param("exhibitionId")

	var req CreateInstanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	instance, err := c.service.CreateInstance(ctx.Request.Context(), exhibitionID, &req)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found for this exhibition", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create stall instance", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Stall instance created successfully", instance, nil)
}

func (c *Controller) GenerateInstances(ctx *gin.Context) {
	exhibitionID := ctx.Param("exhibitionId")

	var req GenerateInstancesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	instances, err := c.service.GenerateInstances(ctx.Request.Context(), exhibitionID, &req)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found for this exhibition", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to generate stall instances", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Stall instances generated successfully", instances, nil)
}

func (c *Controller) ListInstances(ctx *gin.Context) {
	exhibitionID := ctx.Param("exhibitionId")

	instances, err := c.service.ListInstances(ctx.Request.Context(), exhibitionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list stall instances", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall instances retrieved successfully", instances, nil)
}

func (c *Controller) GetInstance(ctx *gin.Context) {
	id := ctx.Param("id")

	instance, err := c.service.GetInstance(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrInstanceNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall instance not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get stall instance", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall instance retrieved successfully", instance, nil)
}

func (c *Controller) DeleteInstance(ctx *gin.Context) {
	id := ctx.Param("id")

	err := c.service.DeleteInstance(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrInstanceStatusConflict:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Only available stall instances can be removed", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete stall instance", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall instance deleted successfully", nil, nil)
}

func (c *Controller) StartMaintenance(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id := ctx.Param("id")

	var req MaintenanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	log, err := c.service.StartMaintenance(ctx.Request.Context(), id, userID.(string), &req)
	if err != nil {
		switch err {
		case ErrInstanceNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall instance not found", nil, nil)
		case ErrInstanceStatusConflict:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Maintenance can only start on an available stall instance", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to start maintenance", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Maintenance started", log, nil)
}

func (c *Controller) CompleteMaintenance(ctx *gin.Context) {
	id := ctx.Param("id")

	err := c.service.CompleteMaintenance(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrNoOpenMaintenance:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "No open maintenance for this stall instance", nil, nil)
		case ErrInstanceStatusConflict:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Stall instance is not under maintenance", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to complete maintenance", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Maintenance completed", nil, nil)
}

func (c *Controller) ListMaintenanceLogs(ctx *gin.Context) {
	id := ctx.Param("id")

	logs, err := c.service.ListMaintenanceLogs(ctx.Request.Context(), id)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list maintenance logs", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Maintenance logs retrieved successfully", logs, nil)
}
