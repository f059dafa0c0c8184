package payments

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

func (c *Controller) Create(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	tx, err := c.service.Create(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch err {
		case ErrApplicationNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Application not found", nil, nil)
		case ErrNotOwner:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Application does not belong to you", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Failed to create payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment created successfully", tx, nil)
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

	tx, err := c.service.UpdateStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrPaymentNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment not found", nil, nil)
		case ErrIllegalTransition:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Payment status transition not allowed", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update payment", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment updated successfully", tx, nil)
}

func (c *Controller) Refund(ctx *gin.Context) {
	id := ctx.Param("id")

	tx, err := c.service.Refund(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrPaymentNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment not found", nil, nil)
		case ErrIllegalTransition:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Only completed payments can be refunded", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to refund payment", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment refunded successfully", tx, nil)
}

func (c *Controller) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	tx, err := c.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrPaymentNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get payment", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", tx, nil)
}

func (c *Controller) ListMine(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	txs, err := c.service.ListByBrand(ctx.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list payments", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", txs, nil)
}

func (c *Controller) ListByApplication(ctx *gin.Context) {
	applicationID := ctx.Param("id")

	txs, err := c.service.ListByApplication(ctx.Request.Context(), applicationID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list payments", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", txs, nil)
}
