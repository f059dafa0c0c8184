package coupons

import (
	"errors"
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

	var req CreateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	coupon, err := c.service.Create(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch err {
		case ErrDuplicateCode:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Coupon code already exists", nil, nil)
		case ErrInvalidWindow:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validity window is invalid", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create coupon", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Coupon created successfully", coupon, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	role, _ := ctx.Get("user_role")
	createdBy := userID.(string)
	if role == "MANAGER" {
		// Managers see all coupons
		createdBy = ""
	}

	coupons, err := c.service.List(ctx.Request.Context(), createdBy)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list coupons", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupons retrieved successfully", coupons, nil)
}

func (c *Controller) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")

	err := c.service.Deactivate(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrCouponNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Coupon not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate coupon", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon deactivated successfully", nil, nil)
}

func (c *Controller) Validate(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req ValidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := c.service.Validate(ctx.Request.Context(), req.Code, userID.(string), req.ExhibitionID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Coupon not found", nil, nil)
			return
		}
		if result != nil {
			// Known precondition failure: return the structured result
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Coupon not applicable", result, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate coupon", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon is valid", result, nil)
}
