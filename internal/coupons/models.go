package coupons

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponType determines how the discount is computed
type CouponType string

const (
	TypePercentage CouponType = "percentage"
	TypeFixed      CouponType = "fixed"
)

// Scope restricts who can redeem a coupon and where
type Scope string

const (
	ScopeAllExhibitions     Scope = "all_exhibitions"
	ScopeSpecificExhibition Scope = "specific_exhibition"
	ScopeAllBrands          Scope = "all_brands"
	ScopeSpecificBrand      Scope = "specific_brand"
)

// Coupon is a discount code redeemable against stall bookings
type Coupon struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code              string     `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Type              CouponType `json:"type" gorm:"type:varchar(20);not null"`
	Value             float64    `json:"value" gorm:"not null"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"`
	MinBookingAmount  float64    `json:"min_booking_amount" gorm:"not null;default:0"`
	UsageLimit        *int       `json:"usage_limit,omitempty"`
	TimesUsed         int        `json:"times_used" gorm:"not null;default:0"`
	Scope             Scope      `json:"scope" gorm:"type:varchar(30);not null;default:'all_brands'"`
	ExhibitionID      *uuid.UUID `json:"exhibition_id,omitempty" gorm:"type:uuid"`
	BrandID           *uuid.UUID `json:"brand_id,omitempty" gorm:"type:uuid"`
	Active            bool       `json:"active" gorm:"not null;default:true"`
	ValidFrom         time.Time  `json:"valid_from" gorm:"not null"`
	ValidUntil        time.Time  `json:"valid_until" gorm:"not null"`
	CreatedBy         uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CreateCouponRequest represents the request to create a coupon
type CreateCouponRequest struct {
	Code              string    `json:"code" validate:"required,min=3,max=50"`
	Type              string    `json:"type" validate:"required,oneof=percentage fixed"`
	Value             float64   `json:"value" validate:"required,gt=0"`
	MaxDiscountAmount *float64  `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	MinBookingAmount  float64   `json:"min_booking_amount" validate:"gte=0"`
	UsageLimit        *int      `json:"usage_limit,omitempty" validate:"omitempty,gte=1"`
	Scope             string    `json:"scope" validate:"omitempty,oneof=all_exhibitions specific_exhibition all_brands specific_brand"`
	ExhibitionID      *string   `json:"exhibition_id,omitempty" validate:"omitempty,uuid"`
	BrandID           *string   `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	ValidFrom         time.Time `json:"valid_from" validate:"required"`
	ValidUntil        time.Time `json:"valid_until" validate:"required"`
}

// ValidateRequest checks a coupon against a prospective booking
type ValidateRequest struct {
	Code         string  `json:"code" validate:"required"`
	ExhibitionID string  `json:"exhibition_id" validate:"omitempty,uuid"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// ValidationResult is the outcome of a coupon validation
type ValidationResult struct {
	Valid       bool    `json:"valid"`
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
	Reason      string  `json:"reason,omitempty"`
}
