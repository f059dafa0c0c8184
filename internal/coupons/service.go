package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrDuplicateCode     = errors.New("coupon code already exists")
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponNotStarted  = errors.New("coupon is not valid yet")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	ErrMinAmountNotMet   = errors.New("booking amount below coupon minimum")
	ErrScopeMismatch     = errors.New("coupon not applicable here")
	ErrInvalidWindow     = errors.New("valid_until must be after valid_from")
)

type Service interface {
	Create(ctx context.Context, createdBy string, req *CreateCouponRequest) (*Coupon, error)
	List(ctx context.Context, createdBy string) ([]Coupon, error)
	Deactivate(ctx context.Context, id string) error

	// Validate checks every redemption precondition and returns the
	// discount the coupon would grant. It does not consume a use.
	Validate(ctx context.Context, code, brandID, exhibitionID string, amount float64) (*ValidationResult, error)

	// Redeem consumes one use of the coupon. The guarded increment in
	// the repository makes concurrent redemptions of the last use lose
	// cleanly.
	Redeem(ctx context.Context, code, brandID, exhibitionID string, amount float64) (*ValidationResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, createdBy string, req *CreateCouponRequest) (*Coupon, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrInvalidWindow
	}

	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id: %w", err)
	}

	scope := Scope(req.Scope)
	if scope == "" {
		scope = ScopeAllBrands
	}

	coupon := &Coupon{
		Code:              strings.ToUpper(req.Code),
		Type:              CouponType(req.Type),
		Value:             req.Value,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinBookingAmount:  req.MinBookingAmount,
		UsageLimit:        req.UsageLimit,
		Scope:             scope,
		Active:            true,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		CreatedBy:         creator,
	}

	if req.ExhibitionID != nil {
		id, err := uuid.Parse(*req.ExhibitionID)
		if err != nil {
			return nil, fmt.Errorf("invalid exhibition id: %w", err)
		}
		coupon.ExhibitionID = &id
	}
	if req.BrandID != nil {
		id, err := uuid.Parse(*req.BrandID)
		if err != nil {
			return nil, fmt.Errorf("invalid brand id: %w", err)
		}
		coupon.BrandID = &id
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *service) List(ctx context.Context, createdBy string) ([]Coupon, error) {
	return s.repo.List(ctx, createdBy)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) Validate(ctx context.Context, code, brandID, exhibitionID string, amount float64) (*ValidationResult, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := checkRedeemable(coupon, brandID, exhibitionID, amount, time.Now()); err != nil {
		return &ValidationResult{
			Valid:       false,
			Code:        coupon.Code,
			FinalAmount: amount,
			Reason:      err.Error(),
		}, err
	}

	discount := CalculateDiscount(coupon, amount)
	return &ValidationResult{
		Valid:       true,
		Code:        coupon.Code,
		Discount:    discount,
		FinalAmount: amount - discount,
	}, nil
}

func (s *service) Redeem(ctx context.Context, code, brandID, exhibitionID string, amount float64) (*ValidationResult, error) {
	result, err := s.Validate(ctx, code, brandID, exhibitionID, amount)
	if err != nil {
		return nil, err
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementUsage(ctx, coupon.ID.String()); err != nil {
		return nil, err
	}

	return result, nil
}

// checkRedeemable applies every precondition in a fixed order so the
// first failure reported is deterministic.
func checkRedeemable(coupon *Coupon, brandID, exhibitionID string, amount float64, now time.Time) error {
	if !coupon.Active {
		return ErrCouponInactive
	}
	if now.Before(coupon.ValidFrom) {
		return ErrCouponNotStarted
	}
	if now.After(coupon.ValidUntil) {
		return ErrCouponExpired
	}
	if coupon.UsageLimit != nil && coupon.TimesUsed >= *coupon.UsageLimit {
		return ErrUsageLimitReached
	}
	if amount < coupon.MinBookingAmount {
		return ErrMinAmountNotMet
	}

	switch coupon.Scope {
	case ScopeSpecificExhibition:
		if coupon.ExhibitionID == nil || coupon.ExhibitionID.String() != exhibitionID {
			return ErrScopeMismatch
		}
	case ScopeSpecificBrand:
		if coupon.BrandID == nil || coupon.BrandID.String() != brandID {
			return ErrScopeMismatch
		}
	}
	return nil
}

// CalculateDiscount computes the discount a coupon grants on an
// amount. Pure and idempotent: same coupon and amount always yield the
// same discount. Percentage discounts are capped by
// max_discount_amount, and no discount ever exceeds the amount itself.
func CalculateDiscount(coupon *Coupon, amount float64) float64 {
	if amount <= 0 {
		return 0
	}

	var discount float64
	switch coupon.Type {
	case TypePercentage:
		discount = amount * coupon.Value / 100
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case TypeFixed:
		discount = coupon.Value
	default:
		return 0
	}

	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
