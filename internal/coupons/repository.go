package coupons

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, coupon *Coupon) error
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context, createdBy string) ([]Coupon, error)
	Update(ctx context.Context, coupon *Coupon) error
	Deactivate(ctx context.Context, id string) error

	// IncrementUsage bumps times_used only while under the usage
	// limit; zero rows means the coupon is exhausted.
	IncrementUsage(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, coupon *Coupon) error {
	err := r.db.WithContext(ctx).Create(coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) List(ctx context.Context, createdBy string) ([]Coupon, error) {
	var coupons []Coupon
	query := r.db.WithContext(ctx).Model(&Coupon{})
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	err := query.Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (r *repository) Update(ctx context.Context, coupon *Coupon) error {
	result := r.db.WithContext(ctx).Save(coupon)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&Coupon{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) IncrementUsage(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR times_used < usage_limit)", id).
		Update("times_used", gorm.Expr("times_used + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}
