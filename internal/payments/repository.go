package payments

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"exhibae/internal/users"
)

type Repository interface {
	Create(ctx context.Context, tx *PaymentTransaction) error
	GetByID(ctx context.Context, id string) (*PaymentTransaction, error)
	ListByApplication(ctx context.Context, applicationID string) ([]PaymentTransaction, error)
	ListByBrand(ctx context.Context, brandID string) ([]PaymentTransaction, error)

	// UpdateStatusConditional flips the status only when the row is
	// still in the expected state; zero rows means a concurrent
	// transition won.
	UpdateStatusConditional(ctx context.Context, id string, from, to Status) error

	GetApplicationOrganiser(ctx context.Context, applicationID string) (*users.User, error)

	// GetApplicationMeta returns the exhibition and brand behind an
	// application, for coupon scope checks and ownership.
	GetApplicationMeta(ctx context.Context, applicationID string) (exhibitionID, brandID string, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*PaymentTransaction, error) {
	var tx PaymentTransaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *repository) ListByApplication(ctx context.Context, applicationID string) ([]PaymentTransaction, error) {
	var txs []PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *repository) ListByBrand(ctx context.Context, brandID string) ([]PaymentTransaction, error) {
	var txs []PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *repository) UpdateStatusConditional(ctx context.Context, id string, from, to Status) error {
	result := r.db.WithContext(ctx).Model(&PaymentTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIllegalTransition
	}
	return nil
}

func (r *repository) GetApplicationMeta(ctx context.Context, applicationID string) (string, string, error) {
	var row struct {
		ExhibitionID string
		BrandID      string
	}
	err := r.db.WithContext(ctx).
		Table("stall_applications").
		Select("exhibition_id, brand_id").
		Where("id = ?", applicationID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrApplicationNotFound
		}
		return "", "", err
	}
	return row.ExhibitionID, row.BrandID, nil
}

func (r *repository) GetApplicationOrganiser(ctx context.Context, applicationID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).
		Joins("JOIN exhibitions ON exhibitions.organiser_id = users.id").
		Joins("JOIN stall_applications ON stall_applications.exhibition_id = exhibitions.id").
		Where("stall_applications.id = ?", applicationID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &user, nil
}
