package applications

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"exhibae/internal/stalls"
	"exhibae/internal/users"
)

type Repository interface {
	// SubmitTx inserts the application and moves the instance
	// available→pending in one transaction. Maps the partial unique
	// index violation to ErrAlreadyPending and a lost conditional
	// instance update to ErrNotAvailable.
	SubmitTx(ctx context.Context, application *StallApplication) error

	GetByID(ctx context.Context, id string) (*StallApplication, error)
	ListByBrand(ctx context.Context, brandID string) ([]StallApplication, error)
	ListByExhibition(ctx context.Context, exhibitionID string) ([]StallApplication, error)
	ListByInstance(ctx context.Context, instanceID string) ([]StallApplication, error)

	// UpdateStatusTx persists a status change plus its instance side
	// effect in one transaction. instanceFrom/instanceTo empty means
	// no instance change.
	UpdateStatusTx(ctx context.Context, application *StallApplication, instanceFrom, instanceTo stalls.InstanceStatus) error

	// DeleteTx removes a pending application and reverts the instance
	// pending→available in one transaction.
	DeleteTx(ctx context.Context, application *StallApplication) error

	GetExhibitionOrganiser(ctx context.Context, exhibitionID string) (*users.User, error)
	GetUser(ctx context.Context, userID string) (*users.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SubmitTx(ctx context.Context, application *StallApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(application).Error; err != nil {
			if isPendingIndexViolation(err) {
				return ErrAlreadyPending
			}
			return err
		}

		result := tx.Model(&stalls.StallInstance{}).
			Where("id = ? AND status = ?", application.StallInstanceID, stalls.StatusAvailable).
			Updates(map[string]interface{}{
				"status":  stalls.StatusPending,
				"version": gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Instance was not available: roll the insert back too
			return ErrNotAvailable
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*StallApplication, error) {
	var application StallApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *repository) ListByBrand(ctx context.Context, brandID string) ([]StallApplication, error) {
	var applications []StallApplication
	err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *repository) ListByExhibition(ctx context.Context, exhibitionID string) ([]StallApplication, error) {
	var applications []StallApplication
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *repository) ListByInstance(ctx context.Context, instanceID string) ([]StallApplication, error) {
	var applications []StallApplication
	err := r.db.WithContext(ctx).
		Where("stall_instance_id = ?", instanceID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *repository) UpdateStatusTx(ctx context.Context, application *StallApplication, instanceFrom, instanceTo stalls.InstanceStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&StallApplication{}).
			Where("id = ?", application.ID).
			Updates(map[string]interface{}{
				"status":   application.Status,
				"comments": application.Comments,
				"version":  gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrApplicationNotFound
		}
		application.Version++

		if instanceFrom == "" && instanceTo == "" {
			return nil
		}

		instResult := tx.Model(&stalls.StallInstance{}).
			Where("id = ? AND status = ?", application.StallInstanceID, instanceFrom).
			Updates(map[string]interface{}{
				"status":  instanceTo,
				"version": gorm.Expr("version + 1"),
			})
		if instResult.Error != nil {
			return instResult.Error
		}
		// Zero rows here means the instance already moved on (e.g.
		// went under maintenance after a rejection); the application
		// status change still stands.
		return nil
	})
}

func (r *repository) DeleteTx(ctx context.Context, application *StallApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND status = ?", application.ID, StatusPending).
			Delete(&StallApplication{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrIllegalTransition
		}

		instResult := tx.Model(&stalls.StallInstance{}).
			Where("id = ? AND status = ?", application.StallInstanceID, stalls.StatusPending).
			Updates(map[string]interface{}{
				"status":  stalls.StatusAvailable,
				"version": gorm.Expr("version + 1"),
			})
		return instResult.Error
	})
}

func (r *repository) GetExhibitionOrganiser(ctx context.Context, exhibitionID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).
		Joins("JOIN exhibitions ON exhibitions.organiser_id = users.id").
		Where("exhibitions.id = ?", exhibitionID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetUser(ctx context.Context, userID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isPendingIndexViolation recognizes the partial unique index guard
func isPendingIndexViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "ux_stall_applications_pending")
}
