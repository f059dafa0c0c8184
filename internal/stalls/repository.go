package stalls

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Stall templates
	CreateStall(ctx context.Context, stall *Stall) error
	GetStallByID(ctx context.Context, id string) (*Stall, error)
	ListStallsByExhibition(ctx context.Context, exhibitionID string) ([]Stall, error)
	UpdateStall(ctx context.Context, stall *Stall) error
	DeleteStall(ctx context.Context, id string) error
	CountInstancesForStall(ctx context.Context, stallID string) (int64, error)

	// Instances
	CreateInstance(ctx context.Context, instance *StallInstance) error
	CreateInstances(ctx context.Context, instances []StallInstance) error
	GetInstanceByID(ctx context.Context, id string) (*StallInstance, error)
	ListInstancesByExhibition(ctx context.Context, exhibitionID string) ([]StallInstance, error)
	UpdateInstanceStatus(ctx context.Context, id string, from, to InstanceStatus) error
	DeleteInstance(ctx context.Context, id string) error

	// Display status inputs
	PendingApplicationInstanceIDs(ctx context.Context, exhibitionID string) (map[string]bool, error)
	ConfirmedBookingInstanceIDs(ctx context.Context, exhibitionID string) (map[string]bool, error)

	// Maintenance
	CreateMaintenanceLog(ctx context.Context, log *MaintenanceLog) error
	GetOpenMaintenanceLog(ctx context.Context, instanceID string) (*MaintenanceLog, error)
	CompleteMaintenanceLog(ctx context.Context, logID string, completedAt time.Time) error
	ListMaintenanceLogs(ctx context.Context, instanceID string) ([]MaintenanceLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStall(ctx context.Context, stall *Stall) error {
	return r.db.WithContext(ctx).Create(stall).Error
}

func (r *repository) GetStallByID(ctx context.Context, id string) (*Stall, error) {
	var stall Stall
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&stall).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStallNotFound
		}
		return nil, err
	}
	return &stall, nil
}

func (r *repository) ListStallsByExhibition(ctx context.Context, exhibitionID string) ([]Stall, error) {
	var stalls []Stall
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("created_at ASC").
		Find(&stalls).Error
	return stalls, err
}

func (r *repository) UpdateStall(ctx context.Context, stall *Stall) error {
	result := r.db.WithContext(ctx).Save(stall)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStallNotFound
	}
	return nil
}

func (r *repository) DeleteStall(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Stall{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStallNotFound
	}
	return nil
}

func (r *repository) CountInstancesForStall(ctx context.Context, stallID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&StallInstance{}).
		Where("stall_id = ?", stallID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateInstance(ctx context.Context, instance *StallInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

func (r *repository) CreateInstances(ctx context.Context, instances []StallInstance) error {
	if len(instances) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(instances, 100).Error
}

func (r *repository) GetInstanceByID(ctx context.Context, id string) (*StallInstance, error) {
	var instance StallInstance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&instance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return &instance, nil
}

func (r *repository) ListInstancesByExhibition(ctx context.Context, exhibitionID string) ([]StallInstance, error) {
	var instances []StallInstance
	err := r.db.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Order("created_at ASC").
		Find(&instances).Error
	return instances, err
}

// UpdateInstanceStatus performs a conditional status change. The WHERE
// clause on the current status makes concurrent transitions lose
// cleanly instead of overwriting each other; callers translate a
// zero-row result into the right sentinel.
func (r *repository) UpdateInstanceStatus(ctx context.Context, id string, from, to InstanceStatus) error {
	result := r.db.WithContext(ctx).Model(&StallInstance{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":  to,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInstanceStatusConflict
	}
	return nil
}

func (r *repository) DeleteInstance(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, StatusAvailable).
		Delete(&StallInstance{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInstanceStatusConflict
	}
	return nil
}

func (r *repository) PendingApplicationInstanceIDs(ctx context.Context, exhibitionID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("stall_applications").
		Where("exhibition_id = ? AND status = ?", exhibitionID, "pending").
		Pluck("stall_instance_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *repository) ConfirmedBookingInstanceIDs(ctx context.Context, exhibitionID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("stall_applications").
		Where("exhibition_id = ? AND status = ?", exhibitionID, "booking_confirmed").
		Pluck("stall_instance_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *repository) CreateMaintenanceLog(ctx context.Context, log *MaintenanceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) GetOpenMaintenanceLog(ctx context.Context, instanceID string) (*MaintenanceLog, error) {
	var log MaintenanceLog
	err := r.db.WithContext(ctx).
		Where("stall_instance_id = ? AND completed_at IS NULL", instanceID).
		Order("started_at DESC").
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenMaintenance
		}
		return nil, err
	}
	return &log, nil
}

func (r *repository) CompleteMaintenanceLog(ctx context.Context, logID string, completedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&MaintenanceLog{}).
		Where("id = ? AND completed_at IS NULL", logID).
		Update("completed_at", completedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoOpenMaintenance
	}
	return nil
}

func (r *repository) ListMaintenanceLogs(ctx context.Context, instanceID string) ([]MaintenanceLog, error) {
	var logs []MaintenanceLog
	err := r.db.WithContext(ctx).
		Where("stall_instance_id = ?", instanceID).
		Order("started_at DESC").
		Find(&logs).Error
	return logs, err
}
