package exhibitions

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, exhibition *Exhibition) error
	GetByID(ctx context.Context, id string) (*Exhibition, error)
	List(ctx context.Context, filters ListFilters) ([]Exhibition, int64, error)
	Update(ctx context.Context, exhibition *Exhibition) error
	Delete(ctx context.Context, id string) error
	GetByOrganiser(ctx context.Context, organiserID string) ([]Exhibition, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, exhibition *Exhibition) error {
	return r.db.WithContext(ctx).Create(exhibition).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Exhibition, error) {
	var exhibition Exhibition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&exhibition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExhibitionNotFound
		}
		return nil, err
	}
	return &exhibition, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Exhibition, int64, error) {
	var exhibitions []Exhibition
	var total int64

	query := r.db.WithContext(ctx).Model(&Exhibition{})

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.City != "" {
		query = query.Where("city ILIKE ?", filters.City)
	}
	if filters.OrganiserID != "" {
		query = query.Where("organiser_id = ?", filters.OrganiserID)
	}
	if filters.From != nil {
		query = query.Where("start_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("end_date <= ?", *filters.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filters.Page - 1) * filters.Limit
	err := query.Order("start_date ASC").
		Offset(offset).
		Limit(filters.Limit).
		Find(&exhibitions).Error
	if err != nil {
		return nil, 0, err
	}

	return exhibitions, total, nil
}

func (r *repository) Update(ctx context.Context, exhibition *Exhibition) error {
	result := r.db.WithContext(ctx).Save(exhibition)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExhibitionNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Exhibition{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExhibitionNotFound
	}
	return nil
}

func (r *repository) GetByOrganiser(ctx context.Context, organiserID string) ([]Exhibition, error) {
	var exhibitions []Exhibition
	err := r.db.WithContext(ctx).
		Where("organiser_id = ?", organiserID).
		Order("created_at DESC").
		Find(&exhibitions).Error
	return exhibitions, err
}
