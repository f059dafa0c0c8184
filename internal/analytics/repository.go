package analytics

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	OrganiserExhibitions(ctx context.Context, organiserID string) ([]exhibitionRow, error)
	ApplicationStatusCounts(ctx context.Context, exhibitionID string) ([]StatusCount, error)
	ExhibitionRevenue(ctx context.Context, exhibitionID string) (float64, error)
	InstanceCounts(ctx context.Context, exhibitionID string) (total, booked int64, err error)

	PlatformTotals(ctx context.Context) (*PlatformDashboard, error)
}

type exhibitionRow struct {
	ID    string
	Title string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrganiserExhibitions(ctx context.Context, organiserID string) ([]exhibitionRow, error) {
	var rows []exhibitionRow
	err := r.db.WithContext(ctx).
		Table("exhibitions").
		Select("id, title").
		Where("organiser_id = ?", organiserID).
		Order("created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ApplicationStatusCounts(ctx context.Context, exhibitionID string) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Table("stall_applications").
		Select("status, COUNT(*) as count").
		Where("exhibition_id = ?", exhibitionID).
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// ExhibitionRevenue sums completed payments for applications in the
// exhibition. Refunded transactions no longer count.
func (r *repository) ExhibitionRevenue(ctx context.Context, exhibitionID string) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Table("payment_transactions").
		Select("COALESCE(SUM(payment_transactions.amount), 0)").
		Joins("JOIN stall_applications ON stall_applications.id = payment_transactions.application_id").
		Where("stall_applications.exhibition_id = ? AND payment_transactions.status = ?", exhibitionID, "completed").
		Scan(&revenue).Error
	return revenue, err
}

func (r *repository) InstanceCounts(ctx context.Context, exhibitionID string) (int64, int64, error) {
	var total, booked int64

	err := r.db.WithContext(ctx).
		Table("stall_instances").
		Where("exhibition_id = ?", exhibitionID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).
		Table("stall_instances").
		Where("exhibition_id = ? AND status = ?", exhibitionID, "booked").
		Count(&booked).Error
	return total, booked, err
}

func (r *repository) PlatformTotals(ctx context.Context) (*PlatformDashboard, error) {
	dashboard := &PlatformDashboard{}

	if err := r.db.WithContext(ctx).Table("users").Count(&dashboard.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("exhibitions").Count(&dashboard.TotalExhibitions).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("stall_applications").Count(&dashboard.TotalApplications).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).
		Table("stall_applications").
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&dashboard.ApplicationsByStatus).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Table("payment_transactions").
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", "completed").
		Scan(&dashboard.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Table("payment_transactions").
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", "refunded").
		Scan(&dashboard.TotalRefunded).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Table("support_tickets").
		Where("status IN ?", []string{"open", "in_progress"}).
		Count(&dashboard.OpenTickets).Error
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}
