package analytics

import (
	"context"
	"fmt"
)

type Service interface {
	OrganiserDashboard(ctx context.Context, organiserID string) (*OrganiserDashboard, error)
	PlatformDashboard(ctx context.Context) (*PlatformDashboard, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) OrganiserDashboard(ctx context.Context, organiserID string) (*OrganiserDashboard, error) {
	exhibitions, err := s.repo.OrganiserExhibitions(ctx, organiserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organiser exhibitions: %w", err)
	}

	dashboard := &OrganiserDashboard{
		Exhibitions: make([]ExhibitionStats, 0, len(exhibitions)),
	}

	for _, exhibition := range exhibitions {
		counts, err := s.repo.ApplicationStatusCounts(ctx, exhibition.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count applications: %w", err)
		}

		var totalApplications int64
		for _, c := range counts {
			totalApplications += c.Count
		}

		revenue, err := s.repo.ExhibitionRevenue(ctx, exhibition.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute revenue: %w", err)
		}

		total, booked, err := s.repo.InstanceCounts(ctx, exhibition.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count stall instances: %w", err)
		}

		occupancy := 0.0
		if total > 0 {
			occupancy = float64(booked) / float64(total) * 100
		}

		dashboard.Exhibitions = append(dashboard.Exhibitions, ExhibitionStats{
			ExhibitionID:         exhibition.ID,
			Title:                exhibition.Title,
			ApplicationsByStatus: counts,
			TotalApplications:    totalApplications,
			Revenue:              revenue,
			TotalInstances:       total,
			BookedInstances:      booked,
			OccupancyPercent:     occupancy,
		})
		dashboard.TotalRevenue += revenue
	}

	return dashboard, nil
}

func (s *service) PlatformDashboard(ctx context.Context) (*PlatformDashboard, error) {
	return s.repo.PlatformTotals(ctx)
}
