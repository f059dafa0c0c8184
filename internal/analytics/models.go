package analytics

// StatusCount is one slice of an application status breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ExhibitionStats is the organiser's per-exhibition dashboard row
type ExhibitionStats struct {
	ExhibitionID         string        `json:"exhibition_id"`
	Title                string        `json:"title"`
	ApplicationsByStatus []StatusCount `json:"applications_by_status"`
	TotalApplications    int64         `json:"total_applications"`
	Revenue              float64       `json:"revenue"`
	TotalInstances       int64         `json:"total_instances"`
	BookedInstances      int64         `json:"booked_instances"`
	OccupancyPercent     float64       `json:"occupancy_percent"`
}

// OrganiserDashboard aggregates an organiser's exhibitions
type OrganiserDashboard struct {
	Exhibitions  []ExhibitionStats `json:"exhibitions"`
	TotalRevenue float64           `json:"total_revenue"`
}

// PlatformDashboard is the manager's cross-organiser view
type PlatformDashboard struct {
	TotalUsers           int64         `json:"total_users"`
	TotalExhibitions     int64         `json:"total_exhibitions"`
	TotalApplications    int64         `json:"total_applications"`
	ApplicationsByStatus []StatusCount `json:"applications_by_status"`
	TotalRevenue         float64       `json:"total_revenue"`
	TotalRefunded        float64       `json:"total_refunded"`
	OpenTickets          int64         `json:"open_tickets"`
}
