package exhibitions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exhibition represents an exhibition event listed by an organiser
type Exhibition struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title               string     `json:"title" gorm:"not null;size:255"`
	Description         string     `json:"description" gorm:"type:text"`
	OrganiserID         uuid.UUID  `json:"organiser_id" gorm:"type:uuid;not null;index"`
	Address             string     `json:"address" gorm:"size:500"`
	City                string     `json:"city" gorm:"size:100;index"`
	State               string     `json:"state" gorm:"size:100"`
	Country             string     `json:"country" gorm:"size:100"`
	StartDate           time.Time  `json:"start_date" gorm:"not null"`
	EndDate             time.Time  `json:"end_date" gorm:"not null"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Status              Status     `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Exhibition) TableName() string {
	return "exhibitions"
}

// BeforeCreate hook to generate UUID if not set
func (e *Exhibition) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CreateExhibitionRequest represents the request to create an exhibition
type CreateExhibitionRequest struct {
	Title               string     `json:"title" validate:"required,min=3,max=255"`
	Description         string     `json:"description" validate:"omitempty,max=5000"`
	Address             string     `json:"address" validate:"omitempty,max=500"`
	City                string     `json:"city" validate:"omitempty,max=100"`
	State               string     `json:"state" validate:"omitempty,max=100"`
	Country             string     `json:"country" validate:"omitempty,max=100"`
	StartDate           time.Time  `json:"start_date" validate:"required"`
	EndDate             time.Time  `json:"end_date" validate:"required"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
}

// UpdateExhibitionRequest represents the request to update an exhibition
type UpdateExhibitionRequest struct {
	Title               *string    `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description         *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Address             *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	City                *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	State               *string    `json:"state,omitempty" validate:"omitempty,max=100"`
	Country             *string    `json:"country,omitempty" validate:"omitempty,max=100"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Status              *string    `json:"status,omitempty"`
}

// ExhibitionResponse represents exhibition data in responses
type ExhibitionResponse struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	OrganiserID         string     `json:"organiser_id"`
	Address             string     `json:"address,omitempty"`
	City                string     `json:"city,omitempty"`
	State               string     `json:"state,omitempty"`
	Country             string     `json:"country,omitempty"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ListFilters represents filters for listing exhibitions
type ListFilters struct {
	Search      string
	Status      string
	City        string
	OrganiserID string
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

// ListResponse wraps a paginated list of exhibitions
type ListResponse struct {
	Exhibitions []ExhibitionResponse `json:"exhibitions"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

func ToResponse(e *Exhibition) ExhibitionResponse {
	return ExhibitionResponse{
		ID:                  e.ID.String(),
		Title:               e.Title,
		Description:         e.Description,
		OrganiserID:         e.OrganiserID.String(),
		Address:             e.Address,
		City:                e.City,
		State:               e.State,
		Country:             e.Country,
		StartDate:           e.StartDate,
		EndDate:             e.EndDate,
		ApplicationDeadline: e.ApplicationDeadline,
		Status:              string(e.Status),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}
