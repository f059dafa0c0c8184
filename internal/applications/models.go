package applications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StallApplication is a brand's request to book a stall instance.
// At most one pending application may exist per instance; the partial
// unique index ux_stall_applications_pending enforces that in the
// database regardless of what the application layer believes.
type StallApplication struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StallInstanceID uuid.UUID `json:"stall_instance_id" gorm:"type:uuid;not null;index"`
	ExhibitionID    uuid.UUID `json:"exhibition_id" gorm:"type:uuid;not null"`
	BrandID         uuid.UUID `json:"brand_id" gorm:"type:uuid;not null;index"`
	Message         string    `json:"message" gorm:"type:text"`
	Comments        string    `json:"comments" gorm:"type:text"`
	Status          Status    `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Version         int64     `json:"version" gorm:"not null;default:1"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (StallApplication) TableName() string {
	return "stall_applications"
}

func (a *StallApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SubmitRequest represents a brand's application submission
type SubmitRequest struct {
	StallInstanceID string `json:"stall_instance_id" validate:"required,uuid"`
	Message         string `json:"message" validate:"omitempty,max=2000"`
}

// UpdateStatusRequest represents an organiser's decision on an application
type UpdateStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Comments string `json:"comments" validate:"omitempty,max=2000"`
}

// ApplicationResponse represents application data in responses
type ApplicationResponse struct {
	ID              string    `json:"id"`
	StallInstanceID string    `json:"stall_instance_id"`
	ExhibitionID    string    `json:"exhibition_id"`
	BrandID         string    `json:"brand_id"`
	Message         string    `json:"message,omitempty"`
	Comments        string    `json:"comments,omitempty"`
	Status          string    `json:"status"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToResponse(a *StallApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID.String(),
		StallInstanceID: a.StallInstanceID.String(),
		ExhibitionID:    a.ExhibitionID.String(),
		BrandID:         a.BrandID.String(),
		Message:         a.Message,
		Comments:        a.Comments,
		Status:          string(a.Status),
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
