package stalls

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stall is a template for stall units within an exhibition: one stall
// definition fans out into positioned StallInstances on the floor plan.
type Stall struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExhibitionID uuid.UUID `json:"exhibition_id" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"not null;size:255"`
	Description  string    `json:"description" gorm:"type:text"`
	Width        float64   `json:"width" gorm:"not null"`
	Length       float64   `json:"length" gorm:"not null"`
	Unit         string    `json:"unit" gorm:"size:10;default:'m'"`
	Price        float64   `json:"price" gorm:"not null"`
	Quantity     int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Stall) TableName() string {
	return "stalls"
}

func (s *Stall) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// StallInstance is a positioned occurrence of a stall on the floor plan
type StallInstance struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StallID      uuid.UUID      `json:"stall_id" gorm:"type:uuid;not null;index"`
	ExhibitionID uuid.UUID      `json:"exhibition_id" gorm:"type:uuid;not null;index"`
	InstanceName string         `json:"instance_name" gorm:"size:100"`
	PositionX    float64        `json:"position_x"`
	PositionY    float64        `json:"position_y"`
	Rotation     float64        `json:"rotation"`
	Price        float64        `json:"price" gorm:"not null"`
	Status       InstanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	Version      int64          `json:"version" gorm:"not null;default:1"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (StallInstance) TableName() string {
	return "stall_instances"
}

func (si *StallInstance) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// MaintenanceLog records a maintenance window on a stall instance
type MaintenanceLog struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StallInstanceID uuid.UUID  `json:"stall_instance_id" gorm:"type:uuid;not null;index"`
	Reason          string     `json:"reason" gorm:"size:500"`
	StartedBy       uuid.UUID  `json:"started_by" gorm:"type:uuid;not null"`
	StartedAt       time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (MaintenanceLog) TableName() string {
	return "maintenance_logs"
}

func (m *MaintenanceLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CreateStallRequest represents the request to create a stall template
type CreateStallRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Width       float64 `json:"width" validate:"required,gt=0"`
	Length      float64 `json:"length" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"omitempty,oneof=m ft"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Quantity    int     `json:"quantity" validate:"required,gte=1,lte=500"`
}

// UpdateStallRequest represents the request to update a stall template
type UpdateStallRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Width       *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Length      *float64 `json:"length,omitempty" validate:"omitempty,gt=0"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=500"`
}

// CreateInstanceRequest represents the request to place one instance
type CreateInstanceRequest struct {
	StallID      string  `json:"stall_id" validate:"required,uuid"`
	InstanceName string  `json:"instance_name" validate:"omitempty,max=100"`
	PositionX    float64 `json:"position_x"`
	PositionY    float64 `json:"position_y"`
	Rotation     float64 `json:"rotation"`
	Price        float64 `json:"price" validate:"omitempty,gte=0"`
}

// GenerateInstancesRequest bulk-generates instances from a stall's quantity
type GenerateInstancesRequest struct {
	StallID string `json:"stall_id" validate:"required,uuid"`
}

// MaintenanceRequest starts maintenance on an instance
type MaintenanceRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// InstanceResponse represents instance data in responses, with the
// derived display status alongside the stored one.
type InstanceResponse struct {
	ID            string    `json:"id"`
	StallID       string    `json:"stall_id"`
	ExhibitionID  string    `json:"exhibition_id"`
	InstanceName  string    `json:"instance_name,omitempty"`
	PositionX     float64   `json:"position_x"`
	PositionY     float64   `json:"position_y"`
	Rotation      float64   `json:"rotation"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	DisplayStatus string    `json:"display_status"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
