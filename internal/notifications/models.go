package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType tags what happened; it picks the email template and the
// notification copy.
type EventType string

const (
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationApproved  EventType = "application_approved"
	EventApplicationRejected  EventType = "application_rejected"
	EventPaymentPending       EventType = "payment_pending"
	EventBookingConfirmed     EventType = "booking_confirmed"
	EventPaymentReceived      EventType = "payment_received"
	EventTicketUpdated        EventType = "ticket_updated"
	EventGeneral              EventType = "general"
)

// Notification is the per-recipient row in Postgres. Rows are the
// source of truth for the in-app inbox; email delivery is best-effort
// on top.
type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RecipientID uuid.UUID  `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Type        EventType  `json:"type" gorm:"type:varchar(40);not null"`
	Title       string     `json:"title" gorm:"not null;size:255"`
	Message     string     `json:"message" gorm:"type:text;not null"`
	Link        string     `json:"link" gorm:"size:500"`
	Read        bool       `json:"read" gorm:"not null;default:false"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// FanOutRequest is the contract state transitions use to notify users
type FanOutRequest struct {
	EventType  EventType
	Title      string
	Message    string
	Link       string
	Recipients []Recipient
	Payload    map[string]interface{}
}

// Recipient is one target of a fan-out
type Recipient struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// KafkaMessage is the wire shape of one per-recipient delivery task
type KafkaMessage struct {
	NotificationID string                 `json:"notification_id"`
	EventType      EventType              `json:"event_type"`
	RecipientID    string                 `json:"recipient_id"`
	RecipientEmail string                 `json:"recipient_email"`
	RecipientName  string                 `json:"recipient_name"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Link           string                 `json:"link,omitempty"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
	EnqueuedAt     time.Time              `json:"enqueued_at"`
}

// ListResponse wraps a paginated notification list
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}
