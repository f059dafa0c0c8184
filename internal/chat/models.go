package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a two-party thread, usually brand ↔ organiser around
// an exhibition.
type Conversation struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExhibitionID  *uuid.UUID `json:"exhibition_id,omitempty" gorm:"type:uuid;index"`
	ParticipantA  uuid.UUID  `json:"participant_a" gorm:"type:uuid;not null;index"`
	ParticipantB  uuid.UUID  `json:"participant_b" gorm:"type:uuid;not null;index"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether the user is part of the conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA.String() == userID || c.ParticipantB.String() == userID
}

// ChatMessage is one message in a conversation
type ChatMessage struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `json:"sender_id" gorm:"type:uuid;not null"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	Version        int64     `json:"version" gorm:"not null;default:1"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SupportTicket is a user's request for help, handled by managers
type SupportTicket struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	AssigneeID *uuid.UUID   `json:"assignee_id,omitempty" gorm:"type:uuid"`
	Subject    string       `json:"subject" gorm:"not null;size:255"`
	Body       string       `json:"body" gorm:"type:text"`
	Status     TicketStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// StartConversationRequest opens (or returns) a thread with another user
type StartConversationRequest struct {
	ParticipantID string  `json:"participant_id" validate:"required,uuid"`
	ExhibitionID  *string `json:"exhibition_id,omitempty" validate:"omitempty,uuid"`
}

// SendMessageRequest posts a message into a conversation
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// CreateTicketRequest opens a support ticket
type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=255"`
	Body    string `json:"body" validate:"omitempty,max=10000"`
}

// UpdateTicketRequest moves a ticket through its status machine
type UpdateTicketRequest struct {
	Status     string  `json:"status" validate:"required"`
	AssigneeID *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}
