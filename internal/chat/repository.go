package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Conversations
	FindOrCreateConversation(ctx context.Context, conversation *Conversation) (*Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*Conversation, error)
	ListConversationsForUser(ctx context.Context, userID string) ([]Conversation, error)

	// Messages
	CreateMessage(ctx context.Context, message *ChatMessage) error
	ListMessages(ctx context.Context, conversationID string, limit int, before *time.Time) ([]ChatMessage, error)
	TouchConversation(ctx context.Context, conversationID string, at time.Time) error

	// Tickets
	CreateTicket(ctx context.Context, ticket *SupportTicket) error
	GetTicketByID(ctx context.Context, id string) (*SupportTicket, error)
	ListTicketsForUser(ctx context.Context, userID string) ([]SupportTicket, error)
	ListAllTickets(ctx context.Context, status string) ([]SupportTicket, error)
	UpdateTicket(ctx context.Context, ticket *SupportTicket) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOrCreateConversation(ctx context.Context, conversation *Conversation) (*Conversation, error) {
	var existing Conversation
	query := r.db.WithContext(ctx).
		Where("(participant_a = ? AND participant_b = ?) OR (participant_a = ? AND participant_b = ?)",
			conversation.ParticipantA, conversation.ParticipantB,
			conversation.ParticipantB, conversation.ParticipantA)
	if conversation.ExhibitionID != nil {
		query = query.Where("exhibition_id = ?", *conversation.ExhibitionID)
	} else {
		query = query.Where("exhibition_id IS NULL")
	}

	err := query.First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *repository) GetConversationByID(ctx context.Context, id string) (*Conversation, error) {
	var conversation Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *repository) ListConversationsForUser(ctx context.Context, userID string) ([]Conversation, error) {
	var conversations []Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *repository) CreateMessage(ctx context.Context, message *ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repository) ListMessages(ctx context.Context, conversationID string, limit int, before *time.Time) ([]ChatMessage, error) {
	var messages []ChatMessage
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}
	err := query.Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *repository) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
}

func (r *repository) CreateTicket(ctx context.Context, ticket *SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *repository) GetTicketByID(ctx context.Context, id string) (*SupportTicket, error) {
	var ticket SupportTicket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListTicketsForUser(ctx context.Context, userID string) ([]SupportTicket, error) {
	var tickets []SupportTicket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) ListAllTickets(ctx context.Context, status string) ([]SupportTicket, error) {
	var tickets []SupportTicket
	query := r.db.WithContext(ctx).Model(&SupportTicket{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *repository) UpdateTicket(ctx context.Context, ticket *SupportTicket) error {
	result := r.db.WithContext(ctx).Save(ticket)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
