package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"exhibae/internal/notifications"
	"exhibae/internal/realtime"
	"exhibae/pkg/logger"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrTicketNotFound       = errors.New("support ticket not found")
	ErrNotParticipant       = errors.New("user is not a participant in this conversation")
	ErrIllegalTransition    = errors.New("illegal ticket status transition")
)

type Service interface {
	StartConversation(ctx context.Context, userID string, req *StartConversationRequest) (*Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	SendMessage(ctx context.Context, conversationID, senderID string, req *SendMessageRequest) (*ChatMessage, error)
	ListMessages(ctx context.Context, conversationID, userID string, limit int, before *time.Time) ([]ChatMessage, error)

	CreateTicket(ctx context.Context, userID string, req *CreateTicketRequest) (*SupportTicket, error)
	UpdateTicket(ctx context.Context, id string, req *UpdateTicketRequest) (*SupportTicket, error)
	ListMyTickets(ctx context.Context, userID string) ([]SupportTicket, error)
	ListAllTickets(ctx context.Context, status string) ([]SupportTicket, error)
}

// ChangePublisher pushes change events onto the realtime feed.
// Satisfied by *realtime.Hub.
type ChangePublisher interface {
	Publish(ctx context.Context, scope string, event *realtime.ChangeEvent)
}

type service struct {
	repo     Repository
	feed     ChangePublisher
	notifier notifications.Service
	log      *logger.Logger
}

func NewService(repo Repository, feed ChangePublisher, notifier notifications.Service) Service {
	return &service{
		repo:     repo,
		feed:     feed,
		notifier: notifier,
		log:      logger.GetDefault(),
	}
}

func (s *service) StartConversation(ctx context.Context, userID string, req *StartConversationRequest) (*Conversation, error) {
	me, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	other, err := uuid.Parse(req.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("invalid participant id: %w", err)
	}

	conversation := &Conversation{
		ParticipantA: me,
		ParticipantB: other,
	}
	if req.ExhibitionID != nil {
		exhID, err := uuid.Parse(*req.ExhibitionID)
		if err != nil {
			return nil, fmt.Errorf("invalid exhibition id: %w", err)
		}
		conversation.ExhibitionID = &exhID
	}

	return s.repo.FindOrCreateConversation(ctx, conversation)
}

func (s *service) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	return s.repo.ListConversationsForUser(ctx, userID)
}

func (s *service) SendMessage(ctx context.Context, conversationID, senderID string, req *SendMessageRequest) (*ChatMessage, error) {
	conversation, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	sender, err := uuid.Parse(senderID)
	if err != nil {
		return nil, fmt.Errorf("invalid sender id: %w", err)
	}

	message := &ChatMessage{
		ConversationID: conversation.ID,
		SenderID:       sender,
		Body:           req.Body,
		Version:        1,
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if err := s.repo.TouchConversation(ctx, conversationID, time.Now()); err != nil {
		s.log.Warn("failed to touch conversation", "conversation_id", conversationID, "error", err)
	}

	// Inserted messages flow to subscribed participants over the
	// change feed.
	event, err := realtime.NewChangeEvent(realtime.OpInsert, "chat_messages", message.ID.String(), message, message.Version)
	if err != nil {
		s.log.Warn("failed to build chat change event", "message_id", message.ID.String(), "error", err)
	} else {
		s.feed.Publish(ctx, realtime.ConversationScope(conversationID), event)
	}

	return message, nil
}

func (s *service) ListMessages(ctx context.Context, conversationID, userID string, limit int, before *time.Time) ([]ChatMessage, error) {
	conversation, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, conversationID, limit, before)
}

func (s *service) CreateTicket(ctx context.Context, userID string, req *CreateTicketRequest) (*SupportTicket, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	ticket := &SupportTicket{
		UserID:  uid,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  TicketOpen,
	}

	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create support ticket: %w", err)
	}
	return ticket, nil
}

func (s *service) UpdateTicket(ctx context.Context, id string, req *UpdateTicketRequest) (*SupportTicket, error) {
	target := TicketStatus(req.Status)
	if !target.IsValid() {
		return nil, ErrIllegalTransition
	}

	ticket, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ticket.Status.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}
	ticket.Status = target

	if req.AssigneeID != nil {
		assignee, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee id: %w", err)
		}
		ticket.AssigneeID = &assignee
	}

	if err := s.repo.UpdateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.notifyTicketUpdate(ctx, ticket)
	return ticket, nil
}

func (s *service) ListMyTickets(ctx context.Context, userID string) ([]SupportTicket, error) {
	return s.repo.ListTicketsForUser(ctx, userID)
}

func (s *service) ListAllTickets(ctx context.Context, status string) ([]SupportTicket, error) {
	return s.repo.ListAllTickets(ctx, status)
}

func (s *service) notifyTicketUpdate(ctx context.Context, ticket *SupportTicket) {
	err := s.notifier.FanOut(ctx, &notifications.FanOutRequest{
		EventType: notifications.EventTicketUpdated,
		Title:     "Support ticket updated",
		Message:   fmt.Sprintf("Your ticket %q is now %s.", ticket.Subject, ticket.Status),
		Link:      fmt.Sprintf("/support/tickets/%s", ticket.ID),
		Recipients: []notifications.Recipient{
			{UserID: ticket.UserID},
		},
		Payload: map[string]interface{}{
			"ticket_id": ticket.ID.String(),
			"status":    string(ticket.Status),
		},
	})
	if err != nil {
		s.log.Error("ticket notification fan-out failed", "ticket_id", ticket.ID.String(), "error", err)
	}
}
