package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exhibae/internal/notifications"
	"exhibae/internal/realtime"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindOrCreateConversation(ctx context.Context, conversation *Conversation) (*Conversation, error) {
	args := m.Called(ctx, conversation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conversation), args.Error(1)
}

func (m *mockRepository) GetConversationByID(ctx context.Context, id string) (*Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conversation), args.Error(1)
}

func (m *mockRepository) ListConversationsForUser(ctx context.Context, userID string) ([]Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Conversation), args.Error(1)
}

func (m *mockRepository) CreateMessage(ctx context.Context, message *ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockRepository) ListMessages(ctx context.Context, conversationID string, limit int, before *time.Time) ([]ChatMessage, error) {
	args := m.Called(ctx, conversationID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ChatMessage), args.Error(1)
}

func (m *mockRepository) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	args := m.Called(ctx, conversationID, at)
	return args.Error(0)
}

func (m *mockRepository) CreateTicket(ctx context.Context, ticket *SupportTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockRepository) GetTicketByID(ctx context.Context, id string) (*SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SupportTicket), args.Error(1)
}

func (m *mockRepository) ListTicketsForUser(ctx context.Context, userID string) ([]SupportTicket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SupportTicket), args.Error(1)
}

func (m *mockRepository) ListAllTickets(ctx context.Context, status string) ([]SupportTicket, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SupportTicket), args.Error(1)
}

func (m *mockRepository) UpdateTicket(ctx context.Context, ticket *SupportTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) Publish(ctx context.Context, scope string, event *realtime.ChangeEvent) {
	m.Called(ctx, scope, event)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) FanOut(ctx context.Context, req *notifications.FanOutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockNotifier) List(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) (*notifications.ListResponse, error) {
	args := m.Called(ctx, recipientID, unreadOnly, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notifications.ListResponse), args.Error(1)
}

func (m *mockNotifier) MarkRead(ctx context.Context, id, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *mockNotifier) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func testConversation() *Conversation {
	return &Conversation{
		ID:           uuid.New(),
		ParticipantA: uuid.New(),
		ParticipantB: uuid.New(),
	}
}

func TestSendMessage_ParticipantsOnly(t *testing.T) {
	repo := new(mockRepository)
	conversation := testConversation()
	repo.On("GetConversationByID", mock.Anything, conversation.ID.String()).Return(conversation, nil)

	svc := NewService(repo, new(mockFeed), new(mockNotifier))
	_, err := svc.SendMessage(context.Background(), conversation.ID.String(), uuid.New().String(), &SendMessageRequest{
		Body: "hello?",
	})

	assert.ErrorIs(t, err, ErrNotParticipant)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendMessage_PublishesToConversationScope(t *testing.T) {
	repo := new(mockRepository)
	feed := new(mockFeed)
	conversation := testConversation()

	repo.On("GetConversationByID", mock.Anything, conversation.ID.String()).Return(conversation, nil)
	repo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*chat.ChatMessage")).Return(nil)
	repo.On("TouchConversation", mock.Anything, conversation.ID.String(), mock.AnythingOfType("time.Time")).Return(nil)
	feed.On("Publish", mock.Anything, realtime.ConversationScope(conversation.ID.String()), mock.AnythingOfType("*realtime.ChangeEvent")).Return()

	svc := NewService(repo, feed, new(mockNotifier))
	message, err := svc.SendMessage(context.Background(), conversation.ID.String(), conversation.ParticipantA.String(), &SendMessageRequest{
		Body: "Is the corner stall still open?",
	})

	assert.NoError(t, err)
	assert.Equal(t, conversation.ID, message.ConversationID)
	assert.Equal(t, int64(1), message.Version)
	feed.AssertNumberOfCalls(t, "Publish", 1)
}

func TestListMessages_ParticipantsOnly(t *testing.T) {
	repo := new(mockRepository)
	conversation := testConversation()
	repo.On("GetConversationByID", mock.Anything, conversation.ID.String()).Return(conversation, nil)

	svc := NewService(repo, new(mockFeed), new(mockNotifier))
	_, err := svc.ListMessages(context.Background(), conversation.ID.String(), uuid.New().String(), 50, nil)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestUpdateTicket(t *testing.T) {
	t.Run("forward transition notifies the reporter", func(t *testing.T) {
		repo := new(mockRepository)
		notifier := new(mockNotifier)
		ticket := &SupportTicket{ID: uuid.New(), UserID: uuid.New(), Subject: "Login broken", Status: TicketOpen}

		repo.On("GetTicketByID", mock.Anything, ticket.ID.String()).Return(ticket, nil)
		repo.On("UpdateTicket", mock.Anything, ticket).Return(nil)
		notifier.On("FanOut", mock.Anything, mock.AnythingOfType("*notifications.FanOutRequest")).Return(nil)

		svc := NewService(repo, new(mockFeed), notifier)
		updated, err := svc.UpdateTicket(context.Background(), ticket.ID.String(), &UpdateTicketRequest{
			Status: "in_progress",
		})

		assert.NoError(t, err)
		assert.Equal(t, TicketInProgress, updated.Status)
		notifier.AssertNumberOfCalls(t, "FanOut", 1)
	})

	t.Run("closed tickets stay closed", func(t *testing.T) {
		repo := new(mockRepository)
		ticket := &SupportTicket{ID: uuid.New(), Status: TicketClosed}
		repo.On("GetTicketByID", mock.Anything, ticket.ID.String()).Return(ticket, nil)

		svc := NewService(repo, new(mockFeed), new(mockNotifier))
		_, err := svc.UpdateTicket(context.Background(), ticket.ID.String(), &UpdateTicketRequest{
			Status: "open",
		})

		assert.ErrorIs(t, err, ErrIllegalTransition)
		repo.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, new(mockFeed), new(mockNotifier))

		_, err := svc.UpdateTicket(context.Background(), uuid.New().String(), &UpdateTicketRequest{
			Status: "escalated",
		})

		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestCreateTicket_OpensInOpen(t *testing.T) {
	repo := new(mockRepository)
	userID := uuid.New()
	repo.On("CreateTicket", mock.Anything, mock.AnythingOfType("*chat.SupportTicket")).Return(nil)

	svc := NewService(repo, new(mockFeed), new(mockNotifier))
	ticket, err := svc.CreateTicket(context.Background(), userID.String(), &CreateTicketRequest{
		Subject: "Cannot upload floor plan",
		Body:    "The upload spinner never finishes.",
	})

	assert.NoError(t, err)
	assert.Equal(t, TicketOpen, ticket.Status)
	assert.Equal(t, userID, ticket.UserID)
}
