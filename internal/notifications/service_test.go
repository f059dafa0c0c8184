package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exhibae/pkg/logger"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, notification *Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockRepository) CreateBatch(ctx context.Context, notifications []Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *mockRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	args := m.Called(ctx, recipientID, unreadOnly, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *mockRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Send(msg *KafkaMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *mockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestFanOut_WritesRowsAndEnqueuesPerRecipient(t *testing.T) {
	repo := new(mockRepository)
	producer := new(mockProducer)

	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]notifications.Notification")).Return(nil)
	producer.On("Send", mock.AnythingOfType("*notifications.KafkaMessage")).Return(nil)

	svc := NewService(repo, producer)
	err := svc.FanOut(context.Background(), &FanOutRequest{
		EventType: EventApplicationApproved,
		Title:     "Application approved",
		Message:   "Your stall application was approved.",
		Recipients: []Recipient{
			{UserID: uuid.New(), Email: "brand@example.com", Name: "Bella"},
			{UserID: uuid.New(), Email: "organiser@example.com", Name: "Olivia"},
		},
	})

	assert.NoError(t, err)
	producer.AssertNumberOfCalls(t, "Send", 2)

	rows := repo.Calls[0].Arguments.Get(1).([]Notification)
	assert.Len(t, rows, 2)
	assert.Equal(t, EventApplicationApproved, rows[0].Type)
}

func TestFanOut_ProducerFailureDoesNotFailTheTransition(t *testing.T) {
	repo := new(mockRepository)
	producer := new(mockProducer)

	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	producer.On("Send", mock.Anything).Return(errors.New("kafka: broker not available"))

	svc := NewService(repo, producer)
	err := svc.FanOut(context.Background(), &FanOutRequest{
		EventType: EventBookingConfirmed,
		Title:     "Booking confirmed",
		Message:   "See you at the exhibition.",
		Recipients: []Recipient{
			{UserID: uuid.New(), Email: "brand@example.com"},
		},
	})

	// rows are the source of truth; enqueue failures stay internal
	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "CreateBatch", 1)
}

func TestFanOut_RowWriteFailurePropagates(t *testing.T) {
	repo := new(mockRepository)
	producer := new(mockProducer)

	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("pq: connection reset"))

	svc := NewService(repo, producer)
	err := svc.FanOut(context.Background(), &FanOutRequest{
		EventType:  EventGeneral,
		Title:      "Hello",
		Message:    "World",
		Recipients: []Recipient{{UserID: uuid.New()}},
	})

	assert.Error(t, err)
	producer.AssertNotCalled(t, "Send", mock.Anything)
}

func TestFanOut_DeduplicatesRecipients(t *testing.T) {
	repo := new(mockRepository)
	producer := new(mockProducer)

	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	producer.On("Send", mock.Anything).Return(nil)

	duplicated := Recipient{UserID: uuid.New(), Email: "brand@example.com"}
	svc := NewService(repo, producer)
	err := svc.FanOut(context.Background(), &FanOutRequest{
		EventType:  EventPaymentReceived,
		Title:      "Payment received",
		Message:    "Thanks",
		Recipients: []Recipient{duplicated, duplicated, {UserID: duplicated.UserID, Email: "other@example.com"}},
	})

	assert.NoError(t, err)
	producer.AssertNumberOfCalls(t, "Send", 1)

	rows := repo.Calls[0].Arguments.Get(1).([]Notification)
	assert.Len(t, rows, 1)
}

func TestFanOut_NoRecipientsIsANoop(t *testing.T) {
	repo := new(mockRepository)
	producer := new(mockProducer)

	svc := NewService(repo, producer)
	err := svc.FanOut(context.Background(), &FanOutRequest{
		EventType: EventGeneral,
		Title:     "Nobody home",
	})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "Send", mock.Anything)
}

func TestList_ClampsPagination(t *testing.T) {
	repo := new(mockRepository)
	recipientID := uuid.New().String()

	repo.On("ListByRecipient", mock.Anything, recipientID, false, 1, 20).
		Return([]Notification{}, int64(0), nil)
	repo.On("CountUnread", mock.Anything, recipientID).Return(int64(0), nil)

	svc := NewService(repo, new(mockProducer))
	resp, err := svc.List(context.Background(), recipientID, false, -5, 9999)

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}

func TestDeliverWithRetry_RecoversFromTransientFailures(t *testing.T) {
	dispatcher := &MockEmailDispatcher{FailN: 2}
	handler := &consumerHandler{
		dispatcher: dispatcher,
		log:        logger.GetDefault(),
	}

	err := handler.deliverWithRetry(context.Background(), &KafkaMessage{
		NotificationID: uuid.New().String(),
		RecipientEmail: "brand@example.com",
		Title:          "Application approved",
		Message:        "Your stall application was approved.",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, dispatcher.SentCount())
}

func TestDeliverWithRetry_SkipsRecipientsWithoutEmail(t *testing.T) {
	dispatcher := &MockEmailDispatcher{}
	handler := &consumerHandler{
		dispatcher: dispatcher,
		log:        logger.GetDefault(),
	}

	err := handler.deliverWithRetry(context.Background(), &KafkaMessage{
		NotificationID: uuid.New().String(),
		Title:          "In-app only",
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, dispatcher.SentCount())
}
