package notifications

import (
	"context"
	"fmt"
	"time"

	"exhibae/pkg/logger"
)

// Service is the fan-out entry point used by state transitions, plus
// the inbox operations behind the notification endpoints.
type Service interface {
	// FanOut writes one notification row per recipient, then enqueues
	// one Kafka delivery task per recipient. Row writes are the source
	// of truth; enqueue failures are logged, never returned.
	FanOut(ctx context.Context, req *FanOutRequest) error

	List(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) (*ListResponse, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type service struct {
	repo     Repository
	producer Producer
	log      *logger.Logger
}

func NewService(repo Repository, producer Producer) Service {
	return &service{
		repo:     repo,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (s *service) FanOut(ctx context.Context, req *FanOutRequest) error {
	recipients := dedupeRecipients(req.Recipients)
	if len(recipients) == 0 {
		return nil
	}

	rows := make([]Notification, 0, len(recipients))
	for _, recipient := range recipients {
		rows = append(rows, Notification{
			RecipientID: recipient.UserID,
			Type:        req.EventType,
			Title:       req.Title,
			Message:     req.Message,
			Link:        req.Link,
		})
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return fmt.Errorf("failed to write notification rows: %w", err)
	}

	// Rows are committed; everything past this point is best-effort.
	for i, recipient := range recipients {
		msg := &KafkaMessage{
			NotificationID: rows[i].ID.String(),
			EventType:      req.EventType,
			RecipientID:    recipient.UserID.String(),
			RecipientEmail: recipient.Email,
			RecipientName:  recipient.Name,
			Title:          req.Title,
			Message:        req.Message,
			Link:           req.Link,
			Payload:        req.Payload,
			EnqueuedAt:     time.Now(),
		}
		if err := s.producer.Send(msg); err != nil {
			s.log.Error("failed to enqueue notification delivery",
				"notification_id", msg.NotificationID,
				"event_type", string(req.EventType),
				"recipient_id", msg.RecipientID,
				"error", err,
			)
		}
	}

	return nil
}

func (s *service) List(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.ListByRecipient(ctx, recipientID, unreadOnly, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &ListResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, id, recipientID string) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

// dedupeRecipients keeps the first occurrence per user id so one event
// produces at most one notification per user.
func dedupeRecipients(recipients []Recipient) []Recipient {
	seen := make(map[string]bool, len(recipients))
	out := make([]Recipient, 0, len(recipients))
	for _, r := range recipients {
		key := r.UserID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
