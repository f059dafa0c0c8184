package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"exhibae/internal/notifications"
	"exhibae/internal/realtime"
	"exhibae/internal/stalls"
	"exhibae/pkg/logger"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyPending      = errors.New("a pending application already exists for this stall instance")
	ErrNotAvailable        = errors.New("stall instance is not available")
	ErrIllegalTransition   = errors.New("illegal application status transition")
	ErrNotOwner            = errors.New("application does not belong to this user")
)

type Service interface {
	Submit(ctx context.Context, brandID string, req *SubmitRequest) (*ApplicationResponse, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*ApplicationResponse, error)
	Delete(ctx context.Context, id, brandID string) error
	GetByID(ctx context.Context, id string) (*ApplicationResponse, error)
	ListByBrand(ctx context.Context, brandID string) ([]ApplicationResponse, error)
	ListByExhibition(ctx context.Context, exhibitionID string) ([]ApplicationResponse, error)
	ListByInstance(ctx context.Context, instanceID string) ([]ApplicationResponse, error)
}

// InstanceGetter is the slice of the stalls repository the
// application flow needs.
type InstanceGetter interface {
	GetInstanceByID(ctx context.Context, id string) (*stalls.StallInstance, error)
}

// ChangePublisher pushes change events onto the realtime feed.
// Satisfied by *realtime.Hub.
type ChangePublisher interface {
	Publish(ctx context.Context, scope string, event *realtime.ChangeEvent)
}

type service struct {
	repo      Repository
	instances InstanceGetter
	claims    ClaimStore
	notifier  notifications.Service
	feed      ChangePublisher
	log       *logger.Logger
}

func NewService(repo Repository, instances InstanceGetter, claims ClaimStore, notifier notifications.Service, feed ChangePublisher) Service {
	return &service{
		repo:      repo,
		instances: instances,
		claims:    claims,
		notifier:  notifier,
		feed:      feed,
		log:       logger.GetDefault(),
	}
}

func (s *service) Submit(ctx context.Context, brandID string, req *SubmitRequest) (*ApplicationResponse, error) {
	brandUUID, err := uuid.Parse(brandID)
	if err != nil {
		return nil, fmt.Errorf("invalid brand id: %w", err)
	}

	instance, err := s.instances.GetInstanceByID(ctx, req.StallInstanceID)
	if err != nil {
		return nil, err
	}
	if instance.Status != stalls.StatusAvailable {
		return nil, ErrNotAvailable
	}

	// Fast-path rejection under contention. The claim shrinks the
	// race window; the partial unique index below is the real guard.
	acquired, err := s.claims.Acquire(ctx, req.StallInstanceID, brandID)
	if err != nil {
		s.log.Warn("application claim unavailable, relying on database guard",
			"stall_instance_id", req.StallInstanceID, "error", err)
	} else if !acquired {
		return nil, ErrAlreadyPending
	}

	application := &StallApplication{
		StallInstanceID: instance.ID,
		ExhibitionID:    instance.ExhibitionID,
		BrandID:         brandUUID,
		Message:         req.Message,
		Status:          StatusPending,
		Version:         1,
	}

	if err := s.repo.SubmitTx(ctx, application); err != nil {
		if releaseErr := s.claims.Release(ctx, req.StallInstanceID, brandID); releaseErr != nil {
			s.log.Warn("failed to release application claim", "error", releaseErr)
		}
		return nil, err
	}

	s.log.LogApplicationSubmitted(ctx, application.ID.String(), req.StallInstanceID, brandID)

	s.notifyOrganiser(ctx, application,
		notifications.EventApplicationSubmitted,
		"New stall application",
		fmt.Sprintf("A brand applied for stall %s.", instance.InstanceName),
	)
	s.publish(ctx, realtime.OpInsert, application)

	resp := ToResponse(application)
	return &resp, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*ApplicationResponse, error) {
	target := Status(req.Status)
	if !target.IsValid() {
		return nil, ErrIllegalTransition
	}

	application, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !application.Status.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}

	previous := application.Status
	application.Status = target
	if req.Comments != "" {
		application.Comments = req.Comments
	}

	instanceFrom, instanceTo := instanceSideEffect(target)
	if err := s.repo.UpdateStatusTx(ctx, application, instanceFrom, instanceTo); err != nil {
		return nil, err
	}

	s.log.LogApplicationTransition(ctx, application.ID.String(), string(previous), string(target))

	// Committed. Notification and realtime fan-out are best-effort
	// from here on.
	s.notifyForTransition(ctx, application, target)
	s.publish(ctx, realtime.OpUpdate, application)

	if target == StatusRejected {
		if err := s.claims.Release(ctx, application.StallInstanceID.String(), application.BrandID.String()); err != nil {
			s.log.Warn("failed to release application claim", "error", err)
		}
	}

	resp := ToResponse(application)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id, brandID string) error {
	application, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if application.BrandID.String() != brandID {
		return ErrNotOwner
	}
	if application.Status != StatusPending {
		return ErrIllegalTransition
	}

	if err := s.repo.DeleteTx(ctx, application); err != nil {
		return err
	}

	if err := s.claims.Release(ctx, application.StallInstanceID.String(), brandID); err != nil {
		s.log.Warn("failed to release application claim", "error", err)
	}

	s.log.Info("application withdrawn",
		"application_id", id,
		"brand_id", brandID,
		"stall_instance_id", application.StallInstanceID.String(),
	)
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*ApplicationResponse, error) {
	application, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(application)
	return &resp, nil
}

func (s *service) ListByBrand(ctx context.Context, brandID string) ([]ApplicationResponse, error) {
	applications, err := s.repo.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return toResponses(applications), nil
}

func (s *service) ListByExhibition(ctx context.Context, exhibitionID string) ([]ApplicationResponse, error) {
	applications, err := s.repo.ListByExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}
	return toResponses(applications), nil
}

func (s *service) ListByInstance(ctx context.Context, instanceID string) ([]ApplicationResponse, error) {
	applications, err := s.repo.ListByInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return toResponses(applications), nil
}

// instanceSideEffect maps an application transition to the instance
// status change it carries.
func instanceSideEffect(target Status) (from, to stalls.InstanceStatus) {
	switch target {
	case StatusBookingConfirmed:
		return stalls.StatusPending, stalls.StatusBooked
	case StatusRejected:
		return stalls.StatusPending, stalls.StatusAvailable
	}
	return "", ""
}

var transitionNotifications = map[Status]struct {
	event notifications.EventType
	title string
	body  string
}{
	StatusApproved: {
		event: notifications.EventApplicationApproved,
		title: "Application approved",
		body:  "Your stall application was approved. Complete the payment to confirm your booking.",
	},
	StatusRejected: {
		event: notifications.EventApplicationRejected,
		title: "Application rejected",
		body:  "Your stall application was not accepted this time.",
	},
	StatusPaymentPending: {
		event: notifications.EventPaymentPending,
		title: "Payment pending",
		body:  "Your application is awaiting payment.",
	},
	StatusBookingConfirmed: {
		event: notifications.EventBookingConfirmed,
		title: "Booking confirmed",
		body:  "Your stall booking is confirmed. See you at the exhibition!",
	},
}

func (s *service) notifyForTransition(ctx context.Context, application *StallApplication, target Status) {
	note, ok := transitionNotifications[target]
	if !ok {
		return
	}

	brand, err := s.repo.GetUser(ctx, application.BrandID.String())
	if err != nil {
		s.log.Warn("failed to load brand for notification",
			"application_id", application.ID.String(), "error", err)
		return
	}

	recipients := []notifications.Recipient{
		{UserID: brand.ID, Email: brand.Email, Name: brand.FullName},
	}

	if target == StatusBookingConfirmed {
		if organiser, err := s.repo.GetExhibitionOrganiser(ctx, application.ExhibitionID.String()); err == nil {
			recipients = append(recipients, notifications.Recipient{
				UserID: organiser.ID, Email: organiser.Email, Name: organiser.FullName,
			})
		}
	}

	s.fanOut(ctx, application, note.event, note.title, note.body, recipients)
}

func (s *service) notifyOrganiser(ctx context.Context, application *StallApplication, event notifications.EventType, title, body string) {
	organiser, err := s.repo.GetExhibitionOrganiser(ctx, application.ExhibitionID.String())
	if err != nil {
		s.log.Warn("failed to load organiser for notification",
			"application_id", application.ID.String(), "error", err)
		return
	}
	s.fanOut(ctx, application, event, title, body, []notifications.Recipient{
		{UserID: organiser.ID, Email: organiser.Email, Name: organiser.FullName},
	})
}

func (s *service) fanOut(ctx context.Context, application *StallApplication, event notifications.EventType, title, body string, recipients []notifications.Recipient) {
	err := s.notifier.FanOut(ctx, &notifications.FanOutRequest{
		EventType:  event,
		Title:      title,
		Message:    body,
		Link:       fmt.Sprintf("/applications/%s", application.ID),
		Recipients: recipients,
		Payload: map[string]interface{}{
			"application_id": application.ID.String(),
			"exhibition_id":  application.ExhibitionID.String(),
			"status":         string(application.Status),
		},
	})
	if err != nil {
		s.log.Error("notification fan-out failed",
			"application_id", application.ID.String(),
			"event_type", string(event),
			"error", err,
		)
	}
}

func (s *service) publish(ctx context.Context, op realtime.Operation, application *StallApplication) {
	event, err := realtime.NewChangeEvent(op, "stall_applications", application.ID.String(), ToResponse(application), application.Version)
	if err != nil {
		s.log.Warn("failed to build change event", "application_id", application.ID.String(), "error", err)
		return
	}
	s.feed.Publish(ctx, realtime.ApplicationsBrandScope(application.BrandID.String()), event)
	s.feed.Publish(ctx, realtime.ApplicationsExhibitionScope(application.ExhibitionID.String()), event)
}

func toResponses(applications []StallApplication) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, ToResponse(&applications[i]))
	}
	return responses
}
