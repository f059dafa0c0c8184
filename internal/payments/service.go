package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"exhibae/internal/coupons"
	"exhibae/internal/notifications"
	"exhibae/pkg/logger"
)

var (
	ErrPaymentNotFound     = errors.New("payment transaction not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrIllegalTransition   = errors.New("illegal payment status transition")
	ErrNotOwner            = errors.New("payment does not belong to this user")
)

type Service interface {
	Create(ctx context.Context, brandID string, req *CreatePaymentRequest) (*PaymentTransaction, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*PaymentTransaction, error)
	Refund(ctx context.Context, id string) (*PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (*PaymentTransaction, error)
	ListByApplication(ctx context.Context, applicationID string) ([]PaymentTransaction, error)
	ListByBrand(ctx context.Context, brandID string) ([]PaymentTransaction, error)
}

type service struct {
	repo     Repository
	coupons  coupons.Service
	notifier notifications.Service
	log      *logger.Logger
}

func NewService(repo Repository, couponService coupons.Service, notifier notifications.Service) Service {
	return &service{
		repo:     repo,
		coupons:  couponService,
		notifier: notifier,
		log:      logger.GetDefault(),
	}
}

// Create opens a new transaction in processing. It never touches the
// application's own status: confirming the booking stays an explicit
// separate call on the application.
func (s *service) Create(ctx context.Context, brandID string, req *CreatePaymentRequest) (*PaymentTransaction, error) {
	exhibitionID, appBrandID, err := s.repo.GetApplicationMeta(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if appBrandID != brandID {
		return nil, ErrNotOwner
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("invalid application id: %w", err)
	}
	brandUUID, err := uuid.Parse(brandID)
	if err != nil {
		return nil, fmt.Errorf("invalid brand id: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	tx := &PaymentTransaction{
		ApplicationID: appID,
		BrandID:       brandUUID,
		Amount:        req.Amount,
		Currency:      currency,
		Method:        req.Method,
		Reference:     req.Reference,
		Status:        StatusProcessing,
	}

	if req.CouponCode != "" {
		result, err := s.coupons.Redeem(ctx, req.CouponCode, brandID, exhibitionID, req.Amount)
		if err != nil {
			return nil, err
		}
		tx.CouponCode = result.Code
		tx.Discount = result.Discount
		tx.Amount = result.FinalAmount
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	s.log.LogPaymentRecorded(ctx, tx.ID.String(), req.ApplicationID, tx.Amount)
	return tx, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*PaymentTransaction, error) {
	target := Status(req.Status)
	if !target.IsValid() {
		return nil, ErrIllegalTransition
	}

	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !tx.Status.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}

	if err := s.repo.UpdateStatusConditional(ctx, id, tx.Status, target); err != nil {
		return nil, err
	}
	tx.Status = target

	if target == StatusCompleted {
		s.notifyPaymentReceived(ctx, tx)
	}

	return tx, nil
}

func (s *service) Refund(ctx context.Context, id string) (*PaymentTransaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Status != StatusCompleted {
		return nil, ErrIllegalTransition
	}

	if err := s.repo.UpdateStatusConditional(ctx, id, StatusCompleted, StatusRefunded); err != nil {
		return nil, err
	}
	tx.Status = StatusRefunded

	s.log.Info("payment refunded",
		"transaction_id", id,
		"application_id", tx.ApplicationID.String(),
		"amount", tx.Amount,
	)
	return tx, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*PaymentTransaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByApplication(ctx context.Context, applicationID string) ([]PaymentTransaction, error) {
	return s.repo.ListByApplication(ctx, applicationID)
}

func (s *service) ListByBrand(ctx context.Context, brandID string) ([]PaymentTransaction, error) {
	return s.repo.ListByBrand(ctx, brandID)
}

func (s *service) notifyPaymentReceived(ctx context.Context, tx *PaymentTransaction) {
	organiser, err := s.repo.GetApplicationOrganiser(ctx, tx.ApplicationID.String())
	if err != nil {
		s.log.Warn("failed to load organiser for payment notification",
			"transaction_id", tx.ID.String(), "error", err)
		return
	}

	err = s.notifier.FanOut(ctx, &notifications.FanOutRequest{
		EventType: notifications.EventPaymentReceived,
		Title:     "Payment received",
		Message:   fmt.Sprintf("A payment of %.2f %s was received for a stall application.", tx.Amount, tx.Currency),
		Link:      fmt.Sprintf("/applications/%s", tx.ApplicationID),
		Recipients: []notifications.Recipient{
			{UserID: organiser.ID, Email: organiser.Email, Name: organiser.FullName},
		},
		Payload: map[string]interface{}{
			"transaction_id": tx.ID.String(),
			"application_id": tx.ApplicationID.String(),
			"amount":         tx.Amount,
		},
	})
	if err != nil {
		s.log.Error("payment notification fan-out failed",
			"transaction_id", tx.ID.String(), "error", err)
	}
}
