package applications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exhibae/internal/notifications"
	"exhibae/internal/realtime"
	"exhibae/internal/stalls"
	"exhibae/internal/users"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) SubmitTx(ctx context.Context, application *StallApplication) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*StallApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StallApplication), args.Error(1)
}

func (m *mockRepository) ListByBrand(ctx context.Context, brandID string) ([]StallApplication, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StallApplication), args.Error(1)
}

func (m *mockRepository) ListByExhibition(ctx context.Context, exhibitionID string) ([]StallApplication, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StallApplication), args.Error(1)
}

func (m *mockRepository) ListByInstance(ctx context.Context, instanceID string) ([]StallApplication, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StallApplication), args.Error(1)
}

func (m *mockRepository) UpdateStatusTx(ctx context.Context, application *StallApplication, instanceFrom, instanceTo stalls.InstanceStatus) error {
	args := m.Called(ctx, application, instanceFrom, instanceTo)
	return args.Error(0)
}

func (m *mockRepository) DeleteTx(ctx context.Context, application *StallApplication) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *mockRepository) GetExhibitionOrganiser(ctx context.Context, exhibitionID string) (*users.User, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockRepository) GetUser(ctx context.Context, userID string) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

type mockInstanceGetter struct {
	mock.Mock
}

func (m *mockInstanceGetter) GetInstanceByID(ctx context.Context, id string) (*stalls.StallInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stalls.StallInstance), args.Error(1)
}

type mockClaimStore struct {
	mock.Mock
}

func (m *mockClaimStore) Acquire(ctx context.Context, instanceID, brandID string) (bool, error) {
	args := m.Called(ctx, instanceID, brandID)
	return args.Bool(0), args.Error(1)
}

func (m *mockClaimStore) Release(ctx context.Context, instanceID, brandID string) error {
	args := m.Called(ctx, instanceID, brandID)
	return args.Error(0)
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

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) Publish(ctx context.Context, scope string, event *realtime.ChangeEvent) {
	m.Called(ctx, scope, event)
}

type serviceFixture struct {
	repo      *mockRepository
	instances *mockInstanceGetter
	claims    *mockClaimStore
	notifier  *mockNotifier
	feed      *mockFeed
	service   Service
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      new(mockRepository),
		instances: new(mockInstanceGetter),
		claims:    new(mockClaimStore),
		notifier:  new(mockNotifier),
		feed:      new(mockFeed),
	}
	f.service = NewService(f.repo, f.instances, f.claims, f.notifier, f.feed)
	return f
}

func availableInstance() *stalls.StallInstance {
	return &stalls.StallInstance{
		ID:           uuid.New(),
		StallID:      uuid.New(),
		ExhibitionID: uuid.New(),
		InstanceName: "Standard Booth #1",
		Price:        15000,
		Status:       stalls.StatusAvailable,
		Version:      1,
	}
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture()
	instance := availableInstance()
	brandID := uuid.New().String()

	f.instances.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)
	f.claims.On("Acquire", mock.Anything, instance.ID.String(), brandID).Return(true, nil)
	f.repo.On("SubmitTx", mock.Anything, mock.AnythingOfType("*applications.StallApplication")).
		Run(func(args mock.Arguments) {
			app := args.Get(1).(*StallApplication)
			app.ID = uuid.New()
		}).Return(nil)
	f.repo.On("GetExhibitionOrganiser", mock.Anything, instance.ExhibitionID.String()).
		Return(&users.User{ID: uuid.New(), Email: "organiser@example.com", FullName: "Olivia"}, nil)
	f.notifier.On("FanOut", mock.Anything, mock.AnythingOfType("*notifications.FanOutRequest")).Return(nil)
	f.feed.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*realtime.ChangeEvent")).Return()

	resp, err := f.service.Submit(context.Background(), brandID, &SubmitRequest{
		StallInstanceID: instance.ID.String(),
		Message:         "We sell handmade ceramics.",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(StatusPending), resp.Status)
	assert.Equal(t, instance.ID.String(), resp.StallInstanceID)
	assert.Equal(t, brandID, resp.BrandID)
	assert.Equal(t, int64(1), resp.Version)

	// one scope per brand, one per exhibition
	f.feed.AssertNumberOfCalls(t, "Publish", 2)
	f.notifier.AssertNumberOfCalls(t, "FanOut", 1)
	f.claims.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_InstanceNotAvailable(t *testing.T) {
	f := newFixture()
	instance := availableInstance()
	instance.Status = stalls.StatusBooked

	f.instances.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)

	_, err := f.service.Submit(context.Background(), uuid.New().String(), &SubmitRequest{
		StallInstanceID: instance.ID.String(),
	})

	assert.ErrorIs(t, err, ErrNotAvailable)
	f.claims.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "SubmitTx", mock.Anything, mock.Anything)
}

func TestSubmit_ClaimDenied(t *testing.T) {
	f := newFixture()
	instance := availableInstance()
	brandID := uuid.New().String()

	f.instances.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)
	f.claims.On("Acquire", mock.Anything, instance.ID.String(), brandID).Return(false, nil)

	_, err := f.service.Submit(context.Background(), brandID, &SubmitRequest{
		StallInstanceID: instance.ID.String(),
	})

	assert.ErrorIs(t, err, ErrAlreadyPending)
	f.repo.AssertNotCalled(t, "SubmitTx", mock.Anything, mock.Anything)
}

func TestSubmit_ClaimStoreDownFallsThroughToDatabase(t *testing.T) {
	f := newFixture()
	instance := availableInstance()
	brandID := uuid.New().String()

	f.instances.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)
	f.claims.On("Acquire", mock.Anything, instance.ID.String(), brandID).
		Return(false, errors.New("redis: connection refused"))
	f.repo.On("SubmitTx", mock.Anything, mock.AnythingOfType("*applications.StallApplication")).Return(nil)
	f.repo.On("GetExhibitionOrganiser", mock.Anything, instance.ExhibitionID.String()).
		Return(&users.User{ID: uuid.New()}, nil)
	f.notifier.On("FanOut", mock.Anything, mock.Anything).Return(nil)
	f.feed.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := f.service.Submit(context.Background(), brandID, &SubmitRequest{
		StallInstanceID: instance.ID.String(),
	})

	assert.NoError(t, err)
	assert.Equal(t, string(StatusPending), resp.Status)
}

func TestSubmit_DatabaseGuardReleasesClaim(t *testing.T) {
	f := newFixture()
	instance := availableInstance()
	brandID := uuid.New().String()

	f.instances.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)
	f.claims.On("Acquire", mock.Anything, instance.ID.String(), brandID).Return(true, nil)
	f.repo.On("SubmitTx", mock.Anything, mock.Anything).Return(ErrAlreadyPending)
	f.claims.On("Release", mock.Anything, instance.ID.String(), brandID).Return(nil)

	_, err := f.service.Submit(context.Background(), brandID, &SubmitRequest{
		StallInstanceID: instance.ID.String(),
	})

	assert.ErrorIs(t, err, ErrAlreadyPending)
	f.claims.AssertCalled(t, "Release", mock.Anything, instance.ID.String(), brandID)
	f.notifier.AssertNotCalled(t, "FanOut", mock.Anything, mock.Anything)
}

func pendingApplication() *StallApplication {
	return &StallApplication{
		ID:              uuid.New(),
		StallInstanceID: uuid.New(),
		ExhibitionID:    uuid.New(),
		BrandID:         uuid.New(),
		Status:          StatusPending,
		Version:         1,
	}
}

func TestUpdateStatus_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		target string
	}{
		{"pending cannot jump to booking_confirmed", StatusPending, "booking_confirmed"},
		{"pending cannot jump to payment_pending", StatusPending, "payment_pending"},
		{"approved cannot be rejected", StatusApproved, "rejected"},
		{"rejected is terminal", StatusRejected, "approved"},
		{"booking_confirmed is terminal", StatusBookingConfirmed, "rejected"},
		{"unknown status", StatusPending, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			application := pendingApplication()
			application.Status = tt.from

			f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil).Maybe()

			_, err := f.service.UpdateStatus(context.Background(), application.ID.String(), &UpdateStatusRequest{
				Status: tt.target,
			})

			assert.ErrorIs(t, err, ErrIllegalTransition)
			f.repo.AssertNotCalled(t, "UpdateStatusTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_ApproveHasNoInstanceSideEffect(t *testing.T) {
	f := newFixture()
	application := pendingApplication()

	f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)
	f.repo.On("UpdateStatusTx", mock.Anything, application, stalls.InstanceStatus(""), stalls.InstanceStatus("")).Return(nil)
	f.repo.On("GetUser", mock.Anything, application.BrandID.String()).
		Return(&users.User{ID: application.BrandID, Email: "brand@example.com"}, nil)
	f.notifier.On("FanOut", mock.Anything, mock.Anything).Return(nil)
	f.feed.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := f.service.UpdateStatus(context.Background(), application.ID.String(), &UpdateStatusRequest{
		Status:   "approved",
		Comments: "Welcome aboard",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(StatusApproved), resp.Status)
	assert.Equal(t, "Welcome aboard", resp.Comments)
}

func TestUpdateStatus_ConfirmBooksInstance(t *testing.T) {
	f := newFixture()
	application := pendingApplication()
	application.Status = StatusPaymentPending

	f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)
	f.repo.On("UpdateStatusTx", mock.Anything, application, stalls.StatusPending, stalls.StatusBooked).Return(nil)
	f.repo.On("GetUser", mock.Anything, application.BrandID.String()).
		Return(&users.User{ID: application.BrandID, Email: "brand@example.com"}, nil)
	f.repo.On("GetExhibitionOrganiser", mock.Anything, application.ExhibitionID.String()).
		Return(&users.User{ID: uuid.New(), Email: "organiser@example.com"}, nil)
	f.notifier.On("FanOut", mock.Anything, mock.Anything).Return(nil)
	f.feed.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := f.service.UpdateStatus(context.Background(), application.ID.String(), &UpdateStatusRequest{
		Status: "booking_confirmed",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(StatusBookingConfirmed), resp.Status)
	f.repo.AssertCalled(t, "UpdateStatusTx", mock.Anything, application, stalls.StatusPending, stalls.StatusBooked)

	// brand and organiser both notified on confirmation
	call := f.notifier.Calls[0]
	req := call.Arguments.Get(1).(*notifications.FanOutRequest)
	assert.Equal(t, notifications.EventBookingConfirmed, req.EventType)
	assert.Len(t, req.Recipients, 2)
}

func TestUpdateStatus_RejectFreesInstanceAndClaim(t *testing.T) {
	f := newFixture()
	application := pendingApplication()

	f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)
	f.repo.On("UpdateStatusTx", mock.Anything, application, stalls.StatusPending, stalls.StatusAvailable).Return(nil)
	f.repo.On("GetUser", mock.Anything, application.BrandID.String()).
		Return(&users.User{ID: application.BrandID, Email: "brand@example.com"}, nil)
	f.notifier.On("FanOut", mock.Anything, mock.Anything).Return(nil)
	f.feed.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()
	f.claims.On("Release", mock.Anything, application.StallInstanceID.String(), application.BrandID.String()).Return(nil)

	resp, err := f.service.UpdateStatus(context.Background(), application.ID.String(), &UpdateStatusRequest{
		Status: "rejected",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(StatusRejected), resp.Status)
	f.claims.AssertCalled(t, "Release", mock.Anything, application.StallInstanceID.String(), application.BrandID.String())
}

func TestUpdateStatus_FullLifecycle(t *testing.T) {
	f := newFixture()
	application := pendingApplication()

	f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)
	f.repo.On("UpdateStatusTx", mock.Anything, application, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("GetUser", mock.Anything, application.BrandID.String()).
		Return(&users.User{ID: application.BrandID}, nil)
	f.repo.On("GetExhibitionOrganiser", mock.Anything, application.ExhibitionID.String()).
		Return(&users.User{ID: uuid.New()}, nil)
	f.notifier.On("FanOut", mock.Anything, mock.Anything).Return(nil)
	f.feed.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()

	for _, target := range []string{"approved", "payment_pending", "booking_confirmed"} {
		resp, err := f.service.UpdateStatus(context.Background(), application.ID.String(), &UpdateStatusRequest{
			Status: target,
		})
		assert.NoError(t, err, "transition to %s", target)
		assert.Equal(t, target, resp.Status)
	}

	// terminal: nothing further is allowed
	_, err := f.service.UpdateStatus(context.Background(), application.ID.String(), &UpdateStatusRequest{
		Status: "rejected",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDelete_OnlyOwnerAndOnlyPending(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		f := newFixture()
		application := pendingApplication()
		f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)

		err := f.service.Delete(context.Background(), application.ID.String(), uuid.New().String())
		assert.ErrorIs(t, err, ErrNotOwner)
		f.repo.AssertNotCalled(t, "DeleteTx", mock.Anything, mock.Anything)
	})

	t.Run("not pending", func(t *testing.T) {
		f := newFixture()
		application := pendingApplication()
		application.Status = StatusApproved
		f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)

		err := f.service.Delete(context.Background(), application.ID.String(), application.BrandID.String())
		assert.ErrorIs(t, err, ErrIllegalTransition)
		f.repo.AssertNotCalled(t, "DeleteTx", mock.Anything, mock.Anything)
	})

	t.Run("withdraw releases claim", func(t *testing.T) {
		f := newFixture()
		application := pendingApplication()
		f.repo.On("GetByID", mock.Anything, application.ID.String()).Return(application, nil)
		f.repo.On("DeleteTx", mock.Anything, application).Return(nil)
		f.claims.On("Release", mock.Anything, application.StallInstanceID.String(), application.BrandID.String()).Return(nil)

		err := f.service.Delete(context.Background(), application.ID.String(), application.BrandID.String())
		assert.NoError(t, err)
		f.claims.AssertCalled(t, "Release", mock.Anything, application.StallInstanceID.String(), application.BrandID.String())
	})
}

func TestInstanceSideEffect(t *testing.T) {
	from, to := instanceSideEffect(StatusBookingConfirmed)
	assert.Equal(t, stalls.StatusPending, from)
	assert.Equal(t, stalls.StatusBooked, to)

	from, to = instanceSideEffect(StatusRejected)
	assert.Equal(t, stalls.StatusPending, from)
	assert.Equal(t, stalls.StatusAvailable, to)

	from, to = instanceSideEffect(StatusApproved)
	assert.Empty(t, from)
	assert.Empty(t, to)
}
