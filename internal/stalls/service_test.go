package stalls

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateStall(ctx context.Context, stall *Stall) error {
	args := m.Called(ctx, stall)
	return args.Error(0)
}

func (m *mockRepository) GetStallByID(ctx context.Context, id string) (*Stall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stall), args.Error(1)
}

func (m *mockRepository) ListStallsByExhibition(ctx context.Context, exhibitionID string) ([]Stall, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Stall), args.Error(1)
}

func (m *mockRepository) UpdateStall(ctx context.Context, stall *Stall) error {
	args := m.Called(ctx, stall)
	return args.Error(0)
}

func (m *mockRepository) DeleteStall(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) CountInstancesForStall(ctx context.Context, stallID string) (int64, error) {
	args := m.Called(ctx, stallID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) CreateInstance(ctx context.Context, instance *StallInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *mockRepository) CreateInstances(ctx context.Context, instances []StallInstance) error {
	args := m.Called(ctx, instances)
	return args.Error(0)
}

func (m *mockRepository) GetInstanceByID(ctx context.Context, id string) (*StallInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StallInstance), args.Error(1)
}

func (m *mockRepository) ListInstancesByExhibition(ctx context.Context, exhibitionID string) ([]StallInstance, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StallInstance), args.Error(1)
}

func (m *mockRepository) UpdateInstanceStatus(ctx context.Context, id string, from, to InstanceStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *mockRepository) DeleteInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) PendingApplicationInstanceIDs(ctx context.Context, exhibitionID string) (map[string]bool, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *mockRepository) ConfirmedBookingInstanceIDs(ctx context.Context, exhibitionID string) (map[string]bool, error) {
	args := m.Called(ctx, exhibitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *mockRepository) CreateMaintenanceLog(ctx context.Context, log *MaintenanceLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockRepository) GetOpenMaintenanceLog(ctx context.Context, instanceID string) (*MaintenanceLog, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MaintenanceLog), args.Error(1)
}

func (m *mockRepository) CompleteMaintenanceLog(ctx context.Context, logID string, completedAt time.Time) error {
	args := m.Called(ctx, logID, completedAt)
	return args.Error(0)
}

func (m *mockRepository) ListMaintenanceLogs(ctx context.Context, instanceID string) ([]MaintenanceLog, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MaintenanceLog), args.Error(1)
}

func TestGenerateInstances_TopsUpToQuantity(t *testing.T) {
	repo := new(mockRepository)
	stall := &Stall{
		ID:           uuid.New(),
		ExhibitionID: uuid.New(),
		Name:         "Standard Booth",
		Price:        15000,
		Quantity:     10,
	}

	repo.On("GetStallByID", mock.Anything, stall.ID.String()).Return(stall, nil)
	repo.On("CountInstancesForStall", mock.Anything, stall.ID.String()).Return(int64(4), nil)
	repo.On("CreateInstances", mock.Anything, mock.AnythingOfType("[]stalls.StallInstance")).Return(nil)

	svc := NewService(repo)
	instances, err := svc.GenerateInstances(context.Background(), stall.ExhibitionID.String(), &GenerateInstancesRequest{
		StallID: stall.ID.String(),
	})

	assert.NoError(t, err)
	assert.Len(t, instances, 6)
	assert.Equal(t, "Standard Booth #5", instances[0].InstanceName)
	assert.Equal(t, "Standard Booth #10", instances[5].InstanceName)
	for _, instance := range instances {
		assert.Equal(t, StatusAvailable, instance.Status)
		assert.Equal(t, stall.Price, instance.Price)
	}
}

func TestGenerateInstances_AlreadyFull(t *testing.T) {
	repo := new(mockRepository)
	stall := &Stall{ID: uuid.New(), ExhibitionID: uuid.New(), Quantity: 5}

	repo.On("GetStallByID", mock.Anything, stall.ID.String()).Return(stall, nil)
	repo.On("CountInstancesForStall", mock.Anything, stall.ID.String()).Return(int64(5), nil)

	svc := NewService(repo)
	instances, err := svc.GenerateInstances(context.Background(), stall.ExhibitionID.String(), &GenerateInstancesRequest{
		StallID: stall.ID.String(),
	})

	assert.NoError(t, err)
	assert.Empty(t, instances)
	repo.AssertNotCalled(t, "CreateInstances", mock.Anything, mock.Anything)
}

func TestGenerateInstances_WrongExhibition(t *testing.T) {
	repo := new(mockRepository)
	stall := &Stall{ID: uuid.New(), ExhibitionID: uuid.New(), Quantity: 5}
	repo.On("GetStallByID", mock.Anything, stall.ID.String()).Return(stall, nil)

	svc := NewService(repo)
	_, err := svc.GenerateInstances(context.Background(), uuid.New().String(), &GenerateInstancesRequest{
		StallID: stall.ID.String(),
	})

	assert.ErrorIs(t, err, ErrStallNotFound)
}

func TestDeleteStall_BlockedByInstances(t *testing.T) {
	repo := new(mockRepository)
	stallID := uuid.New().String()
	repo.On("CountInstancesForStall", mock.Anything, stallID).Return(int64(3), nil)

	svc := NewService(repo)
	err := svc.DeleteStall(context.Background(), stallID)

	assert.ErrorIs(t, err, ErrStallHasInstances)
	repo.AssertNotCalled(t, "DeleteStall", mock.Anything, mock.Anything)
}

func TestStartMaintenance_OnlyFromAvailable(t *testing.T) {
	repo := new(mockRepository)
	instance := &StallInstance{ID: uuid.New(), ExhibitionID: uuid.New(), Status: StatusPending}

	repo.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)
	repo.On("UpdateInstanceStatus", mock.Anything, instance.ID.String(), StatusAvailable, StatusUnderMaintenance).
		Return(ErrInstanceStatusConflict)

	svc := NewService(repo)
	_, err := svc.StartMaintenance(context.Background(), instance.ID.String(), uuid.New().String(), &MaintenanceRequest{
		Reason: "broken power socket",
	})

	assert.ErrorIs(t, err, ErrInstanceStatusConflict)
	repo.AssertNotCalled(t, "CreateMaintenanceLog", mock.Anything, mock.Anything)
}

func TestMaintenanceRoundTrip(t *testing.T) {
	repo := new(mockRepository)
	instance := &StallInstance{ID: uuid.New(), ExhibitionID: uuid.New(), Status: StatusAvailable}
	userID := uuid.New()

	repo.On("GetInstanceByID", mock.Anything, instance.ID.String()).Return(instance, nil)
	repo.On("UpdateInstanceStatus", mock.Anything, instance.ID.String(), StatusAvailable, StatusUnderMaintenance).Return(nil)
	repo.On("CreateMaintenanceLog", mock.Anything, mock.AnythingOfType("*stalls.MaintenanceLog")).Return(nil)

	svc := NewService(repo)
	log, err := svc.StartMaintenance(context.Background(), instance.ID.String(), userID.String(), &MaintenanceRequest{
		Reason: "repaint",
	})
	assert.NoError(t, err)
	assert.Equal(t, userID, log.StartedBy)
	assert.Nil(t, log.CompletedAt)

	repo.On("GetOpenMaintenanceLog", mock.Anything, instance.ID.String()).Return(log, nil)
	repo.On("CompleteMaintenanceLog", mock.Anything, log.ID.String(), mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("UpdateInstanceStatus", mock.Anything, instance.ID.String(), StatusUnderMaintenance, StatusAvailable).Return(nil)

	err = svc.CompleteMaintenance(context.Background(), instance.ID.String())
	assert.NoError(t, err)
}

func TestGetInstance_DisplayStatusFollowsApplications(t *testing.T) {
	repo := new(mockRepository)
	instance := &StallInstance{
		ID:           uuid.New(),
		StallID:      uuid.New(),
		ExhibitionID: uuid.New(),
		Status:       StatusAvailable,
		Version:      3,
	}
	id := instance.ID.String()

	repo.On("GetInstanceByID", mock.Anything, id).Return(instance, nil)
	repo.On("PendingApplicationInstanceIDs", mock.Anything, instance.ExhibitionID.String()).
		Return(map[string]bool{id: true}, nil)
	repo.On("ConfirmedBookingInstanceIDs", mock.Anything, instance.ExhibitionID.String()).
		Return(map[string]bool{}, nil)

	svc := NewService(repo)
	resp, err := svc.GetInstance(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusAvailable), resp.Status)
	assert.Equal(t, string(StatusPending), resp.DisplayStatus)
	assert.Equal(t, int64(3), resp.Version)
}
