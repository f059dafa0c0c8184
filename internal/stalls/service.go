package stalls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"exhibae/pkg/logger"
)

var (
	ErrStallNotFound          = errors.New("stall not found")
	ErrInstanceNotFound       = errors.New("stall instance not found")
	ErrStallHasInstances      = errors.New("stall has existing instances")
	ErrInstanceStatusConflict = errors.New("stall instance is not in the required status")
	ErrNoOpenMaintenance      = errors.New("no open maintenance log for instance")
)

type Service interface {
	// Stall templates
	CreateStall(ctx context.Context, exhibitionID string, req *CreateStallRequest) (*Stall, error)
	GetStall(ctx context.Context, id string) (*Stall, error)
	ListStalls(ctx context.Context, exhibitionID string) ([]Stall, error)
	UpdateStall(ctx context.Context, id string, req *UpdateStallRequest) (*Stall, error)
	DeleteStall(ctx context.Context, id string) error

	// Instances
	CreateInstance(ctx context.Context, exhibitionID string, req *CreateInstanceRequest) (*StallInstance, error)
	GenerateInstances(ctx context.Context, exhibitionID string, req *GenerateInstancesRequest) ([]StallInstance, error)
	GetInstance(ctx context.Context, id string) (*InstanceResponse, error)
	ListInstances(ctx context.Context, exhibitionID string) ([]InstanceResponse, error)
	DeleteInstance(ctx context.Context, id string) error

	// Maintenance
	StartMaintenance(ctx context.Context, instanceID, userID string, req *MaintenanceRequest) (*MaintenanceLog, error)
	CompleteMaintenance(ctx context.Context, instanceID string) error
	ListMaintenanceLogs(ctx context.Context, instanceID string) ([]MaintenanceLog, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) CreateStall(ctx context.Context, exhibitionID string, req *CreateStallRequest) (*Stall, error) {
	exhID, err := uuid.Parse(exhibitionID)
	if err != nil {
		return nil, fmt.Errorf("invalid exhibition id: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "m"
	}

	stall := &Stall{
		ExhibitionID: exhID,
		Name:         req.Name,
		Description:  req.Description,
		Width:        req.Width,
		Length:       req.Length,
		Unit:         unit,
		Price:        req.Price,
		Quantity:     req.Quantity,
	}

	if err := s.repo.CreateStall(ctx, stall); err != nil {
		return nil, fmt.Errorf("failed to create stall: %w", err)
	}
	return stall, nil
}

func (s *service) GetStall(ctx context.Context, id string) (*Stall, error) {
	return s.repo.GetStallByID(ctx, id)
}

func (s *service) ListStalls(ctx context.Context, exhibitionID string) ([]Stall, error) {
	return s.repo.ListStallsByExhibition(ctx, exhibitionID)
}

func (s *service) UpdateStall(ctx context.Context, id string, req *UpdateStallRequest) (*Stall, error) {
	stall, err := s.repo.GetStallByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		stall.Name = *req.Name
	}
	if req.Description != nil {
		stall.Description = *req.Description
	}
	if req.Width != nil {
		stall.Width = *req.Width
	}
	if req.Length != nil {
		stall.Length = *req.Length
	}
	if req.Price != nil {
		stall.Price = *req.Price
	}
	if req.Quantity != nil {
		stall.Quantity = *req.Quantity
	}

	if err := s.repo.UpdateStall(ctx, stall); err != nil {
		return nil, fmt.Errorf("failed to update stall: %w", err)
	}
	return stall, nil
}

func (s *service) DeleteStall(ctx context.Context, id string) error {
	count, err := s.repo.CountInstancesForStall(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStallHasInstances
	}
	return s.repo.DeleteStall(ctx, id)
}

func (s *service) CreateInstance(ctx context.Context, exhibitionID string, req *CreateInstanceRequest) (*StallInstance, error) {
	stall, err := s.repo.GetStallByID(ctx, req.StallID)
	if err != nil {
		return nil, err
	}
	if stall.ExhibitionID.String() != exhibitionID {
		return nil, ErrStallNotFound
	}

	price := req.Price
	if price == 0 {
		price = stall.Price
	}

	instance := &StallInstance{
		StallID:      stall.ID,
		ExhibitionID: stall.ExhibitionID,
		InstanceName: req.InstanceName,
		PositionX:    req.PositionX,
		PositionY:    req.PositionY,
		Rotation:     req.Rotation,
		Price:        price,
		Status:       StatusAvailable,
		Version:      1,
	}

	if err := s.repo.CreateInstance(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to create stall instance: %w", err)
	}
	return instance, nil
}

// GenerateInstances creates one available instance per unit of the
// stall's quantity, on top of whatever is already placed.
func (s *service) GenerateInstances(ctx context.Context, exhibitionID string, req *GenerateInstancesRequest) ([]StallInstance, error) {
	stall, err := s.repo.GetStallByID(ctx, req.StallID)
	if err != nil {
		return nil, err
	}
	if stall.ExhibitionID.String() != exhibitionID {
		return nil, ErrStallNotFound
	}

	existing, err := s.repo.CountInstancesForStall(ctx, req.StallID)
	if err != nil {
		return nil, err
	}

	toCreate := stall.Quantity - int(existing)
	if toCreate <= 0 {
		return []StallInstance{}, nil
	}

	instances := make([]StallInstance, 0, toCreate)
	for i := 0; i < toCreate; i++ {
		instances = append(instances, StallInstance{
			ID:           uuid.New(),
			StallID:      stall.ID,
			ExhibitionID: stall.ExhibitionID,
			InstanceName: fmt.Sprintf("%s #%d", stall.Name, int(existing)+i+1),
			Price:        stall.Price,
			Status:       StatusAvailable,
			Version:      1,
		})
	}

	if err := s.repo.CreateInstances(ctx, instances); err != nil {
		return nil, fmt.Errorf("failed to generate stall instances: %w", err)
	}

	s.log.Info("generated stall instances",
		"stall_id", req.StallID,
		"exhibition_id", exhibitionID,
		"count", toCreate,
	)
	return instances, nil
}

func (s *service) GetInstance(ctx context.Context, id string) (*InstanceResponse, error) {
	instance, err := s.repo.GetInstanceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.PendingApplicationInstanceIDs(ctx, instance.ExhibitionID.String())
	if err != nil {
		return nil, err
	}
	confirmed, err := s.repo.ConfirmedBookingInstanceIDs(ctx, instance.ExhibitionID.String())
	if err != nil {
		return nil, err
	}

	resp := toInstanceResponse(instance, pending[id], confirmed[id])
	return &resp, nil
}

func (s *service) ListInstances(ctx context.Context, exhibitionID string) ([]InstanceResponse, error) {
	instances, err := s.repo.ListInstancesByExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.PendingApplicationInstanceIDs(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.repo.ConfirmedBookingInstanceIDs(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}

	responses := make([]InstanceResponse, 0, len(instances))
	for i := range instances {
		id := instances[i].ID.String()
		responses = append(responses, toInstanceResponse(&instances[i], pending[id], confirmed[id]))
	}
	return responses, nil
}

func (s *service) DeleteInstance(ctx context.Context, id string) error {
	return s.repo.DeleteInstance(ctx, id)
}

func (s *service) StartMaintenance(ctx context.Context, instanceID, userID string, req *MaintenanceRequest) (*MaintenanceLog, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	instance, err := s.repo.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	// Maintenance is only legal from available; the conditional update
	// rejects races with a concurrent application submission.
	if err := s.repo.UpdateInstanceStatus(ctx, instanceID, StatusAvailable, StatusUnderMaintenance); err != nil {
		return nil, err
	}

	log := &MaintenanceLog{
		StallInstanceID: instance.ID,
		Reason:          req.Reason,
		StartedBy:       uid,
		StartedAt:       time.Now(),
	}
	if err := s.repo.CreateMaintenanceLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create maintenance log: %w", err)
	}

	return log, nil
}

func (s *service) CompleteMaintenance(ctx context.Context, instanceID string) error {
	open, err := s.repo.GetOpenMaintenanceLog(ctx, instanceID)
	if err != nil {
		return err
	}

	if err := s.repo.CompleteMaintenanceLog(ctx, open.ID.String(), time.Now()); err != nil {
		return err
	}

	return s.repo.UpdateInstanceStatus(ctx, instanceID, StatusUnderMaintenance, StatusAvailable)
}

func (s *service) ListMaintenanceLogs(ctx context.Context, instanceID string) ([]MaintenanceLog, error) {
	return s.repo.ListMaintenanceLogs(ctx, instanceID)
}

func toInstanceResponse(instance *StallInstance, hasPending, hasConfirmed bool) InstanceResponse {
	return InstanceResponse{
		ID:            instance.ID.String(),
		StallID:       instance.StallID.String(),
		ExhibitionID:  instance.ExhibitionID.String(),
		InstanceName:  instance.InstanceName,
		PositionX:     instance.PositionX,
		PositionY:     instance.PositionY,
		Rotation:      instance.Rotation,
		Price:         instance.Price,
		Status:        string(instance.Status),
		DisplayStatus: string(DeriveDisplayStatus(instance.Status, hasPending, hasConfirmed)),
		Version:       instance.Version,
		CreatedAt:     instance.CreatedAt,
		UpdatedAt:     instance.UpdatedAt,
	}
}
