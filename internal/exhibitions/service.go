package exhibitions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"exhibae/pkg/cache"
	"exhibae/pkg/logger"
)

var (
	ErrExhibitionNotFound = errors.New("exhibition not found")
	ErrNotOwner           = errors.New("user is not the organiser of this exhibition")
	ErrInvalidStatus      = errors.New("invalid exhibition status")
	ErrInvalidTransition  = errors.New("invalid exhibition status transition")
	ErrInvalidDateRange   = errors.New("end date must be after start date")
)

type Service interface {
	Create(ctx context.Context, organiserID string, req *CreateExhibitionRequest) (*ExhibitionResponse, error)
	GetByID(ctx context.Context, id string) (*ExhibitionResponse, error)
	List(ctx context.Context, filters ListFilters) (*ListResponse, error)
	Update(ctx context.Context, id, organiserID string, req *UpdateExhibitionRequest) (*ExhibitionResponse, error)
	Delete(ctx context.Context, id, organiserID string) error
	GetByOrganiser(ctx context.Context, organiserID string) ([]ExhibitionResponse, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

func (s *service) Create(ctx context.Context, organiserID string, req *CreateExhibitionRequest) (*ExhibitionResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	orgID, err := uuid.Parse(organiserID)
	if err != nil {
		return nil, fmt.Errorf("invalid organiser id: %w", err)
	}

	exhibition := &Exhibition{
		Title:               req.Title,
		Description:         req.Description,
		OrganiserID:         orgID,
		Address:             req.Address,
		City:                req.City,
		State:               req.State,
		Country:             req.Country,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              StatusDraft,
	}

	if err := s.repo.Create(ctx, exhibition); err != nil {
		return nil, fmt.Errorf("failed to create exhibition: %w", err)
	}

	s.invalidateListCache(ctx)

	resp := ToResponse(exhibition)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*ExhibitionResponse, error) {
	cacheKey := fmt.Sprintf("exhibitions:%s", id)

	var cached ExhibitionResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	exhibition, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(exhibition)
	if err := s.cache.Set(ctx, cacheKey, resp, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache exhibition", "exhibition_id", id, "error", err)
	}

	return &resp, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	exhibitions, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exhibitions: %w", err)
	}

	responses := make([]ExhibitionResponse, 0, len(exhibitions))
	for i := range exhibitions {
		responses = append(responses, ToResponse(&exhibitions[i]))
	}

	return &ListResponse{
		Exhibitions: responses,
		Total:       total,
		Page:        filters.Page,
		Limit:       filters.Limit,
	}, nil
}

func (s *service) Update(ctx context.Context, id, organiserID string, req *UpdateExhibitionRequest) (*ExhibitionResponse, error) {
	exhibition, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if exhibition.OrganiserID.String() != organiserID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		exhibition.Title = *req.Title
	}
	if req.Description != nil {
		exhibition.Description = *req.Description
	}
	if req.Address != nil {
		exhibition.Address = *req.Address
	}
	if req.City != nil {
		exhibition.City = *req.City
	}
	if req.State != nil {
		exhibition.State = *req.State
	}
	if req.Country != nil {
		exhibition.Country = *req.Country
	}
	if req.StartDate != nil {
		exhibition.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		exhibition.EndDate = *req.EndDate
	}
	if req.ApplicationDeadline != nil {
		exhibition.ApplicationDeadline = req.ApplicationDeadline
	}

	if !exhibition.EndDate.After(exhibition.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if req.Status != nil {
		target := Status(*req.Status)
		if !target.IsValid() {
			return nil, ErrInvalidStatus
		}
		if target != exhibition.Status {
			if !exhibition.Status.CanTransitionTo(target) {
				return nil, ErrInvalidTransition
			}
			exhibition.Status = target
		}
	}

	if err := s.repo.Update(ctx, exhibition); err != nil {
		return nil, fmt.Errorf("failed to update exhibition: %w", err)
	}

	s.invalidateCache(ctx, id)

	resp := ToResponse(exhibition)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id, organiserID string) error {
	exhibition, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if exhibition.OrganiserID.String() != organiserID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exhibition: %w", err)
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *service) GetByOrganiser(ctx context.Context, organiserID string) ([]ExhibitionResponse, error) {
	exhibitions, err := s.repo.GetByOrganiser(ctx, organiserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organiser exhibitions: %w", err)
	}

	responses := make([]ExhibitionResponse, 0, len(exhibitions))
	for i := range exhibitions {
		responses = append(responses, ToResponse(&exhibitions[i]))
	}
	return responses, nil
}

func (s *service) invalidateCache(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, fmt.Sprintf("exhibitions:%s", id)); err != nil {
		s.log.Warn("failed to invalidate exhibition cache", "exhibition_id", id, "error", err)
	}
	s.invalidateListCache(ctx)
}

func (s *service) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "exhibitions:list:*"); err != nil {
		s.log.Warn("failed to invalidate exhibition list cache", "error", err)
	}
}
