package timeslot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository"
	apperrors "github.com/medbook/booking-api/pkg/errors"
)

// Servicer is the time slot service surface the handler depends on.
type Servicer interface {
	CreateSlot(ctx context.Context, req *model.CreateTimeSlotRequest) (*model.TimeSlot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
	ListSlots(ctx context.Context) ([]*model.TimeSlot, error)
	ListSlotsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, req *model.UpdateTimeSlotRequest) (*model.TimeSlot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo       repository.TimeSlotRepository
	doctorRepo repository.DoctorProfileRepository
}

func NewService(repo repository.TimeSlotRepository, doctorRepo repository.DoctorProfileRepository) *Service {
	return &Service{repo: repo, doctorRepo: doctorRepo}
}

// CreateSlot only checks the doctor exists. Duplicate or conflicting slots
// for the same doctor and day are allowed.
func (s *Service) CreateSlot(ctx context.Context, req *model.CreateTimeSlotRequest) (*model.TimeSlot, error) {
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("doctor profile with ID %s not found", req.DoctorID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	slot := &model.TimeSlot{
		Base:        model.Base{ID: uuid.New()},
		DoctorID:    req.DoctorID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: available,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create time slot: %w", err)
	}
	return slot, nil
}

func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	slot, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("time slot with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}
	return slot, nil
}

func (s *Service) ListSlots(ctx context.Context) ([]*model.TimeSlot, error) {
	slots, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, nil
}

func (s *Service) ListSlotsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("doctor profile with ID %s not found", doctorID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}

	slots, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots by doctor: %w", err)
	}
	return slots, nil
}

func (s *Service) UpdateSlot(ctx context.Context, id uuid.UUID, req *model.UpdateTimeSlotRequest) (*model.TimeSlot, error) {
	slot, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("time slot with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}

	if req.DayOfWeek != nil {
		slot.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to update time slot: %w", err)
	}
	return slot, nil
}

func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); errors.Is(err, repository.ErrNoRows) {
		return apperrors.NotFoundf("time slot with ID %s not found", id)
	} else if err != nil {
		return fmt.Errorf("failed to get time slot: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete time slot: %w", err)
	}
	return nil
}
