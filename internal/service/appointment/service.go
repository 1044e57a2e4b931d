package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository"
	"github.com/medbook/booking-api/internal/service/event"
	apperrors "github.com/medbook/booking-api/pkg/errors"
)

// Servicer is the appointment service surface the handler depends on.
type Servicer interface {
	CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, reason *string) (*model.Appointment, error)
	ConfirmAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo        repository.AppointmentRepository
	userRepo    repository.UserRepository
	profileRepo repository.DoctorProfileRepository
	txm         repository.TxManager
	events      event.Emitter
}

func NewService(
	repo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	profileRepo repository.DoctorProfileRepository,
	txm repository.TxManager,
	events event.Emitter,
) *Service {
	return &Service{
		repo:        repo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		txm:         txm,
		events:      events,
	}
}

// CreateAppointment validates patient and doctor existence only. Overlap
// with other appointments is not checked here; that invariant applies at
// confirmation time.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse(model.DateOnly, req.AppointmentDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointmentDate", err)
	}

	status := req.Status
	if status == "" {
		status = model.AppointmentStatusPending
	}

	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          status,
		Symptoms:        req.Symptoms,
		Notes:           req.Notes,
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.Get(ctx, req.PatientID); errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("patient with ID %s not found", req.PatientID)
		} else if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}

		if _, err := s.profileRepo.Get(ctx, req.DoctorID); errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("doctor with ID %s not found", req.DoctorID)
		} else if err != nil {
			return fmt.Errorf("failed to get doctor profile: %w", err)
		}

		if err := s.repo.Create(ctx, apt); err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		return s.events.Emit(ctx, model.EventAppointmentCreated, s.eventPayload(apt))
	})
	if err != nil {
		return nil, err
	}

	return s.withRelations(ctx, apt)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("appointment with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return s.withRelations(ctx, apt)
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return s.withRelationsAll(ctx, appointments)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	if _, err := s.userRepo.Get(ctx, patientID); errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("patient with ID %s not found", patientID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	appointments, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by patient: %w", err)
	}
	return s.withRelationsAll(ctx, appointments)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	if _, err := s.profileRepo.Get(ctx, doctorID); errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("doctor with ID %s not found", doctorID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}

	appointments, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by doctor: %w", err)
	}
	return s.withRelationsAll(ctx, appointments)
}

// UpdateAppointment is a generic field patch. Status may be overwritten with
// any value here; only cancel and confirm enforce lifecycle rules.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	var apt *model.Appointment

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		apt, err = s.repo.Get(ctx, id)
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("appointment with ID %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if req.AppointmentDate != nil {
			date, err := time.Parse(model.DateOnly, *req.AppointmentDate)
			if err != nil {
				return apperrors.BadRequest("invalid appointmentDate", err)
			}
			apt.AppointmentDate = date
		}
		if req.StartTime != nil {
			apt.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			apt.EndTime = *req.EndTime
		}
		if req.Status != nil {
			apt.Status = *req.Status
		}
		if req.Symptoms != nil {
			apt.Symptoms = req.Symptoms
		}
		if req.Notes != nil {
			apt.Notes = req.Notes
		}
		if req.CancellationReason != nil {
			apt.CancellationReason = req.CancellationReason
		}

		return s.repo.Update(ctx, apt)
	})
	if err != nil {
		return nil, err
	}

	return s.withRelations(ctx, apt)
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason *string) (*model.Appointment, error) {
	var apt *model.Appointment

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		apt, err = s.repo.Get(ctx, id)
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("appointment with ID %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if apt.Status == model.AppointmentStatusCancelled {
			return apperrors.BadRequest("appointment is already cancelled", nil)
		}
		if apt.Status == model.AppointmentStatusCompleted {
			return apperrors.BadRequest("cannot cancel a completed appointment", nil)
		}

		apt.Status = model.AppointmentStatusCancelled
		apt.CancellationReason = reason

		if err := s.repo.Update(ctx, apt); err != nil {
			return fmt.Errorf("failed to cancel appointment: %w", err)
		}

		return s.events.Emit(ctx, model.EventAppointmentCancelled, s.eventPayload(apt))
	})
	if err != nil {
		return nil, err
	}

	return s.withRelations(ctx, apt)
}

// ConfirmAppointment moves PENDING to CONFIRMED after checking the doctor
// has no already-confirmed appointment overlapping the same date and time
// range. Other pending requests for the slot stay confirmable until one of
// them wins.
func (s *Service) ConfirmAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var apt *model.Appointment

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		apt, err = s.repo.Get(ctx, id)
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("appointment with ID %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if apt.Status.Terminal() {
			return apperrors.BadRequest(fmt.Sprintf("cannot confirm a %s appointment", apt.Status), nil)
		}

		overlap, err := s.repo.HasOverlap(ctx,
			apt.DoctorID,
			apt.AppointmentDate.Format(model.DateOnly),
			apt.StartTime,
			apt.EndTime,
			apt.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if overlap {
			return apperrors.Conflict("doctor has an overlapping appointment", nil)
		}

		apt.Status = model.AppointmentStatusConfirmed
		if err := s.repo.Update(ctx, apt); err != nil {
			return fmt.Errorf("failed to confirm appointment: %w", err)
		}

		return s.events.Emit(ctx, model.EventAppointmentConfirmed, s.eventPayload(apt))
	})
	if err != nil {
		return nil, err
	}

	return s.withRelations(ctx, apt)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, id); errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("appointment with ID %s not found", id)
		} else if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}

		return s.events.Emit(ctx, model.EventAppointmentDeleted, map[string]interface{}{
			"appointment_id": id,
		})
	})
}

func (s *Service) eventPayload(apt *model.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"appointment_id": apt.ID,
		"patient_id":     apt.PatientID,
		"doctor_id":      apt.DoctorID,
		"date":           apt.AppointmentDate.Format(model.DateOnly),
		"status":         apt.Status,
	}
}

func (s *Service) withRelations(ctx context.Context, apt *model.Appointment) (*model.Appointment, error) {
	patient, err := s.userRepo.Get(ctx, apt.PatientID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	if patient != nil {
		apt.Patient = patient.Sanitize()
	}

	doctor, err := s.profileRepo.Get(ctx, apt.DoctorID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	if doctor != nil {
		if doctorUser, err := s.userRepo.Get(ctx, doctor.UserID); err == nil {
			doctor.User = doctorUser.Sanitize()
		} else if !errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("failed to load doctor user: %w", err)
		}
		apt.Doctor = doctor
	}
	return apt, nil
}

func (s *Service) withRelationsAll(ctx context.Context, appointments []*model.Appointment) ([]*model.Appointment, error) {
	for _, apt := range appointments {
		if _, err := s.withRelations(ctx, apt); err != nil {
			return nil, err
		}
	}
	return appointments, nil
}
