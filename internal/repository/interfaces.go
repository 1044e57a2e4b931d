package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
)

// ErrNoRows is returned by repositories when a lookup matches nothing.
// Services translate it into the API-level not-found error.
var ErrNoRows = errors.New("no rows in result set")

// TxManager runs fn inside a single database transaction. Repository calls
// made with the ctx passed to fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorProfileRepository interface {
	Create(ctx context.Context, profile *model.DoctorProfile) error
	Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	GetByLicense(ctx context.Context, licenseNumber string) (*model.DoctorProfile, error)
	List(ctx context.Context) ([]*model.DoctorProfile, error)
	Update(ctx context.Context, profile *model.DoctorProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TimeSlotRepository interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
	List(ctx context.Context) ([]*model.TimeSlot, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error)
	Update(ctx context.Context, slot *model.TimeSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// HasOverlap reports whether a CONFIRMED appointment for the same doctor
	// and date overlaps the [start, end) time range, excluding the given
	// appointment id. Pending appointments never block; the overlap rule is
	// enforced only when a slot is actually claimed at confirmation.
	HasOverlap(ctx context.Context, doctorID uuid.UUID, date string, start, end string, excludeID uuid.UUID) (bool, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	DeleteProcessedBefore(ctx context.Context, retention int) (int64, error)
}
