package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition is defined.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// Appointment links one patient (User) and one doctor (DoctorProfile) at a
// specific date and time range. Times are opaque HH:MM strings.
type Appointment struct {
	Base
	PatientID          uuid.UUID         `json:"patientId" db:"patient_id"`
	DoctorID           uuid.UUID         `json:"doctorId" db:"doctor_id"`
	AppointmentDate    time.Time         `json:"appointmentDate" db:"appointment_date"`
	StartTime          string            `json:"startTime" db:"start_time"`
	EndTime            string            `json:"endTime" db:"end_time"`
	Status             AppointmentStatus `json:"status" db:"status"`
	Symptoms           *string           `json:"symptoms,omitempty" db:"symptoms"`
	Notes              *string           `json:"notes,omitempty" db:"notes"`
	CancellationReason *string           `json:"cancellationReason,omitempty" db:"cancellation_reason"`

	Patient *User          `json:"patient,omitempty" db:"-"`
	Doctor  *DoctorProfile `json:"doctor,omitempty" db:"-"`
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID         `json:"patientId" binding:"required"`
	DoctorID        uuid.UUID         `json:"doctorId" binding:"required"`
	AppointmentDate string            `json:"appointmentDate" binding:"required,datetime=2006-01-02"`
	StartTime       string            `json:"startTime" binding:"required"`
	EndTime         string            `json:"endTime" binding:"required"`
	Status          AppointmentStatus `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Symptoms        *string           `json:"symptoms"`
	Notes           *string           `json:"notes"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate    *string            `json:"appointmentDate" binding:"omitempty,datetime=2006-01-02"`
	StartTime          *string            `json:"startTime"`
	EndTime            *string            `json:"endTime"`
	Status             *AppointmentStatus `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Symptoms           *string            `json:"symptoms"`
	Notes              *string            `json:"notes"`
	CancellationReason *string            `json:"cancellationReason"`
}

type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason"`
}
