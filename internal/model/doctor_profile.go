package model

import (
	"github.com/google/uuid"
)

// DoctorProfile is the professional record extending a DOCTOR-role user.
// Exactly one profile per user; license numbers are globally unique.
type DoctorProfile struct {
	Base
	UserID          uuid.UUID `json:"userId" db:"user_id"`
	Specialization  string    `json:"specialization" db:"specialization"`
	Qualifications  string    `json:"qualifications" db:"qualifications"`
	Experience      int       `json:"experience" db:"experience"`
	ConsultationFee float64   `json:"consultationFee" db:"consultation_fee"`
	Bio             *string   `json:"bio,omitempty" db:"bio"`
	LicenseNumber   string    `json:"licenseNumber" db:"license_number"`

	User         *User          `json:"user,omitempty" db:"-"`
	TimeSlots    []*TimeSlot    `json:"timeSlots,omitempty" db:"-"`
	Appointments []*Appointment `json:"appointments,omitempty" db:"-"`
}

type CreateDoctorProfileRequest struct {
	UserID          uuid.UUID `json:"userId" binding:"required"`
	Specialization  string    `json:"specialization" binding:"required"`
	Qualifications  string    `json:"qualifications" binding:"required"`
	Experience      int       `json:"experience" binding:"min=0"`
	ConsultationFee float64   `json:"consultationFee" binding:"min=0"`
	Bio             *string   `json:"bio"`
	LicenseNumber   string    `json:"licenseNumber" binding:"required"`
}

type UpdateDoctorProfileRequest struct {
	Specialization  *string  `json:"specialization"`
	Qualifications  *string  `json:"qualifications"`
	Experience      *int     `json:"experience" binding:"omitempty,min=0"`
	ConsultationFee *float64 `json:"consultationFee" binding:"omitempty,min=0"`
	Bio             *string  `json:"bio"`
	LicenseNumber   *string  `json:"licenseNumber"`
}
