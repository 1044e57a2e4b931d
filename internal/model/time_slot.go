package model

import (
	"github.com/google/uuid"
)

// DayOfWeek is a recurring weekday tag on a time slot.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// TimeSlot is a recurring weekly availability window for one doctor.
// Start and end are opaque HH:MM strings; the system does not validate
// ordering or overlap between slots.
type TimeSlot struct {
	Base
	DoctorID    uuid.UUID `json:"doctorId" db:"doctor_id"`
	DayOfWeek   DayOfWeek `json:"dayOfWeek" db:"day_of_week"`
	StartTime   string    `json:"startTime" db:"start_time"`
	EndTime     string    `json:"endTime" db:"end_time"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`

	Doctor *DoctorProfile `json:"doctor,omitempty" db:"-"`
}

type CreateTimeSlotRequest struct {
	DoctorID    uuid.UUID `json:"doctorId" binding:"required"`
	DayOfWeek   DayOfWeek `json:"dayOfWeek" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime   string    `json:"startTime" binding:"required"`
	EndTime     string    `json:"endTime" binding:"required"`
	IsAvailable *bool     `json:"isAvailable"`
}

type UpdateTimeSlotRequest struct {
	DayOfWeek   *DayOfWeek `json:"dayOfWeek" binding:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime   *string    `json:"startTime"`
	EndTime     *string    `json:"endTime"`
	IsAvailable *bool      `json:"isAvailable"`
}
