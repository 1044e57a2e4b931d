package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository"
)

const appointmentColumns = `
	id, patient_id, doctor_id, appointment_date, start_time, end_time,
	status, symptoms, notes, cancellation_reason, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, start_time, end_time,
			status, symptoms, notes, cancellation_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.q(ctx).ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.AppointmentDate,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.Symptoms,
		apt.Notes,
		apt.CancellationReason,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var apt model.Appointment
	err := r.q(ctx).GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY appointment_date ASC`

	var appointments []*model.Appointment
	if err := r.q(ctx).SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date ASC
	`
	var appointments []*model.Appointment
	if err := r.q(ctx).SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointments by patient: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY appointment_date ASC
	`
	var appointments []*model.Appointment
	if err := r.q(ctx).SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list appointments by doctor: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, start_time = $2, end_time = $3, status = $4,
			symptoms = $5, notes = $6, cancellation_reason = $7, updated_at = $8
		WHERE id = $9
	`
	apt.UpdatedAt = time.Now()

	result, err := r.q(ctx).ExecContext(ctx, query,
		apt.AppointmentDate,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.Symptoms,
		apt.Notes,
		apt.CancellationReason,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q(ctx).ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) HasOverlap(ctx context.Context, doctorID uuid.UUID, date string, start, end string, excludeID uuid.UUID) (bool, error) {
	// HH:MM strings compare correctly as text.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND appointment_date = $2::date
			AND status = 'CONFIRMED'
			AND id != $3
			AND start_time < $5
			AND end_time > $4
		)
	`
	var hasOverlap bool
	err := r.q(ctx).GetContext(ctx, &hasOverlap, query, doctorID, date, excludeID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment overlap: %w", err)
	}
	return hasOverlap, nil
}
