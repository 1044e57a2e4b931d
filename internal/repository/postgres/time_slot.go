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

const timeSlotColumns = `
	id, doctor_id, day_of_week, start_time, end_time,
	is_available, created_at, updated_at
`

func (r *timeSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		INSERT INTO time_slots (
			id, doctor_id, day_of_week, start_time, end_time,
			is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = time.Now()

	_, err := r.q(ctx).ExecContext(ctx, query,
		slot.ID,
		slot.DoctorID,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.CreatedAt,
		slot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create time slot: %w", err)
	}
	return nil
}

func (r *timeSlotRepository) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE id = $1`

	var slot model.TimeSlot
	err := r.q(ctx).GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}
	return &slot, nil
}

func (r *timeSlotRepository) List(ctx context.Context) ([]*model.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots ORDER BY created_at ASC`

	var slots []*model.TimeSlot
	if err := r.q(ctx).SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, nil
}

func (r *timeSlotRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE doctor_id = $1 ORDER BY created_at ASC`

	var slots []*model.TimeSlot
	if err := r.q(ctx).SelectContext(ctx, &slots, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list time slots by doctor: %w", err)
	}
	return slots, nil
}

func (r *timeSlotRepository) Update(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		UPDATE time_slots
		SET day_of_week = $1, start_time = $2, end_time = $3,
			is_available = $4, updated_at = $5
		WHERE id = $6
	`
	slot.UpdatedAt = time.Now()

	result, err := r.q(ctx).ExecContext(ctx, query,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.UpdatedAt,
		slot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time slot: %w", err)
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

func (r *timeSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q(ctx).ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time slot: %w", err)
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
