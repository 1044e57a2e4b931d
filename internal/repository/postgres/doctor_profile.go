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

const doctorProfileColumns = `
	id, user_id, specialization, qualifications, experience,
	consultation_fee, bio, license_number, created_at, updated_at
`

func (r *doctorProfileRepository) Create(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (
			id, user_id, specialization, qualifications, experience,
			consultation_fee, bio, license_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.q(ctx).ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Specialization,
		profile.Qualifications,
		profile.Experience,
		profile.ConsultationFee,
		profile.Bio,
		profile.LicenseNumber,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *doctorProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT ` + doctorProfileColumns + ` FROM doctor_profiles WHERE id = $1`

	var profile model.DoctorProfile
	err := r.q(ctx).GetContext(ctx, &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *doctorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT ` + doctorProfileColumns + ` FROM doctor_profiles WHERE user_id = $1`

	var profile model.DoctorProfile
	err := r.q(ctx).GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile by user: %w", err)
	}
	return &profile, nil
}

func (r *doctorProfileRepository) GetByLicense(ctx context.Context, licenseNumber string) (*model.DoctorProfile, error) {
	query := `SELECT ` + doctorProfileColumns + ` FROM doctor_profiles WHERE license_number = $1`

	var profile model.DoctorProfile
	err := r.q(ctx).GetContext(ctx, &profile, query, licenseNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile by license: %w", err)
	}
	return &profile, nil
}

func (r *doctorProfileRepository) List(ctx context.Context) ([]*model.DoctorProfile, error) {
	query := `SELECT ` + doctorProfileColumns + ` FROM doctor_profiles ORDER BY created_at ASC`

	var profiles []*model.DoctorProfile
	if err := r.q(ctx).SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list doctor profiles: %w", err)
	}
	return profiles, nil
}

func (r *doctorProfileRepository) Update(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		UPDATE doctor_profiles
		SET specialization = $1, qualifications = $2, experience = $3,
			consultation_fee = $4, bio = $5, license_number = $6, updated_at = $7
		WHERE id = $8
	`
	profile.UpdatedAt = time.Now()

	result, err := r.q(ctx).ExecContext(ctx, query,
		profile.Specialization,
		profile.Qualifications,
		profile.Experience,
		profile.ConsultationFee,
		profile.Bio,
		profile.LicenseNumber,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
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

func (r *doctorProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q(ctx).ExecContext(ctx, `DELETE FROM doctor_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor profile: %w", err)
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
