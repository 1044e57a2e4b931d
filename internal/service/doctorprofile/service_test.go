package doctorprofile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository/memory"
	apperrors "github.com/medbook/booking-api/pkg/errors"
)

type profileFixture struct {
	svc      *Service
	users    *memory.UserRepository
	doctorID uuid.UUID
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	ctx := context.Background()

	users := memory.NewUserRepository()
	profiles := memory.NewDoctorProfileRepository()
	slots := memory.NewTimeSlotRepository()
	appointments := memory.NewAppointmentRepository()

	svc := NewService(profiles, users, slots, appointments, memory.TxManager{})

	doctor := &model.User{
		Base:        model.Base{ID: uuid.New()},
		Email:       "doctor@example.com",
		FullName:    "Test Doctor",
		PhoneNumber: "+15550002222",
		Role:        model.RoleDoctor,
	}
	require.NoError(t, users.Create(ctx, doctor))

	return &profileFixture{svc: svc, users: users, doctorID: doctor.ID}
}

func (f *profileFixture) createRequest(license string) *model.CreateDoctorProfileRequest {
	return &model.CreateDoctorProfileRequest{
		UserID:          f.doctorID,
		Specialization:  "Cardiology",
		Qualifications:  "MBBS, MD",
		Experience:      10,
		ConsultationFee: 150,
		LicenseNumber:   license,
	}
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newProfileFixture(t)
		profile, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
		require.NoError(t, err)
		assert.Equal(t, f.doctorID, profile.UserID)
		assert.Equal(t, "LIC-1", profile.LicenseNumber)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newProfileFixture(t)
		req := f.createRequest("LIC-1")
		req.UserID = uuid.New()

		_, err := f.svc.CreateProfile(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})

	t.Run("duplicate user", func(t *testing.T) {
		f := newProfileFixture(t)
		_, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
		require.NoError(t, err)

		_, err = f.svc.CreateProfile(ctx, f.createRequest("LIC-2"))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})

	t.Run("duplicate license", func(t *testing.T) {
		ctx := context.Background()
		f := newProfileFixture(t)
		_, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
		require.NoError(t, err)

		other := &model.User{
			Base:        model.Base{ID: uuid.New()},
			Email:       "other.doctor@example.com",
			FullName:    "Other Doctor",
			PhoneNumber: "+15550003333",
			Role:        model.RoleDoctor,
		}
		require.NoError(t, f.users.Create(ctx, other))

		req := f.createRequest("LIC-1")
		req.UserID = other.ID
		_, err = f.svc.CreateProfile(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	created, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
	require.NoError(t, err)

	got, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.User)
	assert.Empty(t, got.User.PasswordHash)

	// second read hits the cache
	again, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)

	_, err = f.svc.GetProfile(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestGetProfileCacheIsolation(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	created, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
	require.NoError(t, err)

	got, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)

	// mutating a returned profile must not leak into cached reads
	got.Specialization = "Mutated"
	got.User.FullName = "Mutated"

	again, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", again.Specialization)
	assert.Equal(t, "Test Doctor", again.User.FullName)
}

func TestListProfilesCacheIsolation(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	_, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
	require.NoError(t, err)

	profiles, err := f.svc.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	profiles[0].Specialization = "Mutated"

	again, err := f.svc.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "Cardiology", again[0].Specialization)
}

func TestGetProfileByUserID(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	created, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
	require.NoError(t, err)

	got, err := f.svc.GetProfileByUserID(ctx, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.svc.GetProfileByUserID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields", func(t *testing.T) {
		f := newProfileFixture(t)
		created, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
		require.NoError(t, err)

		spec := "Neurology"
		fee := 200.0
		updated, err := f.svc.UpdateProfile(ctx, created.ID, &model.UpdateDoctorProfileRequest{
			Specialization:  &spec,
			ConsultationFee: &fee,
		})
		require.NoError(t, err)
		assert.Equal(t, spec, updated.Specialization)
		assert.Equal(t, fee, updated.ConsultationFee)
	})

	t.Run("license conflict", func(t *testing.T) {
		f := newProfileFixture(t)
		_, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
		require.NoError(t, err)

		other := &model.User{
			Base:        model.Base{ID: uuid.New()},
			Email:       "other.doctor@example.com",
			FullName:    "Other Doctor",
			PhoneNumber: "+15550003333",
			Role:        model.RoleDoctor,
		}
		require.NoError(t, f.users.Create(ctx, other))
		req := f.createRequest("LIC-2")
		req.UserID = other.ID
		second, err := f.svc.CreateProfile(ctx, req)
		require.NoError(t, err)

		taken := "LIC-1"
		_, err = f.svc.UpdateProfile(ctx, second.ID, &model.UpdateDoctorProfileRequest{LicenseNumber: &taken})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})
}

func TestDeleteProfile(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	created, err := f.svc.CreateProfile(ctx, f.createRequest("LIC-1"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProfile(ctx, created.ID))

	_, err = f.svc.GetProfile(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	err = f.svc.DeleteProfile(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
