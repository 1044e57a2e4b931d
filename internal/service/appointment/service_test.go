package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository/memory"
	"github.com/medbook/booking-api/internal/service/event"
	apperrors "github.com/medbook/booking-api/pkg/errors"
)

type aptFixture struct {
	svc      *Service
	users    *memory.UserRepository
	profiles *memory.DoctorProfileRepository
	outbox   *memory.OutboxRepository

	patientID uuid.UUID
	doctorID  uuid.UUID
}

func newAptFixture(t *testing.T) *aptFixture {
	t.Helper()
	ctx := context.Background()

	users := memory.NewUserRepository()
	profiles := memory.NewDoctorProfileRepository()
	appointments := memory.NewAppointmentRepository()
	outbox := memory.NewOutboxRepository()

	svc := NewService(appointments, users, profiles, memory.TxManager{}, event.NewService(outbox))

	patient := &model.User{
		Base:        model.Base{ID: uuid.New()},
		Email:       "patient@example.com",
		FullName:    "Test Patient",
		PhoneNumber: "+15550001111",
		Role:        model.RolePatient,
	}
	require.NoError(t, users.Create(ctx, patient))

	doctorUser := &model.User{
		Base:        model.Base{ID: uuid.New()},
		Email:       "doctor@example.com",
		FullName:    "Test Doctor",
		PhoneNumber: "+15550002222",
		Role:        model.RoleDoctor,
	}
	require.NoError(t, users.Create(ctx, doctorUser))

	profile := &model.DoctorProfile{
		Base:            model.Base{ID: uuid.New()},
		UserID:          doctorUser.ID,
		Specialization:  "Cardiology",
		Qualifications:  "MBBS, MD",
		Experience:      10,
		ConsultationFee: 150,
		LicenseNumber:   "LIC-1234",
	}
	require.NoError(t, profiles.Create(ctx, profile))

	return &aptFixture{
		svc:       svc,
		users:     users,
		profiles:  profiles,
		outbox:    outbox,
		patientID: patient.ID,
		doctorID:  profile.ID,
	}
}

func (f *aptFixture) createRequest(start, end string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:       f.patientID,
		DoctorID:        f.doctorID,
		AppointmentDate: "2026-09-15",
		StartTime:       start,
		EndTime:         end,
	}
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to pending", func(t *testing.T) {
		f := newAptFixture(t)
		apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusPending, apt.Status)
		require.NotNil(t, apt.Patient)
		assert.Empty(t, apt.Patient.PasswordHash)
		require.NotNil(t, apt.Doctor)
	})

	t.Run("unknown patient", func(t *testing.T) {
		f := newAptFixture(t)
		req := f.createRequest("10:00", "10:30")
		req.PatientID = uuid.New()

		_, err := f.svc.CreateAppointment(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
		assert.Contains(t, err.Error(), req.PatientID.String())
	})

	t.Run("unknown doctor", func(t *testing.T) {
		f := newAptFixture(t)
		req := f.createRequest("10:00", "10:30")
		req.DoctorID = uuid.New()

		_, err := f.svc.CreateAppointment(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})

	t.Run("bad date", func(t *testing.T) {
		f := newAptFixture(t)
		req := f.createRequest("10:00", "10:30")
		req.AppointmentDate = "15-09-2026"

		_, err := f.svc.CreateAppointment(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("overlapping creates both succeed", func(t *testing.T) {
		f := newAptFixture(t)
		first, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "11:00"))
		require.NoError(t, err)
		second, err := f.svc.CreateAppointment(ctx, f.createRequest("10:30", "11:30"))
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels pending", func(t *testing.T) {
		f := newAptFixture(t)
		apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		reason := "patient unavailable"
		cancelled, err := f.svc.CancelAppointment(ctx, apt.ID, &reason)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancellationReason)
		assert.Equal(t, reason, *cancelled.CancellationReason)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newAptFixture(t)
		apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, apt.ID, nil)
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, apt.ID, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("completed", func(t *testing.T) {
		f := newAptFixture(t)
		apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		completed := model.AppointmentStatusCompleted
		_, err = f.svc.UpdateAppointment(ctx, apt.ID, &model.UpdateAppointmentRequest{Status: &completed})
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, apt.ID, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		f := newAptFixture(t)
		_, err := f.svc.CancelAppointment(ctx, uuid.New(), nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})
}

func TestConfirmAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms pending", func(t *testing.T) {
		f := newAptFixture(t)
		apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		confirmed, err := f.svc.ConfirmAppointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)
	})

	t.Run("confirmed overlap conflicts", func(t *testing.T) {
		f := newAptFixture(t)
		first, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "11:00"))
		require.NoError(t, err)
		second, err := f.svc.CreateAppointment(ctx, f.createRequest("10:30", "11:30"))
		require.NoError(t, err)

		_, err = f.svc.ConfirmAppointment(ctx, first.ID)
		require.NoError(t, err)

		_, err = f.svc.ConfirmAppointment(ctx, second.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})

	t.Run("pending overlap does not block", func(t *testing.T) {
		// Any member of an overlapping pending set is confirmable; only a
		// confirmed appointment claims the slot.
		f := newAptFixture(t)
		first, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "11:00"))
		require.NoError(t, err)
		second, err := f.svc.CreateAppointment(ctx, f.createRequest("10:30", "11:30"))
		require.NoError(t, err)

		confirmed, err := f.svc.ConfirmAppointment(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

		_, err = f.svc.ConfirmAppointment(ctx, first.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})

	t.Run("cancelled overlap does not block", func(t *testing.T) {
		f := newAptFixture(t)
		first, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "11:00"))
		require.NoError(t, err)
		second, err := f.svc.CreateAppointment(ctx, f.createRequest("10:30", "11:30"))
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, first.ID, nil)
		require.NoError(t, err)

		confirmed, err := f.svc.ConfirmAppointment(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)
	})

	t.Run("adjacent slots do not conflict", func(t *testing.T) {
		f := newAptFixture(t)
		first, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)
		second, err := f.svc.CreateAppointment(ctx, f.createRequest("10:30", "11:00"))
		require.NoError(t, err)

		_, err = f.svc.ConfirmAppointment(ctx, first.ID)
		require.NoError(t, err)
		_, err = f.svc.ConfirmAppointment(ctx, second.ID)
		require.NoError(t, err)
	})

	t.Run("cancelled cannot be confirmed", func(t *testing.T) {
		f := newAptFixture(t)
		apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, apt.ID, nil)
		require.NoError(t, err)

		_, err = f.svc.ConfirmAppointment(ctx, apt.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})
}

func TestListAppointments(t *testing.T) {
	ctx := context.Background()

	t.Run("by patient", func(t *testing.T) {
		f := newAptFixture(t)
		_, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		apts, err := f.svc.ListByPatient(ctx, f.patientID)
		require.NoError(t, err)
		assert.Len(t, apts, 1)

		_, err = f.svc.ListByPatient(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})

	t.Run("by doctor", func(t *testing.T) {
		f := newAptFixture(t)
		_, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
		require.NoError(t, err)

		apts, err := f.svc.ListByDoctor(ctx, f.doctorID)
		require.NoError(t, err)
		assert.Len(t, apts, 1)

		_, err = f.svc.ListByDoctor(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})
}

func TestDeleteAppointment(t *testing.T) {
	ctx := context.Background()
	f := newAptFixture(t)

	apt, err := f.svc.CreateAppointment(ctx, f.createRequest("10:00", "10:30"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAppointment(ctx, apt.ID))

	_, err = f.svc.GetAppointment(ctx, apt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	events := f.outbox.Events()
	require.Len(t, events, 2)
	assert.Equal(t, model.EventAppointmentCreated, events[0].EventType)
	assert.Equal(t, model.EventAppointmentDeleted, events[1].EventType)
}
