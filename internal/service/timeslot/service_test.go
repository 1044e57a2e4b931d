package timeslot

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

func newSlotFixture(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	slots := memory.NewTimeSlotRepository()
	profiles := memory.NewDoctorProfileRepository()
	svc := NewService(slots, profiles)

	profile := &model.DoctorProfile{
		Base:            model.Base{ID: uuid.New()},
		UserID:          uuid.New(),
		Specialization:  "Dermatology",
		Qualifications:  "MBBS",
		Experience:      5,
		ConsultationFee: 100,
		LicenseNumber:   "LIC-TS-1",
	}
	require.NoError(t, profiles.Create(ctx, profile))

	return svc, profile.ID
}

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("success defaults to available", func(t *testing.T) {
		svc, doctorID := newSlotFixture(t)
		slot, err := svc.CreateSlot(ctx, &model.CreateTimeSlotRequest{
			DoctorID:  doctorID,
			DayOfWeek: model.Monday,
			StartTime: "09:00",
			EndTime:   "12:00",
		})
		require.NoError(t, err)
		assert.True(t, slot.IsAvailable)
		assert.Equal(t, model.Monday, slot.DayOfWeek)
	})

	t.Run("explicit availability", func(t *testing.T) {
		svc, doctorID := newSlotFixture(t)
		unavailable := false
		slot, err := svc.CreateSlot(ctx, &model.CreateTimeSlotRequest{
			DoctorID:    doctorID,
			DayOfWeek:   model.Tuesday,
			StartTime:   "09:00",
			EndTime:     "12:00",
			IsAvailable: &unavailable,
		})
		require.NoError(t, err)
		assert.False(t, slot.IsAvailable)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		svc, _ := newSlotFixture(t)
		_, err := svc.CreateSlot(ctx, &model.CreateTimeSlotRequest{
			DoctorID:  uuid.New(),
			DayOfWeek: model.Monday,
			StartTime: "09:00",
			EndTime:   "12:00",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	})
}

func TestListSlotsByDoctor(t *testing.T) {
	ctx := context.Background()
	svc, doctorID := newSlotFixture(t)

	for _, day := range []model.DayOfWeek{model.Monday, model.Wednesday} {
		_, err := svc.CreateSlot(ctx, &model.CreateTimeSlotRequest{
			DoctorID:  doctorID,
			DayOfWeek: day,
			StartTime: "09:00",
			EndTime:   "12:00",
		})
		require.NoError(t, err)
	}

	slots, err := svc.ListSlotsByDoctor(ctx, doctorID)
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	_, err = svc.ListSlotsByDoctor(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUpdateSlot(t *testing.T) {
	ctx := context.Background()
	svc, doctorID := newSlotFixture(t)

	slot, err := svc.CreateSlot(ctx, &model.CreateTimeSlotRequest{
		DoctorID:  doctorID,
		DayOfWeek: model.Monday,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	unavailable := false
	end := "13:00"
	updated, err := svc.UpdateSlot(ctx, slot.ID, &model.UpdateTimeSlotRequest{
		EndTime:     &end,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, end, updated.EndTime)
	assert.False(t, updated.IsAvailable)

	_, err = svc.UpdateSlot(ctx, uuid.New(), &model.UpdateTimeSlotRequest{EndTime: &end})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDeleteSlot(t *testing.T) {
	ctx := context.Background()
	svc, doctorID := newSlotFixture(t)

	slot, err := svc.CreateSlot(ctx, &model.CreateTimeSlotRequest{
		DoctorID:  doctorID,
		DayOfWeek: model.Friday,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlot(ctx, slot.ID))

	err = svc.DeleteSlot(ctx, slot.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
