package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
)

type TimeSlotsAPI struct {
	client *Client
}

func (a *TimeSlotsAPI) Create(ctx context.Context, req *model.CreateTimeSlotRequest) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := a.client.do(ctx, http.MethodPost, "/api/v1/time-slots", req, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (a *TimeSlotsAPI) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/time-slots/"+id.String(), nil, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (a *TimeSlotsAPI) List(ctx context.Context) ([]*model.TimeSlot, error) {
	var slots []*model.TimeSlot
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/time-slots", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ListByDoctor returns the weekly availability grid for one doctor profile.
func (a *TimeSlotsAPI) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error) {
	var slots []*model.TimeSlot
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/time-slots/doctor/"+doctorID.String(), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (a *TimeSlotsAPI) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTimeSlotRequest) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := a.client.do(ctx, http.MethodPatch, "/api/v1/time-slots/"+id.String(), req, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (a *TimeSlotsAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return a.client.do(ctx, http.MethodDelete, "/api/v1/time-slots/"+id.String(), nil, nil)
}
