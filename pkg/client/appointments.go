package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
)

type AppointmentsAPI struct {
	client *Client
}

func (a *AppointmentsAPI) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	var apt model.Appointment
	if err := a.client.do(ctx, http.MethodPost, "/api/v1/appointments", req, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

func (a *AppointmentsAPI) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var apt model.Appointment
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/appointments/"+id.String(), nil, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

func (a *AppointmentsAPI) List(ctx context.Context) ([]*model.Appointment, error) {
	var apts []*model.Appointment
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/appointments", nil, &apts); err != nil {
		return nil, err
	}
	return apts, nil
}

func (a *AppointmentsAPI) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	var apts []*model.Appointment
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/appointments/patient/"+patientID.String(), nil, &apts); err != nil {
		return nil, err
	}
	return apts, nil
}

func (a *AppointmentsAPI) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	var apts []*model.Appointment
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/appointments/doctor/"+doctorID.String(), nil, &apts); err != nil {
		return nil, err
	}
	return apts, nil
}

func (a *AppointmentsAPI) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	var apt model.Appointment
	if err := a.client.do(ctx, http.MethodPatch, "/api/v1/appointments/"+id.String(), req, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

// Cancel marks an appointment CANCELLED, optionally recording a reason.
func (a *AppointmentsAPI) Cancel(ctx context.Context, id uuid.UUID, reason *string) (*model.Appointment, error) {
	var body interface{}
	if reason != nil {
		body = &model.CancelAppointmentRequest{CancellationReason: reason}
	}
	var apt model.Appointment
	if err := a.client.do(ctx, http.MethodPut, "/api/v1/appointments/"+id.String()+"/cancel", body, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

// Confirm moves a PENDING appointment to CONFIRMED; the server rejects the
// transition when the doctor already has an overlapping booking.
func (a *AppointmentsAPI) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var apt model.Appointment
	if err := a.client.do(ctx, http.MethodPut, "/api/v1/appointments/"+id.String()+"/confirm", nil, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

func (a *AppointmentsAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return a.client.do(ctx, http.MethodDelete, "/api/v1/appointments/"+id.String(), nil, nil)
}
