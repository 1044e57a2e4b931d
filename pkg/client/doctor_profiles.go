package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
)

type DoctorProfilesAPI struct {
	client *Client
}

func (a *DoctorProfilesAPI) Create(ctx context.Context, req *model.CreateDoctorProfileRequest) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	if err := a.client.do(ctx, http.MethodPost, "/api/v1/doctor-profiles", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *DoctorProfilesAPI) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/doctor-profiles/"+id.String(), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUser looks a profile up by the owning user's id.
func (a *DoctorProfilesAPI) GetByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/doctor-profiles/user/"+userID.String(), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *DoctorProfilesAPI) List(ctx context.Context) ([]*model.DoctorProfile, error) {
	var profiles []*model.DoctorProfile
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/doctor-profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (a *DoctorProfilesAPI) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	if err := a.client.do(ctx, http.MethodPatch, "/api/v1/doctor-profiles/"+id.String(), req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *DoctorProfilesAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return a.client.do(ctx, http.MethodDelete, "/api/v1/doctor-profiles/"+id.String(), nil, nil)
}
