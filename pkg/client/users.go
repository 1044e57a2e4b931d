package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
)

type UsersAPI struct {
	client *Client
}

// Signup self-registers a patient account.
func (a *UsersAPI) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	var user model.User
	if err := a.client.do(ctx, http.MethodPost, "/api/v1/users/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := a.client.do(ctx, http.MethodPost, "/api/v1/users/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create is the admin creation path; PATIENT roles are rejected server-side.
func (a *UsersAPI) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	var user model.User
	if err := a.client.do(ctx, http.MethodPost, "/api/v1/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/users/"+id.String(), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	path := "/api/v1/users/email/" + url.PathEscape(email)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := a.client.do(ctx, http.MethodGet, "/api/v1/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *UsersAPI) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	var user model.User
	if err := a.client.do(ctx, http.MethodPatch, "/api/v1/users/"+id.String(), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return a.client.do(ctx, http.MethodDelete, "/api/v1/users/"+id.String(), nil, nil)
}
