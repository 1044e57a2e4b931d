package client

import (
	"context"
	"sync"

	"github.com/medbook/booking-api/internal/model"
)

// Session keeps the authenticated user and token pair for a client instance,
// wiring the access token into subsequent requests.
type Session struct {
	mu           sync.RWMutex
	client       *Client
	user         *model.User
	accessToken  string
	refreshToken string
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Login authenticates against the API and retains the resulting identity.
func (s *Session) Login(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := s.client.Users.Login(ctx, &model.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = resp.User
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.mu.Unlock()

	s.client.SetAccessToken(resp.AccessToken)
	return resp.User, nil
}

// Logout drops the stored identity and clears the client's bearer token.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()

	s.client.SetAccessToken("")
}

func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.accessToken != ""
}

func (s *Session) hasRole(role model.UserRole) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == role
}

func (s *Session) IsAdmin() bool   { return s.hasRole(model.RoleAdmin) }
func (s *Session) IsDoctor() bool  { return s.hasRole(model.RoleDoctor) }
func (s *Session) IsPatient() bool { return s.hasRole(model.RolePatient) }
