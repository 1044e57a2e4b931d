// Package client is a typed HTTP client for the booking API. It decodes the
// standard response envelope and translates error statuses back into the
// error codes the server raised them with.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/medbook/booking-api/pkg/errors"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string

	Users          *UsersAPI
	DoctorProfiles *DoctorProfilesAPI
	TimeSlots      *TimeSlotsAPI
	Appointments   *AppointmentsAPI
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Users = &UsersAPI{client: c}
	c.DoctorProfiles = &DoctorProfilesAPI{client: c}
	c.TimeSlots = &TimeSlotsAPI{client: c}
	c.Appointments = &AppointmentsAPI{client: c}
	return c
}

// SetAccessToken swaps the bearer token used on subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Status == "error" {
		return errorFromStatus(resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// errorFromStatus reverses the server's AppError-to-status mapping so callers
// can test errors with apperrors.IsCode.
func errorFromStatus(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	var code apperrors.ErrorCode
	switch status {
	case http.StatusNotFound:
		code = apperrors.ErrNotFound
	case http.StatusBadRequest:
		code = apperrors.ErrBadRequest
	case http.StatusUnauthorized:
		code = apperrors.ErrUnauthorized
	case http.StatusForbidden:
		code = apperrors.ErrForbidden
	case http.StatusConflict:
		code = apperrors.ErrConflict
	default:
		code = apperrors.ErrInternal
	}
	return &apperrors.AppError{Code: code, Message: message}
}
