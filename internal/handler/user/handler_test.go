package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbook/booking-api/internal/model"
	apperrors "github.com/medbook/booking-api/pkg/errors"
)

type stubService struct {
	createFn     func(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	signupFn     func(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	loginFn      func(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	listFn       func(ctx context.Context) ([]*model.User, error)
	updateFn     func(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (s *stubService) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	return s.createFn(ctx, req)
}
func (s *stubService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	return s.signupFn(ctx, req)
}
func (s *stubService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	return s.loginFn(ctx, req)
}
func (s *stubService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.getFn(ctx, id)
}
func (s *stubService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *stubService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.listFn(ctx)
}
func (s *stubService) UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	return s.updateFn(ctx, id, req)
}
func (s *stubService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func setupRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSignupEndpoint(t *testing.T) {
	created := &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "patient@example.com",
		Role:  model.RolePatient,
	}
	engine := setupRouter(&stubService{
		signupFn: func(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
			return created, nil
		},
	})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/users/signup", map[string]interface{}{
		"email":       "patient@example.com",
		"password":    "password123",
		"fullName":    "Test Patient",
		"phoneNumber": "+15550001111",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "success", env["status"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "patient@example.com", data["email"])
	assert.Equal(t, "PATIENT", data["role"])
}

func TestSignupEndpointValidation(t *testing.T) {
	engine := setupRouter(&stubService{})

	// missing required fields
	w := doJSON(t, engine, http.MethodPost, "/api/v1/users/signup", map[string]interface{}{
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "error", env["status"])
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		engine := setupRouter(&stubService{
			loginFn: func(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
				return &model.LoginResponse{
					User:         &model.User{Base: model.Base{ID: uuid.New()}, Email: req.Email},
					AccessToken:  "access",
					RefreshToken: "refresh",
				}, nil
			},
		})

		w := doJSON(t, engine, http.MethodPost, "/api/v1/users/login", map[string]interface{}{
			"email":    "user@example.com",
			"password": "password123",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		data := env["data"].(map[string]interface{})
		assert.Equal(t, "access", data["accessToken"])
		assert.Equal(t, "refresh", data["refreshToken"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		engine := setupRouter(&stubService{
			loginFn: func(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
				return nil, apperrors.Unauthorized(nil)
			},
		})

		w := doJSON(t, engine, http.MethodPost, "/api/v1/users/login", map[string]interface{}{
			"email":    "user@example.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateUserEndpoint(t *testing.T) {
	t.Run("patient role conflicts", func(t *testing.T) {
		engine := setupRouter(&stubService{
			createFn: func(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
				return nil, apperrors.Conflict("patients must register through signup", nil)
			},
		})

		w := doJSON(t, engine, http.MethodPost, "/api/v1/users", map[string]interface{}{
			"email":       "p@example.com",
			"password":    "password123",
			"fullName":    "P",
			"phoneNumber": "+15550001111",
			"role":        "PATIENT",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown role rejected by binding", func(t *testing.T) {
		engine := setupRouter(&stubService{})

		w := doJSON(t, engine, http.MethodPost, "/api/v1/users", map[string]interface{}{
			"email":       "p@example.com",
			"password":    "password123",
			"fullName":    "P",
			"phoneNumber": "+15550001111",
			"role":        "SUPERUSER",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUserEndpoint(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		engine := setupRouter(&stubService{})
		w := doJSON(t, engine, http.MethodGet, "/api/v1/users/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		engine := setupRouter(&stubService{
			getFn: func(ctx context.Context, gotID uuid.UUID) (*model.User, error) {
				return nil, apperrors.NotFoundf("user with ID %s not found", gotID)
			},
		})

		w := doJSON(t, engine, http.MethodGet, "/api/v1/users/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w)
		assert.Contains(t, env["message"], id.String())
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	engine := setupRouter(&stubService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	})

	w := doJSON(t, engine, http.MethodDelete, "/api/v1/users/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}
