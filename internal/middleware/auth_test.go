package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/pkg/auth"
)

func authTestRouter(t *testing.T, roles ...model.UserRole) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "r"})
	m := NewAuthMiddleware(jwtSvc)

	engine := gin.New()
	group := engine.Group("/protected", m.Authenticate())
	if len(roles) > 0 {
		group.Use(m.RequireRole(roles...))
	}
	group.GET("", func(c *gin.Context) {
		claims := c.MustGet(ContextUserClaims).(*model.TokenClaims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return engine, jwtSvc
}

func tokenFor(t *testing.T, jwtSvc auth.JWTService, role model.UserRole) string {
	t.Helper()
	token, err := jwtSvc.GenerateAccessToken(&model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "user@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		engine, jwtSvc := authTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtSvc, model.RolePatient))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		engine, _ := authTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		engine, _ := authTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		engine, _ := authTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("allowed role", func(t *testing.T) {
		engine, jwtSvc := authTestRouter(t, model.RoleAdmin, model.RoleDoctor)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtSvc, model.RoleAdmin))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbidden role", func(t *testing.T) {
		engine, jwtSvc := authTestRouter(t, model.RoleAdmin)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtSvc, model.RolePatient))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
