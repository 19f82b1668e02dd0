package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ir-gateway/cmd/api/auth"
)

func newAdminTestRouter(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		t.Fatalf("NewJWTManagerFromEnv: %v", err)
	}

	r := gin.New()
	r.Use(AdminAuthMiddleware(jwtManager))
	r.POST("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_code": c.GetString("user_code")})
	})
	return r, jwtManager
}

func TestAdminAuthMiddleware(t *testing.T) {
	r, jwtManager := newAdminTestRouter(t)

	adminToken, err := jwtManager.Sign("admin-1", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	userToken, err := jwtManager.Sign("user-1", auth.RoleUser)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"non-admin role", "Bearer " + userToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
