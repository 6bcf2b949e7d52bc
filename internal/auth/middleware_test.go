package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Empty header", "", http.StatusUnauthorized},
		{"Invalid format", "Token abc", http.StatusUnauthorized},
		{"Empty token", "Bearer ", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			c.Request = req

			handler := AuthMiddleware("secret")
			handler(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := GenerateAccessToken(9, "member@example.com", "member", testSecret)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c.Request = req

	AuthMiddleware(testSecret)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	id, ok := GetMemberID(c)
	assert.True(t, ok)
	assert.Equal(t, 9, id)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		memberRole     any
		requiredRole   string
		expectedStatus int
	}{
		{"Correct role", "admin", "admin", http.StatusOK},
		{"Missing role", nil, "admin", http.StatusUnauthorized},
		{"Wrong role type", 123, "admin", http.StatusUnauthorized},
		{"Insufficient role", "member", "admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.memberRole != nil {
				c.Set("member_role", tt.memberRole)
			}
			c.Request = httptest.NewRequest("GET", "/", nil)

			handler := RequireRole(tt.requiredRole)
			handler(c)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetMemberID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Missing member id", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := GetMemberID(c)
		assert.False(t, ok)
	})

	t.Run("Wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("member_id", "not-an-int")
		_, ok := GetMemberID(c)
		assert.False(t, ok)
	})
}
