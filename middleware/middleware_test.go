package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"parkwise/models"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
)

type stubVerifier map[string]*models.User

func (s stubVerifier) Verify(_ context.Context, token string) (*models.User, error) {
	switch token {
	case "blocked":
		return nil, utils.NewForbiddenError("Your account has been blocked")
	}
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, utils.NewUnauthorizedError("Invalid or expired token")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUserID(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	verifier := stubVerifier{
		"user-token":  {ID: "u1", Email: "u1@example.com", Role: models.RoleUser},
		"admin-token": {ID: "a1", Email: "admin@parking.com", Role: models.RoleAdmin},
	}
	r := newRouter(JWTAuthMiddleware(verifier))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad token", "nope", http.StatusUnauthorized},
		{"blocked account", "blocked", http.StatusForbidden},
		{"valid token", "user-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.token); w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	verifier := stubVerifier{
		"user-token":  {ID: "u1", Role: models.RoleUser},
		"admin-token": {ID: "a1", Role: models.RoleAdmin},
	}
	r := newRouter(JWTAuthMiddleware(verifier), RequireRole(models.RoleAdmin))

	if w := do(r, "user-token"); w.Code != http.StatusForbidden {
		t.Errorf("user on admin route: status = %d", w.Code)
	}
	if w := do(r, "admin-token"); w.Code != http.StatusOK {
		t.Errorf("admin on admin route: status = %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(3))

	for i := 0; i < 3; i++ {
		if w := do(r, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
	if w := do(r, ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("request over burst: status = %d, want 429", w.Code)
	}
}
