package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func newTestRouter(tokenService *JWTTokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	protected := router.Group("/protected")
	protected.Use(AuthMiddleware(tokenService))
	protected.GET("", func(c *gin.Context) {
		payload, _ := getAuthPayload(c, authorizationPayloadKey)
		c.JSON(http.StatusOK, gin.H{"role": string(payload.Role)})
	})

	admin := router.Group("/admin")
	admin.Use(AuthMiddleware(tokenService), AdminMiddleware())
	admin.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func TestAuthMiddleware(t *testing.T) {
	tokenService := NewJWTTokenService("test-secret", "1h", nopLogger{})
	router := newTestRouter(tokenService)

	user := &domain.User{UserID: uuid.New(), Username: "rider42"}
	token, err := tokenService.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminMiddlewareRejectsRegularUser(t *testing.T) {
	tokenService := NewJWTTokenService("test-secret", "1h", nopLogger{})
	router := newTestRouter(tokenService)

	user := &domain.User{UserID: uuid.New(), Username: "rider42"}
	userToken, _ := tokenService.IssueToken(user)

	admin := &domain.User{UserID: uuid.New(), Username: "boss", IsAdmin: true}
	adminToken, _ := tokenService.IssueToken(admin)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokenService := NewJWTTokenService("test-secret", "1h", nopLogger{})

	driver := &domain.User{UserID: uuid.New(), Username: "drv", IsDriver: true}
	token, err := tokenService.IssueToken(driver)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	payload, err := tokenService.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if payload.UserID != driver.UserID {
		t.Errorf("user id = %s, want %s", payload.UserID, driver.UserID)
	}
	if payload.Role != domain.Driver {
		t.Errorf("role = %s, want driver", payload.Role)
	}

	if _, err := NewJWTTokenService("other-secret", "1h", nopLogger{}).VerifyToken(token); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewError(domain.KindNotFound, "x"), http.StatusNotFound},
		{domain.NewError(domain.KindValidationFailed, "x"), http.StatusBadRequest},
		{domain.NewError(domain.KindPermissionDenied, "x"), http.StatusForbidden},
		{domain.NewError(domain.KindAlreadyTerminal, "x"), http.StatusConflict},
		{domain.NewError(domain.KindPersistence, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFromError(tt.err); got != tt.want {
			t.Errorf("statusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
