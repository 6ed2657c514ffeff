package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const authorizationPayloadKey = "authorization_payload"

type errorResponse struct {
	Error string `json:"error"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// statusFromError maps classified service errors to HTTP statuses.
// Unclassified errors are reported as 500.
func statusFromError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindAlreadyTerminal:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the mapped status. Internal errors keep
// their details out of the response body.
func handleServiceError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		newErrorResponse(c, status, "Internal server error")
		return
	}

	var de *domain.Error
	message := err.Error()
	if errors.As(err, &de) {
		message = de.Reason
	}
	newErrorResponse(c, status, message)
}

func getAuthPayload(c *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, exists := c.Get(key)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	return payload, ok
}

func AuthMiddleware(tokenService ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			newErrorResponse(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(authorizationPayloadKey, payload)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, exists := getAuthPayload(c, authorizationPayloadKey)
		if !exists {
			newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if payload.Role != domain.Admin {
			newErrorResponse(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func DriverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, exists := getAuthPayload(c, authorizationPayloadKey)
		if !exists {
			newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if payload.Role != domain.Driver && payload.Role != domain.Admin {
			newErrorResponse(c, http.StatusForbidden, "Driver access required")
			return
		}
		c.Next()
	}
}
