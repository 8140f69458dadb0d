// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey ContextKey = "user_email"
)

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate returns a Gin middleware handler that enforces JWT authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, status := bearerToken(c.GetHeader("Authorization"))
		switch status {
		case headerMissing:
			abortUnauthorized(c, "Authorization header is required", string(domainerror.ErrCodeMissingToken))
			return
		case headerMalformed:
			abortUnauthorized(c, "Invalid authorization header format", string(domainerror.ErrCodeInvalidToken))
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainerror.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired", string(domainerror.ErrCodeExpiredToken))
				return
			}
			abortUnauthorized(c, "Invalid or expired token", string(domainerror.ErrCodeInvalidToken))
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserEmailKey), claims.Email)

		c.Next()
	}
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmailFromContext extracts the authenticated user's email from the Gin context.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(string(UserEmailKey))
	if !exists {
		return "", false
	}
	value, ok := email.(string)
	return value, ok && value != ""
}

type headerStatus int

const (
	headerOK headerStatus = iota
	headerMissing
	headerMalformed
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, headerStatus) {
	if header == "" {
		return "", headerMissing
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", headerMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", headerMissing
	}
	return token, headerOK
}

func abortUnauthorized(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
