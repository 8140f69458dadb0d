package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, engine *gin.Engine, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tokens := adapters.NewTokenService("test-secret", time.Minute)
	expired := adapters.NewTokenService("test-secret", -time.Minute)
	userID := uuid.New()

	engine := gin.New()
	engine.GET("/", NewAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		id, ok := GetUserIDFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	valid, err := tokens.GenerateAccessToken(context.Background(), userID, "user@example.com")
	require.NoError(t, err)
	stale, err := expired.GenerateAccessToken(context.Background(), userID, "user@example.com")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		rec := serve(t, engine, "Bearer "+valid)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), rec.Body.String())
	})

	tests := []struct {
		name   string
		header string
		code   domainerror.AuthErrorCode
	}{
		{"missing header", "", domainerror.ErrCodeMissingToken},
		{"wrong scheme", "Basic abc", domainerror.ErrCodeInvalidToken},
		{"empty bearer", "Bearer  ", domainerror.ErrCodeMissingToken},
		{"garbage token", "Bearer not-a-jwt", domainerror.ErrCodeInvalidToken},
		{"expired token", "Bearer " + stale, domainerror.ErrCodeExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, engine, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, string(tt.code), errorCode(t, rec))
		})
	}
}

func TestCronSecret(t *testing.T) {
	newEngine := func(secret string) *gin.Engine {
		engine := gin.New()
		engine.GET("/", CronSecret(secret), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return engine
	}

	t.Run("open when no secret is configured", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(t, newEngine(""), "").Code)
	})

	t.Run("accepts the secret", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(t, newEngine("s3cret"), "Bearer s3cret").Code)
	})

	for _, header := range []string{"", "Bearer wrong", "s3cret", "Bearer s3cret-and-more"} {
		t.Run("rejects "+header, func(t *testing.T) {
			rec := serve(t, newEngine("s3cret"), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body dto.CronErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, string(domainerror.ErrCodeInvalidCronSecret), body.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	engine := gin.New()
	engine.GET("/", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(t, engine, "").Code)
	assert.Equal(t, http.StatusOK, serve(t, engine, "").Code)

	rec := serve(t, engine, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, string(domainerror.ErrCodeRateLimited), errorCode(t, rec))

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, serve(t, engine, "").Code)
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	assert.Equal(t, defaultMaxAttempts, limiter.maxAttempts)
	assert.Equal(t, defaultWindowDuration, limiter.windowDuration)
}
