package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// CronSecret guards the batch trigger. With an empty secret every caller is let
// through; otherwise the request must carry "Authorization: Bearer <secret>".
func CronSecret(secret string) gin.HandlerFunc {
	expected := []byte(secret)

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token, status := bearerToken(c.GetHeader("Authorization"))
		if status != headerOK || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.CronErrorResponse{
				Success: false,
				Error:   "Unauthorized",
				Code:    string(domainerror.ErrCodeInvalidCronSecret),
			})
			return
		}

		c.Next()
	}
}
