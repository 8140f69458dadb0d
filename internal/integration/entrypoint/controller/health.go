// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker   func() bool
	lockHealthChecker func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Lock      string `json:"lock,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance. lockHealthChecker
// may be nil when the batch lock is not backed by Redis.
func NewHealthController(dbHealthChecker, lockHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:   dbHealthChecker,
		lockHealthChecker: lockHealthChecker,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Database:  connectionStatus(h.dbHealthChecker),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.lockHealthChecker != nil {
		response.Lock = connectionStatus(h.lockHealthChecker)
	}

	c.JSON(http.StatusOK, response)
}

func connectionStatus(check func() bool) string {
	if check != nil && check() {
		return "connected"
	}
	return "disconnected"
}
