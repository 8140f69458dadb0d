package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/application/usecase/recurrence"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

type stubRunner struct {
	output *recurrence.RunDueRecurrencesOutput
	err    error
}

func (s stubRunner) Execute(context.Context) (*recurrence.RunDueRecurrencesOutput, error) {
	return s.output, s.err
}

func runCron(t *testing.T, runner BatchRunner) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.POST("/cron", NewCronController(runner).ProcessRecurring)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cron", nil))
	return rec
}

func TestCronController_ProcessRecurring(t *testing.T) {
	t.Run("reports processed count", func(t *testing.T) {
		ranAt := time.Date(2024, time.June, 15, 2, 0, 0, 0, time.UTC)
		rec := runCron(t, stubRunner{output: &recurrence.RunDueRecurrencesOutput{
			ProcessedCount: 3,
			DueCount:       4,
			SkippedCount:   1,
			RanAt:          ranAt,
		}})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"processedCount":3,"timestamp":"2024-06-15T02:00:00Z"}`, rec.Body.String())
	})

	t.Run("busy lock is a conflict", func(t *testing.T) {
		rec := runCron(t, stubRunner{err: domainerror.NewRecurrenceError(
			domainerror.ErrCodeBatchAlreadyRunning,
			"recurring batch already running",
			domainerror.ErrBatchAlreadyRunning,
		)})

		require.Equal(t, http.StatusConflict, rec.Code)
		var body dto.CronErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, string(domainerror.ErrCodeBatchAlreadyRunning), body.Code)
	})

	t.Run("scan failure is a server error", func(t *testing.T) {
		rec := runCron(t, stubRunner{err: domainerror.NewRecurrenceError(
			domainerror.ErrCodeStorageFailure,
			"failed to scan due rules",
			errors.New("connection reset"),
		)})

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var body dto.CronErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Failed to process recurring transactions", body.Error)
		assert.Equal(t, string(domainerror.ErrCodeStorageFailure), body.Code)
	})
}

func TestHealthController_Check(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/health", NewHealthController(func() bool { return true }, func() bool { return false }).Check)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "connected", body.Database)
	assert.Equal(t, "disconnected", body.Lock)
}
