package recurrence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func newRunner(repo *fakeRecurrenceRepo, locker *fakeLocker, concurrency int) *RunDueRecurrencesUseCase {
	clock := fixedClock{now: processingTime}
	applier := NewApplyRecurrenceUseCase(repo, nil, clock)
	cfg := RunDueRecurrencesConfig{Concurrency: concurrency, LockTTL: time.Minute}
	if locker == nil {
		return NewRunDueRecurrencesUseCase(repo, applier, nil, clock, cfg)
	}
	return NewRunDueRecurrencesUseCase(repo, applier, locker, clock, cfg)
}

func TestRunDueRecurrencesUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("applies every due rule once", func(t *testing.T) {
		walletID := uuid.New()
		due1 := newTestRule(walletID, uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		due2 := newTestRule(walletID, uuid.New(), valueobject.FrequencyMonthly, day(2024, time.June, 1))
		future := newTestRule(walletID, uuid.New(), valueobject.FrequencyMonthly, day(2024, time.June, 16))
		repo := newFakeRecurrenceRepo(due1, due2, future)

		out, err := newRunner(repo, nil, 1).Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, out.ProcessedCount)
		assert.Equal(t, 2, out.DueCount)
		assert.Equal(t, 0, out.FailedCount)
		assert.Equal(t, processingTime, out.RanAt)
		assert.Len(t, repo.applied(), 2)
	})

	t.Run("second run on the same day processes nothing", func(t *testing.T) {
		rule := newTestRule(uuid.New(), uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		repo := newFakeRecurrenceRepo(rule)
		runner := newRunner(repo, nil, 1)

		first, err := runner.Execute(ctx)
		require.NoError(t, err)
		second, err := runner.Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, first.ProcessedCount)
		assert.Equal(t, 0, second.ProcessedCount)
		assert.Len(t, repo.applied(), 1)
	})

	t.Run("continues past failing rules", func(t *testing.T) {
		walletID := uuid.New()
		ok := newTestRule(walletID, uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		broken := newTestRule(walletID, uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		raced := newTestRule(walletID, uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		repo := newFakeRecurrenceRepo(ok, broken, raced)
		repo.applyErr[broken.ID] = errors.New("disk full")
		repo.applyErr[raced.ID] = domainerror.ErrRecurrenceAlreadyApplied

		out, err := newRunner(repo, nil, 1).Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, out.ProcessedCount)
		assert.Equal(t, 1, out.FailedCount)
		assert.Equal(t, 1, out.SkippedCount)
		assert.Equal(t, 3, out.DueCount)
	})

	t.Run("applies concurrently", func(t *testing.T) {
		walletID := uuid.New()
		repo := newFakeRecurrenceRepo()
		for i := 0; i < 25; i++ {
			r := newTestRule(walletID, uuid.New(), valueobject.FrequencyWeekly, day(2024, time.June, 15))
			repo.rules[r.ID] = r
		}

		out, err := newRunner(repo, nil, 4).Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, 25, out.ProcessedCount)
		assert.Len(t, repo.applied(), 25)
	})

	t.Run("scan failure aborts the run", func(t *testing.T) {
		repo := newFakeRecurrenceRepo()
		repo.findDueErr = errors.New("connection refused")

		_, err := newRunner(repo, nil, 1).Execute(ctx)

		require.ErrorIs(t, err, domainerror.ErrStorageFailure)
	})

	t.Run("busy lock reports a running batch", func(t *testing.T) {
		rule := newTestRule(uuid.New(), uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		repo := newFakeRecurrenceRepo(rule)
		locker := &fakeLocker{busy: true}

		_, err := newRunner(repo, locker, 1).Execute(ctx)

		require.ErrorIs(t, err, domainerror.ErrBatchAlreadyRunning)
		var recErr *domainerror.RecurrenceError
		require.ErrorAs(t, err, &recErr)
		assert.Equal(t, domainerror.ErrCodeBatchAlreadyRunning, recErr.Code)
		assert.Empty(t, repo.applied())
	})

	t.Run("lock is released after the run", func(t *testing.T) {
		repo := newFakeRecurrenceRepo()
		locker := &fakeLocker{}

		_, err := newRunner(repo, locker, 1).Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, locker.released)
		assert.Equal(t, DefaultBatchLockKey, locker.key)
	})

	t.Run("lock backend failure aborts the run", func(t *testing.T) {
		locker := &fakeLocker{err: errors.New("redis down")}

		_, err := newRunner(newFakeRecurrenceRepo(), locker, 1).Execute(ctx)

		require.ErrorIs(t, err, domainerror.ErrStorageFailure)
	})

	t.Run("cancelled context schedules nothing", func(t *testing.T) {
		rule := newTestRule(uuid.New(), uuid.New(), valueobject.FrequencyDaily, day(2024, time.June, 15))
		repo := newFakeRecurrenceRepo(rule)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		out, err := newRunner(repo, nil, 1).Execute(cancelled)

		require.NoError(t, err)
		assert.Equal(t, 0, out.ProcessedCount)
		assert.Empty(t, repo.applied())
	})
}
