package services

import (
	"context"
	"testing"
	"time"

	"routine-guard/internal/alert"
	"routine-guard/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedulerFixture(t *testing.T, now time.Time) (*AlarmScheduler, *ScheduleService, alert.Registrar) {
	t.Helper()
	db := newTestDB(t)
	schedules := seededScheduleService(t, db)
	memStore := store.NewMemoryStore()
	t.Cleanup(func() { memStore.Close() })
	registrar := alert.NewStoreRegistrar(memStore)
	scheduler := NewAlarmScheduler(db, registrar, testSettings{}, fakeClockAt(now))
	return scheduler, schedules, registrar
}

func TestScheduleDay_PrimaryPlusBackups(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "07:30")
	schedule, err := schedules.GetSchedule(ctx, 1)
	require.NoError(t, err)

	count, err := scheduler.ScheduleDay(ctx, *schedule)
	require.NoError(t, err)

	// 07:30 primary, backups every 3 min for 2 h: 07:33 .. 09:30
	assert.Equal(t, 41, count)

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	assert.Len(t, regs, 41)
}

func TestScheduleDay_CutoffYieldsZeroBackups(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "09:58")
	schedule, err := schedules.GetSchedule(ctx, 1)
	require.NoError(t, err)

	count, err := scheduler.ScheduleDay(ctx, *schedule)
	require.NoError(t, err)

	// The first backup would land at 10:01, past the cutoff
	assert.Equal(t, 1, count)

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, 0, regs[0].Index)
}

func TestScheduleDay_BackupsStopStrictlyBeforeCutoff(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "09:52")
	schedule, err := schedules.GetSchedule(ctx, 1)
	require.NoError(t, err)

	count, err := scheduler.ScheduleDay(ctx, *schedule)
	require.NoError(t, err)

	// Backups at 09:55 and 09:58; 10:01 is out
	assert.Equal(t, 3, count)

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	for _, reg := range regs {
		fireMinutes := reg.FireAt.Hour()*60 + reg.FireAt.Minute()
		assert.Less(t, fireMinutes, 600)
	}
}

func TestScheduleDay_DisabledOrNoTarget(t *testing.T) {
	scheduler, schedules, _ := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	// Disabled day
	schedule, err := schedules.GetSchedule(ctx, 2)
	require.NoError(t, err)
	count, err := scheduler.ScheduleDay(ctx, *schedule)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Enabled but no target time contributes no alarm
	enableDay(t, schedules, 3, "")
	schedule, err = schedules.GetSchedule(ctx, 3)
	require.NoError(t, err)
	count, err = scheduler.ScheduleDay(ctx, *schedule)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNextOccurrence_SameDayAndWrap(t *testing.T) {
	scheduler, _, _ := newSchedulerFixture(t, mondayMorning())
	now := mondayMorning() // Monday 07:00

	// Later today
	fireAt := scheduler.nextOccurrence(now, 1, 450) // 07:30
	assert.Equal(t, now.Add(30*time.Minute), fireAt)

	// Already past today: next Monday
	fireAt = scheduler.nextOccurrence(now, 1, 390) // 06:30
	assert.Equal(t, now.AddDate(0, 0, 7).Add(-30*time.Minute), fireAt)

	// Other weekday
	fireAt = scheduler.nextOccurrence(now, 3, 480) // Wednesday 08:00
	assert.Equal(t, time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC), fireAt)
}

func TestScheduleAllEnabled(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "09:58")
	enableDay(t, schedules, 2, "09:52")

	total, dayErrors, err := scheduler.ScheduleAllEnabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, dayErrors)
	assert.Equal(t, 4, total)

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	assert.Len(t, regs, 4)
}

func TestCancelTodayBackups_Idempotent(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "09:52")
	_, _, err := scheduler.ScheduleAllEnabled(ctx)
	require.NoError(t, err)

	require.NoError(t, scheduler.CancelTodayBackups(ctx))
	// Second call is a no-op, not an error
	require.NoError(t, scheduler.CancelTodayBackups(ctx))

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestCancelTodayBackups_LeavesOtherDays(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "09:58")
	enableDay(t, schedules, 2, "09:58")
	_, _, err := scheduler.ScheduleAllEnabled(ctx)
	require.NoError(t, err)

	require.NoError(t, scheduler.CancelTodayBackups(ctx))

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, 2, regs[0].Weekday)
}

func TestRescheduleAll(t *testing.T) {
	scheduler, schedules, registrar := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "09:58")
	_, _, err := scheduler.ScheduleAllEnabled(ctx)
	require.NoError(t, err)

	// Disable the day, reschedule: everything gone
	disabled := false
	_, _, err = schedules.UpdateSchedule(ctx, 1, ScheduleUpdate{Enabled: &disabled})
	require.NoError(t, err)

	total, dayErrors, err := scheduler.RescheduleAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, dayErrors)
	assert.Zero(t, total)

	regs, err := registrar.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestNextUpcoming(t *testing.T) {
	scheduler, schedules, _ := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	// Nothing scheduled
	next, err := scheduler.NextUpcoming(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)

	enableDay(t, schedules, 1, "07:30") // today, 30 minutes out
	enableDay(t, schedules, 3, "06:00") // Wednesday

	next, err = scheduler.NextUpcoming(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 1, next.Weekday)
	assert.Equal(t, "07:30", next.TargetTime)
	assert.Equal(t, mondayMorning().Add(30*time.Minute), next.FireAt)
}

func TestNextUpcoming_SkipsPassedToday(t *testing.T) {
	scheduler, schedules, _ := newSchedulerFixture(t, mondayMorning())
	ctx := context.Background()

	enableDay(t, schedules, 1, "06:30") // already past on Monday 07:00
	enableDay(t, schedules, 2, "09:00")

	next, err := scheduler.NextUpcoming(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Weekday)
}
