package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"routine-guard/internal/alert"
	"routine-guard/internal/clock"
	"routine-guard/internal/models"
	"routine-guard/internal/types"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SchedulerSettings supplies the alarm window tunables at call time.
type SchedulerSettings interface {
	GetSettings() types.SystemSettings
}

// UpcomingAlarm is the next primary alarm across all enabled schedules.
type UpcomingAlarm struct {
	Weekday    int       `json:"weekday"`
	TargetTime string    `json:"target_time"`
	FireAt     time.Time `json:"fire_at"`
}

// DayError is one weekday's registration failure inside a batch. The batch
// itself never aborts on it.
type DayError struct {
	Weekday int    `json:"weekday"`
	Message string `json:"message"`
}

// AlarmScheduler turns enabled DaySchedules into alert registrations: one
// primary occurrence per weekday plus backups at a fixed cadence, stopping
// strictly before the daily cutoff and within the relentless window.
type AlarmScheduler struct {
	db              *gorm.DB
	registrar       alert.Registrar
	settingsManager SchedulerSettings
	clock           clock.Clock
}

// NewAlarmScheduler creates an alarm scheduler.
func NewAlarmScheduler(db *gorm.DB, registrar alert.Registrar, settingsManager SchedulerSettings, clk clock.Clock) *AlarmScheduler {
	return &AlarmScheduler{
		db:              db,
		registrar:       registrar,
		settingsManager: settingsManager,
		clock:           clk,
	}
}

// maxBackupIndex is the highest backup index the current settings can emit.
// Cancellation regenerates identifiers up to this bound instead of tracking
// what was actually registered.
func (s *AlarmScheduler) maxBackupIndex() int {
	settings := s.settingsManager.GetSettings()
	if settings.BackupCadenceMinutes < 1 {
		return 0
	}
	return settings.BackupWindowMinutes / settings.BackupCadenceMinutes
}

// nextOccurrence computes the next absolute time the weekday's target comes
// around, strictly after now.
func (s *AlarmScheduler) nextOccurrence(now time.Time, weekday, targetMinutes int) time.Time {
	daysAhead := (weekday - clock.ISOWeekday(now) + 7) % 7
	candidate := clock.StartOfDay(now).
		AddDate(0, 0, daysAhead).
		Add(time.Duration(targetMinutes) * time.Minute)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// backupTimes generates the backup instants after primary: every cadence
// minutes, strictly before the cutoff and no later than the window end.
func (s *AlarmScheduler) backupTimes(primary time.Time) []time.Time {
	settings := s.settingsManager.GetSettings()
	cadence := time.Duration(settings.BackupCadenceMinutes) * time.Minute
	if cadence < time.Minute {
		return nil
	}
	cutoff := clock.StartOfDay(primary).Add(time.Duration(settings.AlarmCutoffMinutes) * time.Minute)
	windowEnd := primary.Add(time.Duration(settings.BackupWindowMinutes) * time.Minute)

	var backups []time.Time
	for t := primary.Add(cadence); t.Before(cutoff) && !t.After(windowEnd); t = t.Add(cadence) {
		backups = append(backups, t)
	}
	return backups
}

// ScheduleDay registers the primary and backup alarms for one schedule.
// Disabled days and days without a target time contribute nothing.
func (s *AlarmScheduler) ScheduleDay(ctx context.Context, schedule models.DaySchedule) (int, error) {
	if !schedule.Enabled || schedule.TargetTime == nil {
		return 0, nil
	}
	targetMinutes, err := clock.ParseMinutes(*schedule.TargetTime)
	if err != nil {
		return 0, fmt.Errorf("invalid target time %q: %w", *schedule.TargetTime, err)
	}

	primary := s.nextOccurrence(s.clock.Now(), schedule.Weekday, targetMinutes)
	instants := append([]time.Time{primary}, s.backupTimes(primary)...)

	for index, fireAt := range instants {
		reg := alert.Registration{
			ID:      alert.AlarmID(schedule.Weekday, index),
			Weekday: schedule.Weekday,
			Index:   index,
			FireAt:  fireAt,
		}
		if err := s.registrar.Register(ctx, reg); err != nil {
			return index, fmt.Errorf("failed to register %s: %w", reg.ID, err)
		}
	}
	return len(instants), nil
}

// ScheduleAllEnabled registers alarms for every enabled schedule. Days are
// independent, so registrations run concurrently; per-day failures are
// collected and reported, never aborting the batch.
func (s *AlarmScheduler) ScheduleAllEnabled(ctx context.Context) (int, []DayError, error) {
	schedules, err := s.listSchedules(ctx)
	if err != nil {
		return 0, nil, err
	}

	var (
		mu        sync.Mutex
		total     int
		dayErrors []DayError
		wg        sync.WaitGroup
	)
	for _, schedule := range schedules {
		wg.Add(1)
		go func(schedule models.DaySchedule) {
			defer wg.Done()
			count, err := s.ScheduleDay(ctx, schedule)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				dayErrors = append(dayErrors, DayError{Weekday: schedule.Weekday, Message: err.Error()})
				return
			}
			total += count
		}(schedule)
	}
	wg.Wait()

	sort.Slice(dayErrors, func(i, j int) bool { return dayErrors[i].Weekday < dayErrors[j].Weekday })
	if len(dayErrors) > 0 {
		logrus.WithField("failed_days", len(dayErrors)).Warn("Some days failed to schedule")
	}
	return total, dayErrors, nil
}

// CancelTodayBackups cancels today's remaining alarms by regenerating the
// identifier space for every possible index. Idempotent: cancelling alarms
// that were never registered is a no-op.
func (s *AlarmScheduler) CancelTodayBackups(ctx context.Context) error {
	weekday := clock.ISOWeekday(s.clock.Now())
	return s.cancelDay(ctx, weekday)
}

// CancelAll cancels every weekday's identifier space.
func (s *AlarmScheduler) CancelAll(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for weekday := 1; weekday <= 7; weekday++ {
		wg.Add(1)
		go func(weekday int) {
			defer wg.Done()
			if err := s.cancelDay(ctx, weekday); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(weekday)
	}
	wg.Wait()
	if len(errs) > 0 {
		return fmt.Errorf("failed to cancel %d day(s): %v", len(errs), errs[0])
	}
	return nil
}

// RescheduleAll cancels everything and schedules the enabled days again.
// Used after any configuration change.
func (s *AlarmScheduler) RescheduleAll(ctx context.Context) (int, []DayError, error) {
	if err := s.CancelAll(ctx); err != nil {
		return 0, nil, err
	}
	return s.ScheduleAllEnabled(ctx)
}

// NextUpcoming returns the enabled occurrence with the smallest positive
// delta from now, ties broken by smallest weekday distance. Returns nil when
// nothing is scheduled.
func (s *AlarmScheduler) NextUpcoming(ctx context.Context) (*UpcomingAlarm, error) {
	schedules, err := s.listSchedules(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var best *UpcomingAlarm
	for _, schedule := range schedules {
		if !schedule.Enabled || schedule.TargetTime == nil {
			continue
		}
		targetMinutes, err := clock.ParseMinutes(*schedule.TargetTime)
		if err != nil {
			continue
		}
		fireAt := s.nextOccurrence(now, schedule.Weekday, targetMinutes)
		candidate := &UpcomingAlarm{
			Weekday:    schedule.Weekday,
			TargetTime: *schedule.TargetTime,
			FireAt:     fireAt,
		}
		if best == nil || candidate.FireAt.Before(best.FireAt) {
			best = candidate
			continue
		}
		if candidate.FireAt.Equal(best.FireAt) &&
			weekdayDistance(now, candidate.Weekday) < weekdayDistance(now, best.Weekday) {
			best = candidate
		}
	}
	return best, nil
}

func weekdayDistance(now time.Time, weekday int) int {
	return (weekday - clock.ISOWeekday(now) + 7) % 7
}

func (s *AlarmScheduler) cancelDay(ctx context.Context, weekday int) error {
	maxIndex := s.maxBackupIndex()
	for index := 0; index <= maxIndex; index++ {
		if err := s.registrar.Cancel(ctx, alert.AlarmID(weekday, index)); err != nil {
			return fmt.Errorf("failed to cancel weekday %d: %w", weekday, err)
		}
	}
	return nil
}

func (s *AlarmScheduler) listSchedules(ctx context.Context) ([]models.DaySchedule, error) {
	var schedules []models.DaySchedule
	if err := s.db.WithContext(ctx).Order("weekday asc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}
