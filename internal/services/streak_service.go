package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"routine-guard/internal/clock"
	"routine-guard/internal/models"
	"routine-guard/internal/store"
	"routine-guard/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// creditLockTTL keeps the daily credit lock alive well past midnight so a
// clock skew between instances cannot double-credit a day.
const creditLockTTL = 48 * time.Hour

const (
	creditWriteAttempts = 3
	creditWriteBackoff  = 100 * time.Millisecond
)

// StreakService is the only writer of the StreakData singleton. Credit
// application runs in a single-writer critical section, with a store lock
// guaranteeing at most one credit per calendar day across instances.
type StreakService struct {
	db        *gorm.DB
	store     store.Store
	schedules *ScheduleService
	clock     clock.Clock
	mu        sync.Mutex
}

// NewStreakService creates a streak service.
func NewStreakService(db *gorm.DB, s store.Store, schedules *ScheduleService, clk clock.Clock) *StreakService {
	return &StreakService{
		db:        db,
		store:     s,
		schedules: schedules,
		clock:     clk,
	}
}

func creditLockKey(dayKey string) string {
	return "routine:credit:" + dayKey
}

// Get returns the streak singleton, creating it if needed.
func (s *StreakService) Get(ctx context.Context) (*models.StreakData, error) {
	var data models.StreakData
	if err := s.db.WithContext(ctx).
		Where(models.StreakData{ID: 1}).
		FirstOrCreate(&data).Error; err != nil {
		return nil, err
	}
	return &data, nil
}

// RecordCredit applies today's credit: gap scan, then increment. The second
// return value is false when today was already credited, which is not an
// error. On a persistence failure the day lock is released so the caller can
// retry.
func (s *StreakService) RecordCredit(ctx context.Context, wasScheduledDay bool) (*models.StreakData, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	today := clock.DayKey(now)

	acquired, err := s.store.SetNX(creditLockKey(today), []byte("1"), creditLockTTL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire credit lock: %w", err)
	}
	if !acquired {
		data, err := s.Get(ctx)
		if err != nil {
			return nil, false, err
		}
		return data, false, nil
	}

	enabled, err := s.schedules.EnabledByWeekday(ctx)
	if err != nil {
		s.releaseLock(today)
		return nil, false, err
	}

	var data models.StreakData
	err = s.creditTransaction(ctx, &data, enabled, now, today)
	if err != nil {
		s.releaseLock(today)
		return nil, false, err
	}

	logrus.WithFields(logrus.Fields{
		"current_streak": data.CurrentStreak,
		"longest_streak": data.LongestStreak,
		"scheduled_day":  wasScheduledDay,
	}).Info("Routine credit recorded")
	return &data, true, nil
}

// creditTransaction runs the credit write. SQLite lock contention with the
// dispatcher or a settings write is retried briefly before giving up.
func (s *StreakService) creditTransaction(ctx context.Context, data *models.StreakData, enabled map[int]bool, now time.Time, today string) error {
	var err error
	for attempt := 0; attempt < creditWriteAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(creditWriteBackoff)
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where(models.StreakData{ID: 1}).FirstOrCreate(data).Error; err != nil {
				return err
			}

			s.applyGapScan(data, enabled, now, today)

			data.CurrentStreak++
			if data.CurrentStreak > data.LongestStreak {
				data.LongestStreak = data.CurrentStreak
			}
			data.LastVerificationDate = &today
			data.TotalVerifications++

			return tx.Save(data).Error
		})
		if err == nil || !utils.IsDBLockError(err) {
			return err
		}
		logrus.WithError(err).Warn("Credit write hit lock contention, retrying")
	}
	return err
}

// applyGapScan walks the days strictly between the last verification and
// today. The first non-enabled day found resets the streak and stops the
// scan; a non-enabled today resets unconditionally, so streak state reflects
// reality before the day ends.
func (s *StreakService) applyGapScan(data *models.StreakData, enabled map[int]bool, now time.Time, today string) {
	if data.LastVerificationDate != nil {
		last, err := clock.ParseDayKey(*data.LastVerificationDate, now)
		if err == nil {
			for day := last.AddDate(0, 0, 1); clock.DayKey(day) < today; day = day.AddDate(0, 0, 1) {
				if !enabled[clock.ISOWeekday(day)] {
					s.resetLocked(data, today)
					break
				}
			}
		}
	}

	if !enabled[clock.ISOWeekday(now)] {
		s.resetLocked(data, today)
	}
}

// Reset zeroes the current streak and stamps the reset date. The longest
// streak is untouched.
func (s *StreakService) Reset(ctx context.Context) (*models.StreakData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.DayKey(s.clock.Now())
	var data models.StreakData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.StreakData{ID: 1}).FirstOrCreate(&data).Error; err != nil {
			return err
		}
		s.resetLocked(&data, today)
		return tx.Save(&data).Error
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *StreakService) resetLocked(data *models.StreakData, today string) {
	if data.CurrentStreak != 0 {
		logrus.WithField("previous_streak", data.CurrentStreak).Info("Streak reset")
	}
	data.CurrentStreak = 0
	data.LastStreakResetDate = &today
}

func (s *StreakService) releaseLock(today string) {
	if err := s.store.Delete(creditLockKey(today)); err != nil {
		logrus.WithError(err).Warn("Failed to release credit lock after persistence failure")
	}
}
