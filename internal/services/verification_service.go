package services

import (
	"context"

	"routine-guard/internal/capability"
	"routine-guard/internal/clock"
	"routine-guard/internal/models"
	"routine-guard/internal/pipeline"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VerificationResult is what one verification attempt returns to the caller:
// the persisted record plus the streak state after a pass.
type VerificationResult struct {
	Record *models.Verification `json:"record"`
	Streak *models.StreakData   `json:"streak,omitempty"`
}

// VerificationService runs the pipeline over a capture and owns the side
// effects of an outcome: persisting the record, crediting the streak and
// retiring today's backup alarms on a pass.
type VerificationService struct {
	db        *gorm.DB
	pipeline  *pipeline.Orchestrator
	streak    *StreakService
	scheduler *AlarmScheduler
	schedules *ScheduleService
	clock     clock.Clock
}

// NewVerificationService creates a verification service.
func NewVerificationService(db *gorm.DB, orchestrator *pipeline.Orchestrator, streak *StreakService, scheduler *AlarmScheduler, schedules *ScheduleService, clk clock.Clock) *VerificationService {
	return &VerificationService{
		db:        db,
		pipeline:  orchestrator,
		streak:    streak,
		scheduler: scheduler,
		schedules: schedules,
		clock:     clk,
	}
}

// Verify evaluates one capture. Pass and fail outcomes are persisted; a
// cancelled capture or detector transport error yields no outcome and no
// record. attemptCount is caller-supplied and purely informational.
func (s *VerificationService) Verify(ctx context.Context, capture *capability.Capture, attemptCount int) (*VerificationResult, error) {
	outcome, err := s.pipeline.Run(ctx, capture)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	wasAlarmDay := false
	if schedule, err := s.schedules.GetSchedule(ctx, clock.ISOWeekday(now)); err == nil {
		wasAlarmDay = schedule.Enabled
	}

	if attemptCount < 1 {
		attemptCount = 1
	}
	record := &models.Verification{
		SessionID:    uuid.NewString(),
		Date:         clock.DayKey(now),
		WasAlarmDay:  wasAlarmDay,
		AttemptCount: attemptCount,
		Confidence:   outcome.Confidence,
		Degraded:     outcome.Degraded,
		Details:      datatypes.JSONMap(outcome.Details),
	}
	if outcome.Passed {
		record.Result = models.ResultPass
	} else {
		record.Result = models.ResultFail
		reason := string(outcome.FailureReason)
		record.FailureReason = &reason
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	result := &VerificationResult{Record: record}
	if outcome.Passed {
		streak, credited, err := s.streak.RecordCredit(ctx, wasAlarmDay)
		if err != nil {
			return nil, err
		}
		result.Streak = streak
		if !credited {
			logrus.WithField("date", record.Date).Debug("Day already credited")
		}
		if err := s.scheduler.CancelTodayBackups(ctx); err != nil {
			// The record and credit are already committed; a cancellation
			// failure only means extra prompts today.
			logrus.WithError(err).Warn("Failed to cancel today's backup alarms")
		}
	}
	return result, nil
}

// HistoryQuery returns the base query for listing verification records,
// newest first. Callers paginate it.
func (s *VerificationService) HistoryQuery() *gorm.DB {
	return s.db.Model(&models.Verification{}).Order("id desc")
}
