package schedule

import (
	"context"
	"time"

	scheduleRepo "habitloop/database/repository/schedule"
	"habitloop/models"
	"habitloop/utils"

	"go.uber.org/zap"
)

// Options carries the caller-facing display fields of a reminder. Empty
// fields fall back to the shared defaults in models.
type Options struct {
	Title       string
	Body        string
	Icon        string
	Badge       string
	Tag         string
	ChallengeID string
	Data        map[string]string
}

// ScheduleService turns user-facing reminder requests into validated
// ScheduledNotification records and keeps the delivery worker in sync after
// every mutation.
type ScheduleService interface {
	ScheduleOnce(ctx context.Context, userID string, when time.Time, opts Options) (string, error)
	ScheduleDaily(ctx context.Context, userID string, hour, minute int, opts Options) (string, error)
	ScheduleWeekly(ctx context.Context, userID string, weekday time.Weekday, hour, minute int, opts Options) (string, error)
	List(ctx context.Context, userID string) ([]models.ScheduledNotification, error)
	Remove(ctx context.Context, userID, id string) error
	SetEnabled(ctx context.Context, userID, id string, enabled bool) error
}

// SyncPublisher pushes schedule state to the delivery worker. Implemented by
// the redis sync bridge; pushes are best-effort and never fail a mutation.
type SyncPublisher interface {
	PublishList(ctx context.Context, recs []models.ScheduledNotification) error
	PublishNotification(ctx context.Context, rec models.ScheduledNotification) error
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo   scheduleRepo.ScheduledNotificationRepository
	Bridge SyncPublisher
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultScheduleService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}
