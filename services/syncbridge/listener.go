package syncbridge

import (
	"context"

	scheduleRepo "habitloop/database/repository/schedule"
	"habitloop/models"
	"habitloop/utils"

	"go.uber.org/zap"
)

// ReminderChecker runs the incomplete-challenge check for one user.
type ReminderChecker interface {
	CheckUser(ctx context.Context, userID, date string) error
}

// ForegroundListener answers worker requests on behalf of the foreground: it
// serves full-list pushes (the worker cannot be trusted to hold state across
// restarts) and routes on-demand reminder checks to the sweep service.
type ForegroundListener struct {
	Bridge  *Bridge
	Repo    scheduleRepo.ScheduledNotificationRepository
	Checker ReminderChecker
	Logger  *zap.Logger
}

// Run blocks until ctx is cancelled. On startup it immediately pushes the
// authoritative full list so a worker that restarted while no foreground was
// reachable catches up.
func (l *ForegroundListener) Run(ctx context.Context) {
	logger := l.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}

	msgs, closeFn := l.Bridge.SubscribeRequests(ctx)
	defer closeFn()

	l.pushFullList(ctx, logger)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			switch msg.Type {
			case models.MsgGetScheduledNotifications:
				l.pushFullList(ctx, logger)
			case models.MsgCheckDailyChallengeReminder:
				if l.Checker == nil {
					continue
				}
				if err := l.Checker.CheckUser(ctx, msg.UserID, msg.Date); err != nil {
					logger.Warn("daily challenge reminder check failed",
						zap.Error(err), zap.String("userId", msg.UserID), zap.String("date", msg.Date))
				}
			}
		}
	}
}

func (l *ForegroundListener) pushFullList(ctx context.Context, logger *zap.Logger) {
	recs, err := l.Repo.GetAll(ctx)
	if err != nil {
		logger.Warn("failed to load schedule for worker request", zap.Error(err))
		return
	}
	if err := l.Bridge.PublishList(ctx, recs); err != nil {
		logger.Warn("failed to answer worker schedule request", zap.Error(err))
	}
}
