package reminder

import (
	"context"
	"fmt"
	"time"

	challengeRepo "habitloop/database/repository/challenge"
	"habitloop/models"
	"habitloop/services/notification"
	"habitloop/services/tasks"
	"habitloop/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SweepService finds challenge participants who have not logged progress
// today and gets a reminder push to them: queued for the challenge's reminder
// hour during the nightly sweep, or sent immediately for on-demand checks.
type SweepService interface {
	SweepAll(ctx context.Context) error
	CheckUser(ctx context.Context, userID, date string) error
}

// DefaultSweepService is the production implementation.
type DefaultSweepService struct {
	Challenges challengeRepo.ChallengeRepository
	Notifier   notification.NotificationService
	Queue      *asynq.Client
	Logger     *zap.Logger
	Now        func() time.Time
}

func (s *DefaultSweepService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSweepService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// SweepAll enqueues one reminder per incomplete participant per active
// challenge, scheduled for the challenge's reminder hour (immediately when
// that hour already passed). Per-participant failures are logged and the
// sweep continues; the next nightly run covers anything missed.
func (s *DefaultSweepService) SweepAll(ctx context.Context) error {
	now := s.now()
	date := now.Format("2006-01-02")

	challenges, err := s.Challenges.GetActiveChallenges(ctx)
	if err != nil {
		return fmt.Errorf("sweep: failed to load active challenges: %w", err)
	}

	for _, ch := range challenges {
		fireAt := time.Date(now.Year(), now.Month(), now.Day(), ch.ReminderHour, ch.ReminderMinute, 0, 0, now.Location())
		for _, userID := range ch.Participants {
			logged, err := s.Challenges.HasLoggedProgress(ctx, userID, ch.ID, date)
			if err != nil {
				s.logger().Warn("sweep: progress lookup failed",
					zap.Error(err), zap.String("userId", userID), zap.String("challengeId", ch.ID))
				continue
			}
			if logged {
				continue
			}
			if err := s.enqueueReminder(userID, ch, date, fireAt); err != nil {
				s.logger().Warn("sweep: failed to enqueue reminder",
					zap.Error(err), zap.String("userId", userID), zap.String("challengeId", ch.ID))
			}
		}
	}
	return nil
}

// CheckUser runs the incomplete check for a single user on demand (worker
// request over the sync bridge) and pushes immediately when incomplete.
func (s *DefaultSweepService) CheckUser(ctx context.Context, userID, date string) error {
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	challenges, err := s.Challenges.GetActiveChallenges(ctx)
	if err != nil {
		return fmt.Errorf("reminder check: failed to load active challenges: %w", err)
	}

	for _, ch := range challenges {
		if !containsUser(ch.Participants, userID) {
			continue
		}
		logged, err := s.Challenges.HasLoggedProgress(ctx, userID, ch.ID, date)
		if err != nil {
			return fmt.Errorf("reminder check: progress lookup failed for challenge %s: %w", ch.ID, err)
		}
		if logged {
			continue
		}

		data := map[string]string{
			"url":         models.DefaultReminderURL,
			"challengeId": ch.ID,
			"tag":         "daily-challenge-reminder-" + date,
		}
		body := fmt.Sprintf("You haven't logged progress for %s today. Keep your streak alive!", ch.Name)
		if err := s.Notifier.SendUserPushNotification(ctx, userID, models.DefaultReminderTitle, body, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultSweepService) enqueueReminder(userID string, ch models.Challenge, date string, fireAt time.Time) error {
	payload := models.ReminderPayload{
		ReminderID:  fmt.Sprintf("sweep-%s-%s-%s", ch.ID, userID, date),
		UserID:      userID,
		ChallengeID: ch.ID,
		Title:       models.DefaultReminderTitle,
		Body:        fmt.Sprintf("You haven't logged progress for %s today. Keep your streak alive!", ch.Name),
		Tag:         "daily-challenge-reminder-" + date,
		FireDate:    fireAt.Format(time.RFC3339),
	}

	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Queue.Enqueue(task, opts...)
	return err
}

func containsUser(participants []string, userID string) bool {
	for _, p := range participants {
		if p == userID {
			return true
		}
	}
	return false
}
