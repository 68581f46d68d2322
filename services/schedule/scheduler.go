package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"habitloop/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newID generates a time-based identifier with a random suffix.
func newID(now time.Time) string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// ScheduleOnce persists a one-shot reminder at the caller-supplied instant.
// A past instant is allowed; the worker fires it on its next check.
func (s *DefaultScheduleService) ScheduleOnce(ctx context.Context, userID string, when time.Time, opts Options) (string, error) {
	rec := s.buildRecord(userID, models.RepeatNone, when, opts)
	if err := s.persist(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ScheduleDaily persists a reminder repeating every day at hour:minute local
// time, starting at the next wall-clock occurrence.
func (s *DefaultScheduleService) ScheduleDaily(ctx context.Context, userID string, hour, minute int, opts Options) (string, error) {
	if err := validateClock(hour, minute); err != nil {
		return "", err
	}
	when := nextDailyOccurrence(hour, minute, s.now())
	rec := s.buildRecord(userID, models.RepeatDaily, when, opts)
	if err := s.persist(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ScheduleWeekly persists a reminder repeating every week on the given
// weekday at hour:minute local time.
func (s *DefaultScheduleService) ScheduleWeekly(ctx context.Context, userID string, weekday time.Weekday, hour, minute int, opts Options) (string, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return "", InvalidScheduleParamsError{Field: "weekday", Value: int(weekday)}
	}
	if err := validateClock(hour, minute); err != nil {
		return "", err
	}
	when := nextWeeklyOccurrence(weekday, hour, minute, s.now())
	rec := s.buildRecord(userID, models.RepeatWeekly, when, opts)
	if err := s.persist(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// List returns all reminder records owned by the user.
func (s *DefaultScheduleService) List(ctx context.Context, userID string) ([]models.ScheduledNotification, error) {
	return s.Repo.GetByUser(ctx, userID)
}

// Remove deletes a reminder by ID. Removing an absent ID succeeds; removing
// another user's reminder reports NotFoundError.
func (s *DefaultScheduleService) Remove(ctx context.Context, userID, id string) error {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec != nil && rec.UserID != userID {
		return NotFoundError{ID: id}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishAll(ctx)
	return nil
}

// SetEnabled toggles a reminder. Re-enabling a repeating reminder whose fire
// time drifted into the past normalizes it to the next future occurrence.
func (s *DefaultScheduleService) SetEnabled(ctx context.Context, userID, id string, enabled bool) error {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil || rec.UserID != userID {
		return NotFoundError{ID: id}
	}

	rec.Enabled = enabled
	if enabled && rec.Repeat != models.RepeatNone {
		now := s.now()
		if !rec.FireTime().After(now) {
			rec.SetFireTime(NextOccurrence(rec.FireTime(), rec.Repeat, now))
		}
	}
	if err := s.Repo.Save(ctx, *rec); err != nil {
		return err
	}
	s.publishAll(ctx)
	return nil
}

func validateClock(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return InvalidScheduleParamsError{Field: "hour", Value: hour}
	}
	if minute < 0 || minute > 59 {
		return InvalidScheduleParamsError{Field: "minute", Value: minute}
	}
	return nil
}

func (s *DefaultScheduleService) buildRecord(userID string, repeat models.Repeat, when time.Time, opts Options) models.ScheduledNotification {
	now := s.now()
	data := map[string]string{}
	for k, v := range opts.Data {
		data[k] = v
	}
	if opts.ChallengeID != "" {
		data["challengeId"] = opts.ChallengeID
	}

	rec := models.ScheduledNotification{
		ID:      newID(now),
		UserID:  userID,
		Title:   opts.Title,
		Body:    opts.Body,
		Icon:    opts.Icon,
		Badge:   opts.Badge,
		Tag:     opts.Tag,
		Repeat:  repeat,
		Enabled: true,
		Data:    data,
	}
	rec.SetFireTime(when)
	rec.ApplyDefaults()
	return rec
}

// persist saves the record and pushes the schedule to the worker: the full
// authoritative list plus a single-record fast path so the worker can arm the
// new reminder without waiting for a resync.
func (s *DefaultScheduleService) persist(ctx context.Context, rec models.ScheduledNotification) error {
	if err := s.Repo.Save(ctx, rec); err != nil {
		return err
	}
	if s.Bridge != nil {
		if err := s.Bridge.PublishNotification(ctx, rec); err != nil {
			s.logger().Warn("failed to push new reminder to worker", zap.Error(err), zap.String("id", rec.ID))
		}
	}
	s.publishAll(ctx)
	return nil
}

// publishAll pushes the complete current record set. Best-effort: a failed
// push is logged, never surfaced, since the next foreground start repeats it.
func (s *DefaultScheduleService) publishAll(ctx context.Context) {
	if s.Bridge == nil {
		return
	}
	recs, err := s.Repo.GetAll(ctx)
	if err != nil {
		s.logger().Warn("failed to load schedule for sync push", zap.Error(err))
		return
	}
	if err := s.Bridge.PublishList(ctx, recs); err != nil {
		s.logger().Warn("failed to push schedule to worker", zap.Error(err))
	}
}
