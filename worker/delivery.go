package worker

import (
	"context"
	"sync"
	"time"

	scheduleRepo "habitloop/database/repository/schedule"
	"habitloop/models"
	"habitloop/services/notification"
	"habitloop/services/schedule"
	"habitloop/utils"

	"go.uber.org/zap"
)

// ScheduleBridge is the worker's side of the sync channel.
type ScheduleBridge interface {
	SubscribeSync(ctx context.Context) (<-chan models.SyncMessage, func())
	RequestSchedule(ctx context.Context) error
}

// DeliveryWorker mirrors the store's enabled records as armed in-memory
// timers and pushes the notification when one elapses. The timer set is a
// derived, disposable cache: it is rebuilt from an authoritative full-list
// push (or a direct store read) on every start and on every schedule change,
// and is never treated as a source of truth.
type DeliveryWorker struct {
	Repo     scheduleRepo.ScheduledNotificationRepository
	Bridge   ScheduleBridge
	Notifier notification.NotificationService
	Logger   *zap.Logger
	Now      func() time.Time

	ctx context.Context

	mu           sync.Mutex
	timers       map[string]*time.Timer
	displayedDay string
	displayed    map[string]bool
}

func NewDeliveryWorker(
	repo scheduleRepo.ScheduledNotificationRepository,
	bridge ScheduleBridge,
	notifier notification.NotificationService,
) *DeliveryWorker {
	return &DeliveryWorker{
		Repo:      repo,
		Bridge:    bridge,
		Notifier:  notifier,
		timers:    make(map[string]*time.Timer),
		displayed: make(map[string]bool),
	}
}

func (w *DeliveryWorker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *DeliveryWorker) logger() *zap.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return utils.GetLogger()
}

func (w *DeliveryWorker) baseCtx() context.Context {
	if w.ctx != nil {
		return w.ctx
	}
	return context.Background()
}

// Run blocks until ctx is cancelled, processing sync pushes. On start it
// rebuilds the timer set from the store and additionally requests a fresh
// push, covering mutations in flight while the worker was down.
func (w *DeliveryWorker) Run(ctx context.Context) error {
	w.ctx = ctx
	logger := w.logger()

	msgs, closeFn := w.Bridge.SubscribeSync(ctx)
	defer closeFn()

	if recs, err := w.Repo.GetAll(ctx); err != nil {
		logger.Warn("delivery worker could not read schedule on start", zap.Error(err))
	} else {
		w.Resync(recs)
	}
	if err := w.Bridge.RequestSchedule(ctx); err != nil {
		logger.Warn("delivery worker could not request schedule", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			w.DisarmAll()
			return nil
		case msg, ok := <-msgs:
			if !ok {
				w.DisarmAll()
				return nil
			}
			switch msg.Type {
			case models.MsgScheduledNotificationsList:
				w.Resync(msg.Notifications)
			case models.MsgScheduleNotification:
				if msg.Notification != nil {
					w.Arm(*msg.Notification)
				}
			case models.MsgScheduleUpdate:
				// Hint without payload: re-read the store, fall back to a
				// full-list request.
				if recs, err := w.Repo.GetAll(ctx); err == nil {
					w.Resync(recs)
				} else if err := w.Bridge.RequestSchedule(ctx); err != nil {
					logger.Warn("delivery worker could not request schedule", zap.Error(err))
				}
			}
		}
	}
}

// Resync replaces the entire armed-timer set with the given record set. A
// later full-list push always supersedes whatever is currently armed, so a
// save racing an in-flight push resolves in favor of the last push.
func (w *DeliveryWorker) Resync(recs []models.ScheduledNotification) {
	w.mu.Lock()
	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
	due := w.armAllLocked(recs)
	w.mu.Unlock()

	for _, rec := range due {
		w.fire(rec)
	}
}

// Arm arms (or re-arms) the timer for a single record, firing immediately if
// the record is already due. Disabled records are disarmed instead.
func (w *DeliveryWorker) Arm(rec models.ScheduledNotification) {
	w.mu.Lock()
	if t, ok := w.timers[rec.ID]; ok {
		t.Stop()
		delete(w.timers, rec.ID)
	}
	var due *models.ScheduledNotification
	if rec.Enabled {
		if w.armLocked(rec) {
			due = &rec
		}
	}
	w.mu.Unlock()

	if due != nil {
		w.fire(*due)
	}
}

// DisarmAll stops every armed timer. The record set in the store is
// untouched; a later resync rebuilds everything.
func (w *DeliveryWorker) DisarmAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
}

// ArmedIDs returns the IDs with a currently armed timer.
func (w *DeliveryWorker) ArmedIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, 0, len(w.timers))
	for id := range w.timers {
		ids = append(ids, id)
	}
	return ids
}

// armAllLocked arms every enabled future record and returns the records that
// are already due and must fire now. Caller holds w.mu.
func (w *DeliveryWorker) armAllLocked(recs []models.ScheduledNotification) []models.ScheduledNotification {
	var due []models.ScheduledNotification
	for _, rec := range recs {
		if !rec.Enabled {
			continue
		}
		if w.armLocked(rec) {
			due = append(due, rec)
		}
	}
	return due
}

// armLocked arms a timer for rec and reports true when rec is already due.
// Caller holds w.mu.
func (w *DeliveryWorker) armLocked(rec models.ScheduledNotification) (dueNow bool) {
	delay := rec.FireTime().Sub(w.now())
	if delay <= 0 {
		return true
	}
	w.timers[rec.ID] = time.AfterFunc(delay, func() { w.fire(rec) })
	return false
}

// fire displays the notification and transitions the record: one-shots are
// deleted from the store, repeating records are advanced to their next future
// occurrence, persisted so the foreground stays consistent, and re-armed.
// Failures are logged and never propagated; the record stays armed at best
// effort. A record is dropped only when its repeat data is unusable.
func (w *DeliveryWorker) fire(rec models.ScheduledNotification) {
	ctx := w.baseCtx()
	logger := w.logger()
	now := w.now()

	if !rec.Repeat.Valid() {
		logger.Error("dropping reminder with corrupt repeat mode",
			zap.String("id", rec.ID), zap.String("repeat", string(rec.Repeat)))
		w.removeTimer(rec.ID)
		if err := w.Repo.Delete(ctx, rec.ID); err != nil {
			logger.Warn("failed to delete corrupt reminder", zap.Error(err), zap.String("id", rec.ID))
		}
		return
	}

	key := rec.CollapseKey(now)
	if w.shouldDisplay(key, now) {
		if err := w.Notifier.DisplayReminder(ctx, rec, key); err != nil {
			logger.Warn("failed to display reminder", zap.Error(err), zap.String("id", rec.ID))
		}
	}

	if rec.Repeat == models.RepeatNone {
		w.removeTimer(rec.ID)
		if err := w.Repo.Delete(ctx, rec.ID); err != nil {
			logger.Warn("failed to delete fired one-shot reminder", zap.Error(err), zap.String("id", rec.ID))
		}
		return
	}

	rec.SetFireTime(schedule.NextOccurrence(rec.FireTime(), rec.Repeat, now))
	if err := w.Repo.Save(ctx, rec); err != nil {
		// Re-armed in memory regardless; the next resync reconciles.
		logger.Warn("failed to persist advanced reminder", zap.Error(err), zap.String("id", rec.ID))
	}
	w.Arm(rec)
}

// shouldDisplay reports whether this collapse key has not yet been shown
// today. Duplicate fires sharing a key within the same day collapse to one
// visible notification.
func (w *DeliveryWorker) shouldDisplay(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := now.Format("2006-01-02")
	if day != w.displayedDay {
		w.displayedDay = day
		w.displayed = make(map[string]bool)
	}
	if w.displayed[key] {
		return false
	}
	w.displayed[key] = true
	return true
}

func (w *DeliveryWorker) removeTimer(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[id]; ok {
		t.Stop()
		delete(w.timers, id)
	}
}
