package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"habitloop/models"
	"habitloop/services/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	mu   sync.Mutex
	recs map[string]models.ScheduledNotification
}

func newFakeRepo(recs ...models.ScheduledNotification) *fakeRepo {
	r := &fakeRepo{recs: make(map[string]models.ScheduledNotification)}
	for _, rec := range recs {
		r.recs[rec.ID] = rec
	}
	return r
}

func (r *fakeRepo) Save(_ context.Context, rec models.ScheduledNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[rec.ID] = rec
	return nil
}

func (r *fakeRepo) GetAll(_ context.Context) ([]models.ScheduledNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ScheduledNotification{}
	for _, rec := range r.recs {
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeRepo) GetByUser(_ context.Context, userID string) ([]models.ScheduledNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ScheduledNotification{}
	for _, rec := range r.recs {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.ScheduledNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recs, id)
	return nil
}

func (r *fakeRepo) get(id string) (models.ScheduledNotification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	return rec, ok
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recs)
}

type displayedReminder struct {
	rec         models.ScheduledNotification
	collapseKey string
}

type fakeNotifier struct {
	mu        sync.Mutex
	displayed []displayedReminder
}

func (n *fakeNotifier) SendUserPushNotification(_ context.Context, _, _, _ string, _ map[string]string) error {
	return nil
}

func (n *fakeNotifier) DisplayReminder(_ context.Context, rec models.ScheduledNotification, collapseKey string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.displayed = append(n.displayed, displayedReminder{rec: rec, collapseKey: collapseKey})
	return nil
}

func (n *fakeNotifier) calls() []displayedReminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]displayedReminder, len(n.displayed))
	copy(out, n.displayed)
	return out
}

func newTestWorker(repo *fakeRepo, notifier *fakeNotifier, now time.Time) *DeliveryWorker {
	w := NewDeliveryWorker(repo, nil, notifier)
	w.Logger = zap.NewNop()
	w.Now = func() time.Time { return now }
	return w
}

func record(id string, fireAt time.Time, repeat models.Repeat) models.ScheduledNotification {
	rec := models.ScheduledNotification{
		ID:            id,
		UserID:        "user-1",
		Title:         "Log your run",
		Body:          "Don't miss today",
		ScheduledTime: fireAt.UnixMilli(),
		Repeat:        repeat,
		Enabled:       true,
	}
	rec.ApplyDefaults()
	return rec
}

func TestResync_ArmsOnlyEnabledRecords(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	future := now.Add(time.Hour)

	enabled := record("rem-1", future, models.RepeatDaily)
	disabled := record("rem-2", future, models.RepeatDaily)
	disabled.Enabled = false

	repo := newFakeRepo(enabled, disabled)
	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier, now)

	w.Resync([]models.ScheduledNotification{enabled, disabled})

	ids := w.ArmedIDs()
	require.Len(t, ids, 1)
	assert.Equal(t, "rem-1", ids[0])
	assert.Empty(t, notifier.calls())

	w.DisarmAll()
	assert.Empty(t, w.ArmedIDs())
}

func TestResync_DueDailyFiresAndAdvances(t *testing.T) {
	now := time.Date(2026, 3, 11, 7, 31, 0, 0, time.Local)
	fireAt := time.Date(2026, 3, 11, 7, 30, 0, 0, time.Local)

	rec := record("rem-1", fireAt, models.RepeatDaily)
	repo := newFakeRepo(rec)
	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier, now)

	w.Resync([]models.ScheduledNotification{rec})

	calls := notifier.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "rem-1", calls[0].rec.ID)
	assert.Equal(t, rec.Tag+"-2026-03-11", calls[0].collapseKey)

	// Advanced exactly one day and persisted; identity untouched.
	saved, ok := repo.get("rem-1")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 12, 7, 30, 0, 0, time.Local), saved.FireTime())
	assert.Equal(t, rec.Title, saved.Title)
	assert.Equal(t, rec.Body, saved.Body)
	assert.Equal(t, models.RepeatDaily, saved.Repeat)

	// Re-armed for the next occurrence.
	assert.Equal(t, []string{"rem-1"}, w.ArmedIDs())
	w.DisarmAll()
}

func TestResync_DueOneShotFiresAndIsDeleted(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)
	rec := record("rem-1", now.Add(-time.Minute), models.RepeatNone)

	repo := newFakeRepo(rec)
	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier, now)

	w.Resync([]models.ScheduledNotification{rec})

	require.Len(t, notifier.calls(), 1)
	_, ok := repo.get("rem-1")
	assert.False(t, ok)
	assert.Empty(t, w.ArmedIDs())
}

func TestFire_SameCollapseKeyDisplaysOnce(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)

	a := record("rem-1", now.Add(-time.Minute), models.RepeatNone)
	b := record("rem-2", now.Add(-time.Minute), models.RepeatNone)
	a.Tag = "daily-challenge"
	b.Tag = "daily-challenge"

	repo := newFakeRepo(a, b)
	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier, now)

	w.Resync([]models.ScheduledNotification{a, b})

	// Both records fired and were removed, but only one reached the surface.
	assert.Len(t, notifier.calls(), 1)
	assert.Equal(t, 0, repo.count())
}

func TestResync_LaterListSupersedes(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	rec := record("rem-1", now.Add(time.Hour), models.RepeatDaily)

	repo := newFakeRepo(rec)
	w := newTestWorker(repo, &fakeNotifier{}, now)

	w.Resync([]models.ScheduledNotification{rec})
	require.Len(t, w.ArmedIDs(), 1)

	// An empty authoritative list disarms everything previously armed.
	w.Resync(nil)
	assert.Empty(t, w.ArmedIDs())
}

func TestFire_CorruptRepeatDropsRecord(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)
	rec := record("rem-1", now.Add(-time.Minute), models.Repeat("hourly"))

	repo := newFakeRepo(rec)
	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier, now)

	w.Resync([]models.ScheduledNotification{rec})

	assert.Empty(t, notifier.calls())
	_, ok := repo.get("rem-1")
	assert.False(t, ok)
	assert.Empty(t, w.ArmedIDs())
}

func TestArm_DisabledRecordIsDisarmed(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	rec := record("rem-1", now.Add(time.Hour), models.RepeatDaily)

	repo := newFakeRepo(rec)
	w := newTestWorker(repo, &fakeNotifier{}, now)

	w.Arm(rec)
	require.Len(t, w.ArmedIDs(), 1)

	rec.Enabled = false
	w.Arm(rec)
	assert.Empty(t, w.ArmedIDs())
}

// Exercises the scheduler and the worker against a shared store the way the
// app runs them: schedule a 07:30 daily reminder, restart past the fire time,
// observe one display and the schedule advanced to the next day.
func TestDailyReminderLifecycle(t *testing.T) {
	scheduleNow := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	repo := newFakeRepo()
	svc := &schedule.DefaultScheduleService{
		Repo:   repo,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return scheduleNow },
	}

	id, err := svc.ScheduleDaily(context.Background(), "user-1", 7, 30, schedule.Options{
		Title: "Log your run",
		Body:  "Don't miss today",
	})
	require.NoError(t, err)

	// Scheduled at 08:00, so the first fire is tomorrow 07:30.
	created, ok := repo.get(id)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 3, 11, 7, 30, 0, 0, time.Local), created.FireTime())

	// Worker comes up one minute after the fire time.
	workerNow := time.Date(2026, 3, 11, 7, 31, 0, 0, time.Local)
	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier, workerNow)

	recs, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	w.Resync(recs)

	calls := notifier.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Log your run", calls[0].rec.Title)
	assert.Equal(t, "Don't miss today", calls[0].rec.Body)

	advanced, ok := repo.get(id)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 12, 7, 30, 0, 0, time.Local), advanced.FireTime())
	assert.Equal(t, []string{id}, w.ArmedIDs())

	w.DisarmAll()
}
