package syncbridge

import (
	"context"
	"testing"
	"time"

	"habitloop/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBridge(client)
}

func receive(t *testing.T, msgs <-chan models.SyncMessage) models.SyncMessage {
	t.Helper()
	select {
	case msg := <-msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sync message")
		return models.SyncMessage{}
	}
}

func TestBridge_PublishListRoundTrip(t *testing.T) {
	bridge := newTestBridge(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, closeFn := bridge.SubscribeSync(ctx)
	defer closeFn()
	time.Sleep(100 * time.Millisecond) // let the subscription settle

	recs := []models.ScheduledNotification{
		{ID: "rem-1", UserID: "user-1", Title: "Log your run", Repeat: models.RepeatDaily, Enabled: true},
		{ID: "rem-2", UserID: "user-1", Repeat: models.RepeatNone, Enabled: false},
	}
	require.NoError(t, bridge.PublishList(ctx, recs))

	msg := receive(t, msgs)
	assert.Equal(t, models.MsgScheduledNotificationsList, msg.Type)
	require.Len(t, msg.Notifications, 2)
	assert.Equal(t, "rem-1", msg.Notifications[0].ID)
	assert.Equal(t, models.RepeatDaily, msg.Notifications[0].Repeat)
	assert.False(t, msg.Notifications[1].Enabled)
}

func TestBridge_PublishNotificationRoundTrip(t *testing.T) {
	bridge := newTestBridge(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, closeFn := bridge.SubscribeSync(ctx)
	defer closeFn()
	time.Sleep(100 * time.Millisecond)

	rec := models.ScheduledNotification{
		ID:            "rem-1",
		UserID:        "user-1",
		Title:         "Log your run",
		ScheduledTime: 1767945600000,
		Repeat:        models.RepeatWeekly,
		Enabled:       true,
		Data:          map[string]string{"challengeId": "ch-42"},
	}
	require.NoError(t, bridge.PublishNotification(ctx, rec))

	msg := receive(t, msgs)
	assert.Equal(t, models.MsgScheduleNotification, msg.Type)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, rec.ID, msg.Notification.ID)
	assert.Equal(t, rec.ScheduledTime, msg.Notification.ScheduledTime)
	assert.Equal(t, "ch-42", msg.Notification.Data["challengeId"])
}

func TestBridge_RequestChannelRoundTrip(t *testing.T) {
	bridge := newTestBridge(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, closeFn := bridge.SubscribeRequests(ctx)
	defer closeFn()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, bridge.RequestSchedule(ctx))
	msg := receive(t, msgs)
	assert.Equal(t, models.MsgGetScheduledNotifications, msg.Type)

	require.NoError(t, bridge.RequestReminderCheck(ctx, "user-1", "2026-03-11"))
	msg = receive(t, msgs)
	assert.Equal(t, models.MsgCheckDailyChallengeReminder, msg.Type)
	assert.Equal(t, "user-1", msg.UserID)
	assert.Equal(t, "2026-03-11", msg.Date)
}

func TestBridge_UpdateHintCarriesNoPayload(t *testing.T) {
	bridge := newTestBridge(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, closeFn := bridge.SubscribeSync(ctx)
	defer closeFn()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, bridge.PublishUpdateHint(ctx))

	msg := receive(t, msgs)
	assert.Equal(t, models.MsgScheduleUpdate, msg.Type)
	assert.Nil(t, msg.Notification)
	assert.Empty(t, msg.Notifications)
}
