package syncbridge

import (
	"context"
	"encoding/json"

	"habitloop/models"
	"habitloop/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Bridge is the message channel between the foreground API and the delivery
// worker, carried over redis pub/sub. Delivery is at-most-once and
// best-effort: a worker that missed pushes recovers on its next resync, and a
// starting foreground always pushes the authoritative full list.
type Bridge struct {
	client *redis.Client
	logger *zap.Logger
}

func NewBridge(client *redis.Client) *Bridge {
	return &Bridge{client: client, logger: utils.GetLogger()}
}

// PublishList pushes the complete current record set to the worker. The
// worker treats every list push as authoritative and replaces its entire
// armed-timer set.
func (b *Bridge) PublishList(ctx context.Context, recs []models.ScheduledNotification) error {
	return b.publish(ctx, utils.SyncChannel, models.SyncMessage{
		Type:          models.MsgScheduledNotificationsList,
		Notifications: recs,
	})
}

// PublishNotification pushes a single freshly created record so the worker
// can arm it without waiting for a full resync.
func (b *Bridge) PublishNotification(ctx context.Context, rec models.ScheduledNotification) error {
	return b.publish(ctx, utils.SyncChannel, models.SyncMessage{
		Type:         models.MsgScheduleNotification,
		Notification: &rec,
	})
}

// PublishUpdateHint tells the worker the schedule changed without carrying
// the records; the worker responds by requesting a fresh list.
func (b *Bridge) PublishUpdateHint(ctx context.Context) error {
	return b.publish(ctx, utils.SyncChannel, models.SyncMessage{Type: models.MsgScheduleUpdate})
}

// RequestSchedule asks the foreground for a fresh full-list push. Sent by the
// worker after its own (re)start.
func (b *Bridge) RequestSchedule(ctx context.Context) error {
	return b.publish(ctx, utils.SyncRequestChannel, models.SyncMessage{Type: models.MsgGetScheduledNotifications})
}

// RequestReminderCheck asks the foreground to run the incomplete-challenge
// check for one user on the given day.
func (b *Bridge) RequestReminderCheck(ctx context.Context, userID, date string) error {
	return b.publish(ctx, utils.SyncRequestChannel, models.SyncMessage{
		Type:   models.MsgCheckDailyChallengeReminder,
		UserID: userID,
		Date:   date,
	})
}

// SubscribeSync delivers foreground-to-worker messages. The returned close
// function must be called when done.
func (b *Bridge) SubscribeSync(ctx context.Context) (<-chan models.SyncMessage, func()) {
	return b.subscribe(ctx, utils.SyncChannel)
}

// SubscribeRequests delivers worker-to-foreground messages.
func (b *Bridge) SubscribeRequests(ctx context.Context) (<-chan models.SyncMessage, func()) {
	return b.subscribe(ctx, utils.SyncRequestChannel)
}

func (b *Bridge) publish(ctx context.Context, channel string, msg models.SyncMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *Bridge) subscribe(ctx context.Context, channel string) (<-chan models.SyncMessage, func()) {
	pubsub := b.client.Subscribe(ctx, channel)
	out := make(chan models.SyncMessage, 16)

	go func() {
		defer close(out)
		for m := range pubsub.Channel() {
			var msg models.SyncMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				b.logger.Warn("dropping malformed sync message", zap.Error(err), zap.String("channel", channel))
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }
}
