package models

// Message types exchanged between the foreground API and the delivery worker
// over the sync bridge.
const (
	MsgScheduledNotificationsList  = "SCHEDULED_NOTIFICATIONS_LIST"
	MsgScheduleNotification        = "SCHEDULE_NOTIFICATION"
	MsgScheduleUpdate              = "SCHEDULE_UPDATE"
	MsgGetScheduledNotifications   = "GET_SCHEDULED_NOTIFICATIONS"
	MsgCheckDailyChallengeReminder = "CHECK_DAILY_CHALLENGE_REMINDER"
)

// SyncMessage is the JSON envelope published on the sync channels. A full-list
// push is always authoritative: the worker replaces its entire armed-timer set
// with Notifications, superseding anything previously armed.
type SyncMessage struct {
	Type          string                  `json:"type"`
	Notifications []ScheduledNotification `json:"notifications,omitempty"`
	Notification  *ScheduledNotification  `json:"notification,omitempty"`
	UserID        string                  `json:"userId,omitempty"`
	Date          string                  `json:"date,omitempty"`
}
