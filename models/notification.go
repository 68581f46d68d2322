package models

import "time"

// Repeat controls how a scheduled notification recurs after firing.
type Repeat string

const (
	RepeatNone   Repeat = "none"
	RepeatDaily  Repeat = "daily"
	RepeatWeekly Repeat = "weekly"
)

// Valid reports whether r is one of the known repeat modes.
func (r Repeat) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly:
		return true
	}
	return false
}

// Display defaults shared by the scheduler and the delivery worker.
// Call-site fallbacks are deliberately avoided; everything funnels
// through ApplyDefaults.
const (
	DefaultReminderTitle = "Daily Challenge Reminder"
	DefaultReminderBody  = "You have challenge tasks waiting for you today."
	DefaultReminderIcon  = "/icon-192.png"
	DefaultReminderBadge = "/icon-192.png"
	DefaultReminderTag   = "habitloop-reminder"
	DefaultReminderURL   = "/dashboard"
)

// ScheduledNotification is the persisted reminder record. ScheduledTime is
// milliseconds since epoch of the next fire. For enabled repeating records it
// always holds the next future occurrence; the worker normalizes it right
// after each fire.
type ScheduledNotification struct {
	ID            string            `bson:"id" json:"id"`
	UserID        string            `bson:"userId" json:"userId"`
	Title         string            `bson:"title" json:"title"`
	Body          string            `bson:"body" json:"body"`
	Icon          string            `bson:"icon,omitempty" json:"icon,omitempty"`
	Badge         string            `bson:"badge,omitempty" json:"badge,omitempty"`
	Tag           string            `bson:"tag,omitempty" json:"tag,omitempty"`
	ScheduledTime int64             `bson:"scheduledTime" json:"scheduledTime"`
	Repeat        Repeat            `bson:"repeat" json:"repeat"`
	Enabled       bool              `bson:"enabled" json:"enabled"`
	Data          map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// FireTime returns ScheduledTime as a time.Time.
func (n *ScheduledNotification) FireTime() time.Time {
	return time.UnixMilli(n.ScheduledTime)
}

// SetFireTime stores t as the next fire instant.
func (n *ScheduledNotification) SetFireTime(t time.Time) {
	n.ScheduledTime = t.UnixMilli()
}

// ApplyDefaults fills empty display fields with the shared defaults and
// guarantees the click-navigation payload carries a destination URL.
func (n *ScheduledNotification) ApplyDefaults() {
	if n.Title == "" {
		n.Title = DefaultReminderTitle
	}
	if n.Body == "" {
		n.Body = DefaultReminderBody
	}
	if n.Icon == "" {
		n.Icon = DefaultReminderIcon
	}
	if n.Badge == "" {
		n.Badge = DefaultReminderBadge
	}
	if n.Tag == "" {
		n.Tag = DefaultReminderTag
	}
	if n.Data == nil {
		n.Data = map[string]string{}
	}
	if n.Data["url"] == "" {
		n.Data["url"] = DefaultReminderURL
	}
}

// CollapseKey derives the tag handed to the notification surface so duplicate
// fires on the same day collapse to one visible entry.
func (n *ScheduledNotification) CollapseKey(at time.Time) string {
	return n.Tag + "-" + at.Format("2006-01-02")
}

// ReminderPayload is the asynq task payload for a queued reminder push.
type ReminderPayload struct {
	ReminderID  string `json:"reminderId"`
	UserID      string `json:"userId"`
	ChallengeID string `json:"challengeId,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Tag         string `json:"tag,omitempty"`
	FireDate    string `json:"fireDate"`
}
