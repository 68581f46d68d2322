package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var n ScheduledNotification
	n.ApplyDefaults()

	assert.Equal(t, DefaultReminderTitle, n.Title)
	assert.Equal(t, DefaultReminderBody, n.Body)
	assert.Equal(t, DefaultReminderIcon, n.Icon)
	assert.Equal(t, DefaultReminderBadge, n.Badge)
	assert.Equal(t, DefaultReminderTag, n.Tag)
	assert.Equal(t, DefaultReminderURL, n.Data["url"])

	// Caller-supplied values survive.
	n2 := ScheduledNotification{Title: "Custom", Data: map[string]string{"url": "/custom"}}
	n2.ApplyDefaults()
	assert.Equal(t, "Custom", n2.Title)
	assert.Equal(t, "/custom", n2.Data["url"])
}

func TestCollapseKey(t *testing.T) {
	n := ScheduledNotification{Tag: "daily-challenge"}
	at := time.Date(2026, 3, 11, 7, 30, 0, 0, time.Local)
	assert.Equal(t, "daily-challenge-2026-03-11", n.CollapseKey(at))
}

func TestFireTimeRoundTrip(t *testing.T) {
	var n ScheduledNotification
	at := time.Date(2026, 3, 11, 7, 30, 0, 0, time.Local)
	n.SetFireTime(at)
	assert.Equal(t, at.UnixMilli(), n.ScheduledTime)
	assert.True(t, n.FireTime().Equal(at))
}

func TestRepeatValid(t *testing.T) {
	assert.True(t, RepeatNone.Valid())
	assert.True(t, RepeatDaily.Valid())
	assert.True(t, RepeatWeekly.Valid())
	assert.False(t, Repeat("hourly").Valid())
	assert.False(t, Repeat("").Valid())
}
