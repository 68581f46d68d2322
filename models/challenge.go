package models

import "time"

// Challenge is the subset of a fitness challenge the reminder sweep needs:
// who participates and when their daily reminder should go out.
type Challenge struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Participants   []string  `bson:"participants" json:"participants"`
	StartDate      time.Time `bson:"startDate" json:"startDate"`
	EndDate        time.Time `bson:"endDate" json:"endDate"`
	Active         bool      `bson:"active" json:"active"`
	ReminderHour   int       `bson:"reminderHour" json:"reminderHour"`
	ReminderMinute int       `bson:"reminderMinute" json:"reminderMinute"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProgressLog records one day of logged progress for a participant.
// Date is the participant-local calendar day in YYYY-MM-DD form.
type ProgressLog struct {
	ID          string    `bson:"id" json:"id"`
	ChallengeID string    `bson:"challengeId" json:"challengeId"`
	UserID      string    `bson:"userId" json:"userId"`
	Date        string    `bson:"date" json:"date"`
	Points      int       `bson:"points" json:"points"`
	LoggedAt    time.Time `bson:"loggedAt" json:"loggedAt"`
}
