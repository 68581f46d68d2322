package notification

import (
	"context"
	"fmt"

	userRepo "habitloop/database/repository/user"
	"habitloop/models"
	"habitloop/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	DisplayReminder(ctx context.Context, rec models.ScheduledNotification, collapseKey string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	return &DefaultNotificationService{Users: users}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push.
// A user with no registered token has not granted notification permission:
// the send is skipped without error, and the reminder schedule stays intact
// so pushes resume once a token is registered.
func (s *DefaultNotificationService) SendUserPushNotification(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		utils.GetLogger().Warn("user has no FCM token, skipping push", zap.String("userId", userID))
		return nil
	}

	if data == nil {
		data = map[string]string{}
	}
	if data["url"] == "" {
		data["url"] = models.DefaultReminderURL
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	return nil
}

// DisplayReminder materializes a fired reminder on the user's notification
// surface. collapseKey becomes the webpush tag so duplicate fires within the
// same day merge into one visible entry. The data payload carries the
// click-navigation contract: url (default /dashboard) and, when present,
// challengeId, so the client can focus an open app window or deep-link into
// the dashboard with context.
func (s *DefaultNotificationService) DisplayReminder(
	ctx context.Context,
	rec models.ScheduledNotification,
	collapseKey string,
) error {
	u, err := s.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		return fmt.Errorf("DisplayReminder: could not find user %s: %w", rec.UserID, err)
	}
	if u.FCMToken == "" {
		utils.GetLogger().Warn("user has no FCM token, skipping reminder display",
			zap.String("userId", rec.UserID), zap.String("reminderId", rec.ID))
		return nil
	}

	data := map[string]string{
		"reminderId": rec.ID,
		"tag":        collapseKey,
	}
	for k, v := range rec.Data {
		data[k] = v
	}
	if data["url"] == "" {
		data["url"] = models.DefaultReminderURL
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: rec.Title,
			Body:  rec.Body,
		},
		Data: data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: rec.Title,
				Body:  rec.Body,
				Icon:  rec.Icon,
				Badge: rec.Badge,
				Tag:   collapseKey,
			},
		},
		Android: &messaging.AndroidConfig{
			CollapseKey: collapseKey,
			Priority:    "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "reminders",
				Tag:       collapseKey,
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-collapse-id": collapseKey,
				"apns-priority":    "10",
				"apns-push-type":   "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("DisplayReminder: failed to send FCM message: %w", err)
	}
	return nil
}
