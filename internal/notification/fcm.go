package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type FCMService struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewFCMService reads base64 service account JSON from FCM_SERVICE_ACCOUNT_JSON
// and falls back to the key file at localFilePath.
func NewFCMService(ctx context.Context, localFilePath string, log *zap.Logger) (*FCMService, error) {
	var opt option.ClientOption

	encodedCreds := os.Getenv("FCM_SERVICE_ACCOUNT_JSON")
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Info("FCM: initializing from FCM_SERVICE_ACCOUNT_JSON")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase key file %s not found and FCM_SERVICE_ACCOUNT_JSON is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		log.Info("FCM: initializing from key file", zap.String("path", localFilePath))
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, log: log}, nil
}

// SendPush sends one message per token; the batch endpoint is not used. It
// fails only when every send failed.
func (s *FCMService) SendPush(ctx context.Context, tokens []DeviceToken, title, body string, data map[string]any) error {
	if len(tokens) == 0 {
		return nil
	}

	stringData := make(map[string]string, len(data))
	for k, v := range data {
		stringData[k] = fmt.Sprintf("%v", v)
	}

	successCount, failureCount := 0, 0
	for _, t := range tokens {
		message := &messaging.Message{
			Token: t.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: stringData,
		}
		switch t.Platform {
		case "ios":
			message.APNS = &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{Aps: &messaging.Aps{Sound: "default"}},
			}
		default:
			message.Android = &messaging.AndroidConfig{
				Priority:     "high",
				Notification: &messaging.AndroidNotification{Sound: "default"},
			}
		}

		if _, err := s.client.Send(ctx, message); err != nil {
			s.log.Warn("FCM: send failed", zap.String("platform", t.Platform), zap.Error(err))
			failureCount++
			continue
		}
		successCount++
	}

	s.log.Debug("FCM: batch finished", zap.Int("sent", successCount), zap.Int("failed", failureCount))
	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d push notifications failed", failureCount)
	}
	return nil
}
