package notification

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/gofiber/fiber/v2/log"
)

type (
	// PushGateway delivers one push notification to one device token.
	// Implementations must treat delivery errors as soft failures.
	PushGateway interface {
		Send(ctx context.Context, token string, title string, body string, data map[string]string) error
	}

	fcmGateway struct {
		client *messaging.Client
	}

	logGateway struct{}
)

// NewFCMGateway delivers pushes through Firebase Cloud Messaging.
func NewFCMGateway(app *firebase.App) (PushGateway, error) {
	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, err
	}
	return &fcmGateway{client: client}, nil
}

func (g *fcmGateway) Send(ctx context.Context, token string, title string, body string, data map[string]string) error {
	_, err := g.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	return err
}

// NewLogGateway logs instead of sending. Used in development when no
// Firebase project is configured.
func NewLogGateway() PushGateway {
	return &logGateway{}
}

func (g *logGateway) Send(ctx context.Context, token string, title string, body string, data map[string]string) error {
	log.Infof("push (log only) token=%s title=%q body=%q", token, title, body)
	return nil
}
