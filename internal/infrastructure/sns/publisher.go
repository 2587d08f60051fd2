package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/medimate-api/internal/config"
	"github.com/medimate-api/internal/domain"
)

// Publisher delivers a push payload to a delivery token (platform endpoint).
// Actual on-device rendering is the background agent's concern; this side only
// guarantees the payload contract shape.
type Publisher interface {
	Publish(ctx context.Context, token string, payload domain.PushPayload) error
}

type publisher struct {
	client *sns.Client
}

func NewPublisher(cfg *config.Config) (Publisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg)}, nil
}

func (p *publisher) Publish(ctx context.Context, token string, payload domain.PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	// SNS platform publish wraps the per-platform message in a JSON envelope;
	// GCM carries the payload verbatim to the device.
	envelope, err := json.Marshal(map[string]string{
		"default": payload.Notification.Body,
		"GCM":     string(body),
	})
	if err != nil {
		return fmt.Errorf("marshal publish envelope: %w", err)
	}
	msg := string(envelope)
	structure := "json"
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        &token,
		Message:          &msg,
		MessageStructure: &structure,
	})
	return err
}
