package sns

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/medimate-api/internal/config"
	"github.com/medimate-api/internal/domain"
)

// Registrar mints delivery tokens from client registration handles.
// The handle is what the client's background agent obtained from its push
// platform; the returned token is the opaque address this service publishes to.
type Registrar interface {
	Register(ctx context.Context, handle string) (string, error)
}

type registrar struct {
	client         *sns.Client
	platformAppARN string
}

func NewRegistrar(cfg *config.Config) (Registrar, error) {
	if cfg.SNSPlatformAppARN == "" {
		return nil, fmt.Errorf("no SNS platform application configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &registrar{client: sns.NewFromConfig(awsCfg), platformAppARN: cfg.SNSPlatformAppARN}, nil
}

func (r *registrar) Register(ctx context.Context, handle string) (string, error) {
	if handle == "" {
		return "", fmt.Errorf("no registration handle: %w", domain.ErrRegistrationUnavailable)
	}
	out, err := r.client.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: &r.platformAppARN,
		Token:                  &handle,
	})
	if err != nil {
		return "", fmt.Errorf("create platform endpoint: %v: %w", err, domain.ErrRegistrationUnavailable)
	}
	return *out.EndpointArn, nil
}
