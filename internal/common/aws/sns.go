// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient publishes finished reports to the configured topic so
// downstream systems (CRM sync, ops digests) can pick them up. The
// report sender consumes it through its TopicPublisher interface.
type SNSClient struct {
	client *sns.Client
}

// NewSNSClient resolves credentials through the SDK default chain for
// the given region, same as the SES constructor.
func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	if region == "" {
		return nil, fmt.Errorf("aws region not configured")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config for sns: %w", err)
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

// Publish forwards to SNS. Deadlines come from the caller's context.
func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input)
}
