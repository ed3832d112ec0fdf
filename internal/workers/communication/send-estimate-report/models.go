// internal/workers/communication/send-estimate-report/models.go
package sendestimatereport

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/models"
)

type Input struct {
	Channel    string                 `json:"channel"`
	Recipient  string                 `json:"recipient,omitempty"`
	Subject    string                 `json:"subject,omitempty"`
	Report     *models.EstimateReport `json:"report,omitempty"`
	ReportText string                 `json:"reportText"`
}

type Output struct {
	Delivered   bool      `json:"delivered"`
	Channel     string    `json:"channel"`
	MessageID   string    `json:"messageId,omitempty"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// EmailSender is the slice of the SES API the email channel uses.
// *aws.SESClient satisfies it.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// TopicPublisher is the slice of the SNS API the topic channel uses.
// *aws.SNSClient satisfies it.
type TopicPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// WebhookPoster posts a JSON payload and reports non-2xx responses as errors.
type WebhookPoster interface {
	PostJSON(ctx context.Context, url string, payload interface{}) error
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Email   EmailSender
	Webhook WebhookPoster
	Topic   TopicPublisher
}
