// internal/workers/communication/send-estimate-report/service.go
package sendestimatereport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"estimation-workers/internal/common/errors"
	"estimation-workers/internal/common/logger"
	"estimation-workers/internal/common/metrics"
	"estimation-workers/internal/models"
)

const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
	ChannelTopic   = "topic"
)

type Service struct {
	config  *Config
	logger  logger.Logger
	email   EmailSender
	webhook WebhookPoster
	topic   TopicPublisher
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:  config,
		logger:  deps.Logger,
		email:   deps.Email,
		webhook: deps.Webhook,
		topic:   deps.Topic,
	}
}

// webhookPayload is the JSON body pushed to webhook recipients. The
// structured report rides along so consumers are not forced to parse text.
type webhookPayload struct {
	Subject    string                 `json:"subject,omitempty"`
	Report     *models.EstimateReport `json:"report,omitempty"`
	ReportText string                 `json:"reportText"`
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	channel := strings.ToLower(strings.TrimSpace(input.Channel))

	s.logger.Info("Delivering estimate report", map[string]interface{}{
		"channel":   channel,
		"recipient": input.Recipient,
	})

	if err := s.validateInput(channel, input); err != nil {
		return nil, err
	}

	var messageID string
	var err error
	switch channel {
	case ChannelEmail:
		messageID, err = s.sendEmail(ctx, input)
	case ChannelWebhook:
		messageID, err = s.postWebhook(ctx, input)
	case ChannelTopic:
		messageID, err = s.publishTopic(ctx, input)
	}
	if err != nil {
		metrics.ReportDeliveries.WithLabelValues(channel, "failed").Inc()
		return nil, err
	}
	metrics.ReportDeliveries.WithLabelValues(channel, "delivered").Inc()

	s.logger.Info("Estimate report delivered", map[string]interface{}{
		"channel":   channel,
		"messageId": messageID,
	})

	return &Output{
		Delivered:   true,
		Channel:     channel,
		MessageID:   messageID,
		DeliveredAt: time.Now().UTC(),
	}, nil
}

func (s *Service) validateInput(channel string, input *Input) error {
	switch channel {
	case ChannelEmail, ChannelWebhook, ChannelTopic:
	default:
		return s.validationError(fmt.Sprintf("unknown delivery channel: %q", input.Channel))
	}

	if !s.channelEnabled(channel) {
		return s.validationError(fmt.Sprintf("%s channel is not enabled", channel))
	}

	if strings.TrimSpace(input.ReportText) == "" {
		return s.validationError("reportText is required")
	}

	switch channel {
	case ChannelEmail:
		if !isValidEmail(input.Recipient) {
			return errors.NewInvalidRecipientError(fmt.Sprintf("invalid email address: %q", input.Recipient))
		}
	case ChannelWebhook:
		if !isValidWebhookURL(input.Recipient) {
			return errors.NewInvalidRecipientError(fmt.Sprintf("invalid webhook URL: %q", input.Recipient))
		}
	}

	return nil
}

func (s *Service) channelEnabled(channel string) bool {
	switch channel {
	case ChannelEmail:
		return s.config.EmailEnabled && s.email != nil
	case ChannelWebhook:
		return s.config.WebhookEnabled && s.webhook != nil
	case ChannelTopic:
		return s.config.TopicEnabled && s.topic != nil
	}
	return false
}

func (s *Service) validationError(details string) *errors.StandardError {
	return &errors.StandardError{
		Code:      "VALIDATION_FAILED",
		Message:   "Report delivery validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (s *Service) sendEmail(ctx context.Context, input *Input) (string, error) {
	out, err := s.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{strings.TrimSpace(input.Recipient)},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String(s.subjectFor(input)),
				Charset: aws.String("UTF-8"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data:    aws.String(input.ReportText),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	if err != nil {
		return "", errors.NewReportDeliveryFailedError(ChannelEmail, err)
	}

	return aws.ToString(out.MessageId), nil
}

func (s *Service) postWebhook(ctx context.Context, input *Input) (string, error) {
	payload := webhookPayload{
		Subject:    s.subjectFor(input),
		Report:     input.Report,
		ReportText: input.ReportText,
	}

	wctx, cancel := context.WithTimeout(ctx, s.config.WebhookTimeout)
	defer cancel()

	if err := s.webhook.PostJSON(wctx, strings.TrimSpace(input.Recipient), payload); err != nil {
		if wctx.Err() == context.DeadlineExceeded {
			return "", errors.NewWebhookTimeoutError()
		}
		return "", errors.NewReportDeliveryFailedError(ChannelWebhook, err)
	}

	// Webhooks have no provider message id; mint one for correlation.
	return uuid.NewString(), nil
}

func (s *Service) publishTopic(ctx context.Context, input *Input) (string, error) {
	publish := &sns.PublishInput{
		TopicArn: aws.String(s.config.TopicARN),
		Message:  aws.String(input.ReportText),
	}
	if subject := s.subjectFor(input); subject != "" {
		publish.Subject = aws.String(subject)
	}
	if input.Report != nil {
		publish.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"reportId": {DataType: aws.String("String"), StringValue: aws.String(input.Report.ReportID)},
			"kind":     {DataType: aws.String("String"), StringValue: aws.String(input.Report.Kind)},
		}
	}

	out, err := s.topic.Publish(ctx, publish)
	if err != nil {
		return "", errors.NewReportDeliveryFailedError(ChannelTopic, err)
	}

	return aws.ToString(out.MessageId), nil
}

// subjectFor falls back to the report headline so deliveries stay
// meaningful when the process omits a subject.
func (s *Service) subjectFor(input *Input) string {
	if subject := strings.TrimSpace(input.Subject); subject != "" {
		return subject
	}
	if input.Report != nil && input.Report.Headline != "" {
		return input.Report.Headline
	}
	return "Your growth estimate"
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}

func isValidWebhookURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
