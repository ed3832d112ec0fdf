// internal/workers/communication/send-estimate-report/config.go
package sendestimatereport

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`

	EmailEnabled bool   `mapstructure:"email_enabled"`
	FromEmail    string `mapstructure:"from_email"`

	WebhookEnabled bool          `mapstructure:"webhook_enabled"`
	WebhookTimeout time.Duration `mapstructure:"webhook_timeout"`

	TopicEnabled bool   `mapstructure:"topic_enabled"`
	TopicARN     string `mapstructure:"topic_arn"`

	AWSRegion string `mapstructure:"aws_region"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        30 * time.Second,
		EmailEnabled:   false,
		WebhookEnabled: true,
		WebhookTimeout: 10 * time.Second,
		TopicEnabled:   false,
		AWSRegion:      "us-east-1",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if !c.EmailEnabled && !c.WebhookEnabled && !c.TopicEnabled {
		return fmt.Errorf("at least one delivery channel must be enabled")
	}
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when the email channel is enabled")
	}
	if c.WebhookEnabled && c.WebhookTimeout <= 0 {
		return fmt.Errorf("webhook_timeout must be positive")
	}
	if c.TopicEnabled && c.TopicARN == "" {
		return fmt.Errorf("topic_arn is required when the topic channel is enabled")
	}
	return nil
}
