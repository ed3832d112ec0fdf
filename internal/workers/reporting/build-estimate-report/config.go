// internal/workers/reporting/build-estimate-report/config.go
package buildestimatereport

import (
	"fmt"
	"time"
)

type Config struct {
	Currency string
	Timeout  time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Currency: "USD",
		Timeout:  10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency must be a three letter code")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
