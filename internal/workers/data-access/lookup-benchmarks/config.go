// internal/workers/data-access/lookup-benchmarks/config.go
package lookupbenchmarks

import (
	"fmt"
	"time"
)

type Config struct {
	Index   string
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Index:   "merchant_benchmarks",
		Timeout: 10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Index == "" {
		return fmt.Errorf("index must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
