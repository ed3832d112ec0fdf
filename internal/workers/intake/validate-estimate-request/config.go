// internal/workers/intake/validate-estimate-request/config.go
package validateestimaterequest

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
