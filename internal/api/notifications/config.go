package notifications

import "time"

type Config struct {
	EmailEnabled   bool
	SMSEnabled     bool
	DebounceWindow time.Duration
	FeedPageSize   int
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled:   true,
		SMSEnabled:     false,
		DebounceWindow: 2 * time.Second,
		FeedPageSize:   50,
	}
}
