package membership

import (
	"time"

	"zzik-backend/pkg/pricing"
)

type Config struct {
	DefaultRegion pricing.Region
	CacheTTL      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultRegion: pricing.RegionKR,
		CacheTTL:      10 * time.Minute,
	}
}
