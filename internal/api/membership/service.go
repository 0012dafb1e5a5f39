package membership

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/pkg/pricing"
)

// Service computes membership pricing and serves the tier catalog. The tier
// catalog is cached in Redis per region; pricing itself is pure computation
// and never cached.
type Service struct {
	config *Config
	cache  *database.RedisClient
	logger logger.Logger
}

func NewService(config *Config, cache *database.RedisClient, log logger.Logger) *Service {
	return &Service{
		config: config,
		cache:  cache,
		logger: log,
	}
}

// GetPricing resolves a single tier/region/period combination.
func (s *Service) GetPricing(ctx context.Context, input *PricingInput) (*PricingOutput, error) {
	tier := pricing.Tier(input.Tier)
	region := pricing.Region(input.Region)
	period := pricing.Period(input.Period)

	price, err := pricing.Calculate(tier, region, period)
	if err != nil {
		return nil, mapPricingError(err)
	}

	out := newPricingOutput(tier, region, period, price)
	return &out, nil
}

// GetTiers returns the full tier catalog for a region, with monthly and
// yearly prices per tier. Cached per region; Redis failures degrade to a
// recompute, never to an error.
func (s *Service) GetTiers(ctx context.Context, region pricing.Region) (*TiersOutput, error) {
	if !pricing.IsValidRegion(region) {
		return nil, errors.NewInvalidPricingInputError(errors.ErrCodeInvalidRegion, fmt.Sprintf("region: %s", region))
	}

	cacheKey := tiersCacheKey(region)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var out TiersOutput
			if err := json.Unmarshal([]byte(cached), &out); err == nil {
				return &out, nil
			}
		}
	}

	out := &TiersOutput{Region: string(region)}
	for _, tier := range pricing.Tiers() {
		monthly, err := pricing.Calculate(tier, region, pricing.PeriodMonthly)
		if err != nil {
			return nil, mapPricingError(err)
		}
		yearly, err := pricing.Calculate(tier, region, pricing.PeriodYearly)
		if err != nil {
			return nil, mapPricingError(err)
		}
		out.Tiers = append(out.Tiers, TierEntry{
			Tier:    string(tier),
			Monthly: newPricingOutput(tier, region, pricing.PeriodMonthly, monthly),
			Yearly:  newPricingOutput(tier, region, pricing.PeriodYearly, yearly),
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.config.CacheTTL); err != nil {
				s.logger.Warn("tier catalog cache write failed", map[string]interface{}{
					"key":   cacheKey,
					"error": err.Error(),
				})
			}
		}
	}

	return out, nil
}

func tiersCacheKey(region pricing.Region) string {
	return fmt.Sprintf("pricing:tiers:%s", region)
}

func mapPricingError(err error) error {
	switch {
	case stderrors.Is(err, pricing.ErrInvalidTier):
		return errors.NewInvalidPricingInputError(errors.ErrCodeInvalidTier, err.Error())
	case stderrors.Is(err, pricing.ErrInvalidRegion):
		return errors.NewInvalidPricingInputError(errors.ErrCodeInvalidRegion, err.Error())
	case stderrors.Is(err, pricing.ErrInvalidPeriod):
		return errors.NewInvalidPricingInputError(errors.ErrCodeInvalidPeriod, err.Error())
	default:
		return errors.NewInternalError(err)
	}
}
