// Package pricing computes localized membership prices for ZZIK VIP tiers.
//
// Base prices are maintained in KRW, the reference currency. Every supported
// region carries a fixed exchange rate and a currency-specific rounding rule.
// Unsupported tier/region/period combinations are rejected rather than
// defaulted: a silently defaulted price is a mispriced transaction.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// Tier is a named membership level controlling feature access and price.
type Tier string

const (
	TierFree     Tier = "free"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

// Region is a geographic market determining currency and localized price.
type Region string

const (
	RegionKR Region = "KR"
	RegionUS Region = "US"
	RegionJP Region = "JP"
)

// Period is the billing cadence.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// CurrencyCode is an ISO 4217 currency code.
type CurrencyCode string

const (
	KRW CurrencyCode = "KRW"
	USD CurrencyCode = "USD"
	JPY CurrencyCode = "JPY"
)

// Price is a computed localized price. It is derived on every call and never
// stored.
type Price struct {
	Amount   float64      `json:"amount"`
	Currency CurrencyCode `json:"currency"`
}

var (
	ErrInvalidTier   = errors.New("INVALID_TIER")
	ErrInvalidRegion = errors.New("INVALID_REGION")
	ErrInvalidPeriod = errors.New("INVALID_PERIOD")
)

// baseMonthlyKRW holds the reference monthly price per paid tier. Yearly is
// twelve monthly periods billed at once; there is no yearly discount in the
// reference table.
var baseMonthlyKRW = map[Tier]float64{
	TierFree:     0,
	TierSilver:   9900,
	TierGold:     15900,
	TierPlatinum: 29900,
	TierDiamond:  49900,
}

// psychologicalOffset is subtracted from the already-rounded USD amount.
// Note the order: round to cents first, then subtract. The result lands one
// cent below the naive round, not on a ".99" ending. Kept as shipped.
const psychologicalOffset = 0.01

type regionRule struct {
	currency CurrencyCode
	rate     float64
	round    func(float64) float64
}

var regionRules = map[Region]regionRule{
	// Reference currency: nearest whole won, no subunits.
	RegionKR: {currency: KRW, rate: 1.0, round: roundUnit},
	// JPY has no subunit; prices round to the nearest 10 yen.
	RegionJP: {currency: JPY, rate: 0.11, round: roundTen},
	// USD rounds to cents, then takes the psychological offset.
	RegionUS: {currency: USD, rate: 0.00075, round: roundCentsWithOffset},
}

func roundUnit(v float64) float64 {
	return math.Round(v)
}

func roundTen(v float64) float64 {
	return math.Round(v/10) * 10
}

func roundCentsWithOffset(v float64) float64 {
	return math.Round(v*100)/100 - psychologicalOffset
}

// Calculate returns the localized price for a tier, region, and billing
// period. The free tier is always zero in the reference currency regardless
// of region.
func Calculate(tier Tier, region Region, period Period) (Price, error) {
	base, ok := baseMonthlyKRW[tier]
	if !ok {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	rule, ok := regionRules[region]
	if !ok {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidRegion, region)
	}

	var months float64
	switch period {
	case PeriodMonthly:
		months = 1
	case PeriodYearly:
		months = 12
	default:
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	if tier == TierFree {
		return Price{Amount: 0, Currency: KRW}, nil
	}

	referenceKRW := base * months
	return Price{
		Amount:   rule.round(referenceKRW * rule.rate),
		Currency: rule.currency,
	}, nil
}

// Tiers returns the supported tiers in ascending order of privilege.
func Tiers() []Tier {
	return []Tier{TierFree, TierSilver, TierGold, TierPlatinum, TierDiamond}
}

// Regions returns the supported regions.
func Regions() []Region {
	return []Region{RegionKR, RegionUS, RegionJP}
}

// Periods returns the supported billing periods.
func Periods() []Period {
	return []Period{PeriodMonthly, PeriodYearly}
}

// IsValidTier reports whether t is a supported tier.
func IsValidTier(t Tier) bool {
	_, ok := baseMonthlyKRW[t]
	return ok
}

// IsValidRegion reports whether r is a supported region.
func IsValidRegion(r Region) bool {
	_, ok := regionRules[r]
	return ok
}
