package membership

import "zzik-backend/pkg/pricing"

type PricingInput struct {
	Tier   string `json:"tier"`
	Region string `json:"region"`
	Period string `json:"period"`
}

type PricingOutput struct {
	Tier     string  `json:"tier"`
	Region   string  `json:"region"`
	Period   string  `json:"period"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Display  string  `json:"display"`
}

// TierEntry is one row of the tier catalog: a tier with its localized
// monthly and yearly prices for the requested region.
type TierEntry struct {
	Tier    string        `json:"tier"`
	Monthly PricingOutput `json:"monthly"`
	Yearly  PricingOutput `json:"yearly"`
}

type TiersOutput struct {
	Region string      `json:"region"`
	Tiers  []TierEntry `json:"tiers"`
}

func newPricingOutput(tier pricing.Tier, region pricing.Region, period pricing.Period, price pricing.Price) PricingOutput {
	return PricingOutput{
		Tier:     string(tier),
		Region:   string(region),
		Period:   string(period),
		Amount:   price.Amount,
		Currency: string(price.Currency),
		Display:  pricing.FormatPrice(price),
	}
}
