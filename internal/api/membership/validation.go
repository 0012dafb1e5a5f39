package membership

import (
	"fmt"
	"strings"

	"zzik-backend/internal/common/errors"
)

// validatePricingInput checks that the required query parameters are present.
// Value validation (is the tier/region/period supported) belongs to the
// pricing package, which reports the specific code.
func validatePricingInput(input *PricingInput) error {
	var missing []string
	if strings.TrimSpace(input.Tier) == "" {
		missing = append(missing, "tier")
	}
	if strings.TrimSpace(input.Region) == "" {
		missing = append(missing, "region")
	}
	if strings.TrimSpace(input.Period) == "" {
		missing = append(missing, "period")
	}
	if len(missing) > 0 {
		return errors.NewValidationFailedError(fmt.Sprintf("missing query parameters: %s", strings.Join(missing, ", ")))
	}
	return nil
}
