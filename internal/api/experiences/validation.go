package experiences

import (
	"strings"

	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/validation"
)

// pledgeSchema is the wire contract for POST /api/experiences/:id/pledges.
const pledgeSchema = `{
	"type": "object",
	"properties": {
		"amount": {
			"type": "integer",
			"minimum": 1,
			"maximum": 1000000
		},
		"message": {
			"type": "string",
			"maxLength": 500
		}
	},
	"required": ["amount"],
	"additionalProperties": false
}`

func validatePledgeBody(body []byte) error {
	result := validation.ValidateJSON(body, pledgeSchema)
	if !result.Valid {
		return errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
