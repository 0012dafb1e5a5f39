package membership

import (
	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/logger"
	"zzik-backend/pkg/pricing"
)

// Handler exposes the membership pricing endpoints.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the membership endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/membership")
	group.Get("/pricing", h.GetPricing)
	group.Get("/tiers", h.GetTiers)
}

// GetPricing handles GET /api/membership/pricing?tier=&region=&period=.
func (h *Handler) GetPricing(ctx *fiber.Ctx) error {
	input := &PricingInput{
		Tier:   ctx.Query("tier"),
		Region: ctx.Query("region"),
		Period: ctx.Query("period"),
	}

	if err := validatePricingInput(input); err != nil {
		return err
	}

	output, err := h.service.GetPricing(ctx.Context(), input)
	if err != nil {
		h.logger.Warn("pricing lookup rejected", map[string]interface{}{
			"tier":   input.Tier,
			"region": input.Region,
			"period": input.Period,
			"error":  err.Error(),
		})
		return err
	}

	return ctx.JSON(output)
}

// GetTiers handles GET /api/membership/tiers?region=. Region defaults to the
// configured home market when omitted.
func (h *Handler) GetTiers(ctx *fiber.Ctx) error {
	region := pricing.Region(ctx.Query("region"))
	if region == "" {
		region = h.service.config.DefaultRegion
	}

	output, err := h.service.GetTiers(ctx.Context(), region)
	if err != nil {
		return err
	}

	return ctx.JSON(output)
}
