package notifications

import (
	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

// Handler exposes the notification feed endpoint.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/notifications", requireAuth, h.GetFeed)
}

// GetFeed handles GET /api/notifications.
func (h *Handler) GetFeed(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	output, err := h.service.Feed(ctx.Context(), user.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(output)
}
