package checkin

import (
	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

// Handler exposes the check-in and leaderboard endpoints.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the endpoints. The check-in route requires auth; the
// leaderboard is public but enriches the response for authenticated callers.
func (h *Handler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	router.Post("/experiences/:id/checkins", requireAuth, h.PostCheckIn)
	router.Get("/leaderboard", optionalAuth, h.GetLeaderboard)
}

// PostCheckIn handles POST /api/experiences/:id/checkins.
func (h *Handler) PostCheckIn(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	input := &CheckInInput{
		UserID:       user.ID,
		ExperienceID: ctx.Params("id"),
	}

	output, err := h.service.CheckIn(ctx.Context(), input)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	if output.Duplicate {
		status = fiber.StatusOK
	}
	return ctx.Status(status).JSON(output)
}

// GetLeaderboard handles GET /api/leaderboard. An experienceId query switches
// to that experience's board.
func (h *Handler) GetLeaderboard(ctx *fiber.Ctx) error {
	input := &LeaderboardInput{
		ExperienceID: ctx.Query("experienceId"),
	}
	if user := auth.UserFromCtx(ctx); user != nil {
		input.UserID = user.ID
	}

	output, err := h.service.Leaderboard(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.JSON(output)
}
