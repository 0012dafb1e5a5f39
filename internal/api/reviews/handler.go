package reviews

import (
	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

// Handler exposes the review endpoints under /experiences/:id/reviews.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/experiences/:id/reviews", h.List)
	router.Post("/experiences/:id/reviews", requireAuth, h.PostReview)
}

// PostReview handles POST /api/experiences/:id/reviews.
func (h *Handler) PostReview(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	input := new(CreateInput)
	if err := ctx.BodyParser(input); err != nil {
		return errors.NewValidationFailedError("invalid request body")
	}
	input.UserID = user.ID
	input.ExperienceID = ctx.Params("id")

	review, err := h.service.Create(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(review)
}

// List handles GET /api/experiences/:id/reviews.
func (h *Handler) List(ctx *fiber.Ctx) error {
	input := &ListInput{
		ExperienceID: ctx.Params("id"),
		Page:         ctx.QueryInt("page", 1),
		PageSize:     ctx.QueryInt("pageSize", 0),
	}

	output, err := h.service.List(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.JSON(output)
}
