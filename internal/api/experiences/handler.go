package experiences

import (
	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

// Handler exposes the experience catalog, search, and pledge endpoints.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	group := router.Group("/experiences")
	group.Get("/", h.List)
	group.Get("/search", h.Search)
	group.Get("/:id", h.Get)
	group.Post("/:id/pledges", requireAuth, h.PostPledge)
}

// List handles GET /api/experiences.
func (h *Handler) List(ctx *fiber.Ctx) error {
	input := &ListInput{
		Status:   ctx.Query("status"),
		Category: ctx.Query("category"),
		Region:   ctx.Query("region"),
		Page:     ctx.QueryInt("page", 1),
		PageSize: ctx.QueryInt("pageSize", 0),
	}

	output, err := h.service.List(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.JSON(output)
}

// Search handles GET /api/experiences/search?q=.
func (h *Handler) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return errors.NewValidationFailedError("missing query parameter: q")
	}

	input := &SearchInput{
		Query:    query,
		Region:   ctx.Query("region"),
		Category: ctx.Query("category"),
	}

	output, err := h.service.Search(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.JSON(output)
}

// Get handles GET /api/experiences/:id.
func (h *Handler) Get(ctx *fiber.Ctx) error {
	exp, err := h.service.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(exp)
}

// PostPledge handles POST /api/experiences/:id/pledges.
func (h *Handler) PostPledge(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	body := ctx.Body()
	if err := validatePledgeBody(body); err != nil {
		return err
	}

	input := new(PledgeInput)
	if err := ctx.BodyParser(input); err != nil {
		return errors.NewValidationFailedError("invalid request body")
	}
	input.UserID = user.ID
	input.ExperienceID = ctx.Params("id")

	output, err := h.service.Pledge(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(output)
}
