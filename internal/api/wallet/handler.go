package wallet

import (
	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

const defaultEntryLimit = 50

// Handler exposes the wallet endpoints. All of them require auth.
type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	group := router.Group("/wallet", requireAuth)
	group.Get("/", h.GetBalance)
	group.Post("/earn", h.PostEarn)
	group.Post("/spend", h.PostSpend)
}

// GetBalance handles GET /api/wallet.
func (h *Handler) GetBalance(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	limit := ctx.QueryInt("limit", defaultEntryLimit)
	if limit < 1 || limit > 200 {
		limit = defaultEntryLimit
	}

	output, err := h.service.Balance(ctx.Context(), user.ID, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(output)
}

// PostEarn handles POST /api/wallet/earn.
func (h *Handler) PostEarn(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	input := new(EarnInput)
	if err := ctx.BodyParser(input); err != nil {
		return errors.NewValidationFailedError("invalid request body")
	}
	input.UserID = user.ID

	output, err := h.service.Earn(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(output)
}

// PostSpend handles POST /api/wallet/spend.
func (h *Handler) PostSpend(ctx *fiber.Ctx) error {
	user := auth.UserFromCtx(ctx)
	if user == nil {
		return errors.NewUnauthorizedError("missing authenticated user")
	}

	input := new(SpendInput)
	if err := ctx.BodyParser(input); err != nil {
		return errors.NewValidationFailedError("invalid request body")
	}
	input.UserID = user.ID

	output, err := h.service.Spend(ctx.Context(), input)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(output)
}
