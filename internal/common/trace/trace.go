// Package trace provides request trace IDs and the middleware that stamps
// them on every response.
package trace

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderName = "X-Trace-Id"

// NewTraceID returns a fresh trace identifier.
func NewTraceID() string {
	return "zzik-" + uuid.NewString()
}

// Middleware propagates an incoming trace ID or mints a new one, storing it
// in ctx.Locals for handlers and the error handler.
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		traceID := ctx.Get(HeaderName)
		if traceID == "" {
			traceID = NewTraceID()
		}
		ctx.Locals("traceId", traceID)
		ctx.Set(HeaderName, traceID)
		return ctx.Next()
	}
}
