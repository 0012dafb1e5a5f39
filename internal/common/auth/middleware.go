// internal/common/auth/middleware.go
package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"zzik-backend/internal/common/errors"
)

// TokenVerifier resolves a bearer token to a user. Satisfied by
// ProviderClient; tests substitute a stub.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*AuthUser, error)
}

// Middleware returns a fiber handler that requires a valid bearer token and
// stores the resolved user in ctx.Locals("user").
func Middleware(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return errors.NewUnauthorizedError("missing bearer token")
		}

		user, err := verifier.VerifyToken(ctx.Context(), token)
		if err != nil {
			return err
		}

		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// OptionalMiddleware resolves a bearer token when one is present but lets
// anonymous requests through. Used on public endpoints that enrich their
// response for signed-in users.
func OptionalMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token != "" && token != header {
			if user, err := verifier.VerifyToken(ctx.Context(), token); err == nil {
				ctx.Locals("user", user)
			}
		}
		return ctx.Next()
	}
}

// UserFromCtx returns the authenticated user stored by Middleware.
func UserFromCtx(ctx *fiber.Ctx) *AuthUser {
	user, _ := ctx.Locals("user").(*AuthUser)
	return user
}
