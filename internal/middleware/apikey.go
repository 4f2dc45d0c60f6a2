package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/services"
)

const identityKey = "identity"

// APIKeyRequired authenticates the X-API-Key header on every request and
// stores the resolved Identity in ctx locals for the handlers.
func APIKeyRequired(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: missing X-API-Key",
			})
		}

		identity, err := auth.Authenticate(key)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid API key",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// AdminRequired rejects non-admin callers. Must run after APIKeyRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := services.RequireAdmin(GetIdentity(c)); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// GetIdentity returns the authenticated caller, or nil on public routes.
func GetIdentity(c *fiber.Ctx) *services.Identity {
	id, _ := c.Locals(identityKey).(*services.Identity)
	return id
}
