package middleware

import (
	"learnpath/backend/config"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// AuthMiddleware requires a valid bearer token and stores its claims on the context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractClaimsFromToken(c, cfg.JWTSecret)
		if err != nil {
			return utils.WriteError(c, err)
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !cfg.IsAdmin(claims.Email) {
			return utils.WriteError(c, utils.NewForbidden("Forbidden - Admin access required"))
		}
		return c.Next()
	}
}

// Claims returns the caller set by AuthMiddleware, or nil.
func Claims(c *fiber.Ctx) *utils.Claims {
	claims, _ := c.Locals(claimsKey).(*utils.Claims)
	return claims
}
