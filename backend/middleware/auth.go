package middleware

import (
	"project/backend/authz"
	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer token to a stored user and parks the
// resulting principal in the request locals. Handlers never read the token
// themselves; they take the principal from Principal(c) and pass it down
// explicitly.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		c.Locals(principalKey, authz.FromUser(user))
		return c.Next()
	}
}

// Principal returns the authenticated identity established by
// AuthMiddleware. The zero Principal is returned on unauthenticated
// routes.
func Principal(c *fiber.Ctx) authz.Principal {
	p, _ := c.Locals(principalKey).(authz.Principal)
	return p
}
