package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/CragHerk/accounts-api/internal/apperror"
	"github.com/CragHerk/accounts-api/internal/repository"
	jwtPkg "github.com/CragHerk/accounts-api/pkg/jwt"
)

// AuthMiddleware verifies the bearer token, loads the user it was
// issued for and attaches it to the request. The presented token must
// also match the one stored on the user row, so tokens cleared by
// logout stop working even before they expire.
func AuthMiddleware(tokens *jwtPkg.TokenManager, users *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.Unauthorized("Not authorized")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokens.Validate(tokenString)
		if err != nil {
			return apperror.Unauthorized("Not authorized")
		}

		user, err := users.GetByID(userID)
		if err != nil {
			return apperror.Unauthorized("Not authorized")
		}

		if user.Token == nil || *user.Token != tokenString {
			return apperror.Unauthorized("Not authorized")
		}

		c.Locals("user", user)
		return c.Next()
	}
}
