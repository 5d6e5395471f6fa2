package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Coxless/wtenv/internal/logger"
)

// AuthMiddleware guards the API with a static bearer token.
type AuthMiddleware struct {
	token []byte
}

// NewAuthMiddleware returns nil when token is empty; a nil middleware lets
// every request through.
func NewAuthMiddleware(token string) *AuthMiddleware {
	if token == "" {
		return nil
	}
	return &AuthMiddleware{token: []byte(token)}
}

// RequireAuth is a middleware that checks for valid authentication
func (am *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	if am == nil {
		return c.Next()
	}

	// Health checks stay open for supervisors
	if c.Path() == "/health" {
		return c.Next()
	}

	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	if subtle.ConstantTimeCompare([]byte(token), am.token) != 1 {
		logger.Debugf("Auth failed for %s %s", c.Method(), c.Path())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid token",
		})
	}
	return c.Next()
}

// extractToken reads the Authorization header, then the token query parameter.
func extractToken(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}
