package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hoshichaam/pasal_storefront_go/internal/session"
	response "github.com/hoshichaam/pasal_storefront_go/pkg/response"
)

// artifact returns the signed session from the cookie, or from a Bearer
// Authorization header for non-browser clients.
func artifact(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies(session.CookieName)); v != "" {
		return v
	}
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func sessionMiddleware(m *session.Manager, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := m.Load(c, artifact(c))
		if required && (tok == nil || tok.AccessToken == "") {
			return response.ErrorWithDetail(c, fiber.StatusUnauthorized, "authentication required",
				map[string]any{"signIn": session.SignInPath})
		}
		return c.Next()
	}
}

// SessionOptional binds whatever valid session the request carries.
func SessionOptional(m *session.Manager) fiber.Handler {
	return sessionMiddleware(m, false)
}

// SessionRequired rejects requests without a signed-in session.
func SessionRequired(m *session.Manager) fiber.Handler {
	return sessionMiddleware(m, true)
}
