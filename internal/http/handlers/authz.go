package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

// Authenticate resolves the sid cookie once per request and, for a live
// session, puts the principal on the request context.
func Authenticate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Next()
		}
		u, err := auth.CurrentUser(c.UserContext(), sid)
		if err != nil {
			return c.Next()
		}
		p := u.Principal()
		c.SetUserContext(domain.WithPrincipal(c.UserContext(), p))
		c.Locals("user", p)
		return c.Next()
	}
}

// RequireAdmin guards admin HTML pages; anonymous visitors go to the login form.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := domain.PrincipalFrom(c.UserContext()); !ok {
			c.Status(fiber.StatusFound)
			applog.Security(c, "access.denied.admin", map[string]any{"has_sid": c.Cookies("sid") != ""})
			return c.Redirect("/admin/login")
		}
		return c.Next()
	}
}

// RequireSession guards mutating API routes with a uniform 401.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := domain.PrincipalFrom(c.UserContext()); !ok {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.api", map[string]any{"method": c.Method()})
			return c.JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
