package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	"github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

const badCredsMsg = "Invalid email or password"

type AuthHandler struct {
	Auth   *services.AuthService
	Secure bool
}

func (h *AuthHandler) setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.Secure,
		Expires:  expires,
	})
}

// GET /admin/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if _, ok := domain.PrincipalFrom(c.UserContext()); ok {
		return c.Redirect("/admin")
	}
	return render(c, "login", fiber.Map{"Err": "", "Email": ""})
}

// POST /admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	fail := func(reason string) error {
		c.Status(fiber.StatusUnauthorized)
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
		return render(c, "login", fiber.Map{"Err": badCredsMsg, "Email": email})
	}
	if _, ok := validate.Email(email); !ok {
		return fail("bad_format")
	}
	if !validate.Password(pass) {
		return fail("bad_password_format")
	}

	// a fresh sid on every login
	sid := uuid.NewString()
	u, err := h.Auth.Login(c.UserContext(), sid, email, pass)
	if errors.Is(err, services.ErrBadCreds) {
		return fail("bad_credentials")
	}
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		log.Error(c, "auth.login.error", err, nil)
		return render(c, "login", fiber.Map{"Err": "Something went wrong. Please try again.", "Email": email})
	}
	if old := c.Cookies("sid"); old != "" {
		_ = h.Auth.Logout(c.UserContext(), old)
	}
	h.setSID(c, sid, time.Now().Add(h.Auth.TTL))
	log.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.Redirect("/admin")
}

// POST /admin/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			log.Error(c, "auth.logout.fail", err, nil)
		}
	}
	h.setSID(c, "", time.Now().Add(-time.Hour))
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/admin/login")
}

// GET /api/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	p, ok := domain.PrincipalFrom(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.JSON(fiber.Map{"user": p})
}

// POST /api/seed creates the single admin account.
func (h *AuthHandler) Seed(c *fiber.Ctx) error {
	var in domain.AdminInput
	if err := bindJSON(c, &in); err != nil {
		// an existing admin wins over a malformed body
		if exists, cerr := h.Auth.AdminExists(c.UserContext()); cerr == nil && exists {
			return respondErr(c, "admin.seed", domain.ErrAdminExists, "")
		}
		return respondErr(c, "admin.seed", err, "")
	}
	u, err := h.Auth.Bootstrap(c.UserContext(), in)
	if err != nil {
		return respondErr(c, "admin.seed", err, "Failed to create admin account")
	}
	c.Status(fiber.StatusCreated)
	log.Audit(c, "admin.seed", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"success": true, "user": u.Principal()})
}
