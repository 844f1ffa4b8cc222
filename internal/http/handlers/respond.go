package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

const adminExistsMsg = "An admin account already exists. Please sign in."

// respondErr maps a service error onto a JSON response. Persistence failures
// get the fixed failMsg; the real error only goes to the log. The status is
// set before logging so the log line carries it.
func respondErr(c *fiber.Ctx, action string, err error, failMsg string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		applog.Info(c, action+".invalid", map[string]any{"field": ve.Field})
		body := fiber.Map{"error": ve.Msg}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		return c.JSON(body)
	case errors.Is(err, domain.ErrUnauthorized):
		c.Status(fiber.StatusUnauthorized)
		applog.Security(c, "access.denied.api", map[string]any{"action": action})
		return c.JSON(fiber.Map{"error": "Unauthorized"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, domain.ErrAdminExists):
		c.Status(fiber.StatusForbidden)
		applog.Security(c, action+".refused", nil)
		return c.JSON(fiber.Map{"error": adminExistsMsg})
	case errors.Is(err, services.ErrNoImageStore):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Image uploads are not configured"})
	case errors.Is(err, domain.ErrConflict):
		c.Status(fiber.StatusConflict)
		applog.Info(c, action+".conflict", nil)
		return c.JSON(fiber.Map{"error": "That slug is already in use"})
	default:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, action+".fail", err, nil)
		return c.JSON(fiber.Map{"error": failMsg})
	}
}

// listErr answers a failed list call: an empty array when degrading,
// otherwise a 500.
func listErr(c *fiber.Ctx, degrade bool, entity string, err error) error {
	if degrade {
		applog.Error(c, entity+".list.degraded", err, nil)
		return c.JSON([]any{})
	}
	return respondErr(c, entity+".list", err, "Failed to fetch "+entity)
}

// pathID reads an id (or slug) route parameter. A malformed value cannot
// name a row, so it is reported as domain.ErrNotFound without a query.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id, ok := validate.ID(c.Params(name))
	if !ok {
		c.Status(fiber.StatusNotFound)
		applog.Info(c, "validation.fail", map[string]any{"field": name})
		return "", domain.ErrNotFound
	}
	return id, nil
}

// bindJSON decodes the raw body whatever the content type says.
func bindJSON(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return domain.Invalid("", "Request body is required")
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return domain.Invalid("", "Invalid JSON body")
	}
	return nil
}
