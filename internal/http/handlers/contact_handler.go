package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

type ContactHandler struct {
	Contact *services.ContactService
	Degrade bool
}

// GET /api/contact?unread=true
func (h *ContactHandler) List(c *fiber.Ctx) error {
	msgs, err := h.Contact.List(c.UserContext(), c.QueryBool("unread", false))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return respondErr(c, "contact.list", err, "")
		}
		return listErr(c, h.Degrade, "contact", err)
	}
	return c.JSON(msgs)
}

// GET /api/contact/:id
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "contact.get", err, "")
	}
	m, err := h.Contact.Get(c.UserContext(), id)
	if err != nil {
		return respondErr(c, "contact.get", err, "Failed to fetch message")
	}
	return c.JSON(m)
}

// POST /api/contact (public)
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in domain.ContactInput
	if err := bindJSON(c, &in); err != nil {
		return respondErr(c, "contact.create", err, "")
	}
	m, err := h.Contact.Submit(c.UserContext(), in)
	if err != nil {
		return respondErr(c, "contact.create", err, "Failed to send message")
	}
	c.Status(fiber.StatusCreated)
	applog.Info(c, "contact.create", map[string]any{"id": m.ID})
	return c.JSON(m)
}

// PUT /api/contact and PUT /api/contact/:id; the path id wins over the body.
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	var p domain.ContactPatch
	if err := bindJSON(c, &p); err != nil {
		return respondErr(c, "contact.update", err, "")
	}
	if c.Params("id") != "" {
		id, err := pathID(c, "id")
		if err != nil {
			return respondErr(c, "contact.update", err, "")
		}
		p.ID = id
	}
	m, err := h.Contact.SetRead(c.UserContext(), p)
	if err != nil {
		return respondErr(c, "contact.update", err, "Failed to update message")
	}
	applog.Audit(c, "contact.update", map[string]any{"id": m.ID, "read": m.Read})
	return c.JSON(m)
}

// DELETE /api/contact and DELETE /api/contact/:id
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id != "" {
		var err error
		if id, err = pathID(c, "id"); err != nil {
			return respondErr(c, "contact.delete", err, "")
		}
	} else {
		var body struct {
			ID string `json:"id"`
		}
		if err := bindJSON(c, &body); err != nil {
			return respondErr(c, "contact.delete", err, "")
		}
		id = body.ID
	}
	if err := h.Contact.Delete(c.UserContext(), id); err != nil {
		return respondErr(c, "contact.delete", err, "Failed to delete message")
	}
	applog.Audit(c, "contact.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
