package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

type GalleryHandler struct {
	Gallery *services.GalleryService
	Degrade bool
}

// GET /api/gallery
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	imgs, err := h.Gallery.List(c.UserContext())
	if err != nil {
		return listErr(c, h.Degrade, "gallery", err)
	}
	return c.JSON(imgs)
}

// GET /api/gallery/:id
func (h *GalleryHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "gallery.get", err, "")
	}
	g, err := h.Gallery.Get(c.UserContext(), id)
	if err != nil {
		return respondErr(c, "gallery.get", err, "Failed to fetch image")
	}
	return c.JSON(g)
}

// POST /api/gallery
func (h *GalleryHandler) Create(c *fiber.Ctx) error {
	var in domain.GalleryInput
	if err := bindJSON(c, &in); err != nil {
		return respondErr(c, "gallery.create", err, "")
	}
	g, err := h.Gallery.Create(c.UserContext(), in)
	if err != nil {
		return respondErr(c, "gallery.create", err, "Failed to add image")
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "gallery.create", map[string]any{"id": g.ID})
	return c.JSON(g)
}

// PUT /api/gallery/:id
func (h *GalleryHandler) Update(c *fiber.Ctx) error {
	var p domain.GalleryPatch
	if err := bindJSON(c, &p); err != nil {
		return respondErr(c, "gallery.update", err, "")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "gallery.update", err, "")
	}
	g, err := h.Gallery.Update(c.UserContext(), id, p)
	if err != nil {
		return respondErr(c, "gallery.update", err, "Failed to update image")
	}
	applog.Audit(c, "gallery.update", map[string]any{"id": g.ID})
	return c.JSON(g)
}

// DELETE /api/gallery/:id
func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "gallery.delete", err, "")
	}
	if err := h.Gallery.Delete(c.UserContext(), id); err != nil {
		return respondErr(c, "gallery.delete", err, "Failed to delete image")
	}
	applog.Audit(c, "gallery.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
