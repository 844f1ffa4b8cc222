package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

type UploadHandler struct {
	Media *services.MediaService
}

// POST /api/upload {image}
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	var body struct {
		Image string `json:"image"`
	}
	if err := bindJSON(c, &body); err != nil {
		return respondErr(c, "upload.create", err, "")
	}
	res, err := h.Media.Upload(c.UserContext(), body.Image)
	if err != nil {
		return respondErr(c, "upload.create", err, "Failed to upload image")
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "upload.create", map[string]any{"public_id": res.PublicID})
	return c.JSON(res)
}

// DELETE /api/upload {publicId}
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	var body struct {
		PublicID string `json:"publicId"`
	}
	if err := bindJSON(c, &body); err != nil {
		return respondErr(c, "upload.delete", err, "")
	}
	if err := h.Media.Delete(c.UserContext(), body.PublicID); err != nil {
		return respondErr(c, "upload.delete", err, "Failed to delete image")
	}
	applog.Audit(c, "upload.delete", map[string]any{"public_id": body.PublicID})
	return c.JSON(fiber.Map{"success": true})
}
