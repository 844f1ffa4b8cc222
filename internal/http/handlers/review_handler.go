package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
	Degrade bool
}

// GET /api/reviews?featured=&limit=&approved=true|false|all
// The approved filter only applies to admins; the public always sees approved reviews.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	f := domain.ReviewFilter{Limit: max(c.QueryInt("limit", 0), 0)}
	if c.Query("featured") != "" {
		featured := c.QueryBool("featured", false)
		f.Featured = &featured
	}
	switch c.Query("approved") {
	case "", "all":
	default:
		approved := c.QueryBool("approved", true)
		f.Approved = &approved
	}
	list, err := h.Reviews.List(c.UserContext(), f)
	if err != nil {
		return listErr(c, h.Degrade, "reviews", err)
	}
	return c.JSON(list)
}

// GET /api/reviews/:id
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "reviews.get", err, "")
	}
	r, err := h.Reviews.Get(c.UserContext(), id)
	if err != nil {
		return respondErr(c, "reviews.get", err, "Failed to fetch review")
	}
	return c.JSON(r)
}

// POST /api/reviews (public)
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var in domain.ReviewInput
	if err := bindJSON(c, &in); err != nil {
		return respondErr(c, "reviews.create", err, "")
	}
	r, err := h.Reviews.Submit(c.UserContext(), in)
	if err != nil {
		return respondErr(c, "reviews.create", err, "Failed to submit review")
	}
	c.Status(fiber.StatusCreated)
	applog.Info(c, "reviews.create", map[string]any{"id": r.ID, "rating": r.Rating})
	return c.JSON(r)
}

// PUT /api/reviews/:id
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	var p domain.ReviewPatch
	if err := bindJSON(c, &p); err != nil {
		return respondErr(c, "reviews.update", err, "")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "reviews.update", err, "")
	}
	r, err := h.Reviews.Update(c.UserContext(), id, p)
	if err != nil {
		return respondErr(c, "reviews.update", err, "Failed to update review")
	}
	applog.Audit(c, "reviews.update", map[string]any{"id": r.ID, "approved": r.Approved, "featured": r.Featured})
	return c.JSON(r)
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "reviews.delete", err, "")
	}
	if err := h.Reviews.Delete(c.UserContext(), id); err != nil {
		return respondErr(c, "reviews.delete", err, "Failed to delete review")
	}
	applog.Audit(c, "reviews.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
