package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
	Degrade bool
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return listErr(c, h.Degrade, "categories", err)
	}
	return c.JSON(cats)
}

// GET /api/categories/:id (id or slug)
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "categories.get", err, "")
	}
	cat, err := h.Catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondErr(c, "categories.get", err, "Failed to fetch category")
	}
	return c.JSON(cat)
}

// POST /api/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in domain.CategoryInput
	if err := bindJSON(c, &in); err != nil {
		return respondErr(c, "categories.create", err, "")
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return respondErr(c, "categories.create", err, "Failed to create category")
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "categories.create", map[string]any{"id": cat.ID, "slug": cat.Slug})
	return c.JSON(cat)
}

// PUT /api/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var p domain.CategoryPatch
	if err := bindJSON(c, &p); err != nil {
		return respondErr(c, "categories.update", err, "")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "categories.update", err, "")
	}
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), id, p)
	if err != nil {
		return respondErr(c, "categories.update", err, "Failed to update category")
	}
	applog.Audit(c, "categories.update", map[string]any{"id": cat.ID})
	return c.JSON(cat)
}

// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "categories.delete", err, "")
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return respondErr(c, "categories.delete", err, "Failed to delete category")
	}
	applog.Audit(c, "categories.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
