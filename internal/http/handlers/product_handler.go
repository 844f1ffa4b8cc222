package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Degrade bool
}

// GET /api/products?category=&featured=&limit=&all=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := domain.ProductFilter{
		CategorySlug:  c.Query("category"),
		IncludeDrafts: c.QueryBool("all", false),
		Limit:         c.QueryInt("limit", 0),
	}
	if v := c.Query("featured"); v != "" {
		featured := c.QueryBool("featured", false)
		f.Featured = &featured
	}
	if f.Limit < 0 {
		f.Limit = 0
	}
	prods, err := h.Catalog.ListProducts(c.UserContext(), f)
	if err != nil {
		return listErr(c, h.Degrade, "products", err)
	}
	return c.JSON(prods)
}

// GET /api/products/:id (id or slug)
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "products.get", err, "")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondErr(c, "products.get", err, "Failed to fetch product")
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := bindJSON(c, &in); err != nil {
		return respondErr(c, "products.create", err, "")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondErr(c, "products.create", err, "Failed to create product")
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "products.create", map[string]any{"id": p.ID, "slug": p.Slug})
	return c.JSON(p)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var patch domain.ProductPatch
	if err := bindJSON(c, &patch); err != nil {
		return respondErr(c, "products.update", err, "")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "products.update", err, "")
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, patch)
	if err != nil {
		return respondErr(c, "products.update", err, "Failed to update product")
	}
	applog.Audit(c, "products.update", map[string]any{"id": p.ID, "images_replaced": patch.ReplacesImages()})
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, "products.delete", err, "")
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return respondErr(c, "products.delete", err, "Failed to delete product")
	}
	applog.Audit(c, "products.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
