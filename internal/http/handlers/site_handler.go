package handlers

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

const (
	homeFeaturedProducts = 6
	homeFeaturedReviews  = 5
)

// SiteHandler serves the public storefront pages.
type SiteHandler struct {
	Catalog *services.CatalogService
	Gallery *services.GalleryService
	Reviews *services.ReviewService
	Contact *services.ContactService
	SiteURL string
}

// GET /
func (h *SiteHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	yes := true
	featured, err := h.Catalog.ListProducts(ctx, domain.ProductFilter{Featured: &yes, FirstImageOnly: true, Limit: homeFeaturedProducts})
	if err != nil {
		applog.Error(c, "home.products.degraded", err, nil)
	}
	reviews, err := h.Reviews.List(ctx, domain.ReviewFilter{Featured: &yes, Limit: homeFeaturedReviews})
	if err != nil {
		applog.Error(c, "home.reviews.degraded", err, nil)
	}
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		applog.Error(c, "home.categories.degraded", err, nil)
	}
	return render(c, "home", fiber.Map{"Products": featured, "Reviews": reviews, "Categories": cats})
}

// GET /catalog?category=slug
func (h *SiteHandler) CatalogPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug := c.Query("category")
	prods, err := h.Catalog.ListProducts(ctx, domain.ProductFilter{CategorySlug: slug, FirstImageOnly: true})
	if err != nil {
		applog.Error(c, "catalog.products.degraded", err, nil)
	}
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		applog.Error(c, "catalog.categories.degraded", err, nil)
	}
	var active *domain.Category
	for i := range cats {
		if cats[i].Slug == slug {
			active = &cats[i]
		}
	}
	return render(c, "catalog", fiber.Map{"Products": prods, "Categories": cats, "Active": active})
}

// GET /catalog/:slug
func (h *SiteHandler) Product(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug, err := pathID(c, "slug")
	if err != nil {
		return notFound(c, "This piece is no longer available")
	}
	p, err := h.Catalog.GetProduct(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, "This piece is no longer available")
	}
	if err != nil {
		return err
	}
	related, err := h.Catalog.Related(ctx, p)
	if err != nil {
		applog.Error(c, "product.related.degraded", err, map[string]any{"id": p.ID})
	}
	return render(c, "product", fiber.Map{"Product": p, "Related": related})
}

// GET /gallery
func (h *SiteHandler) GalleryPage(c *fiber.Ctx) error {
	imgs, err := h.Gallery.List(c.UserContext())
	if err != nil {
		applog.Error(c, "gallery.degraded", err, nil)
	}
	return render(c, "gallery", fiber.Map{"Images": imgs})
}

// GET /reviews
func (h *SiteHandler) ReviewsPage(c *fiber.Ctx) error {
	return h.reviewsPage(c, fiber.Map{})
}

func (h *SiteHandler) reviewsPage(c *fiber.Ctx, data fiber.Map) error {
	// public view: approved only, even for admins
	approved := true
	list, err := h.Reviews.List(c.UserContext(), domain.ReviewFilter{Approved: &approved})
	if err != nil {
		applog.Error(c, "reviews.degraded", err, nil)
	}
	data["Reviews"] = list
	return render(c, "reviews", data)
}

// POST /reviews
func (h *SiteHandler) SubmitReview(c *fiber.Ctx) error {
	in := domain.ReviewInput{
		Name:    c.FormValue("name"),
		Content: c.FormValue("content"),
		Rating:  formInt(c, "rating", 0),
	}
	if e := strings.TrimSpace(c.FormValue("email")); e != "" {
		in.Email = &e
	}
	r, err := h.Reviews.Submit(c.UserContext(), in)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.Status(fiber.StatusBadRequest)
			return h.reviewsPage(c, fiber.Map{"Err": ve.Msg, "Form": in})
		}
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "reviews.create.fail", err, nil)
		return h.reviewsPage(c, fiber.Map{"Err": "We could not save your review. Please try again.", "Form": in})
	}
	applog.Info(c, "reviews.create", map[string]any{"id": r.ID})
	return h.reviewsPage(c, fiber.Map{"Ok": "Thank you! Your review will appear once approved."})
}

// GET /contact
func (h *SiteHandler) ContactPage(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{})
}

// POST /contact
func (h *SiteHandler) SubmitContact(c *fiber.Ctx) error {
	in := domain.ContactInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Message: c.FormValue("message"),
		Phone:   formStr(c, "phone"),
		Subject: formStr(c, "subject"),
	}
	m, err := h.Contact.Submit(c.UserContext(), in)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.Status(fiber.StatusBadRequest)
			return render(c, "contact", fiber.Map{"Err": ve.Msg, "Form": in})
		}
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "contact.create.fail", err, nil)
		return render(c, "contact", fiber.Map{"Err": "We could not send your message. Please try again.", "Form": in})
	}
	applog.Info(c, "contact.create", map[string]any{"id": m.ID})
	return render(c, "contact", fiber.Map{"Ok": "Thank you! We'll get back to you within 1-2 business days."})
}

// GET /about
func (h *SiteHandler) About(c *fiber.Ctx) error {
	return render(c, "about", nil)
}

var staticPages = []string{"", "/about", "/catalog", "/gallery", "/reviews", "/contact"}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GET /sitemap.xml
func (h *SiteHandler) Sitemap(c *fiber.Ctx) error {
	set := urlSet{NS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.SiteURL + p})
	}
	slugs, err := h.Catalog.ProductSlugs(c.UserContext())
	if err != nil {
		applog.Error(c, "sitemap.products.degraded", err, nil)
	}
	for _, s := range slugs {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.SiteURL + "/catalog/" + s})
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	c.Type("xml", "utf-8")
	return c.Send(append([]byte(xml.Header), out...))
}

// GET /robots.txt
func (h *SiteHandler) Robots(c *fiber.Ctx) error {
	c.Type("txt", "utf-8")
	return c.SendString("User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api\n\nSitemap: " + h.SiteURL + "/sitemap.xml\n")
}

func formStr(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// formInt reads a small non-negative integer field; blank yields def and
// anything else out of 0..1000 yields -1 so validation rejects it.
func formInt(c *fiber.Ctx, key string, def int) int {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 1000 {
		return -1
	}
	return n
}
