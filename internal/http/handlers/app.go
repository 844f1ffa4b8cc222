package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/TheJazzDev/orits-fashion/internal/config"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
)

const (
	// image data URIs travel in JSON bodies
	bodyLimit = 12 << 20

	globalRateMax = 120
	loginRateMax  = 5
)

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(cfg.TemplatesDir, cfg.ReloadTemplates),
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none", // product images come from the image host
	}))
	app.Use(Authenticate(d.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        globalRateMax,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/") || c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.global.hit", nil)
			return c.JSON(fiber.Map{"error": "Too many requests, please slow down"})
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			// the JSON API relies on the SameSite session cookie
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			c.Status(fiber.StatusForbidden)
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return page(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	}))

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)

	// ---------- Public pages ----------
	site := d.SiteHandler
	app.Get("/", site.Home)
	app.Get("/catalog", site.CatalogPage)
	app.Get("/catalog/:slug", site.Product)
	app.Get("/gallery", site.GalleryPage)
	app.Get("/reviews", site.ReviewsPage)
	app.Post("/reviews", site.SubmitReview)
	app.Get("/contact", site.ContactPage)
	app.Post("/contact", site.SubmitContact)
	app.Get("/about", site.About)
	app.Get("/sitemap.xml", site.Sitemap)
	app.Get("/robots.txt", site.Robots)

	// ---------- API ----------
	origin := cfg.SiteURL
	if origin == "" {
		origin = "*"
	}
	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: origin,
		// credentials cannot be combined with a wildcard origin
		AllowCredentials: origin != "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}))
	session := RequireSession()

	api.Post("/seed", d.AuthHandler.Seed)
	api.Get("/auth/session", d.AuthHandler.Session)

	api.Get("/categories", d.CategoryHandler.List)
	api.Get("/categories/:id", d.CategoryHandler.Get)
	api.Post("/categories", session, d.CategoryHandler.Create)
	api.Put("/categories/:id", session, d.CategoryHandler.Update)
	api.Delete("/categories/:id", session, d.CategoryHandler.Delete)

	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Get)
	api.Post("/products", session, d.ProductHandler.Create)
	api.Put("/products/:id", session, d.ProductHandler.Update)
	api.Delete("/products/:id", session, d.ProductHandler.Delete)

	api.Get("/gallery", d.GalleryHandler.List)
	api.Get("/gallery/:id", d.GalleryHandler.Get)
	api.Post("/gallery", session, d.GalleryHandler.Create)
	api.Put("/gallery/:id", session, d.GalleryHandler.Update)
	api.Delete("/gallery/:id", session, d.GalleryHandler.Delete)

	api.Get("/reviews", d.ReviewHandler.List)
	api.Get("/reviews/:id", d.ReviewHandler.Get)
	api.Post("/reviews", d.ReviewHandler.Create)
	api.Put("/reviews/:id", session, d.ReviewHandler.Update)
	api.Delete("/reviews/:id", session, d.ReviewHandler.Delete)

	api.Get("/contact", session, d.ContactHandler.List)
	api.Get("/contact/:id", session, d.ContactHandler.Get)
	api.Post("/contact", d.ContactHandler.Create)
	api.Put("/contact", session, d.ContactHandler.Update)
	api.Put("/contact/:id", session, d.ContactHandler.Update)
	api.Delete("/contact", session, d.ContactHandler.Delete)
	api.Delete("/contact/:id", session, d.ContactHandler.Delete)

	api.Post("/upload", session, d.UploadHandler.Upload)
	api.Delete("/upload", session, d.UploadHandler.Delete)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	// ---------- Admin ----------
	app.Get("/admin/login", d.AuthHandler.LoginForm)
	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        loginRateMax,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.login.hit", nil)
			return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later.", "Email": ""})
		},
	}), d.AuthHandler.Login)
	app.Post("/admin/logout", d.AuthHandler.Logout)

	adm := d.AdminHandler
	admin := app.Group("/admin", RequireAdmin())
	admin.Get("/", adm.DashboardPage)
	admin.Get("/products", adm.Products)
	admin.Get("/products/new", adm.NewProduct)
	admin.Post("/products", adm.CreateProduct)
	admin.Get("/products/:id/edit", adm.EditProduct)
	admin.Post("/products/:id", adm.UpdateProduct)
	admin.Post("/products/:id/delete", adm.DeleteProduct)
	admin.Get("/categories", adm.Categories)
	admin.Post("/categories", adm.CreateCategory)
	admin.Post("/categories/:id", adm.UpdateCategory)
	admin.Post("/categories/:id/delete", adm.DeleteCategory)
	admin.Get("/gallery", adm.GalleryPage)
	admin.Post("/gallery", adm.AddGalleryImage)
	admin.Post("/gallery/:id/delete", adm.DeleteGalleryImage)
	admin.Get("/reviews", adm.ReviewsPage)
	admin.Post("/reviews/:id", adm.ModerateReview)
	admin.Post("/reviews/:id/delete", adm.DeleteReview)
	admin.Get("/messages", adm.Messages)
	admin.Post("/messages/:id/read", adm.MarkMessage)
	admin.Post("/messages/:id/delete", adm.DeleteMessage)

	// ---------- Health & 404 ----------
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})
	return app
}

// ErrorHandler answers anything a handler returned unhandled: JSON under
// /api, the friendly page elsewhere. Internals are only logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	} else {
		c.Status(code)
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := page(c, code, msg); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
