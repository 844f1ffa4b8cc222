package handlers

import (
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	"github.com/TheJazzDev/orits-fashion/internal/format"
)

// Funcs are the helpers every template can call.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":    func(p decimal.NullDecimal) string { return format.Price(p) },
		"date":     func(t time.Time) string { return format.Date(t) },
		"truncate": func(s string, n int) string { return format.Truncate(s, n) },
		"deref":    deref,
		"cover": func(p domain.Product) string {
			if im := p.Cover(); im != nil {
				return im.URL
			}
			return ""
		},
		"stars": func(n int) []struct{} { return make([]struct{}, max(0, min(n, 5))) },
	}
}

// NewViews builds the template engine with Funcs registered.
func NewViews(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFuncMap(Funcs())
	engine.Reload(reload)
	return engine
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if p, ok := domain.PrincipalFrom(c.UserContext()); ok {
		data["User"] = p
	}
	// token from the CSRF middleware, falling back to its cookie
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	data["Path"] = c.Path()
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	if msg == "" {
		msg = "Page not found"
	}
	return page(c, fiber.StatusNotFound, msg)
}

// page renders the message page with a status.
func page(c *fiber.Ctx, status int, msg string) error {
	c.Status(status)
	return render(c, "notfound", fiber.Map{"Message": msg})
}
