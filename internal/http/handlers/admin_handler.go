package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

const maxFormUpload = 10 << 20

// AdminHandler serves the server-rendered admin panel. Every route sits
// behind RequireAdmin and every form posts a CSRF token.
type AdminHandler struct {
	Catalog   *services.CatalogService
	Gallery   *services.GalleryService
	Reviews   *services.ReviewService
	Contact   *services.ContactService
	Dashboard *services.DashboardService
	Media     *services.MediaService
}

// productForm mirrors the product editor fields so a rejected submit can be
// shown again as typed.
type productForm struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Price       string
	CategoryID  string
	Featured    bool
	Published   bool
	Images      string
}

func formFromProduct(p domain.Product) productForm {
	f := productForm{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		Featured:   p.Featured,
		Published:  p.Published,
		CategoryID: deref(p.CategoryID),
	}
	f.Description = deref(p.Description)
	if p.Price.Valid {
		f.Price = p.Price.Decimal.StringFixed(2)
	}
	urls := make([]string, 0, len(p.Images))
	for _, im := range p.Images {
		urls = append(urls, im.URL)
	}
	f.Images = strings.Join(urls, "\n")
	return f
}

func readProductForm(c *fiber.Ctx) productForm {
	return productForm{
		ID:          c.Params("id"),
		Name:        c.FormValue("name"),
		Slug:        c.FormValue("slug"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		CategoryID:  c.FormValue("categoryId"),
		Featured:    c.FormValue("featured") != "",
		Published:   c.FormValue("published") != "",
		Images:      c.FormValue("images"),
	}
}

// imageList turns the one-URL-per-line textarea into image inputs, keeping
// the alt text and public id of any URL the product already had.
func imageList(text string, existing []domain.ProductImage) []domain.ImageInput {
	known := map[string]domain.ProductImage{}
	for _, im := range existing {
		known[im.URL] = im
	}
	out := []domain.ImageInput{}
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		u := strings.TrimSpace(line)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		in := domain.ImageInput{URL: u}
		if im, ok := known[u]; ok {
			in.Alt, in.PublicID = im.Alt, im.PublicID
		}
		out = append(out, in)
	}
	return out
}

// GET /admin
func (h *AdminHandler) DashboardPage(c *fiber.Ctx) error {
	st, err := h.Dashboard.Stats(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
	}
	return render(c, "admin/dashboard", fiber.Map{"Stats": st})
}

// ---------- products ----------

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	list, err := h.Catalog.ListProducts(c.UserContext(), domain.ProductFilter{IncludeDrafts: true, FirstImageOnly: true})
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
	}
	return render(c, "admin/products", fiber.Map{"Products": list, "Flash": c.Query("msg"), "Err": c.Query("err")})
}

// GET /admin/products/new
func (h *AdminHandler) NewProduct(c *fiber.Ctx) error {
	return h.productEditor(c, productForm{Published: true}, "")
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditProduct(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return notFound(c, "Product not found")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, "Product not found")
	}
	if err != nil {
		return err
	}
	return h.productEditor(c, formFromProduct(p), "")
}

func (h *AdminHandler) productEditor(c *fiber.Ctx, f productForm, msg string) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
	}
	return render(c, "admin/product_form", fiber.Map{"Form": f, "Categories": cats, "Err": msg})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	f := readProductForm(c)
	price, err := services.PriceFrom(f.Price)
	if err != nil {
		return h.rejectProduct(c, f, err)
	}
	images := imageList(f.Images, nil)
	if up, ok, err := h.uploadFromForm(c); err != nil {
		return h.rejectProduct(c, f, err)
	} else if ok {
		pid := up.PublicID
		images = append(images, domain.ImageInput{URL: up.URL, PublicID: &pid})
	}
	desc, cat, published := f.Description, f.CategoryID, f.Published
	p, err := h.Catalog.CreateProduct(c.UserContext(), domain.ProductInput{
		Name:        f.Name,
		Slug:        f.Slug,
		Description: &desc,
		Price:       price,
		Featured:    f.Featured,
		Published:   &published,
		CategoryID:  &cat,
		Images:      images,
	})
	if err != nil {
		return h.rejectProduct(c, f, err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"id": p.ID, "slug": p.Slug})
	return c.Redirect("/admin/products?msg=" + url.QueryEscape("Product created"))
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()
	f := readProductForm(c)
	if _, err := pathID(c, "id"); err != nil {
		return notFound(c, "Product not found")
	}
	cur, err := h.Catalog.GetProduct(ctx, f.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, "Product not found")
	}
	if err != nil {
		return err
	}
	price, err := services.PriceFrom(f.Price)
	if err != nil {
		return h.rejectProduct(c, f, err)
	}
	images := imageList(f.Images, cur.Images)
	if up, ok, err := h.uploadFromForm(c); err != nil {
		return h.rejectProduct(c, f, err)
	} else if ok {
		pid := up.PublicID
		images = append(images, domain.ImageInput{URL: up.URL, PublicID: &pid})
	}

	patch := domain.ProductPatch{
		Name:        domain.Some(f.Name),
		Slug:        domain.Some(f.Slug),
		Description: domain.Some(f.Description),
		Featured:    domain.Some(f.Featured),
		Published:   domain.Some(f.Published),
		CategoryID:  domain.Some(f.CategoryID),
		Images:      domain.Some(images),
	}
	if strings.TrimSpace(f.Description) == "" {
		patch.Description = domain.Null[string]()
	}
	if strings.TrimSpace(f.CategoryID) == "" {
		patch.CategoryID = domain.Null[string]()
	}
	if price.Valid {
		patch.Price = domain.Some(price.Decimal)
	} else {
		patch.Price = domain.Null[decimal.Decimal]()
	}
	p, err := h.Catalog.UpdateProduct(ctx, f.ID, patch)
	if err != nil {
		return h.rejectProduct(c, f, err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"id": p.ID, "images": len(p.Images)})
	return c.Redirect("/admin/products?msg=" + url.QueryEscape("Product saved"))
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.products.delete", err, "/admin/products")
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return h.adminFail(c, "admin.products.delete", err, "/admin/products")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"id": id})
	return c.Redirect("/admin/products?msg=" + url.QueryEscape("Product deleted"))
}

func (h *AdminHandler) rejectProduct(c *fiber.Ctx, f productForm, err error) error {
	msg := formError(c, "admin.products.save", err)
	return h.productEditor(c, f, msg)
}

// uploadFromForm sends an optional "file" part to the image host as a data URI.
func (h *AdminHandler) uploadFromForm(c *fiber.Ctx) (domain.UploadResult, bool, error) {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil || fh.Size == 0 {
		return domain.UploadResult{}, false, nil
	}
	if fh.Size > maxFormUpload {
		return domain.UploadResult{}, false, domain.Invalid("file", "Image must be 10 MB or smaller")
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return domain.UploadResult{}, false, domain.Invalid("file", "Only image files can be uploaded")
	}
	src, err := fh.Open()
	if err != nil {
		return domain.UploadResult{}, false, err
	}
	defer src.Close()
	raw, err := io.ReadAll(src)
	if err != nil {
		return domain.UploadResult{}, false, err
	}
	up, err := h.Media.Upload(c.UserContext(), "data:"+ct+";base64,"+base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		return domain.UploadResult{}, false, err
	}
	applog.Audit(c, "admin.media.upload", map[string]any{"public_id": up.PublicID})
	return up, true, nil
}

// ---------- categories ----------

// GET /admin/categories
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
	}
	return render(c, "admin/categories", fiber.Map{"Categories": cats, "Flash": c.Query("msg"), "Err": c.Query("err")})
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	desc, img := c.FormValue("description"), c.FormValue("image")
	cat, err := h.Catalog.CreateCategory(c.UserContext(), domain.CategoryInput{
		Name:        c.FormValue("name"),
		Slug:        c.FormValue("slug"),
		Description: &desc,
		Image:       &img,
		Order:       formInt(c, "order", 0),
	})
	if err != nil {
		return h.adminFail(c, "admin.categories.create", err, "/admin/categories")
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"id": cat.ID, "slug": cat.Slug})
	return c.Redirect("/admin/categories?msg=" + url.QueryEscape("Category created"))
}

// POST /admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.categories.update", err, "/admin/categories")
	}
	p := domain.CategoryPatch{
		Name:  domain.Some(c.FormValue("name")),
		Slug:  domain.Some(c.FormValue("slug")),
		Order: domain.Some(max(formInt(c, "order", 0), 0)),
	}
	if d := strings.TrimSpace(c.FormValue("description")); d != "" {
		p.Description = domain.Some(d)
	} else {
		p.Description = domain.Null[string]()
	}
	if im := strings.TrimSpace(c.FormValue("image")); im != "" {
		p.Image = domain.Some(im)
	} else {
		p.Image = domain.Null[string]()
	}
	if _, err := h.Catalog.UpdateCategory(c.UserContext(), id, p); err != nil {
		return h.adminFail(c, "admin.categories.update", err, "/admin/categories")
	}
	applog.Audit(c, "admin.categories.update", map[string]any{"id": id})
	return c.Redirect("/admin/categories?msg=" + url.QueryEscape("Category saved"))
}

// POST /admin/categories/:id/delete
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.categories.delete", err, "/admin/categories")
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return h.adminFail(c, "admin.categories.delete", err, "/admin/categories")
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"id": id})
	return c.Redirect("/admin/categories?msg=" + url.QueryEscape("Category deleted"))
}

// ---------- gallery ----------

// GET /admin/gallery
func (h *AdminHandler) GalleryPage(c *fiber.Ctx) error {
	imgs, err := h.Gallery.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.gallery.list.fail", err, nil)
	}
	return render(c, "admin/gallery", fiber.Map{"Images": imgs, "Flash": c.Query("msg"), "Err": c.Query("err")})
}

// POST /admin/gallery
func (h *AdminHandler) AddGalleryImage(c *fiber.Ctx) error {
	in := domain.GalleryInput{
		URL:         c.FormValue("url"),
		Title:       formStr(c, "title"),
		Description: formStr(c, "description"),
		Order:       max(formInt(c, "order", 0), 0),
	}
	up, ok, err := h.uploadFromForm(c)
	if err != nil {
		return h.adminFail(c, "admin.gallery.create", err, "/admin/gallery")
	}
	if ok {
		pid := up.PublicID
		in.URL, in.PublicID = up.URL, &pid
	}
	g, err := h.Gallery.Create(c.UserContext(), in)
	if err != nil {
		return h.adminFail(c, "admin.gallery.create", err, "/admin/gallery")
	}
	applog.Audit(c, "admin.gallery.create", map[string]any{"id": g.ID})
	return c.Redirect("/admin/gallery?msg=" + url.QueryEscape("Image added"))
}

// POST /admin/gallery/:id/delete
func (h *AdminHandler) DeleteGalleryImage(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.gallery.delete", err, "/admin/gallery")
	}
	if err := h.Gallery.Delete(c.UserContext(), id); err != nil {
		return h.adminFail(c, "admin.gallery.delete", err, "/admin/gallery")
	}
	applog.Audit(c, "admin.gallery.delete", map[string]any{"id": id})
	return c.Redirect("/admin/gallery?msg=" + url.QueryEscape("Image removed"))
}

// ---------- reviews ----------

// GET /admin/reviews
func (h *AdminHandler) ReviewsPage(c *fiber.Ctx) error {
	list, err := h.Reviews.List(c.UserContext(), domain.ReviewFilter{})
	if err != nil {
		applog.Error(c, "admin.reviews.list.fail", err, nil)
	}
	return render(c, "admin/reviews", fiber.Map{"Reviews": list, "Flash": c.Query("msg"), "Err": c.Query("err")})
}

// POST /admin/reviews/:id sets approved and/or featured from "true"/"false" values.
func (h *AdminHandler) ModerateReview(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.reviews.update", err, "/admin/reviews")
	}
	var p domain.ReviewPatch
	if v := c.FormValue("approved"); v != "" {
		p.Approved = domain.Some(v == "true")
	}
	if v := c.FormValue("featured"); v != "" {
		p.Featured = domain.Some(v == "true")
	}
	r, err := h.Reviews.Update(c.UserContext(), id, p)
	if err != nil {
		return h.adminFail(c, "admin.reviews.update", err, "/admin/reviews")
	}
	applog.Audit(c, "admin.reviews.update", map[string]any{"id": id, "approved": r.Approved, "featured": r.Featured})
	return c.Redirect("/admin/reviews?msg=" + url.QueryEscape("Review updated"))
}

// POST /admin/reviews/:id/delete
func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.reviews.delete", err, "/admin/reviews")
	}
	if err := h.Reviews.Delete(c.UserContext(), id); err != nil {
		return h.adminFail(c, "admin.reviews.delete", err, "/admin/reviews")
	}
	applog.Audit(c, "admin.reviews.delete", map[string]any{"id": id})
	return c.Redirect("/admin/reviews?msg=" + url.QueryEscape("Review deleted"))
}

// ---------- messages ----------

// GET /admin/messages?unread=1
func (h *AdminHandler) Messages(c *fiber.Ctx) error {
	unread := c.Query("unread") == "1"
	list, err := h.Contact.List(c.UserContext(), unread)
	if err != nil {
		applog.Error(c, "admin.messages.list.fail", err, nil)
	}
	return render(c, "admin/messages", fiber.Map{"Messages": list, "UnreadOnly": unread, "Flash": c.Query("msg"), "Err": c.Query("err")})
}

// POST /admin/messages/:id/read with read=true|false
func (h *AdminHandler) MarkMessage(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.messages.update", err, "/admin/messages")
	}
	read := c.FormValue("read", "true") == "true"
	if _, err := h.Contact.SetRead(c.UserContext(), domain.ContactPatch{ID: id, Read: domain.Some(read)}); err != nil {
		return h.adminFail(c, "admin.messages.update", err, "/admin/messages")
	}
	applog.Audit(c, "admin.messages.update", map[string]any{"id": id, "read": read})
	return c.Redirect("/admin/messages")
}

// POST /admin/messages/:id/delete
func (h *AdminHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.adminFail(c, "admin.messages.delete", err, "/admin/messages")
	}
	if err := h.Contact.Delete(c.UserContext(), id); err != nil {
		return h.adminFail(c, "admin.messages.delete", err, "/admin/messages")
	}
	applog.Audit(c, "admin.messages.delete", map[string]any{"id": id})
	return c.Redirect("/admin/messages?msg=" + url.QueryEscape("Message deleted"))
}

// adminFail sends the admin back to a list page with a readable message.
func (h *AdminHandler) adminFail(c *fiber.Ctx, action string, err error, back string) error {
	msg := formError(c, action, err)
	return c.Redirect(back + "?err=" + url.QueryEscape(msg))
}

// formError picks the message and status shown for a failed form submit and
// sets that status on the response.
func formError(c *fiber.Ctx, action string, err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		applog.Info(c, action+".invalid", map[string]any{"field": ve.Field})
		return ve.Msg
	case errors.Is(err, domain.ErrConflict):
		c.Status(fiber.StatusConflict)
		applog.Info(c, action+".conflict", nil)
		return "That slug is already in use"
	case errors.Is(err, domain.ErrNotFound):
		c.Status(fiber.StatusNotFound)
		return "That item no longer exists"
	case errors.Is(err, services.ErrNoImageStore):
		c.Status(fiber.StatusServiceUnavailable)
		return "Image uploads are not configured"
	default:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, action+".fail", err, nil)
		return "Something went wrong. Please try again."
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
