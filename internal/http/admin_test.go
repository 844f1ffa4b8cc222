package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheJazzDev/orits-fashion/internal/repos"
)

func TestAdminDashboardShowsCounts(t *testing.T) {
	e := seededEnv(t)
	sid, _ := e.login(t)

	resp := e.get(t, "/admin", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "<strong>8</strong> products")
	assert.Contains(t, body, "<strong>5</strong> categories")
	assert.Contains(t, body, "<strong>8</strong> gallery images")
	assert.Contains(t, body, "Sign out")
}

func TestAdminProductFormLifecycle(t *testing.T) {
	e := newEnv(t)
	sid, tok := e.login(t)
	ctx := context.Background()
	prods := repos.NewProductRepo(e.db)

	// rejected submit keeps the typed values
	resp := e.postForm(t, "/admin/products", tok, url.Values{"name": {"Gown"}, "price": {"lots"}}, sid)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "price must be a number")
	assert.Contains(t, body, `value="Gown"`)
	assert.Equal(t, 0, e.count(t, "products"))

	resp = e.postForm(t, "/admin/products", tok, url.Values{
		"name":        {"Bespoke Evening Gown"},
		"description": {"Silk organza."},
		"price":       {"125,000"},
		"published":   {"1"},
		"images":      {"https://img.test/a.jpg\nhttps://img.test/b.jpg\n\nhttps://img.test/a.jpg"},
	}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/admin/products")

	p, err := prods.Find(ctx, "bespoke-evening-gown")
	require.NoError(t, err)
	assert.True(t, p.Published)
	assert.True(t, p.Price.Decimal.Equal(decimal.NewFromInt(125000)))
	require.Len(t, p.Images, 2)
	assert.Equal(t, "https://img.test/a.jpg", p.Images[0].URL)

	list := readBody(t, e.get(t, "/admin/products", sid))
	assert.Contains(t, list, "Bespoke Evening Gown")
	assert.Contains(t, list, "₦125,000.00")

	edit := e.get(t, "/admin/products/"+p.ID+"/edit", sid)
	require.Equal(t, http.StatusOK, edit.StatusCode)
	assert.Contains(t, readBody(t, edit), "125000.00")

	// blank price means price on request; unchecked published makes a draft
	resp = e.postForm(t, "/admin/products/"+p.ID, tok, url.Values{
		"name":   {"Bespoke Evening Gown"},
		"price":  {""},
		"images": {"https://img.test/b.jpg"},
	}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	p, err = prods.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, p.Price.Valid)
	assert.False(t, p.Published)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "https://img.test/b.jpg", p.Images[0].URL)
	assert.Equal(t, http.StatusNotFound, e.get(t, "/catalog/bespoke-evening-gown").StatusCode)

	resp = e.postForm(t, "/admin/products/"+p.ID+"/delete", tok, url.Values{}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, e.count(t, "products"))
	assert.Equal(t, 0, e.count(t, "product_images"))
}

func TestAdminProductSaveKeepsImageDetails(t *testing.T) {
	e := newEnv(t)
	sid, tok := e.login(t)
	ctx := context.Background()
	prods := repos.NewProductRepo(e.db)

	resp := e.jsonReq(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Agbada Formal Set",
		"images": []map[string]any{
			{"url": "https://img.test/agbada.jpg", "alt": "Agbada front view", "publicId": "orits/agbada"},
		},
	}, sid)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p, err := prods.Find(ctx, "agbada-formal-set")
	require.NoError(t, err)

	resp = e.postForm(t, "/admin/products/"+p.ID, tok, url.Values{
		"name":      {"Agbada Formal Set"},
		"published": {"1"},
		"images":    {"https://img.test/new.jpg\nhttps://img.test/agbada.jpg"},
	}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	p, err = prods.Find(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "https://img.test/new.jpg", p.Images[0].URL)
	assert.Nil(t, p.Images[0].Alt)
	kept := p.Images[1]
	assert.Equal(t, "https://img.test/agbada.jpg", kept.URL)
	require.NotNil(t, kept.Alt)
	assert.Equal(t, "Agbada front view", *kept.Alt)
	require.NotNil(t, kept.PublicID)
	assert.Equal(t, "orits/agbada", *kept.PublicID)
}

func TestAdminProductUploadWithoutImageStore(t *testing.T) {
	e := newEnv(t)
	sid, tok := e.login(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("csrf", tok))
	require.NoError(t, w.WriteField("name", "Ankara Midi"))
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="a.png"`}
	h["Content-Type"] = []string{"image/png"}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	req.AddCookie(sid)
	resp := e.do(t, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "not configured")
	assert.Equal(t, 0, e.count(t, "products"))
}

func TestAdminCategoryForms(t *testing.T) {
	e := newEnv(t)
	sid, tok := e.login(t)

	resp := e.postForm(t, "/admin/categories", tok, url.Values{"name": {"Knitted Wear"}, "order": {"3"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp = e.postForm(t, "/admin/categories", tok, url.Values{"name": {"Knitted Wear"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "err=")

	c, err := repos.NewCategoryRepo(e.db).Find(context.Background(), "knitted-wear")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Order)

	resp = e.postForm(t, "/admin/categories/"+c.ID, tok, url.Values{"name": {"Knitwear"}, "slug": {""}, "order": {"1"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	c, err = repos.NewCategoryRepo(e.db).Find(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "knitwear", c.Slug)

	page := readBody(t, e.get(t, "/admin/categories", sid))
	assert.Contains(t, page, `value="Knitwear"`)

	resp = e.postForm(t, "/admin/categories/"+c.ID+"/delete", tok, url.Values{}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, e.count(t, "categories"))
}

func TestAdminModeratesReviews(t *testing.T) {
	e := newEnv(t)
	sid, tok := e.login(t)
	resp := e.jsonReq(t, http.MethodPost, "/api/reviews", map[string]any{"name": "Ify", "content": "Lovely fit."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var id string
	require.NoError(t, e.db.Get(&id, `SELECT id FROM reviews`))

	page := readBody(t, e.get(t, "/admin/reviews", sid))
	assert.Contains(t, page, "pending")
	assert.Contains(t, page, "Lovely fit.")

	resp = e.postForm(t, "/admin/reviews/"+id, tok, url.Values{"approved": {"true"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp = e.postForm(t, "/admin/reviews/"+id, tok, url.Values{"featured": {"true"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	home := readBody(t, e.get(t, "/"))
	assert.Contains(t, home, "Lovely fit.")

	resp = e.postForm(t, "/admin/reviews/"+id+"/delete", tok, url.Values{}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, e.count(t, "reviews"))
}

func TestAdminMessagesAndGallery(t *testing.T) {
	e := newEnv(t)
	sid, tok := e.login(t)
	resp := e.jsonReq(t, http.MethodPost, "/api/contact", map[string]any{
		"name": "Tolu", "email": "tolu@example.com", "message": "Bridal enquiry",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var id string
	require.NoError(t, e.db.Get(&id, `SELECT id FROM contact_messages`))

	page := readBody(t, e.get(t, "/admin/messages?unread=1", sid))
	assert.Contains(t, page, "Bridal enquiry")
	assert.Contains(t, page, "General Inquiry")

	resp = e.postForm(t, "/admin/messages/"+id+"/read", tok, url.Values{"read": {"true"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotContains(t, readBody(t, e.get(t, "/admin/messages?unread=1", sid)), "Bridal enquiry")

	resp = e.postForm(t, "/admin/messages/"+id+"/delete", tok, url.Values{}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, e.count(t, "contact_messages"))

	resp = e.postForm(t, "/admin/gallery", tok, url.Values{"url": {"https://img.test/look.jpg"}, "title": {"Lookbook"}}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	var gid string
	require.NoError(t, e.db.Get(&gid, `SELECT id FROM gallery_images`))
	assert.Contains(t, readBody(t, e.get(t, "/gallery")), "Lookbook")

	resp = e.postForm(t, "/admin/gallery/"+gid+"/delete", tok, url.Values{}, sid)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, e.count(t, "gallery_images"))
}
