package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheJazzDev/orits-fashion/internal/repos"
)

func seededEnv(t *testing.T) *testEnv {
	t.Helper()
	e := newEnv(t)
	_, err := repos.SeedDemo(context.Background(), e.db)
	require.NoError(t, err)
	return e
}

func TestPublicPagesRender(t *testing.T) {
	e := seededEnv(t)
	cases := []struct {
		path string
		want []string
	}{
		{"/", []string{"Featured pieces", "Bespoke Evening Gown", "₦125,000.00", "Men&#39;s Wear"}},
		{"/catalog", []string{"Our Collection", "Celestial White Kaftan"}},
		{"/catalog/bespoke-evening-gown", []string{"Bespoke Evening Gown", "silk organza", "You may also like"}},
		{"/gallery", []string{"Bridal Couture"}},
		{"/reviews", []string{"Share your experience", `name="csrf"`}},
		{"/contact", []string{"Contact Us", `name="csrf"`}},
		{"/about", []string{"About Orit"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp := e.get(t, tc.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := readBody(t, resp)
			for _, w := range tc.want {
				assert.Contains(t, body, w)
			}
		})
	}
}

func TestCatalogFiltersByCategory(t *testing.T) {
	e := seededEnv(t)
	body := readBody(t, e.get(t, "/catalog?category=mens-wear"))
	assert.Contains(t, body, "Classic Senator Suit")
	assert.Contains(t, body, "Agbada Formal Set")
	assert.NotContains(t, body, "Bridal Lace Gown")
}

func TestUnknownPagesAre404(t *testing.T) {
	e := seededEnv(t)

	resp := e.get(t, "/catalog/no-such-gown")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "no longer available")

	resp = e.get(t, "/definitely/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Page not found")

	resp = e.get(t, "/api/nothing-here")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Not found"}`, readBody(t, resp))
}

func TestSitemapAndRobots(t *testing.T) {
	e := seededEnv(t)

	resp := e.get(t, "/sitemap.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "xml")
	body := readBody(t, resp)
	for _, loc := range []string{
		"<loc>https://oritsfashion.test</loc>",
		"<loc>https://oritsfashion.test/about</loc>",
		"<loc>https://oritsfashion.test/catalog/celestial-white-kaftan</loc>",
	} {
		assert.Contains(t, body, loc)
	}

	robots := readBody(t, e.get(t, "/robots.txt"))
	assert.Contains(t, robots, "Disallow: /admin")
	assert.Contains(t, robots, "Disallow: /api")
	assert.Contains(t, robots, "Sitemap: https://oritsfashion.test/sitemap.xml")
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	resp := e.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, readBody(t, resp))
}

func TestContactFormStoresMessage(t *testing.T) {
	e := newEnv(t)
	tok := e.csrf(t)

	resp := e.postForm(t, "/contact", tok, url.Values{
		"name": {"Tolu"}, "email": {"tolu@example.com"}, "subject": {"Fitting"}, "message": {"Can I book Saturday?"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Thank you")
	assert.Equal(t, 1, e.count(t, "contact_messages"))

	resp = e.postForm(t, "/contact", tok, url.Values{"name": {"Tolu"}, "email": {"bad"}, "message": {"hi"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Tolu", "form values are kept")
	assert.Equal(t, 1, e.count(t, "contact_messages"))

	resp = e.postForm(t, "/contact", "", url.Values{"name": {"Tolu"}, "email": {"tolu@example.com"}, "message": {"hi"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, e.count(t, "contact_messages"))
}

func TestReviewFormSubmitsPending(t *testing.T) {
	e := newEnv(t)
	tok := e.csrf(t)

	resp := e.postForm(t, "/reviews", tok, url.Values{"name": {"Kemi"}, "rating": {"4"}, "content": {"Beautiful finishing."}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "once approved")
	assert.NotContains(t, body, "Beautiful finishing.", "pending reviews stay off the page")

	var approved bool
	require.NoError(t, e.db.Get(&approved, `SELECT approved FROM reviews`))
	assert.False(t, approved)

	resp = e.postForm(t, "/reviews", tok, url.Values{"name": {""}, "content": {"x"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	for _, rating := range []string{"9", "abc", "-2", "4.5", "99999999999999999999"} {
		resp = e.postForm(t, "/reviews", tok, url.Values{"name": {"Kemi"}, "rating": {rating}, "content": {"x"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rating %q", rating)
	}
	assert.Equal(t, 1, e.count(t, "reviews"))
}
