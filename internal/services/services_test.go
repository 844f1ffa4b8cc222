package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func admin() context.Context {
	return domain.WithPrincipal(context.Background(), domain.Principal{UserID: "u-1", Name: "Orit", Email: "orit@example.com"})
}

func strp(s string) *string { return &s }

type fakeStore struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (f *fakeStore) Upload(_ context.Context, source string) (domain.UploadResult, error) {
	if f.fail {
		return domain.UploadResult{}, errors.New("host down")
	}
	return domain.UploadResult{URL: "https://cdn.example/" + source, PublicID: "orits/" + source}, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.fail {
		return errors.New("host down")
	}
	return nil
}

type fakeMail struct {
	sent []domain.Email
	fail bool
}

func (f *fakeMail) Send(_ context.Context, m domain.Email) error {
	f.sent = append(f.sent, m)
	if f.fail {
		return errors.New("smtp says no")
	}
	return nil
}

func catalog(t *testing.T) (*services.CatalogService, *sqlx.DB) {
	db := memdb(t)
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db)), db
}

func TestCatalog_SlugDerivation(t *testing.T) {
	svc, _ := catalog(t)
	ctx := admin()

	c, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Men's Wear!!"})
	require.NoError(t, err)
	assert.Equal(t, "mens-wear", c.Slug)

	c, err = svc.CreateCategory(ctx, domain.CategoryInput{Name: "Knitted Wear", Description: strp("Cosy")})
	require.NoError(t, err)
	got, err := svc.GetCategory(context.Background(), "knitted-wear")
	require.NoError(t, err)
	assert.Equal(t, "Knitted Wear", got.Name)
	assert.Equal(t, "Cosy", *got.Description)

	p, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "  Bespoke   Evening_Gown "})
	require.NoError(t, err)
	assert.Equal(t, "bespoke-evening-gown", p.Slug)
	assert.True(t, p.Published, "published defaults to true")

	p, err = svc.CreateProduct(ctx, domain.ProductInput{Name: "Other", Slug: "Custom Slug"})
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", p.Slug)

	_, err = svc.CreateCategory(ctx, domain.CategoryInput{Name: "!!!"})
	assert.True(t, domain.IsValidation(err))
}

func TestCatalog_UpdateSlugRules(t *testing.T) {
	svc, _ := catalog(t)
	ctx := admin()
	c, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Garments"})
	require.NoError(t, err)

	// renaming alone keeps the slug
	c, err = svc.UpdateCategory(ctx, c.ID, domain.CategoryPatch{Name: domain.Some("Ceremonial Garments")})
	require.NoError(t, err)
	assert.Equal(t, "garments", c.Slug)

	// a blank slug re-derives from the current name
	c, err = svc.UpdateCategory(ctx, c.ID, domain.CategoryPatch{Slug: domain.Some("")})
	require.NoError(t, err)
	assert.Equal(t, "ceremonial-garments", c.Slug)

	_, err = svc.UpdateCategory(ctx, c.ID, domain.CategoryPatch{Name: domain.Some("  ")})
	assert.True(t, domain.IsValidation(err))
}

func TestCatalog_MutationsNeedPrincipal(t *testing.T) {
	svc, db := catalog(t)
	anon := context.Background()

	_, err := svc.CreateCategory(anon, domain.CategoryInput{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.CreateProduct(anon, domain.ProductInput{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.UpdateProduct(anon, "any", domain.ProductPatch{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteProduct(anon, "any"), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteCategory(anon, "any"), domain.ErrUnauthorized)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM categories`))
	assert.Zero(t, n)
}

func TestCatalog_ValidationBeforeWrite(t *testing.T) {
	svc, _ := catalog(t)
	ctx := admin()

	_, err := svc.CreateProduct(ctx, domain.ProductInput{Description: strp("no name")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = svc.CreateProduct(ctx, domain.ProductInput{Name: "Neg", Price: decimal.NewNullDecimal(decimal.NewFromInt(-1))})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateProduct(ctx, domain.ProductInput{Name: "Lost", CategoryID: strp("no-such-category")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "categoryId", ve.Field)

	_, err = svc.CreateProduct(ctx, domain.ProductInput{Name: "Bad image", Images: []domain.ImageInput{{URL: "not a url"}}})
	assert.True(t, domain.IsValidation(err))

	list, err := svc.ListProducts(ctx, domain.ProductFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCatalog_DraftsHiddenFromPublic(t *testing.T) {
	svc, _ := catalog(t)
	ctx := admin()
	draft := false
	_, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "Draft Gown", Published: &draft})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, domain.ProductInput{Name: "Live Gown"})
	require.NoError(t, err)

	anon := context.Background()
	list, err := svc.ListProducts(anon, domain.ProductFilter{IncludeDrafts: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "live-gown", list[0].Slug)

	_, err = svc.GetProduct(anon, "draft-gown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.GetProduct(ctx, "draft-gown")
	require.NoError(t, err)
	assert.False(t, got.Published)

	all, err := svc.ListProducts(ctx, domain.ProductFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalog_Related(t *testing.T) {
	svc, _ := catalog(t)
	ctx := admin()
	cat, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Women's Wear"})
	require.NoError(t, err)

	var first domain.Product
	for i := 0; i < 6; i++ {
		p, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "Dress " + string(rune('A'+i)), CategoryID: &cat.ID})
		require.NoError(t, err)
		if i == 0 {
			first = p
		}
	}
	_, err = svc.CreateProduct(ctx, domain.ProductInput{Name: "Elsewhere"})
	require.NoError(t, err)

	rel, err := svc.Related(context.Background(), first)
	require.NoError(t, err)
	assert.Len(t, rel, 4)
	for _, p := range rel {
		assert.NotEqual(t, first.ID, p.ID)
		assert.Equal(t, cat.ID, *p.CategoryID)
	}

	none, err := svc.Related(context.Background(), domain.Product{ID: "x"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_DeleteCategoryKeepsProducts(t *testing.T) {
	svc, _ := catalog(t)
	ctx := admin()
	cat, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Garments"})
	require.NoError(t, err)
	p, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "Kaftan", CategoryID: &cat.ID})
	require.NoError(t, err)
	require.NotNil(t, p.Category)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestCatalog_PurgesOrphanedUploads(t *testing.T) {
	svc, _ := catalog(t)
	store := &fakeStore{}
	svc.Images, svc.PurgeOrphans = store, true
	ctx := admin()

	p, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "Gown", Images: []domain.ImageInput{
		{URL: "https://cdn.example/a.jpg", PublicID: strp("orits/a")},
		{URL: "https://cdn.example/b.jpg", PublicID: strp("orits/b")},
	}})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, domain.ProductPatch{Images: domain.Some([]domain.ImageInput{
		{URL: "https://cdn.example/b.jpg", PublicID: strp("orits/b")},
	})})
	require.NoError(t, err)
	assert.Equal(t, []string{"orits/a"}, store.deleted)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, []string{"orits/a", "orits/b"}, store.deleted)
}

func TestCatalog_PurgeFailureDoesNotFailUpdate(t *testing.T) {
	svc, _ := catalog(t)
	svc.Images, svc.PurgeOrphans = &fakeStore{fail: true}, true
	ctx := admin()

	p, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "Gown", Images: []domain.ImageInput{
		{URL: "https://cdn.example/a.jpg", PublicID: strp("orits/a")},
	}})
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteProduct(ctx, p.ID))
}

func TestAuth_BootstrapOnce(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	svc := services.NewAuthService(users, 0)
	ctx := context.Background()

	u, err := svc.Bootstrap(ctx, domain.AdminInput{Name: "Orit", Email: "orit@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "correct horse", u.Hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("correct horse")))

	_, err = svc.Bootstrap(ctx, domain.AdminInput{Name: "Eve", Email: "eve@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrAdminExists)

	// invalid payloads are refused the same way once the admin exists
	for _, in := range []domain.AdminInput{{}, {Name: "Eve", Email: "eve@example.com", Password: "short"}} {
		_, err = svc.Bootstrap(ctx, in)
		assert.ErrorIs(t, err, domain.ErrAdminExists, "%+v", in)
	}
	exists, err := svc.AdminExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAuth_BootstrapValidation(t *testing.T) {
	svc := services.NewAuthService(repos.NewUserRepo(memdb(t)), 0)
	ctx := context.Background()

	for _, in := range []domain.AdminInput{
		{Email: "a@example.com", Password: "longenough"},
		{Name: "A", Email: "not-an-email", Password: "longenough"},
		{Name: "A", Email: "a@example.com", Password: "short"},
		{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 73)},
	} {
		_, err := svc.Bootstrap(ctx, in)
		assert.True(t, domain.IsValidation(err), "%+v -> %v", in, err)
	}
}

func TestAuth_LoginSessionLogout(t *testing.T) {
	svc := services.NewAuthService(repos.NewUserRepo(memdb(t)), 0)
	ctx := context.Background()
	_, err := svc.Bootstrap(ctx, domain.AdminInput{Name: "Orit", Email: "orit@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "sid-1", "orit@example.com", "wrong password")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, err = svc.Login(ctx, "sid-1", "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	u, err := svc.Login(ctx, "sid-1", "Orit@Example.com", "correct horse")
	require.NoError(t, err)

	cur, err := svc.CurrentUser(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	require.NoError(t, svc.Logout(ctx, "sid-1"))
	_, err = svc.CurrentUser(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviews_SubmitForcesModeration(t *testing.T) {
	svc := services.NewReviewService(repos.NewReviewRepo(memdb(t)))
	anon := context.Background()

	r, err := svc.Submit(anon, domain.ReviewInput{Name: "Ada", Content: "Beautiful work"})
	require.NoError(t, err)
	assert.False(t, r.Approved)
	assert.False(t, r.Featured)
	assert.Equal(t, 5, r.Rating)

	_, err = svc.Submit(anon, domain.ReviewInput{Name: "Ada", Content: "x", Rating: 9})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Submit(anon, domain.ReviewInput{Name: "Ada"})
	assert.True(t, domain.IsValidation(err))

	public, err := svc.List(anon, domain.ReviewFilter{})
	require.NoError(t, err)
	assert.Empty(t, public)
	_, err = svc.Get(anon, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(anon, r.ID, domain.ReviewPatch{Approved: domain.Some(true)})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Update(admin(), r.ID, domain.ReviewPatch{Approved: domain.Some(true), Rating: domain.Some(6)})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Update(admin(), r.ID, domain.ReviewPatch{Approved: domain.Some(true)})
	require.NoError(t, err)
	public, err = svc.List(anon, domain.ReviewFilter{})
	require.NoError(t, err)
	assert.Len(t, public, 1)

	assert.ErrorIs(t, svc.Delete(anon, r.ID), domain.ErrUnauthorized)
	assert.NoError(t, svc.Delete(admin(), r.ID))
}

func TestContact_SubmitNotifiesBestEffort(t *testing.T) {
	mail := &fakeMail{fail: true}
	svc := services.NewContactService(repos.NewContactRepo(memdb(t)))
	svc.Mail, svc.AdminEmail, svc.SiteURL = mail, "shop@example.com", "https://shop.example"

	m, err := svc.Submit(context.Background(), domain.ContactInput{
		Name: "Ada <b>", Email: "ada@example.com", Subject: strp("  "), Message: "Do you ship?",
	})
	require.NoError(t, err, "mail failure must not fail the submission")
	assert.Nil(t, m.Subject)

	require.Len(t, mail.sent, 2)
	assert.Equal(t, []string{"shop@example.com"}, mail.sent[0].To)
	assert.Equal(t, "ada@example.com", mail.sent[0].ReplyTo)
	assert.Contains(t, mail.sent[0].Subject, "General Inquiry")
	assert.Contains(t, mail.sent[0].HTML, "Ada &lt;b&gt;")
	assert.Equal(t, []string{"ada@example.com"}, mail.sent[1].To)
	assert.Contains(t, mail.sent[1].HTML, "https://shop.example/catalog")
}

func TestContact_PrivateOperations(t *testing.T) {
	svc := services.NewContactService(repos.NewContactRepo(memdb(t)))
	anon := context.Background()

	_, err := svc.Submit(anon, domain.ContactInput{Name: "Ada", Email: "bad", Message: "hi"})
	assert.True(t, domain.IsValidation(err))

	m, err := svc.Submit(anon, domain.ContactInput{Name: "Ada", Email: "ada@example.com", Message: "hi"})
	require.NoError(t, err)

	_, err = svc.List(anon, false)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.SetRead(anon, domain.ContactPatch{ID: m.ID, Read: domain.Some(true)})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.SetRead(admin(), domain.ContactPatch{Read: domain.Some(true)})
	assert.True(t, domain.IsValidation(err))

	got, err := svc.SetRead(admin(), domain.ContactPatch{ID: m.ID, Read: domain.Some(true)})
	require.NoError(t, err)
	assert.True(t, got.Read)

	n, err := svc.CountUnread(admin())
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, svc.Delete(admin(), m.ID))
	assert.ErrorIs(t, svc.Delete(admin(), m.ID), domain.ErrNotFound)
}

func TestGallery_CRUDAndGate(t *testing.T) {
	store := &fakeStore{}
	svc := services.NewGalleryService(repos.NewGalleryRepo(memdb(t)))
	svc.Images, svc.PurgeOrphans = store, true

	_, err := svc.Create(context.Background(), domain.GalleryInput{URL: "https://cdn.example/1.jpg"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Create(admin(), domain.GalleryInput{URL: "nope"})
	assert.True(t, domain.IsValidation(err))

	g, err := svc.Create(admin(), domain.GalleryInput{URL: "https://cdn.example/1.jpg", PublicID: strp("orits/1"), Order: 3})
	require.NoError(t, err)

	g, err = svc.Update(admin(), g.ID, domain.GalleryPatch{Title: domain.Some("Bridal Couture")})
	require.NoError(t, err)
	assert.Equal(t, "Bridal Couture", *g.Title)
	assert.Equal(t, 3, g.Order)

	require.NoError(t, svc.Delete(admin(), g.ID))
	assert.Equal(t, []string{"orits/1"}, store.deleted)
}

func TestMedia_Gate(t *testing.T) {
	svc := services.NewMediaService(&fakeStore{})

	_, err := svc.Upload(context.Background(), "data:image/png;base64,AAAA")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Upload(admin(), " ")
	assert.True(t, domain.IsValidation(err))

	res, err := svc.Upload(admin(), "gown.jpg")
	require.NoError(t, err)
	assert.Equal(t, "orits/gown.jpg", res.PublicID)

	assert.True(t, domain.IsValidation(svc.Delete(admin(), "")))
	assert.NoError(t, svc.Delete(admin(), "orits/gown.jpg"))

	_, err = services.NewMediaService(nil).Upload(admin(), "x")
	assert.ErrorIs(t, err, services.ErrNoImageStore)
}

func TestDashboard_Stats(t *testing.T) {
	db := memdb(t)
	_, err := repos.SeedDemo(context.Background(), db)
	require.NoError(t, err)
	svc := &services.DashboardService{
		Cats: repos.NewCategoryRepo(db), Prods: repos.NewProductRepo(db), Gallery: repos.NewGalleryRepo(db),
		Reviews: repos.NewReviewRepo(db), Messages: repos.NewContactRepo(db),
	}

	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	st, err := svc.Stats(admin())
	require.NoError(t, err)
	assert.Equal(t, 8, st.Products)
	assert.Equal(t, 5, st.Categories)
	assert.Equal(t, 8, st.GalleryImages)
	assert.Zero(t, st.Drafts)
}

func TestPriceFrom(t *testing.T) {
	p, err := services.PriceFrom("125,000.50")
	require.NoError(t, err)
	assert.True(t, p.Valid)
	assert.Equal(t, "125000.5", p.Decimal.String())

	p, err = services.PriceFrom("  ")
	require.NoError(t, err)
	assert.False(t, p.Valid)

	_, err = services.PriceFrom("cheap")
	assert.True(t, domain.IsValidation(err))
}
