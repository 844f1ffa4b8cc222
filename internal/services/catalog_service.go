package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	"github.com/TheJazzDev/orits-fashion/internal/format"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

const relatedLimit = 4

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo

	// Images, when set together with PurgeOrphans, receives deletes for
	// uploads that no product references any more.
	Images       ImageStore
	PurgeOrphans bool
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

// ---------- categories ----------

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, idOrSlug string) (domain.Category, error) {
	return s.Cats.Find(ctx, strings.TrimSpace(idOrSlug))
}

func (s *CatalogService) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Category{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Image = validate.Optional(in.Image)
	if err := validate.Struct(in); err != nil {
		return domain.Category{}, err
	}
	slug, err := slugFor(in.Slug, in.Name)
	if err != nil {
		return domain.Category{}, err
	}
	c := domain.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: validate.Optional(in.Description),
		Image:       in.Image,
		Order:       in.Order,
	}
	if err := s.Cats.Create(ctx, &c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Category{}, err
	}
	if p.Name.Set {
		p.Name.Value = strings.TrimSpace(p.Name.Value)
		if p.Name.Null || p.Name.Value == "" {
			return domain.Category{}, domain.Invalid("name", "name is required")
		}
	}
	if p.Image.Set && !p.Image.Null && strings.TrimSpace(p.Image.Value) != "" {
		if err := validate.Struct(struct {
			Image string `json:"image" validate:"url"`
		}{strings.TrimSpace(p.Image.Value)}); err != nil {
			return domain.Category{}, err
		}
	}
	if p.Slug.Set {
		name := p.Name.Value
		if !p.Name.Set {
			cur, err := s.Cats.Find(ctx, id)
			if err != nil {
				return domain.Category{}, err
			}
			name = cur.Name
		}
		slug, err := slugFor(p.Slug.Value, name)
		if err != nil {
			return domain.Category{}, err
		}
		p.Slug = domain.Some(slug)
	}
	return s.Cats.Update(ctx, id, p)
}

// DeleteCategory removes the category; its products become uncategorized.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.Cats.Delete(ctx, id)
}

// ---------- products ----------

// ListProducts honours IncludeDrafts only for an authenticated principal.
func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	if !isAdmin(ctx) {
		f.IncludeDrafts = false
	}
	return s.Prods.List(ctx, f)
}

// GetProduct returns a product by id or slug; drafts are invisible to the public.
func (s *CatalogService) GetProduct(ctx context.Context, idOrSlug string) (domain.Product, error) {
	p, err := s.Prods.Find(ctx, strings.TrimSpace(idOrSlug))
	if err != nil {
		return domain.Product{}, err
	}
	if !p.Published && !isAdmin(ctx) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Related lists the most recent published products in the same category.
func (s *CatalogService) Related(ctx context.Context, p domain.Product) ([]domain.Product, error) {
	if p.CategoryID == nil {
		return []domain.Product{}, nil
	}
	return s.Prods.List(ctx, domain.ProductFilter{
		CategoryID:     *p.CategoryID,
		ExcludeID:      p.ID,
		FirstImageOnly: true,
		Limit:          relatedLimit,
	})
}

func (s *CatalogService) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Product{}, err
	}
	if in.Price.Valid && in.Price.Decimal.IsNegative() {
		return domain.Product{}, domain.Invalid("price", "price cannot be negative")
	}
	catID, err := s.checkCategory(ctx, in.CategoryID)
	if err != nil {
		return domain.Product{}, err
	}
	slug, err := slugFor(in.Slug, in.Name)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		Name:        in.Name,
		Slug:        slug,
		Description: validate.Optional(in.Description),
		Price:       in.Price,
		Featured:    in.Featured,
		Published:   in.Published == nil || *in.Published,
		CategoryID:  catID,
	}
	if err := s.Prods.Create(ctx, &p, in.Images); err != nil {
		return domain.Product{}, err
	}
	if catID != nil {
		if c, err := s.Cats.Find(ctx, *catID); err == nil {
			p.Category = &c
		}
	}
	return p, nil
}

// UpdateProduct applies a patch. A non-null images list replaces the whole
// image set in the same transaction as the field update.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, p domain.ProductPatch) (domain.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}
	if p.Name.Set {
		p.Name.Value = strings.TrimSpace(p.Name.Value)
		if p.Name.Null || p.Name.Value == "" {
			return domain.Product{}, domain.Invalid("name", "name is required")
		}
	}
	if p.Price.Set && !p.Price.Null && p.Price.Value.IsNegative() {
		return domain.Product{}, domain.Invalid("price", "price cannot be negative")
	}
	if p.Featured.Set && p.Featured.Null {
		p.Featured = domain.Field[bool]{}
	}
	if p.Published.Set && p.Published.Null {
		p.Published = domain.Field[bool]{}
	}
	if p.CategoryID.Set && !p.CategoryID.Null {
		if _, err := s.checkCategory(ctx, &p.CategoryID.Value); err != nil {
			return domain.Product{}, err
		}
	}
	if p.ReplacesImages() {
		for _, img := range p.Images.Value {
			if err := validate.Struct(img); err != nil {
				return domain.Product{}, err
			}
		}
	}
	if p.Slug.Set {
		name := p.Name.Value
		if !p.Name.Set {
			cur, err := s.Prods.Find(ctx, id)
			if err != nil {
				return domain.Product{}, err
			}
			name = cur.Name
		}
		slug, err := slugFor(p.Slug.Value, name)
		if err != nil {
			return domain.Product{}, err
		}
		p.Slug = domain.Some(slug)
	}

	out, removed, err := s.Prods.Update(ctx, id, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.purge(ctx, removed, out.Images)
	return out, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	removed, err := s.Prods.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.purge(ctx, removed, nil)
	return nil
}

// ProductSlugs lists published product slugs for the sitemap.
func (s *CatalogService) ProductSlugs(ctx context.Context) ([]string, error) {
	return s.Prods.PublishedSlugs(ctx)
}

// checkCategory maps a blank id to nil and rejects ids that do not exist.
func (s *CatalogService) checkCategory(ctx context.Context, id *string) (*string, error) {
	id = validate.Optional(id)
	if id == nil {
		return nil, nil
	}
	c, err := s.Cats.Find(ctx, *id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && c.ID != *id) {
		return nil, domain.Invalid("categoryId", "unknown category")
	}
	if err != nil {
		return nil, err
	}
	return id, nil
}

// purge deletes uploads that were dropped from a product. Failures are
// logged and never surface to the caller.
func (s *CatalogService) purge(ctx context.Context, removed, kept []domain.ProductImage) {
	if !s.PurgeOrphans || s.Images == nil || len(removed) == 0 {
		return
	}
	still := map[string]bool{}
	for _, im := range kept {
		if im.PublicID != nil {
			still[*im.PublicID] = true
		}
	}
	for _, im := range removed {
		if im.PublicID == nil || *im.PublicID == "" || still[*im.PublicID] {
			continue
		}
		if err := s.Images.Delete(ctx, *im.PublicID); err != nil {
			applog.Event("warn", "media.purge.fail", err, map[string]any{"public_id": *im.PublicID})
			continue
		}
		applog.Event("info", "media.purge", nil, map[string]any{"public_id": *im.PublicID})
	}
}

// slugFor normalises an explicit slug, falling back to the name.
func slugFor(explicit, name string) (string, error) {
	slug := format.Slugify(explicit)
	if slug == "" {
		slug = format.Slugify(name)
	}
	if slug == "" {
		return "", domain.Invalid("slug", "could not derive a slug from the name")
	}
	return slug, nil
}

// PriceFrom parses a form price; blank means "price on request".
func PriceFrom(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, domain.Invalid("price", "price must be a number")
	}
	return decimal.NewNullDecimal(d), nil
}
