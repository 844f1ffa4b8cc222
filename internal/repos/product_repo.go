package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

type ProductRepo struct {
	db   *sqlx.DB
	cats *CategoryRepo
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db, cats: NewCategoryRepo(db)}
}

const productCols = `p.id, p.name, p.slug, p.description, p.price, p.featured, p.published, p.category_id, p.created_at, p.updated_at`

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	where := []string{"1 = 1"}
	args := []any{}
	if !f.IncludeDrafts {
		where = append(where, "p.published = ?")
		args = append(args, true)
	}
	if f.CategorySlug != "" {
		where = append(where, "p.category_id IN (SELECT id FROM categories WHERE slug = ?)")
		args = append(args, f.CategorySlug)
	}
	if f.CategoryID != "" {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.ExcludeID != "" {
		where = append(where, "p.id <> ?")
		args = append(args, f.ExcludeID)
	}
	if f.Featured != nil {
		where = append(where, "p.featured = ?")
		args = append(args, *f.Featured)
	}

	q := `
  SELECT ` + productCols + `
  FROM products p
  WHERE ` + strings.Join(where, " AND ") + `
  ORDER BY p.created_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	out := []domain.Product{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	if err := r.attach(ctx, out, f.FirstImageOnly); err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns a product by id or slug with its full ordered image set.
func (r *ProductRepo) Find(ctx context.Context, idOrSlug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`
  SELECT `+productCols+`
  FROM products p
  WHERE p.id = ? OR p.slug = ?
`), idOrSlug, idOrSlug)
	if err != nil {
		return domain.Product{}, translate(err)
	}
	list := []domain.Product{p}
	if err := r.attach(ctx, list, false); err != nil {
		return domain.Product{}, err
	}
	return list[0], nil
}

// attach fills Images and Category for a page of products with two queries.
func (r *ProductRepo) attach(ctx context.Context, ps []domain.Product, firstOnly bool) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ps))
	catIDs := []string{}
	for _, p := range ps {
		ids = append(ids, p.ID)
		if p.CategoryID != nil {
			catIDs = append(catIDs, *p.CategoryID)
		}
	}

	q, args, err := sqlx.In(`
		SELECT id, product_id, url, public_id, alt, sort_order
		FROM product_images
		WHERE product_id IN (?)
		ORDER BY product_id, sort_order ASC, id ASC`, ids)
	if err != nil {
		return err
	}
	var imgs []domain.ProductImage
	if err := r.db.SelectContext(ctx, &imgs, r.db.Rebind(q), args...); err != nil {
		return err
	}
	byProduct := map[string][]domain.ProductImage{}
	for _, im := range imgs {
		if firstOnly && len(byProduct[im.ProductID]) == 1 {
			continue
		}
		byProduct[im.ProductID] = append(byProduct[im.ProductID], im)
	}

	cats, err := r.cats.ByIDs(ctx, catIDs)
	if err != nil {
		return err
	}
	for i := range ps {
		ps[i].Images = byProduct[ps[i].ID]
		if ps[i].Images == nil {
			ps[i].Images = []domain.ProductImage{}
		}
		if ps[i].CategoryID != nil {
			if c, ok := cats[*ps[i].CategoryID]; ok {
				ps[i].Category = &c
			}
		}
	}
	return nil
}

// Create inserts the product and its images in one transaction.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product, images []domain.ImageInput) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	p.ID = uuid.NewString()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO products(id, name, slug, description, price, featured, published, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Slug, p.Description, p.Price, p.Featured, p.Published, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if p.Images, err = insertImages(ctx, tx, p.ID, images); err != nil {
		return err
	}
	return tx.Commit()
}

// Update patches the product row and, when the patch carries images, swaps
// the whole image set inside the same transaction. The replaced rows are
// returned so callers can clean up the image host.
func (r *ProductRepo) Update(ctx context.Context, id string, p domain.ProductPatch) (domain.Product, []domain.ProductImage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Product{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var s setList
	if p.Name.Set {
		s.add("name", p.Name.Value)
	}
	if p.Slug.Set {
		s.add("slug", p.Slug.Value)
	}
	if p.Description.Set {
		s.add("description", strOrNil(p.Description))
	}
	if p.Price.Set {
		if p.Price.Null {
			s.add("price", nil)
		} else {
			s.add("price", p.Price.Value)
		}
	}
	if p.Featured.Set {
		s.add("featured", p.Featured.Value)
	}
	if p.Published.Set {
		s.add("published", p.Published.Value)
	}
	if p.CategoryID.Set {
		s.add("category_id", strOrNil(p.CategoryID))
	}
	s.add("updated_at", now())

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET `+s.sql()+` WHERE id = ?`), append(s.args, id)...)
	if err != nil {
		return domain.Product{}, nil, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, nil, domain.ErrNotFound
	}

	var removed []domain.ProductImage
	if p.ReplacesImages() {
		if err := tx.SelectContext(ctx, &removed, tx.Rebind(`
			SELECT id, product_id, url, public_id, alt, sort_order FROM product_images WHERE product_id = ?`), id); err != nil {
			return domain.Product{}, nil, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM product_images WHERE product_id = ?`), id); err != nil {
			return domain.Product{}, nil, err
		}
		if _, err := insertImages(ctx, tx, id, p.Images.Value); err != nil {
			return domain.Product{}, nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, nil, err
	}

	out, err := r.Find(ctx, id)
	return out, removed, err
}

// Delete removes the product and its images, returning the image rows.
func (r *ProductRepo) Delete(ctx context.Context, id string) ([]domain.ProductImage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var removed []domain.ProductImage
	if err := tx.SelectContext(ctx, &removed, tx.Rebind(`
		SELECT id, product_id, url, public_id, alt, sort_order FROM product_images WHERE product_id = ?`), id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM product_images WHERE product_id = ?`), id); err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return removed, tx.Commit()
}

// PublishedSlugs feeds the sitemap.
func (r *ProductRepo) PublishedSlugs(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`SELECT slug FROM products WHERE published = ? ORDER BY created_at DESC`), true)
	return out, err
}

func (r *ProductRepo) Count(ctx context.Context, includeDrafts bool) (int, error) {
	var n int
	q := `SELECT COUNT(*) FROM products`
	args := []any{}
	if !includeDrafts {
		q += ` WHERE published = ?`
		args = append(args, true)
	}
	err := r.db.GetContext(ctx, &n, r.db.Rebind(q), args...)
	return n, err
}

// insertImages writes images in the given sequence; order falls back to the
// position in the list.
func insertImages(ctx context.Context, tx *sqlx.Tx, productID string, images []domain.ImageInput) ([]domain.ProductImage, error) {
	out := make([]domain.ProductImage, 0, len(images))
	for i, in := range images {
		img := domain.ProductImage{
			ID:        uuid.NewString(),
			ProductID: productID,
			URL:       strings.TrimSpace(in.URL),
			PublicID:  in.PublicID,
			Alt:       in.Alt,
			Order:     i,
		}
		if in.Order != nil {
			img.Order = *in.Order
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO product_images(id, product_id, url, public_id, alt, sort_order)
			VALUES (?, ?, ?, ?, ?, ?)
		`), img.ID, img.ProductID, img.URL, img.PublicID, img.Alt, img.Order); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
