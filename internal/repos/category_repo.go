package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `c.id, c.name, c.slug, c.description, c.image, c.sort_order, c.created_at, c.updated_at`

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT `+categoryCols+`,
    (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count
  FROM categories c
  ORDER BY c.sort_order ASC, c.name ASC
`)
	return out, err
}

// Find looks a category up by id or slug.
func (r *CategoryRepo) Find(ctx context.Context, idOrSlug string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`
  SELECT `+categoryCols+`,
    (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count
  FROM categories c
  WHERE c.id = ? OR c.slug = ?
`), idOrSlug, idOrSlug)
	return c, translate(err)
}

// ByIDs loads categories keyed by id, for attaching to product lists.
func (r *CategoryRepo) ByIDs(ctx context.Context, ids []string) (map[string]domain.Category, error) {
	out := map[string]domain.Category{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT `+categoryCols+` FROM categories c WHERE c.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Category
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO categories(id, name, slug, description, image, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.Name, c.Slug, c.Description, c.Image, c.Order, c.CreatedAt, c.UpdatedAt)
	return translate(err)
}

// Update applies only the fields present in the patch.
func (r *CategoryRepo) Update(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error) {
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
	if p.Image.Set {
		s.add("image", strOrNil(p.Image))
	}
	if p.Order.Set {
		s.add("sort_order", p.Order.Value)
	}
	s.add("updated_at", now())

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE categories SET `+s.sql()+` WHERE id = ?`), append(s.args, id)...)
	if err != nil {
		return domain.Category{}, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Category{}, domain.ErrNotFound
	}
	return r.Find(ctx, id)
}

// Delete removes a category and detaches its products; products are kept.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET category_id = NULL, updated_at = ? WHERE category_id = ?`), now(), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
