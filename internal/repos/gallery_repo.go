package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

type GalleryRepo struct{ db *sqlx.DB }

func NewGalleryRepo(db *sqlx.DB) *GalleryRepo { return &GalleryRepo{db: db} }

const galleryCols = `id, url, public_id, title, description, sort_order, created_at`

func (r *GalleryRepo) List(ctx context.Context) ([]domain.GalleryImage, error) {
	out := []domain.GalleryImage{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+galleryCols+` FROM gallery_images ORDER BY sort_order ASC, created_at ASC`)
	return out, err
}

func (r *GalleryRepo) Get(ctx context.Context, id string) (domain.GalleryImage, error) {
	var g domain.GalleryImage
	err := r.db.GetContext(ctx, &g, r.db.Rebind(`SELECT `+galleryCols+` FROM gallery_images WHERE id = ?`), id)
	return g, translate(err)
}

// ExistsURL lets the demo seeder skip images it already inserted.
func (r *GalleryRepo) ExistsURL(ctx context.Context, url string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM gallery_images WHERE url = ?`), url)
	return n > 0, err
}

func (r *GalleryRepo) Create(ctx context.Context, g *domain.GalleryImage) error {
	g.ID = uuid.NewString()
	g.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO gallery_images(id, url, public_id, title, description, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), g.ID, g.URL, g.PublicID, g.Title, g.Description, g.Order, g.CreatedAt)
	return translate(err)
}

func (r *GalleryRepo) Update(ctx context.Context, id string, p domain.GalleryPatch) (domain.GalleryImage, error) {
	var s setList
	if p.URL.Set {
		s.add("url", p.URL.Value)
	}
	if p.Title.Set {
		s.add("title", strOrNil(p.Title))
	}
	if p.Description.Set {
		s.add("description", strOrNil(p.Description))
	}
	if p.Order.Set {
		s.add("sort_order", p.Order.Value)
	}
	if s.empty() {
		return r.Get(ctx, id)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE gallery_images SET `+s.sql()+` WHERE id = ?`), append(s.args, id)...)
	if err != nil {
		return domain.GalleryImage{}, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.GalleryImage{}, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete returns the removed row so its upload can be purged.
func (r *GalleryRepo) Delete(ctx context.Context, id string) (domain.GalleryImage, error) {
	g, err := r.Get(ctx, id)
	if err != nil {
		return domain.GalleryImage{}, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM gallery_images WHERE id = ?`), id)
	if err != nil {
		return domain.GalleryImage{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.GalleryImage{}, domain.ErrNotFound
	}
	return g, nil
}
