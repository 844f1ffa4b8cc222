package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewCols = `id, name, email, rating, content, featured, approved, created_at`

func (r *ReviewRepo) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	where := []string{"1 = 1"}
	args := []any{}
	if f.Approved != nil {
		where = append(where, "approved = ?")
		args = append(args, *f.Approved)
	}
	if f.Featured != nil {
		where = append(where, "featured = ?")
		args = append(args, *f.Featured)
	}
	q := `SELECT ` + reviewCols + ` FROM reviews WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	out := []domain.Review{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, err
}

func (r *ReviewRepo) Get(ctx context.Context, id string) (domain.Review, error) {
	var rv domain.Review
	err := r.db.GetContext(ctx, &rv, r.db.Rebind(`SELECT `+reviewCols+` FROM reviews WHERE id = ?`), id)
	return rv, translate(err)
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	rv.ID = uuid.NewString()
	rv.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO reviews(id, name, email, rating, content, featured, approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), rv.ID, rv.Name, rv.Email, rv.Rating, rv.Content, rv.Featured, rv.Approved, rv.CreatedAt)
	return translate(err)
}

func (r *ReviewRepo) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.Review, error) {
	var s setList
	if p.Name.Set {
		s.add("name", p.Name.Value)
	}
	if p.Email.Set {
		s.add("email", strOrNil(p.Email))
	}
	if p.Rating.Set {
		s.add("rating", p.Rating.Value)
	}
	if p.Content.Set {
		s.add("content", p.Content.Value)
	}
	if p.Featured.Set {
		s.add("featured", p.Featured.Value)
	}
	if p.Approved.Set {
		s.add("approved", p.Approved.Value)
	}
	if s.empty() {
		return r.Get(ctx, id)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE reviews SET `+s.sql()+` WHERE id = ?`), append(s.args, id)...)
	if err != nil {
		return domain.Review{}, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Review{}, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM reviews WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM reviews WHERE approved = ?`), false)
	return n, err
}
