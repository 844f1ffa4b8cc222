package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

type ContactRepo struct{ db *sqlx.DB }

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactCols = `id, name, email, phone, subject, message, is_read, created_at`

func (r *ContactRepo) List(ctx context.Context, unreadOnly bool) ([]domain.ContactMessage, error) {
	q := `SELECT ` + contactCols + ` FROM contact_messages`
	args := []any{}
	if unreadOnly {
		q += ` WHERE is_read = ?`
		args = append(args, false)
	}
	q += ` ORDER BY created_at DESC`
	out := []domain.ContactMessage{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, err
}

func (r *ContactRepo) Get(ctx context.Context, id string) (domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := r.db.GetContext(ctx, &m, r.db.Rebind(`SELECT `+contactCols+` FROM contact_messages WHERE id = ?`), id)
	return m, translate(err)
}

func (r *ContactRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	m.ID = uuid.NewString()
	m.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO contact_messages(id, name, email, phone, subject, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.Read, m.CreatedAt)
	return translate(err)
}

func (r *ContactRepo) SetRead(ctx context.Context, id string, read bool) (domain.ContactMessage, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE contact_messages SET is_read = ? WHERE id = ?`), read, id)
	if err != nil {
		return domain.ContactMessage{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ContactMessage{}, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM contact_messages WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM contact_messages WHERE is_read = ?`), false)
	return n, err
}
