package repos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, name, password_hash, created_at`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER(?)`), strings.TrimSpace(email))
	return u, translate(err)
}

func (r *UserRepo) ByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE id = ?`), id)
	return u, translate(err)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

// CreateFirst inserts the single admin account. It refuses with
// domain.ErrAdminExists once any user row exists; the count and the insert
// share a transaction so two racing seeds cannot both win.
func (r *UserRepo) CreateFirst(ctx context.Context, u *domain.User) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrAdminExists
	}
	u.ID = uuid.NewString()
	u.CreatedAt = now()
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO users(id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)
	`), u.ID, u.Email, u.Name, u.Hash, u.CreatedAt); err != nil {
		return translate(err)
	}
	return tx.Commit()
}

func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) error {
	t := now()
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO sessions(id, user_id, created_at, last_seen) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, last_seen = excluded.last_seen
	`), sid, userID, t, t)
	return err
}

// SessionUser resolves the user bound to sid. Sessions idle for longer than
// ttl are treated as missing; live ones have last_seen refreshed.
func (r *UserRepo) SessionUser(ctx context.Context, sid string, ttl time.Duration) (domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`
      SELECT u.id, u.email, u.name, u.password_hash, u.created_at
      FROM sessions s
      JOIN users u ON u.id = s.user_id
      WHERE s.id = ? AND s.last_seen > ?`), sid, now().Add(-ttl))
	if err != nil {
		return domain.User{}, translate(err)
	}
	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE sessions SET last_seen = ? WHERE id = ?`), now(), sid); err != nil {
		// the session is still valid; it just will not slide this time
		applog.Event("warn", "session.touch.fail", err, map[string]any{"user_id": u.ID})
	}
	return u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE id = ?`), sid)
	return err
}

// PruneSessions drops sessions idle past ttl.
func (r *UserRepo) PruneSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE last_seen <= ?`), now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
