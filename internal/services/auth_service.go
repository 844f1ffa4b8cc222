package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

var ErrBadCreds = errors.New("invalid email or password")

const hashCost = 12

type AuthService struct {
	Users *repos.UserRepo
	TTL   time.Duration
}

func NewAuthService(users *repos.UserRepo, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{Users: users, TTL: ttl}
}

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, ErrBadCreds
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.User{}, ErrBadCreds
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

// CurrentUser resolves a session id; expired or unknown sessions yield
// domain.ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (domain.User, error) {
	if sid == "" {
		return domain.User{}, domain.ErrNotFound
	}
	return s.Users.SessionUser(ctx, sid, s.TTL)
}

// AdminExists reports whether the one admin account has been created.
func (s *AuthService) AdminExists(ctx context.Context) (bool, error) {
	n, err := s.Users.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Bootstrap creates the one admin account. Once any user exists it fails
// with domain.ErrAdminExists whatever the payload, before any validation.
func (s *AuthService) Bootstrap(ctx context.Context, in domain.AdminInput) (domain.User, error) {
	exists, err := s.AdminExists(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, domain.ErrAdminExists
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return domain.User{}, err
	}
	if len(in.Password) < validate.MinPassword {
		return domain.User{}, domain.Invalid("password", "Password must be at least 8 characters")
	}
	if len(in.Password) > validate.MaxPassword {
		return domain.User{}, domain.Invalid("password", "Password must be at most 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{Name: in.Name, Email: in.Email, Hash: string(hash)}
	// CreateFirst repeats the count inside its transaction
	if err := s.Users.CreateFirst(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
