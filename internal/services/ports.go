package services

import (
	"context"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

// ImageStore is the external image host.
type ImageStore interface {
	// Upload accepts a data URI or a remote URL.
	Upload(ctx context.Context, source string) (domain.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// Notifier delivers transactional email.
type Notifier interface {
	Send(ctx context.Context, msg domain.Email) error
}

// requireAdmin is the gate every mutating operation passes first.
func requireAdmin(ctx context.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

func isAdmin(ctx context.Context) bool {
	_, ok := domain.PrincipalFrom(ctx)
	return ok
}
