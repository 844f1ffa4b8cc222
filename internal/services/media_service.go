package services

import (
	"context"
	"errors"
	"strings"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

// ErrNoImageStore is returned when uploads are not configured.
var ErrNoImageStore = errors.New("image uploads are not configured")

// MediaService proxies admin uploads to the image host.
type MediaService struct {
	Store ImageStore
}

func NewMediaService(store ImageStore) *MediaService { return &MediaService{Store: store} }

func (s *MediaService) Upload(ctx context.Context, source string) (domain.UploadResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.UploadResult{}, err
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return domain.UploadResult{}, domain.Invalid("image", "Image data is required")
	}
	if s.Store == nil {
		return domain.UploadResult{}, ErrNoImageStore
	}
	return s.Store.Upload(ctx, source)
}

func (s *MediaService) Delete(ctx context.Context, publicID string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return domain.Invalid("publicId", "Public ID is required")
	}
	if s.Store == nil {
		return ErrNoImageStore
	}
	return s.Store.Delete(ctx, publicID)
}
