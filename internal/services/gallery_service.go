package services

import (
	"context"
	"strings"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

type GalleryService struct {
	Repo *repos.GalleryRepo

	Images       ImageStore
	PurgeOrphans bool
}

func NewGalleryService(repo *repos.GalleryRepo) *GalleryService {
	return &GalleryService{Repo: repo}
}

func (s *GalleryService) List(ctx context.Context) ([]domain.GalleryImage, error) {
	return s.Repo.List(ctx)
}

func (s *GalleryService) Get(ctx context.Context, id string) (domain.GalleryImage, error) {
	return s.Repo.Get(ctx, id)
}

func (s *GalleryService) Create(ctx context.Context, in domain.GalleryInput) (domain.GalleryImage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.GalleryImage{}, err
	}
	in.URL = strings.TrimSpace(in.URL)
	if err := validate.Struct(in); err != nil {
		return domain.GalleryImage{}, err
	}
	g := domain.GalleryImage{
		URL:         in.URL,
		PublicID:    validate.Optional(in.PublicID),
		Title:       validate.Optional(in.Title),
		Description: validate.Optional(in.Description),
		Order:       in.Order,
	}
	if err := s.Repo.Create(ctx, &g); err != nil {
		return domain.GalleryImage{}, err
	}
	return g, nil
}

func (s *GalleryService) Update(ctx context.Context, id string, p domain.GalleryPatch) (domain.GalleryImage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.GalleryImage{}, err
	}
	if p.URL.Set {
		p.URL.Value = strings.TrimSpace(p.URL.Value)
		if p.URL.Null || p.URL.Value == "" {
			return domain.GalleryImage{}, domain.Invalid("url", "url is required")
		}
		if err := validate.Struct(struct {
			URL string `json:"url" validate:"url"`
		}{p.URL.Value}); err != nil {
			return domain.GalleryImage{}, err
		}
	}
	if p.Order.Set && p.Order.Null {
		p.Order = domain.Some(0)
	}
	return s.Repo.Update(ctx, id, p)
}

func (s *GalleryService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	g, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if s.PurgeOrphans && s.Images != nil && g.PublicID != nil {
		if err := s.Images.Delete(ctx, *g.PublicID); err != nil {
			applog.Event("warn", "media.purge.fail", err, map[string]any{"public_id": *g.PublicID})
		}
	}
	return nil
}
