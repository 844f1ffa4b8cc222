package services

import (
	"context"
	"strings"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

const defaultRating = 5

type ReviewService struct {
	Repo *repos.ReviewRepo
}

func NewReviewService(repo *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Repo: repo}
}

// List shows only approved reviews to the public; an admin may filter on
// approval freely (nil Approved means all).
func (s *ReviewService) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	if !isAdmin(ctx) {
		approved := true
		f.Approved = &approved
	}
	return s.Repo.List(ctx, f)
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if !r.Approved && !isAdmin(ctx) {
		return domain.Review{}, domain.ErrNotFound
	}
	return r, nil
}

// Submit stores a customer review. It always starts unapproved and
// unfeatured regardless of what the client sent.
func (s *ReviewService) Submit(ctx context.Context, in domain.ReviewInput) (domain.Review, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Content = strings.TrimSpace(in.Content)
	in.Email = validate.Optional(in.Email)
	if err := validate.Struct(in); err != nil {
		return domain.Review{}, err
	}
	if in.Rating == 0 {
		in.Rating = defaultRating
	}
	r := domain.Review{
		Name:     in.Name,
		Email:    in.Email,
		Rating:   in.Rating,
		Content:  in.Content,
		Featured: false,
		Approved: false,
	}
	if err := s.Repo.Create(ctx, &r); err != nil {
		return domain.Review{}, err
	}
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.Review, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Review{}, err
	}
	if p.Name.Set {
		p.Name.Value = strings.TrimSpace(p.Name.Value)
		if p.Name.Null || p.Name.Value == "" {
			return domain.Review{}, domain.Invalid("name", "name is required")
		}
	}
	if p.Content.Set {
		p.Content.Value = strings.TrimSpace(p.Content.Value)
		if p.Content.Null || p.Content.Value == "" {
			return domain.Review{}, domain.Invalid("content", "content is required")
		}
	}
	if p.Email.Set && !p.Email.Null && strings.TrimSpace(p.Email.Value) != "" {
		if _, ok := validate.Email(p.Email.Value); !ok {
			return domain.Review{}, domain.Invalid("email", "enter a valid email address")
		}
	}
	if p.Rating.Set && (p.Rating.Null || !validate.Rating(p.Rating.Value)) {
		return domain.Review{}, domain.Invalid("rating", "rating must be between 1 and 5")
	}
	if p.Featured.Set && p.Featured.Null {
		p.Featured = domain.Field[bool]{}
	}
	if p.Approved.Set && p.Approved.Null {
		p.Approved = domain.Field[bool]{}
	}
	return s.Repo.Update(ctx, id, p)
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
