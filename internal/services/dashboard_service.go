package services

import (
	"context"

	"github.com/TheJazzDev/orits-fashion/internal/repos"
)

// Stats are the counters on the admin landing page.
type Stats struct {
	Products       int
	Drafts         int
	Categories     int
	GalleryImages  int
	PendingReviews int
	UnreadMessages int
}

type DashboardService struct {
	Cats     *repos.CategoryRepo
	Prods    *repos.ProductRepo
	Gallery  *repos.GalleryRepo
	Reviews  *repos.ReviewRepo
	Messages *repos.ContactRepo
}

func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if _, err := requireAdmin(ctx); err != nil {
		return st, err
	}
	all, err := s.Prods.Count(ctx, true)
	if err != nil {
		return st, err
	}
	published, err := s.Prods.Count(ctx, false)
	if err != nil {
		return st, err
	}
	st.Products, st.Drafts = all, all-published

	cats, err := s.Cats.List(ctx)
	if err != nil {
		return st, err
	}
	st.Categories = len(cats)

	imgs, err := s.Gallery.List(ctx)
	if err != nil {
		return st, err
	}
	st.GalleryImages = len(imgs)

	if st.PendingReviews, err = s.Reviews.CountPending(ctx); err != nil {
		return st, err
	}
	if st.UnreadMessages, err = s.Messages.CountUnread(ctx); err != nil {
		return st, err
	}
	return st, nil
}
