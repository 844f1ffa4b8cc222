package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/TheJazzDev/orits-fashion/internal/config"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

// Deps holds every handler the router mounts.
type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	SiteHandler     *SiteHandler
	AdminHandler    *AdminHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	GalleryHandler  *GalleryHandler
	ReviewHandler   *ReviewHandler
	ContactHandler  *ContactHandler
	UploadHandler   *UploadHandler
}

// NewDeps wires repos, services and handlers over one database. images and
// mail may be nil; uploads are then refused and messages are only stored.
func NewDeps(db *sqlx.DB, cfg config.Config, images services.ImageStore, mail services.Notifier) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	galRepo := repos.NewGalleryRepo(db)
	revRepo := repos.NewReviewRepo(db)
	msgRepo := repos.NewContactRepo(db)
	userRepo := repos.NewUserRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.SessionTTL)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	catalogSvc.Images, catalogSvc.PurgeOrphans = images, cfg.PurgeOrphanUploads

	gallerySvc := services.NewGalleryService(galRepo)
	gallerySvc.Images, gallerySvc.PurgeOrphans = images, cfg.PurgeOrphanUploads

	reviewSvc := services.NewReviewService(revRepo)

	contactSvc := services.NewContactService(msgRepo)
	contactSvc.Mail, contactSvc.AdminEmail, contactSvc.SiteURL = mail, cfg.Mail.AdminEmail, cfg.SiteURL

	dashSvc := &services.DashboardService{Cats: catRepo, Prods: prodRepo, Gallery: galRepo, Reviews: revRepo, Messages: msgRepo}
	mediaSvc := services.NewMediaService(images)

	degrade := cfg.DegradeListErrors
	return &Deps{
		Auth: authSvc,

		AuthHandler: &AuthHandler{Auth: authSvc, Secure: cfg.CookieSecure},
		SiteHandler: &SiteHandler{
			Catalog: catalogSvc, Gallery: gallerySvc, Reviews: reviewSvc, Contact: contactSvc, SiteURL: cfg.SiteURL,
		},
		AdminHandler: &AdminHandler{
			Catalog: catalogSvc, Gallery: gallerySvc, Reviews: reviewSvc, Contact: contactSvc,
			Dashboard: dashSvc, Media: mediaSvc,
		},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc, Degrade: degrade},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Degrade: degrade},
		GalleryHandler:  &GalleryHandler{Gallery: gallerySvc, Degrade: degrade},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc, Degrade: degrade},
		ContactHandler:  &ContactHandler{Contact: contactSvc, Degrade: degrade},
		UploadHandler:   &UploadHandler{Media: mediaSvc},
	}
}
