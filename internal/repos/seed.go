package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

// DemoReport summarises one run of SeedDemo.
type DemoReport struct {
	Categories      int `json:"categories"`
	ProductsCreated int `json:"productsCreated"`
	ProductsSkipped int `json:"productsSkipped"`
	GalleryCreated  int `json:"galleryCreated"`
	GallerySkipped  int `json:"gallerySkipped"`
}

type demoCategory struct {
	name, slug, description string
	order                   int
}

type demoProduct struct {
	name, slug, description string
	price                   int64
	featured                bool
	categorySlug            string
	image                   string
}

type demoGallery struct {
	url, title, description string
	order                   int
}

var demoCategories = []demoCategory{
	{"Women's Wear", "womens-wear", "Elegant and contemporary designs crafted for the modern woman.", 1},
	{"Men's Wear", "mens-wear", "Sharp tailoring and refined silhouettes for the distinguished gentleman.", 2},
	{"Children's Wear", "childrens-wear", "Adorable, comfortable designs made for little ones.", 3},
	{"English Wear", "english-wear", "Classic English-inspired garments with an African touch.", 4},
	{"Garments", "garments", "Pristine ceremonial and occasion wear.", 5},
}

var demoProducts = []demoProduct{
	{
		name: "Bespoke Evening Gown", slug: "bespoke-evening-gown",
		description: "An exquisite full-length evening gown crafted from premium silk organza. Hand-embroidered floral motifs adorn the bodice, complemented by a flowing A-line skirt that moves beautifully. Perfect for galas, weddings, and formal occasions.",
		price:       125000, featured: true, categorySlug: "womens-wear",
		image: "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=800&q=80",
	},
	{
		name: "Ankara Fusion Midi Dress", slug: "ankara-fusion-midi-dress",
		description: "A stunning fusion of traditional Ankara print and modern silhouette. Features a structured bodice with off-shoulder details and a flared skirt, celebrating African heritage with contemporary flair.",
		price:       75000, featured: true, categorySlug: "womens-wear",
		image: "https://images.unsplash.com/photo-1509631179647-0177331693ae?w=800&q=80",
	},
	{
		name: "Bridal Lace Gown", slug: "bridal-lace-gown",
		description: "Timeless bridal elegance in handcrafted French lace. Features a sweetheart neckline, cathedral train, and intricate beadwork along the bodice.",
		price:       280000, categorySlug: "womens-wear",
		image: "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?w=800&q=80",
	},
	{
		name: "Casual Chic Co-ord Set", slug: "casual-chic-coord-set",
		description: "Effortlessly stylish two-piece co-ord set in premium cotton blend. Wide-leg trousers and a tailored crop top with subtle embroidery. Versatile for brunch or smart-casual office looks.",
		price:       55000, categorySlug: "womens-wear",
		image: "https://images.unsplash.com/photo-1539109136881-3be0616acf4b?w=800&q=80",
	},
	{
		name: "Classic Senator Suit", slug: "classic-senator-suit",
		description: "A distinguished two-piece senator suit in premium linen. Structured jacket with mandarin collar and matching trousers, embodying refined African masculinity.",
		price:       85000, featured: true, categorySlug: "mens-wear",
		image: "https://images.unsplash.com/photo-1617127365659-c47fa864d8bc?w=800&q=80",
	},
	{
		name: "Agbada Formal Set", slug: "agbada-formal-set",
		description: "Regal three-piece Agbada ensemble crafted in rich brocade fabric. Includes the flowing outer robe, inner tunic, and matching trousers with gold thread embroidery.",
		price:       145000, categorySlug: "mens-wear",
		image: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&q=80",
	},
	{
		name: "Mini Ankara Princess Dress", slug: "mini-ankara-princess-dress",
		description: "Adorable princess-style dress for little girls in vibrant Ankara print. Puff sleeves, satin sash, and full skirt with petticoat. Perfect for naming ceremonies and birthdays.",
		price:       28000, categorySlug: "childrens-wear",
		image: "https://images.unsplash.com/photo-1550614000-4895a10e1bfd?w=800&q=80",
	},
	{
		name: "Celestial White Kaftan", slug: "celestial-white-kaftan",
		description: "Flowing white kaftan in premium Swiss voile with delicate gold embroidery along the neckline and hem. Ideal for church, naming ceremonies, and spiritual occasions.",
		price:       45000, categorySlug: "garments",
		image: "https://images.unsplash.com/photo-1487222477894-8943e31ef7b2?w=800&q=80",
	},
}

var demoGalleryImages = []demoGallery{
	{"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=600&q=80", "Bespoke Evening Gown", "Hand-crafted evening wear with intricate detailing", 1},
	{"https://images.unsplash.com/photo-1509631179647-0177331693ae?w=600&q=80", "Ankara Fusion Collection", "Modern silhouettes meet traditional African prints", 2},
	{"https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?w=600&q=80", "Bridal Couture", "Timeless elegance for your most special day", 3},
	{"https://images.unsplash.com/photo-1539109136881-3be0616acf4b?w=600&q=80", "Street Style Editorial", "Effortless everyday fashion with a signature touch", 4},
	{"https://images.unsplash.com/photo-1490481651871-ab68de25d43d?w=600&q=80", "Luxury Ready-to-Wear", "Premium fabrics, impeccable finishing", 5},
	{"https://images.unsplash.com/photo-1469334031218-e382a71b716b?w=600&q=80", "Men's Formal Collection", "Sharp cuts and refined tailoring for the modern gentleman", 6},
	{"https://images.unsplash.com/photo-1550614000-4895a10e1bfd?w=600&q=80", "Children's Wear", "Adorable designs crafted for comfort and style", 7},
	{"https://images.unsplash.com/photo-1487222477894-8943e31ef7b2?w=600&q=80", "Garments", "Pristine white ceremony and occasion wear", 8},
}

// SeedDemo fills an empty store with placeholder catalog data. Categories are
// upserted by slug; products and gallery images that already exist are left
// untouched so manual edits survive a rerun.
func SeedDemo(ctx context.Context, db *sqlx.DB) (DemoReport, error) {
	var rep DemoReport
	cats := NewCategoryRepo(db)
	products := NewProductRepo(db)
	gallery := NewGalleryRepo(db)

	for _, c := range demoCategories {
		t := now()
		if _, err := db.ExecContext(ctx, db.Rebind(`
			INSERT INTO categories(id, name, slug, description, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET name = excluded.name, description = excluded.description,
			  sort_order = excluded.sort_order, updated_at = excluded.updated_at
		`), uuid.NewString(), c.name, c.slug, c.description, c.order, t, t); err != nil {
			return rep, err
		}
		rep.Categories++
	}

	for _, dp := range demoProducts {
		cat, err := cats.Find(ctx, dp.categorySlug)
		if err != nil {
			return rep, err
		}
		if _, err := products.Find(ctx, dp.slug); err == nil {
			rep.ProductsSkipped++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return rep, err
		}
		desc, catID, alt := dp.description, cat.ID, dp.name
		p := domain.Product{
			Name:        dp.name,
			Slug:        dp.slug,
			Description: &desc,
			Price:       decimal.NewNullDecimal(decimal.NewFromInt(dp.price)),
			Featured:    dp.featured,
			Published:   true,
			CategoryID:  &catID,
		}
		if err := products.Create(ctx, &p, []domain.ImageInput{{URL: dp.image, Alt: &alt}}); err != nil {
			return rep, err
		}
		rep.ProductsCreated++
	}

	for _, dg := range demoGalleryImages {
		ok, err := gallery.ExistsURL(ctx, dg.url)
		if err != nil {
			return rep, err
		}
		if ok {
			rep.GallerySkipped++
			continue
		}
		title, desc := dg.title, dg.description
		g := domain.GalleryImage{URL: dg.url, Title: &title, Description: &desc, Order: dg.order}
		if err := gallery.Create(ctx, &g); err != nil {
			return rep, err
		}
		rep.GalleryCreated++
	}
	return rep, nil
}
