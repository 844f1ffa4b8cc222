package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	Description  *string   `db:"description" json:"description"`
	Image        *string   `db:"image" json:"image"`
	Order        int       `db:"sort_order" json:"order"`
	ProductCount int       `db:"product_count" json:"productCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID          string              `db:"id" json:"id"`
	Name        string              `db:"name" json:"name"`
	Slug        string              `db:"slug" json:"slug"`
	Description *string             `db:"description" json:"description"`
	Price       decimal.NullDecimal `db:"price" json:"price"` // null = price on request
	Featured    bool                `db:"featured" json:"featured"`
	Published   bool                `db:"published" json:"published"`
	CategoryID  *string             `db:"category_id" json:"categoryId"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`

	Category *Category     `db:"-" json:"category"`
	Images   []ProductImage `db:"-" json:"images"`
}

// Cover is the first image by order, if any.
func (p Product) Cover() *ProductImage {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}

type ProductImage struct {
	ID        string  `db:"id" json:"id"`
	ProductID string  `db:"product_id" json:"productId"`
	URL       string  `db:"url" json:"url"`
	PublicID  *string `db:"public_id" json:"publicId"`
	Alt       *string `db:"alt" json:"alt"`
	Order     int     `db:"sort_order" json:"order"`
}

type GalleryImage struct {
	ID          string    `db:"id" json:"id"`
	URL         string    `db:"url" json:"url"`
	PublicID    *string   `db:"public_id" json:"publicId"`
	Title       *string   `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Order       int       `db:"sort_order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Review struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email"`
	Rating    int       `db:"rating" json:"rating"`
	Content   string    `db:"content" json:"content"`
	Featured  bool      `db:"featured" json:"featured"`
	Approved  bool      `db:"approved" json:"approved"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ContactMessage struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone"`
	Subject   *string   `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"is_read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UploadResult is what the image host hands back for a stored asset.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Email is a single outbound transactional message.
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}
