package domain

import "github.com/shopspring/decimal"

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        string  `json:"slug" validate:"max=140"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,url"`
	Order       int     `json:"order"`
}

type CategoryPatch struct {
	Name        Field[string] `json:"name"`
	Slug        Field[string] `json:"slug"`
	Description Field[string] `json:"description"`
	Image       Field[string] `json:"image"`
	Order       Field[int]    `json:"order"`
}

type ImageInput struct {
	URL      string  `json:"url" validate:"required,url"`
	PublicID *string `json:"publicId"`
	Alt      *string `json:"alt"`
	Order    *int    `json:"order"`
}

type ProductInput struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Slug        string              `json:"slug" validate:"max=220"`
	Description *string             `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Featured    bool                `json:"featured"`
	Published   *bool               `json:"published"` // defaults to true
	CategoryID  *string             `json:"categoryId"`
	Images      []ImageInput        `json:"images" validate:"dive"`
}

type ProductPatch struct {
	Name        Field[string]          `json:"name"`
	Slug        Field[string]          `json:"slug"`
	Description Field[string]          `json:"description"`
	Price       Field[decimal.Decimal] `json:"price"`
	Featured    Field[bool]            `json:"featured"`
	Published   Field[bool]            `json:"published"`
	CategoryID  Field[string]          `json:"categoryId"`
	// Images replaces the whole set when present and not null.
	Images Field[[]ImageInput] `json:"images"`
}

// ReplacesImages reports whether the patch carries a new image set.
func (p ProductPatch) ReplacesImages() bool { return p.Images.Set && !p.Images.Null }

type GalleryInput struct {
	URL         string  `json:"url" validate:"required,url"`
	PublicID    *string `json:"publicId"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
}

type GalleryPatch struct {
	URL         Field[string] `json:"url"`
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Order       Field[int]    `json:"order"`
}

// ReviewInput is the public submission form. Approval and featuring are
// admin decisions and are not accepted here.
type ReviewInput struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Rating  int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Content string  `json:"content" validate:"required,max=5000"`
}

type ReviewPatch struct {
	Name     Field[string] `json:"name"`
	Email    Field[string] `json:"email"`
	Rating   Field[int]    `json:"rating"`
	Content  Field[string] `json:"content"`
	Featured Field[bool]   `json:"featured"`
	Approved Field[bool]   `json:"approved"`
}

type ContactInput struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,max=10000"`
}

type ContactPatch struct {
	ID   string      `json:"id"`
	Read Field[bool] `json:"read"`
}

type AdminInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProductFilter drives every product listing.
type ProductFilter struct {
	CategorySlug string
	CategoryID   string
	ExcludeID    string
	Featured     *bool
	// IncludeDrafts is honoured only for an authenticated principal.
	IncludeDrafts  bool
	FirstImageOnly bool
	Limit          int
}

type ReviewFilter struct {
	Featured *bool
	// Approved nil means "any"; only an authenticated principal may ask for
	// anything other than approved reviews.
	Approved *bool
	Limit    int
}
