package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a product category stored in Postgres.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CategoryRef is the normalized category reference used everywhere downstream.
// Upstream payloads carry a category either as a bare name string or as an
// {id, name} object; both are converted to a CategoryRef at the boundary so
// comparisons never happen between heterogeneous shapes.
type CategoryRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CategoryRefFromValue normalizes any of the category shapes that appear in
// stored or inbound payloads: a string name, a Category, a *Category, another
// CategoryRef, or a decoded JSON object with id/name keys.
func CategoryRefFromValue(v interface{}) CategoryRef {
	switch c := v.(type) {
	case nil:
		return CategoryRef{}
	case string:
		return CategoryRef{Name: c}
	case CategoryRef:
		return c
	case *CategoryRef:
		if c == nil {
			return CategoryRef{}
		}
		return *c
	case Category:
		return CategoryRef{ID: c.ID.String(), Name: c.Name}
	case *Category:
		if c == nil {
			return CategoryRef{}
		}
		return CategoryRef{ID: c.ID.String(), Name: c.Name}
	case map[string]interface{}:
		ref := CategoryRef{}
		if id, ok := c["id"].(string); ok {
			ref.ID = id
		}
		if name, ok := c["name"].(string); ok {
			ref.Name = name
		}
		return ref
	default:
		return CategoryRef{}
	}
}

// IsZero reports whether the ref carries no category at all.
func (r CategoryRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// Same reports whether two refs point at the same category. Identity wins when
// both sides carry an ID; otherwise names are compared case-insensitively.
func (r CategoryRef) Same(other CategoryRef) bool {
	if r.IsZero() || other.IsZero() {
		return false
	}
	if r.ID != "" && other.ID != "" {
		return r.ID == other.ID
	}
	return strings.EqualFold(r.Name, other.Name)
}

// Product is a catalog product. Price is the wholesale base price; tier
// overrides live in ProductPrice. Nutrition metadata (serving size,
// ingredients, amino-acid tables) is opaque to ordering logic and stored as
// raw JSON.
type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(256);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Price       float64    `gorm:"not null" json:"price"`
	Stock       int        `gorm:"not null;default:0" json:"stock"`
	MinQuantity int        `gorm:"not null;default:1" json:"min_quantity"`
	WeightKg    *float64   `json:"weight_kg,omitempty"`
	ImageURL    string     `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	// Opaque descriptive metadata, passed through untouched.
	Nutrition string         `gorm:"type:jsonb" json:"nutrition,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CategoryRef returns the normalized reference for the product's category.
func (p *Product) CategoryRef() CategoryRef {
	if p.Category != nil {
		return CategoryRefFromValue(p.Category)
	}
	if p.CategoryID != nil {
		return CategoryRef{ID: p.CategoryID.String()}
	}
	return CategoryRef{}
}

// Weight returns the shipping weight in kg, zero when unknown.
func (p *Product) Weight() float64 {
	if p.WeightKg == nil {
		return 0
	}
	return *p.WeightKg
}
