package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingTier is a named wholesale discount tier.
type PricingTier struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	DiscountPercentage float64        `gorm:"not null;default:0" json:"discount_percentage"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductPrice is a per-tier price override for a product. Absence of a row
// means the product has no special price under that tier.
type ProductPrice struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_tier" json:"product_id"`
	TierID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_tier" json:"tier_id"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserPricingTier assigns a tier to a user; at most one per user.
type UserPricingTier struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"user_id"`
	TierID    uuid.UUID `gorm:"type:uuid;not null" json:"tier_id"`
	Tier      *PricingTier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
