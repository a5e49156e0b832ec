package repository

import (
	"context"

	"wholesale-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRepository defines data access for tiers, overrides and assignments.
type PricingRepository interface {
	CreateTier(ctx context.Context, tier *models.PricingTier) error
	UpdateTier(ctx context.Context, tier *models.PricingTier) error
	DeleteTier(ctx context.Context, tierID uuid.UUID) error
	FindTier(ctx context.Context, tierID uuid.UUID) (*models.PricingTier, error)
	FindAllTiers(ctx context.Context) ([]models.PricingTier, error)
	FindProductPrice(ctx context.Context, productID, tierID uuid.UUID) (*models.ProductPrice, error)
	FindPricesForTier(ctx context.Context, tierID uuid.UUID) ([]models.ProductPrice, error)
	SaveProductPrice(ctx context.Context, price *models.ProductPrice) error
	DeleteProductPrice(ctx context.Context, productID, tierID uuid.UUID) error
	FindUserTier(ctx context.Context, userID string) (*models.UserPricingTier, error)
	AssignUserTier(ctx context.Context, assignment *models.UserPricingTier) error
	UnassignUserTier(ctx context.Context, userID string) error
}

// GormPricingRepository implements PricingRepository using GORM.
type GormPricingRepository struct {
	db *gorm.DB
}

func NewGormPricingRepository(db *gorm.DB) PricingRepository {
	return &GormPricingRepository{db: db}
}

func (r *GormPricingRepository) CreateTier(ctx context.Context, tier *models.PricingTier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

func (r *GormPricingRepository) UpdateTier(ctx context.Context, tier *models.PricingTier) error {
	return r.db.WithContext(ctx).Save(tier).Error
}

func (r *GormPricingRepository) DeleteTier(ctx context.Context, tierID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PricingTier{}, "id = ?", tierID).Error
}

func (r *GormPricingRepository) FindTier(ctx context.Context, tierID uuid.UUID) (*models.PricingTier, error) {
	var tier models.PricingTier
	if err := r.db.WithContext(ctx).First(&tier, "id = ?", tierID).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *GormPricingRepository) FindAllTiers(ctx context.Context) ([]models.PricingTier, error) {
	var tiers []models.PricingTier
	if err := r.db.WithContext(ctx).Order("name").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *GormPricingRepository) FindProductPrice(ctx context.Context, productID, tierID uuid.UUID) (*models.ProductPrice, error) {
	var price models.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND tier_id = ?", productID, tierID).
		First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *GormPricingRepository) FindPricesForTier(ctx context.Context, tierID uuid.UUID) ([]models.ProductPrice, error) {
	var prices []models.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("tier_id = ?", tierID).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *GormPricingRepository) SaveProductPrice(ctx context.Context, price *models.ProductPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

func (r *GormPricingRepository) DeleteProductPrice(ctx context.Context, productID, tierID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND tier_id = ?", productID, tierID).
		Delete(&models.ProductPrice{}).Error
}

func (r *GormPricingRepository) FindUserTier(ctx context.Context, userID string) (*models.UserPricingTier, error) {
	var assignment models.UserPricingTier
	if err := r.db.WithContext(ctx).
		Preload("Tier").
		Where("user_id = ?", userID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *GormPricingRepository) AssignUserTier(ctx context.Context, assignment *models.UserPricingTier) error {
	// One tier per user: replace any existing assignment.
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", assignment.UserID).
		Delete(&models.UserPricingTier{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *GormPricingRepository) UnassignUserTier(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserPricingTier{}).Error
}
