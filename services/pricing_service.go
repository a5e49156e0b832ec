package services

import (
	"context"
	"errors"
	"strings"

	"wholesale-backend/models"
	"wholesale-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PricingService resolves effective per-tier prices and manages the tier
// back office. Resolution is pure lookup-and-compute: a ProductPrice override
// wins, otherwise the base price stands.
type PricingService interface {
	TierFor(ctx context.Context, userID string) (uuid.UUID, *ServiceError)
	EffectivePrice(ctx context.Context, product *models.Product, tierID uuid.UUID) (float64, *ServiceError)
	Savings(ctx context.Context, product *models.Product, tierID uuid.UUID, quantity int) (float64, *ServiceError)

	CreateTier(ctx context.Context, name string, discountPercentage float64) (*models.PricingTier, *ServiceError)
	UpdateTier(ctx context.Context, tierID uuid.UUID, name string, discountPercentage float64) (*models.PricingTier, *ServiceError)
	DeleteTier(ctx context.Context, tierID uuid.UUID) *ServiceError
	ListTiers(ctx context.Context) ([]models.PricingTier, *ServiceError)
	SetProductPrice(ctx context.Context, productID, tierID uuid.UUID, price float64) *ServiceError
	RemoveProductPrice(ctx context.Context, productID, tierID uuid.UUID) *ServiceError
	AssignUserTier(ctx context.Context, userID string, tierID uuid.UUID) *ServiceError
	UnassignUserTier(ctx context.Context, userID string) *ServiceError
}

type pricingServiceImpl struct {
	repo   repository.PricingRepository
	logger *zap.Logger
}

// NewPricingService creates a new PricingService.
func NewPricingService(repo repository.PricingRepository, logger *zap.Logger) PricingService {
	return &pricingServiceImpl{repo: repo, logger: logger}
}

// TierFor returns the user's assigned tier ID, uuid.Nil when unassigned.
func (s *pricingServiceImpl) TierFor(ctx context.Context, userID string) (uuid.UUID, *ServiceError) {
	assignment, err := s.repo.FindUserTier(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to look up user tier", zap.String("user_id", userID), zap.Error(err))
		return uuid.Nil, &ServiceError{StatusCode: 500, Message: "Failed to resolve pricing tier"}
	}
	return assignment.TierID, nil
}

// EffectivePrice returns the tier override when one exists, otherwise the
// product's base price. No tier assignment always yields the base price.
func (s *pricingServiceImpl) EffectivePrice(ctx context.Context, product *models.Product, tierID uuid.UUID) (float64, *ServiceError) {
	if tierID == uuid.Nil {
		return product.Price, nil
	}
	override, err := s.repo.FindProductPrice(ctx, product.ID, tierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product.Price, nil
	}
	if err != nil {
		s.logger.Error("Failed to look up product price", zap.String("product_id", product.ID.String()), zap.Error(err))
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to resolve product price"}
	}
	return override.Price, nil
}

// Savings returns (base - effective) x quantity. The value is not clamped:
// an override configured above the base price shows up as negative savings
// rather than being silently corrected.
func (s *pricingServiceImpl) Savings(ctx context.Context, product *models.Product, tierID uuid.UUID, quantity int) (float64, *ServiceError) {
	effective, svcErr := s.EffectivePrice(ctx, product, tierID)
	if svcErr != nil {
		return 0, svcErr
	}
	return (product.Price - effective) * float64(quantity), nil
}

func (s *pricingServiceImpl) CreateTier(ctx context.Context, name string, discountPercentage float64) (*models.PricingTier, *ServiceError) {
	if name == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Tier name is required"}
	}
	if discountPercentage < 0 || discountPercentage > 100 {
		return nil, &ServiceError{StatusCode: 400, Message: "Discount percentage must be between 0 and 100"}
	}

	tier := &models.PricingTier{Name: name, DiscountPercentage: discountPercentage}
	if err := s.repo.CreateTier(ctx, tier); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Tier name already exists"}
		}
		s.logger.Error("Failed to create tier", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create tier"}
	}

	s.logger.Info("Pricing tier created", zap.String("name", tier.Name))
	return tier, nil
}

func (s *pricingServiceImpl) UpdateTier(ctx context.Context, tierID uuid.UUID, name string, discountPercentage float64) (*models.PricingTier, *ServiceError) {
	if discountPercentage < 0 || discountPercentage > 100 {
		return nil, &ServiceError{StatusCode: 400, Message: "Discount percentage must be between 0 and 100"}
	}
	tier, err := s.repo.FindTier(ctx, tierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Tier not found"}
	}
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load tier"}
	}

	if name != "" {
		tier.Name = name
	}
	tier.DiscountPercentage = discountPercentage
	if err := s.repo.UpdateTier(ctx, tier); err != nil {
		s.logger.Error("Failed to update tier", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update tier"}
	}
	return tier, nil
}

func (s *pricingServiceImpl) DeleteTier(ctx context.Context, tierID uuid.UUID) *ServiceError {
	if err := s.repo.DeleteTier(ctx, tierID); err != nil {
		s.logger.Error("Failed to delete tier", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete tier"}
	}
	return nil
}

func (s *pricingServiceImpl) ListTiers(ctx context.Context) ([]models.PricingTier, *ServiceError) {
	tiers, err := s.repo.FindAllTiers(ctx)
	if err != nil {
		s.logger.Error("Failed to list tiers", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list tiers"}
	}
	return tiers, nil
}

func (s *pricingServiceImpl) SetProductPrice(ctx context.Context, productID, tierID uuid.UUID, price float64) *ServiceError {
	if price < 0 {
		return &ServiceError{StatusCode: 400, Message: "Price cannot be negative"}
	}

	existing, err := s.repo.FindProductPrice(ctx, productID, tierID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return &ServiceError{StatusCode: 500, Message: "Failed to look up product price"}
	}

	override := &models.ProductPrice{ProductID: productID, TierID: tierID, Price: price}
	if existing != nil {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.SaveProductPrice(ctx, override); err != nil {
		s.logger.Error("Failed to save product price", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to save product price"}
	}
	return nil
}

func (s *pricingServiceImpl) RemoveProductPrice(ctx context.Context, productID, tierID uuid.UUID) *ServiceError {
	if err := s.repo.DeleteProductPrice(ctx, productID, tierID); err != nil {
		s.logger.Error("Failed to remove product price", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to remove product price"}
	}
	return nil
}

func (s *pricingServiceImpl) AssignUserTier(ctx context.Context, userID string, tierID uuid.UUID) *ServiceError {
	if _, err := s.repo.FindTier(ctx, tierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Tier not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to load tier"}
	}

	assignment := &models.UserPricingTier{UserID: userID, TierID: tierID}
	if err := s.repo.AssignUserTier(ctx, assignment); err != nil {
		s.logger.Error("Failed to assign user tier", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to assign tier"}
	}
	return nil
}

func (s *pricingServiceImpl) UnassignUserTier(ctx context.Context, userID string) *ServiceError {
	if err := s.repo.UnassignUserTier(ctx, userID); err != nil {
		s.logger.Error("Failed to unassign user tier", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to unassign tier"}
	}
	return nil
}
