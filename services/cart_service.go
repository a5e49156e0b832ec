package services

import (
	"context"
	"fmt"

	"wholesale-backend/models"
	"wholesale-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService owns the per-user cart state. AddToCart enforces the product
// minimum quantity; UpdateQuantity deliberately does not — the two entry
// points have different contracts and callers rely on that.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	AddToCart(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.CartUpdate, *ServiceError)
	RemoveFromCart(ctx context.Context, userID, productID string) (*models.CartUpdate, *ServiceError)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartUpdate, *ServiceError)
	ClearCart(ctx context.Context, userID string) *ServiceError
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	moq      *MOQResolver
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	moq *MOQResolver,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		carts:    carts,
		products: products,
		moq:      moq,
		logger:   logger,
	}
}

// GetCart returns the user's cart, creating an empty one in memory when none
// is stored yet.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return cart, nil
}

// AddToCart merges the product into the cart, rejecting quantities below the
// product minimum. The category MOQ check afterwards is advisory only.
func (s *cartServiceImpl) AddToCart(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.CartUpdate, *ServiceError) {
	if quantity <= 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity must be positive"}
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	if quantity < product.MinQuantity {
		return nil, &ServiceError{
			StatusCode: 400,
			Message:    fmt.Sprintf("%s has a minimum order quantity of %d", product.Name, product.MinQuantity),
		}
	}

	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == product.ID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Product = *product
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{Product: *product, Quantity: quantity})
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}

	return &models.CartUpdate{
		Cart:     cart,
		Advisory: s.advisoryAfterAdd(ctx, cart, product.CategoryRef()),
	}, nil
}

// RemoveFromCart deletes the line. A warning is raised only when the removed
// line's category still has items and has dropped below its MOQ; an emptied
// category raises nothing.
func (s *cartServiceImpl) RemoveFromCart(ctx context.Context, userID, productID string) (*models.CartUpdate, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	var removedRef models.CategoryRef
	newItems := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product.ID.String() == productID {
			removedRef = item.Product.CategoryRef()
			continue
		}
		newItems = append(newItems, item)
	}
	cart.Items = newItems

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to update cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update cart"}
	}

	return &models.CartUpdate{
		Cart:     cart,
		Advisory: s.advisoryAfterRemove(ctx, cart, removedRef),
	}, nil
}

// UpdateQuantity replaces the line's quantity without re-checking the product
// minimum; a quantity of zero or less removes the line.
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartUpdate, *ServiceError) {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, userID, productID)
	}

	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID.String() == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, &ServiceError{StatusCode: 404, Message: "Item not in cart"}
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to update cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update cart"}
	}

	return &models.CartUpdate{Cart: cart}, nil
}

// ClearCart empties the cart; clearing an already-empty cart succeeds.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *ServiceError {
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}

// advisoryAfterAdd reports progress toward the category MOQ: a warning with
// the exact remaining unit count below the threshold, a success notice at or
// above it.
func (s *cartServiceImpl) advisoryAfterAdd(ctx context.Context, cart *models.Cart, ref models.CategoryRef) *models.MOQAdvisory {
	moq, ok, err := s.moq.CategoryMOQ(ctx, ref)
	if err != nil {
		s.logger.Warn("Category MOQ lookup failed", zap.String("category", ref.Name), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	current := CategoryQuantity(cart.Items, ref)
	if current < moq {
		remaining := moq - current
		return &models.MOQAdvisory{
			Level:     models.AdvisoryWarning,
			Category:  ref.Name,
			Required:  moq,
			Current:   current,
			Remaining: remaining,
			Message:   fmt.Sprintf("Add %d more %s units to reach the minimum order of %d", remaining, ref.Name, moq),
		}
	}
	return &models.MOQAdvisory{
		Level:    models.AdvisorySuccess,
		Category: ref.Name,
		Required: moq,
		Current:  current,
		Message:  fmt.Sprintf("%s minimum order of %d reached", ref.Name, moq),
	}
}

func (s *cartServiceImpl) advisoryAfterRemove(ctx context.Context, cart *models.Cart, ref models.CategoryRef) *models.MOQAdvisory {
	if ref.IsZero() {
		return nil
	}
	moq, ok, err := s.moq.CategoryMOQ(ctx, ref)
	if err != nil {
		s.logger.Warn("Category MOQ lookup failed", zap.String("category", ref.Name), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	current := CategoryQuantity(cart.Items, ref)
	if current == 0 || current >= moq {
		return nil
	}
	remaining := moq - current
	return &models.MOQAdvisory{
		Level:     models.AdvisoryWarning,
		Category:  ref.Name,
		Required:  moq,
		Current:   current,
		Remaining: remaining,
		Message:   fmt.Sprintf("%s is now %d units below its minimum order of %d", ref.Name, remaining, moq),
	}
}
