package services_test

import (
	"context"
	"testing"

	"wholesale-backend/models"
	"wholesale-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEffectivePrice_OverrideWins(t *testing.T) {
	repo := newMockPricingRepo()
	svc := services.NewPricingService(repo, zap.NewNop())
	ctx := context.Background()

	product := models.Product{ID: uuid.New(), Name: "Whey Isolate 1kg", Price: 45.00}
	tier := models.PricingTier{Name: "Gold", DiscountPercentage: 10}
	require.NoError(t, repo.CreateTier(ctx, &tier))
	require.NoError(t, repo.SaveProductPrice(ctx, &models.ProductPrice{
		ProductID: product.ID, TierID: tier.ID, Price: 39.50,
	}))

	price, svcErr := svc.EffectivePrice(ctx, &product, tier.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, 39.50, price)
}

func TestEffectivePrice_FallsBackToBase(t *testing.T) {
	repo := newMockPricingRepo()
	svc := services.NewPricingService(repo, zap.NewNop())
	ctx := context.Background()

	product := models.Product{ID: uuid.New(), Price: 45.00}
	tier := models.PricingTier{Name: "Silver"}
	require.NoError(t, repo.CreateTier(ctx, &tier))

	price, svcErr := svc.EffectivePrice(ctx, &product, tier.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, 45.00, price)
}

func TestEffectivePrice_NoTierAssignment(t *testing.T) {
	svc := services.NewPricingService(newMockPricingRepo(), zap.NewNop())

	product := models.Product{ID: uuid.New(), Price: 45.00}
	price, svcErr := svc.EffectivePrice(context.Background(), &product, uuid.Nil)
	require.Nil(t, svcErr)
	assert.Equal(t, 45.00, price)
}

func TestSavings_NegativeWhenOverrideAboveBase(t *testing.T) {
	repo := newMockPricingRepo()
	svc := services.NewPricingService(repo, zap.NewNop())
	ctx := context.Background()

	product := models.Product{ID: uuid.New(), Price: 45.00}
	tier := models.PricingTier{Name: "Misconfigured"}
	require.NoError(t, repo.CreateTier(ctx, &tier))
	require.NoError(t, repo.SaveProductPrice(ctx, &models.ProductPrice{
		ProductID: product.ID, TierID: tier.ID, Price: 50.00,
	}))

	savings, svcErr := svc.Savings(ctx, &product, tier.ID, 3)
	require.Nil(t, svcErr)
	assert.Equal(t, -15.00, savings)
}

func TestTierFor_UnassignedUser(t *testing.T) {
	svc := services.NewPricingService(newMockPricingRepo(), zap.NewNop())

	tierID, svcErr := svc.TierFor(context.Background(), "user-without-tier")
	require.Nil(t, svcErr)
	assert.Equal(t, uuid.Nil, tierID)
}

func TestTierFor_AssignedUser(t *testing.T) {
	repo := newMockPricingRepo()
	svc := services.NewPricingService(repo, zap.NewNop())
	ctx := context.Background()

	tier := models.PricingTier{Name: "Gold"}
	require.NoError(t, repo.CreateTier(ctx, &tier))
	require.Nil(t, svc.AssignUserTier(ctx, "user-1", tier.ID))

	tierID, svcErr := svc.TierFor(ctx, "user-1")
	require.Nil(t, svcErr)
	assert.Equal(t, tier.ID, tierID)
}

func TestAssignUserTier_UnknownTier(t *testing.T) {
	svc := services.NewPricingService(newMockPricingRepo(), zap.NewNop())

	svcErr := svc.AssignUserTier(context.Background(), "user-1", uuid.New())
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCreateTier_ValidatesDiscountRange(t *testing.T) {
	svc := services.NewPricingService(newMockPricingRepo(), zap.NewNop())

	_, svcErr := svc.CreateTier(context.Background(), "Too Deep", 120)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
