package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wholesale-backend/models"
	"wholesale-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func metroAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Name:       "Test Buyer",
		Street:     "1 George St",
		City:       "Sydney",
		State:      "NSW",
		PostalCode: "2000",
		Phone:      "0291234567",
	}
}

func remoteAddress() models.ShippingAddress {
	addr := metroAddress()
	addr.City = "Darwin"
	addr.State = "NT"
	addr.PostalCode = "0800"
	return addr
}

func proteinItems(qty int) []models.CartItem {
	return []models.CartItem{{
		Product: models.Product{
			ID:       uuid.New(),
			Name:     "Whey Isolate 1kg",
			Category: &models.Category{ID: uuid.New(), Name: "Protein Powder"},
		},
		Quantity: qty,
	}}
}

func TestCalculateOptions_BaseCatalog(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 3.0, metroAddress(), nil)
	require.Nil(t, svcErr)
	require.Len(t, options, 6)

	byID := map[string]models.ShippingOption{}
	for _, opt := range options {
		byID[opt.ID] = opt
	}
	assert.Equal(t, 12.95, byID["auspost-standard"].Price)
	assert.Equal(t, 22.00, byID["startrack-express"].Price)
	assert.Equal(t, models.DeliveryEstimate("Same day"), byID["auspost-same-day"].EstimatedDelivery)
}

func TestCalculateOptions_FreeShippingIsAbsolute(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	// Heavy cart to a remote state: both surcharges would apply, but the
	// protein threshold makes free shipping the only option regardless.
	options, svcErr := calc.CalculateOptions(context.Background(), 12.0, remoteAddress(), proteinItems(12))
	require.Nil(t, svcErr)
	require.Len(t, options, 1)
	assert.True(t, options[0].IsFree())
	assert.Zero(t, options[0].Price)
}

func TestCalculateOptions_BelowThresholdNoFreeShipping(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 2.0, metroAddress(), proteinItems(11))
	require.Nil(t, svcErr)
	assert.Len(t, options, 6)
	for _, opt := range options {
		assert.False(t, opt.IsFree())
	}
}

func TestCalculateOptions_HeavyCartSurcharge(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 5.1, metroAddress(), nil)
	require.Nil(t, svcErr)
	for _, opt := range options {
		switch opt.ID {
		case "auspost-standard":
			assert.InDelta(t, 12.95*1.5, opt.Price, 1e-9)
		case "startrack-same-day":
			assert.InDelta(t, 39.95*1.5, opt.Price, 1e-9)
		}
	}
}

func TestCalculateOptions_ExactlyFiveKgNotSurcharged(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 5.0, metroAddress(), nil)
	require.Nil(t, svcErr)
	for _, opt := range options {
		if opt.ID == "auspost-standard" {
			assert.Equal(t, 12.95, opt.Price)
		}
	}
}

func TestCalculateOptions_RemoteStateDropsSameDayAndSurcharges(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 2.0, remoteAddress(), nil)
	require.Nil(t, svcErr)
	require.Len(t, options, 4)
	for _, opt := range options {
		assert.NotContains(t, opt.ID, "same-day")
		if strings.Contains(strings.ToLower(opt.Name), "express") {
			assert.Equal(t, models.DeliveryEstimate("3-6 business days"), opt.EstimatedDelivery)
		} else {
			assert.Equal(t, models.DeliveryEstimate("6-10 business days"), opt.EstimatedDelivery)
		}
		if opt.ID == "auspost-standard" {
			assert.InDelta(t, 12.95*1.2, opt.Price, 1e-9)
		}
	}
}

func TestCalculateOptions_WeightAppliesBeforeRemoteCompounding(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 8.0, remoteAddress(), nil)
	require.Nil(t, svcErr)
	for _, opt := range options {
		if opt.ID == "auspost-standard" {
			assert.InDelta(t, 12.95*1.5*1.2, opt.Price, 1e-9)
		}
	}
}

func TestCalculateOptions_TasmaniaIsRemote(t *testing.T) {
	calc := services.NewShippingCalculator(newMockSettingsRepo(), zap.NewNop())

	addr := metroAddress()
	addr.State = "tas"
	options, svcErr := calc.CalculateOptions(context.Background(), 1.0, addr, nil)
	require.Nil(t, svcErr)
	assert.Len(t, options, 4)
}

func TestCalculateOptions_SettingsFailureIsRetryable(t *testing.T) {
	settings := newMockSettingsRepo()
	settings.getErr = errors.New("db down")
	calc := services.NewShippingCalculator(settings, zap.NewNop())

	options, svcErr := calc.CalculateOptions(context.Background(), 1.0, metroAddress(), nil)
	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Nil(t, options, "no fallback option on failure")
}

func TestCalculateOptions_ThresholdReadFresh(t *testing.T) {
	settings := newMockSettingsRepo()
	calc := services.NewShippingCalculator(settings, zap.NewNop())
	ctx := context.Background()

	items := proteinItems(8)
	options, svcErr := calc.CalculateOptions(ctx, 1.0, metroAddress(), items)
	require.Nil(t, svcErr)
	assert.Len(t, options, 6)

	// Admin lowers the threshold; the very next call must honor it.
	settings.settings.FreeShippingThreshold = 8
	options, svcErr = calc.CalculateOptions(ctx, 1.0, metroAddress(), items)
	require.Nil(t, svcErr)
	require.Len(t, options, 1)
	assert.True(t, options[0].IsFree())
}
