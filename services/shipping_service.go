package services

import (
	"context"
	"strings"

	"wholesale-backend/models"
	"wholesale-backend/repository"

	"go.uber.org/zap"
)

// Base carrier catalog: two carriers, three service tiers each. Prices and
// estimates are the non-surcharged metro baseline.
var baseShippingOptions = []models.ShippingOption{
	{ID: "auspost-standard", Name: "Standard", Carrier: "Australia Post", Price: 12.95, EstimatedDelivery: "3-5 business days"},
	{ID: "auspost-express", Name: "Express", Carrier: "Australia Post", Price: 18.95, EstimatedDelivery: "1-2 business days"},
	{ID: "auspost-same-day", Name: "Same Day", Carrier: "Australia Post", Price: 35.00, EstimatedDelivery: "Same day"},
	{ID: "startrack-standard", Name: "Standard", Carrier: "StarTrack", Price: 14.50, EstimatedDelivery: "2-4 business days"},
	{ID: "startrack-express", Name: "Express", Carrier: "StarTrack", Price: 22.00, EstimatedDelivery: "1-2 business days"},
	{ID: "startrack-same-day", Name: "Same Day", Carrier: "StarTrack", Price: 39.95, EstimatedDelivery: "Same day"},
}

const (
	heavyCartWeightKg     = 5.0
	heavyCartMultiplier   = 1.5
	remoteStateMultiplier = 1.2
)

// remoteStates lose same-day service and pick up a price surcharge plus
// widened delivery estimates.
var remoteStates = map[string]bool{
	"NT":  true,
	"TAS": true,
}

const (
	remoteExpressEstimate  = "3-6 business days"
	remoteStandardEstimate = "6-10 business days"
)

// ShippingCalculator produces ranked shipping options for a cart and
// destination. Free shipping is absolute: when the protein-unit threshold is
// met, the free option is the only one offered.
type ShippingCalculator struct {
	settings repository.SettingsRepository
	logger   *zap.Logger
}

// NewShippingCalculator creates a new ShippingCalculator.
func NewShippingCalculator(settings repository.SettingsRepository, logger *zap.Logger) *ShippingCalculator {
	return &ShippingCalculator{settings: settings, logger: logger}
}

// proteinUnitCount sums quantities of lines whose category name contains
// "protein", matched case-insensitively.
func proteinUnitCount(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		name := strings.ToLower(item.Product.CategoryRef().Name)
		if strings.Contains(name, "protein") {
			count += item.Quantity
		}
	}
	return count
}

// CalculateOptions computes the available shipping options. Rule order
// matters: the weight surcharge applies before the remote-state surcharge, so
// a heavy cart to a remote state compounds both multipliers. Any failure is
// returned as retryable; no fallback option is ever injected.
func (c *ShippingCalculator) CalculateOptions(
	ctx context.Context,
	totalWeightKg float64,
	destination models.ShippingAddress,
	items []models.CartItem,
) ([]models.ShippingOption, *ServiceError) {
	settings, err := c.settings.Get(ctx)
	if err != nil {
		c.logger.Error("Failed to read store settings", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to calculate shipping options"}
	}

	if proteinUnitCount(items) >= settings.FreeShippingThreshold {
		return []models.ShippingOption{{
			ID:                models.FreeShippingOptionID,
			Name:              settings.FreeShippingLabel,
			Carrier:           "Australia Post",
			Price:             0,
			EstimatedDelivery: models.DeliveryEstimate(settings.FreeShippingEstimate),
			Description:       settings.FreeShippingLabel,
		}}, nil
	}

	options := make([]models.ShippingOption, len(baseShippingOptions))
	copy(options, baseShippingOptions)

	if totalWeightKg > heavyCartWeightKg {
		for i := range options {
			options[i].Price *= heavyCartMultiplier
		}
	}

	if remoteStates[strings.ToUpper(destination.State)] {
		filtered := options[:0]
		for _, opt := range options {
			if strings.Contains(opt.ID, "same-day") {
				continue
			}
			opt.Price *= remoteStateMultiplier
			if strings.Contains(strings.ToLower(opt.Name), "express") {
				opt.EstimatedDelivery = remoteExpressEstimate
			} else {
				opt.EstimatedDelivery = remoteStandardEstimate
			}
			filtered = append(filtered, opt)
		}
		options = filtered
	}

	return options, nil
}
