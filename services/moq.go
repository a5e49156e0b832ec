package services

import (
	"context"
	"strings"

	"wholesale-backend/models"
	"wholesale-backend/repository"
)

// MOQResolver answers category minimum-order-quantity questions against the
// admin-editable MOQ table. The table is read fresh on every lookup because
// an admin can change it between requests. A missing category means no
// constraint; the resolver itself never blocks anything.
type MOQResolver struct {
	settings repository.SettingsRepository
}

func NewMOQResolver(settings repository.SettingsRepository) *MOQResolver {
	return &MOQResolver{settings: settings}
}

// CategoryMOQ returns the minimum aggregate quantity for a category, matched
// case-insensitively by name. The second return value is false when the
// category carries no MOQ.
func (r *MOQResolver) CategoryMOQ(ctx context.Context, ref models.CategoryRef) (int, bool, error) {
	if ref.Name == "" {
		return 0, false, nil
	}
	settings, err := r.settings.Get(ctx)
	if err != nil {
		return 0, false, err
	}
	table := settings.CategoryMOQTable()
	if moq, ok := table[strings.ToLower(ref.Name)]; ok {
		return moq, true, nil
	}
	return 0, false, nil
}

// CategoryQuantity sums quantities across cart lines in the given category.
// Matching goes through the normalized CategoryRef so string-only and
// {id,name} category shapes compare correctly.
func CategoryQuantity(items []models.CartItem, ref models.CategoryRef) int {
	total := 0
	for _, item := range items {
		if item.Product.CategoryRef().Same(ref) {
			total += item.Quantity
		}
	}
	return total
}
