package services_test

import (
	"context"
	"errors"
	"testing"

	"wholesale-backend/models"
	"wholesale-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func proteinProduct(name string, qty int) models.CartItem {
	return models.CartItem{
		Product: models.Product{
			ID:       uuid.New(),
			Name:     name,
			Category: &models.Category{ID: uuid.New(), Name: "Protein Powder"},
		},
		Quantity: qty,
	}
}

func TestCategoryMOQ_CaseInsensitiveLookup(t *testing.T) {
	settings := newMockSettingsRepo()
	settings.setCategoryMOQ(map[string]int{"Protein Powder": 12})
	resolver := services.NewMOQResolver(settings)

	moq, ok, err := resolver.CategoryMOQ(context.Background(), models.CategoryRef{Name: "PROTEIN POWDER"})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12, moq)
}

func TestCategoryMOQ_MissingCategoryMeansNoConstraint(t *testing.T) {
	settings := newMockSettingsRepo()
	settings.setCategoryMOQ(map[string]int{"protein powder": 12})
	resolver := services.NewMOQResolver(settings)

	_, ok, err := resolver.CategoryMOQ(context.Background(), models.CategoryRef{Name: "creatine"})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryMOQ_EmptyRef(t *testing.T) {
	resolver := services.NewMOQResolver(newMockSettingsRepo())

	_, ok, err := resolver.CategoryMOQ(context.Background(), models.CategoryRef{})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryMOQ_SettingsReadFailure(t *testing.T) {
	settings := newMockSettingsRepo()
	settings.getErr = errors.New("db down")
	resolver := services.NewMOQResolver(settings)

	_, _, err := resolver.CategoryMOQ(context.Background(), models.CategoryRef{Name: "protein powder"})
	assert.Error(t, err)
}

func TestCategoryQuantity_SumsAcrossLines(t *testing.T) {
	items := []models.CartItem{
		proteinProduct("Whey Isolate 1kg", 4),
		proteinProduct("Casein 1kg", 3),
		{
			Product:  models.Product{ID: uuid.New(), Name: "Shaker", Category: &models.Category{ID: uuid.New(), Name: "Accessories"}},
			Quantity: 10,
		},
	}

	total := services.CategoryQuantity(items, models.CategoryRef{Name: "protein powder"})
	assert.Equal(t, 7, total)
}

func TestCategoryQuantity_StringAndObjectShapesCompare(t *testing.T) {
	// One line carries only a category name, the other a full {id,name}
	// object; both must count toward the same category.
	byName := models.CartItem{
		Product: models.Product{
			ID:       uuid.New(),
			Category: &models.Category{Name: "Protein Powder"},
		},
		Quantity: 5,
	}
	byObject := proteinProduct("Whey", 2)

	total := services.CategoryQuantity(
		[]models.CartItem{byName, byObject},
		models.CategoryRefFromValue("protein powder"),
	)
	assert.Equal(t, 7, total)
}
