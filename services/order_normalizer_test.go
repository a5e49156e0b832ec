package services_test

import (
	"testing"
	"time"

	"wholesale-backend/models"
	"wholesale-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrder_JSONTextAndStructuredAreEquivalent(t *testing.T) {
	productID := uuid.New()
	items := []models.OrderItem{{
		ProductID: productID.String(),
		Product:   models.Product{ID: productID, Name: "Whey Isolate 1kg", Price: 45.00},
		Quantity:  4,
	}}
	address := models.ShippingAddress{
		Name: "Test Buyer", Street: "1 George St", City: "Sydney",
		State: "NSW", PostalCode: "2000", Phone: "0291234567",
	}
	option := models.ShippingOption{
		ID: "auspost-standard", Name: "Standard", Carrier: "Australia Post",
		Price: 12.95, EstimatedDelivery: "3-5 business days",
	}

	asText := models.RawOrder{
		ID:              "ord-1",
		Total:           192.95,
		Items:           `[{"product_id":"` + productID.String() + `","product":{"id":"` + productID.String() + `","name":"Whey Isolate 1kg","price":45},"quantity":4}]`,
		ShippingAddress: `{"name":"Test Buyer","street":"1 George St","city":"Sydney","state":"NSW","postal_code":"2000","phone":"0291234567"}`,
		ShippingOption:  `{"id":"auspost-standard","name":"Standard","carrier":"Australia Post","price":12.95,"estimated_delivery_days":"3-5 business days"}`,
	}
	asStructs := models.RawOrder{
		ID:              "ord-1",
		Total:           192.95,
		Items:           items,
		ShippingAddress: address,
		ShippingOption:  option,
	}

	fromText, err := services.NormalizeOrder(asText, nil)
	require.NoError(t, err)
	fromStructs, err := services.NormalizeOrder(asStructs, nil)
	require.NoError(t, err)

	assert.Equal(t, fromStructs.Items, fromText.Items)
	assert.Equal(t, fromStructs.ShippingAddress, fromText.ShippingAddress)
	assert.Equal(t, fromStructs.ShippingOption, fromText.ShippingOption)
	assert.Equal(t, fromStructs.Total, fromText.Total)
}

func TestNormalizeOrder_Defaults(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := models.RawOrder{ID: "ord-2", CreatedAt: created}

	order, err := services.NormalizeOrder(raw, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, created, order.UpdatedAt)
	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
	assert.Nil(t, order.ShippingAddress)
	assert.Nil(t, order.ShippingOption)
}

func TestNormalizeOrder_EnrichesItemsFromLookup(t *testing.T) {
	productID := uuid.New()
	product := models.Product{ID: productID, Name: "Whey Isolate 1kg", Price: 45.00}

	raw := models.RawOrder{
		Items: `[{"product_id":"` + productID.String() + `","quantity":3}]`,
	}

	order, err := services.NormalizeOrder(raw, map[string]models.Product{
		productID.String(): product,
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Whey Isolate 1kg", order.Items[0].Product.Name)
	assert.InDelta(t, 135.00, order.Items[0].LineTotal(), 1e-9)
}

func TestNormalizeOrder_ProductIDBackfilledFromProduct(t *testing.T) {
	productID := uuid.New()
	raw := models.RawOrder{
		Items: []models.OrderItem{{
			Product:  models.Product{ID: productID, Name: "Whey", Price: 45},
			Quantity: 2,
		}},
	}

	order, err := services.NormalizeOrder(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, productID.String(), order.Items[0].ProductID)
}

func TestNormalizeOrder_UnitPriceOverrideSurvives(t *testing.T) {
	productID := uuid.New()
	raw := models.RawOrder{
		Items: `[{"product_id":"` + productID.String() + `","product":{"id":"` + productID.String() + `","price":45},"quantity":2,"unit_price":40}]`,
	}

	order, err := services.NormalizeOrder(raw, nil)
	require.NoError(t, err)
	require.NotNil(t, order.Items[0].UnitPrice)
	assert.Equal(t, 40.0, *order.Items[0].UnitPrice)
	assert.InDelta(t, 80.0, order.Items[0].LineTotal(), 1e-9)
}

func TestNormalizeOrder_NumericDeliveryEstimateTolerated(t *testing.T) {
	raw := models.RawOrder{
		ShippingOption: `{"id":"auspost-standard","price":12.95,"estimated_delivery_days":3}`,
	}

	order, err := services.NormalizeOrder(raw, nil)
	require.NoError(t, err)
	require.NotNil(t, order.ShippingOption)
	assert.Equal(t, models.DeliveryEstimate("3"), order.ShippingOption.EstimatedDelivery)
}

func TestNormalizeOrder_MalformedItemsRejected(t *testing.T) {
	raw := models.RawOrder{Items: `{"not":"an array"`}

	_, err := services.NormalizeOrder(raw, nil)
	assert.Error(t, err)
}
