package services

import (
	"encoding/json"
	"fmt"

	"wholesale-backend/models"

	"github.com/google/uuid"
)

// decodeOrderField decodes one of the denormalized order fields into target.
// The value may arrive as JSON text straight off a storage column, as raw
// bytes, as a decoded generic value, or already in canonical form; all paths
// produce the same result.
func decodeOrderField(v interface{}, target interface{}) error {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return json.Unmarshal([]byte(val), target)
	case []byte:
		if len(val) == 0 {
			return nil
		}
		return json.Unmarshal(val, target)
	case json.RawMessage:
		if len(val) == 0 {
			return nil
		}
		return json.Unmarshal(val, target)
	default:
		// Structured input: round-trip through JSON so canonical structs,
		// maps and slices all land in the target type the same way.
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, target)
	}
}

// NormalizeOrder converts any stored or inbound order representation into the
// canonical Order shape. It is a pure function: no I/O, and the input is not
// mutated. Items lacking a materialized product are enriched from the
// supplied lookup map (keyed by product ID) so every line ends up with a
// usable product for display.
func NormalizeOrder(raw models.RawOrder, products map[string]models.Product) (*models.Order, error) {
	order := &models.Order{
		ID:            raw.ID,
		OrderNumber:   raw.OrderNumber,
		UserID:        raw.UserID,
		UserName:      raw.UserName,
		Email:         raw.Email,
		Total:         raw.Total,
		Status:        raw.Status,
		PaymentMethod: raw.PaymentMethod,
		InvoiceStatus: raw.InvoiceStatus,
		InvoiceRef:    raw.InvoiceRef,
		Notes:         raw.Notes,
		Tracking:      raw.Tracking,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
	}

	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	var items []models.OrderItem
	if err := decodeOrderField(raw.Items, &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	for i := range items {
		item := &items[i]
		if item.ProductID == "" && item.Product.ID != uuid.Nil {
			item.ProductID = item.Product.ID.String()
		}
		if item.Product.ID == uuid.Nil && item.ProductID != "" {
			if product, ok := products[item.ProductID]; ok {
				item.Product = product
			}
		}
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	order.Items = items

	var address models.ShippingAddress
	if err := decodeOrderField(raw.ShippingAddress, &address); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if address != (models.ShippingAddress{}) {
		order.ShippingAddress = &address
	}

	var option models.ShippingOption
	if err := decodeOrderField(raw.ShippingOption, &option); err != nil {
		return nil, fmt.Errorf("decode shipping option: %w", err)
	}
	if option != (models.ShippingOption{}) {
		order.ShippingOption = &option
	}

	return order, nil
}

// marshalOrderFields serializes the denormalized parts of an order for the
// jsonb columns.
func marshalOrderFields(items []models.OrderItem, address *models.ShippingAddress, option *models.ShippingOption) (string, string, string, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal order items: %w", err)
	}
	var addressJSON, optionJSON []byte
	if address != nil {
		if addressJSON, err = json.Marshal(address); err != nil {
			return "", "", "", fmt.Errorf("marshal shipping address: %w", err)
		}
	}
	if option != nil {
		if optionJSON, err = json.Marshal(option); err != nil {
			return "", "", "", fmt.Errorf("marshal shipping option: %w", err)
		}
	}
	return string(itemsJSON), string(addressJSON), string(optionJSON), nil
}
