package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Invoice status values.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a single order line. The product is fully materialized for
// display. UnitPrice, when set, supersedes the product's base price for this
// line — manually priced admin orders rely on this.
type OrderItem struct {
	ProductID string   `json:"product_id"`
	Product   Product  `json:"product"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

// EffectiveUnitPrice returns the line's unit price: the override when present,
// otherwise the product base price.
func (i OrderItem) EffectiveUnitPrice() float64 {
	if i.UnitPrice != nil {
		return *i.UnitPrice
	}
	return i.Product.Price
}

// LineTotal returns quantity times the effective unit price.
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.EffectiveUnitPrice()
}

// TrackingInfo is the one-to-one shipment tracking detail for an order.
type TrackingInfo struct {
	TrackingNumber        string    `json:"tracking_number"`
	Carrier               string    `json:"carrier"`
	TrackingURL           string    `json:"tracking_url,omitempty"`
	ShippedDate           time.Time `json:"shipped_date"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
}

// Order is the canonical in-memory order shape produced by the normalizer and
// used by every read and write path. Total is a frozen snapshot taken at
// creation; it is never recomputed unless an update explicitly supplies a new
// one.
type Order struct {
	ID              string           `json:"id"`
	OrderNumber     string           `json:"order_number"`
	UserID          string           `json:"user_id"`
	UserName        string           `json:"user_name"`
	Email           string           `json:"email"`
	Items           []OrderItem      `json:"items"`
	Total           float64          `json:"total"`
	Status          string           `json:"status"`
	PaymentMethod   string           `json:"payment_method"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	ShippingOption  *ShippingOption  `json:"shipping_option,omitempty"`
	InvoiceStatus   string           `json:"invoice_status,omitempty"`
	InvoiceRef      string           `json:"invoice_ref,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Tracking        *TrackingInfo    `json:"tracking_info,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// OrderRecord is the Postgres row. Items, shipping address and shipping
// option are denormalized into jsonb columns; the normalizer turns a record
// back into the canonical Order.
type OrderRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID          string          `gorm:"type:varchar(128);not null;index" json:"user_id"`
	UserName        string          `gorm:"type:varchar(256)" json:"user_name"`
	Email           string          `gorm:"type:varchar(256)" json:"email"`
	Items           string          `gorm:"type:jsonb" json:"items"`
	Total           float64         `gorm:"not null" json:"total"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod   string          `gorm:"type:varchar(64)" json:"payment_method"`
	ShippingAddress string          `gorm:"type:jsonb" json:"shipping_address"`
	ShippingOption  string          `gorm:"type:jsonb" json:"shipping_option"`
	InvoiceStatus   string          `gorm:"type:varchar(20)" json:"invoice_status"`
	InvoiceRef      string          `gorm:"type:varchar(256)" json:"invoice_ref"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Tracking        *TrackingRecord `gorm:"foreignKey:OrderID" json:"tracking,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TrackingRecord is the Postgres row for shipment tracking, one per order.
type TrackingRecord struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID               uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	TrackingNumber        string    `gorm:"type:varchar(128);not null" json:"tracking_number"`
	Carrier               string    `gorm:"type:varchar(64)" json:"carrier"`
	TrackingURL           string    `gorm:"type:varchar(1024)" json:"tracking_url"`
	ShippedDate           time.Time `json:"shipped_date"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Info converts the stored row to its canonical shape.
func (r *TrackingRecord) Info() TrackingInfo {
	return TrackingInfo{
		TrackingNumber:        r.TrackingNumber,
		Carrier:               r.Carrier,
		TrackingURL:           r.TrackingURL,
		ShippedDate:           r.ShippedDate,
		EstimatedDeliveryDate: r.EstimatedDeliveryDate,
	}
}

// RawOrder is the heterogeneous order representation fed to the normalizer.
// Items, ShippingAddress and ShippingOption may be JSON text (fresh from the
// jsonb columns), decoded generic values, or already-canonical structures.
type RawOrder struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"order_number"`
	UserID          string        `json:"user_id"`
	UserName        string        `json:"user_name"`
	Email           string        `json:"email"`
	Items           interface{}   `json:"items"`
	Total           float64       `json:"total"`
	Status          string        `json:"status"`
	PaymentMethod   string        `json:"payment_method"`
	ShippingAddress interface{}   `json:"shipping_address"`
	ShippingOption  interface{}   `json:"shipping_option"`
	InvoiceStatus   string        `json:"invoice_status"`
	InvoiceRef      string        `json:"invoice_ref"`
	Notes           string        `json:"notes"`
	Tracking        *TrackingInfo `json:"tracking_info"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Raw converts a stored record into the normalizer input shape. The jsonb
// columns are handed over as text; the normalizer owns the decoding.
func (r *OrderRecord) Raw() RawOrder {
	raw := RawOrder{
		ID:            r.ID.String(),
		OrderNumber:   r.OrderNumber,
		UserID:        r.UserID,
		UserName:      r.UserName,
		Email:         r.Email,
		Total:         r.Total,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		InvoiceStatus: r.InvoiceStatus,
		InvoiceRef:    r.InvoiceRef,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Items != "" {
		raw.Items = r.Items
	}
	if r.ShippingAddress != "" {
		raw.ShippingAddress = r.ShippingAddress
	}
	if r.ShippingOption != "" {
		raw.ShippingOption = r.ShippingOption
	}
	if r.Tracking != nil {
		info := r.Tracking.Info()
		raw.Tracking = &info
	}
	return raw
}

// OrderCreatedEvent is published to SNS after an order is persisted.
type OrderCreatedEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// OrderShippedEvent is published to SNS when tracking info is attached.
type OrderShippedEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	UserID         string    `json:"user_id"`
	TrackingNumber string    `json:"tracking_number"`
	Carrier        string    `json:"carrier"`
	Timestamp      time.Time `json:"timestamp"`
}
