package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is a delivery address. Postal codes are four digits and
// phone numbers follow the AU pattern; both are validated at the checkout
// boundary, not here.
type ShippingAddress struct {
	Name       string `json:"name" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
	Phone      string `json:"phone" binding:"required"`
}

// AddressRecord is the per-user saved shipping address, one row per user.
type AddressRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"user_id"`
	Name       string    `gorm:"type:varchar(256)" json:"name"`
	Street     string    `gorm:"type:varchar(512)" json:"street"`
	City       string    `gorm:"type:varchar(128)" json:"city"`
	State      string    `gorm:"type:varchar(64)" json:"state"`
	PostalCode string    `gorm:"type:varchar(16)" json:"postal_code"`
	Country    string    `gorm:"type:varchar(64)" json:"country"`
	Phone      string    `gorm:"type:varchar(32)" json:"phone"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Address converts the stored row to its canonical shape.
func (r *AddressRecord) Address() ShippingAddress {
	return ShippingAddress{
		Name:       r.Name,
		Street:     r.Street,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Phone:      r.Phone,
	}
}

// DeliveryEstimate is a delivery-time estimate that tolerates both string
// ("2-4 business days") and bare-integer encodings found in stored records.
type DeliveryEstimate string

func (d *DeliveryEstimate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = DeliveryEstimate(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = DeliveryEstimate(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// FreeShippingOptionID is the sentinel option returned when a cart qualifies
// for free shipping. It is the only option offered in that case.
const FreeShippingOptionID = "free-shipping"

// ShippingOption is a single quoted delivery option.
type ShippingOption struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Carrier           string           `json:"carrier"`
	Price             float64          `json:"price"`
	EstimatedDelivery DeliveryEstimate `json:"estimated_delivery_days"`
	Description       string           `json:"description,omitempty"`
}

// IsFree reports whether this is the free-shipping sentinel.
func (o ShippingOption) IsFree() bool {
	return o.ID == FreeShippingOptionID
}
