package models

import (
	"encoding/json"
	"strings"
	"time"
)

// StoreSettings is the single-row table of admin-mutable business settings.
// These are deliberately not env config: an admin can change them between
// requests, so callers read them fresh on every use.
type StoreSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Free shipping kicks in when the cart holds at least this many units of
	// protein-category products.
	FreeShippingThreshold int    `gorm:"not null;default:12" json:"free_shipping_threshold"`
	FreeShippingLabel     string `gorm:"type:varchar(256)" json:"free_shipping_label"`
	FreeShippingEstimate  string `gorm:"type:varchar(128)" json:"free_shipping_estimate"`
	// Category name -> minimum aggregate order quantity, stored as JSON.
	CategoryMOQ string `gorm:"type:jsonb" json:"category_moq"`
	// Notification recipients, each independently toggled.
	FromEmail      string    `gorm:"type:varchar(256)" json:"from_email"`
	NotifyCustomer bool      `gorm:"not null;default:true" json:"notify_customer"`
	NotifySales    bool      `gorm:"not null;default:true" json:"notify_sales"`
	SalesEmail     string    `gorm:"type:varchar(256)" json:"sales_email"`
	NotifyDispatch bool      `gorm:"not null;default:true" json:"notify_dispatch"`
	DispatchEmail  string    `gorm:"type:varchar(256)" json:"dispatch_email"`
	NotifyAccounts bool      `gorm:"not null;default:false" json:"notify_accounts"`
	AccountsEmail  string    `gorm:"type:varchar(256)" json:"accounts_email"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultStoreSettings returns the seed row used on first boot.
func DefaultStoreSettings() StoreSettings {
	moq, _ := json.Marshal(map[string]int{"protein powder": 12})
	return StoreSettings{
		ID:                    1,
		FreeShippingThreshold: 12,
		FreeShippingLabel:     "Free Shipping",
		FreeShippingEstimate:  "3-7 business days",
		CategoryMOQ:           string(moq),
		NotifyCustomer:        true,
		NotifySales:           true,
		NotifyDispatch:        true,
	}
}

// CategoryMOQTable decodes the category MOQ mapping with lower-cased keys.
func (s *StoreSettings) CategoryMOQTable() map[string]int {
	table := map[string]int{}
	if s.CategoryMOQ == "" {
		return table
	}
	var decoded map[string]int
	if err := json.Unmarshal([]byte(s.CategoryMOQ), &decoded); err != nil {
		return table
	}
	for name, moq := range decoded {
		table[strings.ToLower(name)] = moq
	}
	return table
}

// NotificationLog records every outbound notification attempt.
type NotificationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"type:varchar(64);index" json:"order_id"`
	Recipient string    `gorm:"type:varchar(256)" json:"recipient"`
	Class     string    `gorm:"type:varchar(32)" json:"class"`
	Subject   string    `gorm:"type:varchar(512)" json:"subject"`
	Status    string    `gorm:"type:varchar(16)" json:"status"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
