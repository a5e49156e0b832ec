package models

import "time"

// Checkout steps. The flow is linear: cart -> shipping -> payment. An
// explicit edit action may return to shipping; nothing else moves backwards.
const (
	StepCart     = "cart"
	StepShipping = "shipping"
	StepPayment  = "payment"
)

// CheckoutSession is the per-user checkout state persisted in Redis alongside
// the cart. A missing session means the user is back at the cart step.
type CheckoutSession struct {
	UserID           string           `json:"user_id"`
	Step             string           `json:"step"`
	Address          *ShippingAddress `json:"address,omitempty"`
	AddressConfirmed bool             `json:"address_confirmed"`
	Options          []ShippingOption `json:"options,omitempty"`
	SelectedOptionID string           `json:"selected_option_id,omitempty"`
	PaymentMethod    string           `json:"payment_method,omitempty"`
	// QuoteSeq orders shipping-option recalculations; a result tagged with a
	// stale sequence is discarded (last write wins).
	QuoteSeq  int64     `json:"quote_seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SelectedOption returns the currently selected shipping option, if any.
func (s *CheckoutSession) SelectedOption() *ShippingOption {
	for i := range s.Options {
		if s.Options[i].ID == s.SelectedOptionID {
			return &s.Options[i]
		}
	}
	return nil
}
