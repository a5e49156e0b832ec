package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"wholesale-backend/models"
	"wholesale-backend/repository"
	"wholesale-backend/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Australian address formats: four-digit postcode, landline or mobile phone.
var (
	postalCodePattern = regexp.MustCompile(`^\d{4}$`)
	phonePattern      = regexp.MustCompile(`^(\+?61|0)[2-478]\d{8}$`)
)

const idempotencyTTL = 24 * time.Hour

// CompleteOrderRequest finalizes a checkout. The idempotency key, when
// supplied by the client, makes retried submissions safe: a key that already
// maps to an order returns that order instead of creating a new one.
type CompleteOrderRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	UserName       string `json:"user_name"`
	Email          string `json:"email" binding:"required,email"`
}

// CheckoutService drives the linear cart -> shipping -> payment flow. Session
// state lives in Redis next to the cart; shipping quotes are versioned by
// QuoteSeq so the latest recalculation always wins.
type CheckoutService interface {
	GetSession(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError)
	BeginCheckout(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError)
	SubmitAddress(ctx context.Context, userID string, address models.ShippingAddress) (*models.CheckoutSession, *ServiceError)
	EditAddress(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError)
	RefreshOptions(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError)
	SelectOption(ctx context.Context, userID, optionID string) (*models.CheckoutSession, *ServiceError)
	CompleteOrder(ctx context.Context, userID string, req *CompleteOrderRequest) (*models.Order, *ServiceError)
}

type checkoutServiceImpl struct {
	carts        repository.CartRepository
	addresses    repository.AddressRepository
	orders       repository.OrderRepository
	shipping     *ShippingCalculator
	pricing      PricingService
	notification NotificationService
	snsClient    aws.SNSPublisher
	snsTopicArn  string
	logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	carts repository.CartRepository,
	addresses repository.AddressRepository,
	orders repository.OrderRepository,
	shipping *ShippingCalculator,
	pricing PricingService,
	notification NotificationService,
	snsClient aws.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:        carts,
		addresses:    addresses,
		orders:       orders,
		shipping:     shipping,
		pricing:      pricing,
		notification: notification,
		snsClient:    snsClient,
		snsTopicArn:  snsTopicArn,
		logger:       logger,
	}
}

func validateAddress(address *models.ShippingAddress) *ServiceError {
	if !postalCodePattern.MatchString(address.PostalCode) {
		return &ServiceError{StatusCode: 400, Message: "Postal code must be 4 digits"}
	}
	phone := strings.ReplaceAll(address.Phone, " ", "")
	if !phonePattern.MatchString(phone) {
		return &ServiceError{StatusCode: 400, Message: "Invalid Australian phone number"}
	}
	return nil
}

// GetSession returns the current checkout session, or a fresh cart-step
// session when none exists.
func (s *checkoutServiceImpl) GetSession(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, err := s.carts.GetSession(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load checkout session", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load checkout session"}
	}
	if session == nil {
		session = &models.CheckoutSession{UserID: userID, Step: models.StepCart}
	}
	return session, nil
}

// BeginCheckout starts a checkout for a non-empty cart. A previously saved
// address is prefilled and pre-confirmed so repeat buyers land straight on the
// option list.
func (s *checkoutServiceImpl) BeginCheckout(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	session := &models.CheckoutSession{
		UserID: userID,
		Step:   models.StepShipping,
	}

	saved, err := s.addresses.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load saved address", zap.String("user_id", userID), zap.Error(err))
	}
	if saved != nil {
		address := saved.Address()
		session.Address = &address
		session.AddressConfirmed = true
		if svcErr := s.quoteInto(ctx, session, cart); svcErr != nil {
			return nil, svcErr
		}
	}

	if err := s.carts.SaveSession(ctx, session); err != nil {
		s.logger.Error("Failed to save checkout session", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return session, nil
}

// quoteInto recomputes shipping options for the session's address and cart,
// bumping QuoteSeq and auto-selecting the first option.
func (s *checkoutServiceImpl) quoteInto(ctx context.Context, session *models.CheckoutSession, cart *models.Cart) *ServiceError {
	options, svcErr := s.shipping.CalculateOptions(ctx, cart.TotalWeightKg(), *session.Address, cart.Items)
	if svcErr != nil {
		return svcErr
	}
	session.QuoteSeq++
	session.Options = options
	session.SelectedOptionID = ""
	if len(options) > 0 {
		session.SelectedOptionID = options[0].ID
	}
	return nil
}

// SubmitAddress validates and records the delivery address, persists it for
// future checkouts, and quotes shipping options for it.
func (s *checkoutServiceImpl) SubmitAddress(ctx context.Context, userID string, address models.ShippingAddress) (*models.CheckoutSession, *ServiceError) {
	if svcErr := validateAddress(&address); svcErr != nil {
		return nil, svcErr
	}

	session, svcErr := s.GetSession(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session.Step == models.StepCart {
		return nil, &ServiceError{StatusCode: 409, Message: "Checkout has not been started"}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil || cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	record := &models.AddressRecord{
		UserID:     userID,
		Name:       address.Name,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
	}
	if err := s.addresses.Upsert(ctx, record); err != nil {
		// The saved address is a convenience; checkout continues without it.
		s.logger.Warn("Failed to save address", zap.String("user_id", userID), zap.Error(err))
	}

	session.Address = &address
	session.AddressConfirmed = true
	session.Step = models.StepShipping
	if svcErr := s.quoteInto(ctx, session, cart); svcErr != nil {
		return nil, svcErr
	}

	if err := s.carts.SaveSession(ctx, session); err != nil {
		s.logger.Error("Failed to save checkout session", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return session, nil
}

// EditAddress explicitly returns the flow to the shipping step so the address
// can be changed. Existing options and selection are cleared; the next
// SubmitAddress re-quotes.
func (s *checkoutServiceImpl) EditAddress(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.GetSession(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session.Step == models.StepCart {
		return nil, &ServiceError{StatusCode: 409, Message: "Checkout has not been started"}
	}

	session.Step = models.StepShipping
	session.AddressConfirmed = false
	session.Options = nil
	session.SelectedOptionID = ""

	if err := s.carts.SaveSession(ctx, session); err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return session, nil
}

// RefreshOptions recalculates shipping options for the current cart contents.
// Concurrent refreshes are ordered by QuoteSeq: a result computed against a
// sequence the session has since moved past is discarded and the stored
// session is returned instead.
func (s *checkoutServiceImpl) RefreshOptions(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.GetSession(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session.Address == nil || !session.AddressConfirmed {
		return nil, &ServiceError{StatusCode: 409, Message: "No confirmed delivery address"}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil || cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	startSeq := session.QuoteSeq
	options, svcErr := s.shipping.CalculateOptions(ctx, cart.TotalWeightKg(), *session.Address, cart.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	// Re-read the session: another recalculation may have landed while this
	// one was computing. Stale results lose.
	latest, err := s.carts.GetSession(ctx, userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load checkout session"}
	}
	if latest == nil || latest.QuoteSeq != startSeq {
		s.logger.Info("Discarding stale shipping quote", zap.String("user_id", userID), zap.Int64("seq", startSeq))
		if latest == nil {
			latest = &models.CheckoutSession{UserID: userID, Step: models.StepCart}
		}
		return latest, nil
	}

	latest.QuoteSeq++
	latest.Options = options
	latest.SelectedOptionID = ""
	if len(options) > 0 {
		latest.SelectedOptionID = options[0].ID
	}
	if err := s.carts.SaveSession(ctx, latest); err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return latest, nil
}

// SelectOption picks a shipping option from the latest quote and advances the
// flow to payment.
func (s *checkoutServiceImpl) SelectOption(ctx context.Context, userID, optionID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.GetSession(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session.Address == nil || !session.AddressConfirmed {
		return nil, &ServiceError{StatusCode: 409, Message: "No confirmed delivery address"}
	}

	found := false
	for _, opt := range session.Options {
		if opt.ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return nil, &ServiceError{StatusCode: 400, Message: "Shipping option is not available"}
	}

	session.SelectedOptionID = optionID
	session.Step = models.StepPayment

	if err := s.carts.SaveSession(ctx, session); err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return session, nil
}

// CompleteOrder finalizes the checkout: tier pricing is applied per line, the
// order total (items plus shipping) is frozen, the record is persisted, and
// only then are the best-effort steps run — idempotency record, event publish,
// notifications, cart and session cleanup. A persistence failure leaves the
// cart intact so the buyer can retry.
func (s *checkoutServiceImpl) CompleteOrder(ctx context.Context, userID string, req *CompleteOrderRequest) (*models.Order, *ServiceError) {
	if req.IdempotencyKey != "" {
		existingID, err := s.carts.GetIdempotency(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		} else if existingID != "" {
			if id, parseErr := uuid.Parse(existingID); parseErr == nil {
				if rec, findErr := s.orders.FindByID(ctx, id); findErr == nil {
					order, normErr := NormalizeOrder(rec.Raw(), nil)
					if normErr == nil {
						s.logger.Info("Replaying idempotent checkout", zap.String("order_id", existingID))
						return order, nil
					}
				}
			}
		}
	}

	session, svcErr := s.GetSession(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	// Defensive recheck: the session may have been edited in another tab
	// since the payment step rendered.
	if session.Address == nil || !session.AddressConfirmed {
		return nil, &ServiceError{StatusCode: 400, Message: "No confirmed delivery address"}
	}
	selected := session.SelectedOption()
	if selected == nil {
		return nil, &ServiceError{StatusCode: 400, Message: "No shipping option selected"}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	tierID, svcErr := s.pricing.TierFor(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	total := 0.0
	for _, cartItem := range cart.Items {
		item := models.OrderItem{
			ProductID: cartItem.Product.ID.String(),
			Product:   cartItem.Product,
			Quantity:  cartItem.Quantity,
		}
		effective, svcErr := s.pricing.EffectivePrice(ctx, &cartItem.Product, tierID)
		if svcErr != nil {
			return nil, svcErr
		}
		if effective != cartItem.Product.Price {
			price := effective
			item.UnitPrice = &price
		}
		total += item.LineTotal()
		items = append(items, item)
	}
	total += selected.Price

	itemsJSON, addressJSON, optionJSON, err := marshalOrderFields(items, session.Address, selected)
	if err != nil {
		s.logger.Error("Failed to encode order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	rec := &models.OrderRecord{
		OrderNumber:     NewOrderNumber(),
		UserID:          userID,
		UserName:        req.UserName,
		Email:           req.Email,
		Items:           itemsJSON,
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: addressJSON,
		ShippingOption:  optionJSON,
	}
	if err := s.orders.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to persist order", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	if req.IdempotencyKey != "" {
		if err := s.carts.SetIdempotency(ctx, req.IdempotencyKey, rec.ID.String(), idempotencyTTL); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}

	s.publishOrderCreated(ctx, rec, len(items))

	order, err := NormalizeOrder(rec.Raw(), nil)
	if err != nil {
		s.logger.Error("Failed to normalize created order", zap.String("order_id", rec.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to read order"}
	}

	s.notification.DispatchOrderNotifications(ctx, order)

	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.carts.DeleteSession(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear checkout session", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("Checkout completed",
		zap.String("user_id", userID),
		zap.String("order_id", rec.ID.String()),
		zap.Float64("total", rec.Total))

	return order, nil
}

func (s *checkoutServiceImpl) publishOrderCreated(ctx context.Context, rec *models.OrderRecord, itemCount int) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		return
	}
	event := models.OrderCreatedEvent{
		EventType:   "order_created",
		OrderID:     rec.ID.String(),
		OrderNumber: rec.OrderNumber,
		UserID:      rec.UserID,
		Total:       rec.Total,
		ItemCount:   itemCount,
		Timestamp:   time.Now(),
	}
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal SNS event", zap.Error(err))
		return
	}
	if err := s.snsClient.Publish(ctx, s.snsTopicArn, b); err != nil {
		s.logger.Error("Failed to publish SNS event", zap.Error(err))
	}
}
