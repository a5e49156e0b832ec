package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wholesale-backend/models"
	"wholesale-backend/repository"
	"wholesale-backend/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MetaData describes a page of results.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// OrderListResponse is a page of canonical orders.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

// ManualOrderItem is one line of an admin-created order. UnitPrice, when
// set, overrides the product base price for the line.
type ManualOrderItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	UnitPrice *float64  `json:"unit_price,omitempty"`
}

// ManualOrderRequest creates an order outside the checkout flow.
type ManualOrderRequest struct {
	UserID          string                  `json:"user_id" binding:"required"`
	UserName        string                  `json:"user_name"`
	Email           string                  `json:"email"`
	Items           []ManualOrderItem       `json:"items" binding:"required,dive"`
	PaymentMethod   string                  `json:"payment_method"`
	ShippingAddress *models.ShippingAddress `json:"shipping_address,omitempty"`
	ShippingOption  *models.ShippingOption  `json:"shipping_option,omitempty"`
	// Total, when set, is stored as-is; otherwise it is computed from the
	// lines plus shipping at creation time. Either way it becomes a frozen
	// snapshot.
	Total *float64 `json:"total,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

// OrderUpdateRequest mutates an existing order. Only supplied fields change;
// the stored total is never recomputed unless a new total is supplied.
type OrderUpdateRequest struct {
	Status        *string            `json:"status,omitempty"`
	Items         *[]ManualOrderItem `json:"items,omitempty"`
	Total         *float64           `json:"total,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	InvoiceStatus *string            `json:"invoice_status,omitempty"`
	InvoiceRef    *string            `json:"invoice_ref,omitempty"`
}

// TrackingRequest attaches shipment tracking to an order.
type TrackingRequest struct {
	TrackingNumber        string    `json:"tracking_number" binding:"required"`
	Carrier               string    `json:"carrier" binding:"required"`
	TrackingURL           string    `json:"tracking_url,omitempty"`
	ShippedDate           time.Time `json:"shipped_date"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
}

// OrderService is the order back office: reads always pass through the
// normalizer so every caller sees the same canonical shape regardless of how
// the record was stored.
type OrderService interface {
	GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, *ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError)
	GetOrder(ctx context.Context, orderID string, userID string) (*models.Order, *ServiceError)
	CreateManualOrder(ctx context.Context, req *ManualOrderRequest) (*models.Order, *ServiceError)
	UpdateOrder(ctx context.Context, orderID string, req *OrderUpdateRequest) (*models.Order, *ServiceError)
	DeleteOrder(ctx context.Context, orderID string) *ServiceError
	AddTracking(ctx context.Context, orderID string, req *TrackingRequest) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	snsClient   aws.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	snsClient aws.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orders:      orders,
		products:    products,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// NewOrderNumber generates a human-readable order reference token.
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// trackingURLFor derives a carrier tracking URL when one is not supplied.
func trackingURLFor(carrier, trackingNumber string) string {
	switch strings.ToLower(carrier) {
	case "australia post", "auspost":
		return "https://auspost.com.au/mypost/track/#/details/" + trackingNumber
	case "startrack":
		return "https://startrack.com.au/track/details/" + trackingNumber
	}
	return ""
}

// normalizeRecord turns a stored record into a canonical order, batch
// fetching any products the stored items reference without materializing.
func (s *orderServiceImpl) normalizeRecord(ctx context.Context, rec *models.OrderRecord) (*models.Order, *ServiceError) {
	order, err := NormalizeOrder(rec.Raw(), nil)
	if err != nil {
		s.logger.Error("Failed to normalize order", zap.String("order_id", rec.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to read order"}
	}

	var missing []uuid.UUID
	for _, item := range order.Items {
		if item.Product.ID == uuid.Nil && item.ProductID != "" {
			if id, parseErr := uuid.Parse(item.ProductID); parseErr == nil {
				missing = append(missing, id)
			}
		}
	}
	if len(missing) == 0 {
		return order, nil
	}

	fetched, err := s.products.FindByIDs(ctx, missing)
	if err != nil {
		s.logger.Warn("Product enrichment fetch failed", zap.String("order_id", rec.ID.String()), zap.Error(err))
		return order, nil
	}
	lookup := make(map[string]models.Product, len(fetched))
	for _, p := range fetched {
		lookup[p.ID.String()] = p
	}

	order, err = NormalizeOrder(rec.Raw(), lookup)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to read order"}
	}
	return order, nil
}

func (s *orderServiceImpl) normalizePage(ctx context.Context, records []models.OrderRecord, total int64, page, limit int) (*OrderListResponse, *ServiceError) {
	orders := make([]models.Order, 0, len(records))
	for i := range records {
		order, svcErr := s.normalizeRecord(ctx, &records[i])
		if svcErr != nil {
			return nil, svcErr
		}
		orders = append(orders, *order)
	}
	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}, nil
}

// GetUserOrders retrieves paginated orders for a specific user.
func (s *orderServiceImpl) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, *ServiceError) {
	records, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return s.normalizePage(ctx, records, total, page, limit)
}

// GetAllOrders retrieves paginated orders across all users (admin only).
func (s *orderServiceImpl) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError) {
	records, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return s.normalizePage(ctx, records, total, page, limit)
}

// GetOrder retrieves one order. An empty userID skips the ownership check
// (admin path).
func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string, userID string) (*models.Order, *ServiceError) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}

	var rec *models.OrderRecord
	if userID == "" {
		rec, err = s.orders.FindByID(ctx, id)
	} else {
		rec, err = s.orders.FindByIDAndUserID(ctx, id, userID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	return s.normalizeRecord(ctx, rec)
}

// buildItems materializes request lines into order items, carrying any
// unit-price override through.
func (s *orderServiceImpl) buildItems(ctx context.Context, reqItems []ManualOrderItem) ([]models.OrderItem, *ServiceError) {
	ids := make([]uuid.UUID, 0, len(reqItems))
	for _, item := range reqItems {
		ids = append(ids, item.ProductID)
	}
	fetched, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to fetch products for order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}
	lookup := make(map[uuid.UUID]models.Product, len(fetched))
	for _, p := range fetched {
		lookup[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		product, ok := lookup[reqItem.ProductID]
		if !ok {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Unknown product %s", reqItem.ProductID)}
		}
		if reqItem.Quantity <= 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Item quantity must be positive"}
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID.String(),
			Product:   product,
			Quantity:  reqItem.Quantity,
			UnitPrice: reqItem.UnitPrice,
		})
	}
	return items, nil
}

// CreateManualOrder persists an admin-created order, supporting per-line
// manual prices.
func (s *orderServiceImpl) CreateManualOrder(ctx context.Context, req *ManualOrderRequest) (*models.Order, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "At least one item is required"}
	}

	items, svcErr := s.buildItems(ctx, req.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	total := 0.0
	if req.Total != nil {
		total = *req.Total
	} else {
		for _, item := range items {
			total += item.LineTotal()
		}
		if req.ShippingOption != nil {
			total += req.ShippingOption.Price
		}
	}

	itemsJSON, addressJSON, optionJSON, err := marshalOrderFields(items, req.ShippingAddress, req.ShippingOption)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to encode order"}
	}

	rec := &models.OrderRecord{
		OrderNumber:     NewOrderNumber(),
		UserID:          req.UserID,
		UserName:        req.UserName,
		Email:           req.Email,
		Items:           itemsJSON,
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: addressJSON,
		ShippingOption:  optionJSON,
		Notes:           req.Notes,
	}
	if err := s.orders.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.publishEvent(ctx, models.OrderCreatedEvent{
		EventType:   "order_created",
		OrderID:     rec.ID.String(),
		OrderNumber: rec.OrderNumber,
		UserID:      rec.UserID,
		Total:       rec.Total,
		ItemCount:   len(items),
		Timestamp:   time.Now(),
	})

	return s.normalizeRecord(ctx, rec)
}

// UpdateOrder applies a partial update. Changing items does NOT recompute the
// stored total: the total is a frozen snapshot unless the request supplies a
// new one.
func (s *orderServiceImpl) UpdateOrder(ctx context.Context, orderID string, req *OrderUpdateRequest) (*models.Order, *ServiceError) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}
	rec, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	if req.Status != nil {
		if !models.ValidOrderStatus(*req.Status) {
			return nil, &ServiceError{StatusCode: 400, Message: "Unknown order status"}
		}
		rec.Status = *req.Status
	}
	if req.Items != nil {
		items, svcErr := s.buildItems(ctx, *req.Items)
		if svcErr != nil {
			return nil, svcErr
		}
		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to encode order items"}
		}
		rec.Items = string(itemsJSON)
	}
	if req.Total != nil {
		rec.Total = *req.Total
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	if req.InvoiceStatus != nil {
		rec.InvoiceStatus = *req.InvoiceStatus
	}
	if req.InvoiceRef != nil {
		rec.InvoiceRef = *req.InvoiceRef
	}

	if err := s.orders.Update(ctx, rec); err != nil {
		s.logger.Error("Failed to update order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	return s.normalizeRecord(ctx, rec)
}

// DeleteOrder soft-deletes an order.
func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID string) *ServiceError {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete order", zap.String("order_id", orderID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete order"}
	}
	return nil
}

// AddTracking attaches tracking info to an order and moves it to shipped.
// Cancelled and delivered orders are not shipped-eligible.
func (s *orderServiceImpl) AddTracking(ctx context.Context, orderID string, req *TrackingRequest) (*models.Order, *ServiceError) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}
	rec, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	if rec.Status == models.OrderStatusCancelled || rec.Status == models.OrderStatusDelivered {
		return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Cannot add tracking to a %s order", rec.Status)}
	}

	trackingURL := req.TrackingURL
	if trackingURL == "" {
		trackingURL = trackingURLFor(req.Carrier, req.TrackingNumber)
	}
	shippedDate := req.ShippedDate
	if shippedDate.IsZero() {
		shippedDate = time.Now()
	}

	tracking := &models.TrackingRecord{
		OrderID:               rec.ID,
		TrackingNumber:        req.TrackingNumber,
		Carrier:               req.Carrier,
		TrackingURL:           trackingURL,
		ShippedDate:           shippedDate,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
	}
	if rec.Tracking != nil {
		tracking.ID = rec.Tracking.ID
		tracking.CreatedAt = rec.Tracking.CreatedAt
	}
	if err := s.orders.SaveTracking(ctx, tracking); err != nil {
		s.logger.Error("Failed to save tracking", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save tracking info"}
	}

	rec.Status = models.OrderStatusShipped
	rec.Tracking = tracking
	if err := s.orders.Update(ctx, rec); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	s.publishEvent(ctx, models.OrderShippedEvent{
		EventType:      "order_shipped",
		OrderID:        rec.ID.String(),
		OrderNumber:    rec.OrderNumber,
		UserID:         rec.UserID,
		TrackingNumber: tracking.TrackingNumber,
		Carrier:        tracking.Carrier,
		Timestamp:      time.Now(),
	})

	return s.normalizeRecord(ctx, rec)
}

// publishEvent marshals an event and publishes it to SNS (non-fatal on error).
func (s *orderServiceImpl) publishEvent(ctx context.Context, event interface{}) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		return
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

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
