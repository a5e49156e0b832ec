package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wholesale-backend/models"
	"wholesale-backend/sender"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ---- mock cart repository (in-memory) ----

type mockCartRepo struct {
	carts        map[string]*models.Cart
	sessions     map[string]*models.CheckoutSession
	idempotency  map[string]string
	getCartErr   error
	saveCartErr  error
	saveSessErr  error
	getSessErr   error
	deletedCarts []string
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		carts:       map[string]*models.Cart{},
		sessions:    map[string]*models.CheckoutSession{},
		idempotency: map[string]string{},
	}
}

func (m *mockCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	if m.getCartErr != nil {
		return nil, m.getCartErr
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	clone := *cart
	clone.Items = append([]models.CartItem(nil), cart.Items...)
	return &clone, nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	if m.saveCartErr != nil {
		return m.saveCartErr
	}
	clone := *cart
	clone.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &clone
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, userID string) error {
	delete(m.carts, userID)
	m.deletedCarts = append(m.deletedCarts, userID)
	return nil
}

func (m *mockCartRepo) GetSession(_ context.Context, userID string) (*models.CheckoutSession, error) {
	if m.getSessErr != nil {
		return nil, m.getSessErr
	}
	session, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	clone := *session
	clone.Options = append([]models.ShippingOption(nil), session.Options...)
	return &clone, nil
}

func (m *mockCartRepo) SaveSession(_ context.Context, session *models.CheckoutSession) error {
	if m.saveSessErr != nil {
		return m.saveSessErr
	}
	clone := *session
	clone.Options = append([]models.ShippingOption(nil), session.Options...)
	m.sessions[session.UserID] = &clone
	return nil
}

func (m *mockCartRepo) DeleteSession(_ context.Context, userID string) error {
	delete(m.sessions, userID)
	return nil
}

func (m *mockCartRepo) GetIdempotency(_ context.Context, key string) (string, error) {
	return m.idempotency[key], nil
}

func (m *mockCartRepo) SetIdempotency(_ context.Context, key, orderID string, _ time.Duration) error {
	m.idempotency[key] = orderID
	return nil
}

// ---- mock product repository ----

type mockProductRepo struct {
	products map[uuid.UUID]models.Product
	findErr  error
}

func newMockProductRepo(products ...models.Product) *mockProductRepo {
	m := &mockProductRepo{products: map[uuid.UUID]models.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) FindAll(_ context.Context, _, _ int) ([]models.Product, int64, error) {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, int64(len(out)), m.findErr
}

func (m *mockProductRepo) FindByID(_ context.Context, productID uuid.UUID) (*models.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) FindByIDs(_ context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.Product, 0, len(productIDs))
	for _, id := range productIDs {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) FindCategories(_ context.Context) ([]models.Category, error) {
	return nil, nil
}
func (m *mockProductRepo) Create(_ context.Context, _ *models.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *models.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ uuid.UUID) error       { return nil }

// ---- mock settings repository ----

type mockSettingsRepo struct {
	mu       sync.Mutex
	settings *models.StoreSettings
	getErr   error
	saveErr  error
	logged   []models.NotificationLog
	onGet    func()
}

func newMockSettingsRepo() *mockSettingsRepo {
	settings := models.DefaultStoreSettings()
	return &mockSettingsRepo{settings: &settings}
}

func (m *mockSettingsRepo) Get(_ context.Context) (*models.StoreSettings, error) {
	if m.onGet != nil {
		m.onGet()
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	clone := *m.settings
	return &clone, nil
}

func (m *mockSettingsRepo) Save(_ context.Context, settings *models.StoreSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := *settings
	m.settings = &clone
	return nil
}

func (m *mockSettingsRepo) EnsureDefaults(_ context.Context) error {
	return nil
}

func (m *mockSettingsRepo) LogNotification(_ context.Context, entry *models.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logged = append(m.logged, *entry)
	return nil
}

func (m *mockSettingsRepo) setCategoryMOQ(table map[string]int) {
	b, _ := json.Marshal(table)
	m.settings.CategoryMOQ = string(b)
}

// ---- mock pricing repository ----

type mockPricingRepo struct {
	tiers     map[uuid.UUID]models.PricingTier
	prices    map[string]models.ProductPrice
	userTiers map[string]models.UserPricingTier
	findErr   error
}

func newMockPricingRepo() *mockPricingRepo {
	return &mockPricingRepo{
		tiers:     map[uuid.UUID]models.PricingTier{},
		prices:    map[string]models.ProductPrice{},
		userTiers: map[string]models.UserPricingTier{},
	}
}

func priceKey(productID, tierID uuid.UUID) string {
	return productID.String() + "/" + tierID.String()
}

func (m *mockPricingRepo) CreateTier(_ context.Context, tier *models.PricingTier) error {
	if tier.ID == uuid.Nil {
		tier.ID = uuid.New()
	}
	m.tiers[tier.ID] = *tier
	return nil
}

func (m *mockPricingRepo) UpdateTier(_ context.Context, tier *models.PricingTier) error {
	m.tiers[tier.ID] = *tier
	return nil
}

func (m *mockPricingRepo) DeleteTier(_ context.Context, tierID uuid.UUID) error {
	delete(m.tiers, tierID)
	return nil
}

func (m *mockPricingRepo) FindTier(_ context.Context, tierID uuid.UUID) (*models.PricingTier, error) {
	tier, ok := m.tiers[tierID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &tier, nil
}

func (m *mockPricingRepo) FindAllTiers(_ context.Context) ([]models.PricingTier, error) {
	out := make([]models.PricingTier, 0, len(m.tiers))
	for _, t := range m.tiers {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockPricingRepo) FindProductPrice(_ context.Context, productID, tierID uuid.UUID) (*models.ProductPrice, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	price, ok := m.prices[priceKey(productID, tierID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &price, nil
}

func (m *mockPricingRepo) FindPricesForTier(_ context.Context, tierID uuid.UUID) ([]models.ProductPrice, error) {
	var out []models.ProductPrice
	for _, p := range m.prices {
		if p.TierID == tierID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPricingRepo) SaveProductPrice(_ context.Context, price *models.ProductPrice) error {
	m.prices[priceKey(price.ProductID, price.TierID)] = *price
	return nil
}

func (m *mockPricingRepo) DeleteProductPrice(_ context.Context, productID, tierID uuid.UUID) error {
	delete(m.prices, priceKey(productID, tierID))
	return nil
}

func (m *mockPricingRepo) FindUserTier(_ context.Context, userID string) (*models.UserPricingTier, error) {
	assignment, ok := m.userTiers[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &assignment, nil
}

func (m *mockPricingRepo) AssignUserTier(_ context.Context, assignment *models.UserPricingTier) error {
	m.userTiers[assignment.UserID] = *assignment
	return nil
}

func (m *mockPricingRepo) UnassignUserTier(_ context.Context, userID string) error {
	delete(m.userTiers, userID)
	return nil
}

// ---- mock order repository ----

type mockOrderRepo struct {
	records   map[uuid.UUID]*models.OrderRecord
	createErr error
	updateErr error
	created   int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{records: map[uuid.UUID]*models.OrderRecord{}}
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID string, _, _ int) ([]models.OrderRecord, int64, error) {
	var out []models.OrderRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.OrderRecord, int64, error) {
	var out []models.OrderRecord
	for _, rec := range m.records {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.OrderRecord, error) {
	rec, ok := m.records[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, orderID uuid.UUID, userID string) (*models.OrderRecord, error) {
	rec, ok := m.records[orderID]
	if !ok || rec.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.OrderRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	clone := *order
	m.records[order.ID] = &clone
	m.created++
	return nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.OrderRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	clone := *order
	m.records[order.ID] = &clone
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, orderID uuid.UUID) error {
	delete(m.records, orderID)
	return nil
}

func (m *mockOrderRepo) SaveTracking(_ context.Context, tracking *models.TrackingRecord) error {
	if tracking.ID == uuid.Nil {
		tracking.ID = uuid.New()
	}
	return nil
}

func (m *mockOrderRepo) FindTracking(_ context.Context, _ uuid.UUID) (*models.TrackingRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

// ---- mock address repository ----

type mockAddressRepo struct {
	records map[string]*models.AddressRecord
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{records: map[string]*models.AddressRecord{}}
}

func (m *mockAddressRepo) FindByUserID(_ context.Context, userID string) (*models.AddressRecord, error) {
	rec, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (m *mockAddressRepo) Upsert(_ context.Context, record *models.AddressRecord) error {
	clone := *record
	m.records[record.UserID] = &clone
	return nil
}

// ---- mock email sender ----

type mockEmailSender struct {
	mu      sync.Mutex
	sent    []sender.Email
	sendErr error
}

func (m *mockEmailSender) Send(_ context.Context, msg sender.Email) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return sender.SendResult{}, m.sendErr
	}
	m.sent = append(m.sent, msg)
	return sender.SendResult{MessageID: "test", SentAt: time.Now()}, nil
}

// ---- mock SNS publisher ----

type mockSNSPublisher struct {
	published  [][]byte
	publishErr error
}

func (m *mockSNSPublisher) Publish(_ context.Context, _ string, message []byte) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, message)
	return nil
}
