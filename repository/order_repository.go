package repository

import (
	"context"

	"wholesale-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.OrderRecord, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.OrderRecord, int64, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.OrderRecord, error)
	FindByIDAndUserID(ctx context.Context, orderID uuid.UUID, userID string) (*models.OrderRecord, error)
	Create(ctx context.Context, order *models.OrderRecord) error
	Update(ctx context.Context, order *models.OrderRecord) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	SaveTracking(ctx context.Context, tracking *models.TrackingRecord) error
	FindTracking(ctx context.Context, orderID uuid.UUID) (*models.TrackingRecord, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByUserID retrieves orders for a specific user with pagination
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.OrderRecord, int64, error) {
	var orders []models.OrderRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Tracking").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindAll retrieves all orders with pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.OrderRecord, int64, error) {
	var orders []models.OrderRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.OrderRecord{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Tracking").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindByID retrieves an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.OrderRecord, error) {
	var order models.OrderRecord
	if err := r.db.WithContext(ctx).
		Preload("Tracking").
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndUserID retrieves a specific order for a user
func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, orderID uuid.UUID, userID string) (*models.OrderRecord, error) {
	var order models.OrderRecord
	if err := r.db.WithContext(ctx).
		Preload("Tracking").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Create creates a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *models.OrderRecord) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update updates an existing order. Last write wins; there is no optimistic
// concurrency check.
func (r *GormOrderRepository) Update(ctx context.Context, order *models.OrderRecord) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete soft-deletes an order
func (r *GormOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.OrderRecord{}, "id = ?", orderID).Error
}

// SaveTracking upserts the one-to-one tracking row for an order
func (r *GormOrderRepository) SaveTracking(ctx context.Context, tracking *models.TrackingRecord) error {
	return r.db.WithContext(ctx).Save(tracking).Error
}

// FindTracking retrieves the tracking row for an order
func (r *GormOrderRepository) FindTracking(ctx context.Context, orderID uuid.UUID) (*models.TrackingRecord, error) {
	var tracking models.TrackingRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&tracking).Error; err != nil {
		return nil, err
	}
	return &tracking, nil
}
