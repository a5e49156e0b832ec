package repository

import (
	"context"
	"errors"

	"wholesale-backend/models"

	"gorm.io/gorm"
)

// AddressRepository stores the one saved shipping address per user.
type AddressRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.AddressRecord, error)
	Upsert(ctx context.Context, record *models.AddressRecord) error
}

// GormAddressRepository implements AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) AddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByUserID returns nil, nil when the user has no saved address.
func (r *GormAddressRepository) FindByUserID(ctx context.Context, userID string) (*models.AddressRecord, error) {
	var record models.AddressRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert saves the address keyed by user, replacing any existing row.
func (r *GormAddressRepository) Upsert(ctx context.Context, record *models.AddressRecord) error {
	var existing models.AddressRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", record.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(record).Error
}
