package repository

import (
	"context"
	"errors"

	"wholesale-backend/models"

	"gorm.io/gorm"
)

// SettingsRepository reads and writes the single store-settings row. Admins
// mutate settings between requests, so callers must not cache the result.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Save(ctx context.Context, settings *models.StoreSettings) error
	EnsureDefaults(ctx context.Context) error
	LogNotification(ctx context.Context, entry *models.NotificationLog) error
}

// GormSettingsRepository implements SettingsRepository using GORM.
type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GormSettingsRepository) Save(ctx context.Context, settings *models.StoreSettings) error {
	settings.ID = 1
	return r.db.WithContext(ctx).Save(settings).Error
}

// EnsureDefaults seeds the settings row on first boot.
func (r *GormSettingsRepository) EnsureDefaults(ctx context.Context) error {
	var settings models.StoreSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultStoreSettings()
		return r.db.WithContext(ctx).Create(&defaults).Error
	}
	return err
}

func (r *GormSettingsRepository) LogNotification(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
