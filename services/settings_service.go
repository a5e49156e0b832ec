package services

import (
	"context"
	"encoding/json"

	"wholesale-backend/models"
	"wholesale-backend/repository"

	"go.uber.org/zap"
)

// SettingsUpdateRequest is a partial update of the store settings. Only
// supplied fields change.
type SettingsUpdateRequest struct {
	FreeShippingThreshold *int            `json:"free_shipping_threshold,omitempty"`
	FreeShippingLabel     *string         `json:"free_shipping_label,omitempty"`
	FreeShippingEstimate  *string         `json:"free_shipping_estimate,omitempty"`
	CategoryMOQ           *map[string]int `json:"category_moq,omitempty"`
	FromEmail             *string         `json:"from_email,omitempty"`
	NotifyCustomer        *bool           `json:"notify_customer,omitempty"`
	NotifySales           *bool           `json:"notify_sales,omitempty"`
	SalesEmail            *string         `json:"sales_email,omitempty"`
	NotifyDispatch        *bool           `json:"notify_dispatch,omitempty"`
	DispatchEmail         *string         `json:"dispatch_email,omitempty"`
	NotifyAccounts        *bool           `json:"notify_accounts,omitempty"`
	AccountsEmail         *string         `json:"accounts_email,omitempty"`
}

// SettingsService is the admin surface over the store settings row. Reads go
// straight to the database; settings changed here take effect on the next
// request that consults them.
type SettingsService interface {
	GetSettings(ctx context.Context) (*models.StoreSettings, *ServiceError)
	UpdateSettings(ctx context.Context, req *SettingsUpdateRequest) (*models.StoreSettings, *ServiceError)
}

type settingsServiceImpl struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsServiceImpl{repo: repo, logger: logger}
}

func (s *settingsServiceImpl) GetSettings(ctx context.Context) (*models.StoreSettings, *ServiceError) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to read store settings", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to read settings"}
	}
	return settings, nil
}

func (s *settingsServiceImpl) UpdateSettings(ctx context.Context, req *SettingsUpdateRequest) (*models.StoreSettings, *ServiceError) {
	settings, svcErr := s.GetSettings(ctx)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.FreeShippingThreshold != nil {
		if *req.FreeShippingThreshold < 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Free shipping threshold cannot be negative"}
		}
		settings.FreeShippingThreshold = *req.FreeShippingThreshold
	}
	if req.FreeShippingLabel != nil {
		settings.FreeShippingLabel = *req.FreeShippingLabel
	}
	if req.FreeShippingEstimate != nil {
		settings.FreeShippingEstimate = *req.FreeShippingEstimate
	}
	if req.CategoryMOQ != nil {
		for name, moq := range *req.CategoryMOQ {
			if moq < 0 {
				return nil, &ServiceError{StatusCode: 400, Message: "Minimum order quantity for " + name + " cannot be negative"}
			}
		}
		b, err := json.Marshal(*req.CategoryMOQ)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid category MOQ table"}
		}
		settings.CategoryMOQ = string(b)
	}
	if req.FromEmail != nil {
		settings.FromEmail = *req.FromEmail
	}
	if req.NotifyCustomer != nil {
		settings.NotifyCustomer = *req.NotifyCustomer
	}
	if req.NotifySales != nil {
		settings.NotifySales = *req.NotifySales
	}
	if req.SalesEmail != nil {
		settings.SalesEmail = *req.SalesEmail
	}
	if req.NotifyDispatch != nil {
		settings.NotifyDispatch = *req.NotifyDispatch
	}
	if req.DispatchEmail != nil {
		settings.DispatchEmail = *req.DispatchEmail
	}
	if req.NotifyAccounts != nil {
		settings.NotifyAccounts = *req.NotifyAccounts
	}
	if req.AccountsEmail != nil {
		settings.AccountsEmail = *req.AccountsEmail
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Error("Failed to save store settings", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save settings"}
	}
	s.logger.Info("Store settings updated")
	return settings, nil
}
