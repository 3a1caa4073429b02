// internal/service/settings_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/repository"
	"pos-service/internal/utils"
)

// SettingsService handles the single-row business settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	logger       *utils.ServiceLogger
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(settingsRepo repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       utils.NewServiceLogger(logger, "settings-service"),
	}
}

// SettingsRequest represents the editable settings fields. Document
// sequence counters are not editable; they only move through number
// allocation.
type SettingsRequest struct {
	BusinessName     string  `json:"business_name"`
	BusinessPhone    string  `json:"business_phone"`
	BusinessLocation string  `json:"business_location"`
	ReceiptFooter    string  `json:"receipt_footer"`
	PrinterAddress   string  `json:"printer_address"`
	PrinterName      string  `json:"printer_name"`
	ReceiptPrefix    string  `json:"receipt_prefix"`
	DeliveryPrefix   string  `json:"delivery_prefix"`
	Currency         string  `json:"currency"`
	ExchangeRate     float64 `json:"exchange_rate"`
}

// GetSettings retrieves the business settings
func (ss *SettingsService) GetSettings(ctx context.Context) (*model.BusinessSettings, error) {
	return ss.settingsRepo.Get(ctx)
}

// UpdateSettings updates the business settings
func (ss *SettingsService) UpdateSettings(ctx context.Context, req *SettingsRequest) (*model.BusinessSettings, error) {
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, fmt.Errorf("business_name is required")
	}
	if strings.TrimSpace(req.Currency) == "" {
		return nil, fmt.Errorf("currency is required")
	}
	if req.ExchangeRate <= 0 {
		return nil, fmt.Errorf("exchange_rate must be positive")
	}
	if req.PrinterAddress != "" && strings.Count(req.PrinterAddress, ":") == 5 {
		// MAC-shaped addresses get validated strictly
		if len(req.PrinterAddress) != 17 {
			return nil, fmt.Errorf("invalid printer MAC address: %s", req.PrinterAddress)
		}
	}

	settings, err := ss.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.BusinessName = req.BusinessName
	settings.BusinessPhone = req.BusinessPhone
	settings.BusinessLocation = req.BusinessLocation
	settings.ReceiptFooter = req.ReceiptFooter
	settings.PrinterAddress = req.PrinterAddress
	settings.PrinterName = req.PrinterName
	settings.ReceiptPrefix = req.ReceiptPrefix
	settings.DeliveryPrefix = req.DeliveryPrefix
	settings.Currency = req.Currency
	settings.ExchangeRate = req.ExchangeRate

	if err := ss.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	ss.logger.Info("Business settings updated", zap.String("business_name", settings.BusinessName))
	return settings, nil
}
