// internal/repository/settings_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"pos-service/internal/database"
	"pos-service/internal/model"
)

// settingsRepository implements SettingsRepository interface
type settingsRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB, logger *zap.Logger) SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

const settingsColumns = `
	id, business_name, business_phone, business_location, receipt_footer,
	printer_address, printer_name, receipt_prefix, receipt_next_number,
	delivery_prefix, delivery_next_number, currency, exchange_rate, updated_at
`

// Get retrieves the single business settings row
func (r *settingsRepository) Get(ctx context.Context) (*model.BusinessSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM business_settings WHERE id = 1`

	settings := &model.BusinessSettings{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.ID, &settings.BusinessName, &settings.BusinessPhone,
		&settings.BusinessLocation, &settings.ReceiptFooter,
		&settings.PrinterAddress, &settings.PrinterName,
		&settings.ReceiptPrefix, &settings.ReceiptNextNumber,
		&settings.DeliveryPrefix, &settings.DeliveryNextNumber,
		&settings.Currency, &settings.ExchangeRate, &settings.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("business settings not initialized")
		}
		return nil, fmt.Errorf("failed to get business settings: %w", err)
	}

	return settings, nil
}

// Update writes the editable settings fields. The sequence counters are
// only touched through AllocateDocumentNumber.
func (r *settingsRepository) Update(ctx context.Context, settings *model.BusinessSettings) error {
	query := `
		UPDATE business_settings
		SET business_name = $1, business_phone = $2, business_location = $3,
			receipt_footer = $4, printer_address = $5, printer_name = $6,
			receipt_prefix = $7, delivery_prefix = $8,
			currency = $9, exchange_rate = $10, updated_at = NOW()
		WHERE id = 1
	`

	result, err := r.db.ExecContext(ctx, query,
		settings.BusinessName, settings.BusinessPhone, settings.BusinessLocation,
		settings.ReceiptFooter, settings.PrinterAddress, settings.PrinterName,
		settings.ReceiptPrefix, settings.DeliveryPrefix,
		settings.Currency, settings.ExchangeRate,
	)
	if err != nil {
		return fmt.Errorf("failed to update business settings: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("business settings not initialized")
	}

	r.logger.Info("Business settings updated", zap.String("business_name", settings.BusinessName))
	return nil
}

// AllocateDocumentNumber atomically reserves the next number in the
// sequence for the document type and returns it formatted with the
// configured prefix, e.g. "RCP-000042".
func (r *settingsRepository) AllocateDocumentNumber(ctx context.Context, docType model.DocumentType) (string, error) {
	column := "receipt_next_number"
	prefixColumn := "receipt_prefix"
	if docType == model.DocumentTypeDeliveryAuth {
		column = "delivery_next_number"
		prefixColumn = "delivery_prefix"
	}

	// RETURNING gives back the incremented value, so the reserved
	// number is the returned value minus one.
	query := fmt.Sprintf(`
		UPDATE business_settings
		SET %s = %s + 1, updated_at = NOW()
		WHERE id = 1
		RETURNING %s, %s`, column, column, prefixColumn, column)

	var prefix string
	var next int64
	err := r.db.QueryRowContext(ctx, query).Scan(&prefix, &next)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("business settings not initialized")
		}
		return "", fmt.Errorf("failed to allocate document number: %w", err)
	}

	number := fmt.Sprintf("%s%06d", prefix, next-1)
	r.logger.Debug("Document number allocated",
		zap.String("doc_type", string(docType)),
		zap.String("document_number", number),
	)
	return number, nil
}
