// internal/model/settings.go
package model

import "time"

// BusinessSettings is the single-row business profile: receipt header
// fields, default printer, document numbering state and currency.
type BusinessSettings struct {
	ID                 int     `json:"id" db:"id"`
	BusinessName       string  `json:"business_name" db:"business_name"`
	BusinessPhone      string  `json:"business_phone" db:"business_phone"`
	BusinessLocation   string  `json:"business_location" db:"business_location"`
	ReceiptFooter      string  `json:"receipt_footer" db:"receipt_footer"`
	PrinterAddress     string  `json:"printer_address" db:"printer_address"`
	PrinterName        string  `json:"printer_name" db:"printer_name"`
	ReceiptPrefix      string  `json:"receipt_prefix" db:"receipt_prefix"`
	ReceiptNextNumber  int64   `json:"receipt_next_number" db:"receipt_next_number"`
	DeliveryPrefix     string  `json:"delivery_prefix" db:"delivery_prefix"`
	DeliveryNextNumber int64   `json:"delivery_next_number" db:"delivery_next_number"`
	Currency           string  `json:"currency" db:"currency"`
	ExchangeRate       float64 `json:"exchange_rate" db:"exchange_rate"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
