// internal/model/sale.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType distinguishes the two printable sale documents.
type DocumentType string

const (
	DocumentTypeReceipt      DocumentType = "RECEIPT"
	DocumentTypeDeliveryAuth DocumentType = "DELIVERY_AUTH"
)

// SaleStatus represents the payment status of a sale
type SaleStatus string

const (
	SaleStatusPaid      SaleStatus = "PAID"
	SaleStatusUnpaid    SaleStatus = "UNPAID"
	SaleStatusPartial   SaleStatus = "PARTIAL"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// Sale represents one sale transaction and its printable document header.
// Print counters only ever increase; they classify the next print of the
// matching document type as original (count == 0) or copy (count > 0).
type Sale struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	CustomerID         *uuid.UUID      `json:"customer_id" db:"customer_id"`
	DocType            DocumentType    `json:"doc_type" db:"doc_type"`
	DocumentNumber     string          `json:"document_number" db:"document_number"`
	IssuedAt           time.Time       `json:"issued_at" db:"issued_at"`
	Subtotal           decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax                decimal.Decimal `json:"tax" db:"tax"`
	Discount           decimal.Decimal `json:"discount" db:"discount"`
	Total              decimal.Decimal `json:"total" db:"total"`
	Status             SaleStatus      `json:"status" db:"status"`
	Notes              *string         `json:"notes" db:"notes"`
	ReceiptPrintCount  int             `json:"receipt_print_count" db:"receipt_print_count"`
	DeliveryPrintCount int             `json:"delivery_print_count" db:"delivery_print_count"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// PrintCount returns the print counter for the given document type.
func (s *Sale) PrintCount(docType DocumentType) int {
	if docType == DocumentTypeDeliveryAuth {
		return s.DeliveryPrintCount
	}
	return s.ReceiptPrintCount
}

// SaleItem is one line of a sale. Immutable once created.
type SaleItem struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	SaleID             uuid.UUID       `json:"sale_id" db:"sale_id"`
	ProductName        string          `json:"product_name" db:"product_name"`
	Quantity           float64         `json:"quantity" db:"quantity"`
	Unit               string          `json:"unit" db:"unit"`
	UnitPrice          decimal.Decimal `json:"unit_price" db:"unit_price"`
	Total              decimal.Decimal `json:"total" db:"total"`
	ConversionRuleName *string         `json:"conversion_rule_name" db:"conversion_rule_name"`
	ConvertedQuantity  *float64        `json:"converted_quantity" db:"converted_quantity"`
	ConvertedUnit      *string         `json:"converted_unit" db:"converted_unit"`
}

// HasConversion reports whether a conversion rule was applied to this line.
func (si *SaleItem) HasConversion() bool {
	return si.ConvertedQuantity != nil && si.ConvertedUnit != nil
}

// DeliveryInfo holds the per-sale driver/truck/weight record used on
// delivery authorization documents.
type DeliveryInfo struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SaleID          uuid.UUID `json:"sale_id" db:"sale_id"`
	DriverName      string    `json:"driver_name" db:"driver_name"`
	TruckPlate      string    `json:"truck_plate" db:"truck_plate"`
	EmptyWeight     float64   `json:"empty_weight" db:"empty_weight"`
	FullWeight      float64   `json:"full_weight" db:"full_weight"`
	DeliveryAddress string    `json:"delivery_address" db:"delivery_address"`
}

// NetWeight is the loaded weight minus the empty truck weight, in kilograms.
func (d *DeliveryInfo) NetWeight() float64 {
	return d.FullWeight - d.EmptyWeight
}
