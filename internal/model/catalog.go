// internal/model/catalog.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups items for the sales UI.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Item is a sellable product with a default unit and price.
type Item struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	CategoryID  *uuid.UUID      `json:"category_id" db:"category_id"`
	DefaultUnit string          `json:"default_unit" db:"default_unit"`
	Price       decimal.Decimal `json:"price" db:"price"`
	DefaultTax  decimal.Decimal `json:"default_tax" db:"default_tax"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Unit is a measurement unit (kg, m3, bag, ...).
type Unit struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Symbol   string    `json:"symbol" db:"symbol"`
	IsActive bool      `json:"is_active" db:"is_active"`
}

// ConversionOperation is how a conversion rule transforms a quantity
type ConversionOperation string

const (
	ConversionOperationMultiply ConversionOperation = "MULTIPLY"
	ConversionOperationDivide   ConversionOperation = "DIVIDE"
)

// ConversionRule converts a quantity from one unit to another, e.g.
// kilograms of sand into cubic meters.
type ConversionRule struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	FromUnit  string              `json:"from_unit" db:"from_unit"`
	ToUnit    string              `json:"to_unit" db:"to_unit"`
	Operation ConversionOperation `json:"operation" db:"operation"`
	Factor    float64             `json:"factor" db:"factor"`
	Decimals  int                 `json:"decimals" db:"decimals"`
	IsActive  bool                `json:"is_active" db:"is_active"`
}
