// internal/repository/interfaces.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"pos-service/internal/model"
)

// SaleRepository handles sale persistence
type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale, items []model.SaleItem, delivery *model.DeliveryInfo) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	GetItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error)
	GetDeliveryInfo(ctx context.Context, saleID uuid.UUID) (*model.DeliveryInfo, error)
	List(ctx context.Context, filter SaleFilter) ([]*model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementPrintCount bumps the counter for one document type by
	// exactly one and returns the updated sale.
	IncrementPrintCount(ctx context.Context, id uuid.UUID, docType model.DocumentType) (*model.Sale, error)
}

// SaleFilter narrows sale listings
type SaleFilter struct {
	CustomerID *uuid.UUID
	DocType    *model.DocumentType
	Status     *model.SaleStatus
	Limit      int
	Offset     int
}

// CustomerRepository handles customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogRepository handles items, categories, units and conversion rules
type CatalogRepository interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListItems(ctx context.Context, activeOnly bool) ([]*model.Item, error)
	UpdateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, category *model.Category) error
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateUnit(ctx context.Context, unit *model.Unit) error
	ListUnits(ctx context.Context) ([]*model.Unit, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error

	CreateConversionRule(ctx context.Context, rule *model.ConversionRule) error
	GetConversionRule(ctx context.Context, id uuid.UUID) (*model.ConversionRule, error)
	GetConversionRuleByName(ctx context.Context, name string) (*model.ConversionRule, error)
	ListConversionRules(ctx context.Context, activeOnly bool) ([]*model.ConversionRule, error)
	UpdateConversionRule(ctx context.Context, rule *model.ConversionRule) error
	DeleteConversionRule(ctx context.Context, id uuid.UUID) error
}

// FleetRepository handles drivers and trucks
type FleetRepository interface {
	CreateDriver(ctx context.Context, driver *model.Driver) error
	ListDrivers(ctx context.Context, activeOnly bool) ([]*model.Driver, error)
	UpdateDriver(ctx context.Context, driver *model.Driver) error
	DeleteDriver(ctx context.Context, id uuid.UUID) error

	CreateTruck(ctx context.Context, truck *model.Truck) error
	ListTrucks(ctx context.Context, activeOnly bool) ([]*model.Truck, error)
	UpdateTruck(ctx context.Context, truck *model.Truck) error
	DeleteTruck(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository handles the single-row business settings
type SettingsRepository interface {
	Get(ctx context.Context) (*model.BusinessSettings, error)
	Update(ctx context.Context, settings *model.BusinessSettings) error

	// AllocateDocumentNumber atomically reserves the next sequence
	// number for the document type and returns the formatted number.
	AllocateDocumentNumber(ctx context.Context, docType model.DocumentType) (string, error)
}
