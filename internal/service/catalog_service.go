// internal/service/catalog_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/printer"
	"pos-service/internal/repository"
	"pos-service/internal/utils"
)

// CatalogService handles items, categories, units and conversion rules
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	logger      *utils.ServiceLogger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(catalogRepo repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      utils.NewServiceLogger(logger, "catalog-service"),
	}
}

// ItemRequest represents item create/update payload
type ItemRequest struct {
	Name        string          `json:"name"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	DefaultUnit string          `json:"default_unit"`
	Price       decimal.Decimal `json:"price"`
	DefaultTax  decimal.Decimal `json:"default_tax"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

// CreateItem creates a new catalog item
func (cs *CatalogService) CreateItem(ctx context.Context, req *ItemRequest) (*model.Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}

	now := time.Now()
	item := &model.Item{
		ID:          uuid.New(),
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		DefaultUnit: printer.NormalizeUnit(req.DefaultUnit),
		Price:       req.Price,
		DefaultTax:  req.DefaultTax,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := cs.catalogRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an item by id
func (cs *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return cs.catalogRepo.GetItem(ctx, id)
}

// ListItems retrieves items, optionally only active ones
func (cs *CatalogService) ListItems(ctx context.Context, activeOnly bool) ([]*model.Item, error) {
	return cs.catalogRepo.ListItems(ctx, activeOnly)
}

// UpdateItem updates an item
func (cs *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *ItemRequest) (*model.Item, error) {
	item, err := cs.catalogRepo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) != "" {
		item.Name = req.Name
	}
	if req.DefaultUnit != "" {
		item.DefaultUnit = printer.NormalizeUnit(req.DefaultUnit)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}
	item.CategoryID = req.CategoryID
	item.Price = req.Price
	item.DefaultTax = req.DefaultTax
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := cs.catalogRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item
func (cs *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return cs.catalogRepo.DeleteItem(ctx, id)
}

// CategoryRequest represents category create/update payload
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateCategory creates a new category
func (cs *CatalogService) CreateCategory(ctx context.Context, req *CategoryRequest) (*model.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := time.Now()
	category := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := cs.catalogRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves all categories
func (cs *CatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return cs.catalogRepo.ListCategories(ctx)
}

// UpdateCategory updates a category
func (cs *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *CategoryRequest) (*model.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	category := &model.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := cs.catalogRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category
func (cs *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return cs.catalogRepo.DeleteCategory(ctx, id)
}

// UnitRequest represents unit create payload
type UnitRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// CreateUnit creates a new measurement unit. The symbol is normalized
// to its printable ASCII form.
func (cs *CatalogService) CreateUnit(ctx context.Context, req *UnitRequest) (*model.Unit, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	unit := &model.Unit{
		ID:       uuid.New(),
		Name:     req.Name,
		Symbol:   printer.NormalizeUnit(req.Symbol),
		IsActive: true,
	}

	if err := cs.catalogRepo.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// ListUnits retrieves all units
func (cs *CatalogService) ListUnits(ctx context.Context) ([]*model.Unit, error) {
	return cs.catalogRepo.ListUnits(ctx)
}

// DeleteUnit removes a unit
func (cs *CatalogService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return cs.catalogRepo.DeleteUnit(ctx, id)
}

// ConversionRuleRequest represents conversion rule create/update payload
type ConversionRuleRequest struct {
	Name      string                    `json:"name"`
	FromUnit  string                    `json:"from_unit"`
	ToUnit    string                    `json:"to_unit"`
	Operation model.ConversionOperation `json:"operation"`
	Factor    float64                   `json:"factor"`
	Decimals  int                       `json:"decimals"`
	IsActive  *bool                     `json:"is_active,omitempty"`
}

// CreateConversionRule creates a new conversion rule
func (cs *CatalogService) CreateConversionRule(ctx context.Context, req *ConversionRuleRequest) (*model.ConversionRule, error) {
	if err := cs.validateConversionRule(req); err != nil {
		return nil, err
	}

	rule := &model.ConversionRule{
		ID:        uuid.New(),
		Name:      req.Name,
		FromUnit:  printer.NormalizeUnit(req.FromUnit),
		ToUnit:    printer.NormalizeUnit(req.ToUnit),
		Operation: req.Operation,
		Factor:    req.Factor,
		Decimals:  req.Decimals,
		IsActive:  true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := cs.catalogRepo.CreateConversionRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListConversionRules retrieves conversion rules
func (cs *CatalogService) ListConversionRules(ctx context.Context, activeOnly bool) ([]*model.ConversionRule, error) {
	return cs.catalogRepo.ListConversionRules(ctx, activeOnly)
}

// UpdateConversionRule updates a conversion rule
func (cs *CatalogService) UpdateConversionRule(ctx context.Context, id uuid.UUID, req *ConversionRuleRequest) (*model.ConversionRule, error) {
	if err := cs.validateConversionRule(req); err != nil {
		return nil, err
	}

	rule := &model.ConversionRule{
		ID:        id,
		Name:      req.Name,
		FromUnit:  printer.NormalizeUnit(req.FromUnit),
		ToUnit:    printer.NormalizeUnit(req.ToUnit),
		Operation: req.Operation,
		Factor:    req.Factor,
		Decimals:  req.Decimals,
		IsActive:  true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := cs.catalogRepo.UpdateConversionRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteConversionRule removes a conversion rule
func (cs *CatalogService) DeleteConversionRule(ctx context.Context, id uuid.UUID) error {
	return cs.catalogRepo.DeleteConversionRule(ctx, id)
}

// validateConversionRule validates a conversion rule payload
func (cs *CatalogService) validateConversionRule(req *ConversionRuleRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(req.FromUnit) == "" || strings.TrimSpace(req.ToUnit) == "" {
		return fmt.Errorf("from_unit and to_unit are required")
	}
	if req.Operation != model.ConversionOperationMultiply && req.Operation != model.ConversionOperationDivide {
		return fmt.Errorf("operation must be %s or %s", model.ConversionOperationMultiply, model.ConversionOperationDivide)
	}
	if req.Factor <= 0 {
		return fmt.Errorf("factor must be positive")
	}
	if req.Decimals < 0 || req.Decimals > 6 {
		return fmt.Errorf("decimals must be between 0 and 6")
	}
	return nil
}
