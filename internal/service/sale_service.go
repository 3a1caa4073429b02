// internal/service/sale_service.go
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/repository"
	"pos-service/internal/utils"
)

// SaleService handles sale business logic: document numbering, unit
// conversion and totals.
type SaleService struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	catalogRepo  repository.CatalogRepository
	settingsRepo repository.SettingsRepository
	logger       *utils.ServiceLogger
}

// NewSaleService creates a new sale service instance
func NewSaleService(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	catalogRepo repository.CatalogRepository,
	settingsRepo repository.SettingsRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		logger:       utils.NewServiceLogger(logger, "sale-service"),
	}
}

// CreateSaleRequest represents a new sale
type CreateSaleRequest struct {
	CustomerID *uuid.UUID              `json:"customer_id,omitempty"`
	DocType    model.DocumentType      `json:"doc_type"`
	Status     model.SaleStatus        `json:"status"`
	Notes      *string                 `json:"notes,omitempty"`
	Discount   decimal.Decimal         `json:"discount"`
	TaxRate    float64                 `json:"tax_rate"`
	Items      []CreateSaleItemRequest `json:"items"`
	Delivery   *DeliveryRequest        `json:"delivery,omitempty"`
}

// CreateSaleItemRequest represents one line of a new sale
type CreateSaleItemRequest struct {
	ProductName        string          `json:"product_name"`
	Quantity           float64         `json:"quantity"`
	Unit               string          `json:"unit"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	ConversionRuleName string          `json:"conversion_rule_name,omitempty"`
}

// DeliveryRequest represents the delivery record of a new sale
type DeliveryRequest struct {
	DriverName      string  `json:"driver_name"`
	TruckPlate      string  `json:"truck_plate"`
	EmptyWeight     float64 `json:"empty_weight"`
	FullWeight      float64 `json:"full_weight"`
	DeliveryAddress string  `json:"delivery_address"`
}

// SaleDetails bundles a sale with its related records
type SaleDetails struct {
	Sale     *model.Sale         `json:"sale"`
	Items    []model.SaleItem    `json:"items"`
	Customer *model.Customer     `json:"customer,omitempty"`
	Delivery *model.DeliveryInfo `json:"delivery,omitempty"`
}

// CreateSale creates a sale: allocates the document number, applies
// conversion rules to the line items and computes the totals.
func (ss *SaleService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*SaleDetails, error) {
	if err := ss.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CustomerID != nil {
		if _, err := ss.customerRepo.GetByID(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	saleID := uuid.New()
	subtotal := decimal.Zero
	items := make([]model.SaleItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		item := model.SaleItem{
			ID:          uuid.New(),
			SaleID:      saleID,
			ProductName: itemReq.ProductName,
			Quantity:    itemReq.Quantity,
			Unit:        itemReq.Unit,
			UnitPrice:   itemReq.UnitPrice,
			Total:       itemReq.UnitPrice.Mul(decimal.NewFromFloat(itemReq.Quantity)).Round(2),
		}

		if name := strings.TrimSpace(itemReq.ConversionRuleName); name != "" {
			if err := ss.applyConversion(ctx, &item, name); err != nil {
				return nil, err
			}
		}

		subtotal = subtotal.Add(item.Total)
		items = append(items, item)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(req.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Sub(req.Discount).Add(tax)

	documentNumber, err := ss.settingsRepo.AllocateDocumentNumber(ctx, req.DocType)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate document number: %w", err)
	}

	now := time.Now()
	sale := &model.Sale{
		ID:             saleID,
		CustomerID:     req.CustomerID,
		DocType:        req.DocType,
		DocumentNumber: documentNumber,
		IssuedAt:       now,
		Subtotal:       subtotal,
		Tax:            tax,
		Discount:       req.Discount,
		Total:          total,
		Status:         req.Status,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var delivery *model.DeliveryInfo
	if req.Delivery != nil {
		delivery = &model.DeliveryInfo{
			ID:              uuid.New(),
			SaleID:          saleID,
			DriverName:      req.Delivery.DriverName,
			TruckPlate:      req.Delivery.TruckPlate,
			EmptyWeight:     req.Delivery.EmptyWeight,
			FullWeight:      req.Delivery.FullWeight,
			DeliveryAddress: req.Delivery.DeliveryAddress,
		}
	}

	if err := ss.saleRepo.Create(ctx, sale, items, delivery); err != nil {
		return nil, err
	}

	ss.logger.Info("Sale created",
		zap.String("document_number", sale.DocumentNumber),
		zap.String("doc_type", string(sale.DocType)),
		zap.String("total", sale.Total.String()),
	)

	return ss.buildDetails(ctx, sale, items, delivery)
}

// GetSale retrieves a sale with its items, customer and delivery record
func (ss *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleDetails, error) {
	sale, err := ss.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := ss.saleRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	delivery, err := ss.saleRepo.GetDeliveryInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	return ss.buildDetails(ctx, sale, items, delivery)
}

// ListSales retrieves sales matching the filter
func (ss *SaleService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*model.Sale, error) {
	return ss.saleRepo.List(ctx, filter)
}

// DeleteSale removes a sale and its related records
func (ss *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return ss.saleRepo.Delete(ctx, id)
}

// applyConversion resolves the named rule and records the converted
// quantity and unit on the line.
func (ss *SaleService) applyConversion(ctx context.Context, item *model.SaleItem, ruleName string) error {
	rule, err := ss.catalogRepo.GetConversionRuleByName(ctx, ruleName)
	if err != nil {
		return err
	}
	if !rule.IsActive {
		return fmt.Errorf("conversion rule is inactive: %s", ruleName)
	}

	var converted float64
	switch rule.Operation {
	case model.ConversionOperationMultiply:
		converted = item.Quantity * rule.Factor
	case model.ConversionOperationDivide:
		if rule.Factor == 0 {
			return fmt.Errorf("conversion rule %s has zero factor", ruleName)
		}
		converted = item.Quantity / rule.Factor
	default:
		return fmt.Errorf("unknown conversion operation: %s", rule.Operation)
	}

	converted = roundTo(converted, rule.Decimals)
	convertedUnit := rule.ToUnit

	item.ConversionRuleName = &rule.Name
	item.ConvertedQuantity = &converted
	item.ConvertedUnit = &convertedUnit
	return nil
}

// buildDetails attaches the customer record when the sale has one
func (ss *SaleService) buildDetails(ctx context.Context, sale *model.Sale, items []model.SaleItem, delivery *model.DeliveryInfo) (*SaleDetails, error) {
	details := &SaleDetails{
		Sale:     sale,
		Items:    items,
		Delivery: delivery,
	}

	if sale.CustomerID != nil {
		customer, err := ss.customerRepo.GetByID(ctx, *sale.CustomerID)
		if err != nil {
			ss.logger.Warn("Customer lookup failed", zap.Error(err))
		} else {
			details.Customer = customer
		}
	}

	return details, nil
}

// validateCreateRequest validates a sale creation request
func (ss *SaleService) validateCreateRequest(req *CreateSaleRequest) error {
	if req.DocType != model.DocumentTypeReceipt && req.DocType != model.DocumentTypeDeliveryAuth {
		return fmt.Errorf("doc_type must be %s or %s", model.DocumentTypeReceipt, model.DocumentTypeDeliveryAuth)
	}
	if req.Status == "" {
		return fmt.Errorf("status is required")
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return fmt.Errorf("items[%d].product_name is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("items[%d].quantity must be positive", i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("items[%d].unit_price cannot be negative", i)
		}
	}
	if req.Discount.IsNegative() {
		return fmt.Errorf("discount cannot be negative")
	}
	if req.TaxRate < 0 {
		return fmt.Errorf("tax_rate cannot be negative")
	}
	if req.DocType == model.DocumentTypeDeliveryAuth {
		if req.Delivery == nil {
			return fmt.Errorf("delivery information is required for %s", model.DocumentTypeDeliveryAuth)
		}
		if req.Delivery.FullWeight < req.Delivery.EmptyWeight {
			return fmt.Errorf("full_weight cannot be less than empty_weight")
		}
	}
	return nil
}

// roundTo rounds half away from zero to the given number of decimals
func roundTo(value float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
