// internal/service/sale_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-service/internal/model"
)

// stubCatalogRepo serves conversion rules by name
type stubCatalogRepo struct {
	rules map[string]*model.ConversionRule
}

func (r *stubCatalogRepo) CreateItem(ctx context.Context, item *model.Item) error { return nil }
func (r *stubCatalogRepo) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return nil, fmt.Errorf("item not found with id: %s", id)
}
func (r *stubCatalogRepo) ListItems(ctx context.Context, activeOnly bool) ([]*model.Item, error) {
	return nil, nil
}
func (r *stubCatalogRepo) UpdateItem(ctx context.Context, item *model.Item) error { return nil }
func (r *stubCatalogRepo) DeleteItem(ctx context.Context, id uuid.UUID) error     { return nil }

func (r *stubCatalogRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	return nil
}
func (r *stubCatalogRepo) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return nil, nil
}
func (r *stubCatalogRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	return nil
}
func (r *stubCatalogRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubCatalogRepo) CreateUnit(ctx context.Context, unit *model.Unit) error { return nil }
func (r *stubCatalogRepo) ListUnits(ctx context.Context) ([]*model.Unit, error)   { return nil, nil }
func (r *stubCatalogRepo) DeleteUnit(ctx context.Context, id uuid.UUID) error     { return nil }

func (r *stubCatalogRepo) CreateConversionRule(ctx context.Context, rule *model.ConversionRule) error {
	return nil
}
func (r *stubCatalogRepo) GetConversionRule(ctx context.Context, id uuid.UUID) (*model.ConversionRule, error) {
	return nil, fmt.Errorf("conversion rule not found: %s", id)
}
func (r *stubCatalogRepo) GetConversionRuleByName(ctx context.Context, name string) (*model.ConversionRule, error) {
	if rule, ok := r.rules[name]; ok {
		copied := *rule
		return &copied, nil
	}
	return nil, fmt.Errorf("conversion rule not found: %s", name)
}
func (r *stubCatalogRepo) ListConversionRules(ctx context.Context, activeOnly bool) ([]*model.ConversionRule, error) {
	return nil, nil
}
func (r *stubCatalogRepo) UpdateConversionRule(ctx context.Context, rule *model.ConversionRule) error {
	return nil
}
func (r *stubCatalogRepo) DeleteConversionRule(ctx context.Context, id uuid.UUID) error { return nil }

func newTestSaleService() (*SaleService, *stubSaleRepo, *stubSettingsRepo) {
	saleRepo := &stubSaleRepo{}
	settingsRepo := &stubSettingsRepo{
		settings: model.BusinessSettings{
			ID:                 1,
			BusinessName:       "Dromex Materials",
			ReceiptPrefix:      "RCP-",
			ReceiptNextNumber:  42,
			DeliveryPrefix:     "DLV-",
			DeliveryNextNumber: 7,
			Currency:           "USD",
			ExchangeRate:       1.0,
		},
	}
	catalogRepo := &stubCatalogRepo{
		rules: map[string]*model.ConversionRule{
			"sand-kg-to-m3": {
				ID:        uuid.New(),
				Name:      "sand-kg-to-m3",
				FromUnit:  "kg",
				ToUnit:    "m3",
				Operation: model.ConversionOperationDivide,
				Factor:    1600,
				Decimals:  2,
				IsActive:  true,
			},
			"bag-to-kg": {
				ID:        uuid.New(),
				Name:      "bag-to-kg",
				FromUnit:  "bag",
				ToUnit:    "kg",
				Operation: model.ConversionOperationMultiply,
				Factor:    50,
				Decimals:  0,
				IsActive:  true,
			},
			"stale": {
				ID:        uuid.New(),
				Name:      "stale",
				FromUnit:  "kg",
				ToUnit:    "t",
				Operation: model.ConversionOperationDivide,
				Factor:    1000,
				Decimals:  3,
				IsActive:  false,
			},
		},
	}

	ss := NewSaleService(saleRepo, &stubCustomerRepo{}, catalogRepo, settingsRepo, zap.NewNop())
	return ss, saleRepo, settingsRepo
}

func TestCreateSaleComputesTotals(t *testing.T) {
	ss, saleRepo, _ := newTestSaleService()

	details, err := ss.CreateSale(context.Background(), &CreateSaleRequest{
		DocType:  model.DocumentTypeReceipt,
		Status:   model.SaleStatusPaid,
		TaxRate:  5,
		Discount: decimal.NewFromInt(10),
		Items: []CreateSaleItemRequest{
			{ProductName: "Sand", Quantity: 2000, Unit: "kg", UnitPrice: decimal.NewFromFloat(0.05)},
			{ProductName: "Cement", Quantity: 4, Unit: "bag", UnitPrice: decimal.NewFromInt(25)},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	sale := details.Sale
	if got := sale.Subtotal.String(); got != "200" {
		t.Errorf("Subtotal = %s, want 200", got)
	}
	if got := sale.Tax.String(); got != "10" {
		t.Errorf("Tax = %s, want 10", got)
	}
	if got := sale.Total.String(); got != "200" {
		t.Errorf("Total = %s, want 200 (200 - 10 + 10)", got)
	}
	if sale.DocumentNumber != "RCP-000042" {
		t.Errorf("DocumentNumber = %q, want RCP-000042", sale.DocumentNumber)
	}
	if saleRepo.sale == nil {
		t.Fatal("sale was not persisted")
	}
	if len(details.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(details.Items))
	}
}

func TestCreateSaleDocumentNumbersAdvance(t *testing.T) {
	ss, _, settingsRepo := newTestSaleService()

	req := &CreateSaleRequest{
		DocType: model.DocumentTypeReceipt,
		Status:  model.SaleStatusPaid,
		Items: []CreateSaleItemRequest{
			{ProductName: "Gravel", Quantity: 1, Unit: "kg", UnitPrice: decimal.NewFromInt(1)},
		},
	}

	first, err := ss.CreateSale(context.Background(), req)
	if err != nil {
		t.Fatalf("first CreateSale() error = %v", err)
	}
	second, err := ss.CreateSale(context.Background(), req)
	if err != nil {
		t.Fatalf("second CreateSale() error = %v", err)
	}

	if first.Sale.DocumentNumber != "RCP-000042" || second.Sale.DocumentNumber != "RCP-000043" {
		t.Errorf("numbers = %q, %q; want RCP-000042, RCP-000043",
			first.Sale.DocumentNumber, second.Sale.DocumentNumber)
	}
	if settingsRepo.settings.ReceiptNextNumber != 44 {
		t.Errorf("ReceiptNextNumber = %d, want 44", settingsRepo.settings.ReceiptNextNumber)
	}
}

func TestCreateSaleAppliesDivideConversion(t *testing.T) {
	ss, _, _ := newTestSaleService()

	details, err := ss.CreateSale(context.Background(), &CreateSaleRequest{
		DocType: model.DocumentTypeReceipt,
		Status:  model.SaleStatusPaid,
		Items: []CreateSaleItemRequest{
			{
				ProductName:        "Sand",
				Quantity:           1920,
				Unit:               "kg",
				UnitPrice:          decimal.NewFromFloat(0.05),
				ConversionRuleName: "sand-kg-to-m3",
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	item := details.Items[0]
	if !item.HasConversion() {
		t.Fatal("expected conversion on the line")
	}
	if *item.ConvertedQuantity != 1.2 {
		t.Errorf("ConvertedQuantity = %v, want 1.2", *item.ConvertedQuantity)
	}
	if *item.ConvertedUnit != "m3" {
		t.Errorf("ConvertedUnit = %q, want m3", *item.ConvertedUnit)
	}
	if *item.ConversionRuleName != "sand-kg-to-m3" {
		t.Errorf("ConversionRuleName = %q", *item.ConversionRuleName)
	}
}

func TestCreateSaleAppliesMultiplyConversion(t *testing.T) {
	ss, _, _ := newTestSaleService()

	details, err := ss.CreateSale(context.Background(), &CreateSaleRequest{
		DocType: model.DocumentTypeReceipt,
		Status:  model.SaleStatusUnpaid,
		Items: []CreateSaleItemRequest{
			{
				ProductName:        "Cement",
				Quantity:           4,
				Unit:               "bag",
				UnitPrice:          decimal.NewFromInt(25),
				ConversionRuleName: "bag-to-kg",
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	item := details.Items[0]
	if *item.ConvertedQuantity != 200 {
		t.Errorf("ConvertedQuantity = %v, want 200", *item.ConvertedQuantity)
	}
	if *item.ConvertedUnit != "kg" {
		t.Errorf("ConvertedUnit = %q, want kg", *item.ConvertedUnit)
	}
}

func TestCreateSaleRejectsInactiveRule(t *testing.T) {
	ss, _, _ := newTestSaleService()

	_, err := ss.CreateSale(context.Background(), &CreateSaleRequest{
		DocType: model.DocumentTypeReceipt,
		Status:  model.SaleStatusPaid,
		Items: []CreateSaleItemRequest{
			{
				ProductName:        "Sand",
				Quantity:           100,
				Unit:               "kg",
				UnitPrice:          decimal.NewFromFloat(0.05),
				ConversionRuleName: "stale",
			},
		},
	})
	if err == nil {
		t.Fatal("expected error for inactive conversion rule")
	}
}

func TestCreateSaleValidation(t *testing.T) {
	ss, _, _ := newTestSaleService()

	cases := []struct {
		name string
		req  CreateSaleRequest
	}{
		{
			name: "no items",
			req: CreateSaleRequest{
				DocType: model.DocumentTypeReceipt,
				Status:  model.SaleStatusPaid,
			},
		},
		{
			name: "bad doc type",
			req: CreateSaleRequest{
				DocType: "INVOICE",
				Status:  model.SaleStatusPaid,
				Items: []CreateSaleItemRequest{
					{ProductName: "Sand", Quantity: 1, Unit: "kg", UnitPrice: decimal.NewFromInt(1)},
				},
			},
		},
		{
			name: "zero quantity",
			req: CreateSaleRequest{
				DocType: model.DocumentTypeReceipt,
				Status:  model.SaleStatusPaid,
				Items: []CreateSaleItemRequest{
					{ProductName: "Sand", Quantity: 0, Unit: "kg", UnitPrice: decimal.NewFromInt(1)},
				},
			},
		},
		{
			name: "delivery doc without delivery info",
			req: CreateSaleRequest{
				DocType: model.DocumentTypeDeliveryAuth,
				Status:  model.SaleStatusPaid,
				Items: []CreateSaleItemRequest{
					{ProductName: "Sand", Quantity: 1, Unit: "kg", UnitPrice: decimal.NewFromInt(1)},
				},
			},
		},
		{
			name: "full lighter than empty",
			req: CreateSaleRequest{
				DocType: model.DocumentTypeDeliveryAuth,
				Status:  model.SaleStatusPaid,
				Items: []CreateSaleItemRequest{
					{ProductName: "Sand", Quantity: 1, Unit: "kg", UnitPrice: decimal.NewFromInt(1)},
				},
				Delivery: &DeliveryRequest{EmptyWeight: 9000, FullWeight: 8000},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ss.CreateSale(context.Background(), &tc.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateSaleStoresDeliveryInfo(t *testing.T) {
	ss, saleRepo, _ := newTestSaleService()

	details, err := ss.CreateSale(context.Background(), &CreateSaleRequest{
		DocType: model.DocumentTypeDeliveryAuth,
		Status:  model.SaleStatusPaid,
		Items: []CreateSaleItemRequest{
			{ProductName: "Sand", Quantity: 1500, Unit: "kg", UnitPrice: decimal.NewFromFloat(0.05)},
		},
		Delivery: &DeliveryRequest{
			DriverName:      "Ahmed",
			TruckPlate:      "TRK-991",
			EmptyWeight:     8000,
			FullWeight:      9500,
			DeliveryAddress: "Site 4, North Road",
		},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	if details.Sale.DocumentNumber != "DLV-000007" {
		t.Errorf("DocumentNumber = %q, want DLV-000007", details.Sale.DocumentNumber)
	}
	if saleRepo.delivery == nil {
		t.Fatal("delivery info was not persisted")
	}
	if got := saleRepo.delivery.NetWeight(); got != 1500 {
		t.Errorf("NetWeight() = %v, want 1500", got)
	}
}
