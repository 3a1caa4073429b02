// internal/service/print_service_test.go
package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-service/internal/config"
	"pos-service/internal/model"
	"pos-service/internal/printer"
	"pos-service/internal/protocol"
	"pos-service/internal/repository"
)

// stubConn is an in-memory protocol channel
type stubConn struct {
	open     bool
	writeErr error
	written  []byte
}

func (c *stubConn) Open(ctx context.Context) error { c.open = true; return nil }
func (c *stubConn) Close() error                   { c.open = false; return nil }
func (c *stubConn) IsOpen() bool                   { return c.open }
func (c *stubConn) Write(ctx context.Context, data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, data...)
	return nil
}
func (c *stubConn) Read(ctx context.Context, maxBytes int) ([]byte, error) { return nil, nil }
func (c *stubConn) GetProtocolType() model.ConnectionType                  { return model.ConnectionTypeBluetooth }
func (c *stubConn) Ping(ctx context.Context) error                         { return nil }

// stubSaleRepo holds one sale in memory
type stubSaleRepo struct {
	sale      *model.Sale
	items     []model.SaleItem
	delivery  *model.DeliveryInfo
	increment int
}

func (r *stubSaleRepo) Create(ctx context.Context, sale *model.Sale, items []model.SaleItem, delivery *model.DeliveryInfo) error {
	r.sale = sale
	r.items = items
	r.delivery = delivery
	return nil
}

func (r *stubSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	if r.sale == nil || r.sale.ID != id {
		return nil, fmt.Errorf("sale not found with id: %s", id)
	}
	copied := *r.sale
	return &copied, nil
}

func (r *stubSaleRepo) GetItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	return r.items, nil
}

func (r *stubSaleRepo) GetDeliveryInfo(ctx context.Context, saleID uuid.UUID) (*model.DeliveryInfo, error) {
	return r.delivery, nil
}

func (r *stubSaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*model.Sale, error) {
	return []*model.Sale{r.sale}, nil
}

func (r *stubSaleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubSaleRepo) IncrementPrintCount(ctx context.Context, id uuid.UUID, docType model.DocumentType) (*model.Sale, error) {
	r.increment++
	if docType == model.DocumentTypeDeliveryAuth {
		r.sale.DeliveryPrintCount++
	} else {
		r.sale.ReceiptPrintCount++
	}
	copied := *r.sale
	return &copied, nil
}

// stubCustomerRepo returns not-found for every lookup
type stubCustomerRepo struct{}

func (r *stubCustomerRepo) Create(ctx context.Context, customer *model.Customer) error { return nil }
func (r *stubCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return nil, fmt.Errorf("customer not found with id: %s", id)
}
func (r *stubCustomerRepo) List(ctx context.Context) ([]*model.Customer, error)        { return nil, nil }
func (r *stubCustomerRepo) Update(ctx context.Context, customer *model.Customer) error { return nil }
func (r *stubCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error             { return nil }

// stubSettingsRepo serves fixed settings
type stubSettingsRepo struct {
	settings model.BusinessSettings
}

func (r *stubSettingsRepo) Get(ctx context.Context) (*model.BusinessSettings, error) {
	copied := r.settings
	return &copied, nil
}

func (r *stubSettingsRepo) Update(ctx context.Context, settings *model.BusinessSettings) error {
	r.settings = *settings
	return nil
}

func (r *stubSettingsRepo) AllocateDocumentNumber(ctx context.Context, docType model.DocumentType) (string, error) {
	if docType == model.DocumentTypeDeliveryAuth {
		r.settings.DeliveryNextNumber++
		return fmt.Sprintf("%s%06d", r.settings.DeliveryPrefix, r.settings.DeliveryNextNumber-1), nil
	}
	r.settings.ReceiptNextNumber++
	return fmt.Sprintf("%s%06d", r.settings.ReceiptPrefix, r.settings.ReceiptNextNumber-1), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Printer: config.PrinterConfig{
			PaperWidth:     32,
			ConnectTimeout: 5 * time.Second,
		},
	}
}

func newTestPrintService(t *testing.T, conn *stubConn) (*PrintService, *stubSaleRepo) {
	t.Helper()

	logger := zap.NewNop()
	transport := printer.NewTransport(32, logger)
	transport.SetProtocolFactory(func(model.ConnectionType, map[string]interface{}, *zap.Logger) (protocol.DeviceProtocol, error) {
		return conn, nil
	})

	saleRepo := &stubSaleRepo{
		sale: &model.Sale{
			ID:             uuid.New(),
			DocType:        model.DocumentTypeReceipt,
			DocumentNumber: "RCP-000042",
			IssuedAt:       time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
			Subtotal:       decimal.NewFromInt(100),
			Tax:            decimal.NewFromInt(5),
			Discount:       decimal.Zero,
			Total:          decimal.NewFromInt(105),
			Status:         model.SaleStatusPaid,
		},
		items: []model.SaleItem{
			{
				ID:          uuid.New(),
				ProductName: "Sand",
				Quantity:    2000,
				Unit:        "kg",
				UnitPrice:   decimal.NewFromFloat(0.05),
				Total:       decimal.NewFromInt(100),
			},
		},
	}
	settingsRepo := &stubSettingsRepo{
		settings: model.BusinessSettings{
			ID:           1,
			BusinessName: "Dromex Materials",
			Currency:     "USD",
			ExchangeRate: 1.0,
		},
	}

	ps := NewPrintService(transport, printer.NewDocumentFormatter(32), nil,
		saleRepo, &stubCustomerRepo{}, settingsRepo, testConfig(), logger)
	return ps, saleRepo
}

func connect(t *testing.T, ps *PrintService) {
	t.Helper()
	state, err := ps.Connect(context.Background(), &ConnectRequest{
		Address: "AA:BB:CC:DD:EE:FF",
		Type:    model.ConnectionTypeBluetooth,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !state.IsConnected() {
		t.Fatalf("Connect() state = %s, want connected", state.Status)
	}
}

func TestPrintSaleDocumentNotConnected(t *testing.T) {
	ps, saleRepo := newTestPrintService(t, &stubConn{})

	result, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeReceipt)
	if err != nil {
		t.Fatalf("PrintSaleDocument() error = %v", err)
	}
	if result.Success {
		t.Error("expected failure when printer is disconnected")
	}
	if result.Message != "Not connected" {
		t.Errorf("Message = %q, want %q", result.Message, "Not connected")
	}
	if saleRepo.increment != 0 {
		t.Errorf("print count incremented %d times on failed print", saleRepo.increment)
	}
}

func TestPrintSaleDocumentIncrementsCounter(t *testing.T) {
	conn := &stubConn{}
	ps, saleRepo := newTestPrintService(t, conn)
	connect(t, ps)

	result, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeReceipt)
	if err != nil {
		t.Fatalf("PrintSaleDocument() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("PrintSaleDocument() failed: %s", result.Message)
	}
	if saleRepo.increment != 1 {
		t.Errorf("increment calls = %d, want 1", saleRepo.increment)
	}
	if saleRepo.sale.ReceiptPrintCount != 1 {
		t.Errorf("ReceiptPrintCount = %d, want 1", saleRepo.sale.ReceiptPrintCount)
	}

	// First print is the original
	if !strings.Contains(string(conn.written), "*** ORIGINAL ***") {
		t.Error("first print should carry the ORIGINAL marker")
	}
}

func TestPrintSaleDocumentReprintMarker(t *testing.T) {
	conn := &stubConn{}
	ps, saleRepo := newTestPrintService(t, conn)
	connect(t, ps)

	if _, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeReceipt); err != nil {
		t.Fatalf("first print error = %v", err)
	}

	conn.written = nil
	result, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeReceipt)
	if err != nil {
		t.Fatalf("second print error = %v", err)
	}
	if !result.Success {
		t.Fatalf("second print failed: %s", result.Message)
	}
	if !strings.Contains(string(conn.written), "*** COPY / REPRINT ***") {
		t.Error("second print should carry the COPY / REPRINT marker")
	}
	if saleRepo.sale.ReceiptPrintCount != 2 {
		t.Errorf("ReceiptPrintCount = %d, want 2", saleRepo.sale.ReceiptPrintCount)
	}
}

func TestPrintSaleDocumentCountersPerDocType(t *testing.T) {
	conn := &stubConn{}
	ps, saleRepo := newTestPrintService(t, conn)
	saleRepo.delivery = &model.DeliveryInfo{
		ID:          uuid.New(),
		SaleID:      saleRepo.sale.ID,
		DriverName:  "Ahmed",
		TruckPlate:  "TRK-991",
		EmptyWeight: 8000,
		FullWeight:  9500,
	}
	connect(t, ps)

	if _, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeReceipt); err != nil {
		t.Fatalf("receipt print error = %v", err)
	}

	conn.written = nil
	result, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeDeliveryAuth)
	if err != nil {
		t.Fatalf("delivery print error = %v", err)
	}
	if !result.Success {
		t.Fatalf("delivery print failed: %s", result.Message)
	}

	// The delivery counter is independent of the receipt counter, so
	// the first delivery print is still an original.
	if !strings.Contains(string(conn.written), "*** ORIGINAL ***") {
		t.Error("first delivery print should carry the ORIGINAL marker")
	}
	if saleRepo.sale.ReceiptPrintCount != 1 || saleRepo.sale.DeliveryPrintCount != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)",
			saleRepo.sale.ReceiptPrintCount, saleRepo.sale.DeliveryPrintCount)
	}
}

func TestPrintSaleDocumentWriteFailure(t *testing.T) {
	conn := &stubConn{}
	ps, saleRepo := newTestPrintService(t, conn)
	connect(t, ps)
	conn.writeErr = fmt.Errorf("tty gone")

	result, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeReceipt)
	if err != nil {
		t.Fatalf("PrintSaleDocument() error = %v", err)
	}
	if result.Success {
		t.Error("expected failure on write error")
	}
	if !strings.HasPrefix(result.Message, "Print failed:") {
		t.Errorf("Message = %q, want Print failed prefix", result.Message)
	}
	if saleRepo.increment != 0 {
		t.Error("print count must not move when the print failed")
	}
	if ps.Status().Status != model.ConnectionStatusDisconnected {
		t.Errorf("status after write error = %s, want disconnected", ps.Status().Status)
	}
	if ps.Status().LastError == "" {
		t.Error("expected last error to be recorded")
	}
}

func TestPrintDeliveryAuthWithoutDeliveryInfo(t *testing.T) {
	ps, saleRepo := newTestPrintService(t, &stubConn{})
	connect(t, ps)

	_, err := ps.PrintSaleDocument(context.Background(), saleRepo.sale.ID, model.DocumentTypeDeliveryAuth)
	if err == nil {
		t.Fatal("expected error for delivery print without delivery info")
	}
}

func TestPrintTestPageNotConnected(t *testing.T) {
	ps, _ := newTestPrintService(t, &stubConn{})

	result := ps.PrintTestPage(context.Background())
	if result.Success {
		t.Error("expected failure when disconnected")
	}
	if result.Message != "Not connected" {
		t.Errorf("Message = %q, want %q", result.Message, "Not connected")
	}
}

func TestPrintPlainText(t *testing.T) {
	conn := &stubConn{}
	ps, _ := newTestPrintService(t, conn)
	connect(t, ps)

	result := ps.PrintPlainText(context.Background(), "hello printer")
	if !result.Success {
		t.Fatalf("PrintPlainText() failed: %s", result.Message)
	}
	if !strings.Contains(string(conn.written), "hello printer") {
		t.Error("printed bytes should contain the text")
	}
}

func TestConnectFallsBackToSettingsAddress(t *testing.T) {
	conn := &stubConn{}
	ps, _ := newTestPrintService(t, conn)

	// Seed the configured printer
	if err := ps.settingsRepo.Update(context.Background(), &model.BusinessSettings{
		ID:             1,
		BusinessName:   "Dromex Materials",
		PrinterAddress: "AA:BB:CC:DD:EE:FF",
		PrinterName:    "Kitchen58",
		Currency:       "USD",
		ExchangeRate:   1.0,
	}); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	state, err := ps.Connect(context.Background(), &ConnectRequest{})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if state.DeviceAddress != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("DeviceAddress = %q, want settings address", state.DeviceAddress)
	}
	if state.DeviceName != "Kitchen58" {
		t.Errorf("DeviceName = %q, want %q", state.DeviceName, "Kitchen58")
	}
}
